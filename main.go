// Copyright 2024 The zevm Authors
// This file is part of zevm.
//
// zevm is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// zevm is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with zevm. If not, see <http://www.gnu.org/licenses/>.

// Command zevm decodes a hex-encoded EVM program and symbolically
// explores every feasible path, forking at multi-outcome instructions
// and reporting how each path ends.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/aclements/go-z3/z3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/symbolic-vm/zevm/sym"
	"github.com/symbolic-vm/zevm/vm"
)

var (
	gasFlag      int64
	maxPathsFlag int
	maxStepsFlag int
	verboseFlag  bool
)

func main() {
	cmd := &cobra.Command{
		Use:   "zevm <hex-bytecode>",
		Short: "symbolically explore all paths of an EVM program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if verboseFlag {
				log.SetLevel(log.DebugLevel)
			}
			return explore(args[0])
		},
	}
	cmd.Flags().Int64Var(&gasFlag, "gas", -1, "initial gas; negative leaves gas symbolic")
	cmd.Flags().IntVar(&maxPathsFlag, "max-paths", 64, "maximum number of forked paths")
	cmd.Flags().IntVar(&maxStepsFlag, "max-steps", 256, "maximum number of exploration rounds")
	cmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func explore(hexCode string) error {
	code, err := hex.DecodeString(strings.TrimPrefix(hexCode, "0x"))
	if err != nil {
		return fmt.Errorf("decoding bytecode: %w", err)
	}
	program := vm.Decode(code)
	log.WithFields(log.Fields{
		"instructions": program.Len(),
		"jumpdests":    len(program.Destinations()),
	}).Debug("decoded program")

	ctx := z3.NewContext(nil)
	builder := sym.NewBuilder(ctx, program)
	if gasFlag >= 0 {
		builder.SetGas(gasFlag)
	}
	evm := builder.Build()

	for round := 0; round < maxStepsFlag; round++ {
		offers, err := evm.Step()
		if err != nil {
			return fmt.Errorf("step %d: %w", round, err)
		}
		if len(offers) == 0 {
			break
		}

		// Group the offered outcomes by execution, preserving order.
		var ids []sym.ExecutionID
		byExec := make(map[sym.ExecutionID][]sym.Outcome)
		for _, so := range offers {
			if _, ok := byExec[so.Execution]; !ok {
				ids = append(ids, so.Execution)
			}
			byExec[so.Execution] = append(byExec[so.Execution], so.Outcome)
		}

		for _, id := range ids {
			outcomes := byExec[id]
			// Fork before committing so every sibling still holds the
			// pre-commit state and offer list.
			for _, extra := range outcomes[1:] {
				if evm.NumExecutions() >= maxPathsFlag {
					log.WithField("execution", id).Warn("path budget exhausted, dropping outcome")
					continue
				}
				nid, err := evm.Fork(id)
				if err != nil {
					return err
				}
				if err := evm.Apply(nid, extra); err != nil {
					return err
				}
			}
			if err := evm.Apply(id, outcomes[0]); err != nil {
				return err
			}
		}
	}

	for id := 0; id < evm.NumExecutions(); id++ {
		ex, err := evm.Execution(sym.ExecutionID(id))
		if err != nil {
			return err
		}
		if reason, ok := ex.Reason(); ok {
			fmt.Printf("path %d: halted at pc %v: %v\n", id, ex.PC(), reason)
		} else {
			fmt.Printf("path %d: still running at pc %v\n", id, ex.PC())
		}
	}
	return nil
}
