// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/QuTech-Delft/OpenQL-sub006/access"
	"github.com/QuTech-Delft/OpenQL-sub006/config"
	"github.com/QuTech-Delft/OpenQL-sub006/ddg"
	"github.com/QuTech-Delft/OpenQL-sub006/ir"
	"github.com/QuTech-Delft/OpenQL-sub006/resource"
	"github.com/QuTech-Delft/OpenQL-sub006/sched"
	"github.com/rs/zerolog"
)

// compileMain loads a platform configuration, schedules a demonstration
// block built from the platform's own registered instructions against
// its configured resources, and writes the validated platform back out
// as CBOR. Building an IR program from
// quantum-program source text is explicitly out of scope; a real client supplies the IR directly through package ir.
func compileMain(ctx context.Context, w io.Writer, args []string) error {
	flags := flag.NewFlagSet("compile", flag.ExitOnError)
	platformPath := flags.String("platform", "", "Path to the platform configuration JSON file.")
	outPath := flags.String("o", "", "Path to write the validated platform CBOR to.")
	demo := flags.Bool("demo", false, "Schedule a demonstration block exercising every registered instruction type.")
	maxBlocked := flags.Int("max-blocked-cycles", 100, "Resource deadlock bound: consecutive no-progress cycle advances before giving up.")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *platformPath == "" || *outPath == "" {
		return fmt.Errorf("compile: -platform and -o are required")
	}

	log := zerolog.Ctx(ctx)

	data, err := os.ReadFile(*platformPath)
	if err != nil {
		return fmt.Errorf("compile: reading platform config: %w", err)
	}
	platform, err := config.Load(platformNameFrom(*platformPath), data)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	log.Info().Str("platform", platform.Name).Int("qubits", platform.Topology.NumQubits).Msg("loaded platform")

	if *demo {
		resourceConfigs, err := config.BuildResourceConfigs(platform.ResourceConfig)
		if err != nil {
			return fmt.Errorf("compile: %w", err)
		}
		manager := resource.NewManager(resourceConfigs)

		block, err := buildDemoBlock(platform)
		if err != nil {
			return fmt.Errorf("compile: building demo block: %w", err)
		}
		if err := scheduleBlock(block, manager, access.Flags{}, *maxBlocked, log); err != nil {
			return fmt.Errorf("compile: demo block: %w", err)
		}
		log.Info().Int("statements", len(block.Statements)).Msg("scheduled demo block")
		fmt.Fprintf(w, "demo block scheduled across %d cycles\n", finalCycle(block))
	}

	out, err := ir.MarshalPlatform(platform)
	if err != nil {
		return fmt.Errorf("compile: encoding result: %w", err)
	}
	if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		return fmt.Errorf("compile: writing %s: %w", *outPath, err)
	}
	fmt.Fprintf(w, "wrote %s\n", *outPath)
	return nil
}

// scheduleBlock runs the full analysis-and-scheduling pipeline over one
// block: build its DDG, instantiate a fresh resource state, schedule with
// a trivial criticality heuristic, and normalize cycles.
func scheduleBlock(block *ir.SubBlock, manager *resource.Manager, flags access.Flags, maxBlocked int, log *zerolog.Logger) error {
	if err := ddg.Build(block, flags); err != nil {
		return err
	}
	state, err := manager.NewState()
	if err != nil {
		return err
	}
	if err := sched.Run(block, state, sched.Options{MaxBlockedCycles: maxBlocked, Criticality: sched.Trivial{}, Log: log}); err != nil {
		return err
	}
	sched.ConvertCycles(block)
	return nil
}

func finalCycle(block *ir.SubBlock) int {
	max := 0
	for _, s := range block.Statements {
		if c := s.GetCycle(); c > max {
			max = c
		}
	}
	return max
}

// buildDemoBlock constructs a block applying every top-level instruction
// type registered on platform, round-robin across its main qubit
// register, so that -demo exercises the full access/DDG/scheduling
// pipeline without requiring quantum-program source syntax.
func buildDemoBlock(platform *ir.Platform) (*ir.SubBlock, error) {
	qreg := platform.MainQubitRegister()
	if qreg == nil {
		return nil, fmt.Errorf("platform %q has no qubit register", platform.Name)
	}
	bitType := platform.FindType("bit")
	intType := platform.FindType("int")
	if intType == nil {
		intType = ir.Int("int", true, 32)
	}
	nq := 1
	if len(qreg.Shape) > 0 {
		nq = qreg.Shape[0]
	}

	block := ir.NewSubBlock()
	qubitRef := func(i int) *ir.Expr {
		return ir.NewReference(qreg, []*ir.Expr{ir.NewLiteral(&ir.Literal{Type: intType, Int: int64(i % nq)})}, false)
	}

	next := 0
	for _, it := range platform.Instructions.All() {
		operands := make([]*ir.Expr, len(it.Operands))
		for i := range it.Operands {
			operands[i] = qubitRef(next)
			next++
		}
		stmt, err := ir.MakeInstruction(platform, bitType, it.Name, operands, nil, false, false)
		if err != nil {
			return nil, err
		}
		block.Append(stmt)
	}
	return block, nil
}

func platformNameFrom(path string) string {
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			base = path[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}
