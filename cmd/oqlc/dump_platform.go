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
	"strings"

	"github.com/QuTech-Delft/OpenQL-sub006/config"
	"github.com/QuTech-Delft/OpenQL-sub006/ir"
	"github.com/rs/zerolog"
)

// dumpPlatformMain loads a platform configuration and prints its type,
// physical-object, instruction, and topology registries in human-readable
// form, so a platform JSON file can be sanity-checked without writing a
// Go program against package ir directly.
func dumpPlatformMain(ctx context.Context, w io.Writer, args []string) error {
	flags := flag.NewFlagSet("dump-platform", flag.ExitOnError)
	platformPath := flags.String("platform", "", "Path to the platform configuration JSON file.")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *platformPath == "" {
		return fmt.Errorf("dump-platform: -platform is required")
	}

	log := zerolog.Ctx(ctx)

	data, err := os.ReadFile(*platformPath)
	if err != nil {
		return fmt.Errorf("dump-platform: reading platform config: %w", err)
	}
	platform, err := config.Load(platformNameFrom(*platformPath), data)
	if err != nil {
		return fmt.Errorf("dump-platform: %w", err)
	}
	log.Info().Str("platform", platform.Name).Msg("loaded platform")

	fmt.Fprintf(w, "platform %q (architecture %q)\n", platform.Name, platform.Architecture)

	fmt.Fprintln(w, "\ntypes:")
	for _, t := range platform.Types() {
		fmt.Fprintf(w, "  %-12s kind=%v\n", t.Name, t.Kind)
	}

	fmt.Fprintln(w, "\nphysical objects:")
	for _, o := range platform.Objects() {
		fmt.Fprintf(w, "  %-12s type=%-10s shape=%v\n", o.Name, o.Type.Name, o.Shape)
	}

	if platform.Topology != nil {
		fmt.Fprintf(w, "\ntopology: %d qubits, %d cores, %d edges\n",
			platform.Topology.NumQubits, platform.Topology.NumCores, len(platform.Topology.Edges))
	}

	fmt.Fprintln(w, "\ninstructions:")
	for _, it := range platform.Instructions.All() {
		dumpInstructionType(w, it, 1)
	}

	return nil
}

// dumpInstructionType prints it and recurses into its specialization tree,
// indenting one level per descent.
func dumpInstructionType(w io.Writer, it *ir.InstructionType, depth int) {
	indent := strings.Repeat("  ", depth)
	operands := make([]string, len(it.Operands))
	for i, op := range it.Operands {
		operands[i] = fmt.Sprintf("%v:%s", op.Mode, op.Type.Name)
	}
	fmt.Fprintf(w, "%s%-16s duration=%-4d operands=[%s]\n",
		indent, it.Name, it.Duration, strings.Join(operands, ", "))
	for _, child := range it.Specializations {
		dumpInstructionType(w, child, depth+1)
	}
}
