// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Command oqlc implements the compiler's command-line tooling: a
// top-level command registry, each command a Main(ctx, w, args) func.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
)

type Command struct {
	Name        string
	Description string
	Func        func(ctx context.Context, w io.Writer, args []string) error
}

var (
	commandNames = make([]string, 0, 4)
	commandsMap  = make(map[string]*Command)

	program = filepath.Base(os.Args[0])
)

func registerCommand(name, description string, fn func(ctx context.Context, w io.Writer, args []string) error) {
	if commandsMap[name] != nil {
		panic("command " + name + " already registered")
	}
	commandNames = append(commandNames, name)
	commandsMap[name] = &Command{Name: name, Description: description, Func: fn}
}

func init() {
	registerCommand("compile", "Load a platform configuration, optionally schedule a demo block, and write the platform as CBOR", compileMain)
	registerCommand("dump-platform", "Load a platform configuration and print its registries", dumpPlatformMain)
}

func main() {
	sort.Strings(commandNames)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

	var help bool
	flag.BoolVar(&help, "h", false, "Show this message and exit.")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s COMMAND [OPTIONS]\n\nCommands:\n", program)
		width := 0
		for _, n := range commandNames {
			if len(n) > width {
				width = len(n)
			}
		}
		for _, n := range commandNames {
			fmt.Fprintf(os.Stderr, "  %-*s  %s\n", width, n, commandsMap[n].Description)
		}
		os.Exit(2)
	}
	flag.Parse()

	args := flag.Args()
	if help || len(args) == 0 {
		flag.Usage()
	}

	cmd, ok := commandsMap[args[0]]
	if !ok {
		flag.Usage()
	}

	ctx := log.WithContext(context.Background())
	if err := cmd.Func(ctx, os.Stdout, args[1:]); err != nil {
		log.Fatal().Err(err).Str("command", args[0]).Msg("compile failed")
	}
}
