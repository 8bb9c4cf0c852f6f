// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command kernelc is the kernel to GLSL compiler CLI.
//
// Usage:
//
//	kernelc compile [-c kernel.toml] [-f json|msgpack|cbor] [-o out.glsl] <ast>...
//	kernelc prototype [-c kernel.toml] <ast>...
//	kernelc version
//
// Examples:
//
//	kernelc compile add.json                 # Options from add.toml if present
//	kernelc compile -c blur.toml blur.cbor   # Explicit manifest
//	kernelc prototype -v helpers/*.json      # Forward declarations, with debug logs
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"golang.org/x/term"
)

var (
	colorMode string
	verbosity int
)

var rootCmd = &cobra.Command{
	Use:           "kernelc",
	Short:         "Compile GPU kernel functions to GLSL",
	Long:          `kernelc translates kernel functions, given as ESTree syntax trees, into GLSL functions for the kernel runtime`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch colorMode {
		case "on":
			color.NoColor = false
		case "off":
			color.NoColor = true
		case "auto":
			color.NoColor = !isTerminal(os.Stderr)
		default:
			return fmt.Errorf("invalid --color %q (want auto|on|off)", colorMode)
		}
		commonlog.Configure(verbosity, nil)
		return nil
	},
}

func init() {
	rootCmd.Version = kernelcVersion

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(prototypeCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colorize diagnostics (auto|on|off)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
