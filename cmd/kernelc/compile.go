// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/gogpu/kernelgl"
	"github.com/gogpu/kernelgl/config"
	"github.com/gogpu/kernelgl/estree"
)

var (
	manifestPath string
	formatName   string
	outputPath   string
)

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&manifestPath, "config", "c", "", "kernel manifest (default: <input>.toml when present)")
	cmd.Flags().StringVarP(&formatName, "format", "f", "", "input encoding json|msgpack|cbor (default: by extension)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
}

func init() {
	addInputFlags(compileCmd)
	addInputFlags(prototypeCmd)
}

var compileCmd = &cobra.Command{
	Use:   "compile <ast>...",
	Short: "Translate kernels to GLSL functions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := compileInputs(cmd, args)
		if err != nil {
			return err
		}
		sources := make([]string, len(results))
		for i, r := range results {
			sources[i] = r.Source
		}
		return writeOutput(cmd.OutOrStdout(), strings.Join(sources, "\n\n")+"\n")
	},
}

var prototypeCmd = &cobra.Command{
	Use:   "prototype <ast>...",
	Short: "Print forward declarations of plain functions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := compileInputs(cmd, args)
		if err != nil {
			return err
		}
		var b strings.Builder
		for _, r := range results {
			if r.Prototype != "" {
				b.WriteString(r.Prototype)
				b.WriteByte('\n')
			}
		}
		return writeOutput(cmd.OutOrStdout(), b.String())
	},
}

// compileInputs reads every input with its manifest and compiles them
// concurrently.
func compileInputs(cmd *cobra.Command, paths []string) ([]*kernelgl.Result, error) {
	log := commonlog.GetLogger("kernelc")

	var shared *config.Kernel
	if manifestPath != "" {
		k, err := config.Load(manifestPath)
		if err != nil {
			return nil, err
		}
		shared = k
	}

	jobs := make([]kernelgl.Job, len(paths))
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}

		format := estree.DetectFormat(path)
		if formatName != "" {
			if format, err = estree.ParseFormat(formatName); err != nil {
				return nil, err
			}
		}

		manifest := shared
		if manifest == nil {
			if manifest, err = config.LoadFor(path); err != nil {
				return nil, err
			}
		}
		if manifest.Path != "" {
			log.Debugf("%s: options from %s", path, manifest.Path)
		}
		opts, err := manifest.Options()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		jobs[i] = kernelgl.Job{Name: path, Data: data, Format: format, Options: opts}
	}

	results, err := kernelgl.CompileAll(cmd.Context(), jobs)
	if err != nil {
		return nil, err
	}
	for i, r := range results {
		for _, w := range r.Warnings {
			printWarning(cmd.ErrOrStderr(), paths[i], w.String())
		}
	}
	return results, nil
}

func writeOutput(stdout io.Writer, text string) error {
	if outputPath == "" {
		_, err := io.WriteString(stdout, text)
		return err
	}
	if err := os.WriteFile(outputPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", outputPath, err)
	}
	return nil
}
