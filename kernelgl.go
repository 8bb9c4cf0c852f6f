// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package kernelgl compiles GPU kernel functions written in a numeric
// JavaScript subset into GLSL.
//
// Kernels arrive as ESTree syntax trees, the output of acorn, esprima and
// similar parsers, encoded as JSON, MessagePack or CBOR. Each kernel becomes
// one GLSL function that the kernel runtime splices into its fragment shader.
//
// Example usage:
//
//	opts := kernelgl.DefaultOptions()
//	opts.ArgumentTypes = []glsl.Type{glsl.TypeArray, glsl.TypeArray}
//	source, err := kernelgl.Compile(astJSON, estree.FormatJSON, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For the call registry, declarations and warnings, use CompileKernel:
//
//	fn, _ := kernelgl.Parse(astJSON, estree.FormatJSON)
//	result, err := kernelgl.CompileKernel(fn, opts)
package kernelgl

import (
	"context"
	"fmt"
	"runtime"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/kernelgl/estree"
	"github.com/gogpu/kernelgl/glsl"
)

// Result is a compiled kernel function and its metadata.
type Result struct {
	// Name is the emitted function name.
	Name string

	// Source is the GLSL text of the function.
	Source string

	// Prototype is the forward declaration; empty for root and sub kernels.
	Prototype string

	// CalledFunctions lists the callees with their argument shapes.
	CalledFunctions *glsl.CallRegistry

	// Declarations maps every argument and local to its semantic type.
	Declarations map[string]glsl.Type

	// Warnings collects non-fatal diagnostics.
	Warnings []glsl.Warning
}

// DefaultOptions returns options for a root kernel.
func DefaultOptions() glsl.Options {
	return glsl.DefaultOptions()
}

// Parse decodes an encoded syntax tree into the kernel function it holds.
func Parse(data []byte, format estree.Format) (*estree.Function, error) {
	fn, err := estree.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return fn, nil
}

// Compile decodes an encoded syntax tree and translates it to GLSL.
//
// The pipeline is:
//  1. Decode the tree (JSON, MessagePack or CBOR)
//  2. Translate the kernel function
//  3. Apply the encode/decode cleanup to the generated text
func Compile(data []byte, format estree.Format, opts glsl.Options) (string, error) {
	fn, err := Parse(data, format)
	if err != nil {
		return "", err
	}
	result, err := CompileKernel(fn, opts)
	if err != nil {
		return "", err
	}
	return result.Source, nil
}

// CompileKernel translates an already decoded kernel function.
func CompileKernel(fn *estree.Function, opts glsl.Options) (*Result, error) {
	log := commonlog.GetLogger("kernelgl")

	source, info, err := glsl.Compile(fn, opts)
	if err != nil {
		return nil, fmt.Errorf("translation error: %w", err)
	}
	for _, w := range info.Warnings {
		log.Infof("%s: %s", info.Name, w)
	}

	return &Result{
		Name:            info.Name,
		Source:          source,
		Prototype:       info.Prototype,
		CalledFunctions: info.CalledFunctions,
		Declarations:    info.Declarations,
		Warnings:        info.Warnings,
	}, nil
}

// Job is one kernel to compile with CompileAll.
type Job struct {
	// Name identifies the job in errors, usually the input path.
	Name string

	// Data is the encoded syntax tree.
	Data   []byte
	Format estree.Format

	Options glsl.Options
}

// CompileAll compiles jobs concurrently. Results are returned in job order.
// The first failure cancels the jobs that have not started yet.
func CompileAll(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(runtime.GOMAXPROCS(0), len(jobs)))

	for i, job := range jobs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			fn, err := Parse(job.Data, job.Format)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			result, err := CompileKernel(fn, job.Options)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	commonlog.GetLogger("kernelgl").Debugf("compiled %d kernels", len(jobs))
	return results, nil
}
