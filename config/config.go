// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package config loads kernel manifests: TOML files that carry the
// compilation options of one kernel function.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"github.com/gogpu/kernelgl/glsl"
)

// Kernel is the decoded form of a kernel manifest.
type Kernel struct {
	Name                       string               `toml:"name"`
	Unit                       glsl.Unit            `toml:"unit"`
	ReturnType                 glsl.Type            `toml:"return_type"`
	ArgumentTypes              []glsl.Type          `toml:"argument_types"`
	LoopMaxIterations          int64                `toml:"loop_max_iterations"`
	FixIntegerDivisionAccuracy bool                 `toml:"fix_integer_division_accuracy"`
	Constants                  map[string]glsl.Type `toml:"constants"`
	ReturnTypes                map[string]glsl.Type `toml:"return_types"`
	Plugins                    []Plugin             `toml:"plugins"`

	// Path is the file the manifest was read from (set at load time).
	Path string `toml:"-"`
}

// Plugin is one [[plugins]] entry.
type Plugin struct {
	Name               string    `toml:"name"`
	FunctionMatch      string    `toml:"function_match"`
	FunctionReplace    string    `toml:"function_replace"`
	FunctionReturnType glsl.Type `toml:"function_return_type"`
}

// Default returns the manifest used when none is given: a root kernel
// returning Number. The loop ceiling stays unset so the compiler applies
// its default and reports it.
func Default() *Kernel {
	return &Kernel{
		Unit:       glsl.UnitRoot,
		ReturnType: glsl.TypeNumber,
	}
}

// Load reads a manifest file.
func Load(path string) (*Kernel, error) {
	k := Default()
	meta, err := toml.DecodeFile(path, k)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := k.check(meta); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	k.Path = path
	return k, nil
}

// Parse decodes a manifest held in memory.
func Parse(data []byte) (*Kernel, error) {
	k := Default()
	meta, err := toml.Decode(string(data), k)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := k.check(meta); err != nil {
		return nil, err
	}
	return k, nil
}

// check rejects keys the manifest does not know and settings that cannot
// be honoured.
func (k *Kernel) check(meta toml.MetaData) error {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if meta.IsDefined("loop_max_iterations") && k.LoopMaxIterations < 0 {
		return fmt.Errorf("loop_max_iterations must not be negative, got %d", k.LoopMaxIterations)
	}
	for i, p := range k.Plugins {
		if strings.TrimSpace(p.FunctionMatch) == "" {
			return fmt.Errorf("plugins[%d]: missing function_match", i)
		}
		if p.FunctionReturnType == glsl.TypeInvalid {
			k.Plugins[i].FunctionReturnType = glsl.TypeNumber
		}
	}
	return nil
}

// Options converts the manifest into compiler options.
func (k *Kernel) Options() (glsl.Options, error) {
	ceiling, err := safecast.Conv[int](k.LoopMaxIterations)
	if err != nil {
		return glsl.Options{}, fmt.Errorf("loop_max_iterations: %w", err)
	}

	opts := glsl.Options{
		Name:                       k.Name,
		Unit:                       k.Unit,
		ArgumentTypes:              append([]glsl.Type(nil), k.ArgumentTypes...),
		ReturnType:                 k.ReturnType,
		ConstantTypes:              copyTypes(k.Constants),
		ReturnTypes:                copyTypes(k.ReturnTypes),
		LoopMaxIterations:          ceiling,
		FixIntegerDivisionAccuracy: k.FixIntegerDivisionAccuracy,
	}
	for _, p := range k.Plugins {
		opts.Plugins = append(opts.Plugins, glsl.Plugin{
			Name:               p.Name,
			FunctionMatch:      p.FunctionMatch,
			FunctionReplace:    p.FunctionReplace,
			FunctionReturnType: p.FunctionReturnType,
		})
	}
	return opts, nil
}

func copyTypes(m map[string]glsl.Type) map[string]glsl.Type {
	if m == nil {
		return nil
	}
	out := make(map[string]glsl.Type, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Sibling returns the manifest that accompanies an AST file: the same path
// with its extension replaced by ".toml".
func Sibling(astPath string) (string, bool, error) {
	candidate := strings.TrimSuffix(astPath, filepath.Ext(astPath)) + ".toml"
	if _, err := os.Stat(candidate); err == nil {
		return candidate, true, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
	}
	return "", false, nil
}

// LoadFor loads the sibling manifest of an AST file, or Default when there
// is none.
func LoadFor(astPath string) (*Kernel, error) {
	path, ok, err := Sibling(astPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}
