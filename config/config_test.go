// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/gogpu/kernelgl/estree"
	"github.com/gogpu/kernelgl/glsl"
)

const fullManifest = `
name = "blur"
unit = "sub"
return_type = "Array(4)"
argument_types = ["HTMLImage", "Integer", "Number"]
loop_max_iterations = 64
fix_integer_division_accuracy = true

[constants]
size = "Integer"
weights = "Array"

[return_types]
pixel = "Array(4)"

[[plugins]]
name = "random"
function_match = "Math.random()"
function_replace = "nrand(vTexCoord)"
`

func TestParse(t *testing.T) {
	k, err := Parse([]byte(fullManifest))
	be.Err(t, err, nil)

	be.Equal(t, k.Name, "blur")
	be.Equal(t, k.Unit, glsl.UnitSub)
	be.Equal(t, k.ReturnType, glsl.TypeArray4)
	be.Equal(t, k.ArgumentTypes, []glsl.Type{glsl.TypeHTMLImage, glsl.TypeInteger, glsl.TypeNumber})
	be.Equal(t, k.LoopMaxIterations, int64(64))
	be.True(t, k.FixIntegerDivisionAccuracy)
	be.Equal(t, k.Constants, map[string]glsl.Type{"size": glsl.TypeInteger, "weights": glsl.TypeArray})
	be.Equal(t, k.ReturnTypes["pixel"], glsl.TypeArray4)
	be.Equal(t, len(k.Plugins), 1)
	be.Equal(t, k.Plugins[0].FunctionMatch, "Math.random()")
	be.Equal(t, k.Plugins[0].FunctionReturnType, glsl.TypeNumber)
}

func TestParse_Defaults(t *testing.T) {
	k, err := Parse([]byte(`argument_types = ["Array"]`))
	be.Err(t, err, nil)

	be.Equal(t, k.Unit, glsl.UnitRoot)
	be.Equal(t, k.ReturnType, glsl.TypeNumber)
	be.Equal(t, k.LoopMaxIterations, int64(0))
	be.Equal(t, k.Name, "")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"unknown_type", `return_type = "Matrix"`, "unknown type"},
		{"unknown_unit", `unit = "vertex"`, "unknown unit"},
		{"unknown_key", `loop_max = 5`, "unknown keys: loop_max"},
		{"unknown_nested_key", "[[plugins]]\nfunction_match = \"f()\"\nreplace = \"g()\"", "plugins.replace"},
		{"negative_ceiling", `loop_max_iterations = -1`, "must not be negative"},
		{"plugin_without_match", "[[plugins]]\nfunction_replace = \"g()\"", "missing function_match"},
		{"syntax", `name = `, "failed to parse TOML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			be.Err(t, err, tt.want)
		})
	}
}

func TestKernel_Options(t *testing.T) {
	k, err := Parse([]byte(fullManifest))
	be.Err(t, err, nil)

	opts, err := k.Options()
	be.Err(t, err, nil)

	be.Equal(t, opts.Name, "blur")
	be.Equal(t, opts.Unit, glsl.UnitSub)
	be.Equal(t, opts.ReturnType, glsl.TypeArray4)
	be.Equal(t, opts.LoopMaxIterations, 64)
	be.True(t, opts.FixIntegerDivisionAccuracy)
	be.Equal(t, opts.ConstantTypes["size"], glsl.TypeInteger)
	be.Equal(t, opts.Plugins, []glsl.Plugin{{
		Name:               "random",
		FunctionMatch:      "Math.random()",
		FunctionReplace:    "nrand(vTexCoord)",
		FunctionReturnType: glsl.TypeNumber,
	}})

	// The options own their maps.
	opts.ConstantTypes["size"] = glsl.TypeNumber
	be.Equal(t, k.Constants["size"], glsl.TypeInteger)
}

func TestKernel_OptionsReportMissingCeiling(t *testing.T) {
	k, err := Parse([]byte(`argument_types = ["Array", "Number"]`))
	be.Err(t, err, nil)
	opts, err := k.Options()
	be.Err(t, err, nil)
	be.Equal(t, opts.LoopMaxIterations, 0)

	// function kernel(a, n) { for (var i = 0; i < n; i++) {} return 0; }
	fn := &estree.Function{
		Name:   "kernel",
		Params: []*estree.Identifier{{Name: "a"}, {Name: "n"}},
		Body: &estree.BlockStatement{Body: []estree.Stmt{
			&estree.ForStatement{
				Init: &estree.VariableDeclaration{DeclKind: "var", Declarations: []*estree.VariableDeclarator{
					{ID: &estree.Identifier{Name: "i"}, Init: &estree.Literal{Value: 0.0, Raw: "0"}},
				}},
				Test:   &estree.BinaryExpression{Operator: "<", Left: &estree.Identifier{Name: "i"}, Right: &estree.Identifier{Name: "n"}},
				Update: &estree.UpdateExpression{Operator: "++", Argument: &estree.Identifier{Name: "i"}},
				Body:   &estree.BlockStatement{},
			},
			&estree.ReturnStatement{Argument: &estree.Literal{Value: 0.0, Raw: "0"}},
		}},
	}

	source, info, err := glsl.Compile(fn, opts)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(source, "user_i<1000"))
	be.Equal(t, len(info.Warnings), 1)
	be.True(t, strings.Contains(info.Warnings[0].Message, "1000"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blur.toml")
	if err := os.WriteFile(path, []byte(fullManifest), 0o644); err != nil {
		t.Fatal(err)
	}

	k, err := Load(path)
	be.Err(t, err, nil)
	be.Equal(t, k.Path, path)
	be.Equal(t, k.Name, "blur")

	_, err = Load(filepath.Join(dir, "missing.toml"))
	be.Err(t, err, "missing.toml")
}

func TestLoadFor(t *testing.T) {
	dir := t.TempDir()
	ast := filepath.Join(dir, "blur.json")

	k, err := LoadFor(ast)
	be.Err(t, err, nil)
	be.Equal(t, k, Default())

	if err := os.WriteFile(filepath.Join(dir, "blur.toml"), []byte(`unit = "function"`), 0o644); err != nil {
		t.Fatal(err)
	}
	path, ok, err := Sibling(ast)
	be.Err(t, err, nil)
	be.True(t, ok)
	be.Equal(t, path, filepath.Join(dir, "blur.toml"))

	k, err = LoadFor(ast)
	be.Err(t, err, nil)
	be.Equal(t, k.Unit, glsl.UnitFunction)
}
