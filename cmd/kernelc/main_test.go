// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// function scale(v, k) { return v * k; }
const scaleAST = `{
  "type": "FunctionDeclaration",
  "id": {"type": "Identifier", "name": "scale"},
  "params": [{"type": "Identifier", "name": "v"}, {"type": "Identifier", "name": "k"}],
  "body": {"type": "BlockStatement", "body": [{
    "type": "ReturnStatement",
    "argument": {"type": "BinaryExpression", "operator": "*",
      "left": {"type": "Identifier", "name": "v"},
      "right": {"type": "Identifier", "name": "k"}}
  }]}
}`

const scaleManifest = `
unit = "function"
return_type = "Array(4)"
argument_types = ["Array(4)", "Number"]
`

func runKernelc(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	manifestPath, formatName, outputPath, colorMode, verbosity = "", "", "", "auto", 0

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeInputs(t *testing.T) (dir, ast string) {
	t.Helper()
	dir = t.TempDir()
	ast = filepath.Join(dir, "scale.json")
	if err := os.WriteFile(ast, []byte(scaleAST), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scale.toml"), []byte(scaleManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, ast
}

func TestCompileCommand(t *testing.T) {
	_, ast := writeInputs(t)

	stdout, _, err := runKernelc(t, "compile", "--color", "off", ast)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	want := "vec4 scale(vec4 user_v, float user_k) {\nreturn (user_v*user_k);\n}\n"
	if stdout != want {
		t.Errorf("stdout:\n%s\nwant:\n%s", stdout, want)
	}
}

func TestCompileCommandOutputFile(t *testing.T) {
	dir, ast := writeInputs(t)
	out := filepath.Join(dir, "scale.glsl")

	if _, _, err := runKernelc(t, "compile", "-o", out, ast); err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "vec4 scale(") {
		t.Errorf("unexpected output file:\n%s", data)
	}
}

func TestPrototypeCommand(t *testing.T) {
	_, ast := writeInputs(t)

	stdout, _, err := runKernelc(t, "prototype", ast)
	if err != nil {
		t.Fatalf("prototype failed: %v", err)
	}
	if stdout != "vec4 scale(vec4 user_v, float user_k);\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestCompileCommandErrors(t *testing.T) {
	dir, ast := writeInputs(t)

	if _, _, err := runKernelc(t, "compile", filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing input accepted")
	}
	if _, _, err := runKernelc(t, "compile", "-f", "yaml", ast); err == nil {
		t.Error("unknown format accepted")
	}
	if _, _, err := runKernelc(t, "compile", "--color", "sometimes", ast); err == nil {
		t.Error("invalid --color accepted")
	}
	if _, _, err := runKernelc(t, "compile"); err == nil {
		t.Error("compile without inputs accepted")
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runKernelc(t, "version", "--color", "off")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(stdout, kernelcVersion) {
		t.Errorf("stdout = %q", stdout)
	}
}
