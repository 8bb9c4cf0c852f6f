// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernelgl

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/kernelgl/estree"
	"github.com/gogpu/kernelgl/glsl"
)

// function kernel(a, b) { return a[this.thread.x] + b[this.thread.x]; }
const addKernel = `{
  "type": "FunctionDeclaration",
  "id": {"type": "Identifier", "name": "kernel"},
  "params": [{"type": "Identifier", "name": "a"}, {"type": "Identifier", "name": "b"}],
  "body": {"type": "BlockStatement", "body": [{
    "type": "ReturnStatement",
    "argument": {
      "type": "BinaryExpression", "operator": "+",
      "left": {"type": "MemberExpression", "computed": true,
        "object": {"type": "Identifier", "name": "a"},
        "property": {"type": "MemberExpression", "computed": false,
          "object": {"type": "MemberExpression", "computed": false,
            "object": {"type": "ThisExpression"},
            "property": {"type": "Identifier", "name": "thread"}},
          "property": {"type": "Identifier", "name": "x"}}},
      "right": {"type": "MemberExpression", "computed": true,
        "object": {"type": "Identifier", "name": "b"},
        "property": {"type": "MemberExpression", "computed": false,
          "object": {"type": "MemberExpression", "computed": false,
            "object": {"type": "ThisExpression"},
            "property": {"type": "Identifier", "name": "thread"}},
          "property": {"type": "Identifier", "name": "x"}}}
    }
  }]}
}`

const addKernelGLSL = "void kernel() {\n" +
	"kernelResult = (get(user_a, user_aSize, user_aDim, user_aBitRatio, threadId.x)+get(user_b, user_bSize, user_bDim, user_bBitRatio, threadId.x));return;\n" +
	"}"

// function scale(v, k) { return v * k; }
const scaleFunction = `{
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

// function kernel() { return "text"; }
const stringKernel = `{
  "type": "FunctionDeclaration",
  "id": {"type": "Identifier", "name": "kernel"},
  "params": [],
  "body": {"type": "BlockStatement", "body": [{
    "type": "ReturnStatement",
    "argument": {"type": "Literal", "value": "text", "raw": "\"text\""}
  }]}
}`

func arrayOptions() glsl.Options {
	opts := DefaultOptions()
	opts.ArgumentTypes = []glsl.Type{glsl.TypeArray, glsl.TypeArray}
	return opts
}

// TestCompileAddKernel tests the full decode and translate pipeline.
func TestCompileAddKernel(t *testing.T) {
	source, err := Compile([]byte(addKernel), estree.FormatJSON, arrayOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if source != addKernelGLSL {
		t.Errorf("got:\n%s\nwant:\n%s", source, addKernelGLSL)
	}
}

// TestCompileMsgpack tests that the binary encodings translate identically.
func TestCompileMsgpack(t *testing.T) {
	var tree any
	if err := json.Unmarshal([]byte(addKernel), &tree); err != nil {
		t.Fatal(err)
	}
	data, err := msgpack.Marshal(tree)
	if err != nil {
		t.Fatal(err)
	}

	source, err := Compile(data, estree.FormatMsgpack, arrayOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if source != addKernelGLSL {
		t.Errorf("msgpack output differs:\n%s", source)
	}
}

// TestCompileKernelMetadata tests prototype and declaration reporting.
func TestCompileKernelMetadata(t *testing.T) {
	fn, err := Parse([]byte(scaleFunction), estree.FormatJSON)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	opts := DefaultOptions()
	opts.Unit = glsl.UnitFunction
	opts.ArgumentTypes = []glsl.Type{glsl.TypeArray4, glsl.TypeNumber}
	opts.ReturnType = glsl.TypeArray4

	result, err := CompileKernel(fn, opts)
	if err != nil {
		t.Fatalf("CompileKernel failed: %v", err)
	}

	if result.Name != "scale" {
		t.Errorf("Name = %q, want scale", result.Name)
	}
	if want := "vec4 scale(vec4 user_v, float user_k);"; result.Prototype != want {
		t.Errorf("Prototype = %q, want %q", result.Prototype, want)
	}
	if want := "vec4 scale(vec4 user_v, float user_k) {\nreturn (user_v*user_k);\n}"; result.Source != want {
		t.Errorf("Source:\n%s\nwant:\n%s", result.Source, want)
	}
	if result.Declarations["v"] != glsl.TypeArray4 {
		t.Errorf("Declarations[v] = %v", result.Declarations["v"])
	}
	if result.CalledFunctions.Len() != 0 {
		t.Errorf("unexpected callees: %v", result.CalledFunctions.Names())
	}
}

// TestCompileErrors tests that decode and translation failures are reported
// with their kind intact.
func TestCompileErrors(t *testing.T) {
	_, err := Compile([]byte(`{"type": `), estree.FormatJSON, DefaultOptions())
	if err == nil || !strings.Contains(err.Error(), "parse error") {
		t.Errorf("malformed JSON: err = %v", err)
	}

	_, err = Compile([]byte(stringKernel), estree.FormatJSON, DefaultOptions())
	if !glsl.IsKind(err, glsl.ErrUnsupportedLiteral) {
		t.Errorf("string literal: err = %v, want UnsupportedLiteral", err)
	}
	if err == nil || !strings.Contains(err.Error(), "translation error") {
		t.Errorf("error not wrapped: %v", err)
	}
}

// TestCompileAll tests concurrent compilation keeps job order.
func TestCompileAll(t *testing.T) {
	fnOpts := DefaultOptions()
	fnOpts.Unit = glsl.UnitFunction

	jobs := []Job{
		{Name: "add.json", Data: []byte(addKernel), Format: estree.FormatJSON, Options: arrayOptions()},
		{Name: "scale.json", Data: []byte(scaleFunction), Format: estree.FormatJSON, Options: fnOpts},
		{Name: "add2.json", Data: []byte(addKernel), Format: estree.FormatJSON, Options: arrayOptions()},
	}

	results, err := CompileAll(context.Background(), jobs)
	if err != nil {
		t.Fatalf("CompileAll failed: %v", err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	if results[0].Source != addKernelGLSL || results[2].Source != addKernelGLSL {
		t.Error("kernel results out of order")
	}
	if results[1].Name != "scale" {
		t.Errorf("results[1].Name = %q, want scale", results[1].Name)
	}

	empty, err := CompileAll(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("CompileAll(nil) = %v, %v", empty, err)
	}
}

// TestCompileAllFailure tests that a failing job is named in the error.
func TestCompileAllFailure(t *testing.T) {
	jobs := []Job{
		{Name: "add.json", Data: []byte(addKernel), Format: estree.FormatJSON, Options: arrayOptions()},
		{Name: "broken.json", Data: []byte(stringKernel), Format: estree.FormatJSON, Options: DefaultOptions()},
	}

	_, err := CompileAll(context.Background(), jobs)
	if err == nil {
		t.Fatal("expected CompileAll to fail")
	}
	if !strings.Contains(err.Error(), "broken.json") {
		t.Errorf("error does not name the job: %v", err)
	}
}

// TestCompileAllCancelled tests that a cancelled context stops compilation.
func TestCompileAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []Job{{Name: "add.json", Data: []byte(addKernel), Format: estree.FormatJSON, Options: arrayOptions()}}
	_, err := CompileAll(ctx, jobs)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
