// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/gogpu/kernelgl/estree"
)

// =============================================================================
// AST builders
// =============================================================================

func ident(name string) *estree.Identifier {
	return &estree.Identifier{Name: name}
}

func num(v float64) *estree.Literal {
	return &estree.Literal{Value: v, Raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

func str(s string) *estree.Literal {
	return &estree.Literal{Value: s, Raw: strconv.Quote(s)}
}

func bin(left estree.Expr, op string, right estree.Expr) *estree.BinaryExpression {
	return &estree.BinaryExpression{Operator: op, Left: left, Right: right}
}

func logical(left estree.Expr, op string, right estree.Expr) *estree.LogicalExpression {
	return &estree.LogicalExpression{Operator: op, Left: left, Right: right}
}

func assign(left estree.Expr, op string, right estree.Expr) *estree.AssignmentExpression {
	return &estree.AssignmentExpression{Operator: op, Left: left, Right: right}
}

func postInc(arg estree.Expr) *estree.UpdateExpression {
	return &estree.UpdateExpression{Operator: "++", Argument: arg}
}

func neg(arg estree.Expr) *estree.UnaryExpression {
	return &estree.UnaryExpression{Operator: "-", Prefix: true, Argument: arg}
}

// index builds obj[i0][i1]...
func index(obj estree.Expr, indices ...estree.Expr) estree.Expr {
	e := obj
	for _, i := range indices {
		e = &estree.MemberExpression{Object: e, Property: i, Computed: true}
	}
	return e
}

func prop(obj estree.Expr, name string) *estree.MemberExpression {
	return &estree.MemberExpression{Object: obj, Property: ident(name)}
}

func this() *estree.ThisExpression {
	return &estree.ThisExpression{}
}

func thread(axis string) *estree.MemberExpression {
	return prop(prop(this(), "thread"), axis)
}

func output(axis string) *estree.MemberExpression {
	return prop(prop(this(), "output"), axis)
}

func constant(name string) *estree.MemberExpression {
	return prop(prop(this(), "constants"), name)
}

func call(callee estree.Expr, args ...estree.Expr) *estree.CallExpression {
	return &estree.CallExpression{Callee: callee, Arguments: args}
}

func array(elems ...estree.Expr) *estree.ArrayExpression {
	return &estree.ArrayExpression{Elements: elems}
}

func expr(e estree.Expr) *estree.ExpressionStatement {
	return &estree.ExpressionStatement{Expression: e}
}

func declarator(name string, init estree.Expr) *estree.VariableDeclarator {
	return &estree.VariableDeclarator{ID: ident(name), Init: init}
}

func decl(decls ...*estree.VariableDeclarator) *estree.VariableDeclaration {
	return &estree.VariableDeclaration{DeclKind: "var", Declarations: decls}
}

func varStmt(name string, init estree.Expr) *estree.VariableDeclaration {
	return decl(declarator(name, init))
}

func ret(e estree.Expr) *estree.ReturnStatement {
	return &estree.ReturnStatement{Argument: e}
}

func block(stmts ...estree.Stmt) *estree.BlockStatement {
	return &estree.BlockStatement{Body: stmts}
}

func forStmt(init estree.Node, test, update estree.Expr, body estree.Stmt) *estree.ForStatement {
	return &estree.ForStatement{Init: init, Test: test, Update: update, Body: body}
}

func function(name string, params []string, stmts ...estree.Stmt) *estree.Function {
	fn := &estree.Function{Name: name, Body: block(stmts...)}
	for _, p := range params {
		fn.Params = append(fn.Params, ident(p))
	}
	return fn
}

// =============================================================================
// Compile helpers
// =============================================================================

func rootOptions(argTypes ...Type) Options {
	opts := DefaultOptions()
	opts.ArgumentTypes = argTypes
	return opts
}

func compileGLSL(t *testing.T, fn *estree.Function, opts Options) string {
	t.Helper()
	source, _, err := Compile(fn, opts)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return source
}

// compileKernel compiles a root kernel with the given parameters and body.
func compileKernel(t *testing.T, params []string, argTypes []Type, stmts ...estree.Stmt) string {
	t.Helper()
	return compileGLSL(t, function("kernel", params, stmts...), rootOptions(argTypes...))
}

func compileError(t *testing.T, fn *estree.Function, opts Options) *Error {
	t.Helper()
	_, _, err := Compile(fn, opts)
	if err == nil {
		t.Fatal("expected Compile to fail")
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error %v is not a *Error", err)
	}
	return e
}

func mustContainGLSL(t *testing.T, source, expected string) {
	t.Helper()
	if !strings.Contains(source, expected) {
		t.Errorf("Expected output to contain %q.\nOutput:\n%s", expected, source)
	}
}

func mustNotContainGLSL(t *testing.T, source, forbidden string) {
	t.Helper()
	if strings.Contains(source, forbidden) {
		t.Errorf("Output should NOT contain %q.\nOutput:\n%s", forbidden, source)
	}
}

// newTestWriter returns a writer for a root kernel with typed parameters.
func newTestWriter(params map[string]Type) *Writer {
	fn := &estree.Function{Name: "kernel", Body: block()}
	opts := DefaultOptions()
	for name, t := range params {
		fn.Params = append(fn.Params, ident(name))
		opts.ArgumentTypes = append(opts.ArgumentTypes, t)
	}
	return newWriter(fn, &opts, "kernel")
}

// emit translates node with a fresh writer and returns the text.
func emit(t *testing.T, w *Writer, node estree.Node) string {
	t.Helper()
	w.out = tokens{}
	if err := w.translate(node); err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if w.state.depth() != 0 || w.state.err != nil {
		t.Fatalf("context stack unbalanced: depth %d, err %v", w.state.depth(), w.state.err)
	}
	return w.out.String()
}
