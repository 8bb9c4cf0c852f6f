// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"math"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/gogpu/kernelgl/estree"
)

// float32Max is emitted for the JavaScript Infinity global.
const float32Max = "3.402823466e+38"

// writeLiteral emits a numeric literal. Integral values are written as float
// constants except where an int is expected.
func (w *Writer) writeLiteral(lit *estree.Literal) error {
	v, ok := lit.Number()
	if !ok {
		return nodeError(ErrUnsupportedLiteral, lit, "literal %s is not a number", literalText(lit))
	}

	text := strconv.FormatFloat(v, 'f', -1, 64)
	inGet := w.state.isActive(flagInGetCallParameters)
	inForInit := w.state.isActive(flagInForLoopInit)
	intCompare := w.state.isActive(flagIntegerComparison)

	if v == math.Trunc(v) {
		w.out.push(text)
		if !inGet && !inForInit && !intCompare {
			w.out.push(".0")
		}
		return nil
	}
	if inGet && !intCompare {
		w.out.push("int(", text, ")")
		return nil
	}
	w.out.push(text)
	return nil
}

func literalText(lit *estree.Literal) string {
	if lit.Raw != "" {
		return lit.Raw
	}
	switch v := lit.Value.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return "?"
}

// integerContext reports whether the active mode expects int operands.
func (w *Writer) integerContext() bool {
	return w.state.isActive(flagInGetCallParameters) || w.state.isActive(flagIntegerComparison)
}

func (w *Writer) writeIdentifier(id *estree.Identifier) error {
	if axis, ok := threadIdentifierAxis(id.Name); ok {
		w.writeRuntimeValue("threadId", axis)
		return nil
	}
	if axis, ok := outputIdentifierAxis(id.Name); ok {
		w.writeRuntimeValue("uOutputDim", axis)
		return nil
	}
	if id.Name == "Infinity" {
		w.out.push(float32Max)
		return nil
	}
	w.writeUserName(id.Name)
	return nil
}

// writeUserName emits a user variable, cast to int where an int is expected
// and the variable does not already hold one.
func (w *Writer) writeUserName(name string) {
	t, _ := w.decls.Lookup(name)
	if w.integerContext() && t != TypeInteger && !t.IsArray() {
		w.out.push("int(user_", name, ")")
		return
	}
	w.out.push("user_", name)
}

// writeRuntimeValue emits threadId.x style values, which are ints on the
// shader side.
func (w *Writer) writeRuntimeValue(base, axis string) {
	if w.integerContext() {
		w.out.push(base, ".", axis)
		return
	}
	w.out.push("float(", base, ".", axis, ")")
}

// identifierType returns the declared type of a bare name, or TypeInvalid.
func (w *Writer) identifierType(e estree.Expr) Type {
	id, ok := e.(*estree.Identifier)
	if !ok {
		return TypeInvalid
	}
	t, _ := w.decls.Lookup(id.Name)
	return t
}

// writeBinary emits a parenthesized binary expression. Inside an index the
// arithmetic runs in float and the result is cast once.
func (w *Writer) writeBinary(b *estree.BinaryExpression) error {
	if w.state.isActive(flagInGetCallParameters) {
		w.out.push("int")
		return w.within(flagNotInGetCallParameters, func() error {
			return w.writeBinaryOperands(b)
		})
	}
	return w.writeBinaryOperands(b)
}

func (w *Writer) writeBinaryOperands(b *estree.BinaryExpression) error {
	w.out.push("(")
	var err error
	switch b.Operator {
	case "%":
		err = w.writeBuiltinCall("mod(", ",", b.Left, b.Right)
	case "**":
		err = w.writeBuiltinCall("pow(", ", ", b.Left, b.Right)
	case "/":
		if w.options.FixIntegerDivisionAccuracy {
			err = w.writeBuiltinCall("div_with_int_check(", ", ", b.Left, b.Right)
		} else {
			err = w.writeInfix(b.Left, "/", b.Right)
		}
	case "===", "==":
		err = w.writeInfix(b.Left, "==", b.Right)
	case "!==", "!=":
		err = w.writeInfix(b.Left, "!=", b.Right)
	default:
		err = w.writeInfix(b.Left, b.Operator, b.Right)
	}
	if err != nil {
		return err
	}
	w.out.push(")")
	return nil
}

// writeInfix emits "left op right". An Integer left operand puts the right
// one into integer comparison mode.
func (w *Writer) writeInfix(left estree.Expr, op string, right estree.Expr) error {
	if err := w.translate(left); err != nil {
		return err
	}
	w.out.push(op)
	if w.identifierType(left) == TypeInteger {
		return w.translateWithin(flagIntegerComparison, right)
	}
	return w.translate(right)
}

func (w *Writer) writeBuiltinCall(open, sep string, left, right estree.Expr) error {
	w.out.push(open)
	if err := w.translate(left); err != nil {
		return err
	}
	w.out.push(sep)
	if err := w.translate(right); err != nil {
		return err
	}
	w.out.push(")")
	return nil
}

func (w *Writer) writeLogical(l *estree.LogicalExpression) error {
	w.out.push("(")
	if err := w.translate(l.Left); err != nil {
		return err
	}
	w.out.push(l.Operator)
	if err := w.translate(l.Right); err != nil {
		return err
	}
	w.out.push(")")
	return nil
}

// writeUnary handles both unary and update expressions.
func (w *Writer) writeUnary(op string, prefix bool, arg estree.Expr) error {
	switch op {
	case "typeof", "void", "delete":
		return nodeError(ErrUnknownNodeType, arg, "operator %s is not supported", op)
	}
	if prefix {
		w.out.push(op)
		return w.translate(arg)
	}
	if err := w.translate(arg); err != nil {
		return err
	}
	w.out.push(op)
	return nil
}

func (w *Writer) writeAssignment(a *estree.AssignmentExpression) error {
	if a.Operator == "%=" {
		if err := w.translate(a.Left); err != nil {
			return err
		}
		w.out.push("=")
		return w.writeBuiltinCall("mod(", ",", a.Left, a.Right)
	}

	if err := w.translate(a.Left); err != nil {
		return err
	}
	w.out.push(a.Operator)
	if w.identifierType(a.Left) != TypeInteger && w.identifierType(a.Right) == TypeInteger {
		w.out.push("float(")
		if err := w.translate(a.Right); err != nil {
			return err
		}
		w.out.push(")")
		return nil
	}
	return w.translate(a.Right)
}

func (w *Writer) writeSequence(s *estree.SequenceExpression) error {
	for i, e := range s.Expressions {
		if i > 0 {
			w.out.push(",")
		}
		if err := w.translate(e); err != nil {
			return err
		}
	}
	return nil
}

// writeArray emits an array literal as a vector constructor.
func (w *Writer) writeArray(a *estree.ArrayExpression) error {
	size, err := vectorSize(a)
	if err != nil {
		return err
	}
	w.out.push("vec", strconv.Itoa(int(size)), "(")
	for i, e := range a.Elements {
		if i > 0 {
			w.out.push(", ")
		}
		if err := w.translate(e); err != nil {
			return err
		}
	}
	w.out.push(")")
	return nil
}

// vectorSize returns the component count of an array literal that maps to
// vec2, vec3 or vec4.
func vectorSize(a *estree.ArrayExpression) (uint8, error) {
	n, err := safecast.Conv[uint8](len(a.Elements))
	if err == nil {
		if _, ok := vectorType(n); ok {
			return n, nil
		}
	}
	return 0, nodeError(ErrUnknownType, a, "array literal with %d elements has no vector type", len(a.Elements))
}

// writeCall emits a call to a named function, or a plugin replacement.
func (w *Writer) writeCall(c *estree.CallExpression) error {
	full, ok := unrollName(c.Callee)
	if !ok {
		return nodeError(ErrUnknownCallExpression, c, "cannot call %s", c.Callee.Kind())
	}
	name := w.shaderCallee(full)
	if p, ok := w.matchPlugin(full); ok {
		w.out.push(p.FunctionReplace)
		w.calls.record(name, nil)
		return nil
	}

	shapes := make([]*ArgumentShape, len(c.Arguments))
	w.out.push(name, "(")
	for i, arg := range c.Arguments {
		if i > 0 {
			w.out.push(", ")
		}
		if err := w.translate(arg); err != nil {
			return err
		}
		if id, ok := arg.(*estree.Identifier); ok {
			if t, ok := w.arguments[id.Name]; ok {
				shapes[i] = &ArgumentShape{Name: id.Name, Type: t}
			}
		}
	}
	w.out.push(")")
	w.calls.record(name, shapes)
	return nil
}

// calleeName maps a host callee path to the shader function name.
func calleeName(full string) string {
	name := full
	for _, prefix := range []string{"Math.", "this."} {
		if strings.HasPrefix(name, prefix) {
			name = name[len(prefix):]
			break
		}
	}
	if name == "atan2" {
		return "atan"
	}
	return name
}

// shaderCallee returns the emitted name for a callee. Math functions and
// undeclared GLSL builtins keep their name; any other callee is a kernel
// function and is escaped the way its definition is.
func (w *Writer) shaderCallee(full string) string {
	name := calleeName(full)
	if strings.HasPrefix(full, "Math.") {
		return name
	}
	if _, declared := w.options.ReturnTypes[name]; !declared && isBuiltinFunction(name) {
		return name
	}
	return escapeKeyword(name)
}

func (w *Writer) matchPlugin(full string) (Plugin, bool) {
	for _, p := range w.options.Plugins {
		if strings.TrimSuffix(strings.TrimSpace(p.FunctionMatch), "()") == full {
			return p, true
		}
	}
	return Plugin{}, false
}

// unrollName flattens an identifier or dotted member chain, e.g. "Math.floor".
func unrollName(e estree.Expr) (string, bool) {
	switch n := e.(type) {
	case *estree.Identifier:
		return n.Name, true
	case *estree.ThisExpression:
		return "this", true
	case *estree.MemberExpression:
		prop := n.PropertyName()
		if prop == "" {
			return "", false
		}
		obj, ok := unrollName(n.Object)
		if !ok {
			return "", false
		}
		return obj + "." + prop, true
	}
	return "", false
}
