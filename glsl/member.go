// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"

	"github.com/gogpu/kernelgl/estree"
)

// writeMember emits property access and indexing.
func (w *Writer) writeMember(m *estree.MemberExpression) error {
	if !m.Computed {
		return w.writeProperty(m)
	}
	if inner, ok := m.Object.(*estree.MemberExpression); ok && inner.Computed {
		return w.writeIndexChain(m)
	}
	return w.writeIndex(m)
}

// writeProperty emits a dotted access such as this.thread.x or
// this.constants.size.
func (w *Writer) writeProperty(m *estree.MemberExpression) error {
	if axis, ok := threadAxis(m); ok {
		w.writeRuntimeValue("threadId", axis)
		return nil
	}
	if axis, ok := outputAxis(m); ok {
		w.writeRuntimeValue("uOutputDim", axis)
		return nil
	}
	if name, ok := constantName(m); ok {
		w.writeConstant(name)
		return nil
	}

	path, ok := unrollName(m)
	if !ok {
		return nodeError(ErrInvalidMemberExpression, m, "cannot resolve property access on %s", m.Object.Kind())
	}
	if root, ok := rootIdentifier(m); ok {
		if _, declared := w.decls.Lookup(root.Name); declared {
			w.out.push("user_", path)
			return nil
		}
	}
	w.out.push(path)
	return nil
}

// writeConstant emits a this.constants reference with the same casting rules
// as user variables.
func (w *Writer) writeConstant(name string) {
	t := w.options.ConstantTypes[name]
	switch {
	case w.integerContext() && t != TypeInteger && !t.IsArray():
		w.out.push("int(constants_", name, ")")
	case !w.integerContext() && t == TypeInteger:
		w.out.push("float(constants_", name, ")")
	default:
		w.out.push("constants_", name)
	}
}

// writeIndex emits a single-level index obj[expr].
func (w *Writer) writeIndex(m *estree.MemberExpression) error {
	name := baseName(m.Object)
	if name == "" {
		return nodeError(ErrInvalidMemberExpression, m, "cannot index %s", m.Object.Kind())
	}

	if id, ok := m.Object.(*estree.Identifier); ok {
		if t, ok := w.arguments[id.Name]; ok && t == TypeNumber {
			w.out.push(name, "[int(")
			if err := w.translate(m.Property); err != nil {
				return err
			}
			w.out.push(")]")
			return nil
		}
	}

	t, _ := w.baseType(m.Object)
	switch {
	case t.IsVector():
		w.out.push(name, "[")
		if err := w.translateWithin(flagInGetCallParameters, m.Property); err != nil {
			return err
		}
		w.out.push("]")
		return nil
	case t == TypeHTMLImageArray:
		return w.writeFetch("getImage3D(", name, false, m.Property, false)
	case t == TypeHTMLImage || t == TypeArrayTexture4:
		return w.writeFetch("getImage2D(", name, false, m.Property, false)
	default:
		wrap := !w.inIndexChain() && w.state.isActive(flagInGetCallParameters)
		return w.writeFetch("get(", name, true, m.Property, wrap)
	}
}

// writeFetch emits a fetch helper call. The closing parenthesis is its own
// token so an enclosing index can reopen the call.
func (w *Writer) writeFetch(helper, name string, bitRatio bool, index estree.Expr, wrapInt bool) error {
	if wrapInt {
		w.out.push("int(")
	}
	w.out.push(helper, name, ", ", name, "Size, ", name, "Dim, ")
	if bitRatio {
		w.out.push(name, "BitRatio, ")
	}
	if err := w.translateWithin(flagInGetCallParameters, index); err != nil {
		return err
	}
	w.out.push(")")
	if wrapInt {
		w.out.push(")")
	}
	return nil
}

// writeIndexChain emits a[i][j]... as one fetch call with an index argument
// per level. The inner chain is emitted first, then its closing parenthesis
// is swapped for a separator and this level's index appended.
func (w *Writer) writeIndexChain(m *estree.MemberExpression) error {
	base, _ := indexChain(m)
	if baseName(base) == "" {
		return nodeError(ErrInvalidMemberExpression, m, "cannot index %s", base.Kind())
	}

	flag, outermost := w.chainFlag()
	wrap := false
	if outermost {
		t, _ := w.baseType(base)
		wrap = w.state.isActive(flagInGetCallParameters) && usesGet(t)
	}

	if wrap {
		w.out.push("int(")
	}
	if err := w.translateWithin(flag, m.Object); err != nil {
		return err
	}
	closer, ok := w.out.swapTrailing(", ")
	if !ok || closer != ")" {
		return nodeError(ErrInvalidMemberExpression, m, "%s does not support multi-level indexing", baseName(base))
	}
	if err := w.translateWithin(flagInGetCallParameters, m.Property); err != nil {
		return err
	}
	w.out.push(closer)
	if wrap {
		w.out.push(")")
	}
	return nil
}

// chainFlag picks the flag for the inner part of an index chain and reports
// whether this link is the outermost one.
func (w *Writer) chainFlag() (contextFlag, bool) {
	if top, ok := w.state.top(); ok && (top == flagMultiMemberExpression || top == flagShouldPopInGetCallParameters) {
		return top, false
	}
	if w.state.isActive(flagInGetCallParameters) {
		return flagShouldPopInGetCallParameters, true
	}
	return flagMultiMemberExpression, true
}

func (w *Writer) inIndexChain() bool {
	return w.state.isActive(flagMultiMemberExpression) || w.state.isActive(flagShouldPopInGetCallParameters)
}

// usesGet reports whether values of type t are read through get().
func usesGet(t Type) bool {
	switch t {
	case TypeArray2, TypeArray3, TypeArray4, TypeHTMLImage, TypeHTMLImageArray, TypeArrayTexture4:
		return false
	}
	return true
}

// baseType returns the declared type of an indexable base.
func (w *Writer) baseType(base estree.Expr) (Type, bool) {
	switch b := base.(type) {
	case *estree.Identifier:
		return w.decls.Lookup(b.Name)
	case *estree.MemberExpression:
		if name, ok := constantName(b); ok {
			t, ok := w.options.ConstantTypes[name]
			return t, ok
		}
	}
	return TypeInvalid, false
}

// baseName returns the shader name of an indexable base, or "".
func baseName(base estree.Expr) string {
	switch b := base.(type) {
	case *estree.Identifier:
		return "user_" + b.Name
	case *estree.MemberExpression:
		if name, ok := constantName(b); ok {
			return "constants_" + name
		}
	}
	return ""
}

// indexChain returns the base of a run of computed accesses and its depth.
func indexChain(m *estree.MemberExpression) (estree.Expr, int) {
	var e estree.Expr = m
	depth := 0
	for {
		mm, ok := e.(*estree.MemberExpression)
		if !ok || !mm.Computed {
			return e, depth
		}
		depth++
		e = mm.Object
	}
}

func rootIdentifier(m *estree.MemberExpression) (*estree.Identifier, bool) {
	var e estree.Expr = m
	for {
		switch n := e.(type) {
		case *estree.MemberExpression:
			e = n.Object
		case *estree.Identifier:
			return n, true
		default:
			return nil, false
		}
	}
}

// constantName matches this.constants.<name>.
func constantName(m *estree.MemberExpression) (string, bool) {
	if m.Computed {
		return "", false
	}
	inner, ok := m.Object.(*estree.MemberExpression)
	if !ok || inner.PropertyName() != "constants" {
		return "", false
	}
	if _, ok := inner.Object.(*estree.ThisExpression); !ok {
		return "", false
	}
	name := m.PropertyName()
	return name, name != ""
}

func threadAxis(m *estree.MemberExpression) (string, bool) {
	return runtimeAxis(m, "thread")
}

func outputAxis(m *estree.MemberExpression) (string, bool) {
	return runtimeAxis(m, "output")
}

// runtimeAxis matches this.<object>.x, .y or .z.
func runtimeAxis(m *estree.MemberExpression, object string) (string, bool) {
	if m.Computed {
		return "", false
	}
	inner, ok := m.Object.(*estree.MemberExpression)
	if !ok || inner.PropertyName() != object {
		return "", false
	}
	if _, ok := inner.Object.(*estree.ThisExpression); !ok {
		return "", false
	}
	return axisName(m.PropertyName())
}

func axisName(s string) (string, bool) {
	switch axis := strings.ToLower(s); axis {
	case "x", "y", "z":
		return axis, true
	}
	return "", false
}

// threadIdentifierAxis matches the gpu_threadX style aliases.
func threadIdentifierAxis(name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, "gpu_thread")
	if !ok {
		return "", false
	}
	return axisName(rest)
}

func outputIdentifierAxis(name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, "gpu_output")
	if !ok {
		return "", false
	}
	return axisName(rest)
}
