// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"

	"github.com/gogpu/kernelgl/estree"
)

// Declarations records the semantic type of every name a function declares.
// The first recorded type for a name is kept for the whole compilation.
type Declarations struct {
	types map[string]Type
	order []string
}

func newDeclarations() *Declarations {
	return &Declarations{types: make(map[string]Type)}
}

// declareArgument records a function argument, replacing any earlier entry.
func (d *Declarations) declareArgument(name string, t Type) {
	if _, ok := d.types[name]; !ok {
		d.order = append(d.order, name)
	}
	d.types[name] = t
}

// declare records t for name if the name is new and returns the type in
// effect, plus whether it matches t.
func (d *Declarations) declare(name string, t Type) (Type, bool) {
	if prev, ok := d.types[name]; ok {
		return prev, prev == t
	}
	d.types[name] = t
	d.order = append(d.order, name)
	return t, true
}

// Lookup returns the recorded type of name.
func (d *Declarations) Lookup(name string) (Type, bool) {
	t, ok := d.types[name]
	return t, ok
}

// Len returns the number of recorded names.
func (d *Declarations) Len() int {
	return len(d.order)
}

// Names returns the recorded names in declaration order.
func (d *Declarations) Names() []string {
	return append([]string(nil), d.order...)
}

// Map returns a copy of the table.
func (d *Declarations) Map() map[string]Type {
	m := make(map[string]Type, len(d.types))
	for k, v := range d.types {
		m[k] = v
	}
	return m
}

// inferAndDeclare decides the type of a declared variable from its
// initializer and records it. The returned type is the one in effect, which
// differs from the inferred one when the name was already declared.
func (w *Writer) inferAndDeclare(decl *estree.VariableDeclarator) (Type, error) {
	var inferred Type
	if w.state.isActive(flagInForLoopInit) {
		inferred = TypeInteger
	} else {
		t, err := w.inferType(decl.Init)
		if err != nil {
			return TypeInvalid, err
		}
		inferred = t
	}
	if _, err := shaderType(inferred); err != nil {
		return TypeInvalid, nodeError(ErrUnknownType, decl, "variable %s has type %s with no shader representation", decl.ID.Name, inferred)
	}

	recorded, same := w.decls.declare(decl.ID.Name, inferred)
	if !same {
		w.warn(decl, fmt.Sprintf("%s redeclared as %s, keeping %s", decl.ID.Name, inferred, recorded))
	}
	return recorded, nil
}

// inferType applies the initializer rules in priority order.
//
//nolint:gocyclo,cyclop // one case per initializer shape
func (w *Writer) inferType(init estree.Expr) (Type, error) {
	switch n := init.(type) {
	case nil:
		return TypeNumber, nil

	case *estree.MemberExpression:
		if _, ok := threadAxis(n); ok {
			return TypeFloat, nil
		}
		if _, ok := outputAxis(n); ok {
			return TypeFloat, nil
		}
		if !n.Computed {
			return TypeNumber, nil
		}
		base, _ := indexChain(n)
		baseType, ok := w.baseType(base)
		if !ok {
			return TypeNumber, nil
		}
		if elem, ok := elementType(baseType); ok {
			return elem, nil
		}
		return TypeNumber, nil

	case *estree.Identifier:
		if _, ok := threadIdentifierAxis(n.Name); ok {
			return TypeFloat, nil
		}
		if _, ok := outputIdentifierAxis(n.Name); ok {
			return TypeFloat, nil
		}
		if t, ok := w.decls.Lookup(n.Name); ok {
			return t, nil
		}
		return TypeNumber, nil

	case *estree.ArrayExpression:
		size, err := vectorSize(n)
		if err != nil {
			return TypeInvalid, err
		}
		t, _ := vectorType(size)
		return t, nil

	case *estree.CallExpression:
		if t, ok := w.callReturnType(n); ok {
			return t, nil
		}
		return TypeNumber, nil
	}
	return TypeNumber, nil
}

// callReturnType resolves the registered return type of a call, by plugin
// first and then by the configured callee table.
func (w *Writer) callReturnType(call *estree.CallExpression) (Type, bool) {
	full, ok := unrollName(call.Callee)
	if !ok {
		return TypeInvalid, false
	}
	if p, ok := w.matchPlugin(full); ok && p.FunctionReturnType != TypeInvalid {
		return p.FunctionReturnType, true
	}
	t, ok := w.options.ReturnTypes[calleeName(full)]
	return t, ok
}
