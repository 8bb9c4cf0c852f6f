// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

// ArgumentShape describes a call argument that passes a function argument
// straight through, so the caller can propagate its type to the callee.
type ArgumentShape struct {
	Name string
	Type Type
}

// CallRegistry records every function called from a kernel body.
// Each call site keeps one shape per argument; nil means the argument is not
// a bare function argument.
type CallRegistry struct {
	order []string
	calls map[string][][]*ArgumentShape
}

func newCallRegistry() *CallRegistry {
	return &CallRegistry{calls: make(map[string][][]*ArgumentShape)}
}

func (r *CallRegistry) record(name string, shapes []*ArgumentShape) {
	if _, ok := r.calls[name]; !ok {
		r.order = append(r.order, name)
	}
	r.calls[name] = append(r.calls[name], shapes)
}

// Names returns the called function names in first-call order.
func (r *CallRegistry) Names() []string {
	return append([]string(nil), r.order...)
}

// Calls returns the argument shapes of every call site of name.
func (r *CallRegistry) Calls(name string) [][]*ArgumentShape {
	return r.calls[name]
}

// Len returns the number of distinct callees.
func (r *CallRegistry) Len() int {
	return len(r.order)
}
