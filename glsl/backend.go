// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/kernelgl/estree"
)

// DefaultLoopMaxIterations bounds loops whose limit is not known statically
// when Options.LoopMaxIterations is unset.
const DefaultLoopMaxIterations = 1000

// Unit selects how the function is wired into the generated program.
type Unit uint8

const (
	// UnitFunction is a plain helper function with a prototype.
	UnitFunction Unit = iota

	// UnitRoot is the kernel entry point; it writes kernelResult.
	UnitRoot

	// UnitSub is an auxiliary kernel; it writes subKernelResult_<name>.
	UnitSub
)

// String returns the unit name used in configuration files.
func (u Unit) String() string {
	switch u {
	case UnitFunction:
		return "function"
	case UnitRoot:
		return "root"
	case UnitSub:
		return "sub"
	default:
		return fmt.Sprintf("Unit(%d)", uint8(u))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Unit) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "function", "":
		*u = UnitFunction
	case "root":
		*u = UnitRoot
	case "sub":
		*u = UnitSub
	default:
		return NewError(ErrInvalidInput, fmt.Sprintf("unknown unit %q", text))
	}
	return nil
}

// Plugin replaces calls to a host function with fixed shader text.
type Plugin struct {
	// Name identifies the plugin in diagnostics.
	Name string

	// FunctionMatch is the host callee, e.g. "Math.random()".
	FunctionMatch string

	// FunctionReplace is emitted in place of the whole call.
	FunctionReplace string

	// FunctionReturnType is the type of the replacement, used by declarations.
	FunctionReturnType Type
}

// Options configures kernel translation.
type Options struct {
	// Name overrides the function name from the AST.
	Name string

	// Unit selects root kernel, sub-kernel or plain function output.
	Unit Unit

	// ArgumentTypes gives the type of each parameter in order.
	// Missing entries default to TypeNumber.
	ArgumentTypes []Type

	// ReturnType is the declared result type. Defaults to TypeNumber if zero.
	ReturnType Type

	// ConstantTypes types the names reachable through this.constants.
	ConstantTypes map[string]Type

	// ReturnTypes types the results of called functions by callee name.
	ReturnTypes map[string]Type

	// LoopMaxIterations is the ceiling substituted for loops whose bound is
	// not static. Zero selects DefaultLoopMaxIterations with a warning.
	LoopMaxIterations int

	// FixIntegerDivisionAccuracy routes "/" through div_with_int_check.
	FixIntegerDivisionAccuracy bool

	// Plugins replace matching calls.
	Plugins []Plugin
}

// DefaultOptions returns options for a root kernel. LoopMaxIterations is
// left at zero, so unbounded loops use DefaultLoopMaxIterations and warn.
func DefaultOptions() Options {
	return Options{
		Unit:       UnitRoot,
		ReturnType: TypeNumber,
	}
}

// Warning is a non-fatal diagnostic produced during translation.
type Warning struct {
	Message string
	Span    estree.Span
}

func (w Warning) String() string {
	if w.Span.Start.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", w.Span.Start.Line, w.Span.Start.Column, w.Message)
	}
	return w.Message
}

// TranslationInfo contains metadata about the translation.
type TranslationInfo struct {
	// Name is the emitted function name.
	Name string

	// Prototype is the forward declaration of a plain function; empty for kernels.
	Prototype string

	// CalledFunctions lists every callee with its call-site argument shapes.
	CalledFunctions *CallRegistry

	// Declarations is the final declaration table.
	Declarations map[string]Type

	// Warnings collects non-fatal diagnostics.
	Warnings []Warning
}

// FunctionNode is one kernel function awaiting translation. Its source is
// produced on first request and cached, including a failure.
type FunctionNode struct {
	fn      *estree.Function
	options Options
	name    string

	once   sync.Once
	source string
	err    error
	writer *Writer

	// onTranslate is invoked each time the body is translated.
	onTranslate func()
}

// NewFunctionNode validates fn and options.
func NewFunctionNode(fn *estree.Function, options Options) (*FunctionNode, error) {
	if fn == nil || fn.Body == nil {
		return nil, NewError(ErrInvalidInput, "function has no body")
	}
	if len(options.ArgumentTypes) > len(fn.Params) {
		return nil, NewError(ErrInvalidInput, fmt.Sprintf("%d argument types for %d parameters", len(options.ArgumentTypes), len(fn.Params)))
	}
	for i, t := range options.ArgumentTypes {
		if t == TypeInvalid {
			continue
		}
		if _, err := shaderType(t); err != nil {
			return nil, NewError(ErrUnknownType, fmt.Sprintf("argument %s has type %s with no shader representation", fn.Params[i].Name, t))
		}
	}
	if options.ReturnType == TypeInvalid {
		options.ReturnType = TypeNumber
	}
	if _, err := shaderType(options.ReturnType); err != nil {
		return nil, err
	}
	if options.LoopMaxIterations < 0 {
		return nil, NewError(ErrInvalidInput, fmt.Sprintf("negative loop ceiling %d", options.LoopMaxIterations))
	}
	for _, p := range options.Plugins {
		if strings.TrimSpace(p.FunctionMatch) == "" {
			return nil, NewError(ErrInvalidInput, fmt.Sprintf("plugin %q has no function match", p.Name))
		}
	}

	name := options.Name
	if name == "" {
		name = fn.Name
	}
	if name == "" {
		if options.Unit != UnitRoot {
			return nil, NewError(ErrInvalidInput, "anonymous function needs a name")
		}
		name = "kernel"
	}

	return &FunctionNode{
		fn:      fn,
		options: options,
		name:    escapeKeyword(name),
	}, nil
}

// Name returns the emitted function name.
func (n *FunctionNode) Name() string {
	return n.name
}

// Source returns the translated function. Repeated calls return the same
// text without translating again.
func (n *FunctionNode) Source() (string, error) {
	n.once.Do(n.translate)
	return n.source, n.err
}

func (n *FunctionNode) translate() {
	if n.onTranslate != nil {
		n.onTranslate()
	}
	w := newWriter(n.fn, &n.options, n.name)
	n.writer = w
	if err := w.writeFunction(); err != nil {
		n.err = err
		return
	}
	n.source = optimizeSource(strings.TrimSpace(w.out.String()))
}

// String returns the translated source, or an empty string on failure.
func (n *FunctionNode) String() string {
	source, _ := n.Source()
	return source
}

// Build translates the function and reports whether it produced source.
func (n *FunctionNode) Build() bool {
	source, err := n.Source()
	return err == nil && source != ""
}

// Prototype returns the forward declaration of a plain function,
// e.g. "float add(float user_a, float user_b);". Kernels have none.
func (n *FunctionNode) Prototype() (string, error) {
	if n.options.Unit != UnitFunction {
		return "", nil
	}
	ret, err := shaderType(n.options.ReturnType)
	if err != nil {
		return "", err
	}
	params, err := formatParameters(n.fn.Params, &n.options)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s(%s);", ret, n.name, params), nil
}

// CalledFunctions returns the callees recorded during translation.
func (n *FunctionNode) CalledFunctions() (*CallRegistry, error) {
	if _, err := n.Source(); err != nil {
		return nil, err
	}
	return n.writer.calls, nil
}

// Declarations returns the declaration table built during translation.
func (n *FunctionNode) Declarations() (*Declarations, error) {
	if _, err := n.Source(); err != nil {
		return nil, err
	}
	return n.writer.decls, nil
}

// Warnings returns the diagnostics collected during translation.
func (n *FunctionNode) Warnings() []Warning {
	if _, err := n.Source(); err != nil || n.writer == nil {
		return nil
	}
	return append([]Warning(nil), n.writer.warnings...)
}

// Compile translates a kernel function to GLSL.
// Returns the GLSL source as a string, translation info, or an error.
func Compile(fn *estree.Function, options Options) (string, TranslationInfo, error) {
	node, err := NewFunctionNode(fn, options)
	if err != nil {
		return "", TranslationInfo{}, err
	}
	source, err := node.Source()
	if err != nil {
		return "", TranslationInfo{}, err
	}
	proto, err := node.Prototype()
	if err != nil {
		return "", TranslationInfo{}, err
	}

	info := TranslationInfo{
		Name:            node.name,
		Prototype:       proto,
		CalledFunctions: node.writer.calls,
		Declarations:    node.writer.decls.Map(),
		Warnings:        node.Warnings(),
	}
	return source, info, nil
}
