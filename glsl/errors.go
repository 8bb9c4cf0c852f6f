// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"errors"
	"fmt"

	"github.com/gogpu/kernelgl/estree"
)

// ErrorKind categorizes kernel translation errors.
type ErrorKind uint8

const (
	// ErrInvalidInput indicates the function or options handed to the compiler are malformed.
	ErrInvalidInput ErrorKind = iota

	// ErrInvalidLoopConstruct indicates a for loop shape the translator cannot bound.
	ErrInvalidLoopConstruct

	// ErrInvalidMemberExpression indicates an index or property access that has no shader form.
	ErrInvalidMemberExpression

	// ErrUnsupportedLiteral indicates a string, boolean or null literal.
	ErrUnsupportedLiteral

	// ErrUnknownType indicates a semantic type with no shader representation.
	ErrUnknownType

	// ErrUnknownNodeType indicates an AST node outside the kernel subset.
	ErrUnknownNodeType

	// ErrUnknownCallExpression indicates a callee that is not a name or dotted path.
	ErrUnknownCallExpression

	// ErrInternal indicates a translator bug, such as an unbalanced context stack.
	ErrInternal
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidInput:
		return "InvalidInput"
	case ErrInvalidLoopConstruct:
		return "InvalidLoopConstruct"
	case ErrInvalidMemberExpression:
		return "InvalidMemberExpression"
	case ErrUnsupportedLiteral:
		return "UnsupportedLiteral"
	case ErrUnknownType:
		return "UnknownType"
	case ErrUnknownNodeType:
		return "UnknownNodeType"
	case ErrUnknownCallExpression:
		return "UnknownCallExpression"
	case ErrInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error represents a kernel translation error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string

	// Span optionally identifies the offending node.
	Span *estree.Span
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Span != nil && !e.Span.IsZero() {
		if e.Span.Start.Line > 0 {
			return fmt.Sprintf("glsl %s at %d:%d: %s", e.Kind, e.Span.Start.Line, e.Span.Start.Column, e.Message)
		}
		return fmt.Sprintf("glsl %s at [%d:%d]: %s", e.Kind, e.Span.Start.Offset, e.Span.End.Offset, e.Message)
	}
	return fmt.Sprintf("glsl %s: %s", e.Kind, e.Message)
}

// NewError creates a new error without span information.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// NewErrorWithSpan creates a new error pointing at a source range.
func NewErrorWithSpan(kind ErrorKind, message string, span estree.Span) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Span:    &span,
	}
}

// nodeError reports a failure at node.
func nodeError(kind ErrorKind, node estree.Node, format string, args ...any) *Error {
	return NewErrorWithSpan(kind, fmt.Sprintf(format, args...), node.Pos())
}

// IsKind reports whether err is, or wraps, a translation error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
