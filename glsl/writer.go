// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/gogpu/kernelgl/estree"
)

// Writer translates one kernel function into GLSL.
type Writer struct {
	fn      *estree.Function
	options *Options
	name    string

	// Output tokens
	out tokens

	// Translation modes of the sub-tree being emitted
	state stateStack

	decls *Declarations
	calls *CallRegistry

	// arguments holds parameter types by name
	arguments map[string]Type

	warnings     []Warning
	ceilingNoted bool

	log commonlog.Logger
}

// newWriter creates a writer with the parameters already declared.
func newWriter(fn *estree.Function, options *Options, name string) *Writer {
	w := &Writer{
		fn:        fn,
		options:   options,
		name:      name,
		decls:     newDeclarations(),
		calls:     newCallRegistry(),
		arguments: make(map[string]Type, len(fn.Params)),
		log:       commonlog.GetLogger("kernelgl.glsl"),
	}
	for i, p := range fn.Params {
		t := argumentType(options, i)
		w.arguments[p.Name] = t
		w.decls.declareArgument(p.Name, t)
	}
	return w
}

// argumentType returns the configured type of parameter i.
func argumentType(options *Options, i int) Type {
	if i < len(options.ArgumentTypes) && options.ArgumentTypes[i] != TypeInvalid {
		return options.ArgumentTypes[i]
	}
	return TypeNumber
}

// formatParameters renders "type user_name" pairs for a function header.
func formatParameters(params []*estree.Identifier, options *Options) (string, error) {
	parts := make([]string, len(params))
	for i, p := range params {
		t, err := shaderType(argumentType(options, i))
		if err != nil {
			return "", err
		}
		parts[i] = t + " user_" + p.Name
	}
	return strings.Join(parts, ", "), nil
}

// writeFunction emits the header, one line per body statement, and the
// closing brace.
func (w *Writer) writeFunction() error {
	w.log.Debugf("translating %s as %s unit with %d parameters", w.name, w.options.Unit, len(w.fn.Params))

	if w.options.Unit == UnitRoot {
		w.out.push("void ", w.name, "() {\n")
	} else {
		ret, err := shaderType(w.options.ReturnType)
		if err != nil {
			return err
		}
		params, err := formatParameters(w.fn.Params, w.options)
		if err != nil {
			return err
		}
		w.out.push(ret, " ", w.name, "(", params, ") {\n")
	}

	if err := w.writeStatements(w.fn.Body.Body); err != nil {
		return err
	}
	w.out.push("}\n")

	if err := w.state.check(); err != nil {
		return err
	}
	w.log.Debugf("translated %s: %d declarations, %d callees, %d warnings", w.name, w.decls.Len(), w.calls.Len(), len(w.warnings))
	return nil
}

// translate emits node.
//
//nolint:gocyclo,cyclop // one case per node kind
func (w *Writer) translate(node estree.Node) error {
	switch n := node.(type) {
	case *estree.Literal:
		return w.writeLiteral(n)
	case *estree.Identifier:
		return w.writeIdentifier(n)
	case *estree.ThisExpression:
		w.out.push("this")
		return nil
	case *estree.BinaryExpression:
		return w.writeBinary(n)
	case *estree.LogicalExpression:
		return w.writeLogical(n)
	case *estree.UnaryExpression:
		return w.writeUnary(n.Operator, n.Prefix, n.Argument)
	case *estree.UpdateExpression:
		return w.writeUnary(n.Operator, n.Prefix, n.Argument)
	case *estree.AssignmentExpression:
		return w.writeAssignment(n)
	case *estree.MemberExpression:
		return w.writeMember(n)
	case *estree.CallExpression:
		return w.writeCall(n)
	case *estree.ArrayExpression:
		return w.writeArray(n)
	case *estree.SequenceExpression:
		return w.writeSequence(n)
	case *estree.ExpressionStatement:
		if err := w.translate(n.Expression); err != nil {
			return err
		}
		w.out.push(";")
		return nil
	case *estree.VariableDeclaration:
		return w.writeVariableDeclaration(n)
	case *estree.IfStatement:
		return w.writeIf(n)
	case *estree.ForStatement:
		return w.writeFor(n)
	case *estree.WhileStatement:
		return w.writeWhile(n)
	case *estree.DoWhileStatement:
		return w.writeDoWhile(n)
	case *estree.BlockStatement:
		return w.writeBlock(n)
	case *estree.ReturnStatement:
		return w.writeReturn(n)
	case *estree.BreakStatement:
		w.out.push("break;\n")
		return nil
	case *estree.ContinueStatement:
		w.out.push("continue;\n")
		return nil
	case *estree.EmptyStatement:
		return nil
	case *estree.Function:
		return nodeError(ErrUnknownNodeType, n, "nested function %q is not supported", n.Name)
	case *estree.Unsupported:
		return nodeError(ErrUnknownNodeType, n, "unknown node type %s", n.Type)
	case nil:
		return NewError(ErrInternal, "missing node")
	default:
		return nodeError(ErrUnknownNodeType, node, "unknown node type %s", node.Kind())
	}
}

// within translates under flag f and always pops it again.
func (w *Writer) within(f contextFlag, emit func() error) error {
	leave := w.state.enter(f)
	defer leave()
	return emit()
}

func (w *Writer) translateWithin(f contextFlag, node estree.Node) error {
	return w.within(f, func() error { return w.translate(node) })
}

// warn records a non-fatal diagnostic.
func (w *Writer) warn(node estree.Node, message string) {
	w.log.Warningf("%s: %s", w.name, message)
	w.warnings = append(w.warnings, Warning{Message: message, Span: node.Pos()})
}

// loopCeiling returns the iteration bound for loops without a static limit.
func (w *Writer) loopCeiling(node estree.Node) string {
	n := w.options.LoopMaxIterations
	if n == 0 {
		n = DefaultLoopMaxIterations
		if !w.ceilingNoted {
			w.ceilingNoted = true
			w.warn(node, fmt.Sprintf("no loop iteration ceiling configured, using %d", n))
		}
	}
	return strconv.Itoa(n)
}
