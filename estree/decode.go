// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package estree

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Format is the encoding of a serialized ESTree document.
type Format uint8

const (
	// FormatJSON is the JSON output of acorn, esprima and similar parsers.
	FormatJSON Format = iota

	// FormatMsgpack is the same document encoded as MessagePack.
	FormatMsgpack

	// FormatCBOR is the same document encoded as CBOR.
	FormatCBOR
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	case FormatCBOR:
		return "cbor"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name as accepted on the command line.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json", "":
		return FormatJSON, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return FormatJSON, fmt.Errorf("estree: unknown format %q", name)
	}
}

// DetectFormat guesses the format from a file extension, defaulting to JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mp":
		return FormatMsgpack
	case ".cbor":
		return FormatCBOR
	default:
		return FormatJSON
	}
}

// DecodeError reports a malformed or unexpected ESTree document.
type DecodeError struct {
	// Path is the location inside the document, e.g. "body.body[2].test".
	Path    string
	Message string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "estree: " + e.Message
	}
	return fmt.Sprintf("estree: %s: %s", e.Path, e.Message)
}

// Decode reads a serialized ESTree document and returns the kernel function it holds.
//
// The document may be a Program whose first statement declares the function,
// a FunctionDeclaration, a FunctionExpression or an ArrowFunctionExpression
// with a block body.
func Decode(data []byte, format Format) (*Function, error) {
	var raw any
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &raw)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &raw)
	case FormatCBOR:
		err = cbor.Unmarshal(data, &raw)
	default:
		return nil, &DecodeError{Message: fmt.Sprintf("unsupported format %d", format)}
	}
	if err != nil {
		return nil, fmt.Errorf("estree: %s decode: %w", format, err)
	}

	obj, ok := asObject(raw)
	if !ok {
		return nil, &DecodeError{Message: "document root is not an object"}
	}
	return decodeRoot(obj, "")
}

// decodeRoot locates the function node inside a document root.
func decodeRoot(obj map[string]any, path string) (*Function, error) {
	switch typeOf(obj) {
	case "Program":
		body, _ := asArray(obj["body"])
		if len(body) == 0 {
			return nil, &DecodeError{Path: join(path, "body"), Message: "program has no statements"}
		}
		first, ok := asObject(body[0])
		if !ok {
			return nil, &DecodeError{Path: index(join(path, "body"), 0), Message: "statement is not an object"}
		}
		return decodeRoot(first, index(join(path, "body"), 0))

	case "ExpressionStatement":
		expr, ok := asObject(obj["expression"])
		if !ok {
			return nil, &DecodeError{Path: join(path, "expression"), Message: "missing expression"}
		}
		return decodeRoot(expr, join(path, "expression"))

	case "VariableDeclaration":
		decls, _ := asArray(obj["declarations"])
		if len(decls) != 1 {
			return nil, &DecodeError{Path: join(path, "declarations"), Message: "expected exactly one declarator holding the function"}
		}
		declPath := index(join(path, "declarations"), 0)
		decl, _ := asObject(decls[0])
		init, ok := asObject(decl["init"])
		if !ok {
			return nil, &DecodeError{Path: join(declPath, "init"), Message: "declarator has no function initializer"}
		}
		fn, err := decodeRoot(init, join(declPath, "init"))
		if err != nil {
			return nil, err
		}
		if fn.Name == "" {
			if id, ok := asObject(decl["id"]); ok {
				fn.Name, _ = id["name"].(string)
			}
		}
		return fn, nil

	case "FunctionDeclaration", "FunctionExpression", "ArrowFunctionExpression":
		return decodeFunction(obj, path)

	default:
		return nil, &DecodeError{Path: path, Message: fmt.Sprintf("expected a function, found %q", typeOf(obj))}
	}
}

func decodeFunction(obj map[string]any, path string) (*Function, error) {
	fn := &Function{Span: spanOf(obj)}
	if id, ok := asObject(obj["id"]); ok {
		fn.Name, _ = id["name"].(string)
	}

	params, _ := asArray(obj["params"])
	for i, p := range params {
		pPath := index(join(path, "params"), i)
		pObj, ok := asObject(p)
		if !ok || typeOf(pObj) != "Identifier" {
			return nil, &DecodeError{Path: pPath, Message: "only plain identifier parameters are supported"}
		}
		id, err := decodeIdentifier(pObj, pPath)
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, id)
	}

	bodyObj, ok := asObject(obj["body"])
	if !ok || typeOf(bodyObj) != "BlockStatement" {
		return nil, &DecodeError{Path: join(path, "body"), Message: "function body must be a block statement"}
	}
	body, err := decodeBlock(bodyObj, join(path, "body"))
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

// decodeNode decodes any supported node. Unknown types become *Unsupported.
//
//nolint:gocyclo,cyclop // one case per ESTree node type
func decodeNode(obj map[string]any, path string) (Node, error) {
	span := spanOf(obj)
	switch typ := typeOf(obj); typ {
	case "Identifier":
		return decodeIdentifier(obj, path)

	case "Literal":
		lit := &Literal{Span: span}
		lit.Raw, _ = obj["raw"].(string)
		if _, isRegex := obj["regex"]; isRegex {
			lit.Value = lit.Raw
			return lit, nil
		}
		switch v := obj["value"].(type) {
		case nil:
			lit.Value = nil
		case string, bool:
			lit.Value = v
		default:
			n, ok := number(v)
			if !ok {
				return nil, &DecodeError{Path: join(path, "value"), Message: fmt.Sprintf("unsupported literal value %T", v)}
			}
			lit.Value = n
		}
		return lit, nil

	case "ThisExpression":
		return &ThisExpression{Span: span}, nil

	case "BinaryExpression", "LogicalExpression", "AssignmentExpression":
		op, _ := obj["operator"].(string)
		left, err := decodeExpr(obj["left"], join(path, "left"))
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(obj["right"], join(path, "right"))
		if err != nil {
			return nil, err
		}
		switch typ {
		case "BinaryExpression":
			return &BinaryExpression{Operator: op, Left: left, Right: right, Span: span}, nil
		case "LogicalExpression":
			return &LogicalExpression{Operator: op, Left: left, Right: right, Span: span}, nil
		default:
			return &AssignmentExpression{Operator: op, Left: left, Right: right, Span: span}, nil
		}

	case "UnaryExpression", "UpdateExpression":
		op, _ := obj["operator"].(string)
		prefix, hasPrefix := obj["prefix"].(bool)
		if !hasPrefix {
			prefix = typ == "UnaryExpression"
		}
		arg, err := decodeExpr(obj["argument"], join(path, "argument"))
		if err != nil {
			return nil, err
		}
		if typ == "UnaryExpression" {
			return &UnaryExpression{Operator: op, Prefix: prefix, Argument: arg, Span: span}, nil
		}
		return &UpdateExpression{Operator: op, Prefix: prefix, Argument: arg, Span: span}, nil

	case "MemberExpression":
		object, err := decodeExpr(obj["object"], join(path, "object"))
		if err != nil {
			return nil, err
		}
		property, err := decodeExpr(obj["property"], join(path, "property"))
		if err != nil {
			return nil, err
		}
		computed, _ := obj["computed"].(bool)
		return &MemberExpression{Object: object, Property: property, Computed: computed, Span: span}, nil

	case "CallExpression":
		callee, err := decodeExpr(obj["callee"], join(path, "callee"))
		if err != nil {
			return nil, err
		}
		args, err := decodeExprList(obj["arguments"], join(path, "arguments"))
		if err != nil {
			return nil, err
		}
		return &CallExpression{Callee: callee, Arguments: args, Span: span}, nil

	case "ArrayExpression":
		elems, err := decodeExprList(obj["elements"], join(path, "elements"))
		if err != nil {
			return nil, err
		}
		return &ArrayExpression{Elements: elems, Span: span}, nil

	case "SequenceExpression":
		exprs, err := decodeExprList(obj["expressions"], join(path, "expressions"))
		if err != nil {
			return nil, err
		}
		return &SequenceExpression{Expressions: exprs, Span: span}, nil

	case "FunctionExpression", "ArrowFunctionExpression", "FunctionDeclaration":
		return decodeFunction(obj, path)

	case "ExpressionStatement":
		expr, err := decodeExpr(obj["expression"], join(path, "expression"))
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{Expression: expr, Span: span}, nil

	case "VariableDeclaration":
		return decodeVariableDeclaration(obj, path)

	case "IfStatement":
		test, err := decodeExpr(obj["test"], join(path, "test"))
		if err != nil {
			return nil, err
		}
		cons, err := decodeStmt(obj["consequent"], join(path, "consequent"))
		if err != nil {
			return nil, err
		}
		stmt := &IfStatement{Test: test, Consequent: cons, Span: span}
		if obj["alternate"] != nil {
			if stmt.Alternate, err = decodeStmt(obj["alternate"], join(path, "alternate")); err != nil {
				return nil, err
			}
		}
		return stmt, nil

	case "ForStatement":
		return decodeFor(obj, path)

	case "WhileStatement", "DoWhileStatement":
		test, err := decodeExpr(obj["test"], join(path, "test"))
		if err != nil {
			return nil, err
		}
		body, err := decodeStmt(obj["body"], join(path, "body"))
		if err != nil {
			return nil, err
		}
		if typ == "WhileStatement" {
			return &WhileStatement{Test: test, Body: body, Span: span}, nil
		}
		return &DoWhileStatement{Body: body, Test: test, Span: span}, nil

	case "BlockStatement":
		return decodeBlock(obj, path)

	case "ReturnStatement":
		ret := &ReturnStatement{Span: span}
		if obj["argument"] != nil {
			arg, err := decodeExpr(obj["argument"], join(path, "argument"))
			if err != nil {
				return nil, err
			}
			ret.Argument = arg
		}
		return ret, nil

	case "BreakStatement":
		return &BreakStatement{Span: span}, nil
	case "ContinueStatement":
		return &ContinueStatement{Span: span}, nil
	case "EmptyStatement":
		return &EmptyStatement{Span: span}, nil

	case "":
		return nil, &DecodeError{Path: path, Message: "node has no type"}

	default:
		return &Unsupported{Type: typ, Span: span}, nil
	}
}

func decodeIdentifier(obj map[string]any, path string) (*Identifier, error) {
	name, _ := obj["name"].(string)
	if name == "" {
		return nil, &DecodeError{Path: join(path, "name"), Message: "identifier has no name"}
	}
	return &Identifier{Name: name, Span: spanOf(obj)}, nil
}

func decodeVariableDeclaration(obj map[string]any, path string) (*VariableDeclaration, error) {
	decl := &VariableDeclaration{Span: spanOf(obj)}
	decl.DeclKind, _ = obj["kind"].(string)
	items, _ := asArray(obj["declarations"])
	if len(items) == 0 {
		return nil, &DecodeError{Path: join(path, "declarations"), Message: "declaration has no declarators"}
	}
	for i, item := range items {
		itemPath := index(join(path, "declarations"), i)
		itemObj, ok := asObject(item)
		if !ok || typeOf(itemObj) != "VariableDeclarator" {
			return nil, &DecodeError{Path: itemPath, Message: "expected a VariableDeclarator"}
		}
		idObj, ok := asObject(itemObj["id"])
		if !ok || typeOf(idObj) != "Identifier" {
			return nil, &DecodeError{Path: join(itemPath, "id"), Message: "destructuring declarations are not supported"}
		}
		id, err := decodeIdentifier(idObj, join(itemPath, "id"))
		if err != nil {
			return nil, err
		}
		d := &VariableDeclarator{ID: id, Span: spanOf(itemObj)}
		if itemObj["init"] != nil {
			if d.Init, err = decodeExpr(itemObj["init"], join(itemPath, "init")); err != nil {
				return nil, err
			}
		}
		decl.Declarations = append(decl.Declarations, d)
	}
	return decl, nil
}

func decodeFor(obj map[string]any, path string) (*ForStatement, error) {
	stmt := &ForStatement{Span: spanOf(obj)}
	if initObj, ok := asObject(obj["init"]); ok {
		init, err := decodeNode(initObj, join(path, "init"))
		if err != nil {
			return nil, err
		}
		stmt.Init = init
	}
	var err error
	if obj["test"] != nil {
		if stmt.Test, err = decodeExpr(obj["test"], join(path, "test")); err != nil {
			return nil, err
		}
	}
	if obj["update"] != nil {
		if stmt.Update, err = decodeExpr(obj["update"], join(path, "update")); err != nil {
			return nil, err
		}
	}
	if stmt.Body, err = decodeStmt(obj["body"], join(path, "body")); err != nil {
		return nil, err
	}
	return stmt, nil
}

func decodeBlock(obj map[string]any, path string) (*BlockStatement, error) {
	block := &BlockStatement{Span: spanOf(obj)}
	items, _ := asArray(obj["body"])
	for i, item := range items {
		stmt, err := decodeStmt(item, index(join(path, "body"), i))
		if err != nil {
			return nil, err
		}
		block.Body = append(block.Body, stmt)
	}
	return block, nil
}

func decodeExpr(v any, path string) (Expr, error) {
	obj, ok := asObject(v)
	if !ok {
		return nil, &DecodeError{Path: path, Message: "missing expression"}
	}
	node, err := decodeNode(obj, path)
	if err != nil {
		return nil, err
	}
	expr, ok := node.(Expr)
	if !ok {
		return nil, &DecodeError{Path: path, Message: fmt.Sprintf("%s is not an expression", node.Kind())}
	}
	return expr, nil
}

func decodeStmt(v any, path string) (Stmt, error) {
	obj, ok := asObject(v)
	if !ok {
		return nil, &DecodeError{Path: path, Message: "missing statement"}
	}
	node, err := decodeNode(obj, path)
	if err != nil {
		return nil, err
	}
	if fn, ok := node.(*Function); ok {
		return &Unsupported{Type: "FunctionDeclaration", Span: fn.Span}, nil
	}
	stmt, ok := node.(Stmt)
	if !ok {
		return nil, &DecodeError{Path: path, Message: fmt.Sprintf("%s is not a statement", node.Kind())}
	}
	return stmt, nil
}

func decodeExprList(v any, path string) ([]Expr, error) {
	items, _ := asArray(v)
	exprs := make([]Expr, 0, len(items))
	for i, item := range items {
		if item == nil {
			return nil, &DecodeError{Path: index(path, i), Message: "holes are not supported"}
		}
		expr, err := decodeExpr(item, index(path, i))
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// spanOf reads ESTree "loc" (line/column) and "start"/"end" offsets.
// ESTree columns are 0-based; Span columns are 1-based.
func spanOf(obj map[string]any) Span {
	var span Span
	if n, ok := number(obj["start"]); ok {
		span.Start.Offset = int(n)
	}
	if n, ok := number(obj["end"]); ok {
		span.End.Offset = int(n)
	}
	loc, ok := asObject(obj["loc"])
	if !ok {
		return span
	}
	if start, ok := asObject(loc["start"]); ok {
		span.Start.Line, span.Start.Column = lineColumn(start)
	}
	if end, ok := asObject(loc["end"]); ok {
		span.End.Line, span.End.Column = lineColumn(end)
	}
	return span
}

func lineColumn(obj map[string]any) (int, int) {
	line, _ := number(obj["line"])
	col, _ := number(obj["column"])
	return int(line), int(col) + 1
}

func typeOf(obj map[string]any) string {
	typ, _ := obj["type"].(string)
	return typ
}

// asObject accepts both string-keyed maps (JSON, MessagePack) and
// interface-keyed maps (CBOR).
func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func asArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// number normalizes the numeric representations produced by the three decoders.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
