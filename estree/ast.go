// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package estree

// Kind identifies the ESTree type of a node.
type Kind uint8

const (
	KindUnsupported Kind = iota
	KindFunction
	KindIdentifier
	KindLiteral
	KindThis
	KindBinary
	KindLogical
	KindUnary
	KindUpdate
	KindAssignment
	KindMember
	KindCall
	KindArray
	KindSequence
	KindExpressionStatement
	KindVariableDeclaration
	KindVariableDeclarator
	KindIf
	KindFor
	KindWhile
	KindDoWhile
	KindBlock
	KindReturn
	KindBreak
	KindContinue
	KindEmpty
)

var kindNames = [...]string{
	KindUnsupported:         "Unsupported",
	KindFunction:            "FunctionExpression",
	KindIdentifier:          "Identifier",
	KindLiteral:             "Literal",
	KindThis:                "ThisExpression",
	KindBinary:              "BinaryExpression",
	KindLogical:             "LogicalExpression",
	KindUnary:               "UnaryExpression",
	KindUpdate:              "UpdateExpression",
	KindAssignment:          "AssignmentExpression",
	KindMember:              "MemberExpression",
	KindCall:                "CallExpression",
	KindArray:               "ArrayExpression",
	KindSequence:            "SequenceExpression",
	KindExpressionStatement: "ExpressionStatement",
	KindVariableDeclaration: "VariableDeclaration",
	KindVariableDeclarator:  "VariableDeclarator",
	KindIf:                  "IfStatement",
	KindFor:                 "ForStatement",
	KindWhile:               "WhileStatement",
	KindDoWhile:             "DoWhileStatement",
	KindBlock:               "BlockStatement",
	KindReturn:              "ReturnStatement",
	KindBreak:               "BreakStatement",
	KindContinue:            "ContinueStatement",
	KindEmpty:               "EmptyStatement",
}

// String returns the ESTree type name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Node is the base interface for all AST nodes.
type Node interface {
	Pos() Span
	Kind() Kind
}

// Expr is the interface for expressions.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statements.
type Stmt interface {
	Node
	stmtNode()
}

// Span is a source range reported by the parser that produced the tree.
type Span struct {
	Start Position
	End   Position
}

// Position is a location in the kernel source.
// Line and Column are 1-based; zero means unknown.
type Position struct {
	Line   int
	Column int
	Offset int
}

// IsZero reports whether the span carries no location.
func (s Span) IsZero() bool {
	return s.Start.Line == 0 && s.Start.Offset == 0 && s.End.Offset == 0
}

// Function is the kernel function being compiled.
type Function struct {
	Name   string
	Params []*Identifier
	Body   *BlockStatement
	Span   Span
}

func (f *Function) Pos() Span  { return f.Span }
func (f *Function) Kind() Kind { return KindFunction }
func (f *Function) exprNode()  {}

// ParamNames returns the parameter names in declaration order.
func (f *Function) ParamNames() []string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Name
	}
	return names
}

// Unsupported stands in for any ESTree node type outside the kernel subset.
// It keeps the original type name for diagnostics.
type Unsupported struct {
	Type string
	Span Span
}

func (u *Unsupported) Pos() Span  { return u.Span }
func (u *Unsupported) Kind() Kind { return KindUnsupported }
func (u *Unsupported) exprNode()  {}
func (u *Unsupported) stmtNode()  {}

// Identifier is a name reference.
type Identifier struct {
	Name string
	Span Span
}

func (i *Identifier) Pos() Span  { return i.Span }
func (i *Identifier) Kind() Kind { return KindIdentifier }
func (i *Identifier) exprNode()  {}

// Literal is a literal value. Value holds float64, string, bool or nil.
type Literal struct {
	Value any
	Raw   string
	Span  Span
}

func (l *Literal) Pos() Span  { return l.Span }
func (l *Literal) Kind() Kind { return KindLiteral }
func (l *Literal) exprNode()  {}

// Number returns the numeric value of the literal.
func (l *Literal) Number() (float64, bool) {
	v, ok := l.Value.(float64)
	return v, ok
}

// ThisExpression is the `this` keyword.
type ThisExpression struct {
	Span Span
}

func (t *ThisExpression) Pos() Span  { return t.Span }
func (t *ThisExpression) Kind() Kind { return KindThis }
func (t *ThisExpression) exprNode()  {}

// BinaryExpression is `left op right` for arithmetic and comparison operators.
type BinaryExpression struct {
	Operator string
	Left     Expr
	Right    Expr
	Span     Span
}

func (b *BinaryExpression) Pos() Span  { return b.Span }
func (b *BinaryExpression) Kind() Kind { return KindBinary }
func (b *BinaryExpression) exprNode()  {}

// LogicalExpression is `left && right` or `left || right`.
type LogicalExpression struct {
	Operator string
	Left     Expr
	Right    Expr
	Span     Span
}

func (l *LogicalExpression) Pos() Span  { return l.Span }
func (l *LogicalExpression) Kind() Kind { return KindLogical }
func (l *LogicalExpression) exprNode()  {}

// UnaryExpression is a prefix operator such as `-x` or `!x`.
type UnaryExpression struct {
	Operator string
	Prefix   bool
	Argument Expr
	Span     Span
}

func (u *UnaryExpression) Pos() Span  { return u.Span }
func (u *UnaryExpression) Kind() Kind { return KindUnary }
func (u *UnaryExpression) exprNode()  {}

// UpdateExpression is `++x`, `x++`, `--x` or `x--`.
type UpdateExpression struct {
	Operator string
	Prefix   bool
	Argument Expr
	Span     Span
}

func (u *UpdateExpression) Pos() Span  { return u.Span }
func (u *UpdateExpression) Kind() Kind { return KindUpdate }
func (u *UpdateExpression) exprNode()  {}

// AssignmentExpression is `left op right` for `=`, `+=`, `%=` and friends.
type AssignmentExpression struct {
	Operator string
	Left     Expr
	Right    Expr
	Span     Span
}

func (a *AssignmentExpression) Pos() Span  { return a.Span }
func (a *AssignmentExpression) Kind() Kind { return KindAssignment }
func (a *AssignmentExpression) exprNode()  {}

// MemberExpression is `object.property` or, when Computed, `object[property]`.
type MemberExpression struct {
	Object   Expr
	Property Expr
	Computed bool
	Span     Span
}

func (m *MemberExpression) Pos() Span  { return m.Span }
func (m *MemberExpression) Kind() Kind { return KindMember }
func (m *MemberExpression) exprNode()  {}

// PropertyName returns the property identifier name of a non-computed access.
func (m *MemberExpression) PropertyName() string {
	if id, ok := m.Property.(*Identifier); ok && !m.Computed {
		return id.Name
	}
	return ""
}

// CallExpression is `callee(arguments...)`.
type CallExpression struct {
	Callee    Expr
	Arguments []Expr
	Span      Span
}

func (c *CallExpression) Pos() Span  { return c.Span }
func (c *CallExpression) Kind() Kind { return KindCall }
func (c *CallExpression) exprNode()  {}

// ArrayExpression is an array literal `[a, b, c]`.
type ArrayExpression struct {
	Elements []Expr
	Span     Span
}

func (a *ArrayExpression) Pos() Span  { return a.Span }
func (a *ArrayExpression) Kind() Kind { return KindArray }
func (a *ArrayExpression) exprNode()  {}

// SequenceExpression is a comma expression `a, b`.
type SequenceExpression struct {
	Expressions []Expr
	Span        Span
}

func (s *SequenceExpression) Pos() Span  { return s.Span }
func (s *SequenceExpression) Kind() Kind { return KindSequence }
func (s *SequenceExpression) exprNode()  {}

// ExpressionStatement is an expression evaluated for its effect.
type ExpressionStatement struct {
	Expression Expr
	Span       Span
}

func (e *ExpressionStatement) Pos() Span  { return e.Span }
func (e *ExpressionStatement) Kind() Kind { return KindExpressionStatement }
func (e *ExpressionStatement) stmtNode()  {}

// VariableDeclaration is a `var`, `let` or `const` declaration group.
type VariableDeclaration struct {
	DeclKind     string
	Declarations []*VariableDeclarator
	Span         Span
}

func (v *VariableDeclaration) Pos() Span  { return v.Span }
func (v *VariableDeclaration) Kind() Kind { return KindVariableDeclaration }
func (v *VariableDeclaration) stmtNode()  {}

// VariableDeclarator is one `name = init` entry of a declaration group.
type VariableDeclarator struct {
	ID   *Identifier
	Init Expr // nil when absent
	Span Span
}

func (v *VariableDeclarator) Pos() Span  { return v.Span }
func (v *VariableDeclarator) Kind() Kind { return KindVariableDeclarator }

// IfStatement is `if (test) consequent else alternate`.
type IfStatement struct {
	Test       Expr
	Consequent Stmt
	Alternate  Stmt // nil when absent
	Span       Span
}

func (i *IfStatement) Pos() Span  { return i.Span }
func (i *IfStatement) Kind() Kind { return KindIf }
func (i *IfStatement) stmtNode()  {}

// ForStatement is `for (init; test; update) body`.
// Init is a *VariableDeclaration, an Expr or nil.
type ForStatement struct {
	Init   Node
	Test   Expr
	Update Expr
	Body   Stmt
	Span   Span
}

func (f *ForStatement) Pos() Span  { return f.Span }
func (f *ForStatement) Kind() Kind { return KindFor }
func (f *ForStatement) stmtNode()  {}

// WhileStatement is `while (test) body`.
type WhileStatement struct {
	Test Expr
	Body Stmt
	Span Span
}

func (w *WhileStatement) Pos() Span  { return w.Span }
func (w *WhileStatement) Kind() Kind { return KindWhile }
func (w *WhileStatement) stmtNode()  {}

// DoWhileStatement is `do body while (test)`.
type DoWhileStatement struct {
	Body Stmt
	Test Expr
	Span Span
}

func (d *DoWhileStatement) Pos() Span  { return d.Span }
func (d *DoWhileStatement) Kind() Kind { return KindDoWhile }
func (d *DoWhileStatement) stmtNode()  {}

// BlockStatement is `{ body... }`.
type BlockStatement struct {
	Body []Stmt
	Span Span
}

func (b *BlockStatement) Pos() Span  { return b.Span }
func (b *BlockStatement) Kind() Kind { return KindBlock }
func (b *BlockStatement) stmtNode()  {}

// ReturnStatement is `return argument`.
type ReturnStatement struct {
	Argument Expr // nil for a bare return
	Span     Span
}

func (r *ReturnStatement) Pos() Span  { return r.Span }
func (r *ReturnStatement) Kind() Kind { return KindReturn }
func (r *ReturnStatement) stmtNode()  {}

// BreakStatement is `break`.
type BreakStatement struct {
	Span Span
}

func (b *BreakStatement) Pos() Span  { return b.Span }
func (b *BreakStatement) Kind() Kind { return KindBreak }
func (b *BreakStatement) stmtNode()  {}

// ContinueStatement is `continue`.
type ContinueStatement struct {
	Span Span
}

func (c *ContinueStatement) Pos() Span  { return c.Span }
func (c *ContinueStatement) Kind() Kind { return KindContinue }
func (c *ContinueStatement) stmtNode()  {}

// EmptyStatement is a lone `;`.
type EmptyStatement struct {
	Span Span
}

func (e *EmptyStatement) Pos() Span  { return e.Span }
func (e *EmptyStatement) Kind() Kind { return KindEmpty }
func (e *EmptyStatement) stmtNode()  {}
