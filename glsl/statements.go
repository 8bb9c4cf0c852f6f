// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"

	"github.com/gogpu/kernelgl/estree"
)

// endLine terminates the current line unless it already is.
func (w *Writer) endLine() {
	if !strings.HasSuffix(w.out.last(), "\n") {
		w.out.push("\n")
	}
}

// writeStatements emits each statement on its own line.
func (w *Writer) writeStatements(stmts []estree.Stmt) error {
	for _, s := range stmts {
		if err := w.translate(s); err != nil {
			return err
		}
		w.endLine()
	}
	return nil
}

func (w *Writer) writeBlock(b *estree.BlockStatement) error {
	w.out.push("{\n")
	if err := w.writeStatements(b.Body); err != nil {
		return err
	}
	w.out.push("}\n")
	return nil
}

// writeBranch emits a statement as a braced block.
func (w *Writer) writeBranch(s estree.Stmt) error {
	if b, ok := s.(*estree.BlockStatement); ok {
		return w.writeBlock(b)
	}
	w.out.push(" {\n")
	if err := w.translate(s); err != nil {
		return err
	}
	w.endLine()
	w.out.push("}\n")
	return nil
}

// writeBody emits the statements of a loop body without extra braces.
func (w *Writer) writeBody(s estree.Stmt) error {
	if b, ok := s.(*estree.BlockStatement); ok {
		return w.writeStatements(b.Body)
	}
	if err := w.translate(s); err != nil {
		return err
	}
	w.endLine()
	return nil
}

func (w *Writer) writeIf(s *estree.IfStatement) error {
	w.out.push("if (")
	if err := w.translate(s.Test); err != nil {
		return err
	}
	w.out.push(")")
	if err := w.writeBranch(s.Consequent); err != nil {
		return err
	}
	if s.Alternate == nil {
		return nil
	}
	w.out.push("else ")
	return w.writeBranch(s.Alternate)
}

func (w *Writer) writeReturn(r *estree.ReturnStatement) error {
	switch w.options.Unit {
	case UnitRoot:
		if r.Argument != nil {
			w.out.push("kernelResult = ")
			if err := w.translate(r.Argument); err != nil {
				return err
			}
			w.out.push(";")
		}
		w.out.push("return;")
	case UnitSub:
		result := "subKernelResult_" + w.name
		if r.Argument != nil {
			w.out.push(result, " = ")
			if err := w.translate(r.Argument); err != nil {
				return err
			}
			w.out.push(";")
		}
		w.out.push("return ", result, ";")
	default:
		if r.Argument == nil {
			w.out.push("return;")
			return nil
		}
		w.out.push("return ")
		if err := w.translate(r.Argument); err != nil {
			return err
		}
		w.out.push(";")
	}
	return nil
}

// writeVariableDeclaration emits one shader declaration per run of
// declarators that share a shader type.
func (w *Writer) writeVariableDeclaration(d *estree.VariableDeclaration) error {
	if len(d.Declarations) == 0 {
		return nodeError(ErrInvalidInput, d, "declaration without declarators")
	}
	group := ""
	for i, decl := range d.Declarations {
		t, err := w.inferAndDeclare(decl)
		if err != nil {
			return err
		}
		glslType, err := shaderType(t)
		if err != nil {
			return err
		}
		switch {
		case i == 0:
			w.out.push(glslType, " ")
		case glslType != group:
			w.out.push(";", glslType, " ")
		default:
			w.out.push(",")
		}
		group = glslType
		if err := w.writeDeclarator(decl); err != nil {
			return err
		}
	}
	w.out.push(";")
	return nil
}

func (w *Writer) writeDeclarator(decl *estree.VariableDeclarator) error {
	w.out.push("user_", decl.ID.Name)
	if decl.Init == nil {
		return nil
	}
	w.out.push("=")
	return w.translate(decl.Init)
}

// writeFor emits a for loop. A loop bounded by a runtime value is rewritten
// to a constant ceiling with the real test moved into the body.
func (w *Writer) writeFor(f *estree.ForStatement) error {
	test, ok := f.Test.(*estree.BinaryExpression)
	if !ok {
		return nodeError(ErrInvalidLoopConstruct, f, "for loop needs a comparison test")
	}
	if bound, ok := test.Right.(*estree.Identifier); ok && test.Operator == "<" && !w.isConstant(bound.Name) {
		return w.writeBoundedFor(f, test)
	}
	if decl, ok := f.Init.(*estree.VariableDeclaration); ok && len(decl.Declarations) > 0 {
		return w.writeCountingFor(f, decl)
	}
	return nodeError(ErrInvalidLoopConstruct, f, "for loop needs a variable declaration or a runtime bound")
}

// isConstant reports whether name is a kernel constant.
func (w *Writer) isConstant(name string) bool {
	_, ok := w.options.ConstantTypes[name]
	return ok
}

func (w *Writer) writeBoundedFor(f *estree.ForStatement, test *estree.BinaryExpression) error {
	ceiling := w.loopCeiling(f)

	w.out.push("for (")
	if err := w.within(flagInForLoopInit, func() error { return w.writeForInit(f.Init) }); err != nil {
		return err
	}
	if err := w.translate(test.Left); err != nil {
		return err
	}
	w.out.push(test.Operator, ceiling, ";")
	if err := w.writeForUpdate(f.Update); err != nil {
		return err
	}
	w.out.push(")")

	w.out.push("{\n", "if (")
	if err := w.writeInfix(test.Left, test.Operator, test.Right); err != nil {
		return err
	}
	w.out.push(") {\n")
	if err := w.writeBody(f.Body); err != nil {
		return err
	}
	w.out.push("} else {\n", "break;\n", "}\n", "}\n")
	return nil
}

// writeForInit emits the initializer clause including its semicolon.
func (w *Writer) writeForInit(init estree.Node) error {
	switch n := init.(type) {
	case nil:
		w.out.push(";")
		return nil
	case *estree.VariableDeclaration:
		return w.translate(n)
	default:
		if err := w.translate(n); err != nil {
			return err
		}
		w.out.push(";")
		return nil
	}
}

func (w *Writer) writeForUpdate(update estree.Expr) error {
	if update == nil {
		return nil
	}
	return w.translate(update)
}

// writeCountingFor emits a loop over int counters declared in its
// initializer.
func (w *Writer) writeCountingFor(f *estree.ForStatement, decl *estree.VariableDeclaration) error {
	w.out.push("for (")
	err := w.within(flagInForLoopInit, func() error {
		if len(decl.Declarations) == 1 {
			return w.translate(decl)
		}
		w.out.push("int ")
		for i, d := range decl.Declarations {
			if i > 0 {
				w.out.push(",")
			}
			if recorded, same := w.decls.declare(d.ID.Name, TypeInteger); !same {
				return nodeError(ErrInvalidLoopConstruct, d, "loop counter %s is already declared as %s", d.ID.Name, recorded)
			}
			if err := w.writeDeclarator(d); err != nil {
				return err
			}
		}
		w.out.push(";")
		return nil
	})
	if err != nil {
		return err
	}

	if err := w.translate(f.Test); err != nil {
		return err
	}
	w.out.push(";")
	if err := w.writeForUpdate(f.Update); err != nil {
		return err
	}
	w.out.push(")")
	return w.writeBranch(f.Body)
}

func (w *Writer) writeWhile(s *estree.WhileStatement) error {
	w.out.push("for (int i = 0; i < ", w.loopCeiling(s), "; i++) {\n", "if (")
	if err := w.translate(s.Test); err != nil {
		return err
	}
	w.out.push(") {\n")
	if err := w.writeBody(s.Body); err != nil {
		return err
	}
	w.out.push("} else {\n", "break;\n", "}\n", "}\n")
	return nil
}

func (w *Writer) writeDoWhile(s *estree.DoWhileStatement) error {
	w.out.push("for (int i = 0; i < ", w.loopCeiling(s), "; i++) {\n")
	if err := w.writeBody(s.Body); err != nil {
		return err
	}
	w.out.push("if (!")
	if err := w.translate(s.Test); err != nil {
		return err
	}
	w.out.push(") {\n", "break;\n", "}\n", "}\n")
	return nil
}
