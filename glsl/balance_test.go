// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/gogpu/kernelgl/estree"
)

// kernelGen builds random kernels from the supported subset. Every tree it
// produces is translatable, so any failure is a translator bug.
type kernelGen struct {
	rng  *rand.Rand
	vars []string
	next int
}

var binaryOps = []string{"+", "-", "*", "/", "%", "<", ">", "<=", ">=", "==", "!==", "**"}

func (g *kernelGen) expr(depth int) estree.Expr {
	if depth <= 0 {
		return g.leaf()
	}
	switch g.rng.Intn(7) {
	case 0:
		return bin(g.expr(depth-1), binaryOps[g.rng.Intn(len(binaryOps))], g.expr(depth-1))
	case 1:
		return index(ident("a"), g.expr(depth-1))
	case 2:
		return index(ident("m"), g.expr(depth-1), g.expr(depth-1))
	case 3:
		return index(ident("c"), g.expr(depth-1), g.expr(depth-1), g.expr(depth-1))
	case 4:
		return call(prop(ident("Math"), "floor"), g.expr(depth-1))
	case 5:
		return neg(g.expr(depth - 1))
	default:
		return logical(g.expr(depth-1), "&&", g.expr(depth-1))
	}
}

func (g *kernelGen) leaf() estree.Expr {
	switch g.rng.Intn(7) {
	case 0:
		return num(float64(g.rng.Intn(8)))
	case 1:
		return num(float64(g.rng.Intn(8)) + 0.5)
	case 2:
		return thread([]string{"x", "y", "z"}[g.rng.Intn(3)])
	case 3:
		return output("x")
	case 4:
		return constant("size")
	case 5:
		return ident("i")
	default:
		if len(g.vars) > 0 {
			return ident(g.vars[g.rng.Intn(len(g.vars))])
		}
		return ident("x")
	}
}

func (g *kernelGen) stmt(depth int) estree.Stmt {
	if depth <= 0 || g.rng.Intn(3) == 0 {
		name := fmt.Sprintf("v%d", g.next)
		g.next++
		s := varStmt(name, g.expr(2))
		g.vars = append(g.vars, name)
		return s
	}
	switch g.rng.Intn(4) {
	case 0:
		return &estree.IfStatement{Test: g.expr(2), Consequent: block(g.stmt(depth - 1)), Alternate: g.stmt(depth - 1)}
	case 1:
		k := fmt.Sprintf("k%d", g.next)
		g.next++
		return forStmt(varStmt(k, num(0)), bin(ident(k), "<", num(4)), postInc(ident(k)), block(g.stmt(depth-1)))
	case 2:
		return forStmt(varStmt(fmt.Sprintf("k%d", g.next), num(0)), bin(ident("x"), "<", ident("n")), nil, g.stmt(depth-1))
	default:
		return &estree.WhileStatement{Test: bin(ident("x"), "<", g.expr(1)), Body: block(g.stmt(depth - 1))}
	}
}

func TestGLSL_RandomKernelsStayBalanced(t *testing.T) {
	g := &kernelGen{rng: rand.New(rand.NewSource(20250611))}

	for iter := 0; iter < 300; iter++ {
		g.vars, g.next = nil, 0

		var body []estree.Stmt
		for n := 1 + g.rng.Intn(4); n > 0; n-- {
			body = append(body, g.stmt(3))
		}
		body = append(body, ret(g.expr(3)))

		fn := function("kernel", []string{"a", "m", "c", "x", "i", "n"}, body...)
		opts := rootOptions(TypeArray, TypeArray2D, TypeArray3D, TypeNumber, TypeInteger, TypeNumber)
		opts.ConstantTypes = map[string]Type{"size": TypeInteger}

		source, _, err := Compile(fn, opts)
		if err != nil {
			t.Fatalf("iteration %d: %v", iter, err)
		}
		if strings.Count(source, "(") != strings.Count(source, ")") {
			t.Fatalf("iteration %d: unbalanced parentheses\n%s", iter, source)
		}
		if strings.Count(source, "{") != strings.Count(source, "}") {
			t.Fatalf("iteration %d: unbalanced braces\n%s", iter, source)
		}
	}
}
