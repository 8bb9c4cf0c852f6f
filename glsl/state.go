// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import "fmt"

// contextFlag is a translation mode pushed while emitting a sub-tree.
type contextFlag uint8

const (
	// flagInGetCallParameters: emitting an index argument of a fetch helper.
	flagInGetCallParameters contextFlag = iota
	// flagNotInGetCallParameters masks flagInGetCallParameters for address arithmetic.
	flagNotInGetCallParameters
	flagInForLoopInit
	flagIntegerComparison
	// flagMultiMemberExpression: inner link of an index chain that began outside an index.
	flagMultiMemberExpression
	// flagShouldPopInGetCallParameters: inner link of an index chain that began inside an index.
	flagShouldPopInGetCallParameters
)

// String returns the flag name used in diagnostics.
func (f contextFlag) String() string {
	switch f {
	case flagInGetCallParameters:
		return "in-get-call-parameters"
	case flagNotInGetCallParameters:
		return "not-in-get-call-parameters"
	case flagInForLoopInit:
		return "in-for-loop-init"
	case flagIntegerComparison:
		return "integer-comparison"
	case flagMultiMemberExpression:
		return "multi-member-expression"
	case flagShouldPopInGetCallParameters:
		return "should-pop-in-get-call-parameters"
	default:
		return fmt.Sprintf("flag(%d)", uint8(f))
	}
}

// stateStack tracks the active translation modes. Only the top flag is
// active, so pushing a mask flag hides whatever lies beneath it.
type stateStack struct {
	flags []contextFlag
	err   error
}

func (s *stateStack) push(f contextFlag) {
	s.flags = append(s.flags, f)
}

// pop removes f from the top of the stack. A mismatch is recorded once and
// reported when the compilation finishes.
func (s *stateStack) pop(f contextFlag) {
	n := len(s.flags)
	if n == 0 {
		s.fail(fmt.Sprintf("pop %s from empty context stack", f))
		return
	}
	if top := s.flags[n-1]; top != f {
		s.fail(fmt.Sprintf("pop %s but %s is on top of the context stack", f, top))
		return
	}
	s.flags = s.flags[:n-1]
}

func (s *stateStack) fail(message string) {
	if s.err == nil {
		s.err = NewError(ErrInternal, message)
	}
}

// isActive reports whether f is the top of the stack.
func (s *stateStack) isActive(f contextFlag) bool {
	n := len(s.flags)
	return n > 0 && s.flags[n-1] == f
}

// top returns the active flag.
func (s *stateStack) top() (contextFlag, bool) {
	n := len(s.flags)
	if n == 0 {
		return 0, false
	}
	return s.flags[n-1], true
}

// enter pushes f and returns the matching pop.
func (s *stateStack) enter(f contextFlag) (leave func()) {
	s.push(f)
	return func() { s.pop(f) }
}

func (s *stateStack) depth() int {
	return len(s.flags)
}

// check returns the recorded imbalance, or an error if flags are still pushed.
func (s *stateStack) check() error {
	if s.err != nil {
		return s.err
	}
	if len(s.flags) != 0 {
		return NewError(ErrInternal, fmt.Sprintf("context stack not empty after translation: %v", s.flags))
	}
	return nil
}
