// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import "strings"

// tokens is the append-only output of a translation.
type tokens struct {
	items []string
}

func (t *tokens) push(items ...string) {
	t.items = append(t.items, items...)
}

func (t *tokens) last() string {
	if len(t.items) == 0 {
		return ""
	}
	return t.items[len(t.items)-1]
}

// removeLast drops and returns the final token.
func (t *tokens) removeLast() (string, bool) {
	n := len(t.items)
	if n == 0 {
		return "", false
	}
	last := t.items[n-1]
	t.items = t.items[:n-1]
	return last, true
}

// swapTrailing replaces the final token with sep and returns the token it
// replaced. It reopens a just-closed call: "f(a" ")" becomes "f(a" sep, and
// the caller appends more arguments before pushing the returned closer back.
func (t *tokens) swapTrailing(sep string) (string, bool) {
	closer, ok := t.removeLast()
	if !ok {
		return "", false
	}
	t.push(sep)
	return closer, true
}

func (t *tokens) String() string {
	return strings.Join(t.items, "")
}
