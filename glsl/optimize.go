// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import "regexp"

// Adjacent encode32/decode32 calls cancel out; only the parentheses remain.
var (
	decodeOfEncode = regexp.MustCompile(`decode32\(\s*encode32\(`)
	encodeOfDecode = regexp.MustCompile(`encode32\(\s*decode32\(`)
)

// optimizeSource applies textual cleanups to generated source.
func optimizeSource(src string) string {
	src = decodeOfEncode.ReplaceAllLiteralString(src, "((")
	return encodeOfDecode.ReplaceAllLiteralString(src, "((")
}
