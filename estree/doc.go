// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package estree holds the syntax tree of a GPU kernel function.
//
// Kernels are written in a small subset of JavaScript and parsed elsewhere
// (acorn, esprima, ...). This package decodes the resulting ESTree document,
// in JSON, MessagePack or CBOR form, into a sealed set of Go node types that
// the glsl package translates.
//
//	fn, err := estree.Decode(data, estree.FormatJSON)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Node types outside the supported subset decode to *Unsupported so that
// the translator can reject them with a precise diagnostic.
package estree
