// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl translates kernel functions into GLSL ES function bodies.
//
// Input is a function from package estree, restricted to the numeric subset
// a GPU kernel can express. Output is the text of one GLSL function that the
// kernel runtime splices into a fragment shader, together with the metadata
// it needs to assemble the program: the names and argument shapes of called
// functions, the declared type of every variable and any warnings.
//
// # Basic Usage
//
//	opts := glsl.DefaultOptions()
//	opts.ArgumentTypes = []glsl.Type{glsl.TypeArray, glsl.TypeNumber}
//	source, info, err := glsl.Compile(fn, opts)
//
// # Units
//
// A root kernel becomes "void kernel()" and writes kernelResult. A sub-kernel
// writes subKernelResult_<name>. Plain functions keep their parameters and
// carry a forward declaration in TranslationInfo.Prototype.
//
// # Indexing
//
// Arrays and textures are read through the runtime helpers get, getImage2D
// and getImage3D. Chained indexing such as a[y][x] produces a single helper
// call with one index argument per level. Small vectors are indexed directly.
//
// # Reserved Words
//
// Function names that collide with GLSL keywords, builtins or the runtime's
// own helpers are escaped by prefixing them with an underscore.
package glsl
