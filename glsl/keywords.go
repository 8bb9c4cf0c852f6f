// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import "strings"

// reservedNames holds names a generated function must not take: GLSL ES 3.00
// keywords and reserved words, main, and the helpers and globals the kernel
// runtime defines around the translated code. builtinFunctions are reserved
// too.
var reservedNames = map[string]struct{}{
	// Types
	"void": {}, "bool": {}, "int": {}, "uint": {}, "float": {},
	"vec2": {}, "vec3": {}, "vec4": {},
	"ivec2": {}, "ivec3": {}, "ivec4": {},
	"uvec2": {}, "uvec3": {}, "uvec4": {},
	"bvec2": {}, "bvec3": {}, "bvec4": {},
	"mat2": {}, "mat3": {}, "mat4": {},
	"sampler2D": {}, "sampler3D": {}, "samplerCube": {}, "sampler2DArray": {},
	"isampler2D": {}, "usampler2D": {}, "sampler2DShadow": {},

	// Keywords
	"attribute": {}, "const": {}, "uniform": {}, "varying": {}, "layout": {},
	"centroid": {}, "flat": {}, "smooth": {}, "in": {}, "out": {}, "inout": {},
	"break": {}, "continue": {}, "do": {}, "for": {}, "while": {},
	"switch": {}, "case": {}, "default": {}, "if": {}, "else": {},
	"true": {}, "false": {}, "invariant": {}, "discard": {}, "return": {},
	"struct": {}, "lowp": {}, "mediump": {}, "highp": {}, "precision": {},

	// Reserved for future use
	"asm": {}, "class": {}, "union": {}, "enum": {}, "typedef": {}, "template": {},
	"this": {}, "goto": {}, "inline": {}, "noinline": {}, "volatile": {},
	"public": {}, "static": {}, "extern": {}, "external": {}, "interface": {},
	"long": {}, "short": {}, "double": {}, "half": {}, "fixed": {}, "unsigned": {},
	"input": {}, "output": {}, "sizeof": {}, "cast": {}, "namespace": {}, "using": {},

	"main": {},

	// Kernel runtime
	"get": {}, "getImage2D": {}, "getImage3D": {}, "div_with_int_check": {},
	"kernelResult": {}, "threadId": {}, "uOutputDim": {},
}

// builtinFunctions are the functions a kernel may call by name: GLSL
// builtins and the runtime's packing helpers.
var builtinFunctions = map[string]struct{}{
	"radians": {}, "degrees": {}, "sin": {}, "cos": {}, "tan": {},
	"asin": {}, "acos": {}, "atan": {}, "sinh": {}, "cosh": {}, "tanh": {},
	"pow": {}, "exp": {}, "log": {}, "exp2": {}, "log2": {}, "sqrt": {}, "inversesqrt": {},
	"abs": {}, "sign": {}, "floor": {}, "trunc": {}, "round": {}, "ceil": {}, "fract": {},
	"mod": {}, "min": {}, "max": {}, "clamp": {}, "mix": {}, "step": {}, "smoothstep": {},
	"isnan": {}, "isinf": {}, "length": {}, "distance": {}, "dot": {}, "cross": {},
	"normalize": {}, "reflect": {}, "refract": {}, "texture": {}, "texelFetch": {},
	"textureSize": {}, "any": {}, "all": {}, "not": {},

	// Kernel runtime
	"encode32": {}, "decode32": {},
}

// isKeyword checks if a name is reserved in generated source.
func isKeyword(name string) bool {
	_, ok := reservedNames[name]
	return ok || isBuiltinFunction(name)
}

func isBuiltinFunction(name string) bool {
	_, ok := builtinFunctions[name]
	return ok
}

// escapeKeyword returns a usable function name for name, prefixing an
// underscore when it collides with a reserved name or prefix.
func escapeKeyword(name string) string {
	if isKeyword(name) || strings.HasPrefix(name, "gl_") {
		return "_" + name
	}
	return name
}
