// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"
)

// Type is the semantic type of a kernel value as seen by the host runtime.
type Type uint8

const (
	// TypeInvalid is the zero value; it has no shader representation.
	TypeInvalid Type = iota

	TypeNumber
	TypeInteger
	TypeFloat

	// TypeArray is a flat array bound as a texture.
	TypeArray
	TypeArray2
	TypeArray3
	TypeArray4
	TypeArray2D
	TypeArray3D

	TypeHTMLImage
	TypeHTMLImageArray
	TypeNumberTexture
	TypeArrayTexture4
	TypeInput
)

var typeNames = [...]string{
	TypeInvalid:        "",
	TypeNumber:         "Number",
	TypeInteger:        "Integer",
	TypeFloat:          "Float",
	TypeArray:          "Array",
	TypeArray2:         "Array(2)",
	TypeArray3:         "Array(3)",
	TypeArray4:         "Array(4)",
	TypeArray2D:        "Array2D",
	TypeArray3D:        "Array3D",
	TypeHTMLImage:      "HTMLImage",
	TypeHTMLImageArray: "HTMLImageArray",
	TypeNumberTexture:  "NumberTexture",
	TypeArrayTexture4:  "ArrayTexture(4)",
	TypeInput:          "Input",
}

// shaderTypes maps each semantic type to the GLSL type used to declare it.
var shaderTypes = map[Type]string{
	TypeNumber:         "float",
	TypeInteger:        "int",
	TypeFloat:          "float",
	TypeArray:          "sampler2D",
	TypeArray2:         "vec2",
	TypeArray3:         "vec3",
	TypeArray4:         "vec4",
	TypeArray2D:        "sampler2D",
	TypeArray3D:        "sampler2D",
	TypeHTMLImage:      "sampler2D",
	TypeHTMLImageArray: "sampler2DArray",
	TypeNumberTexture:  "sampler2D",
	TypeArrayTexture4:  "sampler2D",
	TypeInput:          "sampler2D",
}

// elementTypes maps array and texture kinds to the type of one fetched element.
var elementTypes = map[Type]Type{
	TypeArray:          TypeNumber,
	TypeArray2D:        TypeNumber,
	TypeArray3D:        TypeNumber,
	TypeNumberTexture:  TypeNumber,
	TypeInput:          TypeNumber,
	TypeHTMLImage:      TypeArray4,
	TypeHTMLImageArray: TypeArray4,
	TypeArrayTexture4:  TypeArray4,
}

// String returns the canonical host name of the type, e.g. "Array(4)".
func (t Type) String() string {
	if int(t) < len(typeNames) && t != TypeInvalid {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// ParseType parses a canonical host type name.
func ParseType(name string) (Type, error) {
	trimmed := strings.TrimSpace(name)
	for i, n := range typeNames {
		if n != "" && n == trimmed {
			return Type(i), nil
		}
	}
	return TypeInvalid, NewError(ErrUnknownType, fmt.Sprintf("unknown type %q", name))
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if _, ok := shaderTypes[t]; !ok {
		return nil, NewError(ErrUnknownType, fmt.Sprintf("cannot encode %s", t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so types can be read
// straight from configuration files.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// IsVector reports whether the type is a small fixed-size vector.
func (t Type) IsVector() bool {
	return t == TypeArray2 || t == TypeArray3 || t == TypeArray4
}

// IsArray reports whether the type is any array or texture kind.
func (t Type) IsArray() bool {
	if t.IsVector() {
		return true
	}
	_, ok := elementTypes[t]
	return ok
}

// vectorType returns the Array(n) type for a vector of n components.
func vectorType(n uint8) (Type, bool) {
	switch n {
	case 2:
		return TypeArray2, true
	case 3:
		return TypeArray3, true
	case 4:
		return TypeArray4, true
	}
	return TypeInvalid, false
}

// shaderType returns the GLSL type name for t.
func shaderType(t Type) (string, error) {
	name, ok := shaderTypes[t]
	if !ok {
		return "", NewError(ErrUnknownType, fmt.Sprintf("no shader type for %s", t))
	}
	return name, nil
}

// elementType returns the type produced by indexing into t.
func elementType(t Type) (Type, bool) {
	elem, ok := elementTypes[t]
	return elem, ok
}
