// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ir

import "fmt"

// DataTypeKind identifies which variant of the DataType tagged union a
// value holds.
type DataTypeKind int

const (
	KindQubit DataTypeKind = iota
	KindBit
	KindInt
	KindReal
	KindComplex
	KindMatrix
	KindString
)

func (k DataTypeKind) String() string {
	switch k {
	case KindQubit:
		return "qubit"
	case KindBit:
		return "bit"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindComplex:
		return "complex"
	case KindMatrix:
		return "matrix"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// DataType is one variant of a tagged union: Qubit, Bit, Int{signed,bits},
// Real, Complex, Matrix{element,shape}, or a named string enum.
type DataType struct {
	Name string
	Kind DataTypeKind

	// Int
	Signed bool
	Bits uint32

	// Matrix
	Element *DataType
	Shape []int

	// String enum
	EnumValues []string
}

// Qubit, Bit, Int, Real, Complex, Matrix, and Enum construct the
// corresponding DataType variant. Name is the registry name the type will
// be inserted under; it is independent of Kind (e.g. a platform may name
// its qubit type "qubit" or "q").
func Qubit(name string) *DataType { return &DataType{Name: name, Kind: KindQubit} }
func Bit(name string) *DataType { return &DataType{Name: name, Kind: KindBit} }
func Int(name string, signed bool, bits uint32) *DataType {
	return &DataType{Name: name, Kind: KindInt, Signed: signed, Bits: bits}
}
func Real(name string) *DataType { return &DataType{Name: name, Kind: KindReal} }
func Complex(name string) *DataType { return &DataType{Name: name, Kind: KindComplex} }
func Matrix(name string, element *DataType, shape []int) *DataType {
	return &DataType{Name: name, Kind: KindMatrix, Element: element, Shape: append([]int(nil), shape...)}
}
func Enum(name string, values []string) *DataType {
	return &DataType{Name: name, Kind: KindString, EnumValues: append([]string(nil), values...)}
}

// Equal reports whether two data types have matching constructors and
// parameters. Name is not part of the comparison: two
// registries may name the same shape differently.
func (t *DataType) Equal(o *DataType) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindInt:
		return t.Signed == o.Signed && t.Bits == o.Bits
	case KindMatrix:
		if len(t.Shape) != len(o.Shape) {
			return false
		}
		for i := range t.Shape {
			if t.Shape[i] != o.Shape[i] {
				return false
			}
		}
		return t.Element.Equal(o.Element)
	case KindString:
		if len(t.EnumValues) != len(o.EnumValues) {
			return false
		}
		for i := range t.EnumValues {
			if t.EnumValues[i] != o.EnumValues[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (t *DataType) String() string {
	switch t.Kind {
	case KindInt:
		sign := "u"
		if t.Signed {
			sign = "i"
		}
		return fmt.Sprintf("%s%d", sign, t.Bits)
	case KindMatrix:
		return fmt.Sprintf("matrix[%s;%v]", t.Element, t.Shape)
	default:
		return t.Kind.String()
	}
}
