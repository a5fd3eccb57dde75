// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ir

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// The wire structs below encode each node as a map keyed by short field
// names (e.g. "x" for a primitive payload). Resource configuration does
// not round-trip: the platform encoding carries no resources{} section,
// so ResourceConfig is empty after decoding.

type wireDataType struct {
	N string `cbor:"n"` // name
	K int `cbor:"k"` // kind
	S bool `cbor:"s"` // signed
	B uint32 `cbor:"b"` // bits
	E *wireDataType `cbor:"e,omitempty"` // matrix element
	X []int `cbor:"x,omitempty"` // matrix shape
	V []string `cbor:"v,omitempty"` // enum values
}

func toWireDataType(t *DataType) *wireDataType {
	if t == nil {
		return nil
	}
	return &wireDataType{N: t.Name, K: int(t.Kind), S: t.Signed, B: t.Bits, E: toWireDataType(t.Element), X: t.Shape, V: t.EnumValues}
}

func fromWireDataType(w *wireDataType) *DataType {
	if w == nil {
		return nil
	}
	return &DataType{Name: w.N, Kind: DataTypeKind(w.K), Signed: w.S, Bits: w.B, Element: fromWireDataType(w.E), Shape: w.X, EnumValues: w.V}
}

type wireObject struct {
	N string `cbor:"n"`
	T *wireDataType `cbor:"t"`
	X []int `cbor:"x"`
}

type wirePlatform struct {
	N string `cbor:"n"`
	T []*wireDataType `cbor:"t"`
	O []*wireObject `cbor:"o"`
	A string `cbor:"a"` // architecture
	Q int `cbor:"q"` // topology qubit count
}

// MarshalPlatform serializes the registry portion of a platform (data
// types and physical objects) to CBOR. Instruction
// types, function types, and the resource manager are reconstructed from
// the platform JSON config rather than round-tripped through CBOR (they
// carry executable decomposition/resource logic that the config loader,
// not this wire format, is responsible for rebuilding).
func MarshalPlatform(p *Platform) ([]byte, error) {
	w := &wirePlatform{N: p.Name, A: p.Architecture}
	for _, t := range p.types {
		w.T = append(w.T, toWireDataType(t))
	}
	for _, o := range p.objects {
		w.O = append(w.O, &wireObject{N: o.Name, T: toWireDataType(o.Type), X: o.Shape})
	}
	if p.Topology != nil {
		w.Q = p.Topology.NumQubits
	}
	return cbor.Marshal(w)
}

// UnmarshalPlatform reconstructs a platform's type and object registries
// from CBOR produced by MarshalPlatform.
func UnmarshalPlatform(data []byte) (*Platform, error) {
	var w wirePlatform
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("ir: decode platform: %w", err)
	}
	p := NewPlatform(w.N)
	p.Architecture = w.A
	for _, t := range w.T {
		if _, err := p.AddType(fromWireDataType(t)); err != nil {
			return nil, err
		}
	}
	for _, o := range w.O {
		if _, err := p.AddPhysicalObject(&PhysicalObject{Name: o.N, Type: fromWireDataType(o.T), Shape: o.X}); err != nil {
			return nil, err
		}
	}
	if w.Q > 0 {
		p.Topology = NewFullyConnectedTopology(w.Q)
	}
	return p, nil
}
