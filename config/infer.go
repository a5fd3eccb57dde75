// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package config

import (
	"regexp"
	"strings"

	"github.com/QuTech-Delft/OpenQL-sub006/ir"
)

// inferenceRule maps a case-insensitive instruction-name regex to the
// operand access-mode sequence it implies.
type inferenceRule struct {
	pattern *regexp.Regexp
	modes []ir.AccessMode
}

var inferenceRules = []inferenceRule{
	{regexp.MustCompile(`(?i)^(h|i|identity|x|y|z|x90|y90|mx90|my90)$`), []ir.AccessMode{ir.Write}},
	{regexp.MustCompile(`(?i)^rx`), []ir.AccessMode{ir.CommuteX, ir.Literal}},
	{regexp.MustCompile(`(?i)^ry`), []ir.AccessMode{ir.CommuteY, ir.Literal}},
	{regexp.MustCompile(`(?i)^(rz|crk|cr\[?z\]?)`), []ir.AccessMode{ir.CommuteZ, ir.Literal}},
	{regexp.MustCompile(`(?i)^(s|t)(dag)?$`), []ir.AccessMode{ir.CommuteZ}},
	{regexp.MustCompile(`(?i)^(swap|move)$`), []ir.AccessMode{ir.Write, ir.Write}},
	{regexp.MustCompile(`(?i)^(cnot|cx)$`), []ir.AccessMode{ir.CommuteZ, ir.CommuteX}},
	{regexp.MustCompile(`(?i)^(cz|cphase)$`), []ir.AccessMode{ir.CommuteZ, ir.CommuteZ}},
	{regexp.MustCompile(`(?i)^toffoli$`), []ir.AccessMode{ir.CommuteZ, ir.CommuteZ, ir.CommuteX}},
}

var measurePattern = regexp.MustCompile(`(?i)^meas`)

// InferOperandModes derives an instruction's operand access-mode
// sequence from its name when the configuration document omits an
// explicit parameters list. name is matched
// case-insensitively. count is the specialization's operand count, used
// only to validate (and, on mismatch, override) the inferred sequence;
// pass 0 for a generalization with no pinned operand count yet.
//
// meas* instructions are special: they admit two overloads (an M-only
// form and a W+W form), so this returns the M-only form unless count is
// exactly 2, in which case it returns the W+W form.
func InferOperandModes(p *ir.Platform, name string, count int) ([]ir.OperandType, error) {
	qubit := p.FindType("qubit")
	bit := p.FindType("bit")

	if measurePattern.MatchString(name) {
		if count == 2 {
			return []ir.OperandType{{Mode: ir.Write, Type: qubit}, {Mode: ir.Write, Type: bit}}, nil
		}
		return []ir.OperandType{{Mode: ir.Measure, Type: qubit}}, nil
	}

	for _, rule := range inferenceRules {
		if rule.pattern.MatchString(strings.ToLower(name)) {
			modes := rule.modes
			if count > 0 && count != len(modes) {
				return allWrite(qubit, count), nil
			}
			return modesToOperands(modes, qubit), nil
		}
	}

	if count > 0 {
		return allWrite(qubit, count), nil
	}
	return nil, nil
}

func modesToOperands(modes []ir.AccessMode, qubit *ir.DataType) []ir.OperandType {
	out := make([]ir.OperandType, len(modes))
	for i, m := range modes {
		out[i] = ir.OperandType{Mode: m, Type: qubit}
	}
	return out
}

func allWrite(qubit *ir.DataType, count int) []ir.OperandType {
	out := make([]ir.OperandType, count)
	for i := range out {
		out[i] = ir.OperandType{Mode: ir.Write, Type: qubit}
	}
	return out
}
