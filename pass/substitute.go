// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package pass

import (
	"strings"

	"github.com/QuTech-Delft/OpenQL-sub006/ir"
	"github.com/google/uuid"
)

// Substitute expands the artifact-prefix substitution grammar against
// prefix:
//
//	%n pass instance name
//	%N a fresh unique id (github.com/google/uuid), for collision-free
//	 per-invocation artifact names
//	%p full dotted pass path from the root
//	%P program name
//	%U platform name
//	%D debug output prefix (the input prefix, unexpanded)
//	%% literal percent sign
//
// Unknown escapes are left untouched.
func Substitute(prefix string, program *ir.Program, p *Pass) string {
	var b strings.Builder
	debugPrefix := prefix
	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		if c != '%' || i == len(prefix)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch prefix[i] {
		case 'n':
			b.WriteString(p.InstanceName)
		case 'N':
			b.WriteString(uuid.NewString())
		case 'p':
			b.WriteString(p.Path())
		case 'P':
			if program != nil {
				b.WriteString(program.Name)
			}
		case 'U':
			if program != nil && program.Platform != nil {
				b.WriteString(program.Platform.Name)
			}
		case 'D':
			b.WriteString(debugPrefix)
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(prefix[i])
		}
	}
	return b.String()
}
