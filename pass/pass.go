// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package pass

import (
	"errors"
	"fmt"
	"strings"

	"github.com/QuTech-Delft/OpenQL-sub006/ir"
	"github.com/QuTech-Delft/OpenQL-sub006/options"
	"github.com/rs/zerolog"
)

// NodeKind is the node type a pass settles into at construct time.
type NodeKind int

const (
	NodeUnknown NodeKind = iota
	NodeNormal
	NodeGroup
	NodeGroupIf
	NodeGroupWhile
	NodeGroupRepeatUntilNot
)

var (
	ErrAlreadyConstructed = errors.New("pass: cannot mutate options/sub-passes after construct")
	ErrUnknownPassType = errors.New("pass: unknown pass type")
	ErrDuplicateInstance = errors.New("pass: duplicate instance name")
	ErrNoMatch = errors.New("pass: wildcard path matched no passes")
)

// Context is the information handed to a pass's run function.
type Context struct {
	FullPassName string
	OutputPrefix string
	Options *options.Set
	Log zerolog.Logger
}

// RunFunc is a pass's internal transformation logic. It returns an
// integer status consumed by Condition evaluation for conditional group
// nodes, and operates on the IR program it is handed (passes receive the
// IR by owned reference and may rewrite it).
type RunFunc func(ctx *Context, program *ir.Program) (int, error)

// ConstructFunc decides a pass's NodeKind and, for group kinds, its
// initial sub-passes and/or Condition. It runs
// exactly once, at Construct.
type ConstructFunc func(p *Pass) (NodeKind, Condition, error)

// Pass is one node in the pass strategy tree.
type Pass struct {
	TypeName string
	InstanceName string
	Options *options.Set

	construct ConstructFunc
	run RunFunc

	constructed bool
	kind NodeKind
	condition Condition
	subPasses []*Pass
	parent *Pass

	factory *Factory
}

// Path returns the pass's dotted path from the root (empty at the root,
// which always has an empty InstanceName).
func (p *Pass) Path() string {
	var segments []string
	for cur := p; cur != nil && cur.InstanceName != ""; cur = cur.parent {
		segments = append([]string{cur.InstanceName}, segments...)
	}
	return strings.Join(segments, ".")
}

// Kind returns the node kind assigned at Construct; NodeUnknown before
// that.
func (p *Pass) Kind() NodeKind { return p.kind }

// SubPasses returns the pass's sub-passes in order.
func (p *Pass) SubPasses() []*Pass { return p.subPasses }

// ensureEditable returns an error if the tree has already been
// constructed.
func (p *Pass) ensureEditable() error {
	if p.constructed {
		return fmt.Errorf("%w: pass %q", ErrAlreadyConstructed, p.Path())
	}
	return nil
}

// Construct runs the pass's ConstructFunc, settling its NodeKind and
// freezing its options.
func (p *Pass) Construct() error {
	if p.constructed {
		return nil
	}
	kind, cond, err := p.construct(p)
	if err != nil {
		return fmt.Errorf("pass %q: construct: %w", p.Path(), err)
	}
	p.kind = kind
	p.condition = cond
	p.constructed = true
	return nil
}

// ConstructRecursive constructs p and every sub-pass, pre-order, as the
// Manager does for the whole tree.
func (p *Pass) ConstructRecursive() error {
	if err := p.Construct(); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, sp := range p.subPasses {
		if seen[sp.InstanceName] {
			return fmt.Errorf("%w: %q under %q", ErrDuplicateInstance, sp.InstanceName, p.Path())
		}
		seen[sp.InstanceName] = true
		if err := sp.ConstructRecursive(); err != nil {
			return err
		}
	}
	return nil
}

// Compile executes the pass against program, dispatching on its node
// kind.
func (p *Pass) Compile(program *ir.Program, outputPrefix string, log zerolog.Logger) error {
	if !p.constructed {
		if err := p.Construct(); err != nil {
			return err
		}
	}
	prefix := Substitute(outputPrefix, program, p)
	ctx := &Context{FullPassName: p.Path(), OutputPrefix: prefix, Options: p.Options, Log: log}

	debug := debugLevel(p.Options)
	if debug != debugNone {
		log.Debug().Str("pass", ctx.FullPassName).Str("prefix", prefix).Msg("debug artifacts (in) would be written here")
	}

	var err error
	switch p.kind {
	case NodeNormal:
		if p.run != nil {
			_, err = p.run(ctx, program)
		}
	case NodeGroup:
		for _, sp := range p.subPasses {
			if e := sp.Compile(program, outputPrefix, log); e != nil {
				err = wrapPath(p, e)
				break
			}
		}
	case NodeGroupIf:
		var status int
		if p.run != nil {
			status, err = p.run(ctx, program)
		}
		if err == nil && p.condition.Evaluate(status) {
			for _, sp := range p.subPasses {
				if e := sp.Compile(program, outputPrefix, log); e != nil {
					err = wrapPath(p, e)
					break
				}
			}
		}
	case NodeGroupWhile:
		for {
			var status int
			if p.run != nil {
				status, err = p.run(ctx, program)
			}
			if err != nil || !p.condition.Evaluate(status) {
				break
			}
			for _, sp := range p.subPasses {
				if e := sp.Compile(program, outputPrefix, log); e != nil {
					err = wrapPath(p, e)
					break
				}
			}
			if err != nil {
				break
			}
		}
	case NodeGroupRepeatUntilNot:
		for {
			for _, sp := range p.subPasses {
				if e := sp.Compile(program, outputPrefix, log); e != nil {
					err = wrapPath(p, e)
					break
				}
			}
			if err != nil {
				break
			}
			var status int
			if p.run != nil {
				status, err = p.run(ctx, program)
			}
			if err != nil || !p.condition.Evaluate(status) {
				break
			}
		}
	}
	if err != nil {
		return wrapPath(p, err)
	}
	if debug != debugNone {
		log.Debug().Str("pass", ctx.FullPassName).Msg("debug artifacts (out) would be written here")
	}
	return nil
}

// Error is the typed error every failing pass wraps with its full dotted
// path.
type Error struct {
	Path string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("pass %q: %v", e.Path, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func wrapPath(p *Pass, err error) error {
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return &Error{Path: p.Path(), Err: err}
}

// --- Group editing methods, valid only between
// Construct and Compile.

func (p *Pass) mustBeGroup() error {
	if err := p.ensureEditable(); err != nil {
		return err
	}
	switch p.kind {
	case NodeGroup, NodeGroupIf, NodeGroupWhile, NodeGroupRepeatUntilNot:
		return nil
	default:
		return fmt.Errorf("pass %q is not a group", p.Path())
	}
}

// AppendSubPass adds sp to the end of p's sub-pass list.
func (p *Pass) AppendSubPass(sp *Pass) error {
	if err := p.mustBeGroup(); err != nil {
		return err
	}
	sp.parent = p
	p.subPasses = append(p.subPasses, sp)
	return nil
}

// PrefixSubPass adds sp to the start of p's sub-pass list.
func (p *Pass) PrefixSubPass(sp *Pass) error {
	if err := p.mustBeGroup(); err != nil {
		return err
	}
	sp.parent = p
	p.subPasses = append([]*Pass{sp}, p.subPasses...)
	return nil
}

func (p *Pass) indexOf(instanceName string) int {
	for i, sp := range p.subPasses {
		if sp.InstanceName == instanceName {
			return i
		}
	}
	return -1
}

// InsertSubPassBefore inserts sp immediately before the sub-pass named
// before.
func (p *Pass) InsertSubPassBefore(before string, sp *Pass) error {
	if err := p.mustBeGroup(); err != nil {
		return err
	}
	i := p.indexOf(before)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNoMatch, before)
	}
	sp.parent = p
	p.subPasses = append(p.subPasses[:i], append([]*Pass{sp}, p.subPasses[i:]...)...)
	return nil
}

// InsertSubPassAfter inserts sp immediately after the sub-pass named
// after.
func (p *Pass) InsertSubPassAfter(after string, sp *Pass) error {
	if err := p.mustBeGroup(); err != nil {
		return err
	}
	i := p.indexOf(after)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNoMatch, after)
	}
	sp.parent = p
	p.subPasses = append(p.subPasses[:i+1], append([]*Pass{sp}, p.subPasses[i+1:]...)...)
	return nil
}

// RemoveSubPass removes the sub-pass named name.
func (p *Pass) RemoveSubPass(name string) error {
	if err := p.mustBeGroup(); err != nil {
		return err
	}
	i := p.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNoMatch, name)
	}
	p.subPasses = append(p.subPasses[:i], p.subPasses[i+1:]...)
	return nil
}

// ClearSubPasses removes every sub-pass of p.
func (p *Pass) ClearSubPasses() error {
	if err := p.mustBeGroup(); err != nil {
		return err
	}
	p.subPasses = nil
	return nil
}

// GroupSubPass wraps the single named sub-pass in a new unconditional
// group, under the given instance name.
func (p *Pass) GroupSubPass(name, groupInstanceName string) error {
	return p.GroupSubPasses([]string{name}, groupInstanceName)
}

// GroupSubPasses wraps the named (contiguous) sub-passes in a new
// unconditional group.
func (p *Pass) GroupSubPasses(names []string, groupInstanceName string) error {
	if err := p.mustBeGroup(); err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: empty sub-pass list to group", ErrNoMatch)
	}
	start := p.indexOf(names[0])
	if start < 0 {
		return fmt.Errorf("%w: %q", ErrNoMatch, names[0])
	}
	group := &Pass{TypeName: "group", InstanceName: groupInstanceName, Options: options.NewSet(), kind: NodeGroup, constructed: true, parent: p}
	for _, n := range names {
		i := p.indexOf(n)
		if i < 0 {
			return fmt.Errorf("%w: %q", ErrNoMatch, n)
		}
		sp := p.subPasses[i]
		sp.parent = group
		group.subPasses = append(group.subPasses, sp)
	}
	remaining := make([]*Pass, 0, len(p.subPasses))
	grouped := make(map[string]bool)
	for _, n := range names {
		grouped[n] = true
	}
	inserted := false
	for i, sp := range p.subPasses {
		if grouped[sp.InstanceName] {
			if !inserted && i >= start {
				remaining = append(remaining, group)
				inserted = true
			}
			continue
		}
		remaining = append(remaining, sp)
	}
	if !inserted {
		remaining = append(remaining, group)
	}
	p.subPasses = remaining
	return nil
}

// FlattenSubgroup replaces the named group sub-pass with its own
// sub-passes, spliced in place.
func (p *Pass) FlattenSubgroup(name string) error {
	if err := p.mustBeGroup(); err != nil {
		return err
	}
	i := p.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNoMatch, name)
	}
	group := p.subPasses[i]
	for _, sp := range group.subPasses {
		sp.parent = p
	}
	p.subPasses = append(p.subPasses[:i], append(append([]*Pass(nil), group.subPasses...), p.subPasses[i+1:]...)...)
	return nil
}

// --- Option propagation.

// SetOption resolves a dotted path of the form "pass.sub.sub.option",
// supporting "*"/"?" wildcards on any pass element and "**.option" for a
// recursive set, and calls Set(value) on every matching option. It
// returns the number of options affected; if mustExist is true and no
// option matched, it returns ErrNoMatch without side effects. Once p has
// been constructed it returns ErrAlreadyConstructed.
func (p *Pass) SetOption(path, value string, mustExist bool) (int, error) {
	if err := p.ensureEditable(); err != nil {
		return 0, err
	}
	segments := strings.Split(path, ".")
	matches := p.matchOptionPaths(segments)
	if mustExist && len(matches) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoMatch, path)
	}
	for _, m := range matches {
		if err := m.Set(value); err != nil {
			return 0, err
		}
	}
	return len(matches), nil
}

func (p *Pass) matchOptionPaths(segments []string) []options.Option {
	if len(segments) == 0 {
		return nil
	}
	if segments[0] == "**" {
		if len(segments) != 2 {
			return nil
		}
		return p.collectOptionRecursive(segments[1])
	}
	if len(segments) == 1 {
		if opt, ok := p.Options.Get(segments[0]); ok {
			return []options.Option{opt}
		}
		return nil
	}
	var out []options.Option
	for _, sp := range p.subPasses {
		if matchSegment(segments[0], sp.InstanceName) {
			out = append(out, sp.matchOptionPaths(segments[1:])...)
		}
	}
	return out
}

func (p *Pass) collectOptionRecursive(optName string) []options.Option {
	var out []options.Option
	if opt, ok := p.Options.Get(optName); ok {
		out = append(out, opt)
	}
	for _, sp := range p.subPasses {
		out = append(out, sp.collectOptionRecursive(optName)...)
	}
	return out
}

func matchSegment(pattern, name string) bool {
	if pattern == "*" {
		return true
	}
	if len(pattern) == len(name) {
		match := true
		for i := range pattern {
			if pattern[i] != '?' && pattern[i] != name[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return pattern == name
}

// Dump renders a human-readable strategy tree.
func (p *Pass) Dump(indent string) string {
	kind := map[NodeKind]string{
		NodeUnknown: "unknown", NodeNormal: "normal", NodeGroup: "group",
		NodeGroupIf: "if", NodeGroupWhile: "while", NodeGroupRepeatUntilNot: "repeat-until-not",
	}[p.kind]
	s := fmt.Sprintf("%s%s (%s) [%s]\n", indent, p.InstanceName, p.TypeName, kind)
	for _, sp := range p.subPasses {
		s += sp.Dump(indent + " ")
	}
	return s
}

type debugMode int

const (
	debugNone debugMode = iota
	debugYes
	debugStats
	debugQASM
	debugBoth
)

func debugLevel(opts *options.Set) debugMode {
	opt, ok := opts.Get("debug")
	if !ok {
		return debugNone
	}
	switch opt.Value() {
	case "yes":
		return debugYes
	case "stats":
		return debugStats
	case "qasm":
		return debugQASM
	case "both":
		return debugBoth
	default:
		return debugNone
	}
}
