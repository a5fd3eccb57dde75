// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package pass

import (
	"errors"
	"testing"

	"github.com/QuTech-Delft/OpenQL-sub006/ir"
)

func countingRun(counter *[]string, name string) RunFunc {
	return func(ctx *Context, program *ir.Program) (int, error) {
		*counter = append(*counter, name)
		return 0, nil
	}
}

func newTestManager() (*Manager, *Factory) {
	f := NewFactory()
	return NewManager(f), f
}

func TestPathIsDottedFromRoot(t *testing.T) {
	m, f := newTestManager()
	f.Register("leaf", NewNormal("leaf", func(*Context, *ir.Program) (int, error) { return 0, nil }))
	outer, err := m.Append("group", "outer")
	if err != nil {
		t.Fatalf("Append(group): %v", err)
	}
	if err := outer.AppendSubPass(mustNew(t, f, "leaf", "inner")); err != nil {
		t.Fatalf("AppendSubPass: %v", err)
	}
	inner := outer.SubPasses()[0]
	if got, want := inner.Path(), "outer.inner"; got != want {
		t.Fatalf("Path() = %q, want %q", got, want)
	}
	if got, want := m.Root.Path(), ""; got != want {
		t.Fatalf("root Path() = %q, want %q", got, want)
	}
}

func mustNew(t *testing.T, f *Factory, typeName, instanceName string) *Pass {
	t.Helper()
	p, err := f.New(typeName, instanceName)
	if err != nil {
		t.Fatalf("New(%q, %q): %v", typeName, instanceName, err)
	}
	return p
}

func TestConstructRecursiveRejectsDuplicateInstanceNames(t *testing.T) {
	m, f := newTestManager()
	f.Register("leaf", NewNormal("leaf", func(*Context, *ir.Program) (int, error) { return 0, nil }))
	if _, err := m.Append("leaf", "a"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := m.Append("leaf", "a"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := m.Construct(); !errors.Is(err, ErrDuplicateInstance) {
		t.Fatalf("Construct() = %v, want ErrDuplicateInstance", err)
	}
}

func TestConstructFreezesOptionsAgainstFurtherEditing(t *testing.T) {
	m, f := newTestManager()
	f.Register("leaf", NewNormal("leaf", func(*Context, *ir.Program) (int, error) { return 0, nil }))
	p, err := m.Append("leaf", "a")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := m.Construct(); err != nil {
		t.Fatalf("Construct: %v", err)
	}
	if err := p.AppendSubPass(mustNew(t, f, "leaf", "b")); err == nil {
		t.Fatal("expected AppendSubPass to fail on a leaf node (not a group)")
	}
	if err := m.Root.AppendSubPass(mustNew(t, f, "leaf", "c")); !errors.Is(err, ErrAlreadyConstructed) {
		t.Fatalf("expected ErrAlreadyConstructed, got %v", err)
	}
	if _, err := m.SetOption("a.debug", "yes", false); !errors.Is(err, ErrAlreadyConstructed) {
		t.Fatalf("SetOption after Construct = %v, want ErrAlreadyConstructed", err)
	}
}

func TestCompileRunsGroupSubPassesInOrder(t *testing.T) {
	var order []string
	f := NewFactory()

	m := NewManager(f)
	if _, err := m.Append("group", "g"); err != nil {
		t.Fatalf("Append(group): %v", err)
	}

	leaf1 := &Pass{TypeName: "leaf", InstanceName: "l1", Options: testOptions(), run: countingRun(&order, "l1"),
		construct: func(*Pass) (NodeKind, Condition, error) { return NodeNormal, nil, nil }}
	leaf2 := &Pass{TypeName: "leaf", InstanceName: "l2", Options: testOptions(), run: countingRun(&order, "l2"),
		construct: func(*Pass) (NodeKind, Condition, error) { return NodeNormal, nil, nil }}

	group := m.Root.SubPasses()[0]
	if err := group.AppendSubPass(leaf1); err != nil {
		t.Fatalf("AppendSubPass: %v", err)
	}
	if err := group.AppendSubPass(leaf2); err != nil {
		t.Fatalf("AppendSubPass: %v", err)
	}

	program := &ir.Program{Name: "prog"}
	m.Log = testLogger()
	if err := m.Compile(program, "%n"); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(order) != 2 || order[0] != "l1" || order[1] != "l2" {
		t.Fatalf("order = %v, want [l1 l2]", order)
	}
}

func TestCompileGroupIfRunsSubPassesOnlyWhenConditionHolds(t *testing.T) {
	var order []string
	ran := false
	group := &Pass{
		TypeName: "cond", InstanceName: "c", Options: testOptions(),
		run: func(ctx *Context, program *ir.Program) (int, error) { ran = true; return 1, nil },
		construct: func(*Pass) (NodeKind, Condition, error) { return NodeGroupIf, Compare{Reference: 1, Relation: Eq}, nil },
	}
	child := &Pass{TypeName: "leaf", InstanceName: "child", Options: testOptions(), run: countingRun(&order, "child"),
		construct: func(*Pass) (NodeKind, Condition, error) { return NodeNormal, nil, nil }}
	group.subPasses = []*Pass{child}
	child.parent = group

	if err := group.ConstructRecursive(); err != nil {
		t.Fatalf("ConstructRecursive: %v", err)
	}
	if err := group.Compile(&ir.Program{}, "", testLogger()); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !ran {
		t.Fatal("expected group's own run to execute")
	}
	if len(order) != 1 {
		t.Fatalf("expected child to run since status==1 matches Eq(1), got order=%v", order)
	}
}

func TestCompileErrorsWrapFullPassPath(t *testing.T) {
	boom := errors.New("boom")
	leaf := &Pass{TypeName: "leaf", InstanceName: "broken", Options: testOptions(),
		run: func(*Context, *ir.Program) (int, error) { return 0, boom },
		construct: func(*Pass) (NodeKind, Condition, error) { return NodeNormal, nil, nil }}
	group := &Pass{TypeName: "group", InstanceName: "g", Options: testOptions(),
		construct: func(*Pass) (NodeKind, Condition, error) { return NodeGroup, nil, nil }}
	group.subPasses = []*Pass{leaf}
	leaf.parent = group

	if err := group.ConstructRecursive(); err != nil {
		t.Fatalf("ConstructRecursive: %v", err)
	}
	err := group.Compile(&ir.Program{}, "", testLogger())
	if err == nil {
		t.Fatal("expected error")
	}
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if pe.Path != "g.broken" {
		t.Fatalf("Path = %q, want g.broken", pe.Path)
	}
	if !errors.Is(err, boom) {
		t.Fatal("expected wrapped error to unwrap to boom")
	}
}

func TestGroupSubPassesWrapsContiguousChildrenInNewGroup(t *testing.T) {
	m, f := newTestManager()
	f.Register("leaf", NewNormal("leaf", func(*Context, *ir.Program) (int, error) { return 0, nil }))
	if _, err := m.Append("leaf", "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Append("leaf", "b"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Append("leaf", "c"); err != nil {
		t.Fatal(err)
	}
	if err := m.Root.GroupSubPasses([]string{"a", "b"}, "ab"); err != nil {
		t.Fatalf("GroupSubPasses: %v", err)
	}
	names := make([]string, 0)
	for _, sp := range m.Root.SubPasses() {
		names = append(names, sp.InstanceName)
	}
	if len(names) != 2 || names[0] != "ab" || names[1] != "c" {
		t.Fatalf("SubPasses = %v, want [ab c]", names)
	}
	ab := m.Root.SubPasses()[0]
	if len(ab.SubPasses()) != 2 || ab.SubPasses()[0].InstanceName != "a" || ab.SubPasses()[1].InstanceName != "b" {
		t.Fatalf("ab.SubPasses() = %v, want [a b]", ab.SubPasses())
	}
}

func TestFlattenSubgroupSplicesChildrenInPlace(t *testing.T) {
	m, f := newTestManager()
	f.Register("leaf", NewNormal("leaf", func(*Context, *ir.Program) (int, error) { return 0, nil }))
	for _, n := range []string{"a", "b", "c"} {
		if _, err := m.Append("leaf", n); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Root.GroupSubPasses([]string{"a", "b"}, "ab"); err != nil {
		t.Fatalf("GroupSubPasses: %v", err)
	}
	if err := m.Root.FlattenSubgroup("ab"); err != nil {
		t.Fatalf("FlattenSubgroup: %v", err)
	}
	names := make([]string, 0)
	for _, sp := range m.Root.SubPasses() {
		names = append(names, sp.InstanceName)
	}
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Fatalf("SubPasses = %v, want [a b c]", names)
	}
}

func TestInsertSubPassBeforeAndAfter(t *testing.T) {
	m, f := newTestManager()
	f.Register("leaf", NewNormal("leaf", func(*Context, *ir.Program) (int, error) { return 0, nil }))
	if _, err := m.Append("leaf", "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Append("leaf", "c"); err != nil {
		t.Fatal(err)
	}
	if err := m.Root.InsertSubPassBefore("c", mustNew(t, f, "leaf", "b")); err != nil {
		t.Fatalf("InsertSubPassBefore: %v", err)
	}
	if err := m.Root.InsertSubPassAfter("c", mustNew(t, f, "leaf", "d")); err != nil {
		t.Fatalf("InsertSubPassAfter: %v", err)
	}
	names := make([]string, 0)
	for _, sp := range m.Root.SubPasses() {
		names = append(names, sp.InstanceName)
	}
	if got, want := names, []string{"a", "b", "c", "d"}; !equalSlices(got, want) {
		t.Fatalf("SubPasses = %v, want %v", got, want)
	}
}

func TestRemoveAndClearSubPasses(t *testing.T) {
	m, f := newTestManager()
	f.Register("leaf", NewNormal("leaf", func(*Context, *ir.Program) (int, error) { return 0, nil }))
	for _, n := range []string{"a", "b"} {
		if _, err := m.Append("leaf", n); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Root.RemoveSubPass("a"); err != nil {
		t.Fatalf("RemoveSubPass: %v", err)
	}
	if len(m.Root.SubPasses()) != 1 || m.Root.SubPasses()[0].InstanceName != "b" {
		t.Fatalf("SubPasses = %v, want [b]", m.Root.SubPasses())
	}
	if err := m.Root.ClearSubPasses(); err != nil {
		t.Fatalf("ClearSubPasses: %v", err)
	}
	if len(m.Root.SubPasses()) != 0 {
		t.Fatalf("SubPasses = %v, want empty", m.Root.SubPasses())
	}
	if err := m.Root.RemoveSubPass("missing"); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("RemoveSubPass(missing) = %v, want ErrNoMatch", err)
	}
}

func TestSetOptionWildcardsAndRecursive(t *testing.T) {
	m, f := newTestManager()
	f.Register("leaf", func(tn, instanceName string) *Pass {
		p := NewNormal("leaf", func(*Context, *ir.Program) (int, error) { return 0, nil })(tn, instanceName)
		p.Options.Add(testDebugOption())
		return p
	})
	for _, n := range []string{"opt1", "opt2", "other"} {
		if _, err := m.Append("leaf", n); err != nil {
			t.Fatal(err)
		}
	}

	n, err := m.SetOption("opt?.debug", "yes", false)
	if err != nil {
		t.Fatalf("SetOption: %v", err)
	}
	if n != 2 {
		t.Fatalf("SetOption matched %d, want 2", n)
	}
	opt1, _ := m.Find("opt1")
	v, _ := opt1.Options.Get("debug")
	if v.Value() != "yes" {
		t.Fatalf("opt1.debug = %q, want yes", v.Value())
	}
	other, _ := m.Find("other")
	v2, _ := other.Options.Get("debug")
	if v2.Value() == "yes" {
		t.Fatal("wildcard opt? must not have matched 'other'")
	}

	n2, err := m.SetOption("**.debug", "stats", false)
	if err != nil {
		t.Fatalf("SetOption(**): %v", err)
	}
	if n2 != 3 {
		t.Fatalf("SetOption(**) matched %d, want 3", n2)
	}
}

func TestSetOptionMustExistReturnsErrNoMatch(t *testing.T) {
	m, _ := newTestManager()
	if _, err := m.SetOption("nothing.here", "x", true); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("SetOption = %v, want ErrNoMatch", err)
	}
}

func TestFindResolvesDottedPath(t *testing.T) {
	m, f := newTestManager()
	f.Register("leaf", NewNormal("leaf", func(*Context, *ir.Program) (int, error) { return 0, nil }))
	outer, err := m.Append("group", "outer")
	if err != nil {
		t.Fatal(err)
	}
	if err := outer.AppendSubPass(mustNew(t, f, "leaf", "inner")); err != nil {
		t.Fatal(err)
	}
	p, ok := m.Find("outer.inner")
	if !ok || p.InstanceName != "inner" {
		t.Fatalf("Find(outer.inner) = %v, %v", p, ok)
	}
	if _, ok := m.Find("outer.missing"); ok {
		t.Fatal("Find(outer.missing) should report not found")
	}
}

func TestFactoryNewRejectsUnknownType(t *testing.T) {
	f := NewFactory()
	if _, err := f.New("nonexistent", "x"); !errors.Is(err, ErrUnknownPassType) {
		t.Fatalf("New(nonexistent) = %v, want ErrUnknownPassType", err)
	}
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
