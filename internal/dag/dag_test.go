// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"testing"
)

func TestTopologicalSort_Empty(t *testing.T) {
	t.Parallel()

	g := New()
	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Errorf("expected nil order for empty graph, got %v", order)
	}
}

func TestTopologicalSort_Linear(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddEdge("resolve", "materialize")
	g.AddEdge("materialize", "install")
	g.AddEdge("install", "launch-spec")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"resolve", "materialize", "install", "launch-spec"}
	if len(order) != len(want) {
		t.Fatalf("order length = %d, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestTopologicalSort_DeterministicAtSameLevel(t *testing.T) {
	t.Parallel()

	// declare has no incoming edges but was added after resolve,
	// so resolve must still come first in the output.
	g := New()
	g.AddNode("resolve")
	g.AddNode("declare")
	g.AddEdge("resolve", "materialize")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"resolve", "declare", "materialize"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestTopologicalSort_Cycle(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")

	_, err := g.TopologicalSort()
	if err == nil {
		t.Fatal("expected cycle error, got nil")
	}

	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CycleError, got %T", err)
	}
	if len(cycleErr.Cycle) == 0 {
		t.Error("expected cycle nodes to be reported")
	}
}

func TestAddNode_Duplicate(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("resolve")
	g.AddNode("resolve")

	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1", g.Len())
	}
}
