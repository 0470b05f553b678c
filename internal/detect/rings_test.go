package detect

import (
	"reflect"
	"testing"
)

func TestAssembleRings_CycleCreatesRing(t *testing.T) {
	rings, mapping := AssembleRings([][]string{{"A", "B", "C"}}, nil)

	if len(rings) != 1 {
		t.Fatalf("expected one ring, got %d", len(rings))
	}
	r := rings[0]
	if r.RingID != "RING_001" || r.PatternType != "cycle" || r.CycleLength != 3 {
		t.Fatalf("unexpected ring: %+v", r)
	}
	if !reflect.DeepEqual(r.MemberAccounts, []string{"A", "B", "C"}) {
		t.Fatalf("unexpected members: %v", r.MemberAccounts)
	}
	for _, id := range []string{"A", "B", "C"} {
		if mapping[id] != "RING_001" {
			t.Fatalf("expected %s mapped to RING_001, got %s", id, mapping[id])
		}
	}
}

func TestAssembleRings_OverlappingCyclesMerge(t *testing.T) {
	cycles := [][]string{
		{"A", "B", "C"},
		{"C", "D", "E"}, // shares C: merges into RING_001
		{"X", "Y", "Z"}, // disjoint: new ring
	}
	rings, mapping := AssembleRings(cycles, nil)

	if len(rings) != 2 {
		t.Fatalf("expected two rings after merge, got %d", len(rings))
	}
	if !reflect.DeepEqual(rings[0].MemberAccounts, []string{"A", "B", "C", "D", "E"}) {
		t.Fatalf("merged ring has wrong members: %v", rings[0].MemberAccounts)
	}
	if rings[1].RingID != "RING_002" {
		t.Fatalf("disjoint cycle must get the next sequential id, got %s", rings[1].RingID)
	}
	if mapping["D"] != "RING_001" || mapping["X"] != "RING_002" {
		t.Fatalf("unexpected mapping: %v", mapping)
	}
}

func TestAssembleRings_ShellNeverOverwritesCycleMapping(t *testing.T) {
	cycles := [][]string{{"A", "B", "C"}}
	shells := [][]string{{"B", "S1", "S2"}}

	rings, mapping := AssembleRings(cycles, shells)

	if len(rings) != 2 {
		t.Fatalf("expected cycle ring plus shell ring, got %d", len(rings))
	}
	if rings[1].PatternType != "layered_shell" {
		t.Fatalf("expected layered_shell ring, got %+v", rings[1])
	}
	// B stays with its cycle ring; the fresh shell members map to the
	// shell ring.
	if mapping["B"] != "RING_001" {
		t.Fatalf("shell must not overwrite B's cycle mapping, got %s", mapping["B"])
	}
	if mapping["S1"] != "RING_002" || mapping["S2"] != "RING_002" {
		t.Fatalf("unexpected shell mapping: %v", mapping)
	}
}

func TestAssembleRings_MappingNeverReassigned(t *testing.T) {
	cycles := [][]string{
		{"A", "B", "C"},
		{"D", "E", "F"},
		{"C", "D", "G"}, // touches both rings; merges into first-found
	}
	_, mapping := AssembleRings(cycles, nil)

	// D was assigned to RING_002 first and keeps it even though the third
	// cycle merged into RING_001.
	if mapping["D"] != "RING_002" {
		t.Fatalf("mapping must never be reassigned, got %s", mapping["D"])
	}
	if mapping["G"] != "RING_001" {
		t.Fatalf("new member joins the merge target, got %s", mapping["G"])
	}
}

func TestAssembleRings_Empty(t *testing.T) {
	rings, mapping := AssembleRings(nil, nil)
	if len(rings) != 0 || len(mapping) != 0 {
		t.Fatalf("expected empty assembly, got %v / %v", rings, mapping)
	}
}
