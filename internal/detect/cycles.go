package detect

import (
	"strings"

	"github.com/ringlens/muling-engine/internal/graph"
)

// Cycle Detector
//
// Finds simple directed cycles of length 3 to 5: money returning to its
// origin through distinct intermediaries, the classic laundering loop.
//
// Every account is tried as a cycle start. The DFS follows forward
// adjacency only, never revisits an account on the current path, and is
// capped at 5 hops. Each discovered cycle is rotated so it begins with its
// lexicographically smallest member before dedup, so rotations of the same
// id sequence count once. Reversed traversals are NOT collapsed: adjacency
// is directed and a reverse loop is a different set of edges.
//
// Self-loops can never qualify since the minimum cycle length is 3.

const (
	minCycleLen = 3
	maxCycleLen = 5
)

// DetectCycles returns every unique qualifying cycle as an ordered account
// sequence.
func DetectCycles(s *graph.Snapshot) [][]string {
	var cycles [][]string
	seen := make(map[string]bool)

	for _, account := range s.Accounts {
		cycleDFS(s, account, account, []string{account}, 1, seen, &cycles)
	}

	return cycles
}

// cycleDFS extends an immutable path value one hop at a time. Each branch
// gets its own copy-extended path, so concurrent callers can never alias a
// shared buffer.
func cycleDFS(s *graph.Snapshot, start, current string, path []string, depth int, seen map[string]bool, out *[][]string) {
	if depth > maxCycleLen {
		return
	}

	for _, neighbor := range s.Neighbors(current) {
		if neighbor == start && len(path) >= minCycleLen && len(path) <= maxCycleLen {
			key := strings.Join(canonicalizeCycle(path), ",")
			if !seen[key] {
				seen[key] = true
				cycle := make([]string, len(path))
				copy(cycle, path)
				*out = append(*out, cycle)
			}
		} else if !contains(path, neighbor) && depth < maxCycleLen {
			next := make([]string, len(path), len(path)+1)
			copy(next, path)
			cycleDFS(s, start, neighbor, append(next, neighbor), depth+1, seen, out)
		}
	}
}

// canonicalizeCycle rotates the cycle to begin at its lexicographically
// smallest account id. The rotated sequence is the dedup key.
func canonicalizeCycle(cycle []string) []string {
	minIdx := 0
	for i, id := range cycle {
		if id < cycle[minIdx] {
			minIdx = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[minIdx:]...)
	rotated = append(rotated, cycle[:minIdx]...)
	return rotated
}

func contains(path []string, id string) bool {
	for _, p := range path {
		if p == id {
			return true
		}
	}
	return false
}
