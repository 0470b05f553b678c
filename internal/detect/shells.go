package detect

import (
	"strings"

	"github.com/ringlens/muling-engine/internal/graph"
)

// Layered Shell Detector
//
// Identifies chains of low-activity pass-through accounts used to obscure
// fund origin. Starting from every account, the DFS extends along forward
// adjacency. A candidate joins a path only as an intermediate: the path
// must already hold two or more members, and the candidate must show the
// disposable-shell signature, total degree and total transaction count
// both at 3 or less. Nodes already on the path never rejoin.
//
// Chains of length 3 or more are recorded once per exact id sequence.
// Direction matters here, so no rotation canonicalization is applied; the
// same accounts discovered in a different order are a different chain.
// A branch stops extending once the path reaches 6 accounts.

const (
	minChainLen     = 3
	maxChainLen     = 6
	shellMaxDegree  = 3
	shellMaxTxCount = 3
)

// DetectShellChains returns every recorded chain as an ordered account
// sequence of length >= 3.
func DetectShellChains(s *graph.Snapshot) [][]string {
	var chains [][]string
	seen := make(map[string]bool)

	for _, account := range s.Accounts {
		shellDFS(s, []string{account}, seen, &chains)
	}

	return chains
}

func shellDFS(s *graph.Snapshot, path []string, seen map[string]bool, out *[][]string) {
	current := path[len(path)-1]

	for _, neighbor := range s.Neighbors(current) {
		if contains(path, neighbor) {
			continue
		}
		// Only established paths extend: the candidate joins as an
		// intermediate, never as the start. Degree counts every
		// transaction touching the account, so the degree cap and the
		// transaction-count cap are one check.
		if len(path) < 2 || s.Degree[neighbor] > shellMaxDegree || s.Degree[neighbor] > shellMaxTxCount {
			continue
		}

		next := make([]string, len(path), len(path)+1)
		copy(next, path)
		next = append(next, neighbor)

		if len(next) >= minChainLen {
			key := strings.Join(next, "->")
			if !seen[key] {
				seen[key] = true
				*out = append(*out, next)
			}
		}

		if len(next) < maxChainLen {
			shellDFS(s, next, seen, out)
		}
	}
}
