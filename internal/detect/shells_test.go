package detect

import (
	"reflect"
	"testing"
	"time"

	"github.com/ringlens/muling-engine/pkg/models"
)

func TestShellDFS_ExtendsEstablishedPath(t *testing.T) {
	// With ORIGIN->SHELL_1 already on the path, the walk extends through
	// the low-activity shells and records every suffix of length 3+.
	s := snapshotOf(
		mkTx("ORIGIN", "SHELL_1", 9800, 0),
		mkTx("SHELL_1", "SHELL_2", 9700, 6*time.Hour),
		mkTx("SHELL_2", "SHELL_3", 9600, 12*time.Hour),
	)

	var chains [][]string
	shellDFS(s, []string{"ORIGIN", "SHELL_1"}, make(map[string]bool), &chains)

	want := [][]string{
		{"ORIGIN", "SHELL_1", "SHELL_2"},
		{"ORIGIN", "SHELL_1", "SHELL_2", "SHELL_3"},
	}
	if !reflect.DeepEqual(chains, want) {
		t.Fatalf("unexpected chains:\n got %v\nwant %v", chains, want)
	}
}

func TestShellDFS_HighActivityIntermediateBlocks(t *testing.T) {
	// HUB has degree 6, so no chain may pass through it as an
	// intermediate.
	txs := []models.Transaction{
		mkTx("A", "B", 100, 0),
		mkTx("B", "HUB", 100, time.Hour),
		mkTx("HUB", "C", 100, 2*time.Hour),
	}
	for i := 0; i < 4; i++ {
		txs = append(txs, mkTx("HUB", "D", 10, time.Duration(3+i)*time.Hour))
	}

	var chains [][]string
	shellDFS(snapshotOf(txs...), []string{"A", "B"}, make(map[string]bool), &chains)
	if len(chains) != 0 {
		t.Fatalf("high-activity account must not qualify as intermediate: %v", chains)
	}
}

func TestShellDFS_DepthCap(t *testing.T) {
	// A 9-account line: branches stop extending at 6 members.
	ids := []string{"N0", "N1", "N2", "N3", "N4", "N5", "N6", "N7", "N8"}
	var txs []models.Transaction
	for i := 0; i < len(ids)-1; i++ {
		txs = append(txs, mkTx(ids[i], ids[i+1], 50, time.Duration(i)*time.Hour))
	}

	var chains [][]string
	shellDFS(snapshotOf(txs...), []string{"N0", "N1"}, make(map[string]bool), &chains)
	if len(chains) == 0 {
		t.Fatal("expected chains along the line")
	}
	for _, chain := range chains {
		if len(chain) > maxChainLen {
			t.Fatalf("chain exceeds depth cap: %v", chain)
		}
	}
}

func TestShellDFS_NoRevisit(t *testing.T) {
	// SHELL_2 forwards back to SHELL_1; accounts already on the path
	// never rejoin.
	s := snapshotOf(
		mkTx("ORIGIN", "SHELL_1", 500, 0),
		mkTx("SHELL_1", "SHELL_2", 490, time.Hour),
		mkTx("SHELL_2", "SHELL_1", 480, 2*time.Hour),
	)

	var chains [][]string
	shellDFS(s, []string{"ORIGIN", "SHELL_1"}, make(map[string]bool), &chains)

	want := [][]string{{"ORIGIN", "SHELL_1", "SHELL_2"}}
	if !reflect.DeepEqual(chains, want) {
		t.Fatalf("unexpected chains:\n got %v\nwant %v", chains, want)
	}
}

func TestDetectShellChains_RequiresEstablishedPath(t *testing.T) {
	// From a bare start the path holds a single member, so no candidate
	// qualifies as an intermediate and the scan records nothing, even
	// along a textbook pass-through line.
	s := snapshotOf(
		mkTx("ORIGIN", "SHELL_1", 9800, 0),
		mkTx("SHELL_1", "SHELL_2", 9700, 6*time.Hour),
		mkTx("SHELL_2", "SHELL_3", 9600, 12*time.Hour),
	)
	if chains := DetectShellChains(s); len(chains) != 0 {
		t.Fatalf("expected no chains from bare starts, got %v", chains)
	}
}
