package detect

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/ringlens/muling-engine/internal/graph"
	"github.com/ringlens/muling-engine/pkg/models"
)

var testBase = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

var txSeq int

func mkTx(sender, receiver string, amount float64, offset time.Duration) models.Transaction {
	txSeq++
	return models.Transaction{
		TransactionID: fmt.Sprintf("T%04d", txSeq),
		SenderID:      sender,
		ReceiverID:    receiver,
		Amount:        amount,
		Timestamp:     testBase.Add(offset),
	}
}

func snapshotOf(txs ...models.Transaction) *graph.Snapshot {
	return graph.Build(txs)
}

func TestDetectCycles_TriangleFoundOnce(t *testing.T) {
	s := snapshotOf(
		mkTx("A", "B", 100, 0),
		mkTx("B", "C", 100, 10*time.Minute),
		mkTx("C", "A", 100, 20*time.Minute),
	)

	cycles := DetectCycles(s)
	if len(cycles) != 1 {
		t.Fatalf("expected exactly one cycle after rotation dedup, got %d: %v", len(cycles), cycles)
	}
	if len(cycles[0]) != 3 {
		t.Fatalf("expected cycle length 3, got %v", cycles[0])
	}
}

func TestDetectCycles_RotationInvariant(t *testing.T) {
	// The same loop discovered from B or C is a rotation of the one found
	// from A; canonicalization must collapse them to one finding.
	s := snapshotOf(
		mkTx("B", "C", 10, 0),
		mkTx("C", "A", 10, time.Minute),
		mkTx("A", "B", 10, 2*time.Minute),
	)

	cycles := DetectCycles(s)
	if len(cycles) != 1 {
		t.Fatalf("expected rotations to dedup to one cycle, got %d", len(cycles))
	}

	canonical := canonicalizeCycle(cycles[0])
	if canonical[0] != "A" {
		t.Fatalf("canonical rotation must start at the smallest id, got %v", canonical)
	}
	if !reflect.DeepEqual(canonical, []string{"A", "B", "C"}) {
		t.Fatalf("expected canonical [A B C], got %v", canonical)
	}
}

func TestDetectCycles_LengthBounds(t *testing.T) {
	// 2-hop ping-pong never qualifies.
	s := snapshotOf(
		mkTx("A", "B", 10, 0),
		mkTx("B", "A", 10, time.Minute),
	)
	if cycles := DetectCycles(s); len(cycles) != 0 {
		t.Fatalf("length-2 loop must not qualify, got %v", cycles)
	}

	// 6-hop ring exceeds the depth cap.
	members := []string{"A", "B", "C", "D", "E", "F"}
	var txs []models.Transaction
	for i := range members {
		txs = append(txs, mkTx(members[i], members[(i+1)%len(members)], 10, time.Duration(i)*time.Minute))
	}
	if cycles := DetectCycles(graph.Build(txs)); len(cycles) != 0 {
		t.Fatalf("length-6 loop must not qualify, got %v", cycles)
	}

	// 5-hop ring sits exactly at the cap.
	members = members[:5]
	txs = nil
	for i := range members {
		txs = append(txs, mkTx(members[i], members[(i+1)%len(members)], 10, time.Duration(i)*time.Minute))
	}
	cycles := DetectCycles(graph.Build(txs))
	if len(cycles) != 1 || len(cycles[0]) != 5 {
		t.Fatalf("expected one length-5 cycle, got %v", cycles)
	}
}

func TestDetectCycles_SelfLoopIgnored(t *testing.T) {
	s := snapshotOf(mkTx("A", "A", 10, 0))
	if cycles := DetectCycles(s); len(cycles) != 0 {
		t.Fatalf("self-loop must never form a cycle, got %v", cycles)
	}
}

func TestDetectCycles_DisconnectedAccountsYieldNone(t *testing.T) {
	s := snapshotOf(
		mkTx("A", "B", 10, 0),
		mkTx("C", "D", 10, time.Minute),
	)
	if cycles := DetectCycles(s); len(cycles) != 0 {
		t.Fatalf("acyclic graph must yield no cycles, got %v", cycles)
	}
}
