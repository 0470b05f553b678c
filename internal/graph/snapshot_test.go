package graph

import (
	"reflect"
	"testing"
	"time"

	"github.com/ringlens/muling-engine/pkg/models"
)

func tx(id, sender, receiver string, amount float64, ts time.Time) models.Transaction {
	return models.Transaction{
		TransactionID: id,
		SenderID:      sender,
		ReceiverID:    receiver,
		Amount:        amount,
		Timestamp:     ts,
	}
}

func TestBuild_Indexes(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 15, 0, 0, time.UTC)
	txs := []models.Transaction{
		tx("T1", "A", "B", 100, base),
		tx("T2", "A", "B", 50, base.Add(10*time.Minute)),
		tx("T3", "A", "C", 25, base.Add(2*time.Hour)),
		tx("T4", "B", "A", 10, base.Add(3*time.Hour)),
	}

	s := Build(txs)

	if got := s.Neighbors("A"); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Fatalf("expected A -> [B C], got %v", got)
	}
	if got := s.Reverse["B"]; !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("expected B <- [A], got %v", got)
	}

	history := s.PairTransfers("A", "B")
	if len(history) != 2 {
		t.Fatalf("expected 2 transfers on A->B, got %d", len(history))
	}
	if history[0].Amount != 100 || history[1].Amount != 50 {
		t.Fatalf("pair history must preserve order and multiplicity, got %+v", history)
	}

	if s.Degree["A"] != 4 || s.Degree["B"] != 3 || s.Degree["C"] != 1 {
		t.Fatalf("unexpected degrees: A=%d B=%d C=%d", s.Degree["A"], s.Degree["B"], s.Degree["C"])
	}

	hour := base.Truncate(time.Hour)
	if len(s.HourBuckets[hour]) != 2 {
		t.Fatalf("expected 2 transactions in the %v bucket, got %d", hour, len(s.HourBuckets[hour]))
	}

	if !reflect.DeepEqual(s.Accounts, []string{"A", "B", "C"}) {
		t.Fatalf("expected first-appearance account order [A B C], got %v", s.Accounts)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		tx("T1", "X", "Y", 5, base),
		tx("T2", "Y", "Z", 6, base.Add(time.Minute)),
		tx("T3", "Z", "X", 7, base.Add(2*time.Minute)),
	}

	first := Build(txs)
	second := Build(txs)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("rebuilding from the same sequence must yield identical indexes")
	}
}

func TestBuild_Empty(t *testing.T) {
	s := Build(nil)
	if len(s.Accounts) != 0 || len(s.Forward) != 0 || len(s.HourBuckets) != 0 {
		t.Fatalf("empty input must yield empty indexes, got %+v", s)
	}
}

func TestBuild_SelfLoopDegree(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := Build([]models.Transaction{tx("T1", "A", "A", 5, base)})

	// A self-loop counts the account on both sides.
	if s.Degree["A"] != 2 {
		t.Fatalf("expected self-loop degree 2, got %d", s.Degree["A"])
	}
	if got := s.Neighbors("A"); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("expected self edge in adjacency, got %v", got)
	}
}
