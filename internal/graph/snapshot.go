package graph

import (
	"sort"
	"time"

	"github.com/ringlens/muling-engine/pkg/models"
)

// Transaction Graph Snapshot
//
// All derived indexes over one ledger batch, built in a single pass and
// treated as read-only afterwards. Every analysis run constructs a fresh
// snapshot; nothing here survives between runs, so detectors can share a
// snapshot across goroutines without locking.
//
// Indexes:
//   Forward      sender -> receivers it has paid (deduplicated, sorted)
//   Reverse      receiver -> senders that have paid it (deduplicated, sorted)
//   PairHistory  sender -> receiver -> ordered transfer list (multiplicity kept)
//   Degree       account -> in+out transaction count (with multiplicity)
//   HourBuckets  hour-truncated timestamp -> transactions in that hour
type Snapshot struct {
	Transactions []models.Transaction
	Forward      map[string][]string
	Reverse      map[string][]string
	PairHistory  map[string]map[string][]models.Transfer
	Degree       map[string]int
	HourBuckets  map[time.Time][]models.Transaction
	Accounts     []string // first-appearance order
}

// Build derives all indexes from the transaction sequence. Empty input
// yields empty (non-nil) indexes. Rebuilding from the same sequence yields
// identical indexes: neighbor sets are kept sorted so iteration order never
// depends on map insertion history.
func Build(txs []models.Transaction) *Snapshot {
	s := &Snapshot{
		Transactions: txs,
		Forward:      make(map[string][]string),
		Reverse:      make(map[string][]string),
		PairHistory:  make(map[string]map[string][]models.Transfer),
		Degree:       make(map[string]int),
		HourBuckets:  make(map[time.Time][]models.Transaction),
	}

	fwdSeen := make(map[string]map[string]bool)
	revSeen := make(map[string]map[string]bool)
	accountSeen := make(map[string]bool)

	addAccount := func(id string) {
		if !accountSeen[id] {
			accountSeen[id] = true
			s.Accounts = append(s.Accounts, id)
		}
	}

	for _, tx := range txs {
		addAccount(tx.SenderID)
		addAccount(tx.ReceiverID)

		if fwdSeen[tx.SenderID] == nil {
			fwdSeen[tx.SenderID] = make(map[string]bool)
		}
		if !fwdSeen[tx.SenderID][tx.ReceiverID] {
			fwdSeen[tx.SenderID][tx.ReceiverID] = true
			s.Forward[tx.SenderID] = append(s.Forward[tx.SenderID], tx.ReceiverID)
		}

		if revSeen[tx.ReceiverID] == nil {
			revSeen[tx.ReceiverID] = make(map[string]bool)
		}
		if !revSeen[tx.ReceiverID][tx.SenderID] {
			revSeen[tx.ReceiverID][tx.SenderID] = true
			s.Reverse[tx.ReceiverID] = append(s.Reverse[tx.ReceiverID], tx.SenderID)
		}

		if s.PairHistory[tx.SenderID] == nil {
			s.PairHistory[tx.SenderID] = make(map[string][]models.Transfer)
		}
		s.PairHistory[tx.SenderID][tx.ReceiverID] = append(
			s.PairHistory[tx.SenderID][tx.ReceiverID],
			models.Transfer{Timestamp: tx.Timestamp, Amount: tx.Amount},
		)

		s.Degree[tx.SenderID]++
		s.Degree[tx.ReceiverID]++

		hour := tx.Timestamp.UTC().Truncate(time.Hour)
		s.HourBuckets[hour] = append(s.HourBuckets[hour], tx)
	}

	for _, neighbors := range s.Forward {
		sort.Strings(neighbors)
	}
	for _, senders := range s.Reverse {
		sort.Strings(senders)
	}

	return s
}

// Neighbors returns the accounts the given account has sent to.
func (s *Snapshot) Neighbors(account string) []string {
	return s.Forward[account]
}

// PairTransfers returns the ordered transfer history for one directed pair.
func (s *Snapshot) PairTransfers(sender, receiver string) []models.Transfer {
	if m, ok := s.PairHistory[sender]; ok {
		return m[receiver]
	}
	return nil
}
