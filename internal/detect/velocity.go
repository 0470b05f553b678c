package detect

import (
	"sort"
	"time"

	"github.com/ringlens/muling-engine/internal/graph"
	"github.com/ringlens/muling-engine/pkg/models"
)

// Velocity Detector
//
// Flags accounts transacting unusually fast. All transactions touching an
// account (sent or received) are sorted by time; accounts with fewer than
// 5 are skipped. A 1-hour window anchored at each transaction is scanned,
// and 5 or more transactions inside any window flags the account once,
// recording the first qualifying window's count.

const (
	burstWindow   = time.Hour
	burstMinCount = 5
)

// DetectHighVelocity returns one finding per bursting account.
func DetectHighVelocity(s *graph.Snapshot) []VelocityFinding {
	var findings []VelocityFinding

	touching := make(map[string][]models.Transaction)
	for _, tx := range s.Transactions {
		touching[tx.SenderID] = append(touching[tx.SenderID], tx)
		if tx.ReceiverID != tx.SenderID {
			touching[tx.ReceiverID] = append(touching[tx.ReceiverID], tx)
		}
	}

	for _, account := range s.Accounts {
		txs := touching[account]
		if len(txs) < burstMinCount {
			continue
		}

		sort.Slice(txs, func(i, j int) bool {
			return txs[i].Timestamp.Before(txs[j].Timestamp)
		})

		for i := 0; i+burstMinCount <= len(txs); i++ {
			windowEnd := txs[i].Timestamp.Add(burstWindow)
			count := 0
			for j := i; j < len(txs); j++ {
				if txs[j].Timestamp.After(windowEnd) {
					break
				}
				count++
			}
			if count >= burstMinCount {
				findings = append(findings, VelocityFinding{
					AccountID:  account,
					BurstCount: count,
					Pattern:    PatternVelocity,
				})
				break
			}
		}
	}

	return findings
}
