package detect

import (
	"sort"
	"time"

	"github.com/ringlens/muling-engine/internal/graph"
	"github.com/ringlens/muling-engine/pkg/models"
)

// Smurfing Detector
//
// Flags accounts aggregating many small inbound transfers (fan-in) or
// distributing to many recipients (fan-out) within a short window, the
// classic structuring behavior.
//
// False-positive suppression runs before any window analysis:
//   1. Volume cap: accounts with more than 200 total transactions are
//      treated as high-volume legitimate businesses and skipped.
//   2. Payroll signature: accounts whose daily outgoing counts are highly
//      stable (variance below 2.0 across at least 10 distinct days) look
//      like routine payroll and are skipped.
//
// Window analysis then slides a 72-hour window anchored at each
// transaction of the account's own inbound (fan-in) or outbound (fan-out)
// subset and counts distinct counterparties inside [t, t+72h]. Ten or more
// distinct counterparties in any window flags the account. Fan-in and
// fan-out are independent: an account can carry both findings.

const (
	smurfWindow        = 72 * time.Hour
	smurfCounterparty  = 10
	volumeCapTxCount   = 200
	payrollMinDays     = 5
	payrollStableDays  = 10
	payrollMaxVariance = 2.0
)

// DetectSmurfing returns fan-in and fan-out findings over the snapshot.
func DetectSmurfing(s *graph.Snapshot) SmurfingResult {
	var result SmurfingResult

	inbound := make(map[string][]models.Transaction)
	outbound := make(map[string][]models.Transaction)
	for _, tx := range s.Transactions {
		inbound[tx.ReceiverID] = append(inbound[tx.ReceiverID], tx)
		outbound[tx.SenderID] = append(outbound[tx.SenderID], tx)
	}

	dailyOut := dailyOutgoingCounts(s.Transactions)

	for _, account := range s.Accounts {
		if s.Degree[account] > volumeCapTxCount {
			continue
		}
		if isLikelyPayroll(dailyOut[account]) {
			continue
		}

		if count, ok := maxDistinctCounterparties(inbound[account], senderOf); ok {
			result.FanIn = append(result.FanIn, FanFinding{
				AccountID:         account,
				CounterpartyCount: count,
				Pattern:           PatternFanIn,
			})
		}
		if count, ok := maxDistinctCounterparties(outbound[account], receiverOf); ok {
			result.FanOut = append(result.FanOut, FanFinding{
				AccountID:         account,
				CounterpartyCount: count,
				Pattern:           PatternFanOut,
			})
		}
	}

	return result
}

func senderOf(tx models.Transaction) string   { return tx.SenderID }
func receiverOf(tx models.Transaction) string { return tx.ReceiverID }

// maxDistinctCounterparties slides the 72h window over the account's own
// transaction subset. The scan stops at the first qualifying window, which
// is the window whose count gets reported.
func maxDistinctCounterparties(txs []models.Transaction, counterparty func(models.Transaction) string) (int, bool) {
	if len(txs) < smurfCounterparty {
		return 0, false
	}

	sorted := make([]models.Transaction, len(txs))
	copy(sorted, txs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	for i := range sorted {
		windowEnd := sorted[i].Timestamp.Add(smurfWindow)
		distinct := make(map[string]bool)
		for j := i; j < len(sorted); j++ {
			if sorted[j].Timestamp.After(windowEnd) {
				break
			}
			distinct[counterparty(sorted[j])] = true
		}
		if len(distinct) >= smurfCounterparty {
			return len(distinct), true
		}
	}
	return 0, false
}

// dailyOutgoingCounts tallies, per account, the number of outgoing
// transactions on each calendar day (UTC).
func dailyOutgoingCounts(txs []models.Transaction) map[string]map[string]int {
	daily := make(map[string]map[string]int)
	for _, tx := range txs {
		day := tx.Timestamp.UTC().Format("2006-01-02")
		if daily[tx.SenderID] == nil {
			daily[tx.SenderID] = make(map[string]int)
		}
		daily[tx.SenderID][day]++
	}
	return daily
}

// isLikelyPayroll reports whether the daily outgoing counts look like a
// routine payroll schedule: enough observed days, spread over at least 10
// distinct days, with day-to-day count variance below 2.0.
func isLikelyPayroll(dayCounts map[string]int) bool {
	if len(dayCounts) < payrollMinDays {
		return false
	}

	var sum float64
	for _, c := range dayCounts {
		sum += float64(c)
	}
	mean := sum / float64(len(dayCounts))

	var variance float64
	for _, c := range dayCounts {
		diff := float64(c) - mean
		variance += diff * diff
	}
	variance /= float64(len(dayCounts))

	return variance < payrollMaxVariance && len(dayCounts) >= payrollStableDays
}
