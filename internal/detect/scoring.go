package detect

import (
	"fmt"
	"math"
	"sort"

	"github.com/ringlens/muling-engine/pkg/models"
)

// Scoring Engine
//
// Fuses all detector signals into per-account suspicion scores and
// per-ring risk scores.
//
// Raw scores accumulate additively through the pattern weight table: every
// cycle containing an account adds 35, fan-in and fan-out add 30 each,
// every shell chain adds 20, a velocity burst adds 15. Scores are then
// normalized against the batch's own maximum, so the top raw scorer always
// lands exactly at 100 and every threshold is run-relative.

type scoreAccumulator struct {
	raw      map[string]float64
	patterns map[string][]string
	tagSeen  map[string]map[string]bool
	order    []string
}

func newScoreAccumulator() *scoreAccumulator {
	return &scoreAccumulator{
		raw:      make(map[string]float64),
		patterns: make(map[string][]string),
		tagSeen:  make(map[string]map[string]bool),
	}
}

// add credits one finding's points to an account and records its pattern
// tag. Tags form a set; points do not.
func (a *scoreAccumulator) add(account string, pattern Pattern, tag string) {
	if _, ok := a.raw[account]; !ok {
		a.order = append(a.order, account)
	}
	a.raw[account] += patternWeights[pattern]

	if a.tagSeen[account] == nil {
		a.tagSeen[account] = make(map[string]bool)
	}
	if !a.tagSeen[account][tag] {
		a.tagSeen[account][tag] = true
		a.patterns[account] = append(a.patterns[account], tag)
	}
}

// ScoreAccounts produces the normalized suspicious-account list, sorted by
// suspicion score descending with stable first-encounter tie-breaks.
func ScoreAccounts(out DetectorOutput, accountToRing map[string]string) []models.SuspiciousAccount {
	acc := newScoreAccumulator()

	for _, cycle := range out.Cycles {
		tag := fmt.Sprintf("cycle_length_%d", len(cycle))
		for _, account := range cycle {
			acc.add(account, PatternCycle, tag)
		}
	}
	for _, f := range out.Smurfing.FanIn {
		acc.add(f.AccountID, PatternFanIn, string(PatternFanIn))
	}
	for _, f := range out.Smurfing.FanOut {
		acc.add(f.AccountID, PatternFanOut, string(PatternFanOut))
	}
	for _, shell := range out.Shells {
		for _, account := range shell {
			acc.add(account, PatternShell, string(PatternShell))
		}
	}
	for _, f := range out.Velocity {
		acc.add(f.AccountID, PatternVelocity, string(PatternVelocity))
	}

	maxRaw := 1.0
	for _, raw := range acc.raw {
		if raw > maxRaw {
			maxRaw = raw
		}
	}

	accounts := make([]models.SuspiciousAccount, 0, len(acc.order))
	for _, account := range acc.order {
		raw := acc.raw[account]
		if raw <= 0 {
			continue
		}
		score := roundTo(raw/maxRaw*100, 1)
		if score > 100 {
			score = 100
		}
		accounts = append(accounts, models.SuspiciousAccount{
			AccountID:        account,
			SuspicionScore:   score,
			DetectedPatterns: acc.patterns[account],
			RingID:           accountToRing[account],
		})
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].SuspicionScore > accounts[j].SuspicionScore
	})
	return accounts
}

// ScoreRings sets every ring's risk score to the mean of its scored
// members' suspicion scores (0 with no scored members) and returns the
// rings sorted by risk descending.
func ScoreRings(rings []models.FraudRing, accounts []models.SuspiciousAccount) []models.FraudRing {
	scoreByAccount := make(map[string]float64, len(accounts))
	for _, a := range accounts {
		scoreByAccount[a.AccountID] = a.SuspicionScore
	}

	scored := make([]models.FraudRing, len(rings))
	copy(scored, rings)
	for i := range scored {
		var sum float64
		var n int
		for _, member := range scored[i].MemberAccounts {
			if s, ok := scoreByAccount[member]; ok {
				sum += s
				n++
			}
		}
		if n > 0 {
			scored[i].RiskScore = roundTo(sum/float64(n), 1)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RiskScore > scored[j].RiskScore
	})
	return scored
}

func roundTo(v float64, decimals int) float64 {
	shift := math.Pow(10, float64(decimals))
	return math.Round(v*shift) / shift
}
