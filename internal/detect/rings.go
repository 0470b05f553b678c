package detect

import (
	"fmt"

	"github.com/ringlens/muling-engine/pkg/models"
)

// Ring Assembler
//
// Merges cycle and shell-chain findings into fraud-ring entities. Smurfing
// and velocity findings contribute to scoring only, never to ring
// membership.
//
// Cycles sharing a member with an existing ring merge into the FIRST such
// ring in encounter order; otherwise a new "cycle" ring is allocated.
// Shell chains always allocate a fresh "layered_shell" ring, but a shell
// never overwrites an account's prior ring mapping: first writer wins.
// Ring membership only grows within a run.

type ringBuilder struct {
	ringID      string
	members     []string
	memberSet   map[string]bool
	patternType string
	cycleLength int
}

func (b *ringBuilder) add(account string) {
	if !b.memberSet[account] {
		b.memberSet[account] = true
		b.members = append(b.members, account)
	}
}

// AssembleRings builds the ring list in creation order and returns it along
// with the account -> ring_id mapping used by the scoring engine.
func AssembleRings(cycles, shells [][]string) ([]models.FraudRing, map[string]string) {
	var builders []*ringBuilder
	byID := make(map[string]*ringBuilder)
	accountToRing := make(map[string]string)
	counter := 1

	newRing := func(patternType string) *ringBuilder {
		b := &ringBuilder{
			ringID:      fmt.Sprintf("RING_%03d", counter),
			memberSet:   make(map[string]bool),
			patternType: patternType,
		}
		counter++
		builders = append(builders, b)
		byID[b.ringID] = b
		return b
	}

	for _, cycle := range cycles {
		target := ""
		for _, account := range cycle {
			if ringID, ok := accountToRing[account]; ok {
				target = ringID
				break
			}
		}

		var ring *ringBuilder
		if target == "" {
			ring = newRing("cycle")
			ring.cycleLength = len(cycle)
		} else {
			ring = byID[target]
		}
		for _, account := range cycle {
			ring.add(account)
			// First writer wins: an account already mapped to another ring
			// keeps that assignment even when a later cycle pulls it into
			// the merge target's member list.
			if _, taken := accountToRing[account]; !taken {
				accountToRing[account] = ring.ringID
			}
		}
	}

	for _, shell := range shells {
		if len(shell) < minChainLen {
			continue
		}
		ring := newRing("layered_shell")
		for _, account := range shell {
			ring.add(account)
			if _, taken := accountToRing[account]; !taken {
				accountToRing[account] = ring.ringID
			}
		}
	}

	rings := make([]models.FraudRing, 0, len(builders))
	for _, b := range builders {
		rings = append(rings, models.FraudRing{
			RingID:         b.ringID,
			MemberAccounts: b.members,
			PatternType:    b.patternType,
			CycleLength:    b.cycleLength,
		})
	}
	return rings, accountToRing
}
