package detect

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ringlens/muling-engine/internal/graph"
	"github.com/ringlens/muling-engine/internal/ledger"
	"github.com/ringlens/muling-engine/pkg/models"
)

// Analysis Orchestrator
//
// One synchronous batch computation per call: parse, build the graph
// snapshot, run the four detectors, assemble rings, score, package. The
// detectors are pure functions of the immutable snapshot with no data
// dependency on each other, so they run on separate goroutines; the ring
// assembler and scoring engine wait at the errgroup join before touching
// any detector output.
//
// A failed parse aborts the whole run; an empty ledger flows through every
// stage and yields empty results.

// Report bundles the analysis result with the optional visualization
// snapshot.
type Report struct {
	Result    models.AnalysisResult `json:"result"`
	GraphData models.GraphData      `json:"graphData"`
}

// Analyze runs the full detection pipeline over one raw ledger.
func Analyze(ctx context.Context, rawLedger string) (*Report, error) {
	started := time.Now()

	txs, err := ledger.Parse(rawLedger)
	if err != nil {
		return nil, err
	}

	snapshot := graph.Build(txs)

	var out DetectorOutput
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Cycles = DetectCycles(snapshot)
		return nil
	})
	g.Go(func() error {
		out.Smurfing = DetectSmurfing(snapshot)
		return nil
	})
	g.Go(func() error {
		out.Shells = DetectShellChains(snapshot)
		return nil
	})
	g.Go(func() error {
		out.Velocity = DetectHighVelocity(snapshot)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rings, accountToRing := AssembleRings(out.Cycles, out.Shells)
	accounts := ScoreAccounts(out, accountToRing)
	rings = ScoreRings(rings, accounts)

	elapsed := time.Since(started).Seconds()

	result := models.AnalysisResult{
		RunID:              uuid.New().String(),
		SuspiciousAccounts: accounts,
		FraudRings:         rings,
		Summary: models.Summary{
			TotalAccountsAnalyzed:     len(snapshot.Accounts),
			SuspiciousAccountsFlagged: len(accounts),
			FraudRingsDetected:        len(rings),
			ProcessingTimeSeconds:     math.Round(elapsed*100) / 100,
		},
	}

	return &Report{
		Result:    result,
		GraphData: BuildGraphData(snapshot, accounts, rings),
	}, nil
}
