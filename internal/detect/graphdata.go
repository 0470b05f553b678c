package detect

import (
	"github.com/ringlens/muling-engine/internal/graph"
	"github.com/ringlens/muling-engine/pkg/models"
)

// Visualization snapshot builder. Node size and ring colors are rendering
// hints for the force-layout frontend, never detection output.

// ringPalette cycles per ring in creation order; unaffiliated nodes get
// the neutral slate color.
var ringPalette = []string{
	"#EF4444", "#F97316", "#EAB308", "#22C55E", "#14B8A6",
	"#3B82F6", "#8B5CF6", "#EC4899", "#F43F5E", "#06B6D4",
}

const neutralNodeColor = "#64748B"

// BuildGraphData packages every account and directed pair into the
// visualization-ready snapshot consumed by the frontend.
func BuildGraphData(s *graph.Snapshot, accounts []models.SuspiciousAccount, rings []models.FraudRing) models.GraphData {
	suspicious := make(map[string]models.SuspiciousAccount, len(accounts))
	for _, a := range accounts {
		suspicious[a.AccountID] = a
	}

	ringColor := make(map[string]string, len(rings))
	for i, ring := range rings {
		ringColor[ring.RingID] = ringPalette[i%len(ringPalette)]
	}

	nodes := make([]models.GraphNode, 0, len(s.Accounts))
	for _, account := range s.Accounts {
		node := models.GraphNode{
			ID:               account,
			Color:            neutralNodeColor,
			Size:             10,
			DetectedPatterns: []string{},
		}
		if a, ok := suspicious[account]; ok {
			node.Suspicious = true
			node.SuspicionScore = a.SuspicionScore
			node.DetectedPatterns = a.DetectedPatterns
			node.RingID = a.RingID
			node.Size = a.SuspicionScore / 2
			if node.Size < 20 {
				node.Size = 20
			}
			if color, ok := ringColor[a.RingID]; ok {
				node.Color = color
			}
		}
		nodes = append(nodes, node)
	}

	var edges []models.GraphEdge
	for _, sender := range s.Accounts {
		for _, receiver := range s.Neighbors(sender) {
			transfers := s.PairTransfers(sender, receiver)
			var total float64
			for _, t := range transfers {
				total += t.Amount
			}
			edges = append(edges, models.GraphEdge{
				Source:           sender,
				Target:           receiver,
				TransactionCount: len(transfers),
				TotalAmount:      total,
			})
		}
	}

	return models.GraphData{Nodes: nodes, Edges: edges, FraudRings: rings}
}
