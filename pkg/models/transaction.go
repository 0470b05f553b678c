package models

import "time"

// Transaction represents a single validated ledger transfer.
// Immutable once parsed; the whole engine is a pure function of the
// transaction sequence.
type Transaction struct {
	TransactionID string    `json:"transaction_id"`
	SenderID      string    `json:"sender_id"`
	ReceiverID    string    `json:"receiver_id"`
	Amount        float64   `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}

// Transfer is the per-pair history entry: when and how much moved on a
// directed (sender, receiver) edge.
type Transfer struct {
	Timestamp time.Time `json:"timestamp"`
	Amount    float64   `json:"amount"`
}

// FraudRing is a set of accounts linked by a detected structural pattern.
// Ring ids are stable sequential identifiers of the form RING_NNN.
type FraudRing struct {
	RingID         string   `json:"ring_id"`
	MemberAccounts []string `json:"member_accounts"`
	PatternType    string   `json:"pattern_type"` // "cycle" or "layered_shell"
	CycleLength    int      `json:"cycle_length,omitempty"`
	RiskScore      float64  `json:"risk_score"` // 0-100, mean of member suspicion scores
}

// SuspiciousAccount is one scored account in the analysis output.
// Only accounts with a nonzero raw score appear.
type SuspiciousAccount struct {
	AccountID        string   `json:"account_id"`
	SuspicionScore   float64  `json:"suspicion_score"` // 0-100, normalized per run
	DetectedPatterns []string `json:"detected_patterns"`
	RingID           string   `json:"ring_id,omitempty"`
}

// Summary holds the per-run headline statistics.
type Summary struct {
	TotalAccountsAnalyzed     int     `json:"total_accounts_analyzed"`
	SuspiciousAccountsFlagged int     `json:"suspicious_accounts_flagged"`
	FraudRingsDetected        int     `json:"fraud_rings_detected"`
	ProcessingTimeSeconds     float64 `json:"processing_time_seconds"`
}

// AnalysisResult is the engine output consumed by presentation collaborators.
type AnalysisResult struct {
	RunID              string              `json:"run_id"`
	SuspiciousAccounts []SuspiciousAccount `json:"suspicious_accounts"`
	FraudRings         []FraudRing         `json:"fraud_rings"`
	Summary            Summary             `json:"summary"`
}

// GraphNode is a visualization-ready account node. Size and color are
// rendering hints only, never detection output.
type GraphNode struct {
	ID               string   `json:"id"`
	Suspicious       bool     `json:"suspicious"`
	SuspicionScore   float64  `json:"suspicion_score"`
	DetectedPatterns []string `json:"detected_patterns"`
	RingID           string   `json:"ring_id,omitempty"`
	Color            string   `json:"color"`
	Size             float64  `json:"size"`
}

// GraphEdge aggregates all transfers on one directed account pair.
type GraphEdge struct {
	Source           string  `json:"source"`
	Target           string  `json:"target"`
	TransactionCount int     `json:"transaction_count"`
	TotalAmount      float64 `json:"total_amount"`
}

// GraphData is the optional force-layout snapshot handed to the frontend.
type GraphData struct {
	Nodes      []GraphNode `json:"nodes"`
	Edges      []GraphEdge `json:"edges"`
	FraudRings []FraudRing `json:"fraudRings"`
}
