package detect

// Detector findings
//
// Each detector emits its own tagged findings; the scoring engine consumes
// them uniformly through the pattern weight table below instead of
// inspecting result shapes. A single account can carry findings from any
// combination of detectors.

// Pattern tags a finding with the behavior that produced it.
type Pattern string

const (
	PatternCycle    Pattern = "cycle"
	PatternFanIn    Pattern = "fan_in"
	PatternFanOut   Pattern = "fan_out"
	PatternShell    Pattern = "layered_shell"
	PatternVelocity Pattern = "high_velocity"
)

// patternWeights maps each pattern to the points one finding of that
// pattern contributes to every account it names. Points accumulate across
// findings, so an account inside two distinct cycles earns 70, not 35.
var patternWeights = map[Pattern]float64{
	PatternCycle:    35,
	PatternFanIn:    30,
	PatternFanOut:   30,
	PatternShell:    20,
	PatternVelocity: 15,
}

// FanFinding flags an account aggregating from or distributing to too many
// distinct counterparties inside one smurfing window.
type FanFinding struct {
	AccountID         string  `json:"account_id"`
	CounterpartyCount int     `json:"counterparty_count"`
	Pattern           Pattern `json:"pattern"` // fan_in or fan_out
}

// SmurfingResult carries both directions of structuring findings.
type SmurfingResult struct {
	FanIn  []FanFinding `json:"fan_in"`
	FanOut []FanFinding `json:"fan_out"`
}

// VelocityFinding flags an account with a qualifying transaction burst.
type VelocityFinding struct {
	AccountID  string  `json:"account_id"`
	BurstCount int     `json:"burst_count"`
	Pattern    Pattern `json:"pattern"` // always high_velocity
}

// DetectorOutput joins the four detectors' results at the assembly barrier.
type DetectorOutput struct {
	Cycles   [][]string
	Smurfing SmurfingResult
	Shells   [][]string
	Velocity []VelocityFinding
}
