package capacity

// Record is the usage record emitted once per logical request. Its JSON
// shape is consumed by downstream cost-analysis tooling and must stay
// stable.
type Record struct {
	Timestamp  string           `json:"timestamp"`
	Module     string           `json:"module"`
	Operations []string         `json:"operations"`
	UserID     string           `json:"user_id"`
	RCU        float64          `json:"rcu"`
	WCU        float64          `json:"wcu"`
	Table      string           `json:"table"`
	Status     string           `json:"status"`
	LatencyMS  float64          `json:"latency_ms"`
	Region     string           `json:"region"`
	RequestID  string           `json:"request_id"`
	TableUsage Usage            `json:"table_usage"`
	GSIUsage   map[string]Usage `json:"gsi_usage,omitempty"`
	Error      string           `json:"error,omitempty"`
}
