package domain

// ServiceHealth describes the health of a single dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latency_ms"`
	LastChecked string `json:"last_checked"`
}

// HealthStatus is the aggregate /healthz payload.
type HealthStatus struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
}

// OpsMetrics is the operational snapshot served by GET /v1/metrics/ops.
type OpsMetrics struct {
	TotalRequests    int64   `json:"total_requests"`
	ErrorRate        float64 `json:"error_rate"`
	CacheHitRate     float64 `json:"cache_hit_rate"`
	IntentsCommitted int64   `json:"intents_committed"`
	IntentsReverted  int64   `json:"intents_reverted"`
	Period           string  `json:"period"`
}
