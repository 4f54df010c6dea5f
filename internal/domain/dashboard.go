package domain

// PipelineTotals summarizes the board: the raw value of every ticket,
// the open pipeline and the month's wins.
type PipelineTotals struct {
	TotalLeads    int     `json:"total_leads"`
	ActiveLeads   int     `json:"active_leads"`
	TotalValue    float64 `json:"total_value"`
	OpenValue     float64 `json:"open_value"`
	WeightedValue float64 `json:"weighted_value"`
	WonValue      float64 `json:"won_value"`
	WonCount      int     `json:"won_count"`
}

// BusinessHealth is the projection card: current recurring revenue,
// the pipeline's expected contribution and the churn already confirmed
// for the month. Projection may be negative when churn dominates.
type BusinessHealth struct {
	MRR                float64 `json:"mrr"`
	ExpectedNewRevenue float64 `json:"expected_new_revenue"`
	CurrentChurn       float64 `json:"current_churn"`
	Projection         float64 `json:"projection"`
	MonthlyGoal        float64 `json:"monthly_goal"`
	ActiveAccounts     int     `json:"active_accounts"`
	AtRiskAccounts     int     `json:"at_risk_accounts"`
}

// OriginStat aggregates lead performance per acquisition channel.
type OriginStat struct {
	Origin        string `json:"origin"`
	Leads         int    `json:"leads"`
	Won           int    `json:"won"`
	ConversionPct int    `json:"conversion_pct"`
}

// StageConversionStat is one step of the funnel: how many leads sit in
// a stage and what share of them reach the next one.
type StageConversionStat struct {
	StageID    string `json:"stage_id"`
	Title      string `json:"title"`
	Count      int    `json:"count"`
	ToNextPct  int    `json:"to_next_pct"`
	FinalStage bool   `json:"final_stage"`
}

// OwnerStat aggregates performance per salesperson.
type OwnerStat struct {
	Owner         string  `json:"owner"`
	Leads         int     `json:"leads"`
	Won           int     `json:"won"`
	WonValue      float64 `json:"won_value"`
	ConversionPct int     `json:"conversion_pct"`
}

// FunnelOverview is the analytics payload for the funnel page.
type FunnelOverview struct {
	Totals       PipelineTotals        `json:"totals"`
	Origins      []OriginStat          `json:"origins"`
	Stages       []StageConversionStat `json:"stages"`
	AvgCycleDays float64               `json:"avg_cycle_days"`
	AvgWonTicket float64               `json:"avg_won_ticket"`
}
