package insights

// MonthlyProjection estimates next month's recurring revenue:
// current MRR plus the expected contribution of the open pipeline,
// minus the churn already confirmed for the month. The result is not
// clamped; a negative projection is a real signal, not an error.
func MonthlyProjection(mrr, expectedNewRevenue, currentChurn float64) float64 {
	return mrr + expectedNewRevenue - currentChurn
}
