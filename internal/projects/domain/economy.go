package domain

// EconomySummary is the profitability view of a project.
type EconomySummary struct {
	TargetRevenue  *float64
	ActualCosts    float64
	GrossProfit    *float64
	GrossMarginPct *int
}

// SummarizeEconomy derives gross profit and margin from the target revenue.
// Profit and margin stay nil unless the target revenue is positive.
func SummarizeEconomy(t Targets, a Aggregates) EconomySummary {
	summary := EconomySummary{ActualCosts: a.ActualCosts}
	if t.TargetRevenue == nil {
		return summary
	}

	revenue := *t.TargetRevenue
	summary.TargetRevenue = &revenue
	if revenue <= 0 {
		return summary
	}

	profit := revenue - a.ActualCosts
	margin := roundHalfUp(profit / revenue * 100)
	summary.GrossProfit = &profit
	summary.GrossMarginPct = &margin
	return summary
}
