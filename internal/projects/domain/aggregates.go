package domain

import "math"

// Aggregates holds the observed values summed from raw time, material and
// invoice records. All fields always carry a value; sources that could not be
// read contribute their zero value.
type Aggregates struct {
	ActualHours float64
	ActualCosts float64
	HasInvoice  bool
}

// NewAggregates builds aggregates with hours rounded to one decimal and costs
// rounded to two decimals. Negative sums are clamped to zero.
func NewAggregates(actualHours, actualCosts float64, hasInvoice bool) Aggregates {
	return Aggregates{
		ActualHours: RoundHours(actualHours),
		ActualCosts: RoundCosts(actualCosts),
		HasInvoice:  hasInvoice,
	}
}

// RoundHours rounds an hour sum to one decimal place.
func RoundHours(hours float64) float64 {
	if hours <= 0 || math.IsNaN(hours) {
		return 0
	}
	return math.Round(hours*10) / 10
}

// RoundCosts rounds a cost sum to two decimal places.
func RoundCosts(costs float64) float64 {
	if costs <= 0 || math.IsNaN(costs) {
		return 0
	}
	return math.Round(costs*100) / 100
}
