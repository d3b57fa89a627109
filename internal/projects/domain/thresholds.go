package domain

// Thresholds that turn an over- or under-run into a warning or a critical
// condition. Business behavior depends on these exact values.
const (
	// TimeWarningPctOver flags logged hours more than 10% above plan.
	TimeWarningPctOver = 0.10
	// TimeCriticalPctOver flags logged hours more than 25% above plan.
	TimeCriticalPctOver = 0.25

	// CostWarningPctOver flags costs more than 5% above target revenue.
	CostWarningPctOver = 0.05
	// CostCriticalPctOver flags costs more than 15% above target revenue.
	CostCriticalPctOver = 0.15

	// DeadlineWarningDays flags an end date at most 7 days away.
	DeadlineWarningDays = 7
	// DeadlineCriticalDays flags an end date at most 3 days away.
	DeadlineCriticalDays = 3
)
