package monitor

import "time"

// Severity classifies how far current spend is through the budget
type Severity string

const (
	SeverityOK       Severity = "OK"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Status values for a report summary
const (
	StatusOK      = "OK"
	StatusWarning = "WARNING"
)

// ServiceCost is the cost of a single tracked service in the billing period
type ServiceCost struct {
	Service    string  `json:"service"`
	Cost       float64 `json:"cost"`
	Percentage float64 `json:"percentage"`
}

// DailyCost is the aggregated cost of the tracked services for one day
type DailyCost struct {
	Date string  `json:"date"`
	Cost float64 `json:"cost"`
}

// Forecast is the estimated cost for the next billing period
type Forecast struct {
	Estimate   float64 `json:"estimate"`
	Confidence string  `json:"confidence"`
}

// Summary condenses the billing period into the numbers worth alerting on.
// PercentUsed is a rendered string so it can carry "N/A" when no budget
// record exists for the account.
type Summary struct {
	TotalCost   float64 `json:"total_cost"`
	BudgetLimit float64 `json:"budget_limit"`
	PercentUsed string  `json:"percent_used"`
	Status      string  `json:"status"`
}

// CostReport is the full report for one billing period. It is built fresh
// on every invocation and never mutated after construction.
type CostReport struct {
	Timestamp        time.Time     `json:"timestamp"`
	BillingPeriod    string        `json:"billing_period"`
	Summary          Summary       `json:"summary"`
	ServiceBreakdown []ServiceCost `json:"service_breakdown"`
	DailyTrend       []DailyCost   `json:"daily_trend"`
	Forecast         *Forecast     `json:"forecast,omitempty"`
}

// Budget is the AWS Budgets record for the account. A missing record is a
// valid outcome, not an error.
type Budget struct {
	Name  string  `json:"name"`
	Limit float64 `json:"limit"`
	Found bool    `json:"found"`
}

// Alert is an ephemeral notification payload; it is dispatched immediately
// and never persisted
type Alert struct {
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Recommendation is a canned cost-saving suggestion for one tracked service
type Recommendation struct {
	Service        string  `json:"service"`
	Cost           float64 `json:"cost"`
	Recommendation string  `json:"recommendation"`
	Impact         string  `json:"impact"`
	Effort         string  `json:"effort"`
}

// OptimizationReport holds per-service recommendations plus the static
// best-practice checklist
type OptimizationReport struct {
	Recommendations []Recommendation `json:"recommendations"`
	BestPractices   []string         `json:"best_practices"`
}
