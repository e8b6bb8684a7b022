package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/budgets"
	"github.com/aws/aws-sdk-go/service/budgets/budgetsiface"
	"github.com/aws/aws-sdk-go/service/costexplorer"
	"github.com/aws/aws-sdk-go/service/costexplorer/costexploreriface"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/aws/aws-sdk-go/service/sts/stsiface"

	awsinternal "costwatch/internal/aws"
	"costwatch/internal/worker"
)

// DefaultTrackedServices are the Cost Explorer service names aggregated by
// default: the footprint of a static site (hosting, CDN, DNS, certificates,
// monitoring, object storage).
var DefaultTrackedServices = []string{
	"AWS Amplify",
	"Amazon CloudFront",
	"Amazon Route 53",
	"AWS Certificate Manager",
	"AmazonCloudWatch",
	"Amazon Simple Storage Service",
}

// GenericBudgetName is matched when no budget carries the application name
const GenericBudgetName = "monthly-budget"

// Config is the monitor's configuration, snapshotted once at startup and
// passed in; the monitor never reads shared mutable state.
type Config struct {
	AppName         string
	BudgetLimit     float64
	AlertThreshold  float64
	SNSTopicARN     string
	TrackedServices []string
	MaxWorkers      int
}

// Clients bundles the AWS service clients the monitor depends on. The
// interface types let tests substitute fakes.
type Clients struct {
	CostExplorer costexploreriface.CostExplorerAPI
	Budgets      budgetsiface.BudgetsAPI
	SNS          snsiface.SNSAPI
	STS          stsiface.STSAPI
}

// NewClients creates the AWS service clients from an existing session
func NewClients(sess *session.Session) Clients {
	return Clients{
		CostExplorer: costexplorer.New(sess),
		Budgets:      budgets.New(sess),
		SNS:          sns.New(sess),
		STS:          sts.New(sess),
	}
}

// Monitor fetches cost data for the tracked services and derives reports,
// alerts and optimization recommendations from it
type Monitor struct {
	cfg     Config
	clients Clients
	now     func() time.Time
}

// New creates a Monitor from a configuration snapshot and AWS clients
func New(cfg Config, clients Clients) *Monitor {
	if len(cfg.TrackedServices) == 0 {
		cfg.TrackedServices = DefaultTrackedServices
	}
	if cfg.AlertThreshold <= 0 {
		cfg.AlertThreshold = 0.8
	}
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = 4
	}
	return &Monitor{
		cfg:     cfg,
		clients: clients,
		now:     time.Now,
	}
}

// ResolveAccountID returns the caller's account ID. It runs once before any
// budget lookup; the ID travels as a plain value from there.
func (m *Monitor) ResolveAccountID(ctx context.Context) (string, error) {
	return awsinternal.ResolveAccountIDWithClient(m.clients.STS)
}

// BillingPeriod returns the current billing period label (YYYY-MM)
func (m *Monitor) BillingPeriod() string {
	return m.now().Format("2006-01")
}

// periodStart returns the first day of the current calendar month
func (m *Monitor) periodStart() time.Time {
	now := m.now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// nextPeriod returns the first days of the next and the following month
func (m *Monitor) nextPeriod() (time.Time, time.Time) {
	start := m.periodStart().AddDate(0, 1, 0)
	return start, start.AddDate(0, 1, 0)
}

// BuildReport issues the four independent fetches concurrently, waits for
// all of them, and composes the CostReport. A failed fetch degrades to
// empty data for that fetch only; the report is always built.
func (m *Monitor) BuildReport(ctx context.Context, accountID string) *CostReport {
	var (
		breakdown []ServiceCost
		daily     []DailyCost
		forecast  *Forecast
		budget    Budget
	)

	pool := worker.NewPool(m.cfg.MaxWorkers)
	pool.Start()
	defer pool.Stop()

	pool.ExecuteTasks([]worker.Task{
		func(ctx context.Context) error {
			breakdown = m.CurrentPeriodCosts(ctx)
			return nil
		},
		func(ctx context.Context) error {
			daily = m.DailyCosts(ctx)
			return nil
		},
		func(ctx context.Context) error {
			forecast = m.ForecastNextPeriod(ctx)
			return nil
		},
		func(ctx context.Context) error {
			budget = m.LookupBudget(ctx, accountID)
			return nil
		},
	})

	total := 0.0
	for _, sc := range breakdown {
		total += sc.Cost
	}

	// Percentages are derived from the final total, so they sum to ~100
	for i := range breakdown {
		if total > 0 {
			breakdown[i].Percentage = breakdown[i].Cost / total * 100
		}
	}

	percentUsed := "N/A"
	if budget.Found && m.cfg.BudgetLimit > 0 {
		percentUsed = fmt.Sprintf("%.1f%%", total/m.cfg.BudgetLimit*100)
	}

	status := StatusOK
	if total > m.cfg.BudgetLimit*m.cfg.AlertThreshold {
		status = StatusWarning
	}

	// Keep only the trailing week of the daily trend
	if len(daily) > 7 {
		daily = daily[len(daily)-7:]
	}

	return &CostReport{
		Timestamp:     m.now(),
		BillingPeriod: m.BillingPeriod(),
		Summary: Summary{
			TotalCost:   total,
			BudgetLimit: m.cfg.BudgetLimit,
			PercentUsed: percentUsed,
			Status:      status,
		},
		ServiceBreakdown: breakdown,
		DailyTrend:       daily,
		Forecast:         forecast,
	}
}

// OptimizationReport fetches the current breakdown and derives the
// per-service recommendations from it
func (m *Monitor) OptimizationReport(ctx context.Context) *OptimizationReport {
	return BuildOptimizationReport(m.CurrentPeriodCosts(ctx))
}
