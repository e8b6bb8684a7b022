package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/budgets"
	"github.com/aws/aws-sdk-go/service/budgets/budgetsiface"
	"github.com/aws/aws-sdk-go/service/costexplorer"
	"github.com/aws/aws-sdk-go/service/costexplorer/costexploreriface"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedNow keeps billing-period math deterministic in tests
var fixedNow = time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

type fakeCostExplorer struct {
	costexploreriface.CostExplorerAPI

	usageOutput    *costexplorer.GetCostAndUsageOutput
	usageErr       error
	forecastOutput *costexplorer.GetCostForecastOutput
	forecastErr    error

	usageCalls int
}

func (f *fakeCostExplorer) GetCostAndUsageWithContext(ctx aws.Context, input *costexplorer.GetCostAndUsageInput, opts ...request.Option) (*costexplorer.GetCostAndUsageOutput, error) {
	f.usageCalls++
	if f.usageErr != nil {
		return nil, f.usageErr
	}
	if f.usageOutput != nil {
		return f.usageOutput, nil
	}
	return &costexplorer.GetCostAndUsageOutput{}, nil
}

func (f *fakeCostExplorer) GetCostForecastWithContext(ctx aws.Context, input *costexplorer.GetCostForecastInput, opts ...request.Option) (*costexplorer.GetCostForecastOutput, error) {
	if f.forecastErr != nil {
		return nil, f.forecastErr
	}
	if f.forecastOutput != nil {
		return f.forecastOutput, nil
	}
	return &costexplorer.GetCostForecastOutput{}, nil
}

type fakeBudgets struct {
	budgetsiface.BudgetsAPI

	output *budgets.DescribeBudgetsOutput
	err    error
}

func (f *fakeBudgets) DescribeBudgetsWithContext(ctx aws.Context, input *budgets.DescribeBudgetsInput, opts ...request.Option) (*budgets.DescribeBudgetsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.output != nil {
		return f.output, nil
	}
	return &budgets.DescribeBudgetsOutput{}, nil
}

type fakeSNS struct {
	snsiface.SNSAPI

	publishErr   error
	publishCalls int
	lastSubject  string
	lastMessage  string
	lastTopicARN string
}

func (f *fakeSNS) PublishWithContext(ctx aws.Context, input *sns.PublishInput, opts ...request.Option) (*sns.PublishOutput, error) {
	f.publishCalls++
	f.lastSubject = aws.StringValue(input.Subject)
	f.lastMessage = aws.StringValue(input.Message)
	f.lastTopicARN = aws.StringValue(input.TopicArn)
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	return &sns.PublishOutput{}, nil
}

// usageOutputFor builds a grouped-by-service response for a single period
func usageOutputFor(costs map[string]string) *costexplorer.GetCostAndUsageOutput {
	var groups []*costexplorer.Group
	for service, amount := range costs {
		groups = append(groups, &costexplorer.Group{
			Keys: aws.StringSlice([]string{service}),
			Metrics: map[string]*costexplorer.MetricValue{
				costMetric: {Amount: aws.String(amount), Unit: aws.String("USD")},
			},
		})
	}
	return &costexplorer.GetCostAndUsageOutput{
		ResultsByTime: []*costexplorer.ResultByTime{
			{
				TimePeriod: &costexplorer.DateInterval{
					Start: aws.String("2026-08-01"),
					End:   aws.String("2026-08-15"),
				},
				Groups: groups,
			},
		},
	}
}

func forecastOutputFor(mean string) *costexplorer.GetCostForecastOutput {
	return &costexplorer.GetCostForecastOutput{
		ForecastResultsByTime: []*costexplorer.ForecastResult{
			{MeanValue: aws.String(mean)},
		},
	}
}

func budgetsOutputFor(name, amount string) *budgets.DescribeBudgetsOutput {
	return &budgets.DescribeBudgetsOutput{
		Budgets: []*budgets.Budget{
			{
				BudgetName: aws.String(name),
				BudgetLimit: &budgets.Spend{
					Amount: aws.String(amount),
					Unit:   aws.String("USD"),
				},
			},
		},
	}
}

func newTestMonitor(cfg Config, clients Clients) *Monitor {
	m := New(cfg, clients)
	m.now = func() time.Time { return fixedNow }
	return m
}

func defaultTestConfig() Config {
	return Config{
		AppName:        "marketing-site",
		BudgetLimit:    10.0,
		AlertThreshold: 0.8,
		MaxWorkers:     4,
	}
}

func TestBuildReport(t *testing.T) {
	ce := &fakeCostExplorer{
		usageOutput:    usageOutputFor(map[string]string{"AWS Amplify": "3.5", "Amazon Route 53": "0.3"}),
		forecastOutput: forecastOutputFor("5.25"),
	}
	bud := &fakeBudgets{output: budgetsOutputFor("marketing-site", "10.0")}

	m := newTestMonitor(defaultTestConfig(), Clients{CostExplorer: ce, Budgets: bud})

	rep := m.BuildReport(context.Background(), "123456789012")
	require.NotNil(t, rep)

	assert.Equal(t, "2026-08", rep.BillingPeriod)
	assert.InDelta(t, 3.8, rep.Summary.TotalCost, 1e-6)
	assert.Equal(t, 10.0, rep.Summary.BudgetLimit)
	assert.Equal(t, "38.0%", rep.Summary.PercentUsed)
	assert.Equal(t, StatusOK, rep.Summary.Status)

	require.Len(t, rep.ServiceBreakdown, 2)
	// Sorted by cost, descending
	assert.Equal(t, "AWS Amplify", rep.ServiceBreakdown[0].Service)

	require.NotNil(t, rep.Forecast)
	assert.InDelta(t, 5.25, rep.Forecast.Estimate, 1e-6)
}

func TestBuildReportTotalMatchesBreakdown(t *testing.T) {
	ce := &fakeCostExplorer{
		usageOutput: usageOutputFor(map[string]string{
			"AWS Amplify":       "1.11",
			"Amazon CloudFront": "0.47",
			"Amazon Route 53":   "0.50",
		}),
	}

	m := newTestMonitor(defaultTestConfig(), Clients{CostExplorer: ce, Budgets: &fakeBudgets{}})
	rep := m.BuildReport(context.Background(), "123456789012")

	sum := 0.0
	percentSum := 0.0
	for _, sc := range rep.ServiceBreakdown {
		sum += sc.Cost
		percentSum += sc.Percentage
	}
	assert.InDelta(t, rep.Summary.TotalCost, sum, 1e-6)
	assert.InDelta(t, 100.0, percentSum, 1e-6)
}

func TestBuildReportWarningStatus(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"under threshold", "5.0", StatusOK},
		{"at threshold", "8.0", StatusOK}, // strict comparison, 8.0 is not over 10*0.8
		{"over threshold", "8.5", StatusWarning},
		{"over limit", "12.0", StatusWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := &fakeCostExplorer{usageOutput: usageOutputFor(map[string]string{"AWS Amplify": tt.amount})}
			m := newTestMonitor(defaultTestConfig(), Clients{CostExplorer: ce, Budgets: &fakeBudgets{}})

			rep := m.BuildReport(context.Background(), "123456789012")
			assert.Equal(t, tt.want, rep.Summary.Status)
		})
	}
}

func TestBuildReportNoBudgetRecord(t *testing.T) {
	ce := &fakeCostExplorer{usageOutput: usageOutputFor(map[string]string{"AWS Amplify": "9.0"})}
	m := newTestMonitor(defaultTestConfig(), Clients{CostExplorer: ce, Budgets: &fakeBudgets{}})

	rep := m.BuildReport(context.Background(), "123456789012")

	assert.Equal(t, "N/A", rep.Summary.PercentUsed)
	// The status check uses the configured limit, not the budget record
	assert.Equal(t, StatusWarning, rep.Summary.Status)
}

func TestBuildReportForecastFailureDoesNotAffectBreakdown(t *testing.T) {
	ce := &fakeCostExplorer{
		usageOutput: usageOutputFor(map[string]string{"AWS Amplify": "3.5", "Amazon Route 53": "0.3"}),
		forecastErr: assert.AnError,
	}
	m := newTestMonitor(defaultTestConfig(), Clients{CostExplorer: ce, Budgets: &fakeBudgets{}})

	rep := m.BuildReport(context.Background(), "123456789012")

	assert.Nil(t, rep.Forecast)
	assert.Len(t, rep.ServiceBreakdown, 2)
	assert.InDelta(t, 3.8, rep.Summary.TotalCost, 1e-6)
}

func TestBuildReportAllFetchesFail(t *testing.T) {
	ce := &fakeCostExplorer{usageErr: assert.AnError, forecastErr: assert.AnError}
	bud := &fakeBudgets{err: assert.AnError}
	m := newTestMonitor(defaultTestConfig(), Clients{CostExplorer: ce, Budgets: bud})

	rep := m.BuildReport(context.Background(), "123456789012")
	require.NotNil(t, rep)

	assert.Empty(t, rep.ServiceBreakdown)
	assert.Empty(t, rep.DailyTrend)
	assert.Nil(t, rep.Forecast)
	assert.Equal(t, 0.0, rep.Summary.TotalCost)
	assert.Equal(t, "N/A", rep.Summary.PercentUsed)
	assert.Equal(t, StatusOK, rep.Summary.Status)
}

func TestBillingPeriod(t *testing.T) {
	m := newTestMonitor(defaultTestConfig(), Clients{})
	assert.Equal(t, "2026-08", m.BillingPeriod())
}

func TestNextPeriod(t *testing.T) {
	m := newTestMonitor(defaultTestConfig(), Clients{})
	start, end := m.nextPeriod()
	assert.Equal(t, "2026-09-01", start.Format("2006-01-02"))
	assert.Equal(t, "2026-10-01", end.Format("2006-01-02"))
}
