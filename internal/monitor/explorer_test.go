package monitor

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/costexplorer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dailyOutputFor builds a daily-granularity response with one result per day
func dailyOutputFor(days int) *costexplorer.GetCostAndUsageOutput {
	var results []*costexplorer.ResultByTime
	for i := 0; i < days; i++ {
		date := fixedNow.AddDate(0, 0, i-days)
		results = append(results, &costexplorer.ResultByTime{
			TimePeriod: &costexplorer.DateInterval{
				Start: aws.String(date.Format("2006-01-02")),
				End:   aws.String(date.AddDate(0, 0, 1).Format("2006-01-02")),
			},
			Total: map[string]*costexplorer.MetricValue{
				costMetric: {Amount: aws.String(fmt.Sprintf("0.%02d", i+1)), Unit: aws.String("USD")},
			},
		})
	}
	return &costexplorer.GetCostAndUsageOutput{ResultsByTime: results}
}

func TestCurrentPeriodCosts(t *testing.T) {
	ce := &fakeCostExplorer{usageOutput: usageOutputFor(map[string]string{
		"AWS Amplify":       "2.5",
		"Amazon CloudFront": "0.9",
	})}
	m := newTestMonitor(defaultTestConfig(), Clients{CostExplorer: ce})

	breakdown := m.CurrentPeriodCosts(context.Background())

	require.Len(t, breakdown, 2)
	assert.Equal(t, "AWS Amplify", breakdown[0].Service)
	assert.InDelta(t, 2.5, breakdown[0].Cost, 1e-6)
	assert.Equal(t, "Amazon CloudFront", breakdown[1].Service)
}

func TestCurrentPeriodCostsFailureYieldsEmpty(t *testing.T) {
	ce := &fakeCostExplorer{usageErr: assert.AnError}
	m := newTestMonitor(defaultTestConfig(), Clients{CostExplorer: ce})

	assert.Empty(t, m.CurrentPeriodCosts(context.Background()))
}

func TestCurrentPeriodCostsSkipsUnparsableAmounts(t *testing.T) {
	ce := &fakeCostExplorer{usageOutput: usageOutputFor(map[string]string{
		"AWS Amplify":     "1.0",
		"Amazon Route 53": "garbage",
	})}
	m := newTestMonitor(defaultTestConfig(), Clients{CostExplorer: ce})

	breakdown := m.CurrentPeriodCosts(context.Background())
	require.Len(t, breakdown, 1)
	assert.Equal(t, "AWS Amplify", breakdown[0].Service)
}

func TestDailyCosts(t *testing.T) {
	ce := &fakeCostExplorer{usageOutput: dailyOutputFor(10)}
	m := newTestMonitor(defaultTestConfig(), Clients{CostExplorer: ce})

	trend := m.DailyCosts(context.Background())

	require.Len(t, trend, 10)
	assert.Equal(t, "2026-08-05", trend[0].Date)
	assert.InDelta(t, 0.01, trend[0].Cost, 1e-6)
}

func TestDailyTrendTruncatedToLastWeek(t *testing.T) {
	ce := &fakeCostExplorer{usageOutput: dailyOutputFor(10)}
	m := newTestMonitor(defaultTestConfig(), Clients{CostExplorer: ce, Budgets: &fakeBudgets{}})

	rep := m.BuildReport(context.Background(), "123456789012")

	// BuildReport keeps only the trailing 7 entries
	require.Len(t, rep.DailyTrend, 7)
	assert.Equal(t, "2026-08-08", rep.DailyTrend[0].Date)
	assert.Equal(t, "2026-08-14", rep.DailyTrend[6].Date)
}

func TestForecastNextPeriod(t *testing.T) {
	ce := &fakeCostExplorer{forecastOutput: forecastOutputFor("7.42")}
	m := newTestMonitor(defaultTestConfig(), Clients{CostExplorer: ce})

	f := m.ForecastNextPeriod(context.Background())

	require.NotNil(t, f)
	assert.InDelta(t, 7.42, f.Estimate, 1e-6)
	assert.NotEmpty(t, f.Confidence)
}

func TestForecastFailureYieldsNil(t *testing.T) {
	ce := &fakeCostExplorer{forecastErr: assert.AnError}
	m := newTestMonitor(defaultTestConfig(), Clients{CostExplorer: ce})

	assert.Nil(t, m.ForecastNextPeriod(context.Background()))
}

func TestForecastEmptyResultsYieldsNil(t *testing.T) {
	ce := &fakeCostExplorer{forecastOutput: &costexplorer.GetCostForecastOutput{}}
	m := newTestMonitor(defaultTestConfig(), Clients{CostExplorer: ce})

	assert.Nil(t, m.ForecastNextPeriod(context.Background()))
}

func TestServiceFilterCoversTrackedServices(t *testing.T) {
	m := newTestMonitor(defaultTestConfig(), Clients{})

	filter := m.serviceFilter()
	require.NotNil(t, filter.Dimensions)
	assert.Equal(t, "SERVICE", aws.StringValue(filter.Dimensions.Key))
	assert.Len(t, filter.Dimensions.Values, len(DefaultTrackedServices))
}
