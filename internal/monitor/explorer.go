package monitor

import (
	"context"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/costexplorer"

	"costwatch/internal/logging"
)

const (
	costMetric     = "BlendedCost"
	forecastMetric = costexplorer.MetricBlendedCost
	dateLayout     = "2006-01-02"
)

// serviceFilter restricts a query to the tracked services
func (m *Monitor) serviceFilter() *costexplorer.Expression {
	return &costexplorer.Expression{
		Dimensions: &costexplorer.DimensionValues{
			Key:    aws.String(costexplorer.DimensionService),
			Values: aws.StringSlice(m.cfg.TrackedServices),
		},
	}
}

// CurrentPeriodCosts queries the current calendar month grouped by service.
// On failure it logs and returns an empty breakdown; the caller proceeds
// with partial data.
func (m *Monitor) CurrentPeriodCosts(ctx context.Context) []ServiceCost {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &costexplorer.DateInterval{
			Start: aws.String(m.periodStart().Format(dateLayout)),
			End:   aws.String(m.now().Format(dateLayout)),
		},
		Granularity: aws.String(costexplorer.GranularityMonthly),
		Metrics:     aws.StringSlice([]string{costMetric}),
		GroupBy: []*costexplorer.GroupDefinition{
			{
				Type: aws.String(costexplorer.GroupDefinitionTypeDimension),
				Key:  aws.String(costexplorer.DimensionService),
			},
		},
		Filter: m.serviceFilter(),
	}

	output, err := m.clients.CostExplorer.GetCostAndUsageWithContext(ctx, input)
	if err != nil {
		logging.FetchFailed("current-period-costs", err)
		return nil
	}

	costs := make(map[string]float64)
	for _, result := range output.ResultsByTime {
		for _, group := range result.Groups {
			if len(group.Keys) == 0 {
				continue
			}
			metric, ok := group.Metrics[costMetric]
			if !ok || metric.Amount == nil {
				continue
			}
			amount, err := strconv.ParseFloat(aws.StringValue(metric.Amount), 64)
			if err != nil {
				logging.Warn("Skipping unparsable cost amount", map[string]interface{}{
					"service": aws.StringValue(group.Keys[0]),
					"amount":  aws.StringValue(metric.Amount),
				})
				continue
			}
			costs[aws.StringValue(group.Keys[0])] += amount
		}
	}

	breakdown := make([]ServiceCost, 0, len(costs))
	for service, cost := range costs {
		breakdown = append(breakdown, ServiceCost{Service: service, Cost: cost})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Cost > breakdown[j].Cost
	})

	return breakdown
}

// DailyCosts queries daily granularity from the 1st of the month through
// today. Failure degrades to an empty trend.
func (m *Monitor) DailyCosts(ctx context.Context) []DailyCost {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &costexplorer.DateInterval{
			Start: aws.String(m.periodStart().Format(dateLayout)),
			End:   aws.String(m.now().Format(dateLayout)),
		},
		Granularity: aws.String(costexplorer.GranularityDaily),
		Metrics:     aws.StringSlice([]string{costMetric}),
		Filter:      m.serviceFilter(),
	}

	output, err := m.clients.CostExplorer.GetCostAndUsageWithContext(ctx, input)
	if err != nil {
		logging.FetchFailed("daily-costs", err)
		return nil
	}

	var trend []DailyCost
	for _, result := range output.ResultsByTime {
		if result.TimePeriod == nil {
			continue
		}
		metric, ok := result.Total[costMetric]
		if !ok || metric.Amount == nil {
			continue
		}
		amount, err := strconv.ParseFloat(aws.StringValue(metric.Amount), 64)
		if err != nil {
			continue
		}
		trend = append(trend, DailyCost{
			Date: aws.StringValue(result.TimePeriod.Start),
			Cost: amount,
		})
	}

	return trend
}

// ForecastNextPeriod queries the cost forecast for the next calendar month.
// Failure degrades to no forecast.
func (m *Monitor) ForecastNextPeriod(ctx context.Context) *Forecast {
	start, end := m.nextPeriod()

	input := &costexplorer.GetCostForecastInput{
		TimePeriod: &costexplorer.DateInterval{
			Start: aws.String(start.Format(dateLayout)),
			End:   aws.String(end.Format(dateLayout)),
		},
		Metric:                  aws.String(forecastMetric),
		Granularity:             aws.String(costexplorer.GranularityMonthly),
		PredictionIntervalLevel: aws.Int64(80),
	}

	output, err := m.clients.CostExplorer.GetCostForecastWithContext(ctx, input)
	if err != nil {
		logging.FetchFailed("cost-forecast", err)
		return nil
	}

	if len(output.ForecastResultsByTime) == 0 {
		return nil
	}

	first := output.ForecastResultsByTime[0]
	if first.MeanValue == nil {
		return nil
	}
	estimate, err := strconv.ParseFloat(aws.StringValue(first.MeanValue), 64)
	if err != nil {
		logging.Warn("Skipping unparsable forecast value", map[string]interface{}{
			"mean_value": aws.StringValue(first.MeanValue),
		})
		return nil
	}

	return &Forecast{
		Estimate:   estimate,
		Confidence: "80% prediction interval",
	}
}
