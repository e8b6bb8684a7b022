package monitor

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/budgets"

	"costwatch/internal/logging"
)

// LookupBudget finds the account's budget record named after the
// application, or the generic "monthly-budget" label. Not-found and query
// failure both yield Found=false; only the latter is logged.
func (m *Monitor) LookupBudget(ctx context.Context, accountID string) Budget {
	if accountID == "" {
		logging.Debug("No account ID available, skipping budget lookup", nil)
		return Budget{}
	}

	input := &budgets.DescribeBudgetsInput{
		AccountId:  aws.String(accountID),
		MaxResults: aws.Int64(100),
	}

	output, err := m.clients.Budgets.DescribeBudgetsWithContext(ctx, input)
	if err != nil {
		logging.FetchFailed("budget-lookup", err)
		return Budget{}
	}

	for _, b := range output.Budgets {
		name := aws.StringValue(b.BudgetName)
		if name != m.cfg.AppName && name != GenericBudgetName {
			continue
		}

		limit := 0.0
		if b.BudgetLimit != nil && b.BudgetLimit.Amount != nil {
			parsed, err := strconv.ParseFloat(aws.StringValue(b.BudgetLimit.Amount), 64)
			if err != nil {
				logging.Warn("Skipping unparsable budget limit", map[string]interface{}{
					"budget": name,
					"amount": aws.StringValue(b.BudgetLimit.Amount),
				})
				continue
			}
			limit = parsed
		}

		return Budget{Name: name, Limit: limit, Found: true}
	}

	logging.Debug("No matching budget record found", map[string]interface{}{
		"app_name": m.cfg.AppName,
	})
	return Budget{}
}
