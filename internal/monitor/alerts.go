package monitor

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sns"

	"costwatch/internal/logging"
)

// Classify maps current spend to a severity against the configured limit:
// at or past the limit is CRITICAL, past the alert threshold is WARNING.
func Classify(total, limit, threshold float64) Severity {
	if limit <= 0 {
		return SeverityOK
	}
	percent := total / limit * 100
	switch {
	case percent >= 100:
		return SeverityCritical
	case percent >= threshold*100:
		return SeverityWarning
	default:
		return SeverityOK
	}
}

// CheckAlerts recomputes the current total independently of any report,
// classifies it against the configured budget limit, and dispatches at
// most one notification. OK dispatches nothing.
func (m *Monitor) CheckAlerts(ctx context.Context) Alert {
	total := 0.0
	for _, sc := range m.CurrentPeriodCosts(ctx) {
		total += sc.Cost
	}

	severity := Classify(total, m.cfg.BudgetLimit, m.cfg.AlertThreshold)
	alert := Alert{
		Severity:  severity,
		Timestamp: m.now(),
	}

	percent := 0.0
	if m.cfg.BudgetLimit > 0 {
		percent = total / m.cfg.BudgetLimit * 100
	}

	switch severity {
	case SeverityCritical:
		alert.Message = fmt.Sprintf("Monthly spend $%.2f has exceeded the budget of $%.2f (%.1f%%)",
			total, m.cfg.BudgetLimit, percent)
	case SeverityWarning:
		alert.Message = fmt.Sprintf("Monthly spend $%.2f is at %.1f%% of the $%.2f budget",
			total, percent, m.cfg.BudgetLimit)
	default:
		logging.Debug("Spend within budget, no alert", map[string]interface{}{
			"total_cost":   total,
			"budget_limit": m.cfg.BudgetLimit,
		})
		return alert
	}

	m.Dispatch(ctx, alert)
	return alert
}

// Dispatch publishes an alert to the configured SNS topic. With no topic
// configured it is a logged no-op; a publish failure is logged and never
// propagated, so alerting cannot crash the monitoring run.
func (m *Monitor) Dispatch(ctx context.Context, alert Alert) {
	if m.cfg.SNSTopicARN == "" {
		logging.Info("No SNS topic configured, skipping alert dispatch", map[string]interface{}{
			"severity": string(alert.Severity),
		})
		return
	}

	subject := fmt.Sprintf("[%s] %s cost alert", alert.Severity, m.cfg.AppName)
	message := fmt.Sprintf("%s\n\nApplication: %s\nTime: %s",
		alert.Message, m.cfg.AppName, alert.Timestamp.Format("2006-01-02 15:04:05 MST"))

	_, err := m.clients.SNS.PublishWithContext(ctx, &sns.PublishInput{
		TopicArn: aws.String(m.cfg.SNSTopicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		logging.Error("Failed to publish alert", err, map[string]interface{}{
			"topic":    m.cfg.SNSTopicARN,
			"severity": string(alert.Severity),
		})
		return
	}

	logging.AlertDispatched(string(alert.Severity), m.cfg.SNSTopicARN)
}
