package monitor

// optimizationRule pairs a monthly cost threshold with the canned
// recommendation emitted when a service exceeds it
type optimizationRule struct {
	Threshold      float64
	Recommendation string
	Impact         string
	Effort         string
}

// optimizationRules covers every tracked service. Thresholds are monthly
// USD figures sized for a small static site.
var optimizationRules = map[string]optimizationRule{
	"AWS Amplify": {
		Threshold:      2.0,
		Recommendation: "Review build minutes and enable build caching; consider a lower hosting tier",
		Impact:         "Medium",
		Effort:         "Low",
	},
	"Amazon CloudFront": {
		Threshold:      1.0,
		Recommendation: "Raise cache TTLs and enable compression to cut origin transfer",
		Impact:         "Medium",
		Effort:         "Medium",
	},
	"Amazon Route 53": {
		Threshold:      1.0,
		Recommendation: "Audit hosted zones and remove unused health checks",
		Impact:         "Low",
		Effort:         "Low",
	},
	"AWS Certificate Manager": {
		Threshold:      0.5,
		Recommendation: "Public certificates are free; check for unintended Private CA usage",
		Impact:         "Low",
		Effort:         "Low",
	},
	"AmazonCloudWatch": {
		Threshold:      0.5,
		Recommendation: "Reduce custom metric cardinality and shorten log retention",
		Impact:         "Medium",
		Effort:         "Low",
	},
	"Amazon Simple Storage Service": {
		Threshold:      0.5,
		Recommendation: "Add lifecycle rules to transition stale objects to Infrequent Access",
		Impact:         "Medium",
		Effort:         "Low",
	},
}

// generalBestPractices is static advice appended to every optimization
// report regardless of current spend
var generalBestPractices = []string{
	"Review the monthly cost report before the billing period closes",
	"Tag all resources so costs can be attributed per feature",
	"Delete unused preview branches and their Amplify environments",
	"Set up a billing alarm in addition to the budget threshold",
	"Re-check data transfer pricing whenever traffic patterns change",
}

// BuildOptimizationReport applies the per-service thresholds to the given
// breakdown. Services at or under their threshold, or absent from the
// breakdown, produce no recommendation.
func BuildOptimizationReport(breakdown []ServiceCost) *OptimizationReport {
	report := &OptimizationReport{
		Recommendations: []Recommendation{},
		BestPractices:   generalBestPractices,
	}

	for _, sc := range breakdown {
		rule, ok := optimizationRules[sc.Service]
		if !ok || sc.Cost <= rule.Threshold {
			continue
		}
		report.Recommendations = append(report.Recommendations, Recommendation{
			Service:        sc.Service,
			Cost:           sc.Cost,
			Recommendation: rule.Recommendation,
			Impact:         rule.Impact,
			Effort:         rule.Effort,
		})
	}

	return report
}

// Thresholds returns the per-service optimization thresholds, keyed by
// Cost Explorer service name
func Thresholds() map[string]float64 {
	out := make(map[string]float64, len(optimizationRules))
	for service, rule := range optimizationRules {
		out[service] = rule.Threshold
	}
	return out
}
