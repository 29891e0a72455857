package birdcheck

import (
	"fmt"

	"github.com/checkling/checkling/pkg/check"
)

// Summary composes the session breakdown across the simultaneously
// reported metrics. Problems fall back to the joined per-metric
// messages.
type Summary struct{}

func (Summary) OK(results []check.Result) string {
	for _, r := range results {
		if r.Metric.Name == "routes" {
			return fmt.Sprintf("session established, %d routes imported", int64(r.Metric.Value))
		}
	}
	return check.DefaultSummary{}.OK(results)
}

func (Summary) Problem(results []check.Result) string {
	return check.DefaultSummary{}.Problem(results)
}
