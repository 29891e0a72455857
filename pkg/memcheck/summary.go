package memcheck

import (
	"fmt"
	"strconv"

	"github.com/docker/go-units"

	"github.com/checkling/checkling/pkg/check"
)

// Summary renders the free percentage prominently, with the absolute
// sizes added when something is wrong.
type Summary struct{}

func (Summary) OK(results []check.Result) string {
	pct, ok := findMetric(results, "free_percentage")
	if !ok {
		return check.DefaultSummary{}.OK(results)
	}
	return formatPercentage(pct.Value) + "% Free"
}

func (Summary) Problem(results []check.Result) string {
	pct, ok := findMetric(results, "free_percentage")
	if !ok {
		// failure-channel run, no measurements to show
		return check.DefaultSummary{}.Problem(results)
	}
	line := formatPercentage(pct.Value) + "% Free"
	free, haveFree := findMetric(results, "free")
	total, haveTotal := findMetric(results, "total")
	if haveFree && haveTotal {
		line += fmt.Sprintf(" (%s of %s)",
			units.BytesSize(free.Value*1024), units.BytesSize(total.Value*1024))
	}
	return line
}

func findMetric(results []check.Result, name string) (check.Metric, bool) {
	for _, r := range results {
		if r.Metric.Name == name {
			return r.Metric, true
		}
	}
	return check.Metric{}, false
}

func formatPercentage(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
