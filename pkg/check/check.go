package check

import (
	"fmt"

	"go.uber.org/zap"
)

// Check orchestrates one probe-evaluate-report cycle: it runs the
// resource, matches every produced metric to its context, aggregates
// the per-metric results into an overall severity, and renders the
// summary. A Check is constructed once, run exactly once, and
// discarded.
type Check struct {
	resource Resource
	summary  Summary
	contexts map[string]Context
	log      *zap.Logger
}

// Report is the outcome of one run.
type Report struct {
	Severity Severity
	Results  []Result
	Perfdata []Perfdata
	Summary  string
}

// New builds a check and verifies the context mapping is exhaustive:
// every metric name the resource can produce must have exactly one
// registered context. A context for the failure channel is registered
// automatically unless one is given. A violated mapping is a
// configuration error, reported before the probe runs.
func New(resource Resource, summary Summary, contexts ...Context) (*Check, error) {
	if summary == nil {
		summary = DefaultSummary{}
	}

	byName := make(map[string]Context, len(contexts)+1)
	for _, ctx := range contexts {
		if _, dup := byName[ctx.Name()]; dup {
			return nil, fmt.Errorf("duplicate context for metric %q", ctx.Name())
		}
		byName[ctx.Name()] = ctx
	}
	if _, ok := byName[FailureChannel]; !ok {
		byName[FailureChannel] = ExceptionContext{}
	}

	for _, name := range resource.MetricNames() {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("no context registered for metric %q", name)
		}
	}

	return &Check{
		resource: resource,
		summary:  summary,
		contexts: byName,
		log:      zap.NewNop(),
	}, nil
}

// SetLogger installs the diagnostic logger. The default discards
// everything.
func (c *Check) SetLogger(log *zap.Logger) {
	if log != nil {
		c.log = log
	}
}

// Run executes the cycle. The returned error is reserved for fatal
// conditions: a resource failing outside the metric system, or a
// produced metric with no registered context. The caller maps either
// to overall UNKNOWN.
func (c *Check) Run() (Report, error) {
	metrics, err := c.resource.Probe()
	if err != nil {
		return Report{}, fmt.Errorf("probe failed: %w", err)
	}

	report := Report{Results: make([]Result, 0, len(metrics))}
	for _, m := range metrics {
		ctx, ok := c.contexts[m.Name]
		if !ok {
			return Report{}, fmt.Errorf("no context registered for metric %q", m.Name)
		}

		result := ctx.Evaluate(m, c.resource)
		report.Results = append(report.Results, result)
		if pd, ok := ctx.Performance(m); ok {
			report.Perfdata = append(report.Perfdata, pd)
		}

		c.log.Info("evaluated metric",
			zap.String("metric", m.Name),
			zap.String("value", m.ValueString()),
			zap.Stringer("severity", result.Severity),
			zap.String("message", result.Message),
		)
	}

	report.Severity = MaxSeverity(report.Results)
	if report.Severity == OK {
		report.Summary = c.summary.OK(report.Results)
	} else {
		report.Summary = c.summary.Problem(report.Results)
	}
	return report, nil
}
