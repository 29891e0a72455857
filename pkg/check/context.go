package check

import "fmt"

// Context is the evaluation rule mapping one metric to a result.
// Each metric name a resource can produce is bound to exactly one
// context at check construction time.
type Context interface {
	// Name is the metric name this context evaluates.
	Name() string

	// Evaluate turns a metric into a result. The resource is available
	// for rules that need contextual data beyond the metric itself.
	Evaluate(m Metric, r Resource) Result

	// Performance returns the perfdata rendering of the metric, or
	// false if the metric does not appear in perfdata.
	Performance(m Metric) (Perfdata, bool)
}

// ScalarContext evaluates a numeric metric against optional warning
// and critical ranges. The critical range is checked first, so a value
// breaching both thresholds reports at the more severe level.
type ScalarContext struct {
	MetricName string
	Warning    Range
	Critical   Range

	// Format overrides the default "<name> is <value><unit>" message.
	Format func(m Metric) string
}

// NewScalarContext parses both range specs and returns the context.
// An unparsable spec is a configuration error.
func NewScalarContext(name, warning, critical string) (*ScalarContext, error) {
	w, err := ParseRange(warning)
	if err != nil {
		return nil, fmt.Errorf("warning threshold: %w", err)
	}
	c, err := ParseRange(critical)
	if err != nil {
		return nil, fmt.Errorf("critical threshold: %w", err)
	}
	return &ScalarContext{MetricName: name, Warning: w, Critical: c}, nil
}

func (c *ScalarContext) Name() string { return c.MetricName }

func (c *ScalarContext) Evaluate(m Metric, _ Resource) Result {
	severity := OK
	switch {
	case c.Critical.Matches(m.Value):
		severity = Critical
	case c.Warning.Matches(m.Value):
		severity = Warning
	}
	return Result{Severity: severity, Metric: m, Message: c.message(m)}
}

func (c *ScalarContext) message(m Metric) string {
	if c.Format != nil {
		return c.Format(m)
	}
	return fmt.Sprintf("%s is %s", m.Name, m.ValueString())
}

func (c *ScalarContext) Performance(m Metric) (Perfdata, bool) {
	return Perfdata{Metric: m, Warning: c.Warning, Critical: c.Critical}, true
}

// SelectableSeverityContext reports a domain-specific bad condition at
// a severity chosen once at configuration time. The condition is
// decided by a resource-aware predicate rather than a numeric
// threshold.
type SelectableSeverityContext struct {
	MetricName string
	Severity   Severity

	// Healthy reports whether the condition is acceptable and returns
	// the message for the result. On failure an upstream-reported
	// error string should be returned in preference to a generic one.
	Healthy func(m Metric, r Resource) (ok bool, message string)
}

// NewSelectableSeverityContext builds the context; critical selects
// CRITICAL as the failure severity, otherwise WARNING.
func NewSelectableSeverityContext(name string, critical bool, healthy func(Metric, Resource) (bool, string)) *SelectableSeverityContext {
	severity := Warning
	if critical {
		severity = Critical
	}
	return &SelectableSeverityContext{MetricName: name, Severity: severity, Healthy: healthy}
}

func (c *SelectableSeverityContext) Name() string { return c.MetricName }

func (c *SelectableSeverityContext) Evaluate(m Metric, r Resource) Result {
	ok, message := c.Healthy(m, r)
	if ok {
		return Result{Severity: OK, Metric: m, Message: message}
	}
	return Result{Severity: c.Severity, Metric: m, Message: message}
}

func (c *SelectableSeverityContext) Performance(m Metric) (Perfdata, bool) {
	return Perfdata{Metric: m}, true
}

// ExpectedZeroCountContext warns when a count that should normally be
// zero is not, unless suppressed.
type ExpectedZeroCountContext struct {
	MetricName string
	Format     string // message template taking the count, e.g. "%d filtered routes"
	Suppress   bool
}

func (c *ExpectedZeroCountContext) Name() string { return c.MetricName }

func (c *ExpectedZeroCountContext) Evaluate(m Metric, _ Resource) Result {
	count := int64(m.Value)
	message := fmt.Sprintf(c.Format, count)
	if c.Suppress || count <= 0 {
		return Result{Severity: OK, Metric: m, Message: message}
	}
	return Result{Severity: Warning, Metric: m, Message: message}
}

func (c *ExpectedZeroCountContext) Performance(m Metric) (Perfdata, bool) {
	return Perfdata{Metric: m}, true
}

// ExceptionContext is the single bridge between a probe's failure path
// and the evaluation pipeline: it accepts failure-channel metrics and
// always reports UNKNOWN with the failure's message.
type ExceptionContext struct{}

func (ExceptionContext) Name() string { return FailureChannel }

func (ExceptionContext) Evaluate(m Metric, _ Resource) Result {
	message := "unknown failure"
	if m.Failure != nil {
		message = m.Failure.Message
	}
	return Result{Severity: Unknown, Metric: m, Message: message}
}

func (ExceptionContext) Performance(_ Metric) (Perfdata, bool) {
	return Perfdata{}, false
}
