package check

import "strconv"

// FailureChannel is the reserved metric name carrying probe failures
// through the evaluation pipeline.
const FailureChannel = "failure"

// Failure describes an operational error encountered by a probe:
// a timeout, a connection failure, a malformed response. It rides the
// metric stream instead of aborting the run, so failed and successful
// measurements are evaluated by the same machinery.
type Failure struct {
	Kind    string // e.g. "timeout", "connect", "parse"
	Message string
}

// Metric is a named measurement produced by a probe, or a failure
// marker when Failure is non-nil. Min and Max bound the metric's
// natural domain for perfdata; nil leaves the field blank.
type Metric struct {
	Name    string
	Value   float64
	Unit    string
	Min     *float64
	Max     *float64
	Failure *Failure
}

// NewMetric returns a plain measurement metric.
func NewMetric(name string, value float64, unit string) Metric {
	return Metric{Name: name, Value: value, Unit: unit}
}

// NewFailure returns a metric on the reserved failure channel.
func NewFailure(kind, message string) Metric {
	return Metric{
		Name:    FailureChannel,
		Failure: &Failure{Kind: kind, Message: message},
	}
}

// Failed reports whether the metric is a failure marker.
func (m Metric) Failed() bool {
	return m.Failure != nil
}

// ValueString renders the value and unit, e.g. "12.5%" or "3 routes".
func (m Metric) ValueString() string {
	return strconv.FormatFloat(m.Value, 'f', -1, 64) + m.Unit
}

// Float64 returns a pointer to v, for Metric.Min and Metric.Max.
func Float64(v float64) *float64 {
	return &v
}
