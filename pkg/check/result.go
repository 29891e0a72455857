package check

// Result is a metric's evaluated severity plus an optional message.
// Results are produced one-to-one from (Metric, Context) pairs.
type Result struct {
	Severity Severity
	Metric   Metric
	Message  string
}
