package check

// Resource is the probe capability: it produces the metrics for one
// run, or fails. Operational failures (timeouts, refused connections,
// malformed responses) must be caught inside Probe and emitted as a
// failure-channel metric via NewFailure; an error return is reserved
// for truly fatal conditions and aborts per-metric evaluation.
//
// Implementations:
//   - dnscheck.Resource: resolver query timing
//   - memcheck.Resource: /proc/meminfo counters
//   - birdcheck.Resource: BIRD protocol session state
type Resource interface {
	// Probe performs the measurement and returns metrics in emission
	// order.
	Probe() ([]Metric, error)

	// MetricNames returns the fixed set of metric names this resource
	// can emit. Every name must have a registered context before the
	// probe runs.
	MetricNames() []string
}
