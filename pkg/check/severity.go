package check

// Severity is the outcome level of a check, ordered by badness.
// The ordinal doubles as the process exit code expected by
// monitoring supervisors.
type Severity int

const (
	OK Severity = iota
	Warning
	Critical
	Unknown
)

// String returns the supervisor-facing name of the severity.
func (s Severity) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode returns the process exit code for this severity.
func (s Severity) ExitCode() int {
	if s < OK || s > Unknown {
		return int(Unknown)
	}
	return int(s)
}

// MaxSeverity returns the worst severity across results.
// An empty result set is OK.
func MaxSeverity(results []Result) Severity {
	max := OK
	for _, r := range results {
		if r.Severity > max {
			max = r.Severity
		}
	}
	return max
}
