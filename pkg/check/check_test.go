package check

import (
	"errors"
	"strings"
	"testing"
)

// MockResource is a scripted Resource for pipeline tests.
type MockResource struct {
	Metrics []Metric
	Names   []string
	Err     error
}

func (m *MockResource) Probe() ([]Metric, error) { return m.Metrics, m.Err }
func (m *MockResource) MetricNames() []string    { return m.Names }

func TestMaxSeverity(t *testing.T) {
	tests := []struct {
		name       string
		severities []Severity
		want       Severity
	}{
		{name: "empty is OK", severities: nil, want: OK},
		{name: "all OK", severities: []Severity{OK, OK}, want: OK},
		{name: "warning dominates OK", severities: []Severity{OK, Warning, OK}, want: Warning},
		{name: "critical dominates warning", severities: []Severity{OK, Critical, Warning}, want: Critical},
		{name: "unknown dominates all", severities: []Severity{Critical, Unknown, Warning}, want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make([]Result, len(tt.severities))
			for i, s := range tt.severities {
				results[i] = Result{Severity: s}
			}
			if got := MaxSeverity(results); got != tt.want {
				t.Errorf("MaxSeverity(%v) = %v, want %v", tt.severities, got, tt.want)
			}
		})
	}
}

func TestCheckRun(t *testing.T) {
	resource := &MockResource{
		Metrics: []Metric{
			NewMetric("time", 0.25, "s"),
			NewMetric("answers", 3, ""),
		},
		Names: []string{"time", "answers"},
	}

	timeCtx, err := NewScalarContext("time", "0:1", "0:2")
	if err != nil {
		t.Fatalf("NewScalarContext failed: %v", err)
	}
	answersCtx, err := NewScalarContext("answers", "1:", "")
	if err != nil {
		t.Fatalf("NewScalarContext failed: %v", err)
	}

	c, err := New(resource, nil, timeCtx, answersCtx)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	report, err := c.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Severity != OK {
		t.Errorf("severity = %v, want %v", report.Severity, OK)
	}
	if len(report.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(report.Results))
	}
	if report.Results[0].Metric.Name != "time" || report.Results[1].Metric.Name != "answers" {
		t.Error("results not in emission order")
	}
	if report.Summary != "time is 0.25s" {
		t.Errorf("summary = %q, want first result message", report.Summary)
	}
	if len(report.Perfdata) != 2 {
		t.Errorf("got %d perfdata fields, want 2", len(report.Perfdata))
	}
}

func TestCheckRunProblemSummary(t *testing.T) {
	resource := &MockResource{
		Metrics: []Metric{
			NewMetric("time", 5, "s"),
			NewMetric("answers", 0, ""),
		},
		Names: []string{"time", "answers"},
	}

	timeCtx, err := NewScalarContext("time", "0:1", "")
	if err != nil {
		t.Fatalf("NewScalarContext failed: %v", err)
	}
	answersCtx, err := NewScalarContext("answers", "1:", "")
	if err != nil {
		t.Fatalf("NewScalarContext failed: %v", err)
	}

	c, err := New(resource, nil, timeCtx, answersCtx)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	report, err := c.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Severity != Warning {
		t.Errorf("severity = %v, want %v", report.Severity, Warning)
	}
	if report.Summary != "time is 5s, answers is 0" {
		t.Errorf("problem summary = %q, want joined non-OK messages", report.Summary)
	}
}

func TestCheckMissingContextAtConstruction(t *testing.T) {
	resource := &MockResource{Names: []string{"time", "orphan"}}
	timeCtx, err := NewScalarContext("time", "", "")
	if err != nil {
		t.Fatalf("NewScalarContext failed: %v", err)
	}

	_, err = New(resource, nil, timeCtx)
	if err == nil {
		t.Fatal("New succeeded with an uncovered metric name")
	}
	if !strings.Contains(err.Error(), "orphan") {
		t.Errorf("error %q does not identify the uncovered metric", err)
	}
}

func TestCheckMissingContextAtRun(t *testing.T) {
	// The resource declares one set of names but emits another.
	resource := &MockResource{
		Metrics: []Metric{NewMetric("surprise", 1, "")},
		Names:   []string{"time"},
	}
	timeCtx, err := NewScalarContext("time", "", "")
	if err != nil {
		t.Fatalf("NewScalarContext failed: %v", err)
	}

	c, err := New(resource, nil, timeCtx)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := c.Run(); err == nil {
		t.Fatal("Run succeeded with an unmapped metric")
	}
}

func TestCheckDuplicateContext(t *testing.T) {
	resource := &MockResource{Names: []string{"time"}}
	a, _ := NewScalarContext("time", "", "")
	b, _ := NewScalarContext("time", "", "")
	if _, err := New(resource, nil, a, b); err == nil {
		t.Fatal("New succeeded with duplicate contexts")
	}
}

func TestCheckFatalProbeError(t *testing.T) {
	boom := errors.New("socket vanished")
	resource := &MockResource{Names: []string{"time"}, Err: boom}
	timeCtx, _ := NewScalarContext("time", "", "")

	c, err := New(resource, nil, timeCtx)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := c.Run(); !errors.Is(err, boom) {
		t.Errorf("Run error = %v, want wrapped probe error", err)
	}
}

func TestCheckFailureChannel(t *testing.T) {
	resource := &MockResource{
		Metrics: []Metric{NewFailure("timeout", "no response from 192.0.2.1")},
		Names:   []string{"time", FailureChannel},
	}
	timeCtx, _ := NewScalarContext("time", "", "")

	// ExceptionContext is registered implicitly.
	c, err := New(resource, nil, timeCtx)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	report, err := c.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Severity != Unknown {
		t.Errorf("severity = %v, want %v", report.Severity, Unknown)
	}
	if report.Summary != "no response from 192.0.2.1" {
		t.Errorf("summary = %q, want failure message", report.Summary)
	}
	if len(report.Perfdata) != 0 {
		t.Errorf("failure run produced perfdata: %v", report.Perfdata)
	}
}

func TestCheckEmptyMetricsIsOK(t *testing.T) {
	resource := &MockResource{Names: nil}
	c, err := New(resource, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	report, err := c.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Severity != OK {
		t.Errorf("severity = %v, want %v", report.Severity, OK)
	}
}
