package dnscheck

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/checkling/checkling/pkg/check"
)

// MockResolver is a scripted Resolver for tests.
type MockResolver struct {
	LookupIPFunc    func(ctx context.Context, network, host string) ([]net.IP, error)
	LookupCNAMEFunc func(ctx context.Context, host string) (string, error)
	LookupNSFunc    func(ctx context.Context, host string) ([]*net.NS, error)
}

func (m *MockResolver) LookupIP(ctx context.Context, network, host string) ([]net.IP, error) {
	return m.LookupIPFunc(ctx, network, host)
}

func (m *MockResolver) LookupCNAME(ctx context.Context, host string) (string, error) {
	return m.LookupCNAMEFunc(ctx, host)
}

func (m *MockResolver) LookupNS(ctx context.Context, host string) ([]*net.NS, error) {
	return m.LookupNSFunc(ctx, host)
}

// scriptedClock returns a Now func that advances by step per call.
func scriptedClock(step time.Duration) func() time.Time {
	t := time.Unix(1700000000, 0)
	first := true
	return func() time.Time {
		if first {
			first = false
			return t
		}
		return t.Add(step)
	}
}

func ips(addrs ...string) []net.IP {
	out := make([]net.IP, len(addrs))
	for i, a := range addrs {
		out[i] = net.ParseIP(a)
	}
	return out
}

func TestProbeSuccess(t *testing.T) {
	r := &Resource{
		Hostname: "example.org",
		Timeout:  3 * time.Second,
		Now:      scriptedClock(250 * time.Millisecond),
		Resolver: &MockResolver{
			LookupIPFunc: func(context.Context, string, string) ([]net.IP, error) {
				return ips("192.0.2.10", "192.0.2.11"), nil
			},
		},
	}

	metrics, err := r.Probe()
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if len(metrics) != 2 {
		t.Fatalf("got %d metrics, want 2", len(metrics))
	}
	if metrics[0].Name != "time" || metrics[0].Value != 0.25 || metrics[0].Unit != "s" {
		t.Errorf("time metric = %+v, want 0.25s", metrics[0])
	}
	if metrics[1].Name != "answers" || metrics[1].Value != 2 {
		t.Errorf("answers metric = %+v, want 2", metrics[1])
	}
}

func TestProbeRetroactiveTimeout(t *testing.T) {
	// The resolver "succeeds" but the measured duration exceeds the
	// fractional timeout, so a timeout failure is synthesized.
	r := &Resource{
		Hostname: "slow.example.org",
		Timeout:  10 * time.Second,
		Now:      scriptedClock(12300 * time.Millisecond),
		Resolver: &MockResolver{
			LookupIPFunc: func(context.Context, string, string) ([]net.IP, error) {
				return ips("192.0.2.10"), nil
			},
		},
	}

	metrics, err := r.Probe()
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if len(metrics) != 1 || !metrics[0].Failed() {
		t.Fatalf("got %v, want single failure metric", metrics)
	}
	if metrics[0].Failure.Kind != "timeout" {
		t.Errorf("failure kind = %q, want timeout", metrics[0].Failure.Kind)
	}

	result := check.ExceptionContext{}.Evaluate(metrics[0], r)
	if result.Severity != check.Unknown {
		t.Errorf("severity = %v, want UNKNOWN", result.Severity)
	}
	for _, fragment := range []string{"12.3", "10"} {
		if !strings.Contains(result.Message, fragment) {
			t.Errorf("message %q does not contain %q", result.Message, fragment)
		}
	}
}

func TestProbeFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind string
	}{
		{
			name:     "nxdomain",
			err:      &net.DNSError{Err: "no such host", Name: "gone.example.org", IsNotFound: true},
			wantKind: "nxdomain",
		},
		{
			name:     "resolver timeout",
			err:      &net.DNSError{Err: "i/o timeout", Name: "example.org", IsTimeout: true},
			wantKind: "timeout",
		},
		{
			name:     "context deadline",
			err:      context.DeadlineExceeded,
			wantKind: "timeout",
		},
		{
			name:     "other resolver error",
			err:      errors.New("connection refused"),
			wantKind: "resolver",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resource{
				Hostname: "example.org",
				Timeout:  3 * time.Second,
				Now:      scriptedClock(100 * time.Millisecond),
				Resolver: &MockResolver{
					LookupIPFunc: func(context.Context, string, string) ([]net.IP, error) {
						return nil, tt.err
					},
				},
			}
			metrics, err := r.Probe()
			if err != nil {
				t.Fatalf("Probe failed: %v", err)
			}
			if len(metrics) != 1 || !metrics[0].Failed() {
				t.Fatalf("got %v, want single failure metric", metrics)
			}
			if metrics[0].Failure.Kind != tt.wantKind {
				t.Errorf("failure kind = %q, want %q", metrics[0].Failure.Kind, tt.wantKind)
			}
		})
	}
}

func TestProbeQueryTypes(t *testing.T) {
	resolver := &MockResolver{
		LookupCNAMEFunc: func(context.Context, string) (string, error) {
			return "canonical.example.org.", nil
		},
		LookupNSFunc: func(context.Context, string) ([]*net.NS, error) {
			return []*net.NS{{Host: "ns1.example.org."}, {Host: "ns2.example.org."}, {Host: "ns3.example.org."}}, nil
		},
	}

	tests := []struct {
		queryType   string
		wantAnswers float64
	}{
		{queryType: "cname", wantAnswers: 1},
		{queryType: "ns", wantAnswers: 3},
	}

	for _, tt := range tests {
		t.Run(tt.queryType, func(t *testing.T) {
			r := &Resource{
				Hostname:  "example.org",
				QueryType: tt.queryType,
				Timeout:   3 * time.Second,
				Now:       scriptedClock(time.Millisecond),
				Resolver:  resolver,
			}
			metrics, err := r.Probe()
			if err != nil {
				t.Fatalf("Probe failed: %v", err)
			}
			if metrics[1].Value != tt.wantAnswers {
				t.Errorf("answers = %v, want %v", metrics[1].Value, tt.wantAnswers)
			}
		})
	}
}

func TestProbeUnsupportedQueryType(t *testing.T) {
	r := &Resource{
		Hostname:  "example.org",
		QueryType: "mx",
		Timeout:   3 * time.Second,
		Now:       scriptedClock(time.Millisecond),
		Resolver:  &MockResolver{},
	}
	metrics, err := r.Probe()
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if len(metrics) != 1 || !metrics[0].Failed() {
		t.Fatalf("got %v, want single failure metric", metrics)
	}
}
