package dnscheck

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/checkling/checkling/pkg/check"
)

// DefaultTimeout bounds a lookup when no timeout flag is given.
const DefaultTimeout = 3 * time.Second

// Resolver abstracts DNS lookups for testability.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupCNAME(ctx context.Context, host string) (string, error)
	LookupNS(ctx context.Context, host string) ([]*net.NS, error)
}

// NewResolver returns a resolver querying the given "host:port" server,
// or the OS resolver when server is empty.
func NewResolver(server string) *net.Resolver {
	if server == "" {
		return &net.Resolver{}
	}
	return &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, server)
		},
	}
}

// Resource times one DNS query. Resolver errors are caught and emitted
// on the failure channel; only the "time" and "answers" metrics are
// produced on success.
type Resource struct {
	Hostname  string
	QueryType string        // "ip" (default), "cname" or "ns"
	Timeout   time.Duration // fractional timeouts are honored, see Probe
	Resolver  Resolver
	Log       *zap.Logger

	Now func() time.Time // injected for tests, defaults to time.Now
}

func (r *Resource) MetricNames() []string {
	return []string{"time", "answers", check.FailureChannel}
}

// Probe runs the lookup. Resolver deadlines are only reliable at whole
// seconds (the OS resolver path rounds them), so the context deadline
// is rounded up and the configured fractional timeout is enforced
// against the measured wall-clock duration after every lookup, even
// when the resolver reported success.
func (r *Resource) Probe() ([]check.Metric, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}
	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	coarse := time.Duration(math.Ceil(timeout.Seconds())) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), coarse)
	defer cancel()

	start := now()
	answers, err := r.lookup(ctx)
	elapsed := now().Sub(start)

	if err != nil {
		return []check.Metric{r.classify(err, elapsed, timeout)}, nil
	}
	if elapsed > timeout {
		return []check.Metric{r.timeoutFailure(elapsed, timeout)}, nil
	}

	log.Debug("lookup finished",
		zap.String("hostname", r.Hostname),
		zap.Duration("elapsed", elapsed),
		zap.Int("answers", answers),
	)

	return []check.Metric{
		{Name: "time", Value: elapsed.Seconds(), Unit: "s", Min: check.Float64(0)},
		{Name: "answers", Value: float64(answers), Min: check.Float64(0)},
	}, nil
}

func (r *Resource) lookup(ctx context.Context) (int, error) {
	switch r.QueryType {
	case "", "ip":
		ips, err := r.Resolver.LookupIP(ctx, "ip", r.Hostname)
		return len(ips), err
	case "cname":
		cname, err := r.Resolver.LookupCNAME(ctx, r.Hostname)
		if err != nil {
			return 0, err
		}
		if cname == "" {
			return 0, nil
		}
		return 1, nil
	case "ns":
		nss, err := r.Resolver.LookupNS(ctx, r.Hostname)
		return len(nss), err
	default:
		return 0, fmt.Errorf("unsupported query type %q", r.QueryType)
	}
}

func (r *Resource) classify(err error, elapsed, timeout time.Duration) check.Metric {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		switch {
		case dnsErr.IsTimeout:
			return r.timeoutFailure(elapsed, timeout)
		case dnsErr.IsNotFound:
			return check.NewFailure("nxdomain", fmt.Sprintf("%s does not resolve: %v", r.Hostname, err))
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return r.timeoutFailure(elapsed, timeout)
	}
	return check.NewFailure("resolver", fmt.Sprintf("query for %s failed: %v", r.Hostname, err))
}

func (r *Resource) timeoutFailure(elapsed, timeout time.Duration) check.Metric {
	return check.NewFailure("timeout", fmt.Sprintf(
		"query for %s timed out: measured %gs exceeds %gs timeout",
		r.Hostname, elapsed.Seconds(), timeout.Seconds()))
}
