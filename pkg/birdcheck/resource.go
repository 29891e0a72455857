package birdcheck

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/checkling/checkling/pkg/check"
)

// Resource reads one protocol session's state from the BIRD control
// socket. Socket and protocol failures ride the failure channel; the
// parsed status stays available to the state context for the rest of
// the run.
type Resource struct {
	Session string
	Client  *Client
	Log     *zap.Logger

	status *ProtocolStatus
}

func (r *Resource) MetricNames() []string {
	return []string{"state", "routes", "filtered", "usage_percentage", check.FailureChannel}
}

// Probe queries the daemon. The usage_percentage metric is only
// emitted when the session has an import limit configured.
func (r *Resource) Probe() ([]check.Metric, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	status, err := r.Client.ShowProtocol(r.Session)
	if err != nil {
		return []check.Metric{check.NewFailure("connect", fmt.Sprintf("querying session %s: %v", r.Session, err))}, nil
	}
	r.status = status

	log.Debug("session state read",
		zap.String("session", r.Session),
		zap.String("state", status.State),
		zap.String("bgp_state", status.BGPState),
		zap.Int64("imported", status.Imported),
		zap.Int64("filtered", status.Filtered),
		zap.Int64("import_limit", status.ImportLimit),
	)

	stateValue := 0.0
	if status.Established() {
		stateValue = 1
	}

	metrics := []check.Metric{
		{Name: "state", Value: stateValue},
		{Name: "routes", Value: float64(status.Imported), Min: check.Float64(0)},
		{Name: "filtered", Value: float64(status.Filtered), Min: check.Float64(0)},
	}
	if status.ImportLimit > 0 {
		metrics = append(metrics, check.Metric{
			Name:  "usage_percentage",
			Value: float64(status.Imported) / float64(status.ImportLimit) * 100,
			Unit:  "%",
			Min:   check.Float64(0),
			Max:   check.Float64(100),
		})
	}
	return metrics, nil
}

// SessionHealthy decides the state context's outcome from the parsed
// session status. An upstream-reported error string takes precedence
// over the generic message.
func SessionHealthy(_ check.Metric, res check.Resource) (bool, string) {
	r, ok := res.(*Resource)
	if !ok || r.status == nil {
		return false, "session state unavailable"
	}
	if r.status.Established() {
		return true, "session established"
	}
	if r.status.LastError != "" {
		return false, r.status.LastError
	}
	return false, "session not established"
}
