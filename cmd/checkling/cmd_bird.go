package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/checkling/checkling/pkg/birdcheck"
	"github.com/checkling/checkling/pkg/check"
)

var (
	birdWarning        string
	birdCritical       string
	birdSocket         string
	birdDownSeverity   string
	birdIgnoreFiltered bool
	birdTimeout        float64
)

var birdCmd = &cobra.Command{
	Use:   "bird <session>",
	Short: "Check a BIRD protocol session",
	Long: `Read one protocol session's state from the BIRD control socket.
Reports the session state at the configured severity when it is not
established, warns on filtered routes, and evaluates prefix-limit
usage (percent of the configured import limit) against the warning
and critical ranges.

Examples:
  checkling bird uplink1
  checkling bird uplink1 --session-down-severity warning
  checkling bird uplink1 --ignore-filtered -w :80 -c :95`,
	Args: cobra.ExactArgs(1),
	Run:  runBirdCheck,
}

func init() {
	birdCmd.Flags().StringVarP(&birdWarning, "warning", "w", "", "warning range for prefix-limit usage percentage")
	birdCmd.Flags().StringVarP(&birdCritical, "critical", "c", "", "critical range for prefix-limit usage percentage")
	birdCmd.Flags().StringVar(&birdSocket, "socket", birdcheck.DefaultSocketPath, "BIRD control socket path")
	birdCmd.Flags().StringVar(&birdDownSeverity, "session-down-severity", "critical", "severity when the session is not established (warning or critical)")
	birdCmd.Flags().BoolVar(&birdIgnoreFiltered, "ignore-filtered", false, "do not warn on filtered routes")
	birdCmd.Flags().Float64Var(&birdTimeout, "timeout", 5, "socket timeout in seconds (fractions allowed)")
	rootCmd.AddCommand(birdCmd)
}

func runBirdCheck(_ *cobra.Command, args []string) {
	session := args[0]

	runPlugin(func(log *zap.Logger) (*check.Check, error) {
		var downCritical bool
		switch birdDownSeverity {
		case "critical":
			downCritical = true
		case "warning":
		default:
			return nil, fmt.Errorf("invalid --session-down-severity %q: want warning or critical", birdDownSeverity)
		}

		usageCtx, err := check.NewScalarContext("usage_percentage", birdWarning, birdCritical)
		if err != nil {
			return nil, err
		}
		routesCtx, err := check.NewScalarContext("routes", "", "")
		if err != nil {
			return nil, err
		}
		stateCtx := check.NewSelectableSeverityContext("state", downCritical, birdcheck.SessionHealthy)
		filteredCtx := &check.ExpectedZeroCountContext{
			MetricName: "filtered",
			Format:     "%d filtered routes",
			Suppress:   birdIgnoreFiltered,
		}

		resource := &birdcheck.Resource{
			Session: session,
			Client: &birdcheck.Client{
				SocketPath: birdSocket,
				Timeout:    time.Duration(birdTimeout * float64(time.Second)),
				Dialer:     birdcheck.RealDialer{},
			},
			Log: log,
		}
		summary := check.PrefixSummary{Prefix: session + ": ", Summary: birdcheck.Summary{}}
		return check.New(resource, summary, stateCtx, routesCtx, filteredCtx, usageCtx)
	})
}
