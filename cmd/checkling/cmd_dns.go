package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/checkling/checkling/pkg/check"
	"github.com/checkling/checkling/pkg/dnscheck"
)

var (
	dnsWarning  string
	dnsCritical string
	dnsServer   string
	dnsType     string
	dnsTimeout  float64
)

var dnsCmd = &cobra.Command{
	Use:   "dns <hostname>",
	Short: "Check DNS resolution time",
	Long: `Time one DNS query and evaluate the lookup duration (in seconds)
against the warning and critical ranges.

Examples:
  checkling dns example.org -w 0.5 -c 2
  checkling dns example.org --server 192.0.2.53:53 --timeout 1.5
  checkling dns example.org --type ns`,
	Args: cobra.ExactArgs(1),
	Run:  runDNSCheck,
}

func init() {
	dnsCmd.Flags().StringVarP(&dnsWarning, "warning", "w", "", "warning range for lookup seconds")
	dnsCmd.Flags().StringVarP(&dnsCritical, "critical", "c", "", "critical range for lookup seconds")
	dnsCmd.Flags().StringVar(&dnsServer, "server", "", "DNS server host:port (default: OS resolver)")
	dnsCmd.Flags().StringVar(&dnsType, "type", "ip", "query type: ip, cname or ns")
	dnsCmd.Flags().Float64Var(&dnsTimeout, "timeout", 3, "query timeout in seconds (fractions allowed)")
	rootCmd.AddCommand(dnsCmd)
}

func runDNSCheck(_ *cobra.Command, args []string) {
	runPlugin(func(log *zap.Logger) (*check.Check, error) {
		switch dnsType {
		case "ip", "cname", "ns":
		default:
			return nil, fmt.Errorf("unsupported query type %q", dnsType)
		}

		timeCtx, err := check.NewScalarContext("time", dnsWarning, dnsCritical)
		if err != nil {
			return nil, err
		}
		answersCtx, err := check.NewScalarContext("answers", "", "")
		if err != nil {
			return nil, err
		}

		resource := &dnscheck.Resource{
			Hostname:  args[0],
			QueryType: dnsType,
			Timeout:   time.Duration(dnsTimeout * float64(time.Second)),
			Resolver:  dnscheck.NewResolver(dnsServer),
			Log:       log,
		}
		return check.New(resource, nil, timeCtx, answersCtx)
	})
}
