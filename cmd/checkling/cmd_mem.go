package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/checkling/checkling/pkg/check"
	"github.com/checkling/checkling/pkg/memcheck"
)

var (
	memWarning     string
	memCritical    string
	memCacheAsFree bool
	memPath        string
)

var memCmd = &cobra.Command{
	Use:   "mem",
	Short: "Check free memory percentage",
	Long: `Read memory counters from /proc/meminfo and evaluate the free
percentage against the warning and critical ranges. Ranges follow the
usual convention, so "15:" alerts when less than 15% is free.

Examples:
  checkling mem -w 15: -c 5:
  checkling mem -w 15: --cache-as-free`,
	Args: cobra.NoArgs,
	Run:  runMemCheck,
}

func init() {
	memCmd.Flags().StringVarP(&memWarning, "warning", "w", "", "warning range for free percentage")
	memCmd.Flags().StringVarP(&memCritical, "critical", "c", "", "critical range for free percentage")
	memCmd.Flags().BoolVar(&memCacheAsFree, "cache-as-free", false, "count page cache and buffers as free")
	memCmd.Flags().StringVar(&memPath, "meminfo", memcheck.DefaultPath, "meminfo file to read")
	rootCmd.AddCommand(memCmd)
}

func runMemCheck(_ *cobra.Command, _ []string) {
	runPlugin(func(log *zap.Logger) (*check.Check, error) {
		pctCtx, err := check.NewScalarContext("free_percentage", memWarning, memCritical)
		if err != nil {
			return nil, err
		}
		totalCtx, err := check.NewScalarContext("total", "", "")
		if err != nil {
			return nil, err
		}
		freeCtx, err := check.NewScalarContext("free", "", "")
		if err != nil {
			return nil, err
		}

		resource := &memcheck.Resource{
			Path:        memPath,
			CacheAsFree: memCacheAsFree,
			Log:         log,
		}
		return check.New(resource, memcheck.Summary{}, pctCtx, totalCtx, freeCtx)
	})
}
