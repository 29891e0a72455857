package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/checkling/checkling/pkg/check"
	"github.com/checkling/checkling/pkg/output"
)

// Version is set at build time via ldflags
var Version = "dev"

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "checkling",
	Short: "Single-shot monitoring checks for supervisor schedulers",
	Long: `Checkling runs one measurement, evaluates it against warning and
critical thresholds, and reports a single status line plus an exit
code (0=OK, 1=WARNING, 2=CRITICAL, 3=UNKNOWN) in the convention of
external monitoring supervisors.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"diagnostic verbosity on stderr (repeatable, up to -vvv)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Even a bad invocation must end in a well-formed status line.
		output.PrintUnknown(os.Stdout, err.Error())
		os.Exit(check.Unknown.ExitCode())
	}
}
