package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/checkling/checkling/pkg/check"
	"github.com/checkling/checkling/pkg/output"
)

// runPlugin performs one probe-evaluate-report cycle and terminates
// the process. No matter what fails -- a bad threshold, a missing
// context, a panic below the probe -- exactly one status line goes to
// stdout and the exit code stays in {0,1,2,3}.
func runPlugin(build func(log *zap.Logger) (*check.Check, error)) {
	log := newLogger(verbosity, os.Stderr)
	defer func() { _ = log.Sync() }()

	defer func() {
		if r := recover(); r != nil {
			output.PrintUnknown(os.Stdout, fmt.Sprint(r))
			os.Exit(check.Unknown.ExitCode())
		}
	}()

	// Configuration errors surface here, before the probe runs.
	c, err := build(log)
	if err != nil {
		output.PrintUnknown(os.Stdout, err.Error())
		os.Exit(check.Unknown.ExitCode())
	}
	c.SetLogger(log)

	report, err := c.Run()
	if err != nil {
		output.PrintUnknown(os.Stdout, err.Error())
		os.Exit(check.Unknown.ExitCode())
	}

	output.PrintReport(os.Stdout, report)
	os.Exit(report.Severity.ExitCode())
}

// newLogger builds the diagnostic logger for the secondary stream.
// Silent by default; -v shows per-metric evaluations, -vv probe
// debugging, -vvv adds caller locations.
func newLogger(verbosity int, w io.Writer) *zap.Logger {
	level := zapcore.ErrorLevel
	switch {
	case verbosity >= 2:
		level = zapcore.DebugLevel
	case verbosity == 1:
		level = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), level)

	var opts []zap.Option
	if verbosity >= 3 {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...)
}
