package output

import (
	"fmt"
	"io"

	"github.com/jwalton/go-supportscolor"

	"github.com/checkling/checkling/pkg/check"
)

var (
	green   = "\033[32m"
	yellow  = "\033[33m"
	red     = "\033[31m"
	magenta = "\033[35m"
	reset   = "\033[0m"
)

func init() {
	if !supportscolor.Stdout().SupportsColor {
		green, yellow, red, magenta, reset = "", "", "", "", ""
	}
}

// StatusLine renders the single supervisor-facing line:
//
//	<SEVERITY> - <summary> | <perfdata...>
//
// The severity token is colored only when stdout is a terminal, so
// output piped to a supervisor stays plain.
func StatusLine(report check.Report) string {
	line := colorSeverity(report.Severity)
	if report.Summary != "" {
		line += " - " + report.Summary
	}
	if len(report.Perfdata) > 0 {
		line += " | " + check.RenderPerfdata(report.Perfdata)
	}
	return line
}

// PrintReport writes the status line for a completed run.
func PrintReport(w io.Writer, report check.Report) {
	fmt.Fprintln(w, StatusLine(report))
}

// PrintUnknown writes the fallback status line for a run that failed
// before or outside per-metric evaluation.
func PrintUnknown(w io.Writer, message string) {
	fmt.Fprintln(w, StatusLine(check.Report{Severity: check.Unknown, Summary: message}))
}

func colorSeverity(s check.Severity) string {
	var color string
	switch s {
	case check.OK:
		color = green
	case check.Warning:
		color = yellow
	case check.Critical:
		color = red
	default:
		color = magenta
	}
	return color + s.String() + reset
}
