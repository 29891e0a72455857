package check

import (
	"strconv"
	"strings"
)

// Perfdata is one performance-data field of the status line, rendered
// as label=value[unit];warn;crit;min;max. Trailing empty fields are
// trimmed; interior delimiters are preserved so later fields keep
// their position.
type Perfdata struct {
	Metric   Metric
	Warning  Range
	Critical Range
}

// String renders the field in supervisor-parseable form.
func (p Perfdata) String() string {
	fields := []string{
		p.Warning.String(),
		p.Critical.String(),
		formatBound(p.Metric.Min),
		formatBound(p.Metric.Max),
	}

	last := len(fields) - 1
	for last >= 0 && fields[last] == "" {
		last--
	}

	var b strings.Builder
	b.WriteString(p.Metric.Name)
	b.WriteByte('=')
	b.WriteString(p.Metric.ValueString())
	for _, f := range fields[:last+1] {
		b.WriteByte(';')
		b.WriteString(f)
	}
	return b.String()
}

// RenderPerfdata joins perfdata fields with spaces for the status line.
func RenderPerfdata(fields []Perfdata) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, " ")
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
