package check

import "strings"

// Summary renders the human-readable part of the status line from the
// final results. Plugins override OK and Problem to compose richer
// output; Summary never sees raw metrics without their results.
type Summary interface {
	// OK renders the line when the overall severity is OK.
	OK(results []Result) string

	// Problem renders the line for any non-OK overall severity.
	Problem(results []Result) string
}

// DefaultSummary reports the first result when everything is fine and
// joins the messages of all non-OK results otherwise.
type DefaultSummary struct{}

func (DefaultSummary) OK(results []Result) string {
	if len(results) == 0 {
		return ""
	}
	return results[0].Message
}

func (DefaultSummary) Problem(results []Result) string {
	var messages []string
	for _, r := range results {
		if r.Severity != OK && r.Message != "" {
			messages = append(messages, r.Message)
		}
	}
	return strings.Join(messages, ", ")
}

// PrefixSummary prepends a fixed prefix, such as a target identifier,
// to every line rendered by the wrapped summary.
type PrefixSummary struct {
	Prefix  string
	Summary Summary
}

func (s PrefixSummary) OK(results []Result) string {
	return s.Prefix + s.wrapped().OK(results)
}

func (s PrefixSummary) Problem(results []Result) string {
	return s.Prefix + s.wrapped().Problem(results)
}

func (s PrefixSummary) wrapped() Summary {
	if s.Summary == nil {
		return DefaultSummary{}
	}
	return s.Summary
}
