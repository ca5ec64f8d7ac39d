package agent

import (
	"regexp"
	"strings"
)

// ParseError is returned when the model output matches neither the
// action grammar nor a final answer. The raw output is kept both in the
// struct and in the message: downstream code salvages answers out of the
// message text, so the wording is load-bearing.
type ParseError struct {
	Output string
}

func (e *ParseError) Error() string {
	return "Could not parse LLM output: " + e.Output
}

// AmbiguousOutputError is returned when the model both acts and answers in
// one completion. Its wording deliberately differs from ParseError so the
// mixed grammar is never salvaged as an answer.
type AmbiguousOutputError struct {
	Output string
}

func (e *AmbiguousOutputError) Error() string {
	return "Parsing LLM output produced both a final answer and a parse-able action: " + e.Output
}

const finalAnswerMark = "Final Answer:"

var actionRegex = regexp.MustCompile(`(?s)Action\s*\d*\s*:\s*(.+?)\s*Action\s*\d*\s*Input\s*\d*\s*:\s*(.+)`)

type decision struct {
	thought     string
	action      string
	actionInput string
	answer      string
	final       bool
}

// parseOutput interprets one model completion. Valid outputs either contain
// "Final Answer:" or an "Action:"/"Action Input:" pair, never both.
func parseOutput(text string) (*decision, error) {
	match := actionRegex.FindStringSubmatchIndex(text)
	hasFinal := strings.Contains(text, finalAnswerMark)

	switch {
	case hasFinal && match != nil:
		return nil, &AmbiguousOutputError{Output: text}
	case hasFinal:
		idx := strings.Index(text, finalAnswerMark)
		return &decision{
			thought: strings.TrimSpace(text[:idx]),
			answer:  strings.TrimSpace(text[idx+len(finalAnswerMark):]),
			final:   true,
		}, nil
	case match != nil:
		action := strings.TrimSpace(text[match[2]:match[3]])
		input := strings.TrimSpace(text[match[4]:match[5]])
		return &decision{
			thought:     strings.TrimSpace(text[:match[0]]),
			action:      strings.Trim(action, "*` "),
			actionInput: trimQuotes(input),
		}, nil
	}

	return nil, &ParseError{Output: text}
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
