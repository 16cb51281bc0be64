package ruleset

import (
	"fmt"
	"strconv"
	"strings"
)

// SignalKind identifies how a stack suspect signal is evaluated.
type SignalKind int

const (
	// SignalPlain matches a substring of the joined call stack.
	SignalPlain SignalKind = iota

	// SignalRequiredMainError gates the whole rule on a main-error
	// substring. A rule carrying any required signal matches iff every
	// required signal is satisfied.
	SignalRequiredMainError

	// SignalOptionalMainError matches a substring of the main error.
	SignalOptionalMainError

	// SignalNegated vetoes the whole rule when its text appears in the
	// joined call stack.
	SignalNegated

	// SignalMinCount matches when the joined call stack contains the
	// text at least Count times.
	SignalMinCount
)

// Signal is one parsed entry of a stack suspect's signal list. The
// "modifier|text" grammar is parsed once at ruleset load, never per scan.
type Signal struct {
	Kind  SignalKind
	Text  string
	Count int
}

// ParseSignal parses a raw signal string from the rule database.
// Recognized forms: "text", "ME-REQ|text", "ME-OPT|text", "NOT|text",
// and "N|text" for a decimal N.
func ParseSignal(raw string) (Signal, error) {
	modifier, text, found := strings.Cut(raw, "|")
	if !found {
		return Signal{Kind: SignalPlain, Text: raw}, nil
	}
	switch modifier {
	case "ME-REQ":
		return Signal{Kind: SignalRequiredMainError, Text: text}, nil
	case "ME-OPT":
		return Signal{Kind: SignalOptionalMainError, Text: text}, nil
	case "NOT":
		return Signal{Kind: SignalNegated, Text: text}, nil
	}
	if n, err := strconv.Atoi(modifier); err == nil && n >= 0 {
		return Signal{Kind: SignalMinCount, Text: text, Count: n}, nil
	}
	return Signal{}, fmt.Errorf("unknown signal modifier %q in %q", modifier, raw)
}

// splitRuleKey splits a "severity | name" rule key.
func splitRuleKey(key string) (severity, name string, err error) {
	severity, name, found := strings.Cut(key, " | ")
	if !found || severity == "" || name == "" {
		return "", "", fmt.Errorf("rule key %q is not in \"severity | name\" form", key)
	}
	return severity, name, nil
}
