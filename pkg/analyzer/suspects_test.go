package analyzer

import (
	"strings"
	"testing"

	"github.com/evildarkarchon/Buffout4-CLAS/pkg/ruleset"
)

func stackRule(t *testing.T, name string, rawSignals ...string) ruleset.StackRule {
	t.Helper()
	signals := make([]ruleset.Signal, 0, len(rawSignals))
	for _, raw := range rawSignals {
		signal, err := ruleset.ParseSignal(raw)
		if err != nil {
			t.Fatalf("ParseSignal(%q) error = %v", raw, err)
		}
		signals = append(signals, signal)
	}
	return ruleset.StackRule{Severity: "5", Name: name, Signals: signals}
}

func TestCheckErrorSuspects(t *testing.T) {
	rules := []ruleset.ErrorRule{
		{Severity: "5", Name: "Stack Overflow Crash", Signal: "EXCEPTION_STACK_OVERFLOW"},
		{Severity: "4", Name: "Bad Math Crash", Signal: "EXCEPTION_INT_DIVIDE_BY_ZERO"},
	}
	fragments, found := CheckErrorSuspects(rules, `Unhandled exception "EXCEPTION_STACK_OVERFLOW" at ...`)

	if !found {
		t.Fatal("found = false")
	}
	if len(fragments) != 1 {
		t.Fatalf("fragments = %d, want 1", len(fragments))
	}
	if !strings.Contains(fragments[0], "Stack Overflow Crash") || !strings.Contains(fragments[0], "Severity : 5") {
		t.Errorf("fragment = %q", fragments[0])
	}
}

func TestCheckStackSuspects_RequiredGate(t *testing.T) {
	rules := []ruleset.StackRule{
		stackRule(t, "Gated Crash", "ME-REQ|CRITICAL_SECTION", "some_stack_string"),
	}

	// The required signal is exclusive: a stack hit alone cannot match.
	_, found := CheckStackSuspects(rules, "no critical section here", "prefix some_stack_string suffix")
	if found {
		t.Error("rule matched without its required main-error signal")
	}

	// The required signal alone is sufficient, regardless of stack hits.
	_, found = CheckStackSuspects(rules, "entered CRITICAL_SECTION twice", "unrelated stack")
	if !found {
		t.Error("rule did not match with its required signal satisfied")
	}
}

func TestCheckStackSuspects_AllRequiredMustHold(t *testing.T) {
	rules := []ruleset.StackRule{
		stackRule(t, "Doubly Gated", "ME-REQ|FIRST", "ME-REQ|SECOND"),
	}
	if _, found := CheckStackSuspects(rules, "only FIRST present", ""); found {
		t.Error("rule matched with one of two required signals")
	}
	if _, found := CheckStackSuspects(rules, "FIRST and SECOND present", ""); !found {
		t.Error("rule did not match with both required signals")
	}
}

func TestCheckStackSuspects_NegationVeto(t *testing.T) {
	rules := []ruleset.StackRule{
		stackRule(t, "Vetoed Crash", "NOT|SafeModule.dll", "3|RaiseException"),
	}
	stack := strings.Repeat("RaiseException ", 5) + "SafeModule.dll"

	if _, found := CheckStackSuspects(rules, "", stack); found {
		t.Error("veto signal did not suppress the rule")
	}

	stack = strings.Repeat("RaiseException ", 5)
	if _, found := CheckStackSuspects(rules, "", stack); !found {
		t.Error("rule did not match once the veto text was absent")
	}
}

func TestCheckStackSuspects_VetoBeatsLaterSignals(t *testing.T) {
	// Signal order must not matter for the veto.
	rules := []ruleset.StackRule{
		stackRule(t, "Vetoed Crash", "RaiseException", "NOT|SafeModule.dll"),
	}
	if _, found := CheckStackSuspects(rules, "", "RaiseException SafeModule.dll"); found {
		t.Error("veto listed after a matching signal did not suppress the rule")
	}
}

func TestCheckStackSuspects_CountThreshold(t *testing.T) {
	rules := []ruleset.StackRule{
		stackRule(t, "Buffer Crash", "2|Buffer::Read"),
	}

	if _, found := CheckStackSuspects(rules, "", "Buffer::Read then Buffer::Read"); !found {
		t.Error("rule did not match at exactly the threshold count")
	}
	if _, found := CheckStackSuspects(rules, "", "one Buffer::Read only"); found {
		t.Error("rule matched below the threshold count")
	}
}

func TestCheckStackSuspects_OptionalMainError(t *testing.T) {
	rules := []ruleset.StackRule{
		stackRule(t, "Optional Crash", "ME-OPT|d3d11.dll"),
	}
	if _, found := CheckStackSuspects(rules, "crashed in d3d11.dll", ""); !found {
		t.Error("optional main-error signal did not match")
	}
	if _, found := CheckStackSuspects(rules, "crashed elsewhere", ""); found {
		t.Error("optional signal matched without its text")
	}
}

func TestCheckStackSuspects_OrderAndDeduplication(t *testing.T) {
	rules := []ruleset.StackRule{
		stackRule(t, "Second In Db", "bbb"),
		stackRule(t, "First In Db", "aaa", "2|aaa"),
	}
	fragments, _ := CheckStackSuspects(rules, "", "aaa aaa bbb")

	if len(fragments) != 2 {
		t.Fatalf("fragments = %d, want one line per rule", len(fragments))
	}
	if !strings.Contains(fragments[0], "Second In Db") {
		t.Errorf("fragments[0] = %q, want database order preserved", fragments[0])
	}
}

func TestCheckMainErrorDLL(t *testing.T) {
	if got := CheckMainErrorDLL("crash in someMod.DLL"); len(got) == 0 {
		t.Error("no notice for a dll in the main error")
	}
	if got := CheckMainErrorDLL("crash in tbbmalloc.dll"); len(got) != 0 {
		t.Error("notice emitted for the allocator dll")
	}
	if got := CheckMainErrorDLL("no module here"); len(got) != 0 {
		t.Error("notice emitted without a dll")
	}
}
