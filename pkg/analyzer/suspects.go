// Package analyzer provides the suspect detection engines that evaluate
// a rule database against a segmented crash log.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/evildarkarchon/Buffout4-CLAS/pkg/ruleset"
)

// suspectNameWidth pads suspect names so severity columns line up.
const suspectNameWidth = 30

// CheckMainErrorDLL returns a notice when the main error implicates a
// DLL file, except the allocator DLL that shows up in most logs.
func CheckMainErrorDLL(mainError string) []string {
	lower := strings.ToLower(mainError)
	if strings.Contains(lower, ".dll") && !strings.Contains(lower, "tbbmalloc") {
		return []string{
			"* NOTICE : MAIN ERROR REPORTS THAT A DLL FILE WAS INVOLVED IN THIS CRASH! * \n",
			"If that dll file belongs to a mod, that mod is a prime suspect for the crash. \n-----\n",
		}
	}
	return nil
}

// CheckErrorSuspects matches the error rule table against the main error
// line. Rules are evaluated and reported in database order.
func CheckErrorSuspects(rules []ruleset.ErrorRule, mainError string) (fragments []string, found bool) {
	for _, rule := range rules {
		if strings.Contains(mainError, rule.Signal) {
			fragments = append(fragments, suspectLine(rule.Name, rule.Severity))
			found = true
		}
	}
	return fragments, found
}

// CheckStackSuspects evaluates the stack rule table's signal lists
// against the main error and the joined call stack. Each rule yields at
// most one report line, in database order.
func CheckStackSuspects(rules []ruleset.StackRule, mainError, callStack string) (fragments []string, found bool) {
	for _, rule := range rules {
		if matchStackRule(rule.Signals, mainError, callStack) {
			fragments = append(fragments, suspectLine(rule.Name, rule.Severity))
			found = true
		}
	}
	return fragments, found
}

// matchStackRule implements the signal semantics: a NOT signal vetoes the
// rule outright; a rule with any required main-error signal matches iff
// every required signal is satisfied; otherwise one optional or stack
// signal hit suffices.
func matchStackRule(signals []ruleset.Signal, mainError, callStack string) bool {
	hasRequired := false
	requiredMet := true
	optionalFound := false
	stackFound := false

	for _, signal := range signals {
		switch signal.Kind {
		case ruleset.SignalNegated:
			if strings.Contains(callStack, signal.Text) {
				return false
			}
		case ruleset.SignalRequiredMainError:
			hasRequired = true
			if !strings.Contains(mainError, signal.Text) {
				requiredMet = false
			}
		case ruleset.SignalOptionalMainError:
			if strings.Contains(mainError, signal.Text) {
				optionalFound = true
			}
		case ruleset.SignalMinCount:
			if strings.Count(callStack, signal.Text) >= signal.Count {
				stackFound = true
			}
		case ruleset.SignalPlain:
			if strings.Contains(callStack, signal.Text) {
				stackFound = true
			}
		}
	}

	if hasRequired {
		return requiredMet
	}
	return optionalFound || stackFound
}

func suspectLine(name, severity string) string {
	padded := name
	if len(padded) < suspectNameWidth {
		padded += strings.Repeat(".", suspectNameWidth-len(padded))
	}
	return fmt.Sprintf("# Checking for %s SUSPECT FOUND! > Severity : %s # \n-----\n", padded, severity)
}
