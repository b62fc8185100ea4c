// Package severity maps error reports to one of four severity tiers.
//
// Rules are evaluated in order and the first match wins:
//
//	explicit override
//	critical keyword in message                       -> critical
//	unhandled_exception | promise_rejection           -> high
//	high-signal keyword in message                    -> high
//	console_error | resource_error | performance_issue -> medium
//	console_warn                                      -> low
//	low-signal keyword in message                     -> low
//	otherwise                                         -> medium
package severity

import (
	"strings"

	"github.com/interworky/error-tracker/internal/model"
)

var (
	criticalKeywords = []string{"security", "vulnerability", "critical", "fatal", "crash", "memory leak", "out of memory"}
	highKeywords     = []string{"unhandled", "exception", "uncaught", "failed", "timeout", "network error"}
	lowKeywords      = []string{"warning", "deprecated", "info", "debug"}
)

// Classify returns the severity for a report. A valid override short-circuits every rule.
func Classify(message string, category model.Category, override model.Severity) model.Severity {
	if isValid(override) {
		return override
	}

	msg := strings.ToLower(message)

	if containsAny(msg, criticalKeywords) {
		return model.SeverityCritical
	}

	switch category {
	case model.CategoryUnhandledException, model.CategoryPromiseRejection:
		return model.SeverityHigh
	}

	if containsAny(msg, highKeywords) {
		return model.SeverityHigh
	}

	switch category {
	case model.CategoryConsoleError, model.CategoryResourceError, model.CategoryPerformanceIssue:
		return model.SeverityMedium
	case model.CategoryConsoleWarn:
		return model.SeverityLow
	}

	if containsAny(msg, lowKeywords) {
		return model.SeverityLow
	}

	return model.SeverityMedium
}

func isValid(s model.Severity) bool {
	switch s {
	case model.SeverityCritical, model.SeverityHigh, model.SeverityMedium, model.SeverityLow:
		return true
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
