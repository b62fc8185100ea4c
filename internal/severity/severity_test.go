package severity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/interworky/error-tracker/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		category model.Category
		override model.Severity
		want     model.Severity
	}{
		{"override-wins", "Critical memory leak", model.CategoryConsoleError, model.SeverityLow, model.SeverityLow},
		{"critical-keyword-beats-category", "Critical memory leak in handler", model.CategoryConsoleError, "", model.SeverityCritical},
		{"critical-keyword-case-insensitive", "FATAL: renderer crashed", model.CategoryConsoleLog, "", model.SeverityCritical},
		{"out-of-memory", "Out of memory while decoding", model.CategoryResourceError, "", model.SeverityCritical},
		{"unhandled-category", "TypeError: x is undefined", model.CategoryUnhandledException, "", model.SeverityHigh},
		{"promise-rejection-category", "rejected with undefined", model.CategoryPromiseRejection, "", model.SeverityHigh},
		{"high-keyword", "fetch failed", model.CategoryConsoleLog, "", model.SeverityHigh},
		{"high-keyword-beats-medium-category", "request timeout", model.CategoryConsoleError, "", model.SeverityHigh},
		{"console-error-default", "something odd", model.CategoryConsoleError, "", model.SeverityMedium},
		{"resource-error", "img not loaded", model.CategoryResourceError, "", model.SeverityMedium},
		{"performance-issue", "slow paint: Xms", model.CategoryPerformanceIssue, "", model.SeverityMedium},
		{"console-warn-no-keywords", "heads up", model.CategoryConsoleWarn, "", model.SeverityLow},
		{"low-keyword", "deprecated API used", model.CategoryConsoleLog, "", model.SeverityLow},
		{"safe-default", "hello", model.CategoryConsoleLog, "", model.SeverityMedium},
		{"invalid-override-ignored", "hello", model.CategoryConsoleWarn, model.Severity("urgent"), model.SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message, tt.category, tt.override))
		})
	}
}
