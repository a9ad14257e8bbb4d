package services

import (
	"github.com/pmezard/go-difflib/difflib"
)

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 3

// UnifiedDiff renders a unified line diff of expected against actual.
// It returns "" when the texts are equal.
func UnifiedDiff(expected, actual, name string) string {
	if expected == actual {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: name + " (baseline)",
		ToFile:   name + " (current)",
		Context:  diffContext,
	})
	if err != nil {
		return ""
	}
	return diff
}
