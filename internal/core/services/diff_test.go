package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnifiedDiff(t *testing.T) {
	expected := "{\n  \"tag\": \"w:p\",\n  \"children\": [\n    \"Hello\"\n  ]\n}\n"
	actual := "{\n  \"tag\": \"w:p\",\n  \"children\": [\n    \"Goodbye\"\n  ]\n}\n"

	diff := UnifiedDiff(expected, actual, "doc.snap")

	assert.Contains(t, diff, "--- doc.snap (baseline)")
	assert.Contains(t, diff, "+++ doc.snap (current)")
	assert.Contains(t, diff, "-    \"Hello\"")
	assert.Contains(t, diff, "+    \"Goodbye\"")
}

func TestUnifiedDiff_Equal(t *testing.T) {
	assert.Empty(t, UnifiedDiff("same\n", "same\n", "doc.snap"))
}
