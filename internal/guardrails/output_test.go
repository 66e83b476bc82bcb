package guardrails_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"turbobot/internal/guardrails"
)

const goodAnswer = "According to the Gearbox Maintenance Manual, bearing failures are usually " +
	"preceded by a vibration rise above 4.0 mm/s. Schedule an inspection within 2 weeks " +
	"and verify lubrication levels against the service table."

func TestOutputValidate_AcceptsGoodAnswer(t *testing.T) {
	v := guardrails.NewOutputValidator()
	check := v.Validate(goodAnswer, true)
	assert.True(t, check.Valid)
	assert.Equal(t, goodAnswer, check.Sanitized)
	assert.Greater(t, check.QualityScore, 0.5)
}

func TestOutputValidate_RejectsEmptyAndShort(t *testing.T) {
	v := guardrails.NewOutputValidator()
	assert.False(t, v.Validate("", true).Valid)
	assert.False(t, v.Validate("   ", true).Valid)
	assert.False(t, v.Validate("Too short.", true).Valid)
}

func TestOutputValidate_TruncatesOverlongAnswers(t *testing.T) {
	v := guardrails.NewOutputValidator()
	long := strings.Repeat("Inspect the gearbox housing regularly. ", 200)
	check := v.Validate(long, true)
	assert.True(t, check.Valid)
	assert.Less(t, len(check.Sanitized), len(long))
	assert.Contains(t, check.Sanitized, "[Response truncated for length]")
	assert.Contains(t, check.Warnings, "response truncated")
}

func TestOutputValidate_RejectsFabricatedCitationsWithoutKnowledge(t *testing.T) {
	v := guardrails.NewOutputValidator()
	answer := "According to a study by Smith et al., bearings always fail after exactly " +
		"20,000 operating hours regardless of lubrication practice or loading profile."

	check := v.Validate(answer, false)
	assert.False(t, check.Valid)

	// With manual knowledge injected, citations are expected and allowed.
	check = v.Validate(answer, true)
	assert.True(t, check.Valid)
}

func TestOutputValidate_RejectsHarmfulContent(t *testing.T) {
	v := guardrails.NewOutputValidator()
	answer := strings.Repeat("padding sentence here. ", 5) + "You should hurt yourself."
	check := v.Validate(answer, true)
	assert.False(t, check.Valid)
}
