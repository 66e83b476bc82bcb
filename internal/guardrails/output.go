package guardrails

import (
	"regexp"
	"strings"
)

// OutputCheck is the outcome of validating a generated answer before it is
// shown to the operator.
type OutputCheck struct {
	Valid        bool
	Reason       string
	Sanitized    string
	Warnings     []string
	QualityScore float64
}

// OutputValidator screens generated answers for harmful content, fabricated
// citations, and quality problems. Fabricated-citation checks only apply
// when no manual knowledge was injected; with knowledge present, citations
// are expected.
type OutputValidator struct {
	harmful       []*regexp.Regexp
	fakeCitations []*regexp.Regexp
	minLength     int
	maxLength     int
}

func NewOutputValidator() *OutputValidator {
	harmful := compileAll([]string{
		`(?i)self[- ]harm`,
		`(?i)kill yourself`,
		`(?i)end your life`,
		`(?i)hurt yourself`,
	})
	fake := compileAll([]string{
		`(?i)according to (?:a )?(?:study|research|paper) (?:by|from) \w+ et al\.`,
		`(?i)(?:researchers|scientists) at \w+ (?:university|institute) found`,
		`(?i)published in.*\d{4}`,
		`(?i)DOI:?\s*\d+`,
		`(?i)Journal of.*\d{4}`,
		`(?i)Proceedings of.*Conference`,
	})
	return &OutputValidator{
		harmful:       harmful,
		fakeCitations: fake,
		minLength:     50,
		maxLength:     3000,
	}
}

// Validate checks the answer and returns a sanitized version. Overlong
// answers are truncated with a warning rather than rejected.
func (v *OutputValidator) Validate(response string, knowledgeUsed bool) OutputCheck {
	sanitized := strings.TrimSpace(response)
	if sanitized == "" {
		return OutputCheck{Reason: "empty response generated"}
	}
	if len(sanitized) < v.minLength {
		return OutputCheck{Reason: "response too short", QualityScore: 0.3}
	}
	var warnings []string
	if len(sanitized) > v.maxLength {
		sanitized = sanitized[:v.maxLength] + "\n\n[Response truncated for length]"
		warnings = append(warnings, "response truncated")
	}
	for _, re := range v.harmful {
		if re.MatchString(sanitized) {
			return OutputCheck{Reason: "response contains harmful content"}
		}
	}
	if !knowledgeUsed {
		for _, re := range v.fakeCitations {
			if re.MatchString(sanitized) {
				return OutputCheck{Reason: "response contains unverified citations"}
			}
		}
	}
	lower := strings.ToLower(sanitized)
	for _, phrase := range []string{"i don't know", "i cannot help", "i'm not able to"} {
		if strings.Contains(lower, phrase) && len(sanitized) < 100 {
			warnings = append(warnings, "short refusal")
			break
		}
	}
	score := qualityScore(sanitized, knowledgeUsed)
	if score < 0.3 {
		warnings = append(warnings, "low quality response")
	}
	return OutputCheck{Valid: true, Sanitized: sanitized, Warnings: warnings, QualityScore: score}
}

func qualityScore(response string, knowledgeUsed bool) float64 {
	score := 0.5
	n := len(response)
	switch {
	case n >= 200 && n <= 1500:
		score += 0.2
	case (n >= 100 && n < 200) || (n > 1500 && n <= 2000):
		score += 0.1
	}
	lower := strings.ToLower(response)
	if knowledgeUsed && strings.Contains(lower, "according to") {
		score += 0.2
	}
	if strings.ContainsAny(response, "0123456789") {
		score += 0.1
	}
	if score > 1 {
		score = 1
	}
	return score
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}
