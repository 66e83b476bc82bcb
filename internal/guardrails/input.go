package guardrails

import (
	"regexp"
	"strings"
	"unicode"
)

// InputCheck is the outcome of validating a user question before it reaches
// retrieval or generation.
type InputCheck struct {
	Valid           bool
	Reason          string
	Sanitized       string
	OnTopic         bool
	TopicConfidence float64
	TopicReason     string
	Warnings        []string
}

// InputValidator screens questions for injection attempts, inappropriate
// content, spam patterns, and topic relevance against turbine vocabulary.
type InputValidator struct {
	blocked       []*regexp.Regexp
	inappropriate []string
	onTopic       []string
	offTopic      []string
	general       []string
	minLength     int
	maxLength     int
}

func NewInputValidator() *InputValidator {
	blocked := []string{
		`(?i)<script[^>]*>`,
		`(?i)javascript:`,
		`(?i)onerror\s*=`,
		`(?i)onclick\s*=`,
		`(?i)<iframe`,
		`(?i);\s*drop\s+table`,
		`(?i)union\s+select`,
		`(?i);\s*rm\s+-rf`,
		"`.*`",
		`\$\(.*\)`,
		`\.\./\.\.`,
	}
	compiled := make([]*regexp.Regexp, len(blocked))
	for i, p := range blocked {
		compiled[i] = regexp.MustCompile(p)
	}
	return &InputValidator{
		blocked: compiled,
		inappropriate: []string{
			"porn", "xxx", "nsfw", "cocaine", "heroin",
			"bomb", "explosive", "murder", "suicide",
		},
		onTopic: []string{
			"turbine", "wind", "rotor", "blade", "nacelle", "tower",
			"gearbox", "generator", "bearing", "shaft", "hub",
			"pitch", "yaw", "brake",
			"power", "output", "generation", "performance", "capacity",
			"rpm", "rotation", "speed", "production", "efficiency",
			"maintenance", "repair", "inspection", "service", "failure",
			"diagnostic", "troubleshoot", "replace", "fix", "check",
			"lubrication", "oil", "grease",
			"temperature", "vibration", "pressure", "voltage", "current",
			"sensor", "reading", "measurement", "monitor", "data",
			"alarm", "fault", "error", "warning", "problem", "issue",
			"noise", "leak", "damage", "wear", "crack", "corrosion",
			"cost", "price", "expense", "budget", "downtime", "schedule",
			"status", "health", "condition", "state", "operating",
			"shutdown", "startup", "running", "stopped",
		},
		offTopic: []string{
			"weather", "forecast", "recipe", "cooking", "movie", "game",
			"sport", "politics", "stock", "bitcoin", "crypto",
			"car", "airplane", "ship", "train", "boat",
		},
		general: []string{
			"what can you", "help me", "tell me about", "explain",
			"how does", "what is", "show me", "analyze", "status",
			"current", "check", "look at",
		},
		minLength: 3,
		maxLength: 500,
	}
}

// Validate sanitizes and screens the question, then scores topic relevance.
// A question that fails validation must never reach retrieval or generation.
func (v *InputValidator) Validate(question string) InputCheck {
	sanitized := strings.TrimSpace(question)
	if sanitized == "" {
		return InputCheck{Reason: "question cannot be empty"}
	}
	if len(sanitized) < v.minLength {
		return InputCheck{Reason: "question too short"}
	}
	if len(sanitized) > v.maxLength {
		return InputCheck{Reason: "question too long"}
	}
	for _, re := range v.blocked {
		if re.MatchString(sanitized) {
			return InputCheck{Reason: "potential security risk detected", Warnings: []string{"security violation"}}
		}
	}
	lower := strings.ToLower(sanitized)
	for _, kw := range v.inappropriate {
		if strings.Contains(lower, kw) {
			return InputCheck{Reason: "question contains inappropriate content"}
		}
	}
	if specialCharRatio(sanitized) > 0.3 {
		return InputCheck{Reason: "question contains too many special characters", Warnings: []string{"possible spam"}}
	}
	if hasRepeatedRun(sanitized, 11) {
		return InputCheck{Reason: "invalid input format", Warnings: []string{"spam pattern"}}
	}

	check := InputCheck{Valid: true, Sanitized: sanitized}
	if len(sanitized) > 10 && capsRatio(sanitized) > 0.7 {
		check.Warnings = append(check.Warnings, "excessive capitalization")
	}
	check.OnTopic, check.TopicConfidence, check.TopicReason = v.topicRelevance(lower)
	return check
}

func (v *InputValidator) topicRelevance(lower string) (bool, float64, string) {
	on := 0
	for _, kw := range v.onTopic {
		if strings.Contains(lower, kw) {
			on++
		}
	}
	off := 0
	for _, kw := range v.offTopic {
		if strings.Contains(lower, kw) {
			off++
		}
	}
	if off > 0 && on == 0 {
		return false, 0.9, "question appears unrelated to wind turbines"
	}
	if on == 0 {
		for _, phrase := range v.general {
			if strings.Contains(lower, phrase) {
				return true, 0.5, "general question accepted"
			}
		}
		return false, 0.7, "no turbine-related keywords found"
	}
	conf := float64(on) * 0.25
	if conf > 1 {
		conf = 1
	}
	return true, conf, "turbine-related keywords found"
}

// Suggestions returns example on-topic questions, shown when a question is
// rejected as off-topic.
func (v *InputValidator) Suggestions() []string {
	return []string{
		"What causes high vibration in wind turbines?",
		"Analyze my current turbine performance",
		"What are the symptoms of bearing failure?",
		"How much does gearbox maintenance cost?",
		"What maintenance is due this month?",
	}
}

func specialCharRatio(s string) float64 {
	special := 0
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			special++
		}
	}
	return float64(special) / float64(len([]rune(s)))
}

func capsRatio(s string) float64 {
	upper := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(len([]rune(s)))
}

func hasRepeatedRun(s string, n int) bool {
	run := 0
	var prev rune
	for i, r := range s {
		if i > 0 && r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 1
		}
		prev = r
	}
	return false
}
