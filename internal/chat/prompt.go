package chat

import (
	"fmt"
	"strings"

	"turbobot/internal/assembler"
	"turbobot/internal/memory"
	"turbobot/internal/telemetry"
)

// PromptInput is everything merged into a single generation prompt: the live
// telemetry snapshot, the retrieved manual context, and recent conversation
// turns. Context equal to the assembler's empty marker means no relevant
// knowledge was found; the knowledge section is then omitted entirely rather
// than rendered as a blank block.
type PromptInput struct {
	Snapshot telemetry.Snapshot
	Context  string
	History  []memory.Message
}

// KnowledgeUsed reports whether the prompt will carry a knowledge section.
func (in PromptInput) KnowledgeUsed() bool {
	return in.Context != "" && in.Context != assembler.EmptyContextMarker
}

// BuildSystemPrompt renders the system prompt for the assistant. There are
// two shapes: with manual knowledge (citations mandatory) and without
// (the answer must be flagged as general expertise).
func BuildSystemPrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString("You are TurboBot, an expert wind turbine maintenance assistant.\n\n")
	writeTelemetry(&b, in.Snapshot)

	if in.KnowledgeUsed() {
		b.WriteString("\nRELEVANT KNOWLEDGE FROM MAINTENANCE MANUALS:\n")
		b.WriteString(in.Context)
		b.WriteString("\n\nGUIDELINES:\n")
		b.WriteString("- Cite the source manual when using information from it (\"According to <manual>, ...\").\n")
		b.WriteString("- Always cite when mentioning costs, procedures, or technical specifications.\n")
		b.WriteString("- Do not invent studies or cite sources not present in the manuals above.\n")
		b.WriteString("- Start with a direct answer, compare readings to normal ranges, end with actionable recommendations.\n")
	} else {
		b.WriteString("\nNo specific manual knowledge was found for this query.\n\nGUIDELINES:\n")
		b.WriteString("- Begin your response with: \"Note: this answer is based on general wind turbine expertise rather than specific maintenance manual procedures.\"\n")
		b.WriteString("- Do not invent specific costs or cite made-up sources.\n")
		b.WriteString("- Provide ranges rather than specific values and recommend verifying against the manuals.\n")
	}

	b.WriteString("\nNORMAL OPERATING RANGES:\n")
	b.WriteString("- Temperature: 40-60°C normal, 60-70 monitor, 70-75 warning, >75 critical\n")
	b.WriteString("- Vibration: 1.0-3.5 mm/s normal, 3.5-4.0 monitor, 4.0-7.0 warning, >7.0 critical\n")
	b.WriteString("- Power: cubic with wind speed, max 2000 kW at >=12 m/s\n")

	if len(in.History) > 0 {
		b.WriteString("\nRECENT CONVERSATION:\n")
		for _, m := range in.History {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
	}
	return b.String()
}

func writeTelemetry(b *strings.Builder, s telemetry.Snapshot) {
	if s.Count == 0 {
		b.WriteString("CURRENT TURBINE STATUS: no telemetry available.\n")
		return
	}
	b.WriteString("CURRENT TURBINE STATUS:\n")
	fmt.Fprintf(b, "- Power output: %.1f kW\n", s.Latest.PowerOutput)
	fmt.Fprintf(b, "- Wind speed: %.1f m/s\n", s.Latest.WindSpeed)
	fmt.Fprintf(b, "- Temperature: %.1f°C (%s)\n", s.Latest.Temperature, s.TemperatureLevel)
	fmt.Fprintf(b, "- Vibration: %.2f mm/s (%s)\n", s.Latest.Vibration, s.VibrationLevel)
	fmt.Fprintf(b, "\nRECENT TRENDS (last %d readings):\n", s.Count)
	fmt.Fprintf(b, "- Average power: %.1f kW\n", s.AvgPower)
	fmt.Fprintf(b, "- Average wind: %.1f m/s\n", s.AvgWind)
	fmt.Fprintf(b, "- Maximum temperature: %.1f°C\n", s.MaxTemperature)
	fmt.Fprintf(b, "- Maximum vibration: %.2f mm/s\n", s.MaxVibration)
}

// Fallback is the deterministic answer used when generation fails or is
// rejected by output validation.
func Fallback(s telemetry.Snapshot) string {
	var issues []string
	if s.Latest.Temperature > 70 {
		issues = append(issues, "- Temperature elevated (>70°C)")
	}
	if s.Latest.Vibration > 4.0 {
		issues = append(issues, "- Vibration high (>4.0 mm/s)")
	}
	status := "All monitored parameters are within normal ranges."
	if len(issues) > 0 {
		status = strings.Join(issues, "\n")
	}
	return fmt.Sprintf(`TurboBot automated analysis

Current status:
- Power: %.1f kW
- Temperature: %.1f°C
- Vibration: %.2f mm/s

Assessment:
%s

Normal ranges: temperature 40-60°C (warning >70), vibration 1.0-3.5 mm/s (warning >4.0).

The AI assistant is temporarily unavailable; this is an automated reading.`,
		s.Latest.PowerOutput, s.Latest.Temperature, s.Latest.Vibration, status)
}
