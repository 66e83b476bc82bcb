package chat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"turbobot/internal/assembler"
	"turbobot/internal/chat"
	"turbobot/internal/memory"
	"turbobot/internal/telemetry"
)

func snapshot() telemetry.Snapshot {
	return telemetry.Summarize([]telemetry.Reading{
		{PowerOutput: 1500, WindSpeed: 11, Temperature: 58, Vibration: 2.4},
	})
}

func TestBuildSystemPrompt_WithKnowledge(t *testing.T) {
	in := chat.PromptInput{
		Snapshot: snapshot(),
		Context:  "[Source 1: manuals/gearbox.txt] (relevance 0.82)\nBearing wear details.",
	}
	assert.True(t, in.KnowledgeUsed())

	prompt := chat.BuildSystemPrompt(in)
	assert.Contains(t, prompt, "RELEVANT KNOWLEDGE FROM MAINTENANCE MANUALS")
	assert.Contains(t, prompt, "manuals/gearbox.txt")
	assert.Contains(t, prompt, "Cite the source manual")
	assert.NotContains(t, prompt, "No specific manual knowledge")
}

func TestBuildSystemPrompt_EmptyMarkerOmitsKnowledgeSection(t *testing.T) {
	in := chat.PromptInput{Snapshot: snapshot(), Context: assembler.EmptyContextMarker}
	assert.False(t, in.KnowledgeUsed())

	prompt := chat.BuildSystemPrompt(in)
	assert.NotContains(t, prompt, "RELEVANT KNOWLEDGE FROM MAINTENANCE MANUALS")
	assert.NotContains(t, prompt, assembler.EmptyContextMarker,
		"the marker itself must never leak into the prompt")
	assert.Contains(t, prompt, "No specific manual knowledge was found")
	assert.Contains(t, prompt, "general wind turbine expertise")
}

func TestBuildSystemPrompt_IncludesTelemetryAndHistory(t *testing.T) {
	in := chat.PromptInput{
		Snapshot: snapshot(),
		Context:  assembler.EmptyContextMarker,
		History: []memory.Message{
			{Role: "user", Content: "earlier question about yaw"},
			{Role: "assistant", Content: "earlier answer"},
		},
	}
	prompt := chat.BuildSystemPrompt(in)
	assert.Contains(t, prompt, "1500.0 kW")
	assert.Contains(t, prompt, "RECENT CONVERSATION")
	assert.Contains(t, prompt, "earlier question about yaw")
}

func TestBuildSystemPrompt_NoTelemetry(t *testing.T) {
	prompt := chat.BuildSystemPrompt(chat.PromptInput{Context: assembler.EmptyContextMarker})
	assert.Contains(t, prompt, "no telemetry available")
}

func TestFallback(t *testing.T) {
	calm := chat.Fallback(snapshot())
	assert.Contains(t, calm, "within normal ranges")

	hot := chat.Fallback(telemetry.Summarize([]telemetry.Reading{
		{PowerOutput: 900, Temperature: 78, Vibration: 5.2},
	}))
	assert.Contains(t, hot, "Temperature elevated")
	assert.Contains(t, hot, "Vibration high")
}
