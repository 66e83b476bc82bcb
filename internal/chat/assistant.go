package chat

import (
	"context"
	"fmt"
	"strings"

	"turbobot/internal/guardrails"
	"turbobot/internal/memory"
	"turbobot/internal/pipeline"
	"turbobot/internal/telemetry"
)

// Reply is the assistant's answer to one operator question, with the
// guardrail verdicts that shaped it.
type Reply struct {
	Text          string
	KnowledgeUsed bool
	OffTopic      bool
	Rejected      bool
	Reason        string
	Warnings      []string
}

// Assistant runs the full question flow: input guardrails, topic check,
// retrieval, prompt construction, generation, output guardrails, and
// conversation memory. The retrieval pipeline must be Ready; a query before
// that fails fast rather than blocking.
type Assistant struct {
	pipe      *pipeline.Pipeline
	engine    *Engine
	input     *guardrails.InputValidator
	output    *guardrails.OutputValidator
	store     *memory.Store // nil disables persistence
	sessionID string

	topK        int
	minScore    float64
	maxMessages int
}

// NewAssistant wires the assistant. store may be nil when conversation
// persistence is not wanted (tests, one-shot queries).
func NewAssistant(pipe *pipeline.Pipeline, engine *Engine, store *memory.Store, topK int, minScore float64, maxMessages int) *Assistant {
	return &Assistant{
		pipe:        pipe,
		engine:      engine,
		input:       guardrails.NewInputValidator(),
		output:      guardrails.NewOutputValidator(),
		store:       store,
		topK:        topK,
		minScore:    minScore,
		maxMessages: maxMessages,
	}
}

// StartSession opens a new conversation session in the store.
func (a *Assistant) StartSession(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	id, err := a.store.CreateSession(ctx)
	if err != nil {
		return err
	}
	a.sessionID = id
	return nil
}

// Ask answers one question given the current telemetry window.
func (a *Assistant) Ask(ctx context.Context, question string, readings []telemetry.Reading) (Reply, error) {
	check := a.input.Validate(question)
	if !check.Valid {
		return Reply{Rejected: true, Reason: check.Reason, Warnings: check.Warnings}, nil
	}
	if !check.OnTopic {
		return Reply{
			OffTopic: true,
			Reason:   check.TopicReason,
			Text:     offTopicText(check.TopicReason, a.input.Suggestions()),
		}, nil
	}
	question = check.Sanitized

	// Zero results is not an error: the knowledge section is simply omitted.
	contextBlock, err := a.pipe.RetrieveContext(question, a.topK, a.minScore)
	if err != nil {
		return Reply{}, fmt.Errorf("retrieve context: %w", err)
	}

	snapshot := telemetry.Summarize(readings)
	in := PromptInput{Snapshot: snapshot, Context: contextBlock}
	if a.store != nil && a.sessionID != "" {
		history, err := a.store.Recent(ctx, a.sessionID, a.maxMessages)
		if err == nil {
			in.History = history
		}
	}

	answer, err := a.engine.Ask(ctx, question, in)
	if err != nil {
		return Reply{}, err
	}

	reply := Reply{Text: answer.Text, KnowledgeUsed: answer.KnowledgeUsed, Warnings: check.Warnings}
	if !answer.Fallback {
		out := a.output.Validate(answer.Text, answer.KnowledgeUsed)
		if !out.Valid {
			reply.Text = Fallback(snapshot)
			reply.KnowledgeUsed = false
			reply.Warnings = append(reply.Warnings, out.Reason)
		} else {
			reply.Text = out.Sanitized
			reply.Warnings = append(reply.Warnings, out.Warnings...)
		}
	}

	if a.store != nil && a.sessionID != "" {
		if err := a.store.AddInteraction(ctx, a.sessionID, question, reply.Text); err != nil {
			reply.Warnings = append(reply.Warnings, "conversation not persisted")
		}
	}
	return reply, nil
}

func offTopicText(reason string, suggestions []string) string {
	var b strings.Builder
	b.WriteString("I can only help with wind turbine maintenance and operations (")
	b.WriteString(reason)
	b.WriteString(").\n\nTry asking:\n")
	for _, s := range suggestions {
		b.WriteString("- ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String()
}
