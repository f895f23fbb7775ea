package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator is the text-generation capability. The pipeline supplies a real
// LLM client; tests supply a deterministic stub. The retry and validation
// loop lives here, not in the capability.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// MalformedError is returned when the generated text fails structural
// validation after the retry budget is exhausted. Raw carries the last
// generation attempt for diagnostics.
type MalformedError struct {
	Reason string
	Raw    string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("generated report failed validation: %s", e.Reason)
}

// generated is the wire shape the model is instructed to produce.
type generated struct {
	Verdict  string         `json:"verdict"`
	Feedback []FeedbackItem `json:"feedback"`
}

// Synthesize builds the prompt, invokes the generator, and parses the result
// into a validated Report. One retry with a stricter instruction is allowed;
// a second structural failure fails closed. Prompt construction is
// deterministic; the generation call is the only non-deterministic step.
func Synthesize(ctx context.Context, gen Generator, in Input) (*Report, error) {
	prompt := buildPrompt(in)

	text, err := gen.Generate(ctx, prompt)
	var reason string
	var rep *Report
	if err == nil {
		rep, reason = parseReport(text, in)
		if rep != nil {
			return rep, nil
		}
		log.Printf("Generated report invalid (%s), retrying with stricter instruction", reason)
	} else {
		reason = err.Error()
		log.Printf("Generation failed (%v), retrying once", err)
	}

	// Bounded retry: one attempt with the stricter instruction appended.
	text, err = gen.Generate(ctx, prompt+stricterInstruction)
	if err != nil {
		return nil, fmt.Errorf("generation retry failed: %w", err)
	}

	rep, reason = parseReport(text, in)
	if rep == nil {
		return nil, &MalformedError{Reason: reason, Raw: text}
	}
	return rep, nil
}

// parseReport parses and validates generated text. On failure it returns a
// nil report and the validation reason.
func parseReport(text string, in Input) (*Report, string) {
	var g generated
	if err := json.Unmarshal([]byte(text), &g); err != nil {
		return nil, fmt.Sprintf("invalid JSON: %v", err)
	}

	g.Verdict = strings.TrimSpace(g.Verdict)
	if g.Verdict == "" {
		return nil, "verdict is empty"
	}
	if strings.ContainsRune(g.Verdict, '\n') {
		return nil, "verdict is not a single line"
	}
	if len([]rune(g.Verdict)) > MaxVerdictLen {
		return nil, fmt.Sprintf("verdict exceeds %d characters", MaxVerdictLen)
	}

	var feedback []FeedbackItem
	for _, f := range g.Feedback {
		f.Topic = strings.TrimSpace(f.Topic)
		f.Recommendation = strings.TrimSpace(f.Recommendation)
		if f.Topic == "" || f.Recommendation == "" {
			continue
		}
		feedback = append(feedback, f)
	}
	if len(feedback) == 0 {
		return nil, "no feedback items"
	}

	return &Report{
		ID:            uuid.New().String(),
		MatchID:       in.MatchID,
		ParticipantID: in.ParticipantID,
		Verdict:       g.Verdict,
		Feedback:      feedback,
		Warnings:      append([]string(nil), in.Warnings...),
		GeneratedAt:   time.Now().UTC(),
	}, ""
}
