// Package report assembles coaching reports from distilled match facts,
// ranked turning points, and retrieved knowledge.
package report

import (
	"time"

	"github.com/riftcoach/internal/analysis"
	"github.com/riftcoach/internal/services/knowledge"
)

// MaxVerdictLen bounds the one-line verdict.
const MaxVerdictLen = 120

// FeedbackItem is one actionable recommendation tied to a turning point or a
// stat deviation.
type FeedbackItem struct {
	Topic          string `json:"topic"`
	Recommendation string `json:"recommendation"`
}

// Report is the final structured output of the pipeline. It is a value
// object owned by the caller; the pipeline never mutates it after creation.
type Report struct {
	ID            string         `json:"id"`
	MatchID       string         `json:"match_id"`
	ParticipantID int            `json:"participant_id"`
	Verdict       string         `json:"verdict"`
	Feedback      []FeedbackItem `json:"feedback"`
	Warnings      []string       `json:"warnings,omitempty"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// Input carries everything the synthesizer needs. The raw timeline is
// deliberately absent; only the distilled facts travel into the prompt.
type Input struct {
	MatchID       string
	ParticipantID int
	Champion      string
	Opponent      string
	Role          string
	Win           bool
	DurationMin   float64

	Stats         analysis.Summary
	TurningPoints []analysis.TurningPoint
	Documents     []knowledge.Document

	// TopTurningPoints bounds how many turning points enter the prompt
	// (default 3 when zero).
	TopTurningPoints int

	// Warnings accumulated upstream (data quality, degraded retrieval);
	// copied onto the report.
	Warnings []string
}
