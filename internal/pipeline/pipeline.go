// Package pipeline orchestrates one match analysis: fetch, distill, detect,
// retrieve, synthesize.
package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/riftcoach/internal/analysis"
	"github.com/riftcoach/internal/config"
	"github.com/riftcoach/internal/report"
	"github.com/riftcoach/internal/services/knowledge"
	"github.com/riftcoach/internal/services/riot"
)

// WarnLimitedKnowledge flags a report generated without retrieved context.
const WarnLimitedKnowledge = "limited knowledge context"

// MatchProvider is the match-data collaborator.
type MatchProvider interface {
	FetchMatchSummary(ctx context.Context, matchID string) (*riot.MatchSummary, error)
	FetchTimeline(ctx context.Context, matchID string) (*riot.TimelineResponse, error)
}

// DocumentRetriever is the knowledge retrieval collaborator.
type DocumentRetriever interface {
	Retrieve(ctx context.Context, subjects knowledge.Subjects, k int, minScore float64) ([]knowledge.Document, error)
}

// Cache is the optional report cache collaborator.
type Cache interface {
	Get(ctx context.Context, matchID string, participantID int) (*report.Report, error)
	Set(ctx context.Context, r *report.Report) error
}

// Options are the per-request analysis knobs. Zero values fall back to the
// configured defaults.
type Options struct {
	MergeWindowSeconds int
	TopTurningPoints   int
	RetrievalK         int
	MinSimilarity      float64
}

func (o Options) withDefaults(cfg *config.Config) Options {
	if o.MergeWindowSeconds <= 0 {
		o.MergeWindowSeconds = cfg.MergeWindowSeconds
	}
	if o.TopTurningPoints <= 0 {
		o.TopTurningPoints = cfg.TopTurningPoints
	}
	if o.RetrievalK <= 0 {
		o.RetrievalK = cfg.RetrievalK
	}
	if o.MinSimilarity <= 0 {
		o.MinSimilarity = cfg.MinSimilarity
	}
	return o
}

// Analyzer runs the analysis pipeline against injected collaborators.
type Analyzer struct {
	cfg       *config.Config
	provider  MatchProvider
	retriever DocumentRetriever
	generator report.Generator
	cache     Cache
	weights   analysis.Weights
}

// NewAnalyzer creates an analyzer. Retriever and cache may be nil; the
// pipeline then runs in stats-only and uncached mode respectively.
func NewAnalyzer(cfg *config.Config, provider MatchProvider, retriever DocumentRetriever, generator report.Generator, cache Cache) *Analyzer {
	return &Analyzer{
		cfg:       cfg,
		provider:  provider,
		retriever: retriever,
		generator: generator,
		cache:     cache,
		weights:   analysis.DefaultWeights(),
	}
}

type retrievalResult struct {
	docs []knowledge.Document
	err  error
}

// AnalyzeMatch produces a coaching report for one participant of one match.
// Retrieval runs concurrently with timeline distillation and turning-point
// detection; the two joins before synthesis are the only synchronization.
func (a *Analyzer) AnalyzeMatch(ctx context.Context, matchID string, targetParticipantID int, opts Options) (*report.Report, error) {
	opts = opts.withDefaults(a.cfg)

	if a.cache != nil {
		if cached, err := a.cache.Get(ctx, matchID, targetParticipantID); err != nil {
			log.Printf("Cache lookup failed for %s: %v", matchID, err)
		} else if cached != nil {
			log.Printf("Report cache hit for %s participant %d", matchID, targetParticipantID)
			return cached, nil
		}
	}

	// The roster is needed both for retrieval subjects and for distillation,
	// so the summary fetch comes first; everything downstream fans out.
	summary, err := a.provider.FetchMatchSummary(ctx, matchID)
	if err != nil {
		return nil, classifyFetchErr(matchID, err)
	}

	target, opponent, ok := findMatchup(summary, targetParticipantID)
	if !ok {
		return nil, analysisErr(KindDataUnavailable, "target participant not in match", nil)
	}

	// Mandated concurrency point: retrieval has no dependency on the
	// timeline and runs alongside fetch + distill + detect.
	retrievalCh := make(chan retrievalResult, 1)
	go func() {
		retrievalCh <- a.retrieve(ctx, target, opponent, opts)
	}()

	series, detection, err := a.distillAndDetect(ctx, matchID, summary, opts)
	if err != nil {
		return nil, err
	}

	warnings := append([]string(nil), detection.Warnings...)

	retrieval := <-retrievalCh
	if retrieval.err != nil {
		log.Printf("Retrieval degraded for %s: %v", matchID, retrieval.err)
		retrieval.docs = nil
	}
	if len(retrieval.docs) == 0 {
		warnings = append(warnings, WarnLimitedKnowledge)
	}

	if err := ctx.Err(); err != nil {
		return nil, analysisErr(KindInternal, "analysis cancelled", err)
	}

	in := report.Input{
		MatchID:          matchID,
		ParticipantID:    targetParticipantID,
		Champion:         target.ChampionName,
		Opponent:         opponentChampion(opponent),
		Role:             target.TeamPosition,
		Win:              target.Win,
		DurationMin:      float64(summary.Info.GameDuration) / 60.0,
		Stats:            analysis.Summarize(series, targetParticipantID),
		TurningPoints:    detection.TurningPoints,
		Documents:        retrieval.docs,
		TopTurningPoints: opts.TopTurningPoints,
		Warnings:         warnings,
	}

	rep, err := report.Synthesize(ctx, a.generator, in)
	if err != nil {
		return nil, classifyGenerationErr(err)
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, rep); err != nil {
			log.Printf("Failed to cache report for %s: %v", matchID, err)
		}
	}

	return rep, nil
}

// distillAndDetect fetches the timeline and runs the pure computation stages.
func (a *Analyzer) distillAndDetect(ctx context.Context, matchID string, summary *riot.MatchSummary, opts Options) (*analysis.Series, *analysis.Detection, error) {
	raw, err := a.provider.FetchTimeline(ctx, matchID)
	if err != nil {
		return nil, nil, classifyFetchErr(matchID, err)
	}

	tl, err := analysis.ConvertTimeline(summary, raw)
	if err != nil {
		return nil, nil, analysisErr(KindDataUnavailable, "empty timeline", err)
	}

	series, err := analysis.Distill(tl, nil)
	if err != nil {
		return nil, nil, analysisErr(KindDataUnavailable, "distillation failed", err)
	}

	detection, err := analysis.Detect(tl, series, analysis.DetectOptions{
		MergeWindow: time.Duration(opts.MergeWindowSeconds) * time.Second,
		Weights:     a.weights,
	})
	if err != nil {
		return nil, nil, analysisErr(KindInternal, "detection failed", err)
	}

	return series, detection, nil
}

// retrieve runs the knowledge query under its own timeout. Failures degrade
// to stats-only mode; they are never fatal.
func (a *Analyzer) retrieve(ctx context.Context, target riot.Participant, opponent *riot.Participant, opts Options) retrievalResult {
	if a.retriever == nil {
		return retrievalResult{}
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.RetrievalTimeout)
	defer cancel()

	subjects := knowledge.Subjects{
		Champion: target.ChampionName,
		Opponent: opponentChampion(opponent),
		Role:     target.TeamPosition,
	}

	docs, err := a.retriever.Retrieve(ctx, subjects, opts.RetrievalK, opts.MinSimilarity)
	return retrievalResult{docs: docs, err: err}
}

// findMatchup locates the target participant and their positional opponent.
func findMatchup(summary *riot.MatchSummary, targetID int) (riot.Participant, *riot.Participant, bool) {
	var target riot.Participant
	found := false
	for _, p := range summary.Info.Participants {
		if p.ParticipantID == targetID {
			target = p
			found = true
			break
		}
	}
	if !found {
		return riot.Participant{}, nil, false
	}

	if target.TeamPosition != "" {
		for i := range summary.Info.Participants {
			p := &summary.Info.Participants[i]
			if p.TeamID != target.TeamID && p.TeamPosition == target.TeamPosition {
				return target, p, true
			}
		}
	}
	return target, nil, true
}

func opponentChampion(p *riot.Participant) string {
	if p == nil {
		return ""
	}
	return p.ChampionName
}

func classifyFetchErr(matchID string, err error) *AnalysisError {
	switch {
	case errors.Is(err, riot.ErrNotFound):
		return analysisErr(KindDataUnavailable, "match "+matchID+" not found", err)
	case errors.Is(err, riot.ErrRateLimited):
		return analysisErr(KindDataUnavailable, "provider rate limited", err)
	default:
		return analysisErr(KindDataUnavailable, "match data fetch failed", err)
	}
}

func classifyGenerationErr(err error) *AnalysisError {
	var malformed *report.MalformedError
	if errors.As(err, &malformed) {
		return &AnalysisError{
			Kind:          KindGenerationMalformed,
			Message:       malformed.Reason,
			Err:           err,
			RawGeneration: malformed.Raw,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return analysisErr(KindGenerationTimeout, "generation timed out after retry", err)
	}
	if errors.Is(err, context.Canceled) {
		return analysisErr(KindInternal, "analysis cancelled", err)
	}
	return analysisErr(KindGenerationTimeout, "generation failed after retry", err)
}
