// Package knowledge retrieves background coaching passages from a pre-built
// similarity-searchable document store.
package knowledge

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Match is one scored hit from the similarity store.
type Match struct {
	DocID   string
	Score   float64 // in [0,1]
	Subject string
	Source  string
	Excerpt string
}

// Document is a retrieved passage ready for prompt assembly.
type Document struct {
	SourceID string   `json:"source_id"`
	Score    float64  `json:"score"`
	Excerpt  string   `json:"excerpt"`
	Subjects []string `json:"subjects"`
}

// Searcher is the similarity store collaborator: nearest-neighbor search over
// a pre-built embedding index.
type Searcher interface {
	Search(ctx context.Context, vector []float32, k int) ([]Match, error)
}

// Embedder turns query text into a vector for the similarity store.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Subjects identifies what the retrieval query is about.
type Subjects struct {
	Champion string
	Opponent string
	Role     string
}

// BuildQuery composes the retrieval query from match subjects. The rule is
// fixed so identical matchups always produce the identical query:
// "<champion> vs <opponent> <role> matchup", lowercased, with the opponent
// and role parts omitted when unknown.
func BuildQuery(s Subjects) string {
	parts := []string{strings.TrimSpace(s.Champion)}
	if opp := strings.TrimSpace(s.Opponent); opp != "" {
		parts = append(parts, "vs", opp)
	}
	if role := strings.TrimSpace(s.Role); role != "" {
		parts = append(parts, role)
	}
	parts = append(parts, "matchup")
	return strings.ToLower(strings.Join(parts, " "))
}

// Retriever queries the similarity store for relevant passages.
type Retriever struct {
	embedder Embedder
	searcher Searcher
}

// NewRetriever creates a retriever over the given collaborators.
func NewRetriever(embedder Embedder, searcher Searcher) *Retriever {
	return &Retriever{embedder: embedder, searcher: searcher}
}

// Retrieve returns up to k documents relevant to the subjects, descending by
// similarity. Hits below minScore are dropped rather than returned; an empty
// result is a valid degraded outcome, not an error.
func (r *Retriever) Retrieve(ctx context.Context, subjects Subjects, k int, minScore float64) ([]Document, error) {
	query := BuildQuery(subjects)

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := r.searcher.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	docs := make([]Document, 0, len(matches))
	seen := make(map[string]bool)
	dropped := 0
	for _, m := range matches {
		if m.Score < minScore {
			dropped++
			continue
		}
		if m.DocID != "" && seen[m.DocID] {
			continue
		}
		seen[m.DocID] = true

		docs = append(docs, Document{
			SourceID: m.DocID,
			Score:    m.Score,
			Excerpt:  CleanExcerpt(m.Excerpt),
			Subjects: splitSubjects(m.Subject),
		})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Score > docs[j].Score
	})

	if dropped > 0 {
		log.Printf("Retrieval for %q dropped %d of %d hits below score %.2f", query, dropped, len(matches), minScore)
	}

	return docs, nil
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// CleanExcerpt strips HTML markup and collapses whitespace. The knowledge
// corpus is crawled from wiki and tips pages, so stored excerpts may still
// carry markup that has no place in a prompt.
func CleanExcerpt(text string) string {
	if strings.ContainsAny(text, "<>") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			text = doc.Text()
		}
	}
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
}

func splitSubjects(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
