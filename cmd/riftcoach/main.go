// riftcoach - one-shot match coaching analysis.
// Fetches a match timeline, distills it, finds the turning points, pulls
// matchup knowledge, and prints a generated coaching report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/riftcoach/internal/config"
	"github.com/riftcoach/internal/pipeline"
	"github.com/riftcoach/internal/report"
	"github.com/riftcoach/internal/services/ai"
	"github.com/riftcoach/internal/services/knowledge"
	"github.com/riftcoach/internal/services/riot"
	"github.com/riftcoach/internal/storage"
)

func main() {
	matchID := flag.String("match", "", "match id to analyze (required)")
	participantID := flag.Int("participant", 0, "target participant id 1-10 (required)")
	mergeWindow := flag.Int("merge-window", 0, "turning point merge window in seconds (default from config)")
	topPoints := flag.Int("top", 0, "turning points included in the report (default from config)")
	retrievalK := flag.Int("k", 0, "knowledge passages to retrieve (default from config)")
	minScore := flag.Float64("min-score", 0, "minimum similarity score (default from config)")
	flag.Parse()

	log.SetFlags(log.Ltime)
	log.SetOutput(os.Stdout)

	if *matchID == "" || *participantID < 1 || *participantID > 10 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config invalid: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	aiClient := ai.NewClient(cfg)
	riotClient := riot.NewClient(cfg)
	cache := storage.NewReportCache(cfg)

	// Milvus being unreachable degrades retrieval, it never blocks analysis.
	var retriever pipeline.DocumentRetriever
	if cfg.MilvusAddress != "" {
		store, err := knowledge.NewMilvusStore(ctx, knowledge.MilvusConfig{
			Address:    cfg.MilvusAddress,
			Username:   cfg.MilvusUsername,
			Password:   cfg.MilvusPassword,
			Collection: cfg.MilvusCollection,
		})
		if err != nil {
			log.Printf("Similarity store unavailable, proceeding stats-only: %v", err)
		} else {
			defer store.Close()
			retriever = knowledge.NewRetriever(aiClient, store)
		}
	} else {
		log.Println("MILVUS_ADDRESS not set, proceeding stats-only")
	}

	analyzer := pipeline.NewAnalyzer(cfg, riotClient, retriever, aiClient, cache)

	rep, err := analyzer.AnalyzeMatch(ctx, *matchID, *participantID, pipeline.Options{
		MergeWindowSeconds: *mergeWindow,
		TopTurningPoints:   *topPoints,
		RetrievalK:         *retrievalK,
		MinSimilarity:      *minScore,
	})
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	fmt.Println(report.Render(rep))
}
