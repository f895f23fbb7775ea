package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"RIOT_BASE_URL_MATCH", "RIOT_TIMEOUT", "AI_MODEL", "AI_TIMEOUT",
		"MILVUS_COLLECTION", "RETRIEVAL_TIMEOUT", "REPORT_CACHE_TTL",
		"TURNING_POINT_MERGE_WINDOW_SECONDS", "TOP_TURNING_POINTS",
		"RETRIEVAL_K", "MIN_SIMILARITY_SCORE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.RiotBaseURLMatch != "https://sea.api.riotgames.com" {
		t.Errorf("Unexpected default match base URL: %s", cfg.RiotBaseURLMatch)
	}
	if cfg.RiotTimeout != 15*time.Second {
		t.Errorf("Unexpected default riot timeout: %v", cfg.RiotTimeout)
	}
	if cfg.MilvusCollection != "coach_passages" {
		t.Errorf("Unexpected default collection: %s", cfg.MilvusCollection)
	}
	if cfg.ReportCacheTTL != 24*time.Hour {
		t.Errorf("Unexpected default cache TTL: %v", cfg.ReportCacheTTL)
	}
	if cfg.MergeWindowSeconds != 30 || cfg.TopTurningPoints != 3 || cfg.RetrievalK != 5 {
		t.Errorf("Unexpected analysis defaults: %d/%d/%d", cfg.MergeWindowSeconds, cfg.TopTurningPoints, cfg.RetrievalK)
	}
	if cfg.MinSimilarity != 0.6 {
		t.Errorf("Unexpected default similarity floor: %f", cfg.MinSimilarity)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TURNING_POINT_MERGE_WINDOW_SECONDS", "45")
	t.Setenv("TOP_TURNING_POINTS", "5")
	t.Setenv("MIN_SIMILARITY_SCORE", "0.75")
	t.Setenv("RETRIEVAL_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MergeWindowSeconds != 45 {
		t.Errorf("Expected merge window 45, got %d", cfg.MergeWindowSeconds)
	}
	if cfg.TopTurningPoints != 5 {
		t.Errorf("Expected top 5, got %d", cfg.TopTurningPoints)
	}
	if cfg.MinSimilarity != 0.75 {
		t.Errorf("Expected similarity 0.75, got %f", cfg.MinSimilarity)
	}
	if cfg.RetrievalTimeout != 2*time.Second {
		t.Errorf("Expected retrieval timeout 2s, got %v", cfg.RetrievalTimeout)
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		RiotAPIKey:         "key",
		AIAPIKey:           "key",
		AIAPIURL:           "https://api.example.com/v1/chat/completions",
		MergeWindowSeconds: 30,
		TopTurningPoints:   3,
		RetrievalK:         5,
		MinSimilarity:      0.6,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}

	missing := *valid
	missing.RiotAPIKey = ""
	if err := missing.Validate(); err == nil {
		t.Error("Expected error for missing RIOT_API_KEY")
	}

	badScore := *valid
	badScore.MinSimilarity = 1.5
	if err := badScore.Validate(); err == nil {
		t.Error("Expected error for out-of-range similarity score")
	}

	badWindow := *valid
	badWindow.MergeWindowSeconds = 0
	if err := badWindow.Validate(); err == nil {
		t.Error("Expected error for zero merge window")
	}
}
