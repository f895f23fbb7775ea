package analysis

import "testing"

func TestSummarize(t *testing.T) {
	series := &Series{
		ParticipantIDs: []int{1},
		Rows: []Row{
			{Timestamp: 0, Snapshots: []Snapshot{{ParticipantID: 1, Timestamp: 0}}},
			{Timestamp: 600000, Snapshots: []Snapshot{{
				ParticipantID: 1, Timestamp: 600000,
				GoldDelta: 2100, GoldDiffVsOpponent: 420, Level: 7,
			}}},
			{Timestamp: 1800000, Snapshots: []Snapshot{{
				ParticipantID: 1, Timestamp: 1800000,
				GoldDelta: -800, GoldDiffVsOpponent: -1850,
				DamagePerMinute: 612.44, KillParticipation: 0.584,
				ItemPowerScore: 9300, Level: 16,
			}}},
		},
	}

	s := Summarize(series, 1)
	if s.FinalGoldDiff != -1850 {
		t.Errorf("Expected final gold diff -1850, got %d", s.FinalGoldDiff)
	}
	if s.GoldDiffAt10 != 420 {
		t.Errorf("Expected gold diff at 10 of 420, got %d", s.GoldDiffAt10)
	}
	if s.LargestGoldSwing != 2100 || s.LargestSwingMinute != 10 {
		t.Errorf("Expected largest swing 2100 at minute 10, got %d at %d", s.LargestGoldSwing, s.LargestSwingMinute)
	}
	if s.DamagePerMinute != 612.4 {
		t.Errorf("Expected rounded dpm 612.4, got %f", s.DamagePerMinute)
	}
	if s.KillParticipation != 0.58 {
		t.Errorf("Expected rounded kp 0.58, got %f", s.KillParticipation)
	}
	if s.FinalLevel != 16 || s.ItemPowerScore != 9300 {
		t.Errorf("Unexpected final stats: level %d, item power %d", s.FinalLevel, s.ItemPowerScore)
	}
}

func TestSummarizeMissingParticipant(t *testing.T) {
	series := &Series{
		ParticipantIDs: []int{1},
		Rows:           []Row{{Timestamp: 0, Snapshots: []Snapshot{{ParticipantID: 1}}}},
	}

	s := Summarize(series, 9)
	if s.ParticipantID != 9 || s.FinalGoldDiff != 0 {
		t.Errorf("Expected zero summary for missing participant, got %+v", s)
	}

	if got := Summarize(nil, 1); got.ParticipantID != 1 {
		t.Errorf("Expected zero summary for nil series, got %+v", got)
	}
}
