package analysis

import "math"

// Summary is the compact numeric stat block for one participant, derived from
// the distilled series. This is what prompt assembly sees instead of the raw
// timeline.
type Summary struct {
	ParticipantID      int     `json:"participant_id"`
	FinalGoldDiff      int     `json:"final_gold_diff_vs_opponent"`
	GoldDiffAt10       int     `json:"gold_diff_vs_opponent_at_10"`
	DamagePerMinute    float64 `json:"damage_per_minute"`
	KillParticipation  float64 `json:"kill_participation"`
	ItemPowerScore     int     `json:"item_power_score"`
	LargestGoldSwing   int     `json:"largest_gold_swing"`
	LargestSwingMinute int     `json:"largest_swing_minute"`
	FinalLevel         int     `json:"final_level"`
	DegradedRoles      bool    `json:"degraded_roles,omitempty"`
}

// Summarize reduces the series to a stat block for one participant. A missing
// participant yields a zero summary, never an error.
func Summarize(series *Series, participantID int) Summary {
	s := Summary{ParticipantID: participantID}
	if series == nil || len(series.Rows) == 0 {
		return s
	}
	s.DegradedRoles = series.DegradedRoles

	for row := range series.Rows {
		snap, ok := series.At(row, participantID)
		if !ok {
			return s
		}

		if swing := int(math.Abs(float64(snap.GoldDelta))); swing > s.LargestGoldSwing {
			s.LargestGoldSwing = swing
			s.LargestSwingMinute = int(snap.Timestamp / 60000)
		}
		if snap.Timestamp <= 10*60000 {
			s.GoldDiffAt10 = snap.GoldDiffVsOpponent
		}

		s.FinalGoldDiff = snap.GoldDiffVsOpponent
		s.DamagePerMinute = math.Round(snap.DamagePerMinute*10) / 10
		s.KillParticipation = math.Round(snap.KillParticipation*100) / 100
		s.ItemPowerScore = snap.ItemPowerScore
		s.FinalLevel = snap.Level
	}

	return s
}
