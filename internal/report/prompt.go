package report

import (
	"fmt"
	"strings"
)

// Prompt size limits. The budget is a hard constraint: excerpts are truncated
// and dropped before the prompt is allowed to grow past it.
const (
	maxPromptChars  = 6000
	maxExcerptChars = 400
)

const promptHeader = `You are a League of Legends coach. Using only the match facts below, write a short coaching report for the target player.
Reply with strict JSON, no markdown, in exactly this shape:
{"verdict": "one line, max 120 characters", "feedback": [{"topic": "...", "recommendation": "..."}]}
Provide 2 to 4 feedback items, each tied to a turning point or a stat below.`

const stricterInstruction = `
IMPORTANT: your previous reply was rejected. Respond with ONLY the JSON object described above. The verdict must be a single line of at most 120 characters and feedback must contain at least one item.`

// buildPrompt assembles the bounded, deterministic prompt. Given identical
// inputs it produces identical text; ordering follows the ranked inputs.
func buildPrompt(in Input) string {
	var sb strings.Builder

	sb.WriteString(promptHeader)
	sb.WriteString("\n\n")

	result := "LOSS"
	if in.Win {
		result = "WIN"
	}
	matchup := in.Champion
	if in.Opponent != "" {
		matchup += " vs " + in.Opponent
	}
	if in.Role != "" {
		matchup += " (" + in.Role + ")"
	}
	sb.WriteString(fmt.Sprintf("MATCH %s: %s, %s, %.1f minutes.\n", in.MatchID, matchup, result, in.DurationMin))

	st := in.Stats
	sb.WriteString(fmt.Sprintf(
		"STATS: gold diff vs lane opponent %+d (at 10min %+d), damage/min %.1f, kill participation %.0f%%, item power %d, largest gold swing %d at minute %d, final level %d.\n",
		st.FinalGoldDiff, st.GoldDiffAt10, st.DamagePerMinute, st.KillParticipation*100,
		st.ItemPowerScore, st.LargestGoldSwing, st.LargestSwingMinute, st.FinalLevel))
	if st.DegradedRoles {
		sb.WriteString("NOTE: lane opponents estimated by gold rank, role data was missing.\n")
	}

	topN := in.TopTurningPoints
	if topN <= 0 {
		topN = 3
	}
	points := in.TurningPoints
	if len(points) > topN {
		points = points[:topN]
	}

	if len(points) == 0 {
		sb.WriteString("\nTURNING POINTS: none detected; base the report on the stats alone.\n")
	} else {
		sb.WriteString("\nTURNING POINTS (most significant first):\n")
		for i, tp := range points {
			min := tp.Timestamp / 60000
			sec := (tp.Timestamp % 60000) / 1000
			f := tp.Facts
			sb.WriteString(fmt.Sprintf(
				"%d. [%02d:%02d] %s magnitude %.1f: kills=%d multi_kills=%d objectives=%d buildings=%d plates=%d gold_swing=%d participants=%d\n",
				i+1, min, sec, tp.Category, tp.Magnitude,
				f.Kills, f.MultiKills, f.Objectives, f.Buildings, f.Plates, f.GoldSwing, f.Participants))
		}
	}

	if len(in.Documents) == 0 {
		sb.WriteString("\nKNOWLEDGE: none available; rely on the match facts only.\n")
	} else {
		sb.WriteString("\nKNOWLEDGE (background, descending relevance):\n")
		for _, doc := range in.Documents {
			excerpt := doc.Excerpt
			if len(excerpt) > maxExcerptChars {
				excerpt = excerpt[:maxExcerptChars]
			}
			line := fmt.Sprintf("- (%.2f %s) %s\n", doc.Score, doc.SourceID, excerpt)
			if sb.Len()+len(line) > maxPromptChars {
				break
			}
			sb.WriteString(line)
		}
	}

	return sb.String()
}
