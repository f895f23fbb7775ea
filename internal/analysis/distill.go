package analysis

import (
	"fmt"
	"sort"
)

// Snapshot is the distilled per-participant feature vector at one interval.
// Delta fields are measured against the previous interval so burst swings
// stay visible instead of being smoothed into a cumulative curve.
type Snapshot struct {
	Timestamp     int64
	ParticipantID int

	TotalGold          int
	GoldDelta          int
	XPDelta            int
	Level              int
	GoldDiffVsOpponent int
	DamageDelta        int
	DamagePerMinute    float64
	KillParticipation  float64
	ItemPowerScore     int
}

// Row holds the snapshots of all tracked participants at one interval,
// aligned with Series.ParticipantIDs.
type Row struct {
	Timestamp int64
	Snapshots []Snapshot
}

// Series is the distilled feature series. len(Rows) always equals the number
// of input frames.
type Series struct {
	ParticipantIDs []int
	Rows           []Row

	// DegradedRoles is set when lane opponents had to be paired by gold rank
	// because position data was absent.
	DegradedRoles bool
}

// At returns the snapshot for a participant at a row index.
func (s *Series) At(row int, participantID int) (Snapshot, bool) {
	if row < 0 || row >= len(s.Rows) {
		return Snapshot{}, false
	}
	for i, id := range s.ParticipantIDs {
		if id == participantID {
			return s.Rows[row].Snapshots[i], true
		}
	}
	return Snapshot{}, false
}

// Distill converts a timeline into a feature series for the given
// participants. It is a pure function of its input: provider gaps are
// carried forward, unresolvable ratios become 0, and the output never
// contains NaN.
func Distill(tl *Timeline, targetIDs []int) (*Series, error) {
	if tl == nil || len(tl.Frames) == 0 {
		return nil, ErrEmptyTimeline
	}

	ids := append([]int(nil), targetIDs...)
	if len(ids) == 0 {
		for _, p := range tl.Participants {
			ids = append(ids, p.ID)
		}
	}
	sort.Ints(ids)
	if len(ids) == 0 {
		return nil, fmt.Errorf("analysis: no participants to distill")
	}

	opponents, degraded := pairOpponents(tl)

	series := &Series{
		ParticipantIDs: ids,
		DegradedRoles:  degraded,
		Rows:           make([]Row, 0, len(tl.Frames)),
	}

	// Carry-forward state for every participant, plus running accumulators.
	last := make(map[int]ParticipantState)
	teamKills := make(map[int]int)
	takedowns := make(map[int]int)
	itemValue := make(map[int]int)
	teamOf := make(map[int]int)
	for _, p := range tl.Participants {
		teamOf[p.ID] = p.TeamID
	}

	// State as of the previous row, after carry-forward.
	prev := make(map[int]ParticipantState)
	seen := make(map[int]bool)

	for _, frame := range tl.Frames {
		for _, ev := range frame.Events {
			switch ev.Type {
			case EventKill:
				if ev.Actor > 0 {
					teamKills[teamOf[ev.Actor]]++
					takedowns[ev.Actor]++
				}
				for _, a := range ev.Assists {
					takedowns[a]++
				}
			case EventItem:
				if ev.Actor > 0 {
					itemValue[ev.Actor] += itemGold(ev.ItemID)
				}
			}
		}

		for id, st := range frame.States {
			last[id] = st
		}

		row := Row{
			Timestamp: frame.Timestamp,
			Snapshots: make([]Snapshot, len(ids)),
		}

		minutes := float64(frame.Timestamp) / 60000.0

		for i, id := range ids {
			st := last[id] // zero state until the first frame that has one

			snap := Snapshot{
				Timestamp:      frame.Timestamp,
				ParticipantID:  id,
				TotalGold:      st.TotalGold,
				Level:          st.Level,
				ItemPowerScore: itemValue[id],
			}

			if seen[id] {
				p := prev[id]
				snap.GoldDelta = st.TotalGold - p.TotalGold
				snap.XPDelta = st.XP - p.XP
				snap.DamageDelta = st.DamageToChampions - p.DamageToChampions
			}

			if opp, ok := opponents[id]; ok {
				snap.GoldDiffVsOpponent = st.TotalGold - last[opp].TotalGold
			}

			if minutes > 0 {
				snap.DamagePerMinute = float64(st.DamageToChampions) / minutes
			}

			if tk := teamKills[teamOf[id]]; tk > 0 {
				snap.KillParticipation = float64(takedowns[id]) / float64(tk)
			}

			prev[id] = st
			seen[id] = true
			row.Snapshots[i] = snap
		}

		series.Rows = append(series.Rows, row)
	}

	return series, nil
}

// pairOpponents maps each participant to their lane opponent. When position
// data is absent the fallback pairs participants by gold rank within each
// team, using the final frame's totals (degraded mode, not a failure).
func pairOpponents(tl *Timeline) (map[int]int, bool) {
	opponents := make(map[int]int)

	byPosition := make(map[string][]ParticipantInfo)
	havePositions := true
	for _, p := range tl.Participants {
		if p.Position == "" {
			havePositions = false
			break
		}
		byPosition[p.Position] = append(byPosition[p.Position], p)
	}

	if havePositions && len(tl.Participants) > 0 {
		for _, group := range byPosition {
			if len(group) != 2 || group[0].TeamID == group[1].TeamID {
				continue
			}
			opponents[group[0].ID] = group[1].ID
			opponents[group[1].ID] = group[0].ID
		}
		if len(opponents) > 0 {
			return opponents, false
		}
	}

	if len(tl.Participants) == 0 {
		return opponents, false
	}

	// Degraded mode: rank each team by final-frame gold, pair equal ranks.
	final := make(map[int]ParticipantState)
	for _, frame := range tl.Frames {
		for id, st := range frame.States {
			final[id] = st
		}
	}

	teams := make(map[int][]int)
	for _, p := range tl.Participants {
		teams[p.TeamID] = append(teams[p.TeamID], p.ID)
	}
	var teamIDs []int
	for id := range teams {
		teamIDs = append(teamIDs, id)
	}
	if len(teamIDs) != 2 {
		return opponents, true
	}
	sort.Ints(teamIDs)

	rank := func(ids []int) []int {
		out := append([]int(nil), ids...)
		sort.Slice(out, func(a, b int) bool {
			ga, gb := final[out[a]].TotalGold, final[out[b]].TotalGold
			if ga != gb {
				return ga > gb
			}
			return out[a] < out[b]
		})
		return out
	}

	a, b := rank(teams[teamIDs[0]]), rank(teams[teamIDs[1]])
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		opponents[a[i]] = b[i]
		opponents[b[i]] = a[i]
	}

	return opponents, true
}
