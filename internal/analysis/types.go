// Package analysis turns raw match timelines into distilled feature series
// and ranked turning points.
package analysis

import (
	"errors"

	"github.com/riftcoach/internal/services/riot"
)

// ErrEmptyTimeline is returned when the provider delivers a timeline with no frames.
var ErrEmptyTimeline = errors.New("analysis: timeline has no frames")

// EventType is the closed set of timeline event categories the pipeline
// understands. Raw types outside this set are counted, never silently dropped.
type EventType int

const (
	EventUnknown EventType = iota
	EventKill
	EventMultiKill
	EventObjective
	EventBuilding
	EventPlate
	EventWard
	EventItem
)

// Event is a typed timeline event. Actor is the participant that caused the
// event; an Actor of 0 marks a malformed event (skipped and counted by Detect).
type Event struct {
	Type      EventType
	Timestamp int64 // ms from game start
	Actor     int
	Victim    int
	Assists   []int
	MultiKill int
	Monster   string
	Building  string
	ItemID    int
	TeamID    int
}

// Participants returns the distinct participant ids involved in the event.
func (e Event) Participants() []int {
	seen := make(map[int]bool, len(e.Assists)+2)
	var ids []int
	add := func(id int) {
		if id > 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	add(e.Actor)
	add(e.Victim)
	for _, a := range e.Assists {
		add(a)
	}
	return ids
}

// ParticipantState is the per-frame cumulative state of one participant.
type ParticipantState struct {
	ParticipantID     int
	TotalGold         int
	XP                int
	Level             int
	MinionsKilled     int
	DamageToChampions int
}

// Frame is one fixed-interval snapshot of full match state.
type Frame struct {
	Timestamp int64
	States    map[int]ParticipantState
	Events    []Event
}

// ParticipantInfo is roster data joined from the match summary.
type ParticipantInfo struct {
	ID       int
	TeamID   int
	Champion string
	Position string
	Name     string
}

// Timeline is the domain view of one match timeline.
type Timeline struct {
	MatchID         string
	DurationMS      int64
	FrameIntervalMS int64
	Frames          []Frame
	Participants    []ParticipantInfo

	// Event bookkeeping from conversion.
	TotalEvents   int
	UnknownEvents int
}

// Participant looks up roster info by participant id.
func (t *Timeline) Participant(id int) (ParticipantInfo, bool) {
	for _, p := range t.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return ParticipantInfo{}, false
}

// rawEventsIgnored are raw types with no analytical value; they are dropped
// deliberately and not counted as unknown.
var rawEventsIgnored = map[string]bool{
	"SKILL_LEVEL_UP":     true,
	"LEVEL_UP":           true,
	"ITEM_SOLD":          true,
	"ITEM_DESTROYED":     true,
	"ITEM_UNDO":          true,
	"PAUSE_END":          true,
	"GAME_END":           true,
	"OBJECTIVE_BOUNTY_PRESTART": true,
	"OBJECTIVE_BOUNTY_FINISH":   true,
	"DRAGON_SOUL_GIVEN":         true,
}

// ConvertTimeline maps provider wire frames into the domain timeline,
// joining roster info from the match summary.
func ConvertTimeline(summary *riot.MatchSummary, tl *riot.TimelineResponse) (*Timeline, error) {
	if tl == nil || len(tl.Info.Frames) == 0 {
		return nil, ErrEmptyTimeline
	}

	out := &Timeline{
		FrameIntervalMS: tl.Info.FrameInterval,
	}
	if out.FrameIntervalMS <= 0 {
		out.FrameIntervalMS = 60000
	}

	if summary != nil {
		out.MatchID = summary.Metadata.MatchID
		out.DurationMS = summary.Info.GameDuration * 1000
		for _, p := range summary.Info.Participants {
			out.Participants = append(out.Participants, ParticipantInfo{
				ID:       p.ParticipantID,
				TeamID:   p.TeamID,
				Champion: p.ChampionName,
				Position: p.TeamPosition,
				Name:     p.RiotIDGameName,
			})
		}
	}

	for _, rf := range tl.Info.Frames {
		frame := Frame{
			Timestamp: rf.Timestamp,
			States:    make(map[int]ParticipantState, len(rf.ParticipantFrames)),
		}

		for _, pf := range rf.ParticipantFrames {
			frame.States[pf.ParticipantID] = ParticipantState{
				ParticipantID:     pf.ParticipantID,
				TotalGold:         pf.TotalGold,
				XP:                pf.XP,
				Level:             pf.Level,
				MinionsKilled:     pf.MinionsKilled + pf.JungleMinionsKilled,
				DamageToChampions: pf.DamageStats.TotalDamageDoneToChampions,
			}
		}

		for _, re := range rf.Events {
			if rawEventsIgnored[re.Type] {
				continue
			}
			out.TotalEvents++

			ev, ok := convertEvent(re)
			if !ok {
				out.UnknownEvents++
				continue
			}
			frame.Events = append(frame.Events, ev)
		}

		out.Frames = append(out.Frames, frame)
	}

	if out.DurationMS == 0 {
		out.DurationMS = out.Frames[len(out.Frames)-1].Timestamp
	}

	return out, nil
}

func convertEvent(re riot.TimelineEvent) (Event, bool) {
	ev := Event{Timestamp: re.Timestamp, TeamID: re.TeamID}

	switch re.Type {
	case "CHAMPION_KILL":
		ev.Type = EventKill
		ev.Actor = re.KillerID
		ev.Victim = re.VictimID
		ev.Assists = re.AssistingParticipantIDs
	case "CHAMPION_SPECIAL_KILL":
		ev.Type = EventMultiKill
		ev.Actor = re.KillerID
		ev.MultiKill = re.MultiKillLength
	case "ELITE_MONSTER_KILL":
		ev.Type = EventObjective
		ev.Actor = re.KillerID
		ev.Assists = re.AssistingParticipantIDs
		ev.Monster = re.MonsterType
	case "BUILDING_KILL":
		ev.Type = EventBuilding
		ev.Actor = re.KillerID
		ev.Assists = re.AssistingParticipantIDs
		ev.Building = re.BuildingType
	case "TURRET_PLATE_DESTROYED":
		ev.Type = EventPlate
		ev.Actor = re.KillerID
	case "WARD_PLACED", "WARD_KILL":
		ev.Type = EventWard
		ev.Actor = firstPositive(re.CreatorID, re.KillerID, re.ParticipantID)
	case "ITEM_PURCHASED":
		ev.Type = EventItem
		ev.Actor = re.ParticipantID
		ev.ItemID = re.ItemID
	default:
		return Event{}, false
	}

	return ev, true
}

func firstPositive(ids ...int) int {
	for _, id := range ids {
		if id > 0 {
			return id
		}
	}
	return 0
}
