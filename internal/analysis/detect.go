package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Category classifies a turning point.
type Category string

const (
	CategoryKill          Category = "kill"
	CategoryObjective     Category = "objective"
	CategoryTeamfight     Category = "teamfight"
	CategoryResourceSwing Category = "resource-swing"
)

// Facts are the bare numeric deltas behind a turning point. No prose.
type Facts struct {
	Kills        int   `json:"kills"`
	MultiKills   int   `json:"multi_kills"`
	Objectives   int   `json:"objectives"`
	Buildings    int   `json:"buildings"`
	Plates       int   `json:"plates"`
	GoldSwing    int   `json:"gold_swing"`
	Participants int   `json:"participants"`
	WindowMS     int64 `json:"window_ms"`
}

// TurningPoint is a ranked, time-merged cluster of events judged to have
// materially affected the outcome.
type TurningPoint struct {
	Timestamp    int64    `json:"timestamp"`
	Participants []int    `json:"participants"`
	Category     Category `json:"category"`
	Magnitude    float64  `json:"magnitude"`
	Facts        Facts    `json:"facts"`
}

// Weights holds the scoring constants. They are heuristic defaults, tunable
// per deployment; nothing in the pipeline assumes they are optimal.
type Weights struct {
	Objective float64
	MultiKill float64
	Kill      float64
	Building  float64
	Plate     float64

	// Game-time decay: multiplier ramps from DecayBase at 0:00 to
	// DecayBase+DecaySlope at game end. Late events are harder to reverse.
	DecayBase  float64
	DecaySlope float64

	// Participant-count multiplier: 1 + ParticipantStep*(n-1), capped.
	ParticipantStep float64
	ParticipantCap  float64

	// Gold swing term: points per 1000 gold of concurrent series movement.
	GoldSwingScale float64
	GoldSwingCap   float64

	TeamfightMinParticipants int
	MalformedWarnFraction    float64
}

// DefaultWeights returns the default scoring constants.
func DefaultWeights() Weights {
	return Weights{
		Objective:                40,
		MultiKill:                28,
		Kill:                     18,
		Building:                 14,
		Plate:                    8,
		DecayBase:                0.6,
		DecaySlope:               0.8,
		ParticipantStep:          0.15,
		ParticipantCap:           1.75,
		GoldSwingScale:           4,
		GoldSwingCap:             25,
		TeamfightMinParticipants: 4,
		MalformedWarnFraction:    0.2,
	}
}

// DetectOptions configures turning-point detection.
type DetectOptions struct {
	MergeWindow time.Duration
	Weights     Weights
}

// DefaultDetectOptions returns detection options with all defaults applied.
func DefaultDetectOptions() DetectOptions {
	return DetectOptions{
		MergeWindow: 30 * time.Second,
		Weights:     DefaultWeights(),
	}
}

// Detection is the detector output: ranked turning points plus data-quality
// bookkeeping. A high malformed fraction produces a warning, never an abort.
type Detection struct {
	TurningPoints   []TurningPoint
	MalformedEvents int
	TotalEvents     int
	Warnings        []string
}

type scoredEvent struct {
	event     Event
	frameIdx  int
	magnitude float64
}

type cluster struct {
	members      []scoredEvent
	participants map[int]bool
	lastTS       int64
}

func (c *cluster) shares(ids []int) bool {
	for _, id := range ids {
		if c.participants[id] {
			return true
		}
	}
	return false
}

// Detect scans the timeline and distilled series for game-deciding moments
// and returns them most significant first. Running it twice on identical
// input yields identical output.
func Detect(tl *Timeline, series *Series, opts DetectOptions) (*Detection, error) {
	if tl == nil || len(tl.Frames) == 0 {
		return nil, ErrEmptyTimeline
	}
	if opts.MergeWindow <= 0 {
		opts.MergeWindow = 30 * time.Second
	}
	w := opts.Weights
	if w == (Weights{}) {
		w = DefaultWeights()
	}

	det := &Detection{TotalEvents: tl.TotalEvents}

	swings := frameGoldSwings(series, len(tl.Frames))

	var candidates []scoredEvent
	malformed := 0
	for fi, frame := range tl.Frames {
		for _, ev := range frame.Events {
			if !scorable(ev.Type) {
				continue
			}
			if ev.Actor <= 0 {
				malformed++
				continue
			}
			candidates = append(candidates, scoredEvent{
				event:     ev,
				frameIdx:  fi,
				magnitude: scoreEvent(ev, w, tl.DurationMS, swings[fi]),
			})
		}
	}
	det.MalformedEvents = malformed

	if badFraction := malformedFraction(malformed+tl.UnknownEvents, tl.TotalEvents); badFraction > w.MalformedWarnFraction {
		det.Warnings = append(det.Warnings, fmt.Sprintf(
			"data quality: %d of %d events malformed or unrecognized (%.0f%%), result is best-effort",
			malformed+tl.UnknownEvents, tl.TotalEvents, badFraction*100))
	}

	if len(candidates) == 0 {
		return det, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].event.Timestamp < candidates[j].event.Timestamp
	})

	clusters := mergeClusters(candidates, opts.MergeWindow.Milliseconds())

	for _, c := range clusters {
		det.TurningPoints = append(det.TurningPoints, buildTurningPoint(c, w, swings))
	}

	sort.SliceStable(det.TurningPoints, func(i, j int) bool {
		if det.TurningPoints[i].Magnitude != det.TurningPoints[j].Magnitude {
			return det.TurningPoints[i].Magnitude > det.TurningPoints[j].Magnitude
		}
		return det.TurningPoints[i].Timestamp < det.TurningPoints[j].Timestamp
	})

	return det, nil
}

func scorable(t EventType) bool {
	switch t {
	case EventKill, EventMultiKill, EventObjective, EventBuilding, EventPlate:
		return true
	}
	return false
}

// scoreEvent computes the win-probability-proxy impact of one event.
func scoreEvent(ev Event, w Weights, durationMS int64, goldSwing int) float64 {
	var base float64
	switch ev.Type {
	case EventObjective:
		base = w.Objective
	case EventMultiKill:
		base = w.MultiKill
	case EventKill:
		base = w.Kill
	case EventBuilding:
		base = w.Building
	case EventPlate:
		base = w.Plate
	}

	decay := 1.0
	if durationMS > 0 {
		progress := float64(ev.Timestamp) / float64(durationMS)
		if progress > 1 {
			progress = 1
		}
		decay = w.DecayBase + w.DecaySlope*progress
	}

	n := len(ev.Participants())
	partMult := 1 + w.ParticipantStep*float64(n-1)
	if partMult > w.ParticipantCap {
		partMult = w.ParticipantCap
	}

	swingTerm := math.Min(float64(goldSwing)/1000.0*w.GoldSwingScale, w.GoldSwingCap)

	return base*decay*partMult + swingTerm
}

// mergeClusters groups events that occur within the merge window and share at
// least one participant. An event bridging several open clusters collapses
// them into one, so no two output clusters hold window-overlapping events
// with a common participant.
func mergeClusters(candidates []scoredEvent, windowMS int64) []*cluster {
	var open []*cluster
	var closed []*cluster

	for _, cand := range candidates {
		ids := cand.event.Participants()

		// Retire clusters that fell out of the window.
		var stillOpen []*cluster
		for _, c := range open {
			if cand.event.Timestamp-c.lastTS > windowMS {
				closed = append(closed, c)
			} else {
				stillOpen = append(stillOpen, c)
			}
		}
		open = stillOpen

		var matches []*cluster
		var rest []*cluster
		for _, c := range open {
			if c.shares(ids) {
				matches = append(matches, c)
			} else {
				rest = append(rest, c)
			}
		}

		var target *cluster
		switch len(matches) {
		case 0:
			target = &cluster{participants: make(map[int]bool)}
			rest = append(rest, target)
		case 1:
			target = matches[0]
			rest = append(rest, target)
		default:
			// Bridge event: collapse all matching clusters into the first.
			target = matches[0]
			for _, c := range matches[1:] {
				target.members = append(target.members, c.members...)
				for id := range c.participants {
					target.participants[id] = true
				}
			}
			rest = append(rest, target)
		}

		target.members = append(target.members, cand)
		for _, id := range ids {
			target.participants[id] = true
		}
		target.lastTS = cand.event.Timestamp
		open = rest
	}

	closed = append(closed, open...)

	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].members[0].event.Timestamp < closed[j].members[0].event.Timestamp
	})
	return closed
}

// buildTurningPoint collapses a cluster into one turning point keyed by its
// highest-magnitude member. Magnitude is the sum over members, so a death
// spiral of minor events can outrank a single large one.
func buildTurningPoint(c *cluster, w Weights, swings []int) TurningPoint {
	key := c.members[0]
	var total float64
	facts := Facts{}
	frames := make(map[int]bool)

	first, last := c.members[0].event.Timestamp, c.members[0].event.Timestamp

	for _, m := range c.members {
		total += m.magnitude
		if m.magnitude > key.magnitude ||
			(m.magnitude == key.magnitude && m.event.Timestamp < key.event.Timestamp) {
			key = m
		}
		frames[m.frameIdx] = true
		if m.event.Timestamp < first {
			first = m.event.Timestamp
		}
		if m.event.Timestamp > last {
			last = m.event.Timestamp
		}

		switch m.event.Type {
		case EventKill:
			facts.Kills++
		case EventMultiKill:
			facts.MultiKills++
		case EventObjective:
			facts.Objectives++
		case EventBuilding:
			facts.Buildings++
		case EventPlate:
			facts.Plates++
		}
	}

	for fi := range frames {
		facts.GoldSwing += swings[fi]
	}
	facts.WindowMS = last - first

	var ids []int
	for id := range c.participants {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	facts.Participants = len(ids)

	return TurningPoint{
		Timestamp:    key.event.Timestamp,
		Participants: ids,
		Category:     categoryOf(key.event.Type, len(ids), w),
		Magnitude:    total,
		Facts:        facts,
	}
}

func categoryOf(keyType EventType, participants int, w Weights) Category {
	if participants >= w.TeamfightMinParticipants {
		return CategoryTeamfight
	}
	switch keyType {
	case EventObjective:
		return CategoryObjective
	case EventKill, EventMultiKill:
		return CategoryKill
	default:
		return CategoryResourceSwing
	}
}

// frameGoldSwings sums absolute per-interval gold movement across the tracked
// participants for each frame. Used as the concurrent-series swing term.
func frameGoldSwings(series *Series, frames int) []int {
	swings := make([]int, frames)
	if series == nil {
		return swings
	}
	for i := 0; i < frames && i < len(series.Rows); i++ {
		for _, snap := range series.Rows[i].Snapshots {
			if snap.GoldDelta < 0 {
				swings[i] -= snap.GoldDelta
			} else {
				swings[i] += snap.GoldDelta
			}
		}
	}
	return swings
}

func malformedFraction(bad, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(bad) / float64(total)
}
