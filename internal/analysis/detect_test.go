package analysis

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"
)

// flatWeights strips decay, participant, and gold-swing terms so event
// magnitudes are exact base values.
func flatWeights() Weights {
	return Weights{
		Objective:                40,
		MultiKill:                28,
		Kill:                     18,
		Building:                 14,
		Plate:                    8,
		DecayBase:                1,
		DecaySlope:               0,
		ParticipantStep:          0,
		ParticipantCap:           1,
		GoldSwingScale:           0,
		GoldSwingCap:             0,
		TeamfightMinParticipants: 4,
		MalformedWarnFraction:    0.2,
	}
}

func eventTimeline(duration int64, events ...Event) *Timeline {
	tl := &Timeline{
		MatchID:         "VN2_1001",
		DurationMS:      duration,
		FrameIntervalMS: 60000,
	}
	frameCount := int(duration/60000) + 1
	for i := 0; i < frameCount; i++ {
		tl.Frames = append(tl.Frames, Frame{Timestamp: int64(i) * 60000})
	}
	for _, ev := range events {
		fi := int(ev.Timestamp / 60000)
		if fi >= frameCount {
			fi = frameCount - 1
		}
		tl.Frames[fi].Events = append(tl.Frames[fi].Events, ev)
		tl.TotalEvents++
	}
	return tl
}

func mustDetect(t *testing.T, tl *Timeline, series *Series, opts DetectOptions) *Detection {
	t.Helper()
	det, err := Detect(tl, series, opts)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	return det
}

func TestDetectNoEvents(t *testing.T) {
	tl := eventTimeline(1800000)

	det := mustDetect(t, tl, nil, DefaultDetectOptions())
	if len(det.TurningPoints) != 0 {
		t.Errorf("Expected no turning points, got %d", len(det.TurningPoints))
	}
	if len(det.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", det.Warnings)
	}
}

func TestDetectEmptyTimeline(t *testing.T) {
	if _, err := Detect(&Timeline{}, nil, DefaultDetectOptions()); err != ErrEmptyTimeline {
		t.Errorf("Expected ErrEmptyTimeline, got %v", err)
	}
}

func TestDetectObjectiveTeamfight(t *testing.T) {
	// Baron at the exact game midpoint with five players involved.
	tl := eventTimeline(1800000, Event{
		Type:      EventObjective,
		Timestamp: 900000,
		Actor:     1,
		Assists:   []int{2, 3, 4, 5},
		Monster:   "BARON_NASHOR",
	})

	det := mustDetect(t, tl, nil, DefaultDetectOptions())
	if len(det.TurningPoints) != 1 {
		t.Fatalf("Expected 1 turning point, got %d", len(det.TurningPoints))
	}

	tp := det.TurningPoints[0]
	if tp.Category != CategoryTeamfight {
		t.Errorf("Expected teamfight category with 5 participants, got %s", tp.Category)
	}
	if !reflect.DeepEqual(tp.Participants, []int{1, 2, 3, 4, 5}) {
		t.Errorf("Unexpected participants: %v", tp.Participants)
	}
	if tp.Facts.Objectives != 1 {
		t.Errorf("Expected 1 objective in facts, got %d", tp.Facts.Objectives)
	}

	// 40 base, decay 0.6+0.8*0.5, participant multiplier 1+0.15*4, no swing.
	want := 40.0 * 1.0 * 1.6
	if math.Abs(tp.Magnitude-want) > 1e-9 {
		t.Errorf("Expected magnitude %f, got %f", want, tp.Magnitude)
	}
}

func TestDetectMergesSharedParticipantWithinWindow(t *testing.T) {
	tl := eventTimeline(1800000,
		Event{Type: EventKill, Timestamp: 100000, Actor: 1, Victim: 6},
		Event{Type: EventKill, Timestamp: 120000, Actor: 1, Victim: 7},
		// Same window, no shared participant: stays separate.
		Event{Type: EventKill, Timestamp: 110000, Actor: 2, Victim: 8},
	)

	det := mustDetect(t, tl, nil, DetectOptions{MergeWindow: 30 * time.Second, Weights: flatWeights()})
	if len(det.TurningPoints) != 2 {
		t.Fatalf("Expected 2 turning points, got %d", len(det.TurningPoints))
	}

	// Ranked first: the two-kill spiral (18+18) over the single kill (18).
	merged := det.TurningPoints[0]
	if merged.Magnitude != 36 {
		t.Errorf("Expected summed magnitude 36, got %f", merged.Magnitude)
	}
	if merged.Facts.Kills != 2 {
		t.Errorf("Expected 2 kills in merged cluster, got %d", merged.Facts.Kills)
	}
	if merged.Facts.WindowMS != 20000 {
		t.Errorf("Expected 20000ms window, got %d", merged.Facts.WindowMS)
	}
	if !reflect.DeepEqual(merged.Participants, []int{1, 6, 7}) {
		t.Errorf("Unexpected merged participants: %v", merged.Participants)
	}

	if det.TurningPoints[1].Magnitude != 18 {
		t.Errorf("Expected lone kill magnitude 18, got %f", det.TurningPoints[1].Magnitude)
	}
}

func TestDetectSplitsBeyondWindow(t *testing.T) {
	tl := eventTimeline(1800000,
		Event{Type: EventKill, Timestamp: 100000, Actor: 1, Victim: 6},
		Event{Type: EventKill, Timestamp: 160000, Actor: 1, Victim: 6},
	)

	det := mustDetect(t, tl, nil, DetectOptions{MergeWindow: 30 * time.Second, Weights: flatWeights()})
	if len(det.TurningPoints) != 2 {
		t.Fatalf("Expected separate clusters 60s apart, got %d", len(det.TurningPoints))
	}
}

func TestDetectMergeInvariant(t *testing.T) {
	// Bridge case: 1 and 2 fight separately, then a kill involving both
	// collapses everything into one cluster.
	tl := eventTimeline(1800000,
		Event{Type: EventKill, Timestamp: 100000, Actor: 1, Victim: 6},
		Event{Type: EventKill, Timestamp: 105000, Actor: 2, Victim: 7},
		Event{Type: EventKill, Timestamp: 115000, Actor: 1, Victim: 2},
	)

	det := mustDetect(t, tl, nil, DetectOptions{MergeWindow: 30 * time.Second, Weights: flatWeights()})
	if len(det.TurningPoints) != 1 {
		t.Fatalf("Expected bridge event to collapse clusters, got %d points", len(det.TurningPoints))
	}
	if det.TurningPoints[0].Facts.Kills != 3 {
		t.Errorf("Expected 3 kills in collapsed cluster, got %d", det.TurningPoints[0].Facts.Kills)
	}

	// General invariant: no two points whose windows overlap share a participant.
	for i, a := range det.TurningPoints {
		for _, b := range det.TurningPoints[i+1:] {
			gap := a.Timestamp - b.Timestamp
			if gap < 0 {
				gap = -gap
			}
			if gap > 30000 {
				continue
			}
			seen := make(map[int]bool)
			for _, id := range a.Participants {
				seen[id] = true
			}
			for _, id := range b.Participants {
				if seen[id] {
					t.Errorf("Overlapping points share participant %d", id)
				}
			}
		}
	}
}

func TestDetectDeterministic(t *testing.T) {
	tl := eventTimeline(1800000,
		Event{Type: EventKill, Timestamp: 100000, Actor: 1, Victim: 6},
		Event{Type: EventObjective, Timestamp: 420000, Actor: 3, Assists: []int{4}, Monster: "DRAGON"},
		Event{Type: EventKill, Timestamp: 430000, Actor: 3, Victim: 8},
		Event{Type: EventBuilding, Timestamp: 900000, Actor: 5, Building: "TOWER_BUILDING"},
		Event{Type: EventPlate, Timestamp: 600000, Actor: 2},
	)

	a := mustDetect(t, tl, nil, DefaultDetectOptions())
	b := mustDetect(t, tl, nil, DefaultDetectOptions())
	if !reflect.DeepEqual(a, b) {
		t.Error("Detect is not deterministic on identical input")
	}
}

func TestDetectRanking(t *testing.T) {
	// A late objective outranks an early solo kill regardless of order.
	tl := eventTimeline(1800000,
		Event{Type: EventKill, Timestamp: 100000, Actor: 1, Victim: 6},
		Event{Type: EventObjective, Timestamp: 1500000, Actor: 3, Monster: "BARON_NASHOR"},
	)

	det := mustDetect(t, tl, nil, DetectOptions{MergeWindow: 30 * time.Second, Weights: flatWeights()})
	if len(det.TurningPoints) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(det.TurningPoints))
	}
	if det.TurningPoints[0].Category != CategoryObjective {
		t.Errorf("Expected objective ranked first, got %s", det.TurningPoints[0].Category)
	}
	if det.TurningPoints[0].Magnitude < det.TurningPoints[1].Magnitude {
		t.Error("Turning points not sorted by descending magnitude")
	}
}

func TestDetectTieBreakEarlierFirst(t *testing.T) {
	tl := eventTimeline(1800000,
		Event{Type: EventKill, Timestamp: 500000, Actor: 2, Victim: 7},
		Event{Type: EventKill, Timestamp: 100000, Actor: 1, Victim: 6},
	)

	det := mustDetect(t, tl, nil, DetectOptions{MergeWindow: 30 * time.Second, Weights: flatWeights()})
	if len(det.TurningPoints) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(det.TurningPoints))
	}
	if det.TurningPoints[0].Timestamp != 100000 {
		t.Errorf("Expected earlier point first on equal magnitude, got t=%d", det.TurningPoints[0].Timestamp)
	}
}

func TestDetectGoldSwingTerm(t *testing.T) {
	tl := eventTimeline(1800000, Event{Type: EventKill, Timestamp: 60000, Actor: 1, Victim: 6})

	series := &Series{
		ParticipantIDs: []int{1},
		Rows: []Row{
			{Timestamp: 0, Snapshots: []Snapshot{{ParticipantID: 1}}},
			{Timestamp: 60000, Snapshots: []Snapshot{{ParticipantID: 1, GoldDelta: -10000}}},
		},
	}

	w := flatWeights()
	w.GoldSwingScale = 4
	w.GoldSwingCap = 25

	det := mustDetect(t, tl, series, DetectOptions{MergeWindow: 30 * time.Second, Weights: w})
	if len(det.TurningPoints) != 1 {
		t.Fatalf("Expected 1 point, got %d", len(det.TurningPoints))
	}

	// 18 base plus the swing term capped at 25 (|−10000|/1000*4 = 40 clamps).
	if got := det.TurningPoints[0].Magnitude; got != 43 {
		t.Errorf("Expected magnitude 43, got %f", got)
	}
	if det.TurningPoints[0].Facts.GoldSwing != 10000 {
		t.Errorf("Expected gold swing 10000, got %d", det.TurningPoints[0].Facts.GoldSwing)
	}
}

func TestDetectMalformedEventsCountedAndWarned(t *testing.T) {
	tl := eventTimeline(1800000,
		Event{Type: EventKill, Timestamp: 100000, Actor: 1, Victim: 6},
		Event{Type: EventKill, Timestamp: 200000, Actor: 0}, // no actor
		Event{Type: EventObjective, Timestamp: 300000, Actor: 0},
	)

	det := mustDetect(t, tl, nil, DefaultDetectOptions())
	if det.MalformedEvents != 2 {
		t.Errorf("Expected 2 malformed events, got %d", det.MalformedEvents)
	}
	if len(det.TurningPoints) != 1 {
		t.Errorf("Expected malformed events skipped, got %d points", len(det.TurningPoints))
	}
	if len(det.Warnings) != 1 || !strings.Contains(det.Warnings[0], "data quality") {
		t.Errorf("Expected data quality warning, got %v", det.Warnings)
	}
}

func TestDetectNoWarningBelowThreshold(t *testing.T) {
	events := []Event{{Type: EventKill, Timestamp: 200000, Actor: 0}}
	for i := 0; i < 9; i++ {
		events = append(events, Event{Type: EventKill, Timestamp: int64(300000 + i*60000), Actor: i + 1, Victim: 10})
	}
	tl := eventTimeline(1800000, events...)

	det := mustDetect(t, tl, nil, DefaultDetectOptions())
	if len(det.Warnings) != 0 {
		t.Errorf("Expected no warning at 10%% malformed, got %v", det.Warnings)
	}
}
