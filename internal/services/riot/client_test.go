package riot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riftcoach/internal/config"
)

func testClient(baseURL string) *Client {
	return NewClient(&config.Config{
		RiotAPIKey:       "RGAPI-test",
		RiotBaseURLMatch: baseURL,
		RiotTimeout:      5 * time.Second,
	})
}

func TestFetchMatchSummary(t *testing.T) {
	var gotPath, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Riot-Token")
		w.Write([]byte(`{
			"metadata": {"matchId": "VN2_1001"},
			"info": {
				"gameDuration": 1800,
				"participants": [{"participantId": 1, "teamId": 100, "championName": "Ahri", "teamPosition": "MIDDLE", "win": true}]
			}
		}`))
	}))
	defer srv.Close()

	summary, err := testClient(srv.URL).FetchMatchSummary(context.Background(), "VN2_1001")
	if err != nil {
		t.Fatalf("FetchMatchSummary failed: %v", err)
	}

	if gotPath != "/lol/match/v5/matches/VN2_1001" {
		t.Errorf("Unexpected request path: %s", gotPath)
	}
	if gotToken != "RGAPI-test" {
		t.Errorf("Missing or wrong API token header: %q", gotToken)
	}
	if summary.Metadata.MatchID != "VN2_1001" || summary.Info.GameDuration != 1800 {
		t.Errorf("Summary not decoded: %+v", summary)
	}
	if len(summary.Info.Participants) != 1 || summary.Info.Participants[0].ChampionName != "Ahri" {
		t.Errorf("Participants not decoded: %+v", summary.Info.Participants)
	}
}

func TestFetchTimeline(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{
			"info": {
				"frameInterval": 60000,
				"frames": [{
					"timestamp": 60000,
					"participantFrames": {"1": {"participantId": 1, "totalGold": 900, "xp": 400, "level": 2}},
					"events": [{"type": "CHAMPION_KILL", "timestamp": 65000, "killerId": 1, "victimId": 6}]
				}]
			}
		}`))
	}))
	defer srv.Close()

	tl, err := testClient(srv.URL).FetchTimeline(context.Background(), "VN2_1001")
	if err != nil {
		t.Fatalf("FetchTimeline failed: %v", err)
	}

	if gotPath != "/lol/match/v5/matches/VN2_1001/timeline" {
		t.Errorf("Unexpected request path: %s", gotPath)
	}
	if tl.Info.FrameInterval != 60000 || len(tl.Info.Frames) != 1 {
		t.Errorf("Timeline not decoded: %+v", tl.Info)
	}
	frame := tl.Info.Frames[0]
	if frame.ParticipantFrames["1"].TotalGold != 900 {
		t.Errorf("Participant frame not decoded: %+v", frame.ParticipantFrames)
	}
	if len(frame.Events) != 1 || frame.Events[0].KillerID != 1 {
		t.Errorf("Events not decoded: %+v", frame.Events)
	}
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusInternalServerError, ErrUnavailable},
	}

	for _, c := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
		}))

		_, err := testClient(srv.URL).FetchMatchSummary(context.Background(), "VN2_1001")
		if !errors.Is(err, c.want) {
			t.Errorf("Status %d: expected %v, got %v", c.status, c.want, err)
		}
		srv.Close()
	}
}

func TestFetchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).FetchTimeline(context.Background(), "VN2_1001"); err == nil {
		t.Error("Expected decode error for malformed body")
	}
}
