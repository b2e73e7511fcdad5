package rest

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"github.com/jhafner/sportmate_api/config"
	"github.com/jhafner/sportmate_api/internal/model"
	"github.com/jhafner/sportmate_api/util/values"
)

func TestBoostAllowed(t *testing.T) {
	now := time.Date(2025, 7, 16, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		eventDate time.Time
		want      bool
	}{
		{name: "event in the future", eventDate: now.Add(time.Hour), want: false},
		{name: "event just started", eventDate: now, want: true},
		{name: "event in the past", eventDate: now.Add(-2 * time.Hour), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := boostAllowed(tt.eventDate, now); got != tt.want {
				t.Errorf("boostAllowed(%v, %v) = %v, want %v", tt.eventDate, now, got, tt.want)
			}
		})
	}
}

func TestBuildEventList(t *testing.T) {
	idA := uuid.New()
	idB := uuid.New()
	idC := uuid.New()

	events := []model.Event{
		{ID: idA, Title: "5k Park Run"},
		{ID: idB, Title: "Tennis Doubles"},
		{ID: idC, Title: "Morning Swim"},
	}
	tallies := map[uuid.UUID]participantTally{
		idA: {Count: 3, Pacers: 1},
		idB: {Count: 2},
	}
	boosts := map[uuid.UUID]int{idA: 5}

	got := buildEventList(events, tallies, boosts, false)
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if got[0].ParticipantsCount != 3 || got[0].PacerCount != 1 || got[0].BoostsCount != 5 {
		t.Errorf("unexpected aggregates for first event: %+v", got[0])
	}
	if got[2].ParticipantsCount != 0 || got[2].BoostsCount != 0 {
		t.Errorf("event without rows should have zero counts, got %+v", got[2])
	}

	// Ordering must follow the input slice, not map iteration.
	for i, id := range []uuid.UUID{idA, idB, idC} {
		if got[i].ID != id {
			t.Errorf("event %d out of order", i)
		}
	}

	withPacer := buildEventList(events, tallies, boosts, true)
	if len(withPacer) != 1 || withPacer[0].ID != idA {
		t.Errorf("pacer filter should keep only events with a pacer, got %d events", len(withPacer))
	}
}

func TestCreateEventHelperRequiresLevel(t *testing.T) {
	api := &API{
		Config: &config.Config{
			DistanceSports: []string{"Laufen", "Rad", "Schwimmen"},
			LevelSports:    []string{"Tennis", "Padel", "Badminton", "Squash"},
		},
	}
	empty := ""

	tests := []struct {
		name  string
		sport string
		level *string
	}{
		{name: "level missing", sport: "Tennis", level: nil},
		{name: "level empty", sport: "Padel", level: &empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := model.CreateEventRequest{
				Title: "Doubles",
				Sport: tt.sport,
				Date:  "16.07.",
				Time:  "18:00",
				City:  "Kassel",
				Level: tt.level,
			}
			_, status, _, err := api.CreateEventHelper(context.Background(), uuid.New(), req)
			if err == nil {
				t.Fatal("expected an error for a leveled sport without a level")
			}
			if status != values.Unprocessable {
				t.Errorf("status = %q, want %q", status, values.Unprocessable)
			}
		})
	}
}

func TestParseEventFilter(t *testing.T) {
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
	min := 5.0
	max := 21.1

	filter := model.EventFilter{
		City:         "Kassel",
		Sports:       []string{"Laufen", "Rad"},
		DateFrom:     &from,
		DateTo:       &to,
		MinDistance:  &min,
		MaxDistance:  &max,
		Levels:       []string{"Pro"},
		PacerWanted:  true,
		PacerOffered: true,
	}

	// Build the query string exactly the way a client would.
	params, err := query.Values(filter)
	if err != nil {
		t.Fatalf("query.Values: %v", err)
	}

	parsed, err := parseEventFilter(params)
	if err != nil {
		t.Fatalf("parseEventFilter: %v", err)
	}

	if parsed.City != filter.City {
		t.Errorf("city = %q, want %q", parsed.City, filter.City)
	}
	if len(parsed.Sports) != 2 || parsed.Sports[0] != "Laufen" || parsed.Sports[1] != "Rad" {
		t.Errorf("sports = %v", parsed.Sports)
	}
	if parsed.DateFrom == nil || !parsed.DateFrom.Equal(from) {
		t.Errorf("date_from = %v, want %v", parsed.DateFrom, from)
	}
	if parsed.DateTo == nil || !parsed.DateTo.Equal(to) {
		t.Errorf("date_to = %v, want %v", parsed.DateTo, to)
	}
	if parsed.MinDistance == nil || *parsed.MinDistance != min {
		t.Errorf("min_distance = %v, want %v", parsed.MinDistance, min)
	}
	if parsed.MaxDistance == nil || *parsed.MaxDistance != max {
		t.Errorf("max_distance = %v, want %v", parsed.MaxDistance, max)
	}
	if len(parsed.Levels) != 1 || parsed.Levels[0] != "Pro" {
		t.Errorf("levels = %v", parsed.Levels)
	}
	if !parsed.PacerWanted || !parsed.PacerOffered {
		t.Errorf("pacer flags = %v/%v, want true/true", parsed.PacerWanted, parsed.PacerOffered)
	}
}

func TestParseEventFilterRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad date", key: "date_from", value: "16.07."},
		{name: "bad distance", key: "min_distance", value: "five"},
		{name: "bad bool", key: "pacer_wanted", value: "yes please"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := map[string][]string{tt.key: {tt.value}}
			if _, err := parseEventFilter(params); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
