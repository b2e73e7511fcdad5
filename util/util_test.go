package util

import (
	"net/http"
	"testing"
	"time"

	"github.com/jhafner/sportmate_api/util/values"
)

func TestFormatTime(t *testing.T) {
	testTime := time.Date(2025, 4, 5, 14, 30, 45, 0, time.UTC)

	// Test cases with different formats
	testCases := []struct {
		name           string
		format         string
		expectedResult string
	}{
		{"RFC3339", time.RFC3339, "2025-04-05T14:30:45Z"},
		{"Simple Date", "2006-01-02", "2025-04-05"},
		{"Time Only", "15:04:05", "14:30:45"},
		{"Date and Time", "2006-01-02 15:04:05", "2025-04-05 14:30:45"},
		{"Kitchen Time", time.Kitchen, "2:30PM"},
		{"Empty Format", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := formatTime(tc.format, testTime)

			if result != tc.expectedResult {
				t.Errorf("formatTime(%q, %v) = %q; want %q",
					tc.format, testTime, result, tc.expectedResult)
			}
		})
	}
}

func TestParseEventDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		date    string
		time    string
		want    time.Time
		wantErr bool
	}{
		{"plain", "16.07", "18:00", time.Date(2025, 7, 16, 18, 0, 0, 0, time.UTC), false},
		{"trailing dot", "16.07.", "18:00", time.Date(2025, 7, 16, 18, 0, 0, 0, time.UTC), false},
		{"single digits", "5.3", "08:05", time.Date(2025, 3, 5, 8, 5, 0, 0, time.UTC), false},
		{"past date stays in current year", "01.01", "09:00", time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), false},
		{"month first rejected by range", "07.16", "18:00", time.Time{}, true},
		{"missing month", "16", "18:00", time.Time{}, true},
		{"bad time", "16.07", "18", time.Time{}, true},
		{"hour out of range", "16.07", "25:00", time.Time{}, true},
		{"empty", "", "", time.Time{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseEventDate(tc.date, tc.time, now)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseEventDate(%q, %q) expected error, got %v", tc.date, tc.time, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEventDate(%q, %q) returned error %v", tc.date, tc.time, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseEventDate(%q, %q) = %v; want %v", tc.date, tc.time, got, tc.want)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		status string
		want   int
	}{
		{values.Success, http.StatusOK},
		{values.Created, http.StatusCreated},
		{values.BadRequestBody, http.StatusBadRequest},
		{values.Unprocessable, http.StatusUnprocessableEntity},
		{values.NotAllowed, http.StatusForbidden},
		{values.Conflict, http.StatusConflict},
		{values.NotFound, http.StatusNotFound},
		{values.NotAuthorised, http.StatusUnauthorized},
		{values.TokenExpired, http.StatusUnauthorized},
		{"anything-else", http.StatusOK},
	}

	for _, tc := range testCases {
		if got := StatusCode(tc.status); got != tc.want {
			t.Errorf("StatusCode(%q) = %d; want %d", tc.status, got, tc.want)
		}
	}
}

func TestPointRoundTrip(t *testing.T) {
	p := PointFromLatLon(51.3127, 9.4797)
	lat, lon := PointToLatLon(p)
	if lat != 51.3127 || lon != 9.4797 {
		t.Errorf("point round trip = %v,%v; want 51.3127,9.4797", lat, lon)
	}
}
