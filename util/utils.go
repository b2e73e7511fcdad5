package util

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jhafner/sportmate_api/util/tracing"
	"github.com/pkg/errors"
)

// DecodeJSONBody ...
func DecodeJSONBody(tc *tracing.Context, body io.ReadCloser, target interface{}) error {
	defer func() {
		_ = body.Close()
	}()

	if body == nil {
		return fmt.Errorf("missing request body for request: %v", tc)
	}

	if err := json.NewDecoder(body).Decode(&target); err != nil {
		return errors.Wrapf(err, "Error parsing json body for request: %v", tc)
	}

	return nil
}

func ValidEmail(email string) error {
	if email == "" {
		return errors.New("invalid email address")
	}
	_, err := mail.ParseAddress(email)
	return err
}

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func GenerateVerificationCode() string {
	return fmt.Sprintf("%04d", rand.Intn(10000))
}

// GetUserIDFromContext extracts the user ID from the context.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	userIDStr, ok := ctx.Value("user_id").(string)
	if !ok || userIDStr == "" {
		return uuid.Nil, errors.New("user ID not found in context")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid user ID format")
	}

	return userID, nil
}

// string to UUID
func StringToUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

func formatTime(format string, t time.Time) string {
	return t.Format(format)
}

func PointToLatLon(point pgtype.Point) (float64, float64) {
	return point.P.Y, point.P.X
}

// PointFromLatLon creates a pgtype.Point from latitude and longitude.
func PointFromLatLon(lat, lon float64) pgtype.Point {
	return pgtype.Point{
		P: pgtype.Vec2{
			X: lon,
			Y: lat,
		},
		Valid: true,
	}
}

// ParseEventDate turns a day-first date string ("16.07." or "16.07") and a
// time string ("18:00") into a UTC instant in the current calendar year.
// Policy carried over from the mobile client: the year is always the current
// one, there is no rollover into the next year for dates already past.
func ParseEventDate(dateStr, timeStr string, now time.Time) (time.Time, error) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(dateStr), ".")
	dm := strings.Split(cleaned, ".")
	if len(dm) != 2 {
		return time.Time{}, fmt.Errorf("invalid date %q, expected day.month", dateStr)
	}
	hm := strings.Split(strings.TrimSpace(timeStr), ":")
	if len(hm) != 2 {
		return time.Time{}, fmt.Errorf("invalid time %q, expected hh:mm", timeStr)
	}

	day, err := parseIntField("day", dm[0], 1, 31)
	if err != nil {
		return time.Time{}, err
	}
	month, err := parseIntField("month", dm[1], 1, 12)
	if err != nil {
		return time.Time{}, err
	}
	hour, err := parseIntField("hour", hm[0], 0, 23)
	if err != nil {
		return time.Time{}, err
	}
	minute, err := parseIntField("minute", hm[1], 0, 59)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(now.Year(), time.Month(month), day, hour, minute, 0, 0, time.UTC), nil
}

func parseIntField(name, s string, min, max int) (int, error) {
	var v int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &v); err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s %d out of range", name, v)
	}
	return v, nil
}
