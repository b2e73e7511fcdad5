package rest

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhafner/sportmate_api/internal/model"
	"github.com/jhafner/sportmate_api/util"
)

var (
	ErrEventNotFound = errors.New("event not found")
)

type participantTally struct {
	Count  int
	Pacers int
}

// applyMeetingPoint lifts the stored point into the latitude/longitude
// fields the JSON layer exposes.
func applyMeetingPoint(event *model.Event) {
	if !event.MeetingPoint.Valid {
		return
	}
	lat, lon := util.PointToLatLon(event.MeetingPoint)
	event.Latitude = &lat
	event.Longitude = &lon
}

// CreateEventRepo inserts the event and enrolls the host as a
// participant in the same transaction.
func (api *API) CreateEventRepo(ctx context.Context, event model.Event, host model.Participant) (model.Event, error) {
	var created model.Event

	err := api.Deps.DB.RunInTx(ctx, func(tx pgx.Tx) error {
		query := `
            INSERT INTO events (
                id, host_id, title, sport, date, city, location_text,
                meeting_point, distance_km, pace, level, description,
                visibility, pacer_wanted
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
            RETURNING id, host_id, title, sport, date, city, location_text,
                meeting_point, distance_km, pace, level, description,
                visibility, pacer_wanted, created_at
        `
		err := tx.QueryRow(ctx, query,
			event.ID, event.HostID, event.Title, event.Sport, event.Date,
			event.City, event.LocationText, event.MeetingPoint, event.DistanceKm,
			event.Pace, event.Level, event.Description, event.Visibility,
			event.PacerWanted,
		).Scan(
			&created.ID, &created.HostID, &created.Title, &created.Sport,
			&created.Date, &created.City, &created.LocationText,
			&created.MeetingPoint, &created.DistanceKm, &created.Pace,
			&created.Level, &created.Description, &created.Visibility,
			&created.PacerWanted, &created.CreatedAt,
		)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
            INSERT INTO participants (event_id, user_id, display_name, avatar_url, pacer)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (event_id, user_id) DO UPDATE
            SET display_name = EXCLUDED.display_name,
                avatar_url = EXCLUDED.avatar_url,
                pacer = EXCLUDED.pacer
        `, created.ID, host.UserID, host.DisplayName, host.AvatarURL, host.Pacer)
		return err
	})

	if err != nil {
		log.Println("error creating event or enrolling host", err)
		return model.Event{}, err
	}

	applyMeetingPoint(&created)
	return created, nil
}

func (api *API) ListEventsRepo(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	baseQuery := `
        SELECT
            id, host_id, title, sport, date, city, location_text,
            meeting_point, distance_km, pace, level, description,
            visibility, pacer_wanted, created_at
        FROM events
        WHERE visibility = 'public'
    `

	var args []interface{}
	argCount := 0

	whereClause := ""
	if filter.City != "" {
		argCount++
		whereClause += fmt.Sprintf(" AND city = $%d", argCount)
		args = append(args, filter.City)
	}
	if len(filter.Sports) > 0 {
		argCount++
		whereClause += fmt.Sprintf(" AND sport = ANY($%d)", argCount)
		args = append(args, filter.Sports)
	}
	if filter.DateFrom != nil {
		argCount++
		whereClause += fmt.Sprintf(" AND date >= $%d", argCount)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		argCount++
		whereClause += fmt.Sprintf(" AND date <= $%d", argCount)
		args = append(args, *filter.DateTo)
	}
	if filter.MinDistance != nil {
		argCount++
		whereClause += fmt.Sprintf(" AND distance_km >= $%d", argCount)
		args = append(args, *filter.MinDistance)
	}
	if filter.MaxDistance != nil {
		argCount++
		whereClause += fmt.Sprintf(" AND distance_km <= $%d", argCount)
		args = append(args, *filter.MaxDistance)
	}
	if len(filter.Levels) > 0 {
		argCount++
		whereClause += fmt.Sprintf(" AND level = ANY($%d)", argCount)
		args = append(args, filter.Levels)
	}
	if filter.PacerWanted {
		whereClause += " AND pacer_wanted = TRUE"
	}

	query := fmt.Sprintf(`%s %s ORDER BY date ASC`, baseQuery, whereClause)

	rows, err := api.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var event model.Event
		err := rows.Scan(
			&event.ID, &event.HostID, &event.Title, &event.Sport,
			&event.Date, &event.City, &event.LocationText,
			&event.MeetingPoint, &event.DistanceKm, &event.Pace,
			&event.Level, &event.Description, &event.Visibility,
			&event.PacerWanted, &event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		applyMeetingPoint(&event)
		events = append(events, event)
	}

	return events, rows.Err()
}

// CountParticipantsRepo tallies participants and pacers per event for
// the given id set.
func (api *API) CountParticipantsRepo(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]participantTally, error) {
	query := `
        SELECT event_id, COUNT(*), COUNT(*) FILTER (WHERE pacer)
        FROM participants
        WHERE event_id = ANY($1)
        GROUP BY event_id
    `
	rows, err := api.DB.Query(ctx, query, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("counting participants: %w", err)
	}
	defer rows.Close()

	tallies := make(map[uuid.UUID]participantTally)
	for rows.Next() {
		var eventID uuid.UUID
		var tally participantTally
		if err := rows.Scan(&eventID, &tally.Count, &tally.Pacers); err != nil {
			return nil, fmt.Errorf("scanning participant tally: %w", err)
		}
		tallies[eventID] = tally
	}
	return tallies, rows.Err()
}

func (api *API) CountBoostsRepo(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	query := `
        SELECT event_id, COUNT(*)
        FROM boosts
        WHERE event_id = ANY($1)
        GROUP BY event_id
    `
	rows, err := api.DB.Query(ctx, query, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("counting boosts: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var eventID uuid.UUID
		var count int
		if err := rows.Scan(&eventID, &count); err != nil {
			return nil, fmt.Errorf("scanning boost count: %w", err)
		}
		counts[eventID] = count
	}
	return counts, rows.Err()
}

func (api *API) GetEventByIDRepo(ctx context.Context, eventID uuid.UUID, viewerID uuid.UUID) (model.EventDetail, error) {
	var detail model.EventDetail
	query := `
        SELECT
            e.id, e.host_id, e.title, e.sport, e.date, e.city, e.location_text,
            e.meeting_point, e.distance_km, e.pace, e.level, e.description,
            e.visibility, e.pacer_wanted, e.created_at,
            (SELECT COUNT(*) FROM boosts b WHERE b.event_id = e.id),
            EXISTS(SELECT 1 FROM boosts b WHERE b.event_id = e.id AND b.user_id = $2)
        FROM events e
        WHERE e.id = $1
    `
	err := api.DB.QueryRow(ctx, query, eventID, viewerID).Scan(
		&detail.ID, &detail.HostID, &detail.Title, &detail.Sport,
		&detail.Date, &detail.City, &detail.LocationText,
		&detail.MeetingPoint, &detail.DistanceKm, &detail.Pace,
		&detail.Level, &detail.Description, &detail.Visibility,
		&detail.PacerWanted, &detail.CreatedAt,
		&detail.BoostsCount, &detail.BoostedByMe,
	)
	if err == pgx.ErrNoRows {
		return model.EventDetail{}, ErrEventNotFound
	}
	if err != nil {
		log.Println("error getting event by ID", err)
		return model.EventDetail{}, err
	}
	applyMeetingPoint(&detail.Event)

	participants, err := api.ListParticipantsRepo(ctx, eventID)
	if err != nil {
		return model.EventDetail{}, err
	}
	boosts, err := api.ListBoostsRepo(ctx, eventID)
	if err != nil {
		return model.EventDetail{}, err
	}
	detail.Participants = participants
	detail.Boosts = boosts
	for _, p := range participants {
		if p.UserID == viewerID {
			detail.Joined = true
			detail.MyPacer = p.Pacer
		}
	}

	return detail, nil
}

func (api *API) GetEventSummaryRepo(ctx context.Context, eventID uuid.UUID) (model.EventSummary, error) {
	var summary model.EventSummary
	query := `SELECT id, host_id, title, date FROM events WHERE id = $1`

	err := api.DB.QueryRow(ctx, query, eventID).Scan(
		&summary.ID, &summary.HostID, &summary.Title, &summary.Date,
	)
	if err == pgx.ErrNoRows {
		return model.EventSummary{}, ErrEventNotFound
	}
	if err != nil {
		log.Println("error getting event summary", err)
		return model.EventSummary{}, err
	}
	return summary, nil
}

// GetEventTitlesRepo resolves titles for a set of event ids, used to
// enrich conversation summaries.
func (api *API) GetEventTitlesRepo(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(eventIDs) == 0 {
		return map[uuid.UUID]string{}, nil
	}

	query := `SELECT id, title FROM events WHERE id = ANY($1)`
	rows, err := api.DB.Query(ctx, query, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("querying event titles: %w", err)
	}
	defer rows.Close()

	titles := make(map[uuid.UUID]string)
	for rows.Next() {
		var id uuid.UUID
		var title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("scanning event title: %w", err)
		}
		titles[id] = title
	}
	return titles, rows.Err()
}
