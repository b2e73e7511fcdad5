package rest

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jhafner/sportmate_api/internal/model"
)

// InsertBoostRepo reports whether a new row was written. A duplicate
// boost is absorbed by the unique constraint and returns false.
func (api *API) InsertBoostRepo(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	stmt := `
        INSERT INTO boosts (event_id, user_id)
        VALUES ($1, $2)
        ON CONFLICT (event_id, user_id) DO NOTHING
    `
	tag, err := api.DB.Exec(ctx, stmt, eventID, userID)
	if err != nil {
		log.Println("error inserting boost", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (api *API) ListBoostsRepo(ctx context.Context, eventID uuid.UUID) ([]model.Boost, error) {
	query := `
        SELECT event_id, user_id, created_at
        FROM boosts
        WHERE event_id = $1
        ORDER BY created_at ASC
    `
	rows, err := api.DB.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying boosts: %w", err)
	}
	defer rows.Close()

	var boosts []model.Boost
	for rows.Next() {
		var boost model.Boost
		if err := rows.Scan(&boost.EventID, &boost.UserID, &boost.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning boost: %w", err)
		}
		boosts = append(boosts, boost)
	}
	return boosts, rows.Err()
}

func (api *API) DeleteBoostRepo(ctx context.Context, eventID, userID uuid.UUID) error {
	stmt := `DELETE FROM boosts WHERE event_id = $1 AND user_id = $2`

	_, err := api.DB.Exec(ctx, stmt, eventID, userID)
	if err != nil {
		log.Println("error deleting boost", err)
		return err
	}
	return nil
}

// GetHostBoostsRepo tallies boosts across every event the user hosts.
func (api *API) GetHostBoostsRepo(ctx context.Context, hostID uuid.UUID) (model.HostBoosts, error) {
	query := `
        SELECT e.id, e.title, COUNT(b.user_id)
        FROM events e
        LEFT JOIN boosts b ON b.event_id = e.id
        WHERE e.host_id = $1
        GROUP BY e.id, e.title
        HAVING COUNT(b.user_id) > 0
        ORDER BY COUNT(b.user_id) DESC
    `
	rows, err := api.DB.Query(ctx, query, hostID)
	if err != nil {
		return model.HostBoosts{}, fmt.Errorf("querying host boosts: %w", err)
	}
	defer rows.Close()

	tally := model.HostBoosts{UserID: hostID}
	for rows.Next() {
		var entry model.EventBoostCount
		if err := rows.Scan(&entry.EventID, &entry.Title, &entry.Count); err != nil {
			return model.HostBoosts{}, fmt.Errorf("scanning host boosts: %w", err)
		}
		tally.ByEvent = append(tally.ByEvent, entry)
		tally.Total += entry.Count
	}
	return tally, rows.Err()
}
