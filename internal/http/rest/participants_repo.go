package rest

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jhafner/sportmate_api/internal/model"
)

// UpsertParticipantRepo enrolls a user into an event, refreshing the
// display snapshot and pacer flag on repeat calls.
func (api *API) UpsertParticipantRepo(ctx context.Context, p model.Participant) error {
	stmt := `
        INSERT INTO participants (event_id, user_id, display_name, avatar_url, pacer)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (event_id, user_id) DO UPDATE
        SET display_name = EXCLUDED.display_name,
            avatar_url = EXCLUDED.avatar_url,
            pacer = EXCLUDED.pacer
    `
	_, err := api.DB.Exec(ctx, stmt, p.EventID, p.UserID, p.DisplayName, p.AvatarURL, p.Pacer)
	if err != nil {
		log.Println("error upserting participant", err)
		return err
	}
	return nil
}

// DeleteParticipantRepo is a no-op when the row does not exist.
func (api *API) DeleteParticipantRepo(ctx context.Context, eventID, userID uuid.UUID) error {
	stmt := `DELETE FROM participants WHERE event_id = $1 AND user_id = $2`

	_, err := api.DB.Exec(ctx, stmt, eventID, userID)
	if err != nil {
		log.Println("error deleting participant", err)
		return err
	}
	return nil
}

func (api *API) ListParticipantsRepo(ctx context.Context, eventID uuid.UUID) ([]model.Participant, error) {
	query := `
        SELECT event_id, user_id, display_name, avatar_url, pacer, created_at
        FROM participants
        WHERE event_id = $1
        ORDER BY created_at ASC
    `
	rows, err := api.DB.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying participants: %w", err)
	}
	defer rows.Close()

	var participants []model.Participant
	for rows.Next() {
		var p model.Participant
		err := rows.Scan(&p.EventID, &p.UserID, &p.DisplayName, &p.AvatarURL, &p.Pacer, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
