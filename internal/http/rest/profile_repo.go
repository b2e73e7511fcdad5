package rest

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhafner/sportmate_api/internal/model"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

const defaultCandidateLimit = 25

func (api *API) GetProfileRepo(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	var profile model.Profile
	query := `
        SELECT id, full_name, city, sports, avatar_url, expo_push_token,
            push_enabled, created_at, updated_at
        FROM profiles
        WHERE id = $1
    `
	err := api.DB.QueryRow(ctx, query, userID).Scan(
		&profile.ID, &profile.FullName, &profile.City, &profile.Sports,
		&profile.AvatarURL, &profile.ExpoPushToken, &profile.PushEnabled,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return model.Profile{}, ErrProfileNotFound
	}
	if err != nil {
		log.Println("error getting profile", err)
		return model.Profile{}, err
	}
	return profile, nil
}

func (api *API) GetProfilesRepo(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]model.Profile, error) {
	if len(userIDs) == 0 {
		return map[uuid.UUID]model.Profile{}, nil
	}

	query := `
        SELECT id, full_name, city, sports, avatar_url, expo_push_token,
            push_enabled, created_at, updated_at
        FROM profiles
        WHERE id = ANY($1)
    `
	rows, err := api.DB.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	profiles := make(map[uuid.UUID]model.Profile)
	for rows.Next() {
		var profile model.Profile
		err := rows.Scan(
			&profile.ID, &profile.FullName, &profile.City, &profile.Sports,
			&profile.AvatarURL, &profile.ExpoPushToken, &profile.PushEnabled,
			&profile.CreatedAt, &profile.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		profiles[profile.ID] = profile
	}
	return profiles, rows.Err()
}

func (api *API) UpsertProfileRepo(ctx context.Context, userID uuid.UUID, req model.UpsertProfileRequest) (model.Profile, error) {
	var profile model.Profile
	stmt := `
        INSERT INTO profiles (id, full_name, city, sports)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE
        SET full_name = EXCLUDED.full_name,
            city = EXCLUDED.city,
            sports = EXCLUDED.sports,
            updated_at = NOW()
        RETURNING id, full_name, city, sports, avatar_url, expo_push_token,
            push_enabled, created_at, updated_at
    `
	err := api.DB.QueryRow(ctx, stmt, userID, req.FullName, req.City, req.Sports).Scan(
		&profile.ID, &profile.FullName, &profile.City, &profile.Sports,
		&profile.AvatarURL, &profile.ExpoPushToken, &profile.PushEnabled,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		log.Println("error upserting profile", err)
		return model.Profile{}, err
	}
	return profile, nil
}

func (api *API) UpdateAvatarRepo(ctx context.Context, userID uuid.UUID, avatarURL string) error {
	stmt := `
        INSERT INTO profiles (id, avatar_url)
        VALUES ($1, $2)
        ON CONFLICT (id) DO UPDATE
        SET avatar_url = EXCLUDED.avatar_url,
            updated_at = NOW()
    `
	_, err := api.DB.Exec(ctx, stmt, userID, avatarURL)
	if err != nil {
		log.Println("error updating avatar", err)
		return err
	}
	return nil
}

func (api *API) SavePushTokenRepo(ctx context.Context, userID uuid.UUID, token *string, enabled bool) error {
	stmt := `
        INSERT INTO profiles (id, expo_push_token, push_enabled)
        VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE
        SET expo_push_token = EXCLUDED.expo_push_token,
            push_enabled = EXCLUDED.push_enabled,
            updated_at = NOW()
    `
	_, err := api.DB.Exec(ctx, stmt, userID, token, enabled)
	if err != nil {
		log.Println("error saving push token", err)
		return err
	}
	return nil
}

// ListCandidatesRepo returns a bounded set of other users' profiles for
// the matching screen.
func (api *API) ListCandidatesRepo(ctx context.Context, userID uuid.UUID, limit int) ([]model.Profile, error) {
	if limit <= 0 {
		limit = defaultCandidateLimit
	}

	query := `
        SELECT id, full_name, city, sports, avatar_url, expo_push_token,
            push_enabled, created_at, updated_at
        FROM profiles
        WHERE id <> $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := api.DB.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var candidates []model.Profile
	for rows.Next() {
		var profile model.Profile
		err := rows.Scan(
			&profile.ID, &profile.FullName, &profile.City, &profile.Sports,
			&profile.AvatarURL, &profile.ExpoPushToken, &profile.PushEnabled,
			&profile.CreatedAt, &profile.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		candidates = append(candidates, profile)
	}
	return candidates, rows.Err()
}
