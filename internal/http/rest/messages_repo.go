package rest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jhafner/sportmate_api/internal/model"
)

// conversationWindow bounds the recent-message scan behind the
// conversation list so it never degrades into a full table walk.
const conversationWindow = 200

func (api *API) InsertMessageRepo(ctx context.Context, msg model.Message) (model.Message, error) {
	var created model.Message
	query := `
        INSERT INTO messages (
            id, event_id, from_user_id, to_user_id, content,
            from_display_name, from_avatar_url
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, event_id, from_user_id, to_user_id, content,
            from_display_name, from_avatar_url, read_at, created_at
    `
	err := api.DB.QueryRow(ctx, query,
		msg.ID, msg.EventID, msg.FromUserID, msg.ToUserID, msg.Content,
		msg.FromDisplayName, msg.FromAvatarURL,
	).Scan(
		&created.ID, &created.EventID, &created.FromUserID, &created.ToUserID,
		&created.Content, &created.FromDisplayName, &created.FromAvatarURL,
		&created.ReadAt, &created.CreatedAt,
	)
	if err != nil {
		log.Println("error inserting message", err)
		return model.Message{}, err
	}
	return created, nil
}

// ListConversationMessagesRepo returns messages between the two users
// within the event, newest first, older than the exclusive cursor when
// one is given.
func (api *API) ListConversationMessagesRepo(ctx context.Context, eventID, me, other uuid.UUID, limit int, before *time.Time) ([]model.Message, error) {
	baseQuery := `
        SELECT id, event_id, from_user_id, to_user_id, content,
            from_display_name, from_avatar_url, read_at, created_at
        FROM messages
        WHERE event_id = $1
        AND ((from_user_id = $2 AND to_user_id = $3) OR (from_user_id = $3 AND to_user_id = $2))
    `
	args := []interface{}{eventID, me, other}
	argCount := 3

	whereClause := ""
	if before != nil {
		argCount++
		whereClause = fmt.Sprintf(" AND created_at < $%d", argCount)
		args = append(args, *before)
	}

	query := fmt.Sprintf(`%s %s ORDER BY created_at DESC LIMIT $%d`, baseQuery, whereClause, argCount+1)
	args = append(args, limit)

	rows, err := api.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying conversation messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var msg model.Message
		err := rows.Scan(
			&msg.ID, &msg.EventID, &msg.FromUserID, &msg.ToUserID,
			&msg.Content, &msg.FromDisplayName, &msg.FromAvatarURL,
			&msg.ReadAt, &msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// ListRecentMessagesRepo returns the user's latest sent or received
// messages, newest first, capped by the conversation window.
func (api *API) ListRecentMessagesRepo(ctx context.Context, userID uuid.UUID) ([]model.Message, error) {
	query := `
        SELECT id, event_id, from_user_id, to_user_id, content,
            from_display_name, from_avatar_url, read_at, created_at
        FROM messages
        WHERE from_user_id = $1 OR to_user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := api.DB.Query(ctx, query, userID, conversationWindow)
	if err != nil {
		return nil, fmt.Errorf("querying recent messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var msg model.Message
		err := rows.Scan(
			&msg.ID, &msg.EventID, &msg.FromUserID, &msg.ToUserID,
			&msg.Content, &msg.FromDisplayName, &msg.FromAvatarURL,
			&msg.ReadAt, &msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// MarkConversationReadRepo stamps read_at on every unread message from
// the given sender to the given recipient within the event. The filter
// makes repeat calls a no-op.
func (api *API) MarkConversationReadRepo(ctx context.Context, eventID, fromUserID, toUserID uuid.UUID) (int64, error) {
	stmt := `
        UPDATE messages
        SET read_at = NOW()
        WHERE event_id = $1 AND from_user_id = $2 AND to_user_id = $3 AND read_at IS NULL
    `
	tag, err := api.DB.Exec(ctx, stmt, eventID, fromUserID, toUserID)
	if err != nil {
		log.Println("error marking conversation as read", err)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (api *API) CountUnreadRepo(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM messages WHERE to_user_id = $1 AND read_at IS NULL`

	err := api.DB.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		log.Println("error counting unread messages", err)
		return 0, err
	}
	return count, nil
}
