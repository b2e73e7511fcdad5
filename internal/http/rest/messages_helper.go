package rest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhafner/sportmate_api/internal/model"
	"github.com/jhafner/sportmate_api/util"
	"github.com/jhafner/sportmate_api/util/realtime"
	"github.com/jhafner/sportmate_api/util/values"
)

const defaultHistoryLimit = 30

func (api *API) SendMessageHelper(ctx context.Context, fromUserID uuid.UUID, req model.SendMessageRequest) (model.Message, string, string, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return model.Message{}, values.Unprocessable, "Message content is empty", fmt.Errorf("empty message content")
	}

	summary, err := api.GetEventSummaryRepo(ctx, req.EventID)
	if err == ErrEventNotFound {
		return model.Message{}, values.NotFound, "Event not found", err
	}
	if err != nil {
		return model.Message{}, values.Error, "Failed to fetch event", err
	}

	// The recipient defaults to the event host unless an override is
	// given, so a tap on an event card always reaches someone.
	toUserID := summary.HostID
	if req.ToUserID != nil {
		toUserID = *req.ToUserID
	}
	if toUserID == fromUserID {
		return model.Message{}, values.Unprocessable, "Cannot message yourself", fmt.Errorf("sender and recipient are the same user")
	}

	msg := model.Message{
		ID:         util.GenerateUUID(),
		EventID:    req.EventID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Content:    content,
	}
	msg.FromDisplayName, msg.FromAvatarURL = api.profileSnapshot(ctx, fromUserID)

	created, err := api.InsertMessageRepo(ctx, msg)
	if err != nil {
		return model.Message{}, values.Error, "Failed to send message", err
	}

	api.Deps.Realtime.Notify(realtime.Change{
		Table:    realtime.TableMessages,
		Type:     realtime.ChangeInsert,
		EventID:  created.EventID,
		ToUserID: created.ToUserID,
	})

	go api.pushNewMessage(created, summary.Title)

	return created, values.Created, "Message sent", nil
}

// pushNewMessage delivers the push notification for a stored message.
// Failures are logged and dropped, delivery is best effort.
func (api *API) pushNewMessage(msg model.Message, eventTitle string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	recipient, err := api.GetProfileRepo(ctx, msg.ToUserID)
	if err != nil || !recipient.PushEnabled || recipient.ExpoPushToken == nil {
		return
	}

	sender := "Neue Nachricht"
	if msg.FromDisplayName != nil && *msg.FromDisplayName != "" {
		sender = *msg.FromDisplayName
	}

	err = api.Deps.Push.Send(ctx, *recipient.ExpoPushToken, fmt.Sprintf("%s (%s)", sender, eventTitle), msg.Content)
	if err != nil {
		log.Println("error sending push notification", err)
	}
}

func (api *API) ListMessagesHelper(ctx context.Context, eventID, me, other uuid.UUID, limit int, before *time.Time) (model.MessagesPage, string, string, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	descending, err := api.ListConversationMessagesRepo(ctx, eventID, me, other, limit, before)
	if err != nil {
		return model.MessagesPage{}, values.Error, "Failed to fetch messages", err
	}

	page := pageMessages(descending, limit)
	return page, values.Success, "Messages fetched successfully", nil
}

// pageMessages turns a newest-first fetch into the ascending display
// order and derives the backward cursor. A short page means history is
// exhausted and the cursor is nil.
func pageMessages(descending []model.Message, limit int) model.MessagesPage {
	page := model.MessagesPage{Messages: make([]model.Message, 0, len(descending))}

	for i := len(descending) - 1; i >= 0; i-- {
		page.Messages = append(page.Messages, descending[i])
	}

	if len(descending) == limit && len(descending) > 0 {
		oldest := descending[len(descending)-1].CreatedAt
		page.NextCursor = &oldest
	}
	return page
}

func (api *API) ListConversationsHelper(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Conversation, string, string, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	recent, err := api.ListRecentMessagesRepo(ctx, userID)
	if err != nil {
		return nil, values.Error, "Failed to fetch messages", err
	}

	conversations := buildConversations(recent, userID, limit+offset)
	if offset >= len(conversations) {
		conversations = nil
	} else {
		conversations = conversations[offset:]
	}
	if len(conversations) == 0 {
		return []model.Conversation{}, values.Success, "Conversations fetched successfully", nil
	}

	eventIDs := make([]uuid.UUID, 0, len(conversations))
	otherIDs := make([]uuid.UUID, 0, len(conversations))
	for _, convo := range conversations {
		eventIDs = append(eventIDs, convo.EventID)
		otherIDs = append(otherIDs, convo.WithUserID)
	}

	titles, err := api.GetEventTitlesRepo(ctx, eventIDs)
	if err != nil {
		return nil, values.Error, "Failed to fetch event titles", err
	}
	profiles, err := api.GetProfilesRepo(ctx, otherIDs)
	if err != nil {
		return nil, values.Error, "Failed to fetch profiles", err
	}

	for i := range conversations {
		conversations[i].EventTitle = titles[conversations[i].EventID]
		if profile, ok := profiles[conversations[i].WithUserID]; ok {
			conversations[i].WithName = profile.FullName
			conversations[i].WithAvatar = profile.AvatarURL
		}
	}

	return conversations, values.Success, "Conversations fetched successfully", nil
}

// buildConversations reduces a newest-first message scan into distinct
// conversations keyed by (event, other party). The first message seen
// per key is its last message, so recency ordering falls out of the
// scan order.
func buildConversations(recent []model.Message, me uuid.UUID, limit int) []model.Conversation {
	type convoKey struct {
		eventID uuid.UUID
		otherID uuid.UUID
	}

	index := make(map[convoKey]int)
	var conversations []model.Conversation

	for _, msg := range recent {
		other := msg.FromUserID
		if msg.FromUserID == me {
			other = msg.ToUserID
		}

		key := convoKey{eventID: msg.EventID, otherID: other}
		pos, seen := index[key]
		if !seen {
			if len(conversations) >= limit {
				// Full page of distinct conversations, but keep
				// scanning so unread tallies stay accurate.
				continue
			}
			conversations = append(conversations, model.Conversation{
				EventID:     msg.EventID,
				WithUserID:  other,
				LastMessage: msg,
			})
			pos = len(conversations) - 1
			index[key] = pos
		}

		if msg.ToUserID == me && msg.ReadAt == nil {
			conversations[pos].UnreadCount++
		}
	}

	return conversations
}

func (api *API) MarkConversationReadHelper(ctx context.Context, userID uuid.UUID, req model.MarkReadRequest) (string, string, error) {
	updated, err := api.MarkConversationReadRepo(ctx, req.EventID, req.FromUserID, userID)
	if err != nil {
		return values.Error, "Failed to mark conversation as read", err
	}

	if updated > 0 {
		api.Deps.Realtime.Notify(realtime.Change{
			Table:    realtime.TableMessages,
			Type:     realtime.ChangeUpdate,
			EventID:  req.EventID,
			ToUserID: userID,
		})
	}

	return values.Success, "Conversation marked as read", nil
}

func (api *API) UnreadCountHelper(ctx context.Context, userID uuid.UUID) (model.UnreadCountResponse, string, string, error) {
	count, err := api.CountUnreadRepo(ctx, userID)
	if err != nil {
		return model.UnreadCountResponse{}, values.Error, "Failed to count unread messages", err
	}
	return model.UnreadCountResponse{Count: count}, values.Success, "Unread count fetched successfully", nil
}
