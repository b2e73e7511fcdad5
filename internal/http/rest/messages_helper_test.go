package rest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhafner/sportmate_api/internal/model"
)

// descendingMessages fabricates n messages from `from` to `to`, newest
// first, spaced one minute apart.
func descendingMessages(n int, eventID, from, to uuid.UUID, newest time.Time) []model.Message {
	messages := make([]model.Message, 0, n)
	for i := 0; i < n; i++ {
		messages = append(messages, model.Message{
			ID:         uuid.New(),
			EventID:    eventID,
			FromUserID: from,
			ToUserID:   to,
			Content:    "msg",
			CreatedAt:  newest.Add(-time.Duration(i) * time.Minute),
		})
	}
	return messages
}

func TestPageMessagesAscendingOrder(t *testing.T) {
	eventID := uuid.New()
	a := uuid.New()
	b := uuid.New()
	newest := time.Date(2025, 7, 16, 18, 0, 0, 0, time.UTC)

	descending := descendingMessages(30, eventID, a, b, newest)
	page := pageMessages(descending, 30)

	if len(page.Messages) != 30 {
		t.Fatalf("expected 30 messages, got %d", len(page.Messages))
	}
	for i := 1; i < len(page.Messages); i++ {
		if page.Messages[i].CreatedAt.Before(page.Messages[i-1].CreatedAt) {
			t.Fatalf("messages not in ascending order at index %d", i)
		}
	}
	if page.NextCursor == nil {
		t.Fatal("full page should carry a cursor")
	}
	if !page.NextCursor.Equal(page.Messages[0].CreatedAt) {
		t.Errorf("cursor should be the oldest returned timestamp")
	}
}

func TestPageMessagesShortPageHasNoCursor(t *testing.T) {
	eventID := uuid.New()
	a := uuid.New()
	b := uuid.New()
	newest := time.Date(2025, 7, 16, 18, 0, 0, 0, time.UTC)

	page := pageMessages(descendingMessages(15, eventID, a, b, newest), 30)
	if page.NextCursor != nil {
		t.Error("short page must signal exhausted history with a nil cursor")
	}

	empty := pageMessages(nil, 30)
	if empty.NextCursor != nil || len(empty.Messages) != 0 {
		t.Error("empty fetch should yield empty page and nil cursor")
	}
}

// Pagination round-trip: 45 messages fetched in two limit-30 pages must
// concatenate to the full ascending history with no gaps or duplicates.
func TestPageMessagesRoundTrip(t *testing.T) {
	eventID := uuid.New()
	a := uuid.New()
	b := uuid.New()
	newest := time.Date(2025, 7, 16, 18, 0, 0, 0, time.UTC)
	all := descendingMessages(45, eventID, a, b, newest)

	fetch := func(before *time.Time, limit int) []model.Message {
		var out []model.Message
		for _, msg := range all {
			if before != nil && !msg.CreatedAt.Before(*before) {
				continue
			}
			out = append(out, msg)
			if len(out) == limit {
				break
			}
		}
		return out
	}

	first := pageMessages(fetch(nil, 30), 30)
	if len(first.Messages) != 30 || first.NextCursor == nil {
		t.Fatalf("first page: %d messages, cursor %v", len(first.Messages), first.NextCursor)
	}

	second := pageMessages(fetch(first.NextCursor, 30), 30)
	if len(second.Messages) != 15 {
		t.Fatalf("second page: expected 15 messages, got %d", len(second.Messages))
	}
	if second.NextCursor != nil {
		t.Error("second page should have no cursor")
	}

	combined := append(append([]model.Message{}, second.Messages...), first.Messages...)
	if len(combined) != 45 {
		t.Fatalf("combined pages hold %d messages, want 45", len(combined))
	}

	seen := make(map[uuid.UUID]bool, 45)
	for i, msg := range combined {
		if seen[msg.ID] {
			t.Fatalf("duplicate message at index %d", i)
		}
		seen[msg.ID] = true
		if i > 0 && combined[i].CreatedAt.Before(combined[i-1].CreatedAt) {
			t.Fatalf("combined history out of order at index %d", i)
		}
	}
}

func TestBuildConversationsGroupsByEventAndPartner(t *testing.T) {
	me := uuid.New()
	alice := uuid.New()
	bob := uuid.New()
	run := uuid.New()
	swim := uuid.New()
	base := time.Date(2025, 7, 16, 18, 0, 0, 0, time.UTC)

	// Newest first, the way the repo returns them.
	recent := []model.Message{
		{ID: uuid.New(), EventID: run, FromUserID: alice, ToUserID: me, Content: "Hi, is this still happening?", CreatedAt: base},
		{ID: uuid.New(), EventID: swim, FromUserID: me, ToUserID: bob, Content: "see you there", CreatedAt: base.Add(-time.Minute)},
		{ID: uuid.New(), EventID: run, FromUserID: me, ToUserID: alice, Content: "older reply", CreatedAt: base.Add(-2 * time.Minute)},
		{ID: uuid.New(), EventID: run, FromUserID: bob, ToUserID: me, Content: "separate thread", CreatedAt: base.Add(-3 * time.Minute)},
	}

	conversations := buildConversations(recent, me, 10)
	if len(conversations) != 3 {
		t.Fatalf("expected 3 conversations, got %d", len(conversations))
	}

	// Recency order falls out of the scan order.
	if conversations[0].WithUserID != alice || conversations[0].EventID != run {
		t.Errorf("first conversation should be the run thread with alice")
	}
	if conversations[0].LastMessage.Content != "Hi, is this still happening?" {
		t.Errorf("last message = %q", conversations[0].LastMessage.Content)
	}
	if conversations[1].WithUserID != bob || conversations[1].EventID != swim {
		t.Errorf("second conversation should be the swim thread with bob")
	}
}

func TestBuildConversationsUnreadCounts(t *testing.T) {
	me := uuid.New()
	alice := uuid.New()
	eventID := uuid.New()
	base := time.Date(2025, 7, 16, 18, 0, 0, 0, time.UTC)
	read := base.Add(-time.Hour)

	recent := []model.Message{
		{ID: uuid.New(), EventID: eventID, FromUserID: alice, ToUserID: me, CreatedAt: base},
		{ID: uuid.New(), EventID: eventID, FromUserID: alice, ToUserID: me, CreatedAt: base.Add(-time.Minute)},
		{ID: uuid.New(), EventID: eventID, FromUserID: me, ToUserID: alice, CreatedAt: base.Add(-2 * time.Minute)},
		{ID: uuid.New(), EventID: eventID, FromUserID: alice, ToUserID: me, ReadAt: &read, CreatedAt: base.Add(-3 * time.Minute)},
	}

	conversations := buildConversations(recent, me, 10)
	if len(conversations) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(conversations))
	}
	if conversations[0].UnreadCount != 2 {
		t.Errorf("unread count = %d, want 2 (own and already-read messages excluded)", conversations[0].UnreadCount)
	}

	// Marking read nulls out read_at filters: a rescan where every
	// inbound message carries read_at yields zero.
	for i := range recent {
		if recent[i].ToUserID == me {
			recent[i].ReadAt = &read
		}
	}
	after := buildConversations(recent, me, 10)
	if after[0].UnreadCount != 0 {
		t.Errorf("unread count after mark-read rescan = %d, want 0", after[0].UnreadCount)
	}
}

func TestBuildConversationsRespectsLimit(t *testing.T) {
	me := uuid.New()
	base := time.Date(2025, 7, 16, 18, 0, 0, 0, time.UTC)

	var recent []model.Message
	for i := 0; i < 5; i++ {
		recent = append(recent, model.Message{
			ID:         uuid.New(),
			EventID:    uuid.New(),
			FromUserID: uuid.New(),
			ToUserID:   me,
			CreatedAt:  base.Add(-time.Duration(i) * time.Minute),
		})
	}

	conversations := buildConversations(recent, me, 3)
	if len(conversations) != 3 {
		t.Errorf("expected limit of 3 conversations, got %d", len(conversations))
	}
}
