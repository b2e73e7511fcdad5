package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type fakeConn struct {
	frames [][]byte
	failed bool
	closed bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	if c.failed {
		return errors.New("broken pipe")
	}
	c.frames = append(c.frames, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func (c *fakeConn) decoded(t *testing.T) []frame {
	t.Helper()
	var out []frame
	for _, raw := range c.frames {
		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			t.Fatalf("invalid frame %s: %v", raw, err)
		}
		out = append(out, f)
	}
	return out
}

func TestDispatchMatchesEventScope(t *testing.T) {
	hub := NewHub()
	eventA := uuid.New()
	eventB := uuid.New()

	scoped := &fakeConn{}
	hub.Register(&Client{Conn: scoped, UserID: uuid.New()})
	hub.Subscribe(scoped, TableParticipants, eventA)

	wildcard := &fakeConn{}
	hub.Register(&Client{Conn: wildcard, UserID: uuid.New()})
	hub.Subscribe(wildcard, TableParticipants, uuid.Nil)

	other := &fakeConn{}
	hub.Register(&Client{Conn: other, UserID: uuid.New()})
	hub.Subscribe(other, TableBoosts, eventA)

	hub.dispatch(Change{Table: TableParticipants, Type: ChangeInsert, EventID: eventA})
	hub.dispatch(Change{Table: TableParticipants, Type: ChangeDelete, EventID: eventB})

	if len(scoped.frames) != 1 {
		t.Errorf("scoped subscriber got %d frames; want 1", len(scoped.frames))
	}
	if len(wildcard.frames) != 2 {
		t.Errorf("wildcard subscriber got %d frames; want 2", len(wildcard.frames))
	}
	if len(other.frames) != 0 {
		t.Errorf("boost subscriber got %d frames; want 0", len(other.frames))
	}

	got := scoped.decoded(t)[0]
	if got.Kind != "change" || got.Table != TableParticipants || got.Type != ChangeInsert || got.EventID != eventA {
		t.Errorf("unexpected frame %+v", got)
	}
}

func TestDispatchMessagesOnlyReachRecipient(t *testing.T) {
	hub := NewHub()
	recipientID := uuid.New()
	eventID := uuid.New()

	recipient := &fakeConn{}
	hub.Register(&Client{Conn: recipient, UserID: recipientID})
	hub.Subscribe(recipient, TableMessages, uuid.Nil)

	bystander := &fakeConn{}
	hub.Register(&Client{Conn: bystander, UserID: uuid.New()})
	hub.Subscribe(bystander, TableMessages, uuid.Nil)

	hub.dispatch(Change{Table: TableMessages, Type: ChangeInsert, EventID: eventID, ToUserID: recipientID})

	if len(recipient.frames) != 1 {
		t.Errorf("recipient got %d frames; want 1", len(recipient.frames))
	}
	if len(bystander.frames) != 0 {
		t.Errorf("bystander got %d frames; want 0", len(bystander.frames))
	}
}

func TestDispatchPushesUnreadCount(t *testing.T) {
	hub := NewHub()
	recipientID := uuid.New()
	recounts := 0
	hub.UnreadCount = func(_ context.Context, userID uuid.UUID) (int, error) {
		recounts++
		if userID != recipientID {
			t.Errorf("recount for user %s; want %s", userID, recipientID)
		}
		return 3, nil
	}

	recipient := &fakeConn{}
	hub.Register(&Client{Conn: recipient, UserID: recipientID})
	hub.Subscribe(recipient, TableMessages, uuid.Nil)

	hub.dispatch(Change{Table: TableMessages, Type: ChangeInsert, ToUserID: recipientID})

	if recounts != 1 {
		t.Fatalf("recount ran %d times; want 1", recounts)
	}
	frames := recipient.decoded(t)
	if len(frames) != 2 {
		t.Fatalf("recipient got %d frames; want change + unread_count", len(frames))
	}
	if frames[1].Kind != "unread_count" || frames[1].Count != 3 {
		t.Errorf("unexpected unread frame %+v", frames[1])
	}
}

func TestDispatchRecountFailureIsSwallowed(t *testing.T) {
	hub := NewHub()
	recipientID := uuid.New()
	hub.UnreadCount = func(context.Context, uuid.UUID) (int, error) {
		return 0, errors.New("store down")
	}

	recipient := &fakeConn{}
	hub.Register(&Client{Conn: recipient, UserID: recipientID})
	hub.Subscribe(recipient, TableMessages, uuid.Nil)

	hub.dispatch(Change{Table: TableMessages, Type: ChangeInsert, ToUserID: recipientID})

	// Change frame still delivered, no unread frame, no panic.
	if len(recipient.frames) != 1 {
		t.Errorf("recipient got %d frames; want 1", len(recipient.frames))
	}
}

func TestDispatchDropsFailedConnOnly(t *testing.T) {
	hub := NewHub()
	eventID := uuid.New()

	broken := &fakeConn{failed: true}
	hub.Register(&Client{Conn: broken, UserID: uuid.New()})
	hub.Subscribe(broken, TableEvents, uuid.Nil)

	healthy := &fakeConn{}
	hub.Register(&Client{Conn: healthy, UserID: uuid.New()})
	hub.Subscribe(healthy, TableEvents, uuid.Nil)

	hub.dispatch(Change{Table: TableEvents, Type: ChangeUpdate, EventID: eventID})

	if !broken.closed {
		t.Error("failed connection was not closed")
	}
	if len(healthy.frames) != 1 {
		t.Errorf("healthy subscriber got %d frames; want 1", len(healthy.frames))
	}

	// A second dispatch must not touch the evicted client again.
	hub.dispatch(Change{Table: TableEvents, Type: ChangeUpdate, EventID: eventID})
	if len(healthy.frames) != 2 {
		t.Errorf("healthy subscriber got %d frames after second dispatch; want 2", len(healthy.frames))
	}
}

func TestSubscribeUnknownConnIsNoop(t *testing.T) {
	hub := NewHub()
	stray := &fakeConn{}
	hub.Subscribe(stray, TableEvents, uuid.Nil)

	hub.dispatch(Change{Table: TableEvents, Type: ChangeInsert})
	if len(stray.frames) != 0 {
		t.Errorf("unregistered conn got %d frames; want 0", len(stray.frames))
	}
}
