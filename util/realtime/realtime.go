package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Tables that emit row-level change notifications.
const (
	TableEvents       = "events"
	TableParticipants = "participants"
	TableBoosts       = "boosts"
	TableMessages     = "messages"
)

// Change types, matching the store's wire vocabulary.
const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"
)

const recountTimeout = 5 * time.Second

// Change describes a committed row-level write. It carries no row data:
// subscribers re-fetch, they never apply deltas.
type Change struct {
	Table    string    `json:"table"`
	Type     string    `json:"type"`
	EventID  uuid.UUID `json:"event_id,omitempty"`
	ToUserID uuid.UUID `json:"-"`
}

// Conn is the write side of a websocket connection. *websocket.Conn satisfies
// it; tests substitute fakes.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type subscription struct {
	table   string
	eventID uuid.UUID // uuid.Nil subscribes to every row of the table
}

// Client represents one connected subscriber.
type Client struct {
	Conn   Conn
	UserID uuid.UUID
	subs   []subscription
}

type frame struct {
	Kind    string    `json:"kind"` // "change" or "unread_count"
	Table   string    `json:"table,omitempty"`
	Type    string    `json:"type,omitempty"`
	EventID uuid.UUID `json:"event_id,omitempty"`
	Count   int       `json:"count,omitempty"`
}

// Hub fans committed changes out to matching subscribers. Writes enqueue onto
// the changes channel and a single Run loop drains it; register, unregister
// and subscribe mutate the client map directly under the lock.
type Hub struct {
	mu      sync.Mutex
	clients map[Conn]*Client
	changes chan Change

	// UnreadCount recomputes the unread-message total for a user. When set,
	// every messages change addressed to a connected user pushes a fresh
	// count to that user's connections. Failures are logged and dropped.
	UnreadCount func(ctx context.Context, userID uuid.UUID) (int, error)
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[Conn]*Client),
		changes: make(chan Change, 256),
	}
}

// Run drains the change queue. Start once, from main.
func (h *Hub) Run() {
	for change := range h.changes {
		h.dispatch(change)
	}
}

// Register adds a connected client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.Conn] = client
}

// Unregister removes a client and closes its connection.
func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, exists := h.clients[conn]; exists {
		delete(h.clients, conn)
		conn.Close()
		log.Printf("Client %s disconnected", client.UserID)
	}
}

// Subscribe attaches a filtered subscription to an existing client.
// Subscriptions to the messages table are implicitly scoped to the client's
// own user id as recipient.
func (h *Hub) Subscribe(conn Conn, table string, eventID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, exists := h.clients[conn]
	if !exists {
		return
	}
	client.subs = append(client.subs, subscription{table: table, eventID: eventID})
}

// Notify enqueues a committed change for fan-out. Safe to call from any
// goroutine; never blocks the writer beyond the channel buffer.
func (h *Hub) Notify(change Change) {
	h.changes <- change
}

func (h *Hub) dispatch(change Change) {
	payload, err := json.Marshal(frame{
		Kind:    "change",
		Table:   change.Table,
		Type:    change.Type,
		EventID: change.EventID,
	})
	if err != nil {
		log.Println("marshal change frame:", err)
		return
	}

	h.mu.Lock()
	var recipients []uuid.UUID
	for _, client := range h.clients {
		if !clientMatches(client, change) {
			continue
		}
		if err := client.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			client.Conn.Close()
			delete(h.clients, client.Conn)
			continue
		}
		if change.Table == TableMessages {
			recipients = append(recipients, client.UserID)
		}
	}
	h.mu.Unlock()

	for _, userID := range recipients {
		h.pushUnreadCount(userID)
	}
}

// clientMatches reports whether any of the client's subscriptions covers the
// change. Messages are addressed: only the recipient's subscriptions match.
func clientMatches(client *Client, change Change) bool {
	for _, sub := range client.subs {
		if sub.table != change.Table {
			continue
		}
		if change.Table == TableMessages {
			if client.UserID == change.ToUserID {
				return true
			}
			continue
		}
		if sub.eventID == uuid.Nil || sub.eventID == change.EventID {
			return true
		}
	}
	return false
}

// pushUnreadCount recomputes and delivers the unread total for one user.
// Always a full recount, never an incremental delta.
func (h *Hub) pushUnreadCount(userID uuid.UUID) {
	if h.UnreadCount == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recountTimeout)
	defer cancel()

	count, err := h.UnreadCount(ctx, userID)
	if err != nil {
		log.Println("unread recount failed:", err)
		return
	}

	payload, err := json.Marshal(frame{Kind: "unread_count", Count: count})
	if err != nil {
		log.Println("marshal unread frame:", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, client := range h.clients {
		if client.UserID != userID {
			continue
		}
		if err := client.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			client.Conn.Close()
			delete(h.clients, client.Conn)
		}
	}
}
