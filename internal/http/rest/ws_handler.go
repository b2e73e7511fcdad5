package rest

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jhafner/sportmate_api/util/realtime"
	"github.com/jhafner/sportmate_api/util/values"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// subscribeMessage is the only inbound frame clients send. An omitted
// event id subscribes to every row of the table.
type subscribeMessage struct {
	Type    string    `json:"type"`
	Table   string    `json:"table"`
	EventID uuid.UUID `json:"event_id"`
}

// HandleWebsocket upgrades the connection and feeds subscribe frames
// into the realtime hub until the client disconnects.
func (api *API) HandleWebsocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		authorization := strings.Split(r.Header.Get("Authorization"), " ")
		if len(authorization) == 2 && authorization[0] == "Bearer" {
			token = authorization[1]
		}
	}

	claims, err := api.verifyToken(token, false)
	if err != nil {
		writeErrorResponse(w, err, values.NotAuthorised, "invalid-token")
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		writeErrorResponse(w, err, values.NotAuthorised, "invalid-token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("websocket upgrade failed", err)
		return
	}

	api.Deps.Realtime.Register(&realtime.Client{Conn: conn, UserID: userID})
	defer api.Deps.Realtime.Unregister(conn)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg subscribeMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Println("discarding malformed websocket frame", err)
			continue
		}
		if msg.Type != "subscribe" {
			continue
		}

		api.Deps.Realtime.Subscribe(conn, msg.Table, msg.EventID)
	}
}
