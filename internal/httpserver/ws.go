// internal/httpserver/ws.go
//
// Websocket transport for the drag/touch modality.
// Each client frame is {"type": "press"|"enter"|"release"|"click", "row", "col"}
// and gets exactly one reply frame with the event result and running totals.
// Once the session is over (time up or ended) the server sends an error
// frame and closes the connection.

package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"

	"github.com/austinraben/wordhunt/internal/game"
	"github.com/austinraben/wordhunt/internal/store"
)

const (
	wsWriteWait  = 5 * time.Second
	wsMaxMessage = 512
)

type wsMsg struct {
	Type string `json:"type"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

type wsReply struct {
	Type string `json:"type"`
	game.Event
	Word  string `json:"word"`
	Error string `json:"error,omitempty"`
	progress
}

func (s *Server) upgrader() *websocket.Upgrader {
	origin := s.cfg.Server.ClientOrigin
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return o == "" || o == origin
		},
	}
}

// handleWS upgrades and pumps drag events into the session until the client
// disconnects or the session can no longer be played.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.Get(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		hlog.FromRequest(r).Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessage)
	logger := hlog.FromRequest(r).With().Str("session", id).Logger()

	for {
		var msg wsMsg
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug().Err(err).Msg("websocket read")
			}
			return
		}

		reply := wsReply{Type: msg.Type}
		err := s.store.Play(r.Context(), id, func(e *store.Entry) error {
			c := game.Cell{Row: msg.Row, Col: msg.Col}
			switch msg.Type {
			case "press":
				reply.Event = e.Drag.Press(c)
			case "enter":
				reply.Event = e.Drag.Enter(c)
			case "release":
				reply.Event = e.Drag.Release()
			case "click":
				reply.Event = e.Click.Click(c)
			default:
				reply.Error = "unknown_type"
			}
			reply.Word = e.Session.Word()
			reply.progress = s.progress(e)
			return nil
		})

		done := false
		switch {
		case err == nil:
		case errors.Is(err, store.ErrTimeUp):
			reply.Type, reply.Error, done = "error", "time_up", true
		case errors.Is(err, store.ErrEnded):
			reply.Type, reply.Error, done = "error", "session_ended", true
		case errors.Is(err, store.ErrNotFound):
			reply.Type, reply.Error, done = "error", "session_not_found", true
		default:
			logger.Error().Err(err).Msg("websocket play")
			reply.Type, reply.Error, done = "error", "server_error", true
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(reply); err != nil {
			logger.Debug().Err(err).Msg("websocket write")
			return
		}
		if done {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, reply.Error),
				time.Now().Add(wsWriteWait))
			return
		}
	}
}
