package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/hireloop/interview-engine/internal/interview"
	"github.com/hireloop/interview-engine/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveMessage is the frame exchanged on the live transcript socket.
// The client streams "turn" frames; the server acknowledges each one
// with the session's covered categories so the frontend can render
// coverage progress in real time.
type LiveMessage struct {
	Type    string                    `json:"type"`
	Speaker string                    `json:"speaker,omitempty"`
	Text    string                    `json:"text,omitempty"`
	State   models.SessionState       `json:"state,omitempty"`
	Covered []models.CoverageCategory `json:"covered,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

// handleLiveTranscriptWS streams transcript turns over a websocket.
func (s *Server) handleLiveTranscriptWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "session id required", http.StatusBadRequest)
		return
	}

	sess, err := s.manager.GetSession(r.Context(), id)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if sess.State != models.SessionActive {
		http.Error(w, "session is not active", http.StatusConflict)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	slog.Info("live transcript websocket connected", "session_id", id)

	s.sendLiveMessage(conn, LiveMessage{
		Type:    "connected",
		State:   sess.State,
		Covered: sess.CoveredCategories(),
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read error", "session_id", id, "error", err)
			}
			break
		}

		var msg LiveMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendLiveMessage(conn, LiveMessage{Type: "error", Error: "invalid message"})
			continue
		}

		switch msg.Type {
		case "turn":
			speaker, err := parseSpeaker(msg.Speaker)
			if err != nil {
				s.sendLiveMessage(conn, LiveMessage{Type: "error", Error: err.Error()})
				continue
			}
			if err := s.manager.RecordTurn(r.Context(), id, speaker, msg.Text); err != nil {
				s.sendLiveMessage(conn, LiveMessage{Type: "error", Error: err.Error()})
				if errors.Is(err, interview.ErrSessionNotFound) || errors.Is(err, interview.ErrInvalidTransition) {
					return
				}
				continue
			}

			snap, err := s.manager.GetSession(r.Context(), id)
			if err != nil {
				return
			}
			s.sendLiveMessage(conn, LiveMessage{
				Type:    "ack",
				State:   snap.State,
				Covered: snap.CoveredCategories(),
			})
		case "ping":
			s.sendLiveMessage(conn, LiveMessage{Type: "pong"})
		default:
			s.sendLiveMessage(conn, LiveMessage{Type: "error", Error: "unknown message type"})
		}
	}

	slog.Info("live transcript websocket disconnected", "session_id", id)
}

func (s *Server) sendLiveMessage(conn *websocket.Conn, msg LiveMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
