package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ivaldepablo/play-sib-v2/internal/app"
	"github.com/ivaldepablo/play-sib-v2/internal/domain"
	"github.com/ivaldepablo/play-sib-v2/internal/game"
)

// WSHandler drives one single-player game session per websocket connection.
// The server owns the once-per-second tick so countdowns cannot be paused by
// a stalled client.
type WSHandler struct {
	games    *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(games *app.GameService) *WSHandler {
	return &WSHandler{
		games: games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Choice string `json:"choice"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// wireQuestion is the client view of a question. The answer stays server-side
// until grading.
type wireQuestion struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
}

type wireSnapshot struct {
	State             string        `json:"state"`
	Score             int           `json:"score"`
	SessionRemaining  int           `json:"sessionRemaining"`
	QuestionRemaining int           `json:"questionRemaining"`
	Category          string        `json:"category,omitempty"`
	Question          *wireQuestion `json:"question,omitempty"`
}

type spinPayload struct {
	Rotation float64      `json:"rotation"`
	Index    int          `json:"index"`
	Category string       `json:"category"`
	Question wireQuestion `json:"question"`
}

type answerResultPayload struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Score         int    `json:"score"`
}

func toWireQuestion(q domain.Question) wireQuestion {
	return wireQuestion{ID: q.ID, Category: q.Category, Text: q.Text, Options: q.Options}
}

func toWireSnapshot(snap game.Snapshot) wireSnapshot {
	out := wireSnapshot{
		State:             snap.State.String(),
		Score:             snap.Score,
		SessionRemaining:  snap.SessionRemaining,
		QuestionRemaining: snap.QuestionRemaining,
		Category:          snap.Category,
	}
	if snap.Question != nil {
		wq := toWireQuestion(*snap.Question)
		out.Question = &wq
	}
	return out
}

// ServeWS upgrades the connection, starts a session for the user and pumps
// spin/answer messages into it while ticking it once per second.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}

	snap, err := h.games.StartSession(r.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrUserNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		h.games.Leave(userID)
		return
	}
	defer conn.Close()
	defer h.games.Leave(userID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	tickerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(tickerDone)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		gameOverSent := false
		for {
			select {
			case <-ticker.C:
				snap, err := h.games.Tick(userID)
				if err != nil {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "tick", Payload: toWireSnapshot(snap)}:
				case <-closeSignals:
					return
				}
				if snap.State == game.StateEnded && !gameOverSent {
					gameOverSent = true
					result, err := h.games.Result(userID)
					if err != nil {
						continue
					}
					select {
					case send <- outboundMessage[any]{Type: "gameOver", Payload: result}:
					case <-closeSignals:
						return
					}
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "session", Payload: toWireSnapshot(snap)}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "spin":
			outcome, err := h.games.Spin(r.Context(), userID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "categorySelected", Payload: spinPayload{
				Rotation: outcome.Spin.Rotation,
				Index:    outcome.Spin.Index,
				Category: outcome.Spin.Category,
				Question: toWireQuestion(outcome.Question),
			}}
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			result, err := h.games.Answer(userID, payload.Choice)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: answerResultPayload{
				Correct:       result.Correct,
				CorrectAnswer: result.CorrectAnswer,
				Score:         result.Score,
			}}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-tickerDone
	close(send)
	<-writerDone
}
