package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"adaptive-quiz-service/internal/app"
	"adaptive-quiz-service/internal/domain"
	"adaptive-quiz-service/internal/session"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
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

type startPayload struct {
	Count            int      `json:"count"`
	TargetDifficulty int      `json:"targetDifficulty"`
	Adaptive         bool     `json:"adaptive"`
	Practice         bool     `json:"practice"`
	Balanced         bool     `json:"balanced"`
	Categories       []string `json:"categories"`
	Tags             []string `json:"tags"`
	TotalSeconds     int      `json:"totalSeconds"`
}

type answerPayload struct {
	QuestionID       string   `json:"questionId"`
	Values           []string `json:"values"`
	HintsUsed        int      `json:"hintsUsed"`
	TimeSpentSeconds float64  `json:"timeSpentSeconds"`
}

type completePayload struct {
	TotalTimeSeconds float64 `json:"totalTimeSeconds"`
	Abandon          bool    `json:"abandon"`
}

type answerResult struct {
	QuestionID string   `json:"questionId"`
	Correct    bool     `json:"correct"`
	Percentage float64  `json:"percentage"`
	Pending    bool     `json:"pendingManualGrading"`
	Warnings   []string `json:"warnings,omitempty"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the
// session use cases. One connection plays one session: the client sends a
// "start" message, then "answer"/"next" until "complete".
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	var sessionID string

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage("invalid start payload")
				continue
			}
			view, err := h.service.StartSession(r.Context(), userID, criteriaFrom(payload), session.Config{
				Adaptive: payload.Adaptive,
				Practice: payload.Practice,
			})
			if err != nil {
				send <- errorMessage(err.Error())
				continue
			}
			sessionID = view.SessionID
			send <- outboundMessage[any]{Type: "started", Payload: view}

		case "answer":
			if sessionID == "" {
				send <- errorMessage("no session started")
				continue
			}
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage("invalid answer payload")
				continue
			}
			sub := domain.Submission{
				QuestionID: payload.QuestionID,
				Values:     payload.Values,
			}
			if payload.HintsUsed > 0 {
				sub.Metadata = map[string]any{"hints_used": payload.HintsUsed}
			}
			timeSpent := time.Duration(payload.TimeSpentSeconds * float64(time.Second))
			record, view, err := h.service.SubmitAnswer(r.Context(), sessionID, sub, timeSpent)
			if err != nil {
				send <- errorMessage(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: answerResult{
				QuestionID: record.QuestionID,
				Correct:    record.Correct,
				Percentage: record.Score.Percentage(),
				Pending:    record.PendingManualGrading,
				Warnings:   record.Validation.Warnings,
			}}
			send <- outboundMessage[any]{Type: "progress", Payload: view}

		case "next":
			if sessionID == "" {
				send <- errorMessage("no session started")
				continue
			}
			q, err := h.service.NextQuestion(r.Context(), sessionID)
			if err != nil {
				send <- errorMessage(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "question", Payload: q}

		case "complete":
			if sessionID == "" {
				send <- errorMessage("no session started")
				continue
			}
			var payload completePayload
			if len(inbound.Payload) > 0 {
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					send <- errorMessage("invalid complete payload")
					continue
				}
			}
			total := time.Duration(payload.TotalTimeSeconds * float64(time.Second))
			var summary app.Summary
			var err error
			if payload.Abandon {
				summary, err = h.service.AbandonSession(r.Context(), sessionID, total)
			} else {
				summary, err = h.service.CompleteSession(r.Context(), sessionID, total)
			}
			if err != nil {
				send <- errorMessage(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "summary", Payload: summary}

		default:
			send <- errorMessage("unsupported message type")
		}
	}

	close(send)
	<-writerDone
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}

func criteriaFrom(payload startPayload) domain.GenerationCriteria {
	criteria := domain.GenerationCriteria{
		Title:             "live session",
		QuestionCount:     payload.Count,
		BalanceDifficulty: payload.Balanced,
	}
	if payload.TargetDifficulty > 0 {
		criteria.TargetDifficulty = domain.NewDifficultyLevel(payload.TargetDifficulty)
	}
	if len(payload.Categories) > 0 {
		criteria = criteria.WithCategories(payload.Categories...)
	}
	if len(payload.Tags) > 0 {
		criteria = criteria.WithTags(payload.Tags...)
	}
	if payload.TotalSeconds > 0 {
		if limit, err := domain.NewTimeLimit(payload.TotalSeconds, 0, false); err == nil {
			criteria = criteria.WithTimeLimit(limit)
		}
	}
	return criteria
}
