package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adaptive-quiz-service/internal/app"
	"adaptive-quiz-service/internal/domain"
	"adaptive-quiz-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestWebSocketSessionFlow(t *testing.T) {
	server, conn := dialTestServer(t)
	defer server.Close()
	defer conn.Close()

	// Start a 2-question session.
	start := map[string]any{
		"type": "start",
		"payload": map[string]any{
			"count":            2,
			"targetDifficulty": 5,
		},
	}
	if err := conn.WriteJSON(start); err != nil {
		t.Fatalf("write start: %v", err)
	}
	msgType, payload := readNext(conn, t, "started")
	if msgType != "started" {
		t.Fatalf("expected started, got %s", msgType)
	}
	current, ok := payload["currentQuestion"].(map[string]any)
	if !ok {
		t.Fatalf("started payload missing current question: %v", payload)
	}

	// Answer the first question correctly.
	answer := map[string]any{
		"type": "answer",
		"payload": map[string]any{
			"questionId":       current["id"],
			"values":           []string{current["id"].(string) + "-right"},
			"timeSpentSeconds": 10,
		},
	}
	if err := conn.WriteJSON(answer); err != nil {
		t.Fatalf("write answer: %v", err)
	}

	_, result := readNext(conn, t, "answerResult")
	if result["correct"] != true {
		t.Fatalf("expected correct grading, got %v", result)
	}
	_, progress := readNext(conn, t, "progress")
	if progress["progress"].(float64) != 50 {
		t.Fatalf("expected 50%% progress, got %v", progress["progress"])
	}

	// Ask for the next question, answer it, then complete.
	if err := conn.WriteJSON(map[string]any{"type": "next"}); err != nil {
		t.Fatalf("write next: %v", err)
	}
	_, question := readNext(conn, t, "question")
	answer["payload"] = map[string]any{
		"questionId":       question["id"],
		"values":           []string{question["id"].(string) + "-right"},
		"timeSpentSeconds": 10,
	}
	if err := conn.WriteJSON(answer); err != nil {
		t.Fatalf("write answer 2: %v", err)
	}
	readNext(conn, t, "answerResult")
	readNext(conn, t, "progress")

	complete := map[string]any{
		"type":    "complete",
		"payload": map[string]any{"totalTimeSeconds": 20},
	}
	if err := conn.WriteJSON(complete); err != nil {
		t.Fatalf("write complete: %v", err)
	}
	_, summary := readNext(conn, t, "summary")
	if summary["score"].(float64) != 100 {
		t.Fatalf("expected perfect score, got %v", summary["score"])
	}
	if summary["performanceLevel"] != "excellent" {
		t.Fatalf("expected excellent, got %v", summary["performanceLevel"])
	}
}

func TestWebSocketRejectsAnswerBeforeStart(t *testing.T) {
	server, conn := dialTestServer(t)
	defer server.Close()
	defer conn.Close()

	answer := map[string]any{
		"type": "answer",
		"payload": map[string]any{
			"questionId": "q1",
			"values":     []string{"a1"},
		},
	}
	if err := conn.WriteJSON(answer); err != nil {
		t.Fatalf("write answer: %v", err)
	}
	msgType, _ := readNext(conn, t, "error")
	if msgType != "error" {
		t.Fatalf("expected error, got %s", msgType)
	}
}

func dialTestServer(t *testing.T) (*httptest.Server, *websocket.Conn) {
	t.Helper()
	bank := memory.NewQuestionBank(memory.NewStaticQuestionLoader(testPool()), time.Minute)
	service := app.NewQuizService(bank, memory.NewSessionStore(), memory.NewHistory(), memory.DiscardSink{})
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)

	u := "ws" + server.URL[len("http"):] + "/ws?userId=u1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		server.Close()
		t.Fatalf("dial: %v", err)
	}
	return server, conn
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

func testPool() []domain.Question {
	pool := make([]domain.Question, 0, 6)
	for i := 0; i < 6; i++ {
		id := "q" + string(rune('1'+i))
		pool = append(pool, domain.Question{
			ID:         id,
			Content:    domain.PlainText("Pick the right option"),
			Type:       domain.SingleChoice,
			Difficulty: domain.NewDifficultyLevel(5),
			Weight:     10,
			Answers: []domain.Answer{
				domain.NewAnswer(id+"-right", domain.PlainText("right"), true),
				domain.NewAnswer(id+"-wrong", domain.PlainText("wrong"), false),
			},
		})
	}
	return pool
}
