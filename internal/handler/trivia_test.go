package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zizouhuweidi/trivia/internal/caching"
	"github.com/zizouhuweidi/trivia/internal/config"
	"github.com/zizouhuweidi/trivia/internal/database"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/repository/memory"
	"github.com/zizouhuweidi/trivia/internal/service"
	ws "github.com/zizouhuweidi/trivia/internal/websocket"
)

// seeded store: 19 questions in 6 categories, Science (1) holds 3 and Sports (6) holds 2
const seededTotal = 19

type testApp struct {
	e     *echo.Echo
	store *memory.Store
	hub   *ws.Hub
}

func newTestApp(t *testing.T, seed bool) *testApp {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	if seed {
		require.NoError(t, database.Seed(context.Background(), store.Categories(), store.Questions()))
	}

	hub := ws.NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	svc := service.NewTriviaService(
		store.Categories(),
		store.Questions(),
		caching.NewCacheRedis(nil, time.Minute),
		time.Minute,
		hub,
		func(int) int { return 0 },
	)

	e := NewRouter(config.HTTP{AllowOrigins: []string{"*"}}, log,
		NewTriviaHandler(svc),
		NewWebSocketHandler(hub),
	)
	return &testApp{e: e, store: store, hub: hub}
}

func (a *testApp) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, body map[string]any, code int, message string) {
	t.Helper()
	assert.Equal(t, code, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.EqualValues(t, code, body["error"])
	assert.Equal(t, message, body["message"])
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, false)

	rec, body := app.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestGetCategories(t *testing.T) {
	app := newTestApp(t, true)

	rec, body := app.do(t, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	categories := body["categories"].(map[string]any)
	assert.Len(t, categories, 6)
	assert.Equal(t, "Science", categories["1"])
	assert.Equal(t, "Sports", categories["6"])
}

func TestGetCategories_Empty(t *testing.T) {
	app := newTestApp(t, false)

	rec, body := app.do(t, http.MethodGet, "/categories", "")
	assertError(t, rec, body, http.StatusNotFound, "Resource not Found")
}

func TestGetQuestions(t *testing.T) {
	app := newTestApp(t, true)

	rec, body := app.do(t, http.MethodGet, "/questions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["questions"], service.QuestionsPerPage)
	assert.EqualValues(t, seededTotal, body["total_questions"])
	assert.Equal(t, "All", body["current_category"])
	assert.Len(t, body["categories"], 6)

	first := body["questions"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 1, first["id"])
	for _, key := range []string{"question", "answer", "category", "difficulty"} {
		assert.Contains(t, first, key)
	}
}

func TestGetQuestions_Pages(t *testing.T) {
	app := newTestApp(t, true)

	rec, body := app.do(t, http.MethodGet, "/questions?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["questions"], seededTotal-service.QuestionsPerPage)

	rec, body = app.do(t, http.MethodGet, "/questions?page=999", "")
	assertError(t, rec, body, http.StatusNotFound, "Resource not Found")

	rec, body = app.do(t, http.MethodGet, "/questions?page=0", "")
	assertError(t, rec, body, http.StatusNotFound, "Resource not Found")

	rec, body = app.do(t, http.MethodGet, "/questions?page=abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["questions"], service.QuestionsPerPage)
}

func TestDeleteQuestion(t *testing.T) {
	app := newTestApp(t, true)

	rec, body := app.do(t, http.MethodDelete, "/questions/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 5, body["deleted"])

	_, err := app.store.Questions().GetByID(context.Background(), 5)
	require.ErrorIs(t, err, domain.ErrQuestionNotFound)

	rec, body = app.do(t, http.MethodDelete, "/questions/5", "")
	assertError(t, rec, body, http.StatusUnprocessableEntity, "Unprocessable")

	rec, body = app.do(t, http.MethodDelete, "/questions/abc", "")
	assertError(t, rec, body, http.StatusNotFound, "Resource not Found")
}

func TestCreateQuestion(t *testing.T) {
	app := newTestApp(t, true)

	rec, body := app.do(t, http.MethodPost, "/questions",
		`{"question":"What is the capital of Peru?","answer":"Lima","category":"3","difficulty":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, seededTotal+1, body["question_id"])
	assert.EqualValues(t, seededTotal+1, body["total_questions"])
	assert.Len(t, body["questions"], service.QuestionsPerPage)

	q, err := app.store.Questions().GetByID(context.Background(), seededTotal+1)
	require.NoError(t, err)
	assert.Equal(t, "Lima", q.Answer)
	assert.Equal(t, 3, q.Category)
}

func TestCreateQuestion_Failures(t *testing.T) {
	app := newTestApp(t, true)

	tests := []struct {
		name    string
		body    string
		code    int
		message string
	}{
		{"missing fields", `{"question":"Incomplete?"}`, http.StatusUnprocessableEntity, "Unprocessable"},
		{"non-numeric category", `{"question":"q","answer":"a","category":"art","difficulty":1}`, http.StatusUnprocessableEntity, "Unprocessable"},
		{"string body", `"string"`, http.StatusInternalServerError, "Server Error"},
		{"array body", `[1,2]`, http.StatusInternalServerError, "Server Error"},
		{"invalid json", `{`, http.StatusInternalServerError, "Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := app.do(t, http.MethodPost, "/questions", tt.body)
			assertError(t, rec, body, tt.code, tt.message)
		})
	}

	total, err := app.store.Questions().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seededTotal, total)
}

func TestSearchQuestions(t *testing.T) {
	app := newTestApp(t, true)

	rec, body := app.do(t, http.MethodPost, "/questions", `{"searchTerm":"TITLE"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["questions"], 2)
	assert.EqualValues(t, seededTotal, body["total_questions"])
	assert.Equal(t, "Science", body["current_category"])

	rec, body = app.do(t, http.MethodPost, "/questions", `{"searchTerm":"xyzzy"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["questions"])
}

func TestQuestionsByCategory(t *testing.T) {
	app := newTestApp(t, true)

	rec, body := app.do(t, http.MethodGet, "/categories/1/questions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["questions"], 3)
	assert.EqualValues(t, 3, body["totalQuestions"])
	assert.Equal(t, "Science", body["currentCategory"])
	for _, q := range body["questions"].([]any) {
		assert.EqualValues(t, 1, q.(map[string]any)["category"])
	}

	rec, body = app.do(t, http.MethodGet, "/categories/999/questions", "")
	assertError(t, rec, body, http.StatusNotFound, "Resource not Found")

	rec, body = app.do(t, http.MethodGet, "/categories/1/questions?page=2", "")
	assertError(t, rec, body, http.StatusNotFound, "Resource not Found")
}

func TestPlayQuiz(t *testing.T) {
	app := newTestApp(t, true)

	rec, body := app.do(t, http.MethodPost, "/play",
		`{"previous_questions":[16],"quiz_category":{"type":"Science","id":"1"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	question := body["question"].(map[string]any)
	assert.EqualValues(t, 17, question["id"])
	assert.EqualValues(t, 1, question["category"])
	assert.Equal(t, []any{16.0, 17.0}, body["previous_questions"])
}

func TestPlayQuiz_AnyCategory(t *testing.T) {
	app := newTestApp(t, true)

	rec, body := app.do(t, http.MethodPost, "/play",
		`{"previous_questions":[],"quiz_category":{"type":"click","id":0}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["question"].(map[string]any)["id"])
}

func TestPlayQuiz_Exhausted(t *testing.T) {
	app := newTestApp(t, true)

	rec, body := app.do(t, http.MethodPost, "/play",
		`{"previous_questions":[6,7],"quiz_category":{"type":"Sports","id":6}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true}, body)
}

func TestPlayQuiz_Failures(t *testing.T) {
	app := newTestApp(t, true)

	tests := []struct {
		name    string
		body    string
		code    int
		message string
	}{
		{"no body", "", http.StatusInternalServerError, "Server Error"},
		{"string body", `"play"`, http.StatusInternalServerError, "Server Error"},
		{"missing category", `{"previous_questions":[]}`, http.StatusBadRequest, "Bad Request"},
		{"missing category id", `{"quiz_category":{"type":"Art"}}`, http.StatusBadRequest, "Bad Request"},
		{"non-numeric category id", `{"quiz_category":{"id":"art"}}`, http.StatusBadRequest, "Bad Request"},
		{"bad previous questions", `{"previous_questions":"1","quiz_category":{"id":1}}`, http.StatusBadRequest, "Bad Request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := app.do(t, http.MethodPost, "/play", tt.body)
			assertError(t, rec, body, tt.code, tt.message)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	app := newTestApp(t, true)

	tests := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/questions/77"},
		{http.MethodDelete, "/questions"},
		{http.MethodPost, "/categories"},
		{http.MethodGet, "/play"},
		{http.MethodPut, "/categories/1/questions"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec, body := app.do(t, tt.method, tt.target, "")
			assertError(t, rec, body, http.StatusMethodNotAllowed, "Method not Allowed")
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t, true)

	rec, body := app.do(t, http.MethodGet, "/nowhere", "")
	assertError(t, rec, body, http.StatusNotFound, "Resource not Found")
}

func TestCORSHeaders(t *testing.T) {
	app := newTestApp(t, true)

	req := httptest.NewRequest(http.MethodOptions, "/questions", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodDelete)
	rec := httptest.NewRecorder()
	app.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodDelete)
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), "Authorization")
}

func TestRequestID(t *testing.T) {
	app := newTestApp(t, true)

	rec, _ := app.do(t, http.MethodGet, "/categories", "")
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)
}

func TestHugePageNumbers(t *testing.T) {
	app := newTestApp(t, true)

	for _, page := range []string{"9223372036854775807", "922337203685477582"} {
		t.Run(page, func(t *testing.T) {
			rec, body := app.do(t, http.MethodGet, "/questions?page="+page, "")
			assertError(t, rec, body, http.StatusNotFound, "Resource not Found")

			rec, body = app.do(t, http.MethodGet, "/categories/1/questions?page="+page, "")
			assertError(t, rec, body, http.StatusNotFound, "Resource not Found")

			rec, body = app.do(t, http.MethodPost, "/questions?page="+page, `{"searchTerm":"the"}`)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, []any{}, body["questions"])
		})
	}
}

func TestSearchQuestions_ScalarTerms(t *testing.T) {
	app := newTestApp(t, true)

	rec, body := app.do(t, http.MethodPost, "/questions", `{"searchTerm":1990}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["questions"], 1)
	assert.Contains(t, body["questions"].([]any)[0].(map[string]any)["question"], "1990")

	rec, body = app.do(t, http.MethodPost, "/questions", `{"searchTerm":0}`)
	assertError(t, rec, body, http.StatusUnprocessableEntity, "Unprocessable")

	rec, body = app.do(t, http.MethodPost, "/questions", `{"searchTerm":["the"]}`)
	assertError(t, rec, body, http.StatusUnprocessableEntity, "Unprocessable")
}
