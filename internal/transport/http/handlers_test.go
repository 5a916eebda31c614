package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"study-quiz-service/internal/app"
	"study-quiz-service/internal/content"
	"study-quiz-service/internal/domain"
	"study-quiz-service/internal/infra/memory"
	"study-quiz-service/internal/platform/logger"
)

func TestRESTQuizFlow(t *testing.T) {
	server := newTestServer(t)
	client := newClient(t)

	var view app.View
	status := doJSON(t, client, http.MethodPost, server.URL+"/api/v1/generate", map[string]any{"text": "Prompt engineering notes", "mock": true}, &view)
	if status != http.StatusOK || len(view.Questions) != 5 {
		t.Fatalf("generate: status=%d questions=%d", status, len(view.Questions))
	}

	status = doJSON(t, client, http.MethodPost, server.URL+"/api/v1/quiz/answers", map[string]any{"questionId": 1, "key": "b"}, &view)
	if status != http.StatusOK || view.Questions[0].Selected != "b" {
		t.Fatalf("select: status=%d view=%+v", status, view.Questions[0])
	}
	if status := doJSON(t, client, http.MethodPost, server.URL+"/api/v1/quiz/answers", map[string]any{"questionId": 1, "key": "z"}, nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid key, got %d", status)
	}
	if status := doJSON(t, client, http.MethodPost, server.URL+"/api/v1/quiz/answers", map[string]any{"questionId": 99, "key": "a"}, nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown question, got %d", status)
	}

	status = doJSON(t, client, http.MethodPost, server.URL+"/api/v1/quiz/submit", nil, &view)
	if status != http.StatusOK || view.Score == nil || view.Score.Correct != 1 {
		t.Fatalf("submit: status=%d score=%+v", status, view.Score)
	}
	if status := doJSON(t, client, http.MethodPost, server.URL+"/api/v1/quiz/answers", map[string]any{"questionId": 2, "key": "a"}, nil); status != http.StatusConflict {
		t.Fatalf("expected 409 after submit, got %d", status)
	}

	resp, err := client.Get(server.URL + "/api/v1/export/text")
	if err != nil {
		t.Fatalf("export text: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "QUIZ RESULTS") || !strings.HasPrefix(resp.Header.Get("Content-Disposition"), "attachment;") {
		t.Fatalf("unexpected text export: %s", body)
	}

	resp, err = client.Get(server.URL + "/api/v1/export/pdf")
	if err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.Header.Get("Content-Type") != "application/pdf" || !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Fatalf("unexpected pdf export: %s", resp.Header.Get("Content-Type"))
	}

	view = app.View{}
	status = doJSON(t, client, http.MethodPost, server.URL+"/api/v1/quiz/retake", nil, &view)
	if status != http.StatusOK || view.Score != nil {
		t.Fatalf("retake: status=%d view=%+v", status, view)
	}
}

func TestVisitorsAreIsolated(t *testing.T) {
	server := newTestServer(t)
	alice := newClient(t)
	bob := newClient(t)

	if status := doJSON(t, alice, http.MethodPost, server.URL+"/api/v1/generate", map[string]any{"text": "notes", "mock": true}, nil); status != http.StatusOK {
		t.Fatalf("generate: %d", status)
	}
	if status := doJSON(t, bob, http.MethodGet, server.URL+"/api/v1/quiz", nil, nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 for visitor without a quiz, got %d", status)
	}
	if status := doJSON(t, bob, http.MethodPost, server.URL+"/api/v1/quiz/submit", nil, nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 submitting without a quiz, got %d", status)
	}
}

func TestSelectZeroQuestionIsUnknown(t *testing.T) {
	server := newTestServer(t)
	client := newClient(t)
	_ = doJSON(t, client, http.MethodPost, server.URL+"/api/v1/generate", map[string]any{"text": "notes", "mock": true}, nil)

	if status := doJSON(t, client, http.MethodPost, server.URL+"/api/v1/quiz/answers", map[string]any{"questionId": 0, "key": "a"}, nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 for question 0, got %d", status)
	}
	if status := doJSON(t, client, http.MethodPost, server.URL+"/api/v1/quiz/answers", map[string]any{"questionId": 1}, nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 without a key, got %d", status)
	}
}

func TestClearWorkspace(t *testing.T) {
	server := newTestServer(t)
	client := newClient(t)
	_ = doJSON(t, client, http.MethodPost, server.URL+"/api/v1/generate", map[string]any{"text": "notes", "mock": true}, nil)

	if status := doJSON(t, client, http.MethodDelete, server.URL+"/api/v1/workspace", nil, nil); status != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", status)
	}
	if status := doJSON(t, client, http.MethodGet, server.URL+"/api/v1/quiz", nil, nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 after clear, got %d", status)
	}
}

func TestGenerateRejectsEmptyText(t *testing.T) {
	server := newTestServer(t)
	if status := doJSON(t, newClient(t), http.MethodPost, server.URL+"/api/v1/generate", map[string]any{"text": "  "}, nil); status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
}

func TestGenerateFromUploadedTextFile(t *testing.T) {
	server := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("mock", "true")
	_ = mw.WriteField("num_questions", "4")
	fw, _ := mw.CreateFormFile("file", "notes.txt")
	_, _ = fw.Write([]byte("Photosynthesis converts light into chemical energy."))
	_ = mw.Close()

	resp, err := newClient(t).Post(server.URL+"/api/v1/generate", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}
}

func TestQuizReviewMode(t *testing.T) {
	server := newTestServer(t)
	client := newClient(t)
	_ = doJSON(t, client, http.MethodPost, server.URL+"/api/v1/generate", map[string]any{"text": "notes", "mock": true}, nil)

	var view app.View
	if status := doJSON(t, client, http.MethodGet, server.URL+"/api/v1/quiz?mode=review", nil, &view); status != http.StatusOK {
		t.Fatalf("quiz: %d", status)
	}
	if view.Mode != domain.ModeReview || !view.Questions[0].Locked || view.Questions[0].AnswerText == "" {
		t.Fatalf("expected locked review view, got %+v", view.Questions[0])
	}
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)
	resp, err := http.Get(server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service := app.NewStudyService(nil, content.MockProvider{}, nopStore{}, memory.NewWorkspaceStore(), logger.Nop())
	handler := NewHandler(service, Options{CookieSecret: "test-cookie-secret"}, logger.Nop())
	server := httptest.NewServer(NewRouter(handler, nil))
	t.Cleanup(server.Close)
	return server
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, in any, out any) int {
	t.Helper()
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}

type nopStore struct{}

func (nopStore) TouchSession(context.Context, domain.VisitorSession) error { return nil }

func (nopStore) RecordGeneration(context.Context, domain.GenerationMeta) (int64, error) {
	return 1, nil
}

func (nopStore) RecordQuizResult(context.Context, string, int64, domain.ScoreResult, map[int]string) error {
	return nil
}

func (nopStore) ListGenerations(context.Context, string, int) ([]domain.Generation, error) {
	return nil, nil
}

func (nopStore) ListQuizResults(context.Context, string, int) ([]domain.QuizResult, error) {
	return nil, nil
}

func (nopStore) Statistics(context.Context) (domain.Statistics, error) {
	return domain.Statistics{}, nil
}
