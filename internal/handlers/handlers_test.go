package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"voicechat-backend/internal/api"
	"voicechat-backend/internal/config"
	"voicechat-backend/internal/handlers"
	"voicechat-backend/internal/integrations"
	"voicechat-backend/internal/models"
	"voicechat-backend/internal/services"

	"github.com/google/uuid"
)

// fakeStore is a minimal in-memory store for exercising the HTTP surface.
type fakeStore struct {
	conversations map[string]*models.Conversation
}

func newFakeStore() *fakeStore {
	return &fakeStore{conversations: make(map[string]*models.Conversation)}
}

func (f *fakeStore) AppendMessage(_ context.Context, userID, content string, isUser bool) (*models.Conversation, error) {
	conv, ok := f.conversations[userID]
	if !ok {
		conv = &models.Conversation{ID: uuid.New(), UserID: userID, CreatedAt: time.Now().UTC()}
		f.conversations[userID] = conv
	}
	conv.Messages = append(conv.Messages, models.Message{Content: content, IsUser: isUser, Timestamp: time.Now().UTC()})
	conv.UpdatedAt = time.Now().UTC()
	out := *conv
	out.Messages = append([]models.Message(nil), conv.Messages...)
	return &out, nil
}

func (f *fakeStore) GetRecentConversations(_ context.Context, userID string, limit int) ([]models.Conversation, error) {
	conv, ok := f.conversations[userID]
	if !ok {
		return []models.Conversation{}, nil
	}
	return []models.Conversation{*conv}, nil
}

func (f *fakeStore) DeleteConversations(_ context.Context, userID string) (int64, error) {
	if _, ok := f.conversations[userID]; !ok {
		return 0, nil
	}
	delete(f.conversations, userID)
	return 1, nil
}

type stubCompletion struct {
	reply string
	calls int
}

func (s *stubCompletion) Complete(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.reply, nil
}

type stubSynthesizer struct {
	calls   int
	result  integrations.SynthesisResult
	err     error
	credErr error
}

func (s *stubSynthesizer) CheckCredential() error {
	return s.credErr
}

func (s *stubSynthesizer) Synthesize(_ context.Context, _ string, _ integrations.SynthesisOptions) (*integrations.SynthesisResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := s.result
	return &out, nil
}

type stubTranscriber struct {
	calls      int
	transcript string
	credErr    error
}

func (s *stubTranscriber) CheckCredential() error {
	return s.credErr
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ []byte) (string, error) {
	s.calls++
	return s.transcript, nil
}

type testEnv struct {
	router      http.Handler
	completions *stubCompletion
	synthesizer *stubSynthesizer
	transcriber *stubTranscriber
}

func newTestEnv() *testEnv {
	completions := &stubCompletion{reply: "hello"}
	synthesizer := &stubSynthesizer{result: integrations.SynthesisResult{
		Audio:           []byte("RIFF-audio"),
		SampleRate:      24000,
		DurationSamples: 48000,
		ContentType:     "audio/wav",
	}}
	transcriber := &stubTranscriber{transcript: "hello world"}

	chatService := services.NewChatService(newFakeStore(), completions)
	speechService := services.NewSpeechService(synthesizer, transcriber)

	router := api.NewRouter(api.RouterDependencies{
		ChatHandlers:   handlers.NewChatHandlers(chatService),
		SpeechHandlers: handlers.NewSpeechHandlers(speechService),
		Config:         &config.Config{AllowedOrigin: "http://localhost:3000"},
	})
	return &testEnv{
		router:      router,
		completions: completions,
		synthesizer: synthesizer,
		transcriber: transcriber,
	}
}

func TestLiveness(t *testing.T) {
	env := newTestEnv()
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["message"] != "Server is running" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestSendMessageEndpoint(t *testing.T) {
	env := newTestEnv()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/message",
		strings.NewReader(`{"userId":"u1","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	var resp models.SendMessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("message = %q, want %q", resp.Message, "hello")
	}
	if len(resp.ChatHistory) != 2 {
		t.Fatalf("chatHistory length = %d, want 2", len(resp.ChatHistory))
	}
	if resp.ChatHistory[0].Content != "hi" || !resp.ChatHistory[0].IsUser {
		t.Errorf("first entry should be the user message: %+v", resp.ChatHistory[0])
	}
	if resp.ChatHistory[1].Content != "hello" || resp.ChatHistory[1].IsUser {
		t.Errorf("second entry should be the assistant reply: %+v", resp.ChatHistory[1])
	}
}

func TestSendMessageEndpointBadBody(t *testing.T) {
	env := newTestEnv()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/message", strings.NewReader("not json"))
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.completions.calls != 0 {
		t.Errorf("completion client should not be invoked, got %d calls", env.completions.calls)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	env := newTestEnv()

	// Empty history for an unknown user.
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/history/u1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var convs []models.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &convs); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(convs) != 0 {
		t.Fatalf("expected empty history, got %d records", len(convs))
	}

	// Seed via a send, then fetch.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/message",
		strings.NewReader(`{"userId":"u1","message":"hi"}`))
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("send status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/history/u1", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &convs); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(convs) != 1 || len(convs[0].Messages) != 2 {
		t.Fatalf("expected one conversation with two messages, got %+v", convs)
	}

	// Delete, then verify empty.
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/chat/history/u1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}
	var del models.DeleteHistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &del); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if del.Message != "Chat history deleted successfully" {
		t.Errorf("confirmation = %q", del.Message)
	}

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/history/u1", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &convs); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(convs) != 0 {
		t.Errorf("expected empty history after delete, got %d records", len(convs))
	}
}

func TestSynthesizeEndpoint(t *testing.T) {
	env := newTestEnv()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/synthesize",
		strings.NewReader(`{"text":"hello there"}`))
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "RIFF-audio" {
		t.Errorf("body = %q, want raw audio", got)
	}
	headers := map[string]string{
		"Content-Type":       "audio/wav",
		"Content-Length":     "10",
		"X-Sample-Rate":      "24000",
		"X-Duration-Samples": "48000",
		"Cache-Control":      "no-cache",
	}
	for k, v := range headers {
		if rec.Header().Get(k) != v {
			t.Errorf("header %s = %q, want %q", k, rec.Header().Get(k), v)
		}
	}
}

func TestSynthesizeEndpointEmptyText(t *testing.T) {
	env := newTestEnv()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/synthesize", strings.NewReader(`{"text":""}`))
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Error != "No text provided for synthesis" {
		t.Errorf("error = %q", body.Error)
	}
	if env.synthesizer.calls != 0 {
		t.Errorf("synthesis client should not be invoked, got %d calls", env.synthesizer.calls)
	}
}

func TestSynthesizeEndpointMissingCredential(t *testing.T) {
	env := newTestEnv()
	env.synthesizer.credErr = &integrations.Error{Kind: integrations.KindConfig, Message: "LMNT API key not configured"}

	// The configuration error is returned for valid and invalid text alike.
	for _, payload := range []string{`{"text":"hello"}`, `{"text":""}`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/chat/synthesize", strings.NewReader(payload))
		env.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("payload %s: status = %d, want 500", payload, rec.Code)
		}
		var body models.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("payload %s: invalid JSON body: %v", payload, err)
		}
		if body.Error != "LMNT API key not configured" {
			t.Errorf("payload %s: error = %q", payload, body.Error)
		}
	}
	if env.synthesizer.calls != 0 {
		t.Errorf("synthesis client should not be invoked without a credential, got %d calls", env.synthesizer.calls)
	}
}

func TestTranscribeEndpoint(t *testing.T) {
	env := newTestEnv()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio", "clip.webm")
	if err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	part.Write([]byte{0x1a, 0x45, 0xdf, 0xa3})
	mw.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/transcribe", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	var resp models.TranscribeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.Transcript != "hello world" {
		t.Errorf("transcript = %q", resp.Transcript)
	}
}

func TestTranscribeEndpointMissingFile(t *testing.T) {
	env := newTestEnv()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/transcribe", nil)
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.transcriber.calls != 0 {
		t.Errorf("transcription client should not be invoked, got %d calls", env.transcriber.calls)
	}
}

func TestTranscribeEndpointEmptyFile(t *testing.T) {
	env := newTestEnv()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if _, err := mw.CreateFormFile("audio", "clip.webm"); err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	mw.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/transcribe", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body: %s)", rec.Code, rec.Body.String())
	}
	if env.transcriber.calls != 0 {
		t.Errorf("transcription client should not be invoked for empty audio, got %d calls", env.transcriber.calls)
	}
}
