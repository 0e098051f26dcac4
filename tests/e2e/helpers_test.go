//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/opscapture/interview-backend/internal/adapter/postgres"
	interviewrepo "github.com/opscapture/interview-backend/internal/adapter/postgres/interview"
	"github.com/opscapture/interview-backend/internal/adapter/postgres/testhelper"
	tokenrepo "github.com/opscapture/interview-backend/internal/adapter/postgres/token"
	userrepo "github.com/opscapture/interview-backend/internal/adapter/postgres/user"
	"github.com/opscapture/interview-backend/internal/adapter/provider/openai"
	authpkg "github.com/opscapture/interview-backend/internal/auth"
	"github.com/opscapture/interview-backend/internal/config"
	authsvc "github.com/opscapture/interview-backend/internal/service/auth"
	exportsvc "github.com/opscapture/interview-backend/internal/service/export"
	interviewsvc "github.com/opscapture/interview-backend/internal/service/interview"
	voicesvc "github.com/opscapture/interview-backend/internal/service/voice"
	"github.com/opscapture/interview-backend/internal/transport/middleware"
	"github.com/opscapture/interview-backend/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// Scripted question generator. Each call pops the next canned reply, so a
// test controls the whole interview arc including the completion token.
// ---------------------------------------------------------------------------

type scriptedLLM struct {
	mu      sync.Mutex
	replies []string
	prompts []string
}

func (s *scriptedLLM) Complete(_ context.Context, _ string, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, prompt)
	if len(s.replies) == 0 {
		return "", fmt.Errorf("scriptedLLM: out of replies")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

// ---------------------------------------------------------------------------
// Stub speech provider. Deterministic output, no network.
// ---------------------------------------------------------------------------

type stubSpeech struct{}

func (s *stubSpeech) Transcribe(_ context.Context, _ string, _ io.Reader) (string, error) {
	return "stub transcript", nil
}

func (s *stubSpeech) Speak(_ context.Context, _ string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("stub-mp3")), nil
}

func (s *stubSpeech) MintRealtimeSession(_ context.Context, model, voice string) (*openai.RealtimeSession, error) {
	return &openai.RealtimeSession{
		ID:    "sess_stub",
		Model: model,
		Voice: voice,
		ClientSecret: openai.ClientSecret{
			Value:     "ek_stub_secret",
			ExpiresAt: time.Now().Add(time.Minute).Unix(),
		},
	}, nil
}

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	LLM    *scriptedLLM
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the full application stack backed by a real
// PostgreSQL container (shared via testhelper). The LLM and speech providers
// are replaced with in-process stubs.
func setupTestServer(t *testing.T, replies ...string) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)

	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	users := userrepo.New(pool)
	tokens := tokenrepo.New(pool)
	interviews := interviewrepo.New(pool)

	authCfg := config.AuthConfig{
		JWTSecret:        "test-secret-at-least-32-chars-long!!",
		JWTIssuer:        "test-issuer",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  720 * time.Hour,
		PasswordHashCost: 4,
	}
	jwtMgr := authpkg.NewJWTManager(authCfg.JWTSecret, authCfg.JWTIssuer, authCfg.AccessTokenTTL)

	llm := &scriptedLLM{replies: replies}
	speech := &stubSpeech{}

	authService := authsvc.NewService(logger, users, tokens, txm, jwtMgr, authCfg)
	interviewService := interviewsvc.NewService(logger, interviews, llm)
	exportService := exportsvc.NewService(logger, interviews)
	voiceService := voicesvc.NewService(logger, speech, speech,
		config.SpeechConfig{TTSMaxInputChars: 4096},
		config.RealtimeConfig{Model: "gpt-4o-realtime-preview", Voice: "alloy"},
	)

	mux := rest.NewRouter(rest.Handlers{
		Auth:      rest.NewAuthHandler(authService, logger),
		Interview: rest.NewInterviewHandler(interviewService, logger),
		Export:    rest.NewExportHandler(exportService, logger),
		Voice:     rest.NewVoiceHandler(voiceService, logger),
		Health:    rest.NewHealthHandler(pool, "test-version"),
	})

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.CORS(config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type",
			AllowCredentials: true,
			MaxAge:           86400,
		}),
		middleware.Auth(authService),
	)(mux)

	srv := httptest.NewServer(handler)
	t.Cleanup(func() { srv.Close() })

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		LLM:    llm,
	}
}

// ---------------------------------------------------------------------------
// doJSON sends a JSON request and returns status + decoded body.
// ---------------------------------------------------------------------------

func (ts *testServer) doJSON(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "marshal request body")
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err, "create request")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err, "do request")
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "read response")

	// Some rejections (middleware, http.Error) are plain text; callers only
	// inspect the body on JSON responses.
	var result map[string]any
	if len(data) > 0 {
		_ = json.Unmarshal(data, &result)
	}
	return resp.StatusCode, result
}

// doJSONList is doJSON for endpoints that return a JSON array.
func (ts *testServer) doJSONList(t *testing.T, method, path, token string) (int, []map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, ts.URL+path, nil)
	require.NoError(t, err, "create request")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err, "do request")
	defer resp.Body.Close()

	var result []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result), "decode response")
	return resp.StatusCode, result
}

// registerUser creates a fresh account through the public API and returns
// the access and refresh tokens.
func registerUser(t *testing.T, ts *testServer) (accessToken, refreshToken string) {
	t.Helper()

	email := fmt.Sprintf("sme-%d@example.com", time.Now().UnixNano())
	status, body := ts.doJSON(t, http.MethodPost, "/auth/register", map[string]any{
		"email":    email,
		"name":     "Test SME",
		"password": "correct horse battery",
	}, "")
	require.Equal(t, http.StatusCreated, status, "register: %v", body)

	accessToken, _ = body["accessToken"].(string)
	refreshToken, _ = body["refreshToken"].(string)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)
	return accessToken, refreshToken
}

// createInterview starts an interview over the API and returns its id.
func createInterview(t *testing.T, ts *testServer, token string) string {
	t.Helper()

	status, body := ts.doJSON(t, http.MethodPost, "/interviews", map[string]any{
		"equipmentName":     "Hydraulic Press 4",
		"equipmentLocation": "Building C",
		"smeName":           "Jordan Vale",
		"smeTitle":          "Line Supervisor",
	}, token)
	require.Equal(t, http.StatusCreated, status, "create interview: %v", body)

	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}
