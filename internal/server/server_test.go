package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furkancam7/lifeplan/internal/auth"
	"github.com/furkancam7/lifeplan/internal/chat"
	"github.com/furkancam7/lifeplan/internal/llm"
	"github.com/furkancam7/lifeplan/internal/report"
	"github.com/furkancam7/lifeplan/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	profiles := store.NewMemory()
	gen := llm.Disabled{}
	authSvc := auth.NewService(profiles, auth.NewRegistry())
	chatCtl := chat.NewController(profiles, gen, nil)

	artifacts, err := report.NewStore(t.TempDir())
	require.NoError(t, err)
	reports := report.NewService(profiles, gen, artifacts, nil)

	cfg := DefaultConfig()
	cfg.EnableCORS = false
	return New(cfg, Deps{
		Auth:     authSvc,
		Profiles: profiles,
		Chat:     chatCtl,
		Reports:  reports,
	})
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

type payload = map[string]any

func signupAndLogin(t *testing.T, srv *Server) string {
	t.Helper()
	code, _ := doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", "", payload{
		"name": "Jane Doe", "email": "jane@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", payload{
		"email": "jane@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, code)

	var login struct {
		Token  string `json:"token"`
		Asking string `json:"asking"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)
	require.NotEmpty(t, login.Asking, "login must open the profile conversation")
	return login.Token
}

func TestSignupLoginAndProfile(t *testing.T) {
	srv := newTestServer(t)
	token := signupAndLogin(t, srv)

	code, env := doJSON(t, srv, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	var p struct {
		Name         string `json:"name_surname"`
		PasswordHash string `json:"password_hash"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "Jane Doe", p.Name)
	assert.Empty(t, p.PasswordHash, "password hash must not leak")
}

func TestDuplicateSignupConflicts(t *testing.T) {
	srv := newTestServer(t)
	signupAndLogin(t, srv)

	code, env := doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", "", payload{
		"name": "Other", "email": "jane@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.Success)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	srv := newTestServer(t)
	signupAndLogin(t, srv)

	code, env := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", payload{
		"email": "jane@example.com", "password": "wrong!",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid email or password", env.Error)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodPost, "/api/v1/chat"},
		{http.MethodPost, "/api/v1/reports/retirement"},
		{http.MethodGet, "/api/v1/reports"},
	} {
		code, _ := doJSON(t, srv, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, code, "%s %s", tc.method, tc.path)
	}
}

func TestChatTurnAdvancesProfile(t *testing.T) {
	srv := newTestServer(t)
	token := signupAndLogin(t, srv)

	code, env := doJSON(t, srv, http.MethodPost, "/api/v1/chat", token, payload{"message": "34"})
	require.Equal(t, http.StatusOK, code)

	var reply struct {
		Message string `json:"message"`
		Updated string `json:"updated"`
		Asking  string `json:"asking"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reply))
	assert.Equal(t, "age", reply.Updated)
	assert.NotEmpty(t, reply.Asking)

	code, env = doJSON(t, srv, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, code)
	var p struct {
		Age int `json:"age"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, 34, p.Age)
}

func fillProfile(t *testing.T, srv *Server, token string) {
	t.Helper()
	answers := []string{
		"34", "female", "married", "1", "University", "engineer",
		"$5,000", "$3,000", "none", "savings of $20,000", "Austin, USA",
		"none", "non-smoker, runs weekly", "none", "$2,000",
	}
	for _, answer := range answers {
		code, _ := doJSON(t, srv, http.MethodPost, "/api/v1/chat", token, payload{"message": answer})
		require.Equal(t, http.StatusOK, code, "answer %q", answer)
	}
}

func TestReportLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := signupAndLogin(t, srv)
	fillProfile(t, srv, token)

	code, env := doJSON(t, srv, http.MethodPost, "/api/v1/reports/retirement", token, nil)
	require.Equal(t, http.StatusCreated, code)
	var artifact struct {
		Name string `json:"name"`
		Size int64  `json:"size"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &artifact))
	assert.Equal(t, "retirement_report_jane_doe.pdf", artifact.Name)
	assert.Greater(t, artifact.Size, int64(0))

	code, env = doJSON(t, srv, http.MethodGet, "/api/v1/reports", token, nil)
	require.Equal(t, http.StatusOK, code)
	var list []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+artifact.Name, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), artifact.Name)

	code, _ = doJSON(t, srv, http.MethodDelete, "/api/v1/reports/"+artifact.Name, token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = doJSON(t, srv, http.MethodGet, "/api/v1/reports", token, nil)
	require.Equal(t, http.StatusOK, code)
}

func TestDownloadRejectsTraversal(t *testing.T) {
	srv := newTestServer(t)
	token := signupAndLogin(t, srv)

	code, _ := doJSON(t, srv, http.MethodGet, "/api/v1/reports/"+"..%2Fsecrets.pdf", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	srv := newTestServer(t)
	token := signupAndLogin(t, srv)

	code, _ := doJSON(t, srv, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, srv, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpointCounts(t *testing.T) {
	srv := newTestServer(t)
	signupAndLogin(t, srv)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lifeplan_signups_total 1")
	assert.Contains(t, rec.Body.String(), "lifeplan_logins_total 1")
}
