package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basic-api/internal/domain"
	apigraphql "basic-api/internal/graphql"
	apphttp "basic-api/internal/http"
	"basic-api/internal/repository/memory"
	"basic-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret-key-for-unit-tests"

type testServer struct {
	router *gin.Engine
	tokens service.TokenService
	hook   *test.Hook
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger, hook := test.NewNullLogger()
	tokens, err := service.NewTokenService(service.TokenConfig{Secret: []byte(testSecret)})
	require.NoError(t, err)

	users := service.NewUserService(memory.NewUserRepository(domain.SeedUsers()), tokens, service.UserServiceConfig{})
	gate := service.NewAuthGate(tokens, logger)
	schema, err := apigraphql.NewSchema(users, logger)
	require.NoError(t, err)

	router := gin.New()
	apphttp.NewHandler(users, gate, apigraphql.Handler(schema, gate, logger), logger).RegisterRoutes(router)
	return &testServer{router: router, tokens: tokens, hook: hook}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRoot(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "successfully hit the basic-api", decode(t, rec)["message"])
}

func TestExamplePost(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/example-post", strings.NewReader(`{"hello":"world"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := s.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "successfully hit the example-post", decode(t, rec)["message"])

	var logged bool
	for _, entry := range s.hook.AllEntries() {
		if entry.Message == "example-post received" {
			logged = true
			assert.Equal(t, `{"hello":"world"}`, entry.Data["body"])
		}
	}
	assert.True(t, logged, "request body is logged")
}

func TestLoginThenHowdy(t *testing.T) {
	s := newTestServer(t)

	rec := s.login(t, "alice", "123456")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, token)

	claims, err := s.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.Subject)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), claims.ExpiresAt, 5*time.Second)

	req := httptest.NewRequest(http.MethodGet, "/howdy", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = s.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Howdy")
}

func TestLoginWithForm(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{"username": {"bob"}, "password": {"password"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := s.do(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode(t, rec)["token"])
}

func TestLoginFailures(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		username string
		password string
		want     string
	}{
		{name: "unknown user", username: "carol", password: "anything", want: "User not found"},
		{name: "wrong password", username: "alice", password: "wrongpass", want: "Invalid password"},
		{name: "empty credentials", want: "User not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.login(t, tt.username, tt.password)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.want, decode(t, rec)["error"])
		})
	}
}

// Documents the compatible default: bob's password logs in as alice.
func TestLoginWithAnotherUsersPassword(t *testing.T) {
	s := newTestServer(t)

	rec := s.login(t, "alice", "password")
	require.Equal(t, http.StatusOK, rec.Code)

	claims, err := s.tokens.Verify(decode(t, rec)["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestLoginMalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":`))
	req.Header.Set("Content-Type", "application/json")
	rec := s.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["error"])
}

func TestHowdyRejections(t *testing.T) {
	s := newTestServer(t)

	foreign, err := service.NewTokenService(service.TokenConfig{Secret: []byte("other")})
	require.NoError(t, err)
	forged, err := foreign.Issue(1, "alice")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "no header", want: "No auth header given"},
		{name: "scheme only", header: "Bearer", want: "Missing token"},
		{name: "garbage", header: "Bearer nope", want: "Invalid or expired token"},
		{name: "forged", header: "Bearer " + forged, want: "Invalid or expired token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/howdy", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := s.do(req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.want, decode(t, rec)["error"])
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodOptions, "/login", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec = s.do(req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))

	entry := s.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "req-42", entry.Data["request_id"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
}

func TestGraphQLMounted(t *testing.T) {
	s := newTestServer(t)

	rec := s.login(t, "bob", "password")
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode(t, rec)["token"].(string)

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ me { id username } }"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec = s.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"me":{"id":2,"username":"bob"}}}`, rec.Body.String())
}
