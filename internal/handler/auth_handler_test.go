package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-auth-service/internal/auth"
	"go-auth-service/internal/config"
	"go-auth-service/internal/handler"
	"go-auth-service/internal/middleware"
	"go-auth-service/internal/model"
	"go-auth-service/internal/router"
	"go-auth-service/internal/service"
)

type memStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemStore() *memStore {
	return &memStore{users: map[string]model.User{}}
}

func (s *memStore) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Username)
	if _, exists := s.users[key]; exists {
		return model.ErrUserAlreadyExists
	}
	s.users[key] = u
	return nil
}

func (s *memStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[strings.ToLower(strings.TrimSpace(username))]
	if !exists {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *memStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.users[strings.ToLower(strings.TrimSpace(username))]
	return exists, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	codec, err := auth.NewTokenCodec("test-secret", time.Hour)
	require.NoError(t, err)

	authService := service.NewAuthService(newMemStore(), auth.NewPasswordHasher(), codec)
	guard := middleware.NewAccessGuard(codec)
	authHandler := handler.NewAuthHandler(authService)

	cfg := &config.Config{
		RequestTimeout: 30 * time.Second,
		CORSOrigins:    []string{"*"},
	}

	server := httptest.NewServer(router.New(cfg, guard, authHandler, nil))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) model.APIResponse {
	t.Helper()

	var parsed model.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed
}

func TestRegister(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/auth/register", model.Credentials{
		Username: "alice",
		Password: "pw1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var buf bytes.Buffer
	parsed := model.APIResponse{}
	require.NoError(t, json.NewDecoder(io.TeeReader(resp.Body, &buf)).Decode(&parsed))

	require.True(t, parsed.Success)
	data, ok := parsed.Data.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "alice", data["username"])

	// The hash never appears in a response payload.
	assert.NotContains(t, buf.String(), "password")
	assert.NotContains(t, buf.String(), "$2a$")
}

func TestRegisterDuplicate(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/auth/register", model.Credentials{Username: "alice", Password: "pw1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, server.URL+"/api/v1/auth/register", model.Credentials{Username: "alice", Password: "pw2"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	parsed := decodeResponse(t, resp)
	require.NotNil(t, parsed.Error)
	assert.Equal(t, "ALREADY_EXISTS", parsed.Error.Code)
}

func TestRegisterInvalidBody(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/v1/auth/register", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/auth/register", model.Credentials{Username: "alice", Password: "pw1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, server.URL+"/api/v1/auth/login", model.Credentials{Username: "alice", Password: "pw1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	parsed := decodeResponse(t, resp)
	data, ok := parsed.Data.(map[string]any)
	require.True(t, ok)
	token, _ := data["token"].(string)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Bearer", data["token_type"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/auth/register", model.Credentials{Username: "alice", Password: "pw1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	wrongPassword := postJSON(t, server.URL+"/api/v1/auth/login", model.Credentials{Username: "alice", Password: "wrong"})
	unknownUser := postJSON(t, server.URL+"/api/v1/auth/login", model.Credentials{Username: "nobody", Password: "pw1"})

	// Wrong password and unknown user are indistinguishable in the response.
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.StatusCode)
	assert.Equal(t, decodeResponse(t, wrongPassword).Error, decodeResponse(t, unknownUser).Error)
}

func TestProfile(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/auth/register", model.Credentials{Username: "alice", Password: "pw1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, server.URL+"/api/v1/auth/login", model.Credentials{Username: "alice", Password: "pw1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, _ := decodeResponse(t, resp).Data.(map[string]any)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/v1/auth/profile", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	profileResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = profileResp.Body.Close() })
	require.Equal(t, http.StatusOK, profileResp.StatusCode)

	parsed := decodeResponse(t, profileResp)
	profile, ok := parsed.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", profile["username"])
	assert.NotEmpty(t, profile["id"])
}

func TestProfileWithoutToken(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/auth/profile")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	parsed := decodeResponse(t, resp)
	require.NotNil(t, parsed.Error)
	assert.Equal(t, "MISSING_TOKEN", parsed.Error.Code)
}

func TestProfileWithGarbledToken(t *testing.T) {
	server := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/v1/auth/profile", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer garbage")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	parsed := decodeResponse(t, resp)
	require.NotNil(t, parsed.Error)
	assert.Equal(t, "TOKEN_MALFORMED", parsed.Error.Code)
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
