package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/users"
)

const testSecret = "test-secret-test-secret-test-sec"

// memRepo is an in-memory users.Repository for handler tests.
type memRepo struct {
	mu      sync.Mutex
	byEmail map[string]*users.User
	byID    map[uuid.UUID]*users.User
}

func newMemRepo() *memRepo {
	return &memRepo{
		byEmail: make(map[string]*users.User),
		byID:    make(map[uuid.UUID]*users.User),
	}
}

func (m *memRepo) Create(ctx context.Context, u *users.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return common.ErrorEmailAlreadyExists
	}
	m.byEmail[u.Email] = u
	m.byID[u.ID] = u
	return nil
}

func (m *memRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (m *memRepo) GetByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *memRepo, *auth.TokenCodec) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newMemRepo()
	hasher := auth.NewHasher(auth.Argon2Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}, 2)
	codec := auth.NewTokenCodec([]byte(testSecret), time.Hour)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	service := users.NewService(repo, hasher, codec, logger)

	srv, err := NewServer(":0", logger, service, codec, nil)
	require.NoError(t, err)

	return srv.setupRouter(), repo, codec
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerBody(email string) map[string]string {
	return map[string]string{"email": email, "password": "longenoughpw", "name": "A"}
}

func decodeAuth(t *testing.T, w *httptest.ResponseRecorder) authResponse {
	t.Helper()
	var resp authResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// --- auth handlers ---

func TestRegister_ReturnsBearerToken(t *testing.T) {
	router, _, codec := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody("a@b.com"), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeAuth(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Bearer", resp.Data.TokenType)
	assert.Equal(t, int64(3600), resp.Data.ExpiresIn)

	_, err := codec.Verify(resp.Data.Token)
	assert.NoError(t, err)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody("a@b.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody("a@b.com"), nil)
	require.Equal(t, http.StatusConflict, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "USER_ALREADY_EXISTS", resp.Error.Code)
}

func TestRegister_Validation(t *testing.T) {
	router, _, _ := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"invalid email", map[string]string{"email": "not-an-email", "password": "longenoughpw", "name": "A"}},
		{"short password", map[string]string{"email": "a@b.com", "password": "short", "name": "A"}},
		{"missing name", map[string]string{"email": "a@b.com", "password": "longenoughpw"}},
		{"empty body", map[string]string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLogin_SuccessAndFailure(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody("a@b.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "a@b.com", "password": "longenoughpw"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeAuth(t, w).Data.Token)

	// wrong password and unknown email: identical status and body
	wrong := doJSON(t, router, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "a@b.com", "password": "wrong-password"}, nil)
	unknown := doJSON(t, router, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "ghost@b.com", "password": "longenoughpw"}, nil)

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

// --- middleware ---

func TestAuthRequired_Rejections(t *testing.T) {
	router, _, _ := newTestRouter(t)

	expiredCodec := auth.NewTokenCodec([]byte(testSecret), -time.Hour)
	expired, err := expiredCodec.Issue(uuid.NewString())
	require.NoError(t, err)

	foreignCodec := auth.NewTokenCodec([]byte("another-secret-another-secret-xx"), time.Hour)
	foreign, err := foreignCodec.Issue(uuid.NewString())
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "Token abc"},
		{"lowercase scheme", "bearer abc"},
		{"expired token", "Bearer " + expired},
		{"wrong key token", "Bearer " + foreign},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := doJSON(t, router, http.MethodGet, "/api/v1/users/me", nil, headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthRequired_ValidTokenExposesSubject(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody("a@b.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	token := decodeAuth(t, w).Data.Token

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/me", nil,
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp userResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "a@b.com", resp.Data.Email)
	assert.NotEmpty(t, resp.Data.ID)
}

// --- users endpoints ---

func TestGetUserByID(t *testing.T) {
	router, repo, codec := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody("a@b.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	user, err := repo.GetByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)

	token, err := codec.Issue(user.ID.String())
	require.NoError(t, err)
	headers := map[string]string{"Authorization": "Bearer " + token}

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/"+user.ID.String(), nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	var resp userResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, user.ID.String(), resp.Data.ID)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/"+uuid.NewString(), nil, headers)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/not-a-uuid", nil, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- end to end ---

func TestRegisterLoginMe_SameSubject(t *testing.T) {
	router, _, codec := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody("a@b.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	t1 := decodeAuth(t, w).Data.Token

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "a@b.com", "password": "longenoughpw"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	t2 := decodeAuth(t, w).Data.Token

	s1, err := codec.Verify(t1)
	require.NoError(t, err)
	s2, err := codec.Verify(t2)
	require.NoError(t, err)
	require.Equal(t, s1, s2)

	for _, token := range []string{t1, t2} {
		w = doJSON(t, router, http.MethodGet, "/api/v1/users/me", nil,
			map[string]string{"Authorization": "Bearer " + token})
		require.Equal(t, http.StatusOK, w.Code)

		var resp userResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, s1, resp.Data.ID)
	}
}
