package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"user-auth-api/internal/config"
	"user-auth-api/internal/handler"
	"user-auth-api/internal/model"
	"user-auth-api/internal/repository"
	"user-auth-api/internal/usecase"
	"user-auth-api/shared/auth"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.users[user.ID.Hex()] = &stored

	return user, nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, err
	}

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	found := *user
	return &found, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, id string, params repository.UpdateUserParams) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, err
	}

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.VerifyEmail != nil {
		user.VerifyEmail = *params.VerifyEmail
	}
	if params.Status != nil {
		user.Status = *params.Status
	}
	if params.AccessToken != nil {
		user.AccessToken = *params.AccessToken
	}
	if params.RefreshToken != nil {
		user.RefreshToken = *params.RefreshToken
	}
	user.UpdatedAt = time.Now()

	updated := *user
	return &updated, nil
}

type stubMailer struct{}

func (stubMailer) SendHTML([]string, string, string) error { return nil }

// envelope mirrors the response body every endpoint answers with.
type envelope struct {
	Message string          `json:"message"`
	Success bool            `json:"success"`
	Error   bool            `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	router http.Handler
	repo   *fakeUserRepo
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		FrontendURL: "http://localhost:3000",
		Token: config.TokenConfig{
			AccessTokenSecret:     "access-secret",
			RefreshTokenSecret:    "refresh-secret",
			AccessTokenExpiresIn:  5 * time.Hour,
			RefreshTokenExpiresIn: 7 * 24 * time.Hour,
		},
	}

	logger := zerolog.Nop()
	repo := newFakeUserRepo()
	jwtAuth := auth.NewJWTAuthenticator()

	authUsecase := usecase.NewAuthUsecase(repo, jwtAuth, stubMailer{}, cfg, &logger)
	authHandler := handler.NewAuthHandler(authUsecase, &logger)
	authMiddleware := handler.AuthMiddleware(jwtAuth, cfg.Token.AccessTokenSecret)

	return &testServer{
		router: handler.NewRouter(authHandler, authMiddleware, cfg.FrontendURL, &logger),
		repo:   repo,
		cfg:    cfg,
	}
}

func (s *testServer) do(t *testing.T, req *http.Request) (*http.Response, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	res := rec.Result()
	t.Cleanup(func() { res.Body.Close() })

	var body envelope
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))

	return res, body
}

func postJSON(t *testing.T, path string, payload any) *http.Request {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	return req
}

func (s *testServer) register(t *testing.T, name, email, password string) model.User {
	t.Helper()

	res, body := s.do(t, postJSON(t, "/api/register", map[string]string{
		"name": name, "email": email, "password": password,
	}))
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var user model.User
	require.NoError(t, json.Unmarshal(body.Data, &user))

	return user
}

func (s *testServer) login(t *testing.T, email, password string) (*http.Response, envelope) {
	t.Helper()

	return s.do(t, postJSON(t, "/api/login", map[string]string{
		"email": email, "password": password,
	}))
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer(t)

	res, body := s.do(t, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Server is running", body.Message)
	assert.True(t, body.Success)
}

func TestRegisterMissingFields(t *testing.T) {
	s := newTestServer(t)

	for _, payload := range []map[string]string{
		{},
		{"name": "Ann"},
		{"name": "Ann", "email": "ann@x.com"},
		{"email": "ann@x.com", "password": "pw123"},
	} {
		res, body := s.do(t, postJSON(t, "/api/register", payload))

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "Provide name, email, and password", body.Message)
		assert.True(t, body.Error)
		assert.False(t, body.Success)
	}
}

func TestRegisterSuccess(t *testing.T) {
	s := newTestServer(t)

	res, body := s.do(t, postJSON(t, "/api/register", map[string]string{
		"name": "Ann", "email": "ann@x.com", "password": "pw123",
	}))

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "User registered successfully. Please verify your email.", body.Message)
	assert.True(t, body.Success)
	assert.False(t, body.Error)

	var user model.User
	require.NoError(t, json.Unmarshal(body.Data, &user))
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, model.StatusActive, user.Status)
	assert.False(t, user.VerifyEmail)

	// The record comes back with the hashed password, never the plaintext.
	assert.NotEmpty(t, user.Password)
	assert.NotEqual(t, "pw123", user.Password)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "Ann", "ann@x.com", "pw123")

	// A different name and password make no difference.
	res, body := s.do(t, postJSON(t, "/api/register", map[string]string{
		"name": "Bob", "email": "ann@x.com", "password": "other",
	}))

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Email is already registered", body.Message)
}

func TestLoginErrorMessagesDiffer(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "Ann", "ann@x.com", "pw123")

	res, body := s.login(t, "nobody@x.com", "pw123")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "User not registered", body.Message)

	res, body = s.login(t, "ann@x.com", "wrong")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Invalid email or password", body.Message)
}

func TestLoginInactiveAccount(t *testing.T) {
	s := newTestServer(t)

	user := s.register(t, "Ann", "ann@x.com", "pw123")

	inactive := model.StatusInactive
	_, err := s.repo.UpdateUser(context.Background(), user.ID.Hex(), repository.UpdateUserParams{Status: &inactive})
	require.NoError(t, err)

	res, body := s.login(t, "ann@x.com", "pw123")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Account is inactive. Contact Admin.", body.Message)
}

func TestLoginSetsCookiesAndBody(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "Ann", "ann@x.com", "pw123")

	res, body := s.login(t, "ann@x.com", "pw123")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Login successful", body.Message)

	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	cookies := map[string]*http.Cookie{}
	for _, c := range res.Cookies() {
		cookies[c.Name] = c
	}

	for name, want := range map[string]string{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	} {
		cookie, ok := cookies[name]
		require.True(t, ok, "missing %s cookie", name)

		// Same values in cookie and body.
		assert.Equal(t, want, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	}
}

func TestLoginBeforeVerificationSucceeds(t *testing.T) {
	s := newTestServer(t)

	user := s.register(t, "Ann", "ann@x.com", "pw123")
	require.False(t, user.VerifyEmail)

	res, _ := s.login(t, "ann@x.com", "pw123")
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestVerifyEmailIsIdempotent(t *testing.T) {
	s := newTestServer(t)

	user := s.register(t, "Ann", "ann@x.com", "pw123")

	for i := 0; i < 2; i++ {
		res, body := s.do(t, postJSON(t, "/api/verify-email", map[string]string{"code": user.ID.Hex()}))

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "Email verification successful", body.Message)
	}

	stored, err := s.repo.GetUser(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.True(t, stored.VerifyEmail)
}

func TestVerifyEmailInvalidCode(t *testing.T) {
	s := newTestServer(t)

	for _, code := range []string{"garbage", bson.NewObjectID().Hex()} {
		res, body := s.do(t, postJSON(t, "/api/verify-email", map[string]string{"code": code}))

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "Invalid code", body.Message)
	}
}

func TestLogoutWithoutToken(t *testing.T) {
	s := newTestServer(t)

	res, body := s.do(t, httptest.NewRequest(http.MethodPost, "/api/logout", nil))

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "Provide token", body.Message)
}

func TestLogoutWithBadToken(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	res, body := s.do(t, req)

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "Unauthorized access", body.Message)
}

func TestLogoutFlow(t *testing.T) {
	s := newTestServer(t)

	user := s.register(t, "Ann", "ann@x.com", "pw123")

	loginRes, loginBody := s.login(t, "ann@x.com", "pw123")
	require.Equal(t, http.StatusOK, loginRes.StatusCode)

	var tokens struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(loginBody.Data, &tokens))

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	for _, c := range loginRes.Cookies() {
		req.AddCookie(c)
	}

	res, body := s.do(t, req)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Logout successful", body.Message)

	// Both cookies are expired with the attributes they were set with.
	cleared := map[string]bool{}
	for _, c := range res.Cookies() {
		if c.MaxAge < 0 {
			assert.Empty(t, c.Value)
			assert.True(t, c.HttpOnly)
			assert.True(t, c.Secure)
			cleared[c.Name] = true
		}
	}
	assert.True(t, cleared["accessToken"])
	assert.True(t, cleared["refreshToken"])

	// The stored refresh token is cleared, the access token is not.
	stored, err := s.repo.GetUser(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, stored.RefreshToken)
	assert.Equal(t, tokens.AccessToken, stored.AccessToken)

	// Stateless revocation: the issued access token still passes the auth
	// middleware until it expires.
	req = httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)

	res, body = s.do(t, req)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Logout successful", body.Message)
}

func TestEndToEndScenario(t *testing.T) {
	s := newTestServer(t)

	// Register.
	res, body := s.do(t, postJSON(t, "/api/register", map[string]string{
		"name": "Ann", "email": "ann@x.com", "password": "pw123",
	}))
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var user model.User
	require.NoError(t, json.Unmarshal(body.Data, &user))

	// Default status is Active, so login works straight away.
	require.Equal(t, model.StatusActive, user.Status)

	loginRes, loginBody := s.login(t, "ann@x.com", "pw123")
	require.Equal(t, http.StatusOK, loginRes.StatusCode)

	var tokens struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(loginBody.Data, &tokens))

	// Logout with the returned access token.
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)

	res, body = s.do(t, req)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Logout successful", body.Message)
}
