package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/clientbook/internal/infra/auth"
)

// MockAuthenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, creds auth.Credentials) (*auth.Session, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *MockAuthenticator) Verify(token string) (*auth.Session, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func login(h *AuthHandler, body, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.RemoteAddr = ip + ":40000"
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestLoginSuccess(t *testing.T) {
	authn := new(MockAuthenticator)
	expires := time.Date(2024, 6, 15, 22, 0, 0, 0, time.UTC)
	authn.On("Authenticate", mock.Anything, auth.Credentials{Username: "operator", Password: "s3cret"}).
		Return(&auth.Session{Username: "operator", Token: "tok", ExpiresAt: expires}, nil)

	h := NewAuthHandler(authn)
	defer h.Close()

	rec := login(h, `{"username":"operator","password":"s3cret"}`, "10.0.0.1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "tok", resp["token"])
	assert.Equal(t, "2024-06-15T22:00:00Z", resp["expires_at"])
}

func TestLoginFailures(t *testing.T) {
	authn := new(MockAuthenticator)
	authn.On("Authenticate", mock.Anything, auth.Credentials{Username: "operator", Password: "wrong"}).
		Return(nil, auth.ErrInvalidCredentials)
	authn.On("Authenticate", mock.Anything, auth.Credentials{Username: "operator", Password: "boom"}).
		Return(nil, errors.New("signing failed"))

	h := NewAuthHandler(authn)
	defer h.Close()

	assert.Equal(t, http.StatusUnauthorized, login(h, `{"username":"operator","password":"wrong"}`, "10.0.0.2").Code)
	assert.Equal(t, http.StatusInternalServerError, login(h, `{"username":"operator","password":"boom"}`, "10.0.0.2").Code)
	assert.Equal(t, http.StatusBadRequest, login(h, `{"username":"operator"}`, "10.0.0.2").Code)
	assert.Equal(t, http.StatusBadRequest, login(h, `nope`, "10.0.0.2").Code)
}

func TestLoginIsRateLimitedPerIP(t *testing.T) {
	authn := new(MockAuthenticator)
	authn.On("Authenticate", mock.Anything, mock.Anything).Return(nil, auth.ErrInvalidCredentials)

	h := NewAuthHandler(authn)
	defer h.Close()

	body := `{"username":"operator","password":"guess"}`
	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusUnauthorized, login(h, body, "10.0.0.3").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, login(h, body, "10.0.0.3").Code)
	assert.Equal(t, http.StatusUnauthorized, login(h, body, "10.0.0.4").Code)
}
