package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, secret string) *Service {
	t.Helper()
	svc, err := NewService(secret, time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewService_RejectsEmptySecret(t *testing.T) {
	svc, err := NewService("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
	assert.Nil(t, svc)

	// a token signed with an empty key must not be accepted by a real service
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"student": "victim",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := forged.SignedString([]byte{})
	require.NoError(t, err)
	_, err = newTestService(t, "secret").Parse(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_LoginAndParse(t *testing.T) {
	svc := newTestService(t, "secret")

	token, err := svc.Login("  asha  ")
	require.NoError(t, err)

	student, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "asha", student)
}

func TestService_Rejects(t *testing.T) {
	svc := newTestService(t, "secret")

	_, err := svc.Login("   ")
	assert.ErrorIs(t, err, ErrEmptyStudent)

	other := newTestService(t, "other-secret")
	token, err := other.Login("ravi")
	require.NoError(t, err)
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, err := svc.Login("ravi")
	require.NoError(t, err)
	_, err = newTestService(t, "secret").Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTMiddleware(t *testing.T) {
	svc := newTestService(t, "secret")
	var seen string
	protected := JWTMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = StudentFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/revision", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/revision", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := svc.Login("meena")
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/revision", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "meena", seen)

	seen = ""
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/abc?token="+token, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "meena", seen)
}

func TestHandler_Login(t *testing.T) {
	h := NewHandler(newTestService(t, "secret"))

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"student":"kiran"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotEmpty(t, body["token"])

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
