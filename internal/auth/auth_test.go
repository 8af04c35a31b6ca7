package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(filepath.Join(t.TempDir(), "users.json"), "test-secret")
	require.NoError(t, err)
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	u, token, err := svc.Register("Asha", "asha@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEmpty(t, token)
	assert.Equal(t, "customer", u.Role)

	// duplicate email
	_, _, err = svc.Register("Asha", "ASHA@example.com", "secret123")
	require.ErrorIs(t, err, ErrUserExists)

	_, _, err = svc.Login("asha@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	got, loginToken, err := svc.Login("Asha@Example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	userID, err := svc.VerifyToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	_, _, err := svc.Register("", "a@b.com", "secret123")
	require.Error(t, err)
	_, _, err = svc.Register("A", "a@b.com", "short")
	require.Error(t, err)
}

func TestUsersPersistAcrossRestarts(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "users.json")

	svc, err := NewService(path, "test-secret")
	require.NoError(t, err)
	_, _, err = svc.Register("Asha", "asha@example.com", "secret123")
	require.NoError(t, err)

	reloaded, err := NewService(path, "test-secret")
	require.NoError(t, err)
	_, _, err = reloaded.Login("asha@example.com", "secret123")
	require.NoError(t, err)
}

func TestVerifyToken_Invalid(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	_, err := svc.VerifyToken("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)

	// token signed with a different secret
	other, err := NewService(filepath.Join(t.TempDir(), "users.json"), "other-secret")
	require.NoError(t, err)
	_, token, err := other.Register("Mallory", "m@example.com", "secret123")
	require.NoError(t, err)
	_, err = svc.VerifyToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	svc := testService(t)
	u, token, err := svc.Register("Asha", "asha@example.com", "secret123")
	require.NoError(t, err)

	var gotUser string
	handler := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserID(r.Context())
	}))

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, u.ID, gotUser)
	})
}
