package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"nova/internal/db"
)

func TestValidateCredentials(t *testing.T) {
	email, err := ValidateCredentials("  Ada@Example.COM ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)

	_, err = ValidateCredentials("ada", "secret1")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, err = ValidateCredentials("@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, err = ValidateCredentials("ada@", "secret1")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, err = ValidateCredentials("ada@example.com", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "EMAIL_EXISTS", Message(&ProviderError{Provider: "firebase", Message: "EMAIL_EXISTS"}))
	assert.Equal(t, ErrInvalidCredentials.Error(), Message(ErrInvalidCredentials))
}

func TestGuestSession(t *testing.T) {
	g := Guest()
	assert.True(t, g.Guest)
	assert.Equal(t, "Guest", g.DisplayName())
	assert.Equal(t, "ada@example.com", (&Session{Email: "ada@example.com"}).DisplayName())
}

func newLocal(t *testing.T) *LocalProvider {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "nova.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	p := NewLocalProvider(conn)
	p.Cost = bcrypt.MinCost
	return p
}

func TestLocalSignUpThenSignIn(t *testing.T) {
	p := newLocal(t)
	ctx := context.Background()

	created, err := p.SignUp(ctx, "Ada@example.com", "lovelace")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.NotEmpty(t, created.UserID)

	s, err := p.SignIn(ctx, "ada@example.com", "lovelace")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, s.UserID)
	assert.NotEmpty(t, s.Token)

	require.NoError(t, p.SignOut(ctx, s))
	assert.Empty(t, s.Token)
}

func TestLocalSignUpDuplicate(t *testing.T) {
	p := newLocal(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "ada@example.com", "lovelace")
	require.NoError(t, err)
	_, err = p.SignUp(ctx, "ADA@example.com", "another")
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestLocalSignInFailures(t *testing.T) {
	p := newLocal(t)
	ctx := context.Background()
	_, err := p.SignUp(ctx, "ada@example.com", "lovelace")
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "grace@example.com", "hopper1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLocalSignInThrottled(t *testing.T) {
	p := newLocal(t)
	ctx := context.Background()
	_, err := p.SignUp(ctx, "ada@example.com", "lovelace")
	require.NoError(t, err)

	for i := 0; i < SignInBurst; i++ {
		_, err = p.SignIn(ctx, "ada@example.com", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err = p.SignIn(ctx, "ADA@example.com", "lovelace")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	_, err = p.SignIn(ctx, "grace@example.com", "hopper1")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "limits are per email")
}

func TestLocalLimiterTableStaysBounded(t *testing.T) {
	p := newLocal(t)
	ctx := context.Background()

	for i := 0; i < SignInBurst; i++ {
		_, err := p.SignIn(ctx, "held@example.com", "wrong-pass")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	for i := 0; i < 2*MaxTrackedEmails; i++ {
		_, err := p.SignIn(ctx, fmt.Sprintf("user%d@example.com", i), "wrong-pass")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	p.mu.Lock()
	tracked := len(p.limiters)
	p.mu.Unlock()
	assert.LessOrEqual(t, tracked, MaxTrackedEmails)

	_, err := p.SignIn(ctx, "held@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrTooManyAttempts, "a throttled email survives pruning")
}

func TestFirebaseSignIn(t *testing.T) {
	var gotKey, gotPath string
	var gotBody firebaseRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"idToken":"tok","email":"ada@example.com","refreshToken":"r","expiresIn":"3600","localId":"uid-1"}`))
	}))
	defer server.Close()

	p := NewFirebaseProvider("web-key", server.URL, 5*time.Second)
	s, err := p.SignIn(context.Background(), "ada@example.com", "lovelace")

	require.NoError(t, err)
	assert.Equal(t, "uid-1", s.UserID)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, "web-key", gotKey)
	assert.Equal(t, "/accounts:signInWithPassword", gotPath)
	assert.True(t, gotBody.ReturnSecureToken)
	assert.Equal(t, "lovelace", gotBody.Password)
}

func TestFirebaseSignUpError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"EMAIL_EXISTS"}}`))
	}))
	defer server.Close()

	p := NewFirebaseProvider("web-key", server.URL, 0)
	_, err := p.SignUp(context.Background(), "ada@example.com", "lovelace")

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusBadRequest, perr.Status)
	assert.Equal(t, "EMAIL_EXISTS", Message(err))
}

func TestFirebaseValidatesBeforeNetwork(t *testing.T) {
	hit := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer server.Close()

	p := NewFirebaseProvider("web-key", server.URL, 0)
	_, err := p.SignIn(context.Background(), "not-an-email", "lovelace")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	assert.False(t, hit)
}
