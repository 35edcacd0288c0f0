// Package auth provides the identity collaborator used by the login and
// registration screens: email/password sign-in, sign-up and sign-out.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrEmailInUse         = errors.New("email address is already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnknownProvider    = errors.New("unknown auth provider")
	ErrTooManyAttempts    = errors.New("too many sign-in attempts, try again later")
)

const MinPasswordLength = 6

// Session is the opaque signed-in handle handed to the view layer.
type Session struct {
	UserID    string
	Email     string
	Token     string
	Guest     bool
	CreatedAt time.Time
}

// Guest returns a session for "continue as guest".
func Guest() *Session {
	return &Session{UserID: "guest", Email: "guest", Guest: true, CreatedAt: time.Now()}
}

// DisplayName is what the chat header shows for the session.
func (s *Session) DisplayName() string {
	if s == nil || s.Guest {
		return "Guest"
	}
	return s.Email
}

// Provider is an identity service. Only success or failure (and the error
// text) is consumed by the UI.
type Provider interface {
	Name() string
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, s *Session) error
}

// ProviderError carries an error message reported by a remote provider.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// ValidateCredentials normalises the email and applies the checks shared by
// every provider.
func ValidateCredentials(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t\n") {
		return "", ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	return email, nil
}

// Message is the text shown in login/registration alerts.
func Message(err error) string {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Message
	}
	return err.Error()
}
