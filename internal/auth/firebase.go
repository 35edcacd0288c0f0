package auth

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultFirebaseURL = "https://identitytoolkit.googleapis.com/v1"

// FirebaseProvider signs users in with the Firebase Identity Toolkit REST API.
type FirebaseProvider struct {
	client *resty.Client
	apiKey string
}

type firebaseRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type firebaseResponse struct {
	IDToken      string `json:"idToken"`
	Email        string `json:"email"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
}

type firebaseError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewFirebaseProvider(apiKey, baseURL string, timeout time.Duration) *FirebaseProvider {
	if baseURL == "" {
		baseURL = DefaultFirebaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &FirebaseProvider{client: client, apiKey: apiKey}
}

func (p *FirebaseProvider) Name() string { return "firebase" }

func (p *FirebaseProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return p.call(ctx, "/accounts:signUp", email, password)
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return p.call(ctx, "/accounts:signInWithPassword", email, password)
}

// SignOut drops the ID token. Firebase ID tokens are stateless, so there is
// nothing to revoke server-side for a password session.
func (p *FirebaseProvider) SignOut(ctx context.Context, s *Session) error {
	if s != nil {
		s.Token = ""
	}
	return nil
}

func (p *FirebaseProvider) call(ctx context.Context, endpoint, email, password string) (*Session, error) {
	email, err := ValidateCredentials(email, password)
	if err != nil {
		return nil, err
	}

	var out firebaseResponse
	var apiErr firebaseError
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("key", p.apiKey).
		SetBody(firebaseRequest{Email: email, Password: password, ReturnSecureToken: true}).
		SetResult(&out).
		SetError(&apiErr).
		Post(endpoint)
	if err != nil {
		log.Printf("auth: firebase %s transport error: %v", endpoint, err)
		return nil, fmt.Errorf("firebase request: %w", err)
	}

	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		log.Printf("auth: firebase %s failed: %s", endpoint, msg)
		return nil, &ProviderError{Provider: "firebase", Status: resp.StatusCode(), Message: msg}
	}

	if out.LocalID == "" {
		return nil, &ProviderError{Provider: "firebase", Status: resp.StatusCode(), Message: "unexpected response"}
	}

	return &Session{
		UserID:    out.LocalID,
		Email:     out.Email,
		Token:     out.IDToken,
		CreatedAt: time.Now(),
	}, nil
}
