package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"nova/internal/db"
)

// Sign-in attempts per email: a burst of SignInBurst, then one every
// SignInInterval.
const (
	SignInBurst    = 5
	SignInInterval = 10 * time.Second
)

// MaxTrackedEmails bounds the limiter table. Past it, limiters that have
// refilled to a full burst are dropped first, then the one with the most
// tokens left, so throttled emails stay throttled.
const MaxTrackedEmails = 256

// LocalProvider keeps accounts in the local sqlite database.
type LocalProvider struct {
	DB   *sql.DB
	Cost int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewLocalProvider(conn *sql.DB) *LocalProvider {
	return &LocalProvider{
		DB:       conn,
		Cost:     bcrypt.DefaultCost,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (p *LocalProvider) limiter(email string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.limiters == nil {
		p.limiters = make(map[string]*rate.Limiter)
	}
	l, ok := p.limiters[email]
	if !ok {
		if len(p.limiters) >= MaxTrackedEmails {
			p.pruneLimiters()
		}
		l = rate.NewLimiter(rate.Every(SignInInterval), SignInBurst)
		p.limiters[email] = l
	}
	return l
}

// pruneLimiters makes room for one more limiter. Caller holds p.mu.
func (p *LocalProvider) pruneLimiters() {
	now := time.Now()
	victim, most := "", -1.0
	for email, l := range p.limiters {
		tokens := l.TokensAt(now)
		if tokens >= SignInBurst {
			delete(p.limiters, email)
			continue
		}
		if tokens > most {
			victim, most = email, tokens
		}
	}
	if len(p.limiters) >= MaxTrackedEmails {
		delete(p.limiters, victim)
	}
}

func (p *LocalProvider) Name() string { return "local" }

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email, err := ValidateCredentials(email, password)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.Cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	acct := db.Account{
		ID:            uuid.NewString(),
		Email:         email,
		PasswordHash:  string(hash),
		CreatedAtUnix: now.Unix(),
	}
	if err := db.CreateAccount(p.DB, acct); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	log.Printf("auth: local account created for %s", email)
	return &Session{UserID: acct.ID, Email: email, Token: uuid.NewString(), CreatedAt: now}, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email, err := ValidateCredentials(email, password)
	if err != nil {
		return nil, err
	}

	if !p.limiter(email).Allow() {
		log.Printf("auth: too many sign-in attempts for %s", email)
		return nil, ErrTooManyAttempts
	}

	acct, err := db.GetAccountByEmail(p.DB, email)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &Session{UserID: acct.ID, Email: acct.Email, Token: uuid.NewString(), CreatedAt: time.Now()}, nil
}

// SignOut only forgets the in-memory token; local sessions are not stored.
func (p *LocalProvider) SignOut(ctx context.Context, s *Session) error {
	if s != nil {
		s.Token = ""
	}
	return nil
}
