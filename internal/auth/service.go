// Package auth signs users in and out and tells subscribers about it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/mail"
	"strings"
	"sync"
	"time"

	"verideal_back_end/internal/cache"
	"verideal_back_end/internal/models"
	"verideal_back_end/internal/store"
	"verideal_back_end/internal/utils"

	"github.com/google/uuid"
)

const (
	LoginMaxAttempts = 5
	LoginCooldown    = 15 * time.Minute
	minPasswordLen   = 6
)

// ErrTooManyAttempts carries how long the caller must wait.
type ErrTooManyAttempts struct {
	RetryAfter time.Duration
}

func (e *ErrTooManyAttempts) Error() string {
	return fmt.Sprintf("too many failed attempts, try again in %d minutes", int(e.RetryAfter.Minutes())+1)
}

type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
	SendWelcome(ctx context.Context, email, name string) error
}

type AvatarUploader interface {
	Upload(ctx context.Context, userID string, r io.Reader, size int64, contentType string) (string, error)
}

// Subscriber receives every sign-in and sign-out.
type Subscriber func(ctx context.Context, ev models.AuthEvent)

// Session is what a successful sign-in returns to the client.
type Session struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type Options struct {
	Secret   []byte
	TokenTTL time.Duration
	OTPTTL   time.Duration
}

type Service struct {
	users    store.UserStore
	profiles store.ProfileStore
	cache    *cache.Store
	mailer   Mailer
	avatars  AvatarUploader
	opts     Options

	mu      sync.RWMutex
	subs    map[int]Subscriber
	nextSub int
}

func NewService(users store.UserStore, profiles store.ProfileStore, c *cache.Store, mailer Mailer, avatars AvatarUploader, opts Options) *Service {
	return &Service{
		users:    users,
		profiles: profiles,
		cache:    c,
		mailer:   mailer,
		avatars:  avatars,
		opts:     opts,
		subs:     make(map[int]Subscriber),
	}
}

//
// --- SUBSCRIPTIONS ---
//

// Subscribe registers fn and returns a function that removes it.
func (s *Service) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Service) publish(ctx context.Context, ev models.AuthEvent) {
	s.mu.RLock()
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(ctx, ev)
	}
}

//
// --- SIGN UP / SIGN IN ---
//

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (s *Service) SignUp(ctx context.Context, email, password, name string) (Session, error) {
	email = normalizeEmail(email)
	if !validEmail(email) || len(password) < minPasswordLen {
		return Session{}, models.ErrInvalidInput
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  hash,
		Provider:  "local",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.createAccount(ctx, user, strings.TrimSpace(name)); err != nil {
		return Session{}, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(ctx, email, name); err != nil {
			log.Printf("⚠️ Welcome email to %s failed: %v", email, err)
		}
	}
	log.Printf("✅ New account: %s", email)
	return s.issue(ctx, user)
}

func (s *Service) createAccount(ctx context.Context, user models.User, name string) error {
	if err := s.users.CreateUser(ctx, user); err != nil {
		return err
	}
	if _, err := s.profiles.UpsertProfile(ctx, models.Profile{UserID: user.ID, Email: user.Email, Name: name}); err != nil {
		log.Printf("⚠️ Profile row for %s not created: %v", user.ID, err)
	}
	return nil
}

func loginKey(email string) string {
	return "login_attempts:" + email
}

// SignIn checks the password. After LoginMaxAttempts failures the email is
// locked for LoginCooldown.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	key := loginKey(email)

	attempts, err := s.cache.GetRateLimit(ctx, key)
	if err != nil {
		log.Printf("⚠️ Login rate limit read failed: %v", err)
	}
	if attempts >= LoginMaxAttempts {
		return Session{}, &ErrTooManyAttempts{RetryAfter: s.cache.RateLimitTTL(ctx, key)}
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return Session{}, err
	}
	ok := false
	if err == nil && user.Password != "" {
		ok, _ = utils.VerifyPassword(password, user.Password)
	}
	if !ok {
		if _, err := s.cache.IncrementRateLimit(ctx, key, LoginCooldown); err != nil {
			log.Printf("⚠️ Login rate limit update failed: %v", err)
		}
		return Session{}, models.ErrInvalidCredentials
	}

	s.cache.ResetRateLimit(ctx, key)
	return s.issue(ctx, user)
}

//
// --- ONE-TIME CODES ---
//

func (s *Service) RequestOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return models.ErrInvalidInput
	}
	if s.mailer == nil {
		return fmt.Errorf("otp mailer: %w", models.ErrNotConfigured)
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return err
	}
	if err := s.cache.StoreOTP(ctx, email, code, s.opts.OTPTTL); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	log.Printf("📧 Sign-in code sent to %s", email)
	return nil
}

// VerifyOTP consumes the pending code. The account is created on first use.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (Session, error) {
	email = normalizeEmail(email)
	stored, err := s.cache.ConsumeOTP(ctx, email)
	if err != nil {
		return Session{}, fmt.Errorf("read otp: %w", err)
	}
	if stored == "" || stored != strings.TrimSpace(code) {
		return Session{}, models.ErrInvalidCredentials
	}

	user, err := s.findOrCreate(ctx, email, "otp", "", "")
	if err != nil {
		return Session{}, err
	}
	return s.issue(ctx, user)
}

// CompleteOAuth signs in the user returned by an OAuth provider.
func (s *Service) CompleteOAuth(ctx context.Context, provider, providerID, email, name string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" {
		return Session{}, fmt.Errorf("%s returned no email: %w", provider, models.ErrInvalidInput)
	}
	user, err := s.findOrCreate(ctx, email, provider, providerID, name)
	if err != nil {
		return Session{}, err
	}
	return s.issue(ctx, user)
}

func (s *Service) findOrCreate(ctx context.Context, email, provider, providerID, name string) (models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return models.User{}, err
	}

	user = models.User{
		ID:         uuid.NewString(),
		Email:      email,
		Provider:   provider,
		ProviderID: providerID,
		CreatedAt:  time.Now().UTC(),
	}
	err = s.createAccount(ctx, user, name)
	if errors.Is(err, models.ErrDuplicateEntry) {
		// lost a race with a concurrent first sign-in
		return s.users.GetUserByEmail(ctx, email)
	}
	if err != nil {
		return models.User{}, err
	}
	log.Printf("✅ New %s account: %s", provider, email)
	return user, nil
}

//
// --- SESSIONS ---
//

func (s *Service) issue(ctx context.Context, user models.User) (Session, error) {
	token, claims, err := utils.GenerateJWT(s.opts.Secret, user, s.opts.TokenTTL)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	s.publish(ctx, models.AuthEvent{Type: models.AuthSignedIn, UserID: user.ID})
	return Session{Token: token, User: user, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Session validates a bearer token: signature, expiry and revocation.
func (s *Service) Session(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := utils.ParseJWT(s.opts.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrAuthRequired, err)
	}
	if s.cache.IsTokenBlacklisted(ctx, claims.ID) {
		return nil, models.ErrTokenRevoked
	}
	return claims, nil
}

// SignOut revokes the token until it would have expired anyway.
func (s *Service) SignOut(ctx context.Context, claims *utils.Claims) error {
	if claims == nil {
		return models.ErrAuthRequired
	}
	if err := s.cache.BlacklistToken(ctx, claims.ID, claims.Remaining(time.Now())); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.publish(ctx, models.AuthEvent{Type: models.AuthSignedOut, UserID: claims.UserID})
	log.Printf("👋 %s signed out", claims.UserID)
	return nil
}

func (s *Service) User(ctx context.Context, userID string) (models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
