package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard/backend/domain"
	"github.com/taskboard/backend/repository"
)

// Event is delivered to auth-state listeners. User is nil when signed out.
type Event struct {
	User *domain.User
}

// Config carries token and throttle settings.
type Config struct {
	JWTSecret       string
	JWTIssuer       string
	SessionTTL      time.Duration
	MaxLoginRetries int
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	throttle repository.LoginThrottle
	cfg      Config
	logger   *zap.Logger

	mu        sync.Mutex
	current   *domain.User
	listeners map[int]func(Event)
	nextID    int
}

func New(users repository.UserRepository, sessions repository.SessionRepository, throttle repository.LoginThrottle, cfg Config, logger *zap.Logger) *UseCase {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.MaxLoginRetries <= 0 {
		cfg.MaxLoginRetries = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:     users,
		sessions:  sessions,
		throttle:  throttle,
		cfg:       cfg,
		logger:    logger,
		listeners: make(map[int]func(Event)),
	}
}

// SignIn verifies the credential pair and opens a session. Failures are
// typed: unknown identity, invalid credential, or throttled.
func (uc *UseCase) SignIn(ctx context.Context, email, password string) (*domain.Session, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	if uc.throttle != nil {
		attempts, err := uc.throttle.Hit(ctx, email)
		if err != nil {
			uc.logger.Warn("login throttle unavailable", zap.Error(err))
		} else if attempts > uc.cfg.MaxLoginRetries {
			return nil, "", domain.ErrTooManyAttempts
		}
	}

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	if uc.throttle != nil {
		_ = uc.throttle.Reset(ctx, email)
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(uc.cfg.SessionTTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, "", domain.WrapError(domain.ErrCodeRemoteFailure, "save session failed", err)
	}

	token, err := uc.issueToken(user, session)
	if err != nil {
		return nil, "", domain.WrapError(domain.ErrCodeInternal, "sign token failed", err)
	}

	uc.publish(user)
	uc.logger.Info("user signed in", zap.String("user_id", user.ID))
	return session, token, nil
}

// SignOut revokes the session and notifies auth-state listeners.
func (uc *UseCase) SignOut(ctx context.Context, sessionID string) error {
	if sessionID != "" {
		if err := uc.sessions.Delete(ctx, sessionID); err != nil {
			return err
		}
	}
	uc.publish(nil)
	return nil
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*domain.Session, error) {
	if ttl <= 0 {
		ttl = uc.cfg.SessionTTL
	}
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(ttl)
	return session, nil
}

// CurrentUser returns the most recent signed-in identity, nil when signed
// out.
func (uc *UseCase) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return uc.users.GetByID(ctx, userID)
}

// Subscribe registers an auth-state listener. The current state is
// delivered immediately, mirroring the first notification the session
// provider waits for. The returned function releases the subscription.
func (uc *UseCase) Subscribe(fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}

	uc.mu.Lock()
	id := uc.nextID
	uc.nextID++
	uc.listeners[id] = fn
	current := uc.current
	uc.mu.Unlock()

	fn(Event{User: current})

	return func() {
		uc.mu.Lock()
		delete(uc.listeners, id)
		uc.mu.Unlock()
	}
}

func (uc *UseCase) publish(user *domain.User) {
	uc.mu.Lock()
	uc.current = user
	fns := make([]func(Event), 0, len(uc.listeners))
	for _, fn := range uc.listeners {
		fns = append(fns, fn)
	}
	uc.mu.Unlock()

	for _, fn := range fns {
		fn(Event{User: user})
	}
}

func (uc *UseCase) issueToken(user *domain.User, session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    user.ID,
		"session_id": session.ID,
		"iss":        uc.cfg.JWTIssuer,
		"iat":        time.Now().Unix(),
		"exp":        session.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(uc.cfg.JWTSecret))
}
