package repository

import (
	"context"

	"github.com/taskboard/backend/domain"
)

type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	Extend(ctx context.Context, id string, ttlSeconds int) error
}

// LoginThrottle tracks failed sign-in attempts per identity so repeated
// failures can be rejected before hitting the password check.
type LoginThrottle interface {
	Hit(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}
