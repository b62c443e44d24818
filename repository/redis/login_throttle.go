package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/taskboard/backend/repository"
)

type loginThrottle struct {
	client *redislib.Client
	prefix string
	window time.Duration
}

// NewLoginThrottle counts failed sign-in attempts per key inside a rolling
// window. The counter expires with the window, so a quiet period clears it.
func NewLoginThrottle(client *redislib.Client, window time.Duration) repository.LoginThrottle {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &loginThrottle{
		client: client,
		prefix: "login_attempts:",
		window: window,
	}
}

func (t *loginThrottle) Hit(ctx context.Context, key string) (int, error) {
	redisKey := t.key(key)

	count, err := t.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		// first failure in the window starts the expiry clock
		if err := t.client.Expire(ctx, redisKey, t.window).Err(); err != nil {
			return int(count), err
		}
	}
	return int(count), nil
}

func (t *loginThrottle) Reset(ctx context.Context, key string) error {
	return t.client.Del(ctx, t.key(key)).Err()
}

func (t *loginThrottle) key(key string) string {
	return fmt.Sprintf("%s%s", t.prefix, key)
}
