package session

import (
	"github.com/taskboard/backend/domain"
	authUC "github.com/taskboard/backend/usecase/auth"
)

// AuthSource adapts the auth use case's event stream to the provider's
// subscription shape.
func AuthSource(uc *authUC.UseCase) SubscribeFunc {
	return func(fn func(user *domain.User)) func() {
		return uc.Subscribe(func(e authUC.Event) { fn(e.User) })
	}
}
