package composables

import (
	"context"
	"errors"

	"github.com/cleanops/erp-sdk/modules/core/domain/entities/policy"
	"github.com/cleanops/erp-sdk/pkg/constants"
)

var ErrNoUserFound = errors.New("no user context found")

// WithUser attaches the per-request user context. Built once by the caller
// after authentication; the authorization core never reads session state.
func WithUser(ctx context.Context, user policy.UserContext) context.Context {
	return context.WithValue(ctx, constants.UserKey, user)
}

func UseUser(ctx context.Context) (policy.UserContext, error) {
	user, ok := ctx.Value(constants.UserKey).(policy.UserContext)
	if !ok {
		return policy.UserContext{}, ErrNoUserFound
	}
	return user, nil
}
