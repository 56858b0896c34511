package resolver

import (
	"context"
	"errors"

	"login-service/internal/auth"
	"login-service/internal/user"
)

// DefaultRole is assigned to auto-provisioned federated accounts.
const DefaultRole = "user"

// StoreResolver resolves identities against the user store.
type StoreResolver struct {
	users user.Store
}

func NewStoreResolver(users user.Store) *StoreResolver {
	return &StoreResolver{users: users}
}

func (r *StoreResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (user.User, error) {

	if identity == nil {
		return user.User{}, errors.New("identity is nil")
	}

	// 1. Try identity lookup (provider + provider_user_id)
	u, err := r.users.FindByProvider(ctx, identity.Provider, identity.ProviderUserID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, err
	}

	// 2. Try email-based linking (existing user, new provider)
	u, err = r.users.FindByEmail(ctx, identity.Email)
	if err == nil {
		// Link new identity to existing user
		if err := r.users.LinkProvider(
			ctx,
			u.ID,
			identity.Provider,
			identity.ProviderUserID,
		); err != nil {
			return user.User{}, err
		}
		return u, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, err
	}

	// 3. Create new user with the identity mapping attached
	return r.users.CreateFederated(
		ctx,
		user.FederatedUser{
			Email: identity.Email,
			Name:  identity.Name,
			Image: identity.Picture,
			Role:  DefaultRole,
		},
		identity.Provider,
		identity.ProviderUserID,
	)
}
