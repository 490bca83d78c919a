package ports

import (
	"context"

	"github.com/propertyhub/backoffice/internal/core/domain"
)

// RegisterInput carries a registration request. RawPassword is discarded
// after hashing.
type RegisterInput struct {
	IdentityKey string
	LoginHandle string
	RawPassword string
	Role        domain.Role
	// ActorRole is the role of the authenticated caller, empty when anonymous.
	// Any role other than the default requires an administrator.
	ActorRole domain.Role
}

// LoginResult is returned by a successful authentication.
type LoginResult struct {
	Token      string
	Credential *domain.Credential
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Credential, error)
	// EnsureAdmin creates the bootstrap administrator unless the handle exists.
	EnsureAdmin(ctx context.Context, identityKey, handle, rawPassword string) error
	Login(ctx context.Context, handle, rawPassword string) (*LoginResult, error)
	Profile(ctx context.Context, identityKey string) (*domain.Credential, error)
	ChangeRole(ctx context.Context, identityKey string, role domain.Role) (*domain.Credential, error)
	ChangeActivation(ctx context.Context, identityKey string, active bool) (*domain.Credential, error)
	ChangePassword(ctx context.Context, identityKey, current, next string) error
}
