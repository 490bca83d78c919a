package ports

import (
	"context"
	"time"

	"github.com/propertyhub/backoffice/internal/core/domain"
)

// CredentialRepository defines persistence for login credentials.
// Lookups return domain.ErrCredentialNotFound when nothing matches.
type CredentialRepository interface {
	// Create stores a new credential. Returns domain.ErrDuplicateHandle or
	// domain.ErrDuplicateIdentity on uniqueness conflicts.
	Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error)
	FindByHandle(ctx context.Context, handle string) (*domain.Credential, error)
	FindByIdentityKey(ctx context.Context, identityKey string) (*domain.Credential, error)
	UpdateRole(ctx context.Context, identityKey string, role domain.Role) (*domain.Credential, error)
	UpdateActive(ctx context.Context, identityKey string, active bool) (*domain.Credential, error)
	UpdatePasswordHash(ctx context.Context, identityKey, hash string) error
	TouchLastLogin(ctx context.Context, identityKey string, at time.Time) error
}
