package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/ports"
	"github.com/propertyhub/backoffice/internal/pkg/metrics"
)

// MinBcryptCost is the lowest cost factor accepted for password hashes.
const MinBcryptCost = 10

// DefaultRole is assigned on registration when no role is requested. It is
// the only role an anonymous caller may register.
const DefaultRole = domain.RoleSalesperson

// AuthService implements registration, login and credential administration.
type AuthService struct {
	repo   ports.CredentialRepository
	tokens *TokenManager
	cost   int
	log    zerolog.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(repo ports.CredentialRepository, tokens *TokenManager, cost int, log zerolog.Logger) *AuthService {
	if cost < MinBcryptCost {
		cost = MinBcryptCost
	}
	return &AuthService{repo: repo, tokens: tokens, cost: cost, log: log, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Credential, error) {
	identity := strings.TrimSpace(in.IdentityKey)
	if identity == "" {
		return nil, domain.ErrInvalidIdentityKey
	}
	if err := domain.ValidateHandle(in.LoginHandle); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(in.RawPassword); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = DefaultRole
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if role != DefaultRole && in.ActorRole != domain.RoleAdministrator {
		return nil, domain.ErrForbidden
	}

	hash, err := s.hash(in.RawPassword)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Credential{
		IdentityKey:  identity,
		LoginHandle:  in.LoginHandle,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("identity_key", created.IdentityKey).Str("role", string(created.Role)).Msg("credential registered")
	return created, nil
}

// Login authenticates against active credentials only. Unknown handle,
// inactive credential and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, handle, rawPassword string) (*ports.LoginResult, error) {
	if handle == "" || rawPassword == "" {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	cred, err := s.repo.FindByHandle(ctx, handle)
	switch {
	case errors.Is(err, domain.ErrCredentialNotFound):
		s.burnCompare(rawPassword)
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(rawPassword)) != nil || !cred.Active {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.repo.TouchLastLogin(ctx, cred.IdentityKey, now); err != nil {
		s.log.Warn().Err(err).Str("identity_key", cred.IdentityKey).Msg("failed to refresh last login")
	} else {
		cred.LastLoginAt = &now
	}

	token, err := s.tokens.Issue(cred)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &ports.LoginResult{Token: token, Credential: cred}, nil
}

func (s *AuthService) Profile(ctx context.Context, identityKey string) (*domain.Credential, error) {
	return s.repo.FindByIdentityKey(ctx, identityKey)
}

func (s *AuthService) ChangeRole(ctx context.Context, identityKey string, role domain.Role) (*domain.Credential, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	cred, err := s.repo.UpdateRole(ctx, identityKey, role)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("identity_key", identityKey).Str("role", string(role)).Msg("credential role changed")
	return cred, nil
}

func (s *AuthService) ChangeActivation(ctx context.Context, identityKey string, active bool) (*domain.Credential, error) {
	cred, err := s.repo.UpdateActive(ctx, identityKey, active)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("identity_key", identityKey).Bool("active", active).Msg("credential activation changed")
	return cred, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, identityKey, current, next string) error {
	cred, err := s.repo.FindByIdentityKey(ctx, identityKey)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}
	if err := domain.ValidatePassword(next); err != nil {
		return err
	}

	hash, err := s.hash(next)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(ctx, identityKey, string(hash))
}

func (s *AuthService) EnsureAdmin(ctx context.Context, identityKey, handle, rawPassword string) error {
	_, err := s.repo.FindByHandle(ctx, handle)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrCredentialNotFound) {
		return err
	}
	_, err = s.Register(ctx, ports.RegisterInput{
		IdentityKey: identityKey,
		LoginHandle: handle,
		RawPassword: rawPassword,
		Role:        domain.RoleAdministrator,
		ActorRole:   domain.RoleAdministrator,
	})
	return err
}

// hash maps bcrypt's own input limit to the domain error so it never
// surfaces as an internal failure.
func (s *AuthService) hash(raw string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, domain.ErrPasswordTooLong
	}
	return hash, err
}

// burnCompare spends one bcrypt comparison so that unknown handles take about
// as long as wrong passwords.
func (s *AuthService) burnCompare(raw string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(raw))
}
