package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/ports"
)

type stubCredentialRepo struct {
	byIdentity map[string]*domain.Credential
	touchErr   error
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{byIdentity: make(map[string]*domain.Credential)}
}

func cloneCredential(c *domain.Credential) *domain.Credential {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func (r *stubCredentialRepo) Create(_ context.Context, cred *domain.Credential) (*domain.Credential, error) {
	if _, exists := r.byIdentity[cred.IdentityKey]; exists {
		return nil, domain.ErrDuplicateIdentity
	}
	for _, c := range r.byIdentity {
		if c.LoginHandle == cred.LoginHandle {
			return nil, domain.ErrDuplicateHandle
		}
	}
	r.byIdentity[cred.IdentityKey] = cloneCredential(cred)
	return cloneCredential(cred), nil
}

func (r *stubCredentialRepo) FindByHandle(_ context.Context, handle string) (*domain.Credential, error) {
	for _, c := range r.byIdentity {
		if c.LoginHandle == handle {
			return cloneCredential(c), nil
		}
	}
	return nil, domain.ErrCredentialNotFound
}

func (r *stubCredentialRepo) FindByIdentityKey(_ context.Context, id string) (*domain.Credential, error) {
	if c, ok := r.byIdentity[id]; ok {
		return cloneCredential(c), nil
	}
	return nil, domain.ErrCredentialNotFound
}

func (r *stubCredentialRepo) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.Credential, error) {
	c, ok := r.byIdentity[id]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	c.Role = role
	return cloneCredential(c), nil
}

func (r *stubCredentialRepo) UpdateActive(_ context.Context, id string, active bool) (*domain.Credential, error) {
	c, ok := r.byIdentity[id]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	c.Active = active
	return cloneCredential(c), nil
}

func (r *stubCredentialRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	c, ok := r.byIdentity[id]
	if !ok {
		return domain.ErrCredentialNotFound
	}
	c.PasswordHash = hash
	return nil
}

func (r *stubCredentialRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	if r.touchErr != nil {
		return r.touchErr
	}
	c, ok := r.byIdentity[id]
	if !ok {
		return domain.ErrCredentialNotFound
	}
	c.LastLoginAt = &at
	return nil
}

func newAuthFixture() (*stubCredentialRepo, *TokenManager, *AuthService) {
	repo := newStubCredentialRepo()
	tokens := NewTokenManager("secret", "", time.Hour)
	return repo, tokens, NewAuthService(repo, tokens, MinBcryptCost, zerolog.Nop())
}

func register(t *testing.T, svc *AuthService, id, handle, password string, role domain.Role) *domain.Credential {
	t.Helper()
	cred, err := svc.Register(context.Background(), ports.RegisterInput{
		IdentityKey: id, LoginHandle: handle, RawPassword: password, Role: role,
		ActorRole: domain.RoleAdministrator,
	})
	if err != nil {
		t.Fatalf("register %q failed: %v", handle, err)
	}
	return cred
}

func TestAuthService_Register_Success(t *testing.T) {
	_, _, svc := newAuthFixture()

	cred := register(t, svc, "ID-1", "alice", "pass123", domain.RoleOwner)

	if cred.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if cost, _ := bcrypt.Cost([]byte(cred.PasswordHash)); cost < MinBcryptCost {
		t.Fatalf("expected bcrypt cost >= %d, got %d", MinBcryptCost, cost)
	}
	if !cred.Active || cred.Role != domain.RoleOwner || cred.LastLoginAt != nil {
		t.Fatalf("unexpected credential: %+v", cred)
	}
}

func TestAuthService_Register_DefaultsToSalesperson(t *testing.T) {
	_, _, svc := newAuthFixture()

	cred := register(t, svc, "ID-1", "bob", "secret1", "")
	if cred.Role != domain.RoleSalesperson {
		t.Fatalf("expected salesperson, got %s", cred.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	_, _, svc := newAuthFixture()

	cases := []struct {
		name string
		in   ports.RegisterInput
		want error
	}{
		{"short handle", ports.RegisterInput{IdentityKey: "ID-1", LoginHandle: "ab", RawPassword: "secret1"}, domain.ErrInvalidHandle},
		{"long handle", ports.RegisterInput{IdentityKey: "ID-1", LoginHandle: string(make([]byte, 51)), RawPassword: "secret1"}, domain.ErrInvalidHandle},
		{"short password", ports.RegisterInput{IdentityKey: "ID-1", LoginHandle: "carol", RawPassword: "12345"}, domain.ErrWeakPassword},
		{"password over 72 bytes", ports.RegisterInput{IdentityKey: "ID-1", LoginHandle: "carol", RawPassword: strings.Repeat("a", 73)}, domain.ErrPasswordTooLong},
		{"bad role", ports.RegisterInput{IdentityKey: "ID-1", LoginHandle: "carol", RawPassword: "secret1", Role: "root"}, domain.ErrInvalidRole},
		{"blank identity", ports.RegisterInput{IdentityKey: "  ", LoginHandle: "carol", RawPassword: "secret1"}, domain.ErrInvalidIdentityKey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthService_Register_72BytePasswordAccepted(t *testing.T) {
	_, _, svc := newAuthFixture()
	pass := strings.Repeat("a", domain.MaxPasswordBytes)
	register(t, svc, "ID-1", "dora", pass, "")

	if _, err := svc.Login(context.Background(), "dora", pass); err != nil {
		t.Fatalf("login with 72-byte password: %v", err)
	}
}

func TestAuthService_Register_ElevatedRoleRequiresAdministrator(t *testing.T) {
	_, _, svc := newAuthFixture()

	for _, actor := range []domain.Role{"", domain.RoleSalesperson, domain.RoleOwner} {
		for _, role := range []domain.Role{domain.RoleAdministrator, domain.RoleOwner} {
			_, err := svc.Register(context.Background(), ports.RegisterInput{
				IdentityKey: "ID-X", LoginHandle: "mallory", RawPassword: "secret1",
				Role: role, ActorRole: actor,
			})
			if !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("actor %q registering %q: expected ErrForbidden, got %v", actor, role, err)
			}
		}
	}

	cred, err := svc.Register(context.Background(), ports.RegisterInput{
		IdentityKey: "ID-Y", LoginHandle: "sally", RawPassword: "secret1",
	})
	if err != nil {
		t.Fatalf("anonymous default registration: %v", err)
	}
	if cred.Role != DefaultRole {
		t.Fatalf("expected %s, got %s", DefaultRole, cred.Role)
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	repo, _, svc := newAuthFixture()

	if err := svc.EnsureAdmin(context.Background(), "ID-ROOT", "root", "rootpass"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	if err := svc.EnsureAdmin(context.Background(), "ID-ROOT-2", "root", "otherpass"); err != nil {
		t.Fatalf("second ensure admin must be a no-op: %v", err)
	}
	if len(repo.byIdentity) != 1 || repo.byIdentity["ID-ROOT"].Role != domain.RoleAdministrator {
		t.Fatalf("unexpected credentials: %+v", repo.byIdentity)
	}
	if _, err := svc.Login(context.Background(), "root", "rootpass"); err != nil {
		t.Fatalf("bootstrap admin cannot log in: %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	_, _, svc := newAuthFixture()
	register(t, svc, "ID-1", "bob", "secret1", "")

	_, err := svc.Register(context.Background(), ports.RegisterInput{IdentityKey: "ID-2", LoginHandle: "bob", RawPassword: "secret2"})
	if !errors.Is(err, domain.ErrDuplicateHandle) {
		t.Fatalf("expected ErrDuplicateHandle, got %v", err)
	}
	_, err = svc.Register(context.Background(), ports.RegisterInput{IdentityKey: "ID-1", LoginHandle: "bobby", RawPassword: "secret2"})
	if !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestAuthService_Scenario_AdminLogin(t *testing.T) {
	repo, tokens, svc := newAuthFixture()
	register(t, svc, "ID-ADMIN", "admin", "admin123", domain.RoleAdministrator)

	if _, err := svc.Login(context.Background(), "admin", "wrongpass"); domain.KindOf(err) != domain.KindAuthentication {
		t.Fatalf("expected authentication error, got %v", err)
	}

	res, err := svc.Login(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Role != domain.RoleAdministrator || claims.IdentityKey() != "ID-ADMIN" || claims.Handle != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if res.Credential.LastLoginAt == nil {
		t.Fatal("expected last login to be refreshed")
	}
	if repo.byIdentity["ID-ADMIN"].LastLoginAt == nil {
		t.Fatal("last login not persisted")
	}
}

func TestAuthService_RegisterThenLogin_RoundTrip(t *testing.T) {
	_, tokens, svc := newAuthFixture()

	pairs := []struct{ handle, password string }{
		{"abc", "123456"},
		{"maria.lopez", "correct horse battery"},
		{"ñandú", "contraseña"},
		{"user_with_fifty_characters_handle_xxxxxxxxxxxxxxx", "p@ss!!"},
	}
	for i, p := range pairs {
		id := string(rune('A' + i))
		register(t, svc, id, p.handle, p.password, domain.RoleSalesperson)

		res, err := svc.Login(context.Background(), p.handle, p.password)
		if err != nil {
			t.Fatalf("%q: login failed: %v", p.handle, err)
		}
		claims, err := tokens.Verify(res.Token)
		if err != nil || claims.IdentityKey() != id {
			t.Fatalf("%q: token verify: claims=%+v err=%v", p.handle, claims, err)
		}
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	_, _, svc := newAuthFixture()
	register(t, svc, "ID-1", "dave", "goodpass", "")
	register(t, svc, "ID-2", "erin", "goodpass", "")
	if _, err := svc.ChangeActivation(context.Background(), "ID-2", false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, wrongPassword := svc.Login(context.Background(), "dave", "badpass")
	_, inactive := svc.Login(context.Background(), "erin", "goodpass")
	_, unknown := svc.Login(context.Background(), "ghost", "goodpass")

	for name, err := range map[string]error{"wrong password": wrongPassword, "inactive": inactive, "unknown": unknown} {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", name, err)
			continue
		}
		if err.Error() != wrongPassword.Error() {
			t.Errorf("%s: message %q differs from %q", name, err.Error(), wrongPassword.Error())
		}
	}
}

func TestAuthService_Login_TouchFailureIsNotFatal(t *testing.T) {
	repo, _, svc := newAuthFixture()
	register(t, svc, "ID-1", "frank", "goodpass", "")
	repo.touchErr = errors.New("mongo unavailable")

	res, err := svc.Login(context.Background(), "frank", "goodpass")
	if err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if res.Token == "" {
		t.Fatal("expected token")
	}
	if res.Credential.LastLoginAt != nil {
		t.Fatal("last login must not be reported as refreshed")
	}
}

func TestAuthService_ChangeRole(t *testing.T) {
	_, _, svc := newAuthFixture()
	register(t, svc, "ID-1", "gina", "goodpass", "")

	cred, err := svc.ChangeRole(context.Background(), "ID-1", domain.RoleAdministrator)
	if err != nil || cred.Role != domain.RoleAdministrator {
		t.Fatalf("change role: cred=%+v err=%v", cred, err)
	}
	if _, err := svc.ChangeRole(context.Background(), "ID-1", "superuser"); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.ChangeRole(context.Background(), "nobody", domain.RoleOwner); !errors.Is(err, domain.ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}
}

func TestAuthService_ChangeActivation_ReactivatedCanLogin(t *testing.T) {
	_, _, svc := newAuthFixture()
	register(t, svc, "ID-1", "hank", "goodpass", "")

	if _, err := svc.ChangeActivation(context.Background(), "ID-1", false); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(context.Background(), "hank", "goodpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("inactive login: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.ChangeActivation(context.Background(), "ID-1", true); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(context.Background(), "hank", "goodpass"); err != nil {
		t.Fatalf("reactivated login failed: %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	_, _, svc := newAuthFixture()
	register(t, svc, "ID-1", "ivy", "oldpass", "")

	if err := svc.ChangePassword(context.Background(), "ID-1", "wrong", "newpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), "ID-1", "oldpass", "123"); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), "ID-1", "oldpass", strings.Repeat("a", 73)); !errors.Is(err, domain.ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if domain.KindOf(domain.ErrPasswordTooLong) != domain.KindValidation {
		t.Fatal("a too-long password must be a validation error")
	}
	if err := svc.ChangePassword(context.Background(), "ID-1", "oldpass", "newpass"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.Login(context.Background(), "ivy", "oldpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatal("old password must stop working")
	}
	if _, err := svc.Login(context.Background(), "ivy", "newpass"); err != nil {
		t.Fatalf("new password login failed: %v", err)
	}
}

func TestAuthService_Profile(t *testing.T) {
	_, _, svc := newAuthFixture()
	register(t, svc, "ID-1", "jack", "goodpass", domain.RoleOwner)

	cred, err := svc.Profile(context.Background(), "ID-1")
	if err != nil || cred.LoginHandle != "jack" {
		t.Fatalf("profile: cred=%+v err=%v", cred, err)
	}
	if _, err := svc.Profile(context.Background(), "ID-2"); !errors.Is(err, domain.ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}
}
