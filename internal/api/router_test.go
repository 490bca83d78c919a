package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/propertyhub/backoffice/internal/api/handler"
	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/ports"
	"github.com/propertyhub/backoffice/internal/core/service"
)

type routerCreds map[string]*domain.Credential

func (r routerCreds) FindByIdentityKey(_ context.Context, identityKey string) (*domain.Credential, error) {
	if c, ok := r[identityKey]; ok {
		return c, nil
	}
	return nil, domain.ErrCredentialNotFound
}

func (r routerCreds) FindByHandle(_ context.Context, handle string) (*domain.Credential, error) {
	for _, c := range r {
		if c.LoginHandle == handle {
			return c, nil
		}
	}
	return nil, domain.ErrCredentialNotFound
}

func (r routerCreds) Create(_ context.Context, cred *domain.Credential) (*domain.Credential, error) {
	if _, ok := r[cred.IdentityKey]; ok {
		return nil, domain.ErrDuplicateIdentity
	}
	r[cred.IdentityKey] = cred
	return cred, nil
}

func (r routerCreds) UpdateRole(context.Context, string, domain.Role) (*domain.Credential, error) {
	return nil, errors.New("not used")
}

func (r routerCreds) UpdateActive(context.Context, string, bool) (*domain.Credential, error) {
	return nil, errors.New("not used")
}

func (r routerCreds) UpdatePasswordHash(context.Context, string, string) error {
	return errors.New("not used")
}

func (r routerCreds) TouchLastLogin(context.Context, string, time.Time) error { return nil }

// routerSales answers every read with an empty result.
type routerSales struct{ ports.SaleService }

func (routerSales) ListSales(context.Context, ports.ListSalesFilter) ([]*domain.Sale, error) {
	return []*domain.Sale{}, nil
}

func (routerSales) DeleteSale(context.Context, int64, string) (bool, error) {
	return true, nil
}

type routerFixture struct {
	srv    http.Handler
	tokens *service.TokenManager
	creds  routerCreds
}

func newRouterFixture() *routerFixture {
	tokens := service.NewTokenManager("router-secret", "", time.Hour)
	creds := routerCreds{
		"ID-ADMIN": {IdentityKey: "ID-ADMIN", LoginHandle: "admin", Role: domain.RoleAdministrator, Active: true},
		"ID-SALES": {IdentityKey: "ID-SALES", LoginHandle: "sam", Role: domain.RoleSalesperson, Active: true},
		"ID-OWNER": {IdentityKey: "ID-OWNER", LoginHandle: "olga", Role: domain.RoleOwner, Active: true},
	}
	e := NewRouter(Deps{
		Log:    zerolog.Nop(),
		Auth:   service.NewAuthService(creds, tokens, service.MinBcryptCost, zerolog.Nop()),
		Sales:  routerSales{},
		Tokens: tokens,
		Creds:  creds,
		Checks: map[string]handler.PingFunc{
			"postgres": func(context.Context) error { return nil },
		},
	})
	return &routerFixture{srv: e, tokens: tokens, creds: creds}
}

func (f *routerFixture) do(t *testing.T, method, path, identityKey string) *httptest.ResponseRecorder {
	t.Helper()
	return f.doJSON(t, method, path, identityKey, "")
}

func (f *routerFixture) doJSON(t *testing.T, method, path, identityKey, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if identityKey != "" {
		tok, err := f.tokens.Issue(f.creds[identityKey])
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicProbes(t *testing.T) {
	f := newRouterFixture()
	for _, path := range []string{"/health", "/health/ready"} {
		if rec := f.do(t, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
	rec := f.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "realestate_") {
		t.Fatalf("expected metrics exposition, got %d", rec.Code)
	}
}

func TestRouter_SalesRequireToken(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodGet, "/sales", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}

	if rec := f.do(t, http.MethodGet, "/sales", "ID-OWNER"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for authenticated read, got %d", rec.Code)
	}
}

func TestRouter_RoleGates(t *testing.T) {
	f := newRouterFixture()

	tests := []struct {
		name     string
		method   string
		path     string
		identity string
		want     int
	}{
		{"salesperson cannot delete sales", http.MethodDelete, "/sales/1", "ID-SALES", http.StatusForbidden},
		{"administrator deletes sales", http.MethodDelete, "/sales/1", "ID-ADMIN", http.StatusOK},
		{"owner cannot create sales", http.MethodPost, "/sales", "ID-OWNER", http.StatusForbidden},
		{"salesperson cannot override availability", http.MethodPatch, "/properties/1/availability", "ID-SALES", http.StatusForbidden},
		{"salesperson cannot change roles", http.MethodPatch, "/auth/credentials/ID-OWNER/role", "ID-SALES", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := f.do(t, tt.method, tt.path, tt.identity); rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_DeactivatedCredentialRejected(t *testing.T) {
	f := newRouterFixture()
	f.creds["ID-GONE"] = &domain.Credential{IdentityKey: "ID-GONE", LoginHandle: "gone", Role: domain.RoleAdministrator, Active: true}
	tok, err := f.tokens.Issue(f.creds["ID-GONE"])
	if err != nil {
		t.Fatal(err)
	}
	f.creds["ID-GONE"].Active = false

	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_RegisterRoleGate(t *testing.T) {
	f := newRouterFixture()

	rec := f.doJSON(t, http.MethodPost, "/auth/register", "",
		`{"identityKey":"ID-EVE","loginHandle":"eve","password":"secret1","role":"administrator"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("anonymous administrator registration: expected 403, got %d", rec.Code)
	}
	if _, ok := f.creds["ID-EVE"]; ok {
		t.Fatal("rejected registration must not be stored")
	}

	rec = f.doJSON(t, http.MethodPost, "/auth/register", "ID-SALES",
		`{"identityKey":"ID-EVE","loginHandle":"eve","password":"secret1","role":"owner"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("salesperson registering an owner: expected 403, got %d", rec.Code)
	}

	rec = f.doJSON(t, http.MethodPost, "/auth/register", "",
		`{"identityKey":"ID-NEW","loginHandle":"newbie","password":"secret1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("anonymous default registration: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.creds["ID-NEW"].Role != domain.RoleSalesperson {
		t.Fatalf("expected salesperson, got %s", f.creds["ID-NEW"].Role)
	}

	rec = f.doJSON(t, http.MethodPost, "/auth/register", "ID-ADMIN",
		`{"identityKey":"ID-ADM2","loginHandle":"second","password":"secret1","role":"administrator"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("administrator creating an administrator: expected 201, got %d", rec.Code)
	}
}
