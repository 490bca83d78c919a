package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/ports"
)

type stubPropertyService struct {
	createOwnerFn    func(ctx context.Context, o domain.Owner) (*domain.Owner, error)
	createClientFn   func(ctx context.Context, c domain.Client) (*domain.Client, error)
	createPropertyFn func(ctx context.Context, in ports.CreatePropertyInput) (*domain.Property, error)
	getPropertyFn    func(ctx context.Context, id int64) (*domain.Property, error)
	listPropertiesFn func(ctx context.Context, a domain.Availability) ([]*domain.Property, error)
	transitionFn     func(ctx context.Context, id int64, a domain.Availability) (*domain.Property, error)
}

func (s *stubPropertyService) CreateOwner(ctx context.Context, o domain.Owner) (*domain.Owner, error) {
	return s.createOwnerFn(ctx, o)
}

func (s *stubPropertyService) GetOwner(ctx context.Context, identityKey string) (*domain.Owner, error) {
	return nil, domain.ErrOwnerNotFound
}

func (s *stubPropertyService) ListOwners(ctx context.Context) ([]*domain.Owner, error) {
	return nil, nil
}

func (s *stubPropertyService) CreateClient(ctx context.Context, c domain.Client) (*domain.Client, error) {
	return s.createClientFn(ctx, c)
}

func (s *stubPropertyService) GetClient(ctx context.Context, identityKey string) (*domain.Client, error) {
	return nil, domain.ErrClientNotFound
}

func (s *stubPropertyService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return []*domain.Client{}, nil
}

func (s *stubPropertyService) CreateProperty(ctx context.Context, in ports.CreatePropertyInput) (*domain.Property, error) {
	return s.createPropertyFn(ctx, in)
}

func (s *stubPropertyService) GetProperty(ctx context.Context, id int64) (*domain.Property, error) {
	return s.getPropertyFn(ctx, id)
}

func (s *stubPropertyService) ListProperties(ctx context.Context, a domain.Availability) ([]*domain.Property, error) {
	return s.listPropertiesFn(ctx, a)
}

func (s *stubPropertyService) Transition(ctx context.Context, id int64, a domain.Availability) (*domain.Property, error) {
	return s.transitionFn(ctx, id, a)
}

func TestPropertyHandler_CreateOwner(t *testing.T) {
	e := newTestEcho()
	stub := &stubPropertyService{
		createOwnerFn: func(ctx context.Context, o domain.Owner) (*domain.Owner, error) {
			if o.IdentityKey != "OW-1" || o.FullName != "Ana Ruiz" {
				t.Fatalf("unexpected owner %+v", o)
			}
			return &o, nil
		},
	}
	h := NewPropertyHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/owners", `{"identityKey":"OW-1","fullName":"Ana Ruiz","email":"ana@example.com"}`)
	if err := h.CreateOwner(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestPropertyHandler_CreateClient_InvalidEmail(t *testing.T) {
	e := newTestEcho()
	h := NewPropertyHandler(&stubPropertyService{})

	c, _ := jsonContext(e, http.MethodPost, "/clients", `{"identityKey":"CL-1","fullName":"Bo","email":"not-an-email"}`)
	assertHTTPStatus(t, h.CreateClient(c), http.StatusBadRequest)
}

func TestPropertyHandler_GetOwner_NotFound(t *testing.T) {
	e := newTestEcho()
	h := NewPropertyHandler(&stubPropertyService{})

	c, _ := jsonContext(e, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("OW-404")
	if err := h.GetOwner(c); !errors.Is(err, domain.ErrOwnerNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestPropertyHandler_ListClients_EmptyArray(t *testing.T) {
	e := newTestEcho()
	h := NewPropertyHandler(&stubPropertyService{})

	c, rec := jsonContext(e, http.MethodGet, "/clients", "")
	if err := h.ListClients(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if _, ok := decodeEnvelope(t, rec)["data"].([]any); !ok {
		t.Fatalf("expected data array, got %s", rec.Body.String())
	}
}

func TestPropertyHandler_CreateProperty(t *testing.T) {
	e := newTestEcho()
	stub := &stubPropertyService{
		createPropertyFn: func(ctx context.Context, in ports.CreatePropertyInput) (*domain.Property, error) {
			if in.OwnerID != "OW-1" || in.SizeM2 != 120.5 || in.Availability != domain.AvailabilityForRent {
				t.Fatalf("unexpected input %+v", in)
			}
			return &domain.Property{ID: 3, OwnerID: in.OwnerID, Availability: in.Availability}, nil
		},
	}
	h := NewPropertyHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/properties",
		`{"ownerId":"OW-1","type":"apartment","location":"Centro","sizeM2":120.5,"price":180000,"availability":"for_rent"}`)
	if err := h.CreateProperty(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["availability"] != "for_rent" {
		t.Fatalf("unexpected availability %v", data["availability"])
	}
}

func TestPropertyHandler_CreateProperty_MissingFields(t *testing.T) {
	e := newTestEcho()
	h := NewPropertyHandler(&stubPropertyService{})

	c, _ := jsonContext(e, http.MethodPost, "/properties", `{"ownerId":"OW-1"}`)
	assertHTTPStatus(t, h.CreateProperty(c), http.StatusBadRequest)
}

func TestPropertyHandler_ListProperties_Filter(t *testing.T) {
	e := newTestEcho()
	stub := &stubPropertyService{
		listPropertiesFn: func(ctx context.Context, a domain.Availability) ([]*domain.Property, error) {
			if a != domain.AvailabilitySold {
				t.Fatalf("unexpected filter %q", a)
			}
			return []*domain.Property{{ID: 1, Availability: a}}, nil
		},
	}
	h := NewPropertyHandler(stub)

	c, _ := jsonContext(e, http.MethodGet, "/properties?availability=sold", "")
	if err := h.ListProperties(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestPropertyHandler_SetAvailability(t *testing.T) {
	e := newTestEcho()
	stub := &stubPropertyService{
		transitionFn: func(ctx context.Context, id int64, a domain.Availability) (*domain.Property, error) {
			if id != 7 || a != domain.AvailabilityNegotiating {
				t.Fatalf("unexpected args %d %s", id, a)
			}
			return &domain.Property{ID: id, Availability: a}, nil
		},
	}
	h := NewPropertyHandler(stub)

	c, rec := jsonContext(e, http.MethodPatch, "/", `{"availability":"negotiating"}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	if err := h.SetAvailability(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPropertyHandler_SetAvailability_PropagatesInvalid(t *testing.T) {
	e := newTestEcho()
	stub := &stubPropertyService{
		transitionFn: func(ctx context.Context, id int64, a domain.Availability) (*domain.Property, error) {
			return nil, domain.ErrInvalidAvailability
		},
	}
	h := NewPropertyHandler(stub)

	c, _ := jsonContext(e, http.MethodPatch, "/", `{"availability":"demolished"}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	if err := h.SetAvailability(c); !errors.Is(err, domain.ErrInvalidAvailability) {
		t.Fatalf("expected ErrInvalidAvailability, got %v", err)
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	e := newTestEcho()
	c, rec := jsonContext(e, http.MethodGet, "/health", "")
	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthDependenciesHandler_Readiness(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name   string
		checks map[string]PingFunc
		want   int
	}{
		{"all healthy", map[string]PingFunc{"postgres": ok, "mongodb": ok, "redis": ok}, http.StatusOK},
		{"one down", map[string]PingFunc{"postgres": ok, "mongodb": down, "redis": ok}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := NewHealthDependenciesHandler(tt.checks).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}
