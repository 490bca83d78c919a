package handler

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/propertyhub/backoffice/docs"
	"github.com/propertyhub/backoffice/internal/core/domain"
)

func jsonFields(v any) []string {
	var out []string
	rt := reflect.TypeOf(v)
	for i := range rt.NumField() {
		name, _, _ := strings.Cut(rt.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func TestSwaggerDefinitionsMatchPayloads(t *testing.T) {
	payloads := map[string]any{
		"domain.Credential":             domain.Credential{},
		"domain.Owner":                  domain.Owner{},
		"domain.Client":                 domain.Client{},
		"domain.Property":               domain.Property{},
		"handler.errorResponse":         errorResponse{},
		"handler.registerRequest":       registerRequest{},
		"handler.loginRequest":          loginRequest{},
		"handler.loginResponse":         loginResponse{},
		"handler.changeRoleRequest":     changeRoleRequest{},
		"handler.changeActiveRequest":   changeActiveRequest{},
		"handler.changePasswordRequest": changePasswordRequest{},
		"handler.createSaleRequest":     createSaleRequest{},
		"handler.updateSaleRequest":     updateSaleRequest{},
		"handler.updateStatusRequest":   updateStatusRequest{},
		"handler.saleResponse":          saleResponse{},
		"handler.saleChangeResponse":    saleChangeResponse{},
		"handler.partyRequest":          partyRequest{},
		"handler.createPropertyRequest": createPropertyRequest{},
		"handler.availabilityRequest":   availabilityRequest{},
	}

	var doc struct {
		Definitions map[string]struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"definitions"`
	}
	if err := json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc); err != nil {
		t.Fatalf("swagger document is not valid json: %v", err)
	}

	for name := range doc.Definitions {
		if _, ok := payloads[name]; !ok {
			t.Errorf("definition %s has no payload type", name)
		}
	}
	for name, v := range payloads {
		def, ok := doc.Definitions[name]
		if !ok {
			t.Errorf("payload %s is not documented", name)
			continue
		}
		var documented []string
		for field := range def.Properties {
			documented = append(documented, field)
		}
		sort.Strings(documented)
		if want := jsonFields(v); !reflect.DeepEqual(documented, want) {
			t.Errorf("%s: documented fields %v, payload fields %v", name, documented, want)
		}
	}
}
