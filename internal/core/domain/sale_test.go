package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestStatusEffect(t *testing.T) {
	cases := []struct {
		from, to SaleStatus
		want     Effect
	}{
		{SaleStatusPending, SaleStatusCompleted, EffectMarkSold},
		{SaleStatusInProgress, SaleStatusCompleted, EffectMarkSold},
		{SaleStatusCancelled, SaleStatusCompleted, EffectMarkSold},
		{SaleStatusCompleted, SaleStatusCancelled, EffectRevertForSale},
		{SaleStatusCompleted, SaleStatusCompleted, EffectNone},
		{SaleStatusCompleted, SaleStatusPending, EffectNone},
		{SaleStatusCompleted, SaleStatusInProgress, EffectNone},
		{SaleStatusPending, SaleStatusInProgress, EffectNone},
		{SaleStatusPending, SaleStatusCancelled, EffectNone},
		{SaleStatusInProgress, SaleStatusCancelled, EffectNone},
	}

	for _, tc := range cases {
		if got := StatusEffect(tc.from, tc.to); got != tc.want {
			t.Errorf("%s -> %s: expected %s, got %s", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestCreateAndDeleteEffect(t *testing.T) {
	if CreateEffect(SaleStatusCompleted) != EffectMarkSold {
		t.Error("creating a completed sale must mark the property sold")
	}
	if CreateEffect(SaleStatusPending) != EffectNone {
		t.Error("creating a pending sale must not touch the property")
	}
	if DeleteEffect(SaleStatusCompleted) != EffectRevertForSale {
		t.Error("deleting a completed sale must revert the property")
	}
	if DeleteEffect(SaleStatusInProgress) != EffectNone {
		t.Error("deleting an in-progress sale must not touch the property")
	}
}

func TestEffectTarget(t *testing.T) {
	if a, ok := EffectMarkSold.Target(); !ok || a != AvailabilitySold {
		t.Errorf("mark_sold target: got %q %v", a, ok)
	}
	if a, ok := EffectRevertForSale.Target(); !ok || a != AvailabilityForSale {
		t.Errorf("revert target: got %q %v", a, ok)
	}
	if _, ok := EffectNone.Target(); ok {
		t.Error("none must have no target")
	}
}

func TestSaleApply(t *testing.T) {
	base := Sale{ID: 1, PropertyID: 10, ClientID: "c1", Amount: 100, Status: SaleStatusPending}
	status := SaleStatusCompleted
	amount := 250.5
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	got := base.Apply(SalePatch{Status: &status, Amount: &amount, Date: &date})

	if got.Status != SaleStatusCompleted || got.Amount != 250.5 || !got.Date.Equal(date) {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.PropertyID != 10 || got.ClientID != "c1" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if base.Status != SaleStatusPending {
		t.Fatal("Apply must not mutate the receiver")
	}
}

func TestAvailabilityAcceptsNewSale(t *testing.T) {
	for _, a := range []Availability{AvailabilityForSale, AvailabilityForRent, AvailabilityNegotiating, AvailabilityRented} {
		if !a.AcceptsNewSale() {
			t.Errorf("%s should accept a new sale", a)
		}
	}
	if AvailabilitySold.AcceptsNewSale() {
		t.Error("sold must not accept a new sale")
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("create sale: %w", ErrPropertyAlreadySold)
	if KindOf(wrapped) != KindConflict {
		t.Errorf("expected conflict, got %s", KindOf(wrapped))
	}
	if !errors.Is(wrapped, ErrPropertyAlreadySold) {
		t.Error("wrapped sentinel must match with errors.Is")
	}
	if KindOf(errors.New("boom")) != KindInternal {
		t.Error("plain errors are internal")
	}
	if IsDomain(nil) {
		t.Error("nil is not a domain error")
	}
}

func TestValidateHandleAndPassword(t *testing.T) {
	if ValidateHandle("ab") != ErrInvalidHandle {
		t.Error("2-char handle must be rejected")
	}
	if ValidateHandle("abc") != nil {
		t.Error("3-char handle must be accepted")
	}
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	if ValidateHandle(string(long)) != ErrInvalidHandle {
		t.Error("51-char handle must be rejected")
	}
	if ValidateHandle(string(long[:50])) != nil {
		t.Error("50-char handle must be accepted")
	}
	if ValidatePassword("12345") != ErrWeakPassword {
		t.Error("5-char password must be rejected")
	}
	if ValidatePassword("123456") != nil {
		t.Error("6-char password must be accepted")
	}
	pw := make([]byte, MaxPasswordBytes+1)
	for i := range pw {
		pw[i] = 'p'
	}
	if ValidatePassword(string(pw)) != ErrPasswordTooLong {
		t.Error("73-byte password must be rejected")
	}
	if ValidatePassword(string(pw[:MaxPasswordBytes])) != nil {
		t.Error("72-byte password must be accepted")
	}
}
