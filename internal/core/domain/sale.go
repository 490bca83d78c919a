package domain

import "time"

// SaleStatus represents the lifecycle state of a sale.
type SaleStatus string

const (
	SaleStatusPending    SaleStatus = "pending"
	SaleStatusInProgress SaleStatus = "in_progress"
	SaleStatusCompleted  SaleStatus = "completed"
	SaleStatusCancelled  SaleStatus = "cancelled"
)

func (s SaleStatus) Valid() bool {
	switch s {
	case SaleStatusPending, SaleStatusInProgress, SaleStatusCompleted, SaleStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the engine stops driving automatic side effects
// from this state.
func (s SaleStatus) Terminal() bool {
	return s == SaleStatusCompleted || s == SaleStatusCancelled
}

// Sale links a property to a client with an amount and a status.
type Sale struct {
	ID         int64      `json:"id"`
	PropertyID int64      `json:"propertyId"`
	ClientID   string     `json:"clientId"`
	Amount     float64    `json:"amount"`
	Date       time.Time  `json:"date"`
	Status     SaleStatus `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// SalePatch carries the optional fields of a sale update. Nil means unchanged.
type SalePatch struct {
	PropertyID *int64
	ClientID   *string
	Amount     *float64
	Date       *time.Time
	Status     *SaleStatus
}

// Apply returns a copy of s with the patch applied.
func (s Sale) Apply(p SalePatch) Sale {
	if p.PropertyID != nil {
		s.PropertyID = *p.PropertyID
	}
	if p.ClientID != nil {
		s.ClientID = *p.ClientID
	}
	if p.Amount != nil {
		s.Amount = *p.Amount
	}
	if p.Date != nil {
		s.Date = *p.Date
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	return s
}

// Effect is the property availability change implied by a sale status change.
type Effect int

const (
	EffectNone Effect = iota
	EffectMarkSold
	EffectRevertForSale
)

func (e Effect) String() string {
	switch e {
	case EffectMarkSold:
		return "mark_sold"
	case EffectRevertForSale:
		return "revert_for_sale"
	default:
		return "none"
	}
}

// Target returns the availability the property must move to, if any.
func (e Effect) Target() (Availability, bool) {
	switch e {
	case EffectMarkSold:
		return AvailabilitySold, true
	case EffectRevertForSale:
		return AvailabilityForSale, true
	default:
		return "", false
	}
}

// StatusEffect maps an (old, new) status pair to its availability effect.
// Reverting goes to for_sale regardless of what the property was before the
// sale completed.
func StatusEffect(from, to SaleStatus) Effect {
	switch {
	case from != SaleStatusCompleted && to == SaleStatusCompleted:
		return EffectMarkSold
	case from == SaleStatusCompleted && to == SaleStatusCancelled:
		return EffectRevertForSale
	default:
		return EffectNone
	}
}

// CreateEffect is the effect of opening a sale directly in status s.
func CreateEffect(s SaleStatus) Effect {
	return StatusEffect("", s)
}

// DeleteEffect is the effect of removing a sale currently in status s.
func DeleteEffect(s SaleStatus) Effect {
	if s == SaleStatusCompleted {
		return EffectRevertForSale
	}
	return EffectNone
}
