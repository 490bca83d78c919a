package domain

import "time"

// Availability is the commercial state of a property.
type Availability string

const (
	AvailabilityForSale     Availability = "for_sale"
	AvailabilityForRent     Availability = "for_rent"
	AvailabilityNegotiating Availability = "negotiating"
	AvailabilitySold        Availability = "sold"
	AvailabilityRented      Availability = "rented"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityForSale, AvailabilityForRent, AvailabilityNegotiating, AvailabilitySold, AvailabilityRented:
		return true
	}
	return false
}

// AcceptsNewSale reports whether a sale may be opened against a property in
// this state. Only sold blocks; rented and negotiating properties still
// accept sale records.
func (a Availability) AcceptsNewSale() bool {
	return a != AvailabilitySold
}

// Property is a listed real-estate unit. Only Availability is driven by the
// sale engine; the rest is descriptive payload.
type Property struct {
	ID           int64        `json:"id"`
	OwnerID      string       `json:"ownerId"`
	Type         string       `json:"type"`
	Location     string       `json:"location"`
	SizeM2       float64      `json:"sizeM2"`
	Price        float64      `json:"price"`
	Condition    string       `json:"condition"`
	Availability Availability `json:"availability"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Owner owns one or more properties.
type Owner struct {
	IdentityKey string    `json:"identityKey"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Client is the buying or renting party of a sale.
type Client struct {
	IdentityKey string    `json:"identityKey"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
