package handler

type partyRequest struct {
	IdentityKey string `json:"identityKey" validate:"required"`
	FullName    string `json:"fullName"    validate:"required"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty"`
}

type createPropertyRequest struct {
	OwnerID      string  `json:"ownerId"   validate:"required"`
	Type         string  `json:"type"      validate:"required"`
	Location     string  `json:"location"  validate:"required"`
	SizeM2       float64 `json:"sizeM2"    validate:"gte=0"`
	Price        float64 `json:"price"`
	Condition    string  `json:"condition,omitempty"`
	Availability string  `json:"availability,omitempty"`
}

type availabilityRequest struct {
	Availability string `json:"availability" validate:"required"`
}
