package handler

// dateLayout is the wire format of sale dates.
const dateLayout = "2006-01-02"

type createSaleRequest struct {
	PropertyID int64   `json:"propertyId" validate:"required,gt=0"`
	ClientID   string  `json:"clientId"   validate:"required"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date,omitempty"   validate:"omitempty,datetime=2006-01-02"`
	Status     string  `json:"status,omitempty"`
}

// updateSaleRequest is a partial update; absent fields are left unchanged.
type updateSaleRequest struct {
	PropertyID *int64   `json:"propertyId,omitempty" validate:"omitempty,gt=0"`
	ClientID   *string  `json:"clientId,omitempty"   validate:"omitempty,min=1"`
	Amount     *float64 `json:"amount,omitempty"`
	Date       *string  `json:"date,omitempty"       validate:"omitempty,datetime=2006-01-02"`
	Status     *string  `json:"status,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type saleResponse struct {
	ID         int64   `json:"id"`
	PropertyID int64   `json:"propertyId"`
	ClientID   string  `json:"clientId"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// saleChangeResponse adds the transition that was applied.
type saleChangeResponse struct {
	Sale           saleResponse `json:"sale"`
	PreviousStatus string       `json:"previousStatus,omitempty"`
	Effect         string       `json:"propertyEffect"`
}
