package handler

import (
	"time"

	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/ports"
)

// --- Request → Service input ---

// Dates were checked by the datetime validator, so parse errors cannot occur here.

func toCreateSaleInput(req createSaleRequest, actorID, idempotencyKey string) ports.CreateSaleInput {
	in := ports.CreateSaleInput{
		PropertyID:     req.PropertyID,
		ClientID:       req.ClientID,
		Amount:         req.Amount,
		Status:         domain.SaleStatus(req.Status),
		ActorID:        actorID,
		IdempotencyKey: idempotencyKey,
	}
	if req.Date != "" {
		in.Date, _ = time.Parse(dateLayout, req.Date)
	}
	return in
}

func toSalePatch(req updateSaleRequest) domain.SalePatch {
	patch := domain.SalePatch{
		PropertyID: req.PropertyID,
		ClientID:   req.ClientID,
		Amount:     req.Amount,
	}
	if req.Date != nil {
		d, _ := time.Parse(dateLayout, *req.Date)
		patch.Date = &d
	}
	if req.Status != nil {
		s := domain.SaleStatus(*req.Status)
		patch.Status = &s
	}
	return patch
}

// --- Domain → Response ---

func toSaleResponse(s *domain.Sale) saleResponse {
	return saleResponse{
		ID:         s.ID,
		PropertyID: s.PropertyID,
		ClientID:   s.ClientID,
		Amount:     s.Amount,
		Date:       s.Date.Format(dateLayout),
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toSaleResponses(sales []*domain.Sale) []saleResponse {
	out := make([]saleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleResponse(s))
	}
	return out
}

func toSaleChangeResponse(res *ports.SaleResult) saleChangeResponse {
	return saleChangeResponse{
		Sale:           toSaleResponse(res.Sale),
		PreviousStatus: string(res.PreviousStatus),
		Effect:         res.Effect.String(),
	}
}
