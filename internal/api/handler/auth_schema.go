package handler

import "github.com/propertyhub/backoffice/internal/core/domain"

// Length and strength rules live in the domain so that every entry point
// reports them the same way; the schema only checks presence.

type registerRequest struct {
	IdentityKey string `json:"identityKey" validate:"required"`
	LoginHandle string `json:"loginHandle" validate:"required"`
	Password    string `json:"password"    validate:"required"`
	Role        string `json:"role,omitempty"`
}

// loginRequest is not validated: missing fields are reported as invalid
// credentials like any other failed login.
type loginRequest struct {
	LoginHandle string `json:"loginHandle"`
	Password    string `json:"password"`
}

type loginResponse struct {
	Token      string             `json:"token"`
	Credential *domain.Credential `json:"credential"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type changeActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required"`
}
