package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propertyhub/backoffice/internal/api/middleware"
	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new credential. Anonymous callers may only register the
// default role; any other role needs an administrator token.
//
// @Summary      Register a credential
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  envelope{data=domain.Credential}
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	actorRole, _ := c.Get(middleware.ContextRole).(domain.Role)
	cred, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		IdentityKey: req.IdentityKey,
		LoginHandle: req.LoginHandle,
		RawPassword: req.Password,
		Role:        domain.Role(req.Role),
		ActorRole:   actorRole,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, cred)
}

// Login authenticates a credential and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelope{data=loginResponse}
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.authService.Login(c.Request().Context(), req.LoginHandle, req.Password)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, loginResponse{Token: res.Token, Credential: res.Credential})
}

// Profile returns the caller's credential.
//
// @Summary      Current credential
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=domain.Credential}
// @Failure      401  {object}  errorResponse
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	identityKey, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	cred, err := h.authService.Profile(c.Request().Context(), identityKey)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cred)
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	identityKey, _, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), identityKey, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "password updated")
}

// ChangeRole sets the role of a credential.
//
// @Summary      Change a credential's role
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        identityKey  path      string             true  "Identity key"
// @Param        body         body      changeRoleRequest  true  "New role"
// @Success      200          {object}  envelope{data=domain.Credential}
// @Failure      400          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /auth/credentials/{identityKey}/role [patch]
func (h *AuthHandler) ChangeRole(c echo.Context) error {
	var req changeRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cred, err := h.authService.ChangeRole(c.Request().Context(), c.Param("identityKey"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cred)
}

// ChangeActivation activates or deactivates a credential.
//
// @Summary      Toggle a credential's active flag
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        identityKey  path      string               true  "Identity key"
// @Param        body         body      changeActiveRequest  true  "Active flag"
// @Success      200          {object}  envelope{data=domain.Credential}
// @Failure      400          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /auth/credentials/{identityKey}/active [patch]
func (h *AuthHandler) ChangeActivation(c echo.Context) error {
	var req changeActiveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cred, err := h.authService.ChangeActivation(c.Request().Context(), c.Param("identityKey"), *req.Active)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cred)
}
