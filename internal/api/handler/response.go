package handler

import "github.com/labstack/echo/v4"

// envelope is the body of every response: {success, data?, message?}.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// errorResponse is the documented failure shape; the error handler renders it.
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"sale not found"`
}

func respond(c echo.Context, code int, data any) error {
	return c.JSON(code, envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, code int, msg string) error {
	return c.JSON(code, envelope{Success: true, Message: msg})
}
