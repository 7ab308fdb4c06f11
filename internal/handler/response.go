// Package handler exposes the services over HTTP with echo. Every response,
// success or failure, uses the same JSON envelope.
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/model"
	"github.com/ldflores83/falconcore/pkg/logger"
	"github.com/ldflores83/falconcore/pkg/validator"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// HTTPErrorHandler renders err as an error envelope. Install it as
// echo.Echo.HTTPErrorHandler.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	e := toAppError(err)
	status := e.Kind.Status()
	if e.Kind == apperr.KindInternal {
		logger.FromContext(c).Error("Request failed", zap.String("code", e.Code), zap.Error(err))
	}

	body := Envelope{Error: &ErrorBody{Code: e.Code, Message: e.Message}}
	if len(e.Data) > 0 {
		body.Data = e.Data
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		logger.FromContext(c).Error("Failed to write error response", zap.Error(werr))
	}
}

func toAppError(err error) *apperr.Error {
	if e, ok := apperr.As(err); ok {
		return e
	}

	var verr *validator.Errors
	if errors.As(err, &verr) {
		return apperr.Validation(apperr.CodeInvalidRequest, verr.Error())
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch {
		case errors.Is(err, model.ErrInvalidRole):
			return apperr.Validation(apperr.CodeInvalidRole, "role must be admin or member")
		case errors.Is(err, model.ErrInvalidStatus):
			return apperr.Validation(apperr.CodeInvalidStatus, "unknown status")
		}
		return fromHTTPError(he)
	}

	return apperr.Internal(err)
}

func fromHTTPError(he *echo.HTTPError) *apperr.Error {
	msg := http.StatusText(he.Code)
	if m, ok := he.Message.(string); ok && m != "" {
		msg = m
	} else if he.Message != nil {
		msg = fmt.Sprint(he.Message)
	}

	switch he.Code {
	case http.StatusNotFound:
		return apperr.NotFound(apperr.CodeNotFound, msg)
	case http.StatusUnauthorized:
		return apperr.Auth(apperr.CodeInvalidToken, msg)
	case http.StatusForbidden:
		return apperr.Forbidden(apperr.CodeAccessDenied, msg)
	case http.StatusTooManyRequests:
		return apperr.New(apperr.KindRateLimited, apperr.CodeRateLimited, msg)
	}
	if he.Code >= 400 && he.Code < 500 {
		return apperr.Validation(apperr.CodeInvalidRequest, msg)
	}
	return apperr.Internal(he)
}
