package web

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"mission-control/internal/errors"
	"mission-control/internal/validation"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure. Fields is set for validation errors.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// statusFor maps an application error type to an HTTP status.
func statusFor(t errors.ErrorType) int {
	switch t {
	case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput:
		return http.StatusUnprocessableEntity
	case errors.ErrorTypeConflict:
		return http.StatusConflict
	case errors.ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case errors.ErrorTypePermission:
		return http.StatusForbidden
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeStorage:
		return http.StatusBadGateway
	case errors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := s.errorResponse(err)
	if status >= http.StatusInternalServerError || errors.ShouldLogError(err) {
		s.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.String("code", body.Error.Code),
			zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		s.logger.Warn("writing error response", zap.Error(err))
	}
}

func (s *Server) errorResponse(err error) (int, ErrorBody) {
	if appErr, ok := errors.AsAppError(err); ok {
		detail := ErrorDetail{Code: appErr.Code, Message: errors.GetUserMessage(appErr)}
		if ve, ok := validation.AsValidationError(err); ok {
			detail.Fields = ve.FieldMessages()
			detail.Message = ve.GetUserFriendlyMessage()
		}
		return statusFor(appErr.Type), ErrorBody{Error: detail}
	}

	if he, ok := err.(*echo.HTTPError); ok {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			msg = m
		}
		return he.Code, ErrorBody{Error: ErrorDetail{Code: httpCode(he.Code), Message: msg}}
	}

	return http.StatusInternalServerError, ErrorBody{Error: ErrorDetail{
		Code:    "INTERNAL",
		Message: "An unexpected error occurred. Please try again.",
	}}
}

// httpCode turns a status into an error code such as NOT_FOUND.
func httpCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "HTTP_ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
