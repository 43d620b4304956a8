package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "investrack/internal/errors"
	"investrack/internal/logger"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return 0, apperrors.ErrUnauthorized
	}
	return userID.(uint), nil
}

// getUserEmail extracts the authenticated user's email from the Gin context.
func getUserEmail(c *gin.Context) (string, error) {
	email, exists := c.Get("email")
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	return email.(string), nil
}

// parsePathID parses a uint path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// writeError renders the API's error envelope: code, message, and the
// server-side timestamp, plus per-field details when present.
func writeError(c *gin.Context, status int, code, message string, fields map[string]string) {
	body := gin.H{
		"code":      code,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	c.JSON(status, gin.H{"error": body})
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		writeError(c, appErr.StatusCode, appErr.Code, appErr.Message, nil)
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	writeError(c, apperrors.ErrInternalServer.StatusCode,
		apperrors.ErrInternalServer.Code, apperrors.ErrInternalServer.Message, nil)
}

// respondWithBindingError translates a request binding failure into a 400.
// Validator failures are broken down into one message per offending field
// so clients can surface them next to the matching form input; anything
// else (malformed JSON, type mismatches) keeps the raw parse message.
func respondWithBindingError(c *gin.Context, err error) {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		fields := make(map[string]string, len(vErrs))
		for _, fe := range vErrs {
			fields[strings.ToLower(fe.Field())] = validationMessage(fe)
		}
		writeError(c, http.StatusBadRequest, apperrors.ErrInvalidInput.Code, "Validation failed", fields)
		return
	}
	respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Must be at least " + fe.Param()
	case "max":
		return "Must be at most " + fe.Param()
	case "investment_type":
		return "Unknown investment type"
	case "risk_level":
		return "Unknown risk level"
	case "ticket_status":
		return "Unknown ticket status"
	case "ticket_priority":
		return "Unknown ticket priority"
	default:
		return "Invalid value"
	}
}
