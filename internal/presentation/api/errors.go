package api

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jbctechsolutions/doc2code/internal/domain/errors"
)

// Client facing error messages.
const (
	msgInvalidBody      = "Invalid request body"
	msgMissingFields    = "Missing required fields: documentation, language, or aiProvider"
	msgInvalidProvider  = "Invalid AI provider"
	msgSessionRequired  = "Session ID is required"
	msgInvalidLogFormat = "Invalid logs format"
	msgInvalidModel     = "Invalid model"
	msgInvalidStatus    = "Invalid progress status"
)

// bindErrorMessage distinguishes missing required fields from malformed JSON.
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		return msgMissingFields
	}
	return msgInvalidBody
}

// statusFor maps a domain error code to an HTTP status.
func statusFor(err error) int {
	switch errors.CodeOf(err) {
	case errors.CodeValidation:
		return http.StatusBadRequest
	case errors.CodeRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// messageFor renders err for the response body.
func messageFor(err error) string {
	switch {
	case errors.Is(err, errors.ErrInvalidProvider):
		return msgInvalidProvider
	case errors.Is(err, errors.ErrDocumentationRequired),
		errors.Is(err, errors.ErrLanguageRequired),
		errors.Is(err, errors.ErrProviderRequired):
		return msgMissingFields
	case errors.Is(err, errors.ErrSessionIDRequired):
		return msgSessionRequired
	}

	var de *errors.Doc2CodeError
	if errors.As(err, &de) {
		return de.Detail()
	}
	return err.Error()
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
