package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-go/internal/catalog"
)

// APIError is the body of every failed request.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps APIError as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

var errBadRequest = errors.New("bad request")

// statusFor maps core sentinels to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, catalog.ErrConfirmationDeclined):
		return http.StatusConflict, "confirmation_required"
	case errors.Is(err, catalog.ErrNotSelectable):
		return http.StatusConflict, "not_selectable"
	case errors.Is(err, catalog.ErrNoEditSession):
		return http.StatusConflict, "no_edit_session"
	case errors.Is(err, catalog.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, catalog.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, "image_too_large"
	case errors.Is(err, catalog.ErrUnsupportedImage):
		return http.StatusUnsupportedMediaType, "unsupported_image"
	case errors.Is(err, catalog.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{Message: msg, Code: code},
	})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
