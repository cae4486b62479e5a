// internal/api/response_helpers.go
package api

import (
	"net/http"

	apperrors "github.com/Corphon/SentimentGateMCP/internal/errors"
	"github.com/gin-gonic/gin"
)

// ErrorDetail is the error body contract: a single detail string.
type ErrorDetail struct {
	Detail string `json:"detail"`
}

// ResponseHelper writes API responses in a consistent shape.
type ResponseHelper struct{}

// NewResponseHelper creates a response helper.
func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{}
}

// Success writes data as-is with status 200.
func (rh *ResponseHelper) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error writes an error body with the given status code.
func (rh *ResponseHelper) Error(c *gin.Context, statusCode int, detail string) {
	c.JSON(statusCode, ErrorDetail{Detail: detail})
}

// BadRequest writes a 400 error response.
func (rh *ResponseHelper) BadRequest(c *gin.Context, detail string) {
	rh.Error(c, http.StatusBadRequest, detail)
}

// ServiceUnavailable writes a 503 error response.
func (rh *ResponseHelper) ServiceUnavailable(c *gin.Context, detail string) {
	rh.Error(c, http.StatusServiceUnavailable, detail)
}

// GatewayTimeout writes a 504 error response.
func (rh *ResponseHelper) GatewayTimeout(c *gin.Context, detail string) {
	rh.Error(c, http.StatusGatewayTimeout, detail)
}

// InternalError writes a 500 error response.
func (rh *ResponseHelper) InternalError(c *gin.Context, detail string) {
	rh.Error(c, http.StatusInternalServerError, detail)
}

// FromError maps a typed application error to its HTTP status code.
// Anything untyped surfaces as a 500 with the message passed through.
func (rh *ResponseHelper) FromError(c *gin.Context, err error) {
	detail := apperrors.Message(err)

	switch {
	case apperrors.IsValidationError(err):
		rh.BadRequest(c, detail)
	case apperrors.IsUnavailableError(err):
		rh.ServiceUnavailable(c, detail)
	case apperrors.IsTimeoutError(err):
		rh.GatewayTimeout(c, detail)
	default:
		rh.InternalError(c, detail)
	}
}
