package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform wrapper applied to every API response.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Envelope status strings and their HTTP status codes.
const (
	StatusSuccess         = "success"
	StatusUnprocessable   = "unprocessable"
	StatusUnauthorized    = "unauthorized"
	StatusServerError     = "server error"
	StatusConflicting     = "conflicting"
	StatusNotFound        = "not found"
	StatusBadRequest      = "bad request"
	StatusPaymentRequired = "payment required"
)

func respond(c *gin.Context, code int, status, message string, data any) {
	c.JSON(code, Envelope{Status: status, Message: message, Data: data})
}

func success(c *gin.Context, message string, data any) {
	respond(c, http.StatusOK, StatusSuccess, message, data)
}

func unprocessable(c *gin.Context, message string, data any) {
	respond(c, http.StatusUnprocessableEntity, StatusUnprocessable, message, data)
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{
		Status: StatusUnauthorized, Message: message,
	})
}

func serverError(c *gin.Context, message string) {
	respond(c, http.StatusInternalServerError, StatusServerError, message, nil)
}

func conflicting(c *gin.Context, message string) {
	respond(c, http.StatusConflict, StatusConflicting, message, nil)
}

func notFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, StatusNotFound, message, nil)
}

func badRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, StatusBadRequest, message, nil)
}

func paymentRequired(c *gin.Context, message string, data any) {
	respond(c, http.StatusPaymentRequired, StatusPaymentRequired, message, data)
}

// upstreamBody converts a raw provider payload to envelope data: valid JSON
// passes through verbatim, anything else is wrapped as an opaque string.
// The body is data, never code.
func upstreamBody(body []byte) any {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return gin.H{"error": string(body)}
}
