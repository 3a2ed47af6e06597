package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/mysterymessage/internal/common"
	"github.com/gin-gonic/gin"
)

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ok(c *gin.Context, status int, message string) {
	c.JSON(status, apiResponse{Success: true, Message: message})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, apiResponse{Success: false, Message: message})
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{common.ErrorUnauthorized, http.StatusUnauthorized},
	{common.ErrInvalidToken, http.StatusUnauthorized},
	{common.ErrTokenExpired, http.StatusUnauthorized},
	{common.ErrorNotFound, http.StatusNotFound},
	{common.ErrInvalidID, http.StatusBadRequest},
	{common.ErrorValidation, http.StatusBadRequest},
	{common.ErrInvalidCode, http.StatusBadRequest},
	{common.ErrCodeExpired, http.StatusBadRequest},
	{common.ErrUsernameTaken, http.StatusBadRequest},
	{common.ErrorAlreadyExists, http.StatusBadRequest},
	{common.ErrNotAcceptingMessages, http.StatusForbidden},
	{common.ErrNotConfigured, http.StatusServiceUnavailable},
}

// statusFor maps a service error to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

// writeError writes the error response; unexpected errors are logged with
// their details and reported generically.
func (s *HTTPServer) writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
	}
	fail(c, status, msg)
}

func badRequest(c *gin.Context) {
	fail(c, http.StatusBadRequest, "Invalid request body")
}
