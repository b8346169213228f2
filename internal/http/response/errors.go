package response

import (
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Entity  string `json:"entity,omitempty"`
	Field   string `json:"field,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	RespondAPIError(c, status, APIError{Message: messageOf(err), Code: code})
}

func RespondAPIError(c *gin.Context, status int, apiErr APIError) {
	if apiErr.Message == "" {
		apiErr.Message = "unknown error"
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: apiErr})
}

func messageOf(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
