package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/courseloom/backend/internal/apierr"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

// RespondServiceError maps a service error onto the wire using the taxonomy
// it carries, defaulting to a 500.
func RespondServiceError(c *gin.Context, err error) {
  code := apierr.CodeOf(err)
  if code == "" {
    code = "internal_error"
  }
  RespondError(c, apierr.StatusOf(err), code, err)
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}
