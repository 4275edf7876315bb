package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/yungbote/mentora-backend/internal/apperr"
)

type APIError struct {
  Message     string	`json:"message"`
  Code	      string	`json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error	      APIError	`json:"error"`
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

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps the error taxonomy onto status codes: validation
// 400, not found 404, capability 502, anything else 500.
func RespondServiceError(c *gin.Context, code string, err error) {
  switch {
  case errors.Is(err, apperr.ErrValidation):
    RespondError(c, http.StatusBadRequest, code, err)
  case errors.Is(err, apperr.ErrNotFound):
    RespondError(c, http.StatusNotFound, code, err)
  case errors.Is(err, apperr.ErrCapability):
    RespondError(c, http.StatusBadGateway, code, err)
  default:
    RespondError(c, http.StatusInternalServerError, code, err)
  }
}
