package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"etfolio/internal/apperr"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, apiResponse{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// Fail maps the domain error taxonomy to transport status codes. The message
// is the stable error code, never the raw error string.
func Fail(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		Error(c, http.StatusBadRequest, errCode(err), nil)
	case apperr.IsConflict(err):
		Error(c, http.StatusConflict, errCode(err), nil)
	case apperr.IsNotFound(err):
		Error(c, http.StatusNotFound, errCode(err), nil)
	default:
		var p *apperr.ProviderError
		if errors.As(err, &p) {
			Error(c, http.StatusBadGateway, "price.fetch.failed", map[string]any{"ticker": p.Ticker})
			return
		}
		Error(c, http.StatusInternalServerError, "internal.error", nil)
	}
}

func errCode(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, ':'); i > 0 {
		return msg[:i]
	}
	return msg
}

func uint64Param(c *gin.Context, key string) uint64 {
	v, err := strconv.ParseUint(strings.TrimSpace(c.Param(key)), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
