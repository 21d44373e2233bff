package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	AppName string
	Version string
	// Ready reports backend readiness; nil means always ready (file backend).
	Ready func() error
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.GET("/readyz", h.ready)
}

func (h *HealthHandler) health(c *gin.Context) {
	Ok(c, gin.H{
		"app":     h.AppName,
		"version": h.Version,
		"status":  "ok",
	}, nil)
}

func (h *HealthHandler) ready(c *gin.Context) {
	if h.Ready != nil {
		if err := h.Ready(); err != nil {
			Error(c, http.StatusServiceUnavailable, "not.ready", nil)
			return
		}
	}
	Ok(c, gin.H{"status": "ready"}, nil)
}
