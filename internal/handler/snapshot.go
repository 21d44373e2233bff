package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"etfolio/internal/models"
	"etfolio/internal/service"
)

type SnapshotHandler struct {
	Service *service.SnapshotService
}

func (h *SnapshotHandler) Register(r *gin.Engine) {
	g := r.Group("/api/portfolio-snapshots")
	g.GET("", h.list)
	g.POST("", h.create)
	g.POST("/with-data", h.createWithData)
	g.GET("/version/:versionId", h.getByVersion)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.delete)
}

type createSnapshotRequest struct {
	TriggerAction string `json:"triggerAction"`
	ChangeDetails string `json:"changeDetails"`
}

type createSnapshotWithDataRequest struct {
	VersionID     string `json:"versionId"`
	PortfolioJSON string `json:"portfolioJson"`
	TriggerAction string `json:"triggerAction"`
	ChangeDetails string `json:"changeDetails"`
}

func (h *SnapshotHandler) list(c *gin.Context) {
	items, err := h.Service.ListForUser(c.Request.Context(), principalEmail(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, items, nil)
}

func (h *SnapshotHandler) create(c *gin.Context) {
	// A bare POST with no body is a valid manual snapshot request.
	var req createSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		Error(c, http.StatusBadRequest, "snapshot.invalid.body", nil)
		return
	}
	action := models.TriggerManualExport
	if req.TriggerAction != "" {
		action = models.ParseTriggerAction(req.TriggerAction)
	}
	details := req.ChangeDetails
	if details == "" {
		details = "Manual snapshot"
	}
	snap, err := h.Service.Create(c.Request.Context(), principalEmail(c), action, details)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, snap)
}

func (h *SnapshotHandler) createWithData(c *gin.Context) {
	var req createSnapshotWithDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "snapshot.invalid.body", nil)
		return
	}
	if req.VersionID == "" || req.PortfolioJSON == "" {
		Error(c, http.StatusBadRequest, "snapshot.missing.fields", nil)
		return
	}
	action := models.ParseTriggerAction(req.TriggerAction)
	snap, err := h.Service.CreateWithVersionID(c.Request.Context(),
		principalEmail(c), req.VersionID, req.PortfolioJSON, action, req.ChangeDetails)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, snap)
}

func (h *SnapshotHandler) get(c *gin.Context) {
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "snapshot.invalid.id", nil)
		return
	}
	snap, err := h.Service.GetByID(c.Request.Context(), id, principalEmail(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, snap, nil)
}

func (h *SnapshotHandler) getByVersion(c *gin.Context) {
	versionID := c.Param("versionId")
	if versionID == "" {
		Error(c, http.StatusBadRequest, "snapshot.invalid.version", nil)
		return
	}
	snap, err := h.Service.GetByVersionID(c.Request.Context(), versionID, principalEmail(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, snap, nil)
}

func (h *SnapshotHandler) delete(c *gin.Context) {
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "snapshot.invalid.id", nil)
		return
	}
	if err := h.Service.Delete(c.Request.Context(), id, principalEmail(c)); err != nil {
		Fail(c, err)
		return
	}
	NoContent(c)
}
