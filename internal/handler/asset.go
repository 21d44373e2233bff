package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"etfolio/internal/models"
	"etfolio/internal/service"
)

type AssetHandler struct {
	Service   *service.AssetService
	Snapshots *service.SnapshotService
	Logger    *zap.Logger
}

func (h *AssetHandler) Register(r *gin.Engine) {
	g := r.Group("/api/assets")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *AssetHandler) list(c *gin.Context) {
	items, err := h.Service.List(c.Request.Context(), principalEmail(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, items, nil)
}

func (h *AssetHandler) get(c *gin.Context) {
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "asset.invalid.id", nil)
		return
	}
	item, err := h.Service.Get(c.Request.Context(), id, principalEmail(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *AssetHandler) create(c *gin.Context) {
	var asset models.Asset
	if err := c.ShouldBindJSON(&asset); err != nil {
		Error(c, http.StatusBadRequest, "asset.invalid.body", nil)
		return
	}
	email := principalEmail(c)
	created, err := h.Service.Create(c.Request.Context(), &asset, email)
	if err != nil {
		Fail(c, err)
		return
	}
	snapshotSafely(c, h.Snapshots, h.Logger, email, models.TriggerAssetCreated, created.Name)
	Created(c, created)
}

func (h *AssetHandler) update(c *gin.Context) {
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "asset.invalid.id", nil)
		return
	}
	var asset models.Asset
	if err := c.ShouldBindJSON(&asset); err != nil {
		Error(c, http.StatusBadRequest, "asset.invalid.body", nil)
		return
	}
	email := principalEmail(c)
	updated, err := h.Service.Update(c.Request.Context(), id, &asset, email)
	if err != nil {
		Fail(c, err)
		return
	}
	snapshotSafely(c, h.Snapshots, h.Logger, email, models.TriggerAssetUpdated, updated.Name)
	Ok(c, updated, nil)
}

func (h *AssetHandler) delete(c *gin.Context) {
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "asset.invalid.id", nil)
		return
	}
	email := principalEmail(c)
	if err := h.Service.Delete(c.Request.Context(), id, email); err != nil {
		Fail(c, err)
		return
	}
	snapshotSafely(c, h.Snapshots, h.Logger, email, models.TriggerAssetDeleted,
		fmt.Sprintf("asset %d", id))
	NoContent(c)
}
