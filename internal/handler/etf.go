package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"etfolio/internal/models"
	"etfolio/internal/service"
)

type EtfHandler struct {
	Service   *service.EtfService
	Snapshots *service.SnapshotService
	Logger    *zap.Logger
}

func (h *EtfHandler) Register(r *gin.Engine) {
	g := r.Group("/api/etfs")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *EtfHandler) list(c *gin.Context) {
	items, err := h.Service.List(c.Request.Context(), principalEmail(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, items, nil)
}

func (h *EtfHandler) get(c *gin.Context) {
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "etf.invalid.id", nil)
		return
	}
	item, err := h.Service.Get(c.Request.Context(), id, principalEmail(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *EtfHandler) create(c *gin.Context) {
	var etf models.Etf
	if err := c.ShouldBindJSON(&etf); err != nil {
		Error(c, http.StatusBadRequest, "etf.invalid.body", nil)
		return
	}
	email := principalEmail(c)
	created, err := h.Service.Create(c.Request.Context(), &etf, email)
	if err != nil {
		Fail(c, err)
		return
	}
	snapshotSafely(c, h.Snapshots, h.Logger, email, models.TriggerEtfCreated,
		fmt.Sprintf("%s (%s)", created.Ticker, created.Name))
	Created(c, created)
}

func (h *EtfHandler) update(c *gin.Context) {
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "etf.invalid.id", nil)
		return
	}
	var etf models.Etf
	if err := c.ShouldBindJSON(&etf); err != nil {
		Error(c, http.StatusBadRequest, "etf.invalid.body", nil)
		return
	}
	email := principalEmail(c)
	updated, err := h.Service.Update(c.Request.Context(), id, &etf, email)
	if err != nil {
		Fail(c, err)
		return
	}
	snapshotSafely(c, h.Snapshots, h.Logger, email, models.TriggerEtfUpdated,
		fmt.Sprintf("%s (%s)", updated.Ticker, updated.Name))
	Ok(c, updated, nil)
}

func (h *EtfHandler) delete(c *gin.Context) {
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "etf.invalid.id", nil)
		return
	}
	email := principalEmail(c)
	deleted, err := h.Service.Delete(c.Request.Context(), id, email)
	if err != nil {
		Fail(c, err)
		return
	}
	snapshotSafely(c, h.Snapshots, h.Logger, email, models.TriggerEtfDeleted,
		fmt.Sprintf("%s (%s)", deleted.Ticker, deleted.Name))
	NoContent(c)
}

// snapshotSafely captures a post-mutation snapshot. Capture failures are
// logged and swallowed; the mutation already committed and its response must
// not change.
func snapshotSafely(c *gin.Context, snapshots *service.SnapshotService, logger *zap.Logger, email string, action models.TriggerAction, details string) {
	if snapshots == nil {
		return
	}
	if _, err := snapshots.Create(c.Request.Context(), email, action, details); err != nil {
		if logger != nil {
			logger.Warn("snapshot capture failed",
				zap.String("action", string(action)),
				zap.String("user", email),
				zap.Error(err))
		}
	}
}
