package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"etfolio/internal/models"
	"etfolio/internal/service"
)

type TransactionHandler struct {
	Service   *service.TransactionService
	Snapshots *service.SnapshotService
	Logger    *zap.Logger
}

func (h *TransactionHandler) Register(r *gin.Engine) {
	etfs := r.Group("/api/etfs")
	etfs.GET("/:id/transactions", h.listForEtf)
	etfs.POST("/:id/transactions", h.create)

	txs := r.Group("/api/transactions")
	txs.PUT("/:id", h.update)
	txs.DELETE("/:id", h.delete)
}

func (h *TransactionHandler) listForEtf(c *gin.Context) {
	etfID := uint64Param(c, "id")
	if etfID == 0 {
		Error(c, http.StatusBadRequest, "transaction.invalid.etf.id", nil)
		return
	}
	items, err := h.Service.ListForEtf(c.Request.Context(), etfID, principalEmail(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, items, nil)
}

func (h *TransactionHandler) create(c *gin.Context) {
	etfID := uint64Param(c, "id")
	if etfID == 0 {
		Error(c, http.StatusBadRequest, "transaction.invalid.etf.id", nil)
		return
	}
	var tx models.EtfTransaction
	if err := c.ShouldBindJSON(&tx); err != nil {
		Error(c, http.StatusBadRequest, "transaction.invalid.body", nil)
		return
	}
	email := principalEmail(c)
	created, err := h.Service.Create(c.Request.Context(), etfID, &tx, email)
	if err != nil {
		Fail(c, err)
		return
	}
	snapshotSafely(c, h.Snapshots, h.Logger, email, models.TriggerTransactionAdded,
		fmt.Sprintf("%s %s units", created.Type, created.Units.String()))
	Created(c, created)
}

func (h *TransactionHandler) update(c *gin.Context) {
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "transaction.invalid.id", nil)
		return
	}
	var tx models.EtfTransaction
	if err := c.ShouldBindJSON(&tx); err != nil {
		Error(c, http.StatusBadRequest, "transaction.invalid.body", nil)
		return
	}
	email := principalEmail(c)
	updated, err := h.Service.Update(c.Request.Context(), id, &tx, email)
	if err != nil {
		Fail(c, err)
		return
	}
	snapshotSafely(c, h.Snapshots, h.Logger, email, models.TriggerTransactionUpdated,
		fmt.Sprintf("%s %s units", updated.Type, updated.Units.String()))
	Ok(c, updated, nil)
}

func (h *TransactionHandler) delete(c *gin.Context) {
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "transaction.invalid.id", nil)
		return
	}
	email := principalEmail(c)
	if err := h.Service.Delete(c.Request.Context(), id, email); err != nil {
		Fail(c, err)
		return
	}
	snapshotSafely(c, h.Snapshots, h.Logger, email, models.TriggerTransactionDeleted,
		fmt.Sprintf("transaction %d", id))
	NoContent(c)
}
