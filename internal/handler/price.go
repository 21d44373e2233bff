package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"etfolio/internal/service"
)

type PriceHandler struct {
	Service *service.PriceService
	Etfs    *service.EtfService
}

func (h *PriceHandler) Register(r *gin.Engine) {
	g := r.Group("/api/prices")
	g.GET("", h.list)
	g.POST("/refresh", h.refreshAll)
	g.GET("/:ticker", h.get)
	g.POST("/:ticker/refresh", h.refresh)
}

func (h *PriceHandler) list(c *gin.Context) {
	prices, err := h.Service.AllPrices(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, prices, nil)
}

func (h *PriceHandler) get(c *gin.Context) {
	ticker := strings.TrimSpace(c.Param("ticker"))
	if ticker == "" {
		Error(c, http.StatusBadRequest, "price.missing.ticker", nil)
		return
	}
	price, err := h.Service.GetPrice(c.Request.Context(), ticker)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, price, nil)
}

func (h *PriceHandler) refresh(c *gin.Context) {
	ticker := strings.TrimSpace(c.Param("ticker"))
	if ticker == "" {
		Error(c, http.StatusBadRequest, "price.missing.ticker", nil)
		return
	}
	price, err := h.Service.RefreshPrice(c.Request.Context(), ticker)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, price, nil)
}

// refreshAll re-fetches every quote symbol referenced by an ETF, across all
// users. Failing symbols are skipped; the response carries whatever succeeded.
func (h *PriceHandler) refreshAll(c *gin.Context) {
	etfs, err := h.Etfs.ListInternal(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	seen := make(map[string]struct{}, len(etfs))
	tickers := make([]string, 0, len(etfs))
	for _, etf := range etfs {
		sym := etf.EffectiveQuoteSymbol()
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		tickers = append(tickers, sym)
	}
	prices := h.Service.RefreshAll(c.Request.Context(), tickers)
	Ok(c, prices, map[string]any{"requested": len(tickers), "refreshed": len(prices)})
}
