package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/smsbroker/internal/pricing"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	ledger  LedgerServicer
	catalog CatalogServicer
}

func NewCatalogHandler(ledger LedgerServicer, catalog CatalogServicer) *CatalogHandler {
	return &CatalogHandler{ledger: ledger, catalog: catalog}
}

// Services список сервисов. Параметр q фильтрует список по названию или коду.
func (h *CatalogHandler) Services(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	var (
		services []pricing.Service
		err      error
	)
	if q := c.Query("q"); q != "" {
		services, err = h.catalog.SearchServices(ctx, q)
	} else {
		services, err = h.catalog.Services(ctx)
	}
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	resp := make([]serviceResponse, len(services))
	for i, s := range services {
		resp[i] = serviceResponse{Code: s.Code, Name: s.Name}
	}
	c.JSON(http.StatusOK, resp)
}

// Prices варианты покупки сервиса с ценами для роли текущего пользователя.
func (h *CatalogHandler) Prices(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := currentUser(ctx, c, h.ledger)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	opts, err := h.catalog.Prices(ctx, user.Role, c.Param("code"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	if len(opts) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]optionResponse, len(opts))
	for i, o := range opts {
		resp[i] = newOptionResponse(o)
	}
	c.JSON(http.StatusOK, resp)
}
