package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/smsbroker/internal/domain"
)

const adminDepositsLimit = 50

type AdminHandler struct {
	ledger  LedgerServicer
	catalog CatalogServicer
}

func NewAdminHandler(ledger LedgerServicer, catalog CatalogServicer) *AdminHandler {
	return &AdminHandler{ledger: ledger, catalog: catalog}
}

// Deposits заявки на пополнение в статусе status (по умолчанию pending).
func (h *AdminHandler) Deposits(c *gin.Context) {
	status := domain.DepositStatusType(c.DefaultQuery("status", string(domain.DepositStatusPending)))

	limit := uint(adminDepositsLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || n == 0 {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		limit = uint(n)
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	deps, err := h.ledger.ListDeposits(reqCtx, status, limit)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	response := make([]depositResponse, len(deps))
	for i := range deps {
		response[i] = newDepositResponse(&deps[i])
	}
	c.JSON(http.StatusOK, response)
}

type ReviewParams struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note" binding:"max_bytes=512"`
}

func (h *AdminHandler) Review(c *gin.Context) {
	depositID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var params ReviewParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	dep, err := h.ledger.ReviewDeposit(reqCtx, getUserIDFromContext(c), depositID, params.Approve, params.Note)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDepositResponse(dep))
}

type SetRoleParams struct {
	Role string `json:"role" binding:"required"`
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var params SetRoleParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.ledger.SetRole(reqCtx, userID, domain.RoleType(params.Role)); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type SetProfitParams struct {
	Percent decimal.Decimal `json:"percent"`
}

// SetProfit меняет наценку для обычных пользователей. Значение ограничивается допустимым диапазоном,
// в ответе возвращается сохраненное.
func (h *AdminHandler) SetProfit(c *gin.Context) {
	var params SetProfitParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	saved, err := h.catalog.SetProfitPercent(reqCtx, params.Percent)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"percent": saved})
}

func (h *AdminHandler) ProviderBalance(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	balance, err := h.catalog.ProviderBalance(reqCtx)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
