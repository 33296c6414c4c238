package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/service"
	"github.com/gin-gonic/gin"
)

const activationsListLimit = 20

type ActivationsHandler struct {
	ledger      LedgerServicer
	activations ActivationServicer
	catalog     CatalogServicer
	purchases   PurchaseServicer
}

func NewActivationsHandler(
	ledger LedgerServicer,
	activations ActivationServicer,
	catalog CatalogServicer,
	purchases PurchaseServicer,
) *ActivationsHandler {
	return &ActivationsHandler{
		ledger:      ledger,
		activations: activations,
		catalog:     catalog,
		purchases:   purchases,
	}
}

type CreateActivationParams struct {
	Service  string `json:"service" binding:"required,max_bytes=64,catalog_code"`
	Country  string `json:"country" binding:"required,max_bytes=16,catalog_code"`
	Provider string `json:"provider" binding:"omitempty,max_bytes=16,catalog_code"`
}

// Create покупает номер. Цена берется из актуального прайса для роли пользователя,
// клиентская цена не принимается.
func (h *ActivationsHandler) Create(c *gin.Context) {
	var params CreateActivationParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, PurchaseTimeout)
	defer cancel()

	user, err := currentUser(reqCtx, c, h.ledger)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if !user.Role.IsApproved() {
		abortWithServiceError(c, domain.ErrRoleNotApproved)
		return
	}

	option, err := h.catalog.Quote(reqCtx, user.Role, params.Service, params.Country, params.Provider)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	activation, err := h.purchases.Purchase(reqCtx, service.PurchaseArgs{
		UserID: user.ID,
		ChatID: user.ChatID,
		Role:   user.Role,
		Option: *option,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newActivationResponse(activation))
}

func (h *ActivationsHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	activations, err := h.activations.ListByUser(reqCtx, currentUserID, activationsListLimit)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	if len(activations) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]activationResponse, len(activations))
	for i := range activations {
		response[i] = newActivationResponse(&activations[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *ActivationsHandler) Show(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	activation, err := h.activations.GetUserActivation(reqCtx, currentUserID, c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newActivationResponse(activation))
}

type CancelActivationResponse struct {
	Status   domain.ActivationStatusType `json:"status"`
	Refunded bool                        `json:"refunded"`
}

// Cancel отменяет активацию по запросу пользователя. Раньше окончания окна блокировки отвечает 423
// с оставшимся временем.
func (h *ActivationsHandler) Cancel(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, PurchaseTimeout)
	defer cancel()

	result, err := h.activations.Cancel(reqCtx, currentUserID, c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, CancelActivationResponse{
		Status:   result.Activation.Status,
		Refunded: result.Refund != nil || result.Activation.Refunded,
	})
}
