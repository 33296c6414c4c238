package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DepositsHandler struct {
	ledger LedgerServicer
}

func NewDepositsHandler(ledger LedgerServicer) *DepositsHandler {
	return &DepositsHandler{ledger: ledger}
}

type CreateDepositParams struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *DepositsHandler) Create(c *gin.Context) {
	var params CreateDepositParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := currentUser(reqCtx, c, h.ledger)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	dep, err := h.ledger.CreateDeposit(reqCtx, user.ID, params.Amount)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newDepositResponse(dep))
}

type ProofParams struct {
	TxID  string `json:"txid" binding:"max_bytes=128"`
	Proof string `json:"proof" binding:"max_bytes=512"`
}

// Proof прикладывает к заявке хэш транзакции и/или ссылку на скриншот. После этого заявка уходит
// на проверку администратору.
func (h *DepositsHandler) Proof(c *gin.Context) {
	depositID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var params ProofParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	dep, err := h.ledger.AttachProof(reqCtx, getUserIDFromContext(c), depositID, params.TxID, params.Proof)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDepositResponse(dep))
}
