package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	ledger LedgerServicer
}

func NewUserHandler(ledger LedgerServicer) *UserHandler {
	return &UserHandler{ledger: ledger}
}

// Show профиль текущего пользователя с балансом. Пользователь создается при первом обращении.
func (h *UserHandler) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := currentUser(ctx, c, h.ledger)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}
