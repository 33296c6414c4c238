package api

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/internal/transport/api/middlewares"
	"github.com/fsdevblog/smsbroker/internal/transport/provider"
	"github.com/gin-gonic/gin"
)

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID устанавливается в
// middlewares.AuthRequired. В случае, если значения в контексте нет или ошибка утверждения типа -
// вернется 0.
func getUserIDFromContext(c *gin.Context) int64 {
	userID, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	id, ok := userID.(int64)
	if !ok {
		return 0
	}
	return id
}

func getChatIDFromContext(c *gin.Context) int64 {
	return c.GetInt64(middlewares.CurrentChatIDKey)
}

// currentUser создает пользователя при первом обращении и возвращает его актуальное состояние.
func currentUser(ctx context.Context, c *gin.Context, ledger LedgerServicer) (*domain.User, error) {
	return ledger.EnsureUser(ctx, repoargs.UpsertUser{
		UserID: getUserIDFromContext(c),
		ChatID: getChatIDFromContext(c),
	})
}

// paramID разбирает числовой параметр пути. При ошибке отвечает 400 и возвращает false.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		_ = c.AbortWithError(http.StatusBadRequest, errors.New("invalid id")).SetType(gin.ErrorTypePublic)
		return 0, false
	}
	return id, true
}

// abortWithServiceError переводит доменную ошибку в код ответа.
// Неизвестные ошибки уходят в лог как приватные и отдаются как 500.
func abortWithServiceError(c *gin.Context, err error) {
	var (
		locked   *domain.CancelLockedError
		rejected *provider.RejectedError
		failed   *domain.PurchaseFailedError
	)
	switch {
	case errors.As(err, &locked):
		c.AbortWithStatusJSON(http.StatusLocked, gin.H{
			"error":             "cancellation locked",
			"remaining_seconds": int64(math.Ceil(locked.Remaining.Seconds())),
		})
	case errors.Is(err, domain.ErrInsufficientFunds):
		c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "insufficient funds"})
	case errors.Is(err, domain.ErrOTPReceived):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "otp already received"})
	case errors.Is(err, domain.ErrActivationClosed), errors.Is(err, domain.ErrDepositClosed):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "already closed"})
	case errors.Is(err, domain.ErrRecordNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrOwnerConflict):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, domain.ErrRoleNotApproved):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account not approved"})
	case errors.As(err, &rejected):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error": "provider rejected request",
			"kind":  string(rejected.Kind),
		})
	case errors.Is(err, provider.ErrProviderUnavailable):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "provider unavailable"})
	case errors.Is(err, domain.ErrDepositTooSmall):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "deposit amount too small"})
	case errors.Is(err, domain.ErrInvalidArguments):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid arguments"})
	case errors.As(err, &failed):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": failed.Reason})
	default:
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
	}
}
