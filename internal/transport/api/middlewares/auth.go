package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/service/tokens"
	"github.com/gin-gonic/gin"
)

var (
	ErrTokenNotExist = errors.New("token not exist")
	ErrNotAdmin      = errors.New("admin role required")
)

const (
	CurrentUserIDKey = "currentUserID"
	CurrentChatIDKey = "currentChatID"

	defaultLookupTimeout = 3 * time.Second
)

type UserGetter interface {
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
}

// checkAuthorization извлекает токен из заголовка Authorization и проверяет его. Если токен не передан,
// вернется ошибка ErrTokenNotExist.
func checkAuthorization(c *gin.Context, jwtTokenSecret []byte) (*tokens.UserClaims, error) {
	tokenHeader := c.GetHeader("Authorization")
	bearer := "Bearer "

	if len(tokenHeader) < len(bearer) || tokenHeader[:len(bearer)] != bearer {
		return nil, ErrTokenNotExist
	}

	claims, err := tokens.ValidateUserJWT(tokenHeader[len(bearer):], jwtTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("check authorization: %w", err)
	}
	return claims, nil
}

// AuthRequired проверяет, что запрос авторизован. Записывает в контекст id пользователя (CurrentUserIDKey)
// и id чата (CurrentChatIDKey).
func AuthRequired(jwtTokenSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := checkAuthorization(c, jwtTokenSecret)
		if err != nil {
			_ = c.AbortWithError(http.StatusUnauthorized, err).SetType(gin.ErrorTypePrivate)
			return
		}
		c.Set(CurrentUserIDKey, claims.ID)
		c.Set(CurrentChatIDKey, claims.ChatID)
		c.Next()
	}
}

// AdminRequired пропускает только пользователей с ролью admin. Должен стоять после AuthRequired.
func AdminRequired(users UserGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64(CurrentUserIDKey)

		ctx, cancel := context.WithTimeout(c, defaultLookupTimeout)
		defer cancel()

		user, err := users.GetUser(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				_ = c.AbortWithError(http.StatusForbidden, ErrNotAdmin).SetType(gin.ErrorTypePrivate)
				return
			}
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
			return
		}
		if user.Role != domain.RoleAdmin {
			_ = c.AbortWithError(http.StatusForbidden, ErrNotAdmin).SetType(gin.ErrorTypePrivate)
			return
		}
		c.Next()
	}
}
