package repoargs

import "github.com/fsdevblog/smsbroker/internal/domain"

// UpsertUser создает пользователя или обновляет его профиль. Роль применяется только при создании.
type UpsertUser struct {
	UserID   int64
	ChatID   int64
	Username string
	Lang     string
	Role     domain.RoleType
}
