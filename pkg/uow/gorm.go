package uow

import (
	"context"

	"gorm.io/gorm"
)

// GormUnitOfWork реализация UOW поверх gorm. Транзакция открывается через gorm.DB.Transaction.
type GormUnitOfWork struct {
	Registry[*gorm.DB]
	db *gorm.DB
}

func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{
		Registry: NewRegistry[*gorm.DB](),
		db:       db,
	}
}

// Do выполняет функцию fn внутри транзакции. Ошибка fn откатывает транзакцию.
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(context.Context, TX) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error { //nolint:wrapcheck
		return fn(ctx, u.Bind(tx))
	})
}

// GetRepository возвращает репозиторий или ошибку ErrRepositoryNotRegistered.
func (u *GormUnitOfWork) GetRepository(name RepositoryName) (Repository, error) {
	return u.Build(name, u.db)
}
