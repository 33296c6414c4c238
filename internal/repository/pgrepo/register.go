package pgrepo

import (
	"fmt"

	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/pkg/uow"
)

// Register регистрирует репозитории postgres в u.
func Register(u *uow.UnitOfWork) error {
	factories := map[repoargs.RepositoryName]uow.RepositoryFactory[uow.DBTX]{
		repoargs.UserRepoName:       func(c uow.DBTX) uow.Repository { return NewUserRepository(c) },
		repoargs.ActivationRepoName: func(c uow.DBTX) uow.Repository { return NewActivationRepository(c) },
		repoargs.DepositRepoName:    func(c uow.DBTX) uow.Repository { return NewDepositRepository(c) },
		repoargs.IntentRepoName:     func(c uow.DBTX) uow.Repository { return NewIntentRepository(c) },
		repoargs.SettingsRepoName:   func(c uow.DBTX) uow.Repository { return NewSettingsRepository(c) },
	}
	for name, factory := range factories {
		if err := u.Register(uow.RepositoryName(name), factory); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
	}
	return nil
}
