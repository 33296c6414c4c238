// Package gormrepo хранилище на gorm поверх sqlite. Суммы хранятся в миллионных долях (int64).
package gormrepo

import (
	"errors"
	"fmt"
	"time"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/pkg/uow"
)

const (
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
	slowQueryThreshold         = 200 * time.Millisecond
)

// Open открывает базу sqlite по dsn и создает схему. Все запросы идут через одно соединение,
// sqlite все равно сериализует запись.
func Open(dsn string, l *logrus.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         gormlogger.Discard,
	}
	if l != nil {
		cfg.Logger = gormlogger.New(l, gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err = Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &Activation{}, &Deposit{}, &PurchaseIntent{}, &Setting{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Register регистрирует репозитории gorm в u.
func Register(u *uow.GormUnitOfWork) error {
	factories := map[repoargs.RepositoryName]uow.RepositoryFactory[*gorm.DB]{
		repoargs.UserRepoName:       func(db *gorm.DB) uow.Repository { return NewUserRepository(db) },
		repoargs.ActivationRepoName: func(db *gorm.DB) uow.Repository { return NewActivationRepository(db) },
		repoargs.DepositRepoName:    func(db *gorm.DB) uow.Repository { return NewDepositRepository(db) },
		repoargs.IntentRepoName:     func(db *gorm.DB) uow.Repository { return NewIntentRepository(db) },
		repoargs.SettingsRepoName:   func(db *gorm.DB) uow.Repository { return NewSettingsRepository(db) },
	}
	for name, factory := range factories {
		if err := u.Register(uow.RepositoryName(name), factory); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
	}
	return nil
}

// convertErr приводит ошибки gorm и sqlite к ошибкам domain так же, как это делает pgrepo.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, formatArgs...)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("[repository/%s] %w", msg, domain.ErrRecordNotFound)
	}

	errType := domain.ErrStorageUnavailable
	if isDuplicate(err) {
		errType = domain.ErrDuplicateKey
	}
	return fmt.Errorf("[repository/%s] %w: %w", msg, errType, err)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqliteConstraintUnique || code == sqliteConstraintPrimaryKey
	}
	return false
}
