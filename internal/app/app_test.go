package app

import (
	"io"
	"testing"

	"github.com/fsdevblog/smsbroker/internal/config"
	"github.com/fsdevblog/smsbroker/internal/notify"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/pkg/uow"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type AppTestSuite struct {
	suite.Suite
	app *App
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (s *AppTestSuite) SetupTest() {
	l := logrus.New()
	l.SetOutput(io.Discard)
	s.app = New(&config.Config{StorageDriver: config.StorageDriverMemory}, l)
}

func (s *AppTestSuite) TestOpenStorage_Memory() {
	unitOfWork, closeFn, err := s.app.openStorage(s.T().Context())
	s.Require().NoError(err)
	defer closeFn()

	for _, name := range []repoargs.RepositoryName{
		repoargs.UserRepoName,
		repoargs.ActivationRepoName,
		repoargs.DepositRepoName,
		repoargs.IntentRepoName,
		repoargs.SettingsRepoName,
	} {
		_, repoErr := unitOfWork.GetRepository(uow.RepositoryName(name))
		s.NoError(repoErr, name)
	}
}

func (s *AppTestSuite) TestOpenStorage_Sqlite() {
	s.app.Config.StorageDriver = config.StorageDriverSqlite
	s.app.Config.SqlitePath = s.T().TempDir() + "/app.db"

	unitOfWork, closeFn, err := s.app.openStorage(s.T().Context())
	s.Require().NoError(err)
	defer closeFn()

	_, repoErr := unitOfWork.GetRepository(uow.RepositoryName(repoargs.UserRepoName))
	s.NoError(repoErr)
}

func (s *AppTestSuite) TestOpenStorage_UnknownDriver() {
	s.app.Config.StorageDriver = "mongo"
	_, _, err := s.app.openStorage(s.T().Context())
	s.Error(err)
}

func (s *AppTestSuite) TestNotifier_WithoutRedis() {
	emitter, closeFn := s.app.notifier(s.T().Context())
	defer closeFn()

	fanout, ok := emitter.(notify.Fanout)
	s.Require().True(ok)
	s.Len(fanout, 1)
	s.NoError(emitter.Emit(s.T().Context(), notify.Notification{UserID: 1, Key: "number_issued"}))
}
