package uow

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type fakeRepo struct {
	conn string
}

type RegistryTestSuite struct {
	suite.Suite
	registry Registry[string]
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) SetupTest() {
	s.registry = NewRegistry[string]()
	s.Require().NoError(s.registry.Register("fake", func(conn string) Repository {
		return &fakeRepo{conn: conn}
	}))
}

func (s *RegistryTestSuite) TestRegisterTwice() {
	err := s.registry.Register("fake", func(string) Repository { return nil })
	s.ErrorIs(err, ErrRepositoryAlreadyRegistered)
}

func (s *RegistryTestSuite) TestRegisterInvalid() {
	s.ErrorIs(s.registry.Register("", func(string) Repository { return nil }), ErrInvalidRegistration)
	s.ErrorIs(s.registry.Register("other", nil), ErrInvalidRegistration)
}

func (s *RegistryTestSuite) TestTransactionGet() {
	tx := s.registry.Bind("tx-conn")

	repo, err := GetAs[*fakeRepo](tx, "fake")
	s.Require().NoError(err)
	s.Equal("tx-conn", repo.conn)

	_, err = GetAs[*fakeRepo](tx, "missing")
	s.ErrorIs(err, ErrRepositoryNotRegistered)

	_, err = GetAs[string](tx, "fake")
	s.ErrorIs(err, ErrInvalidRepositoryType)
}

func (s *RegistryTestSuite) TestBuild() {
	repo, err := s.registry.Build("fake", "pool")
	s.Require().NoError(err)
	s.Equal("pool", repo.(*fakeRepo).conn)
}
