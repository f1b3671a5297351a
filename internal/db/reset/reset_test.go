package reset

import (
	c "ambrotos/internal/core/domain/common"
	"ambrotos/internal/core/domain/reset"
	"ambrotos/internal/db"
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const (
	EMAIL = "user@example.com"
	TOKEN = "a3f1b2c4d5e6f7089a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f6071"
)

type testResetSuite struct {
	suite.Suite
	pool            *pgxpool.Pool
	resetRepository *PgxResetRepository
}

func (suite *testResetSuite) SetupSuite() {
	suite.pool = db.CreateTestPool()
	if suite.pool == nil {
		suite.T().Skip("TEST_POSTGRESQL_URL is not set")
	}
	suite.resetRepository = NewPgxRepository(suite.pool)
	err := suite.resetRepository.EnsureSchema(context.Background())
	suite.Require().NoError(err)
}

func (suite *testResetSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *testResetSuite) TearDownTest() {
	db.TruncateTables(suite.pool, "password_resets")
}

func TestPgxResetRepository(t *testing.T) {
	suite.Run(t, new(testResetSuite))
}

func (s *testResetSuite) TestEnsureSchemaIsIdempotent() {
	for i := 0; i < 3; i++ {
		err := s.resetRepository.EnsureSchema(context.Background())
		s.NoError(err)
	}
}

func (s *testResetSuite) TestCreateAndGetActive() {
	expiresAt := time.Now().UTC().Add(time.Hour)

	created, err := s.resetRepository.Create(context.Background(), reset.CreateInput{
		Email:     c.NewEmail(EMAIL),
		Token:     reset.Token(TOKEN),
		ExpiresAt: expiresAt,
	})
	s.NoError(err)
	s.NotZero(created.ID)

	got, err := s.resetRepository.GetActiveByToken(context.Background(), reset.Token(TOKEN))
	s.NoError(err)
	s.Equal(created.ID, got.ID)
	s.Equal(c.Email(EMAIL), got.Email)
	s.Equal(reset.Token(TOKEN), got.Token)
	s.WithinDuration(expiresAt, got.ExpiresAt, time.Second)
}

func (s *testResetSuite) TestExpiredTokenIsNotReturned() {
	_, err := s.resetRepository.Create(context.Background(), reset.CreateInput{
		Email:     c.NewEmail(EMAIL),
		Token:     reset.Token(TOKEN),
		ExpiresAt: time.Now().UTC().Add(-time.Second),
	})
	s.NoError(err)

	_, err = s.resetRepository.GetActiveByToken(context.Background(), reset.Token(TOKEN))
	s.ErrorIs(err, reset.ErrRequestDoesNotExist)
}

func (s *testResetSuite) TestDuplicateTokenIsRejected() {
	input := reset.CreateInput{
		Email:     c.NewEmail(EMAIL),
		Token:     reset.Token(TOKEN),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	_, err := s.resetRepository.Create(context.Background(), input)
	s.NoError(err)

	_, err = s.resetRepository.Create(context.Background(), input)
	s.ErrorIs(err, reset.ErrTokenAlreadyExists)
}

func (s *testResetSuite) TestMultipleRequestsPerEmail() {
	otherToken := "b" + TOKEN[1:]
	for _, token := range []string{TOKEN, otherToken} {
		_, err := s.resetRepository.Create(context.Background(), reset.CreateInput{
			Email:     c.NewEmail(EMAIL),
			Token:     reset.Token(token),
			ExpiresAt: time.Now().UTC().Add(time.Hour),
		})
		s.NoError(err)
	}

	for _, token := range []string{TOKEN, otherToken} {
		_, err := s.resetRepository.GetActiveByToken(context.Background(), reset.Token(token))
		s.NoError(err)
	}
}

func (s *testResetSuite) TestDeleteByTokenReportsAffectedRows() {
	_, err := s.resetRepository.Create(context.Background(), reset.CreateInput{
		Email:     c.NewEmail(EMAIL),
		Token:     reset.Token(TOKEN),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	})
	s.NoError(err)

	deleted, err := s.resetRepository.DeleteByToken(context.Background(), reset.Token(TOKEN))
	s.NoError(err)
	s.Equal(int64(1), deleted)

	deleted, err = s.resetRepository.DeleteByToken(context.Background(), reset.Token(TOKEN))
	s.NoError(err)
	s.Equal(int64(0), deleted)

	_, err = s.resetRepository.GetActiveByToken(context.Background(), reset.Token(TOKEN))
	s.ErrorIs(err, reset.ErrRequestDoesNotExist)
}
