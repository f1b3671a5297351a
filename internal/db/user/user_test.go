package user

import (
	c "ambrotos/internal/core/domain/common"
	"ambrotos/internal/core/domain/user"
	"ambrotos/internal/db"
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const (
	EMAIL         = "user@example.com"
	PASSWORD_HASH = "test-password-hash"
)

var NOW = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type testAccountSuite struct {
	suite.Suite
	pool              *pgxpool.Pool
	accountRepository *PgxAccountRepository
}

func (suite *testAccountSuite) SetupSuite() {
	suite.pool = db.CreateTestPool()
	if suite.pool == nil {
		suite.T().Skip("TEST_POSTGRESQL_URL is not set")
	}
	suite.accountRepository = NewPgxRepository(suite.pool)
}

func (suite *testAccountSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *testAccountSuite) TearDownTest() {
	db.TruncateTables(suite.pool, "users")
}

func TestPgxAccountRepository(t *testing.T) {
	suite.Run(t, new(testAccountSuite))
}

func (s *testAccountSuite) TestCreateAndGet() {
	created := s.createAccount()

	got, err := s.accountRepository.GetByEmail(context.Background(), c.NewEmail(EMAIL))
	s.NoError(err)
	s.Equal(created.ID, got.ID)
	s.Equal(user.PasswordHash(PASSWORD_HASH), got.PasswordHash)
}

func (s *testAccountSuite) TestDuplicateEmailIsRejected() {
	s.createAccount()

	_, err := s.accountRepository.Create(context.Background(), user.CreateAccountInput{
		Email:        c.NewEmail(EMAIL),
		PasswordHash: user.PasswordHash(PASSWORD_HASH),
		CreatedAt:    NOW,
	})
	s.ErrorIs(err, user.ErrEmailAlreadyExists)
}

func (s *testAccountSuite) TestSetPasswordByEmail() {
	s.createAccount()

	err := s.accountRepository.SetPasswordByEmail(
		context.Background(),
		c.NewEmail(EMAIL),
		user.PasswordHash("new-password-hash"),
	)
	s.NoError(err)

	got, err := s.accountRepository.GetByEmail(context.Background(), c.NewEmail(EMAIL))
	s.NoError(err)
	s.Equal(user.PasswordHash("new-password-hash"), got.PasswordHash)
}

func (s *testAccountSuite) TestSetPasswordForUnknownEmail() {
	err := s.accountRepository.SetPasswordByEmail(
		context.Background(),
		c.NewEmail("nobody@example.com"),
		user.PasswordHash("new-password-hash"),
	)
	s.ErrorIs(err, user.ErrUserDoesNotExist)
}

func (s *testAccountSuite) createAccount() user.Account {
	s.T().Helper()
	a, err := s.accountRepository.Create(context.Background(), user.CreateAccountInput{
		Email:        c.NewEmail(EMAIL),
		PasswordHash: user.PasswordHash(PASSWORD_HASH),
		CreatedAt:    NOW,
	})
	s.Require().NoError(err)
	return a
}
