package resetpassword

import (
	c "ambrotos/internal/core/domain/common"
	"ambrotos/internal/core/domain/logging"
	"ambrotos/internal/core/domain/reset"
	"ambrotos/internal/core/domain/user"
	"ambrotos/internal/core/services"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const EMAIL = "user@example.com"
const TOKEN = "a3f1b2c4d5e6f7089a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f6071"

var NOW = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type testSuite struct {
	log         *logging.FakeLogger
	resetRepo   *reset.FakeRepository
	accountRepo *user.FakeAccountRepository
	hasher      *user.FakePasswordHasher
}

func setupSuite() *testSuite {
	accountRepo := user.NewFakeAccountRepository()
	accountRepo.Accounts = []user.Account{
		{ID: 1, Email: c.NewEmail(EMAIL), PasswordHash: "old-hash", CreatedAt: NOW},
	}
	return &testSuite{
		log:         logging.NewFakeLogger(),
		resetRepo:   reset.NewFakeRepository(func() time.Time { return NOW }),
		accountRepo: accountRepo,
		hasher:      user.NewFakePasswordHasher(),
	}
}

func (s *testSuite) createService() services.Service[Input, Result] {
	return New(s.log, s.resetRepo, s.accountRepo, s.hasher)
}

func (s *testSuite) createRequest(t *testing.T) reset.PasswordResetRequest {
	t.Helper()
	request, err := s.resetRepo.Create(context.Background(), reset.CreateInput{
		Email:     c.NewEmail(EMAIL),
		Token:     reset.Token(TOKEN),
		ExpiresAt: NOW.Add(time.Hour),
	})
	require.NoError(t, err)
	return request
}

func TestPasswordSuccessfullyReset(t *testing.T) {
	suite := setupSuite()
	suite.createRequest(t)
	service := suite.createService()

	result, err := service.Run(context.Background(), Input{
		Token:                reset.Token(TOKEN),
		Password:             "new-password",
		PasswordConfirmation: "new-password",
	})

	require.NoError(t, err)
	require.Equal(t, EMAIL, result.Email)

	account, err := suite.accountRepo.GetByEmail(context.Background(), c.NewEmail(EMAIL))
	require.NoError(t, err)
	require.True(t, suite.hasher.ValidatePassword("new-password", account.PasswordHash))

	// The token is single use.
	_, err = suite.resetRepo.GetActiveByToken(context.Background(), reset.Token(TOKEN))
	require.ErrorIs(t, err, reset.ErrRequestDoesNotExist)
}

func TestSecondSubmissionFailsAfterConsumption(t *testing.T) {
	suite := setupSuite()
	suite.createRequest(t)
	service := suite.createService()

	input := Input{
		Token:                reset.Token(TOKEN),
		Password:             "new-password",
		PasswordConfirmation: "new-password",
	}
	_, err := service.Run(context.Background(), input)
	require.NoError(t, err)

	_, err = service.Run(context.Background(), input)
	require.ErrorIs(t, err, reset.ErrRequestDoesNotExist)
}

func TestConcurrentSubmissionsExactlyOneWins(t *testing.T) {
	suite := setupSuite()
	suite.createRequest(t)
	service := suite.createService()

	input := Input{
		Token:                reset.Token(TOKEN),
		Password:             "new-password",
		PasswordConfirmation: "new-password",
	}

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for ix := 0; ix < workers; ix++ {
		ix := ix
		go func() {
			defer wg.Done()
			_, errs[ix] = service.Run(context.Background(), input)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, reset.ErrRequestDoesNotExist)
		}
	}
	require.Equal(t, 1, succeeded)
}

func TestPasswordMismatchDoesNotMutateStorage(t *testing.T) {
	suite := setupSuite()
	suite.createRequest(t)
	service := suite.createService()

	_, err := service.Run(context.Background(), Input{
		Token:                reset.Token(TOKEN),
		Password:             "new-password",
		PasswordConfirmation: "another-password",
	})

	require.ErrorIs(t, err, reset.ErrPasswordMismatch)

	_, err = suite.resetRepo.GetActiveByToken(context.Background(), reset.Token(TOKEN))
	require.NoError(t, err)
	account, err := suite.accountRepo.GetByEmail(context.Background(), c.NewEmail(EMAIL))
	require.NoError(t, err)
	require.Equal(t, user.PasswordHash("old-hash"), account.PasswordHash)
}

func TestPasswordLengthPolicy(t *testing.T) {
	cases := []struct {
		id       string
		password string
		err      error
	}{
		{id: "7 characters fails", password: "1234567", err: reset.ErrPasswordTooShort},
		{id: "8 characters passes", password: "12345678", err: nil},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			suite := setupSuite()
			suite.createRequest(t)
			service := suite.createService()

			_, err := service.Run(context.Background(), Input{
				Token:                reset.Token(TOKEN),
				Password:             user.RawPassword(testcase.password),
				PasswordConfirmation: user.RawPassword(testcase.password),
			})

			if testcase.err == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, testcase.err)
			}
		})
	}
}

func TestExpiredToken(t *testing.T) {
	suite := setupSuite()
	_, err := suite.resetRepo.Create(context.Background(), reset.CreateInput{
		Email:     c.NewEmail(EMAIL),
		Token:     reset.Token(TOKEN),
		ExpiresAt: NOW.Add(-time.Second),
	})
	require.NoError(t, err)
	service := suite.createService()

	_, err = service.Run(context.Background(), Input{
		Token:                reset.Token(TOKEN),
		Password:             "new-password",
		PasswordConfirmation: "new-password",
	})

	require.ErrorIs(t, err, reset.ErrRequestDoesNotExist)
}

func TestMissingAccountStillConsumesToken(t *testing.T) {
	suite := setupSuite()
	suite.accountRepo.Accounts = nil
	suite.createRequest(t)
	service := suite.createService()

	_, err := service.Run(context.Background(), Input{
		Token:                reset.Token(TOKEN),
		Password:             "new-password",
		PasswordConfirmation: "new-password",
	})

	require.NoError(t, err)
	_, err = suite.resetRepo.GetActiveByToken(context.Background(), reset.Token(TOKEN))
	require.ErrorIs(t, err, reset.ErrRequestDoesNotExist)
}
