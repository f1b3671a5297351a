package showresetform

import (
	"ambrotos/internal/core/domain/logging"
	"ambrotos/internal/core/domain/reset"
	service "ambrotos/internal/core/services/validate_reset_token"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const TOKEN = "a3f1b2c4d5e6f7089a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f6071"

type stubService struct {
	err error
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	if s.err != nil {
		return result, s.err
	}
	result.Request = reset.PasswordResetRequest{
		ID:        1,
		Email:     "user@example.com",
		Token:     input.Token,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return result, nil
}

func TestShowResetFormHandler(t *testing.T) {
	cases := []struct {
		id             string
		url            string
		serviceErr     error
		expectedStatus int
		expectedBody   string
	}{
		{
			id:             "valid token renders form",
			url:            "/reset-password?token=" + TOKEN,
			expectedStatus: http.StatusOK,
			expectedBody:   `name="password_confirmation"`,
		},
		{
			id:             "missing token",
			url:            "/reset-password",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid token.",
		},
		{
			id:             "unknown or expired token",
			url:            "/reset-password?token=" + TOKEN,
			serviceErr:     reset.ErrRequestDoesNotExist,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid or expired token.",
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			handler := New(logging.NewFakeLogger(), &stubService{err: testcase.serviceErr})

			req := httptest.NewRequest(http.MethodGet, testcase.url, nil)
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, req)

			assert.Equal(t, testcase.expectedStatus, recorder.Code)
			assert.Contains(t, recorder.Body.String(), testcase.expectedBody)
		})
	}
}

func TestFormEmbedsToken(t *testing.T) {
	handler := New(logging.NewFakeLogger(), &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/reset-password?token="+TOKEN, nil)
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "/reset-password?token="+TOKEN)
}
