package requestreset

import (
	c "ambrotos/internal/core/domain/common"
	e "ambrotos/internal/core/domain/errors"
	ratelimiter "ambrotos/internal/core/domain/rate_limiter"
	"ambrotos/internal/core/services"
	service "ambrotos/internal/core/services/request_password_reset"
	"ambrotos/internal/http/handlers/response"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// The confirmation is identical whether or not the address belongs to an
// account, so the endpoint cannot be used to enumerate members.
const confirmationMessage = "If an account exists for this address, a reset link has been sent."

type Handler struct {
	service    services.Service[service.Input, service.Result]
	isTestMode bool
}

func New(
	service services.Service[service.Input, service.Result],
	isTestMode bool,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, isTestMode: isTestMode}
}

type Input struct {
	Email string `json:"email"`
}

func (i *Input) FromRequest(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return json.NewDecoder(r.Body).Decode(i)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	i.Email = r.PostFormValue("email")
	return nil
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromRequest(r); err != nil {
		response.RenderError(rw, "Invalid email.", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.RenderError(rw, "Invalid email.", http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		service.Input{Email: c.NewEmail(input.Email)},
	)
	if err != nil {
		if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
			response.RenderRateLimitExceeded(rw)
			return
		}
		// Storage and delivery failures alike: detail stays in the
		// server logs, the client sees a generic message.
		response.RenderInternalError(rw)
		return
	}

	if h.isTestMode {
		rw.Header().Set("x-test-password-reset-token", string(result.Request.Token))
	}
	response.Render(rw, struct {
		Message string `json:"message"`
	}{Message: confirmationMessage}, http.StatusOK)
}
