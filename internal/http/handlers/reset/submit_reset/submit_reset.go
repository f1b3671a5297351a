package submitreset

import (
	e "ambrotos/internal/core/domain/errors"
	"ambrotos/internal/core/domain/reset"
	"ambrotos/internal/core/domain/user"
	"ambrotos/internal/core/services"
	service "ambrotos/internal/core/services/reset_password"
	"ambrotos/internal/http/handlers/response"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service  services.Service[service.Input, service.Result]
	loginURL string
}

func New(
	service services.Service[service.Input, service.Result],
	loginURL string,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, loginURL: loginURL}
}

type Input struct {
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (i *Input) FromRequest(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return json.NewDecoder(r.Body).Decode(i)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	i.Password = r.PostFormValue("password")
	i.PasswordConfirmation = r.PostFormValue("password_confirmation")
	return nil
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Password, validation.Required, validation.Length(0, 256)),
		validation.Field(&i.PasswordConfirmation, validation.Required, validation.Length(0, 256)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.RenderError(rw, "Invalid token.", http.StatusBadRequest)
		return
	}

	input := Input{}
	if err := input.FromRequest(r); err != nil {
		response.RenderError(rw, "Invalid request data.", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	_, err := h.service.Run(
		r.Context(),
		service.Input{
			Token:                reset.Token(token),
			Password:             user.RawPassword(input.Password),
			PasswordConfirmation: user.RawPassword(input.PasswordConfirmation),
		},
	)
	switch {
	case errors.Is(err, reset.ErrRequestDoesNotExist):
		response.RenderError(rw, "Invalid or expired token.", http.StatusUnprocessableEntity)
	case errors.Is(err, reset.ErrPasswordMismatch):
		response.RenderError(rw, "Passwords do not match.", http.StatusBadRequest)
	case errors.Is(err, reset.ErrPasswordTooShort):
		response.RenderError(rw, "Password must be at least 8 characters.", http.StatusBadRequest)
	case err != nil:
		response.RenderInternalError(rw)
	default:
		response.Render(rw, struct {
			Message  string `json:"message"`
			LoginURL string `json:"login_url"`
		}{
			Message:  "Your password has been reset. You can now log in.",
			LoginURL: h.loginURL,
		}, http.StatusOK)
	}
}
