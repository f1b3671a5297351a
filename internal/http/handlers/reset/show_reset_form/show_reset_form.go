package showresetform

import (
	e "ambrotos/internal/core/domain/errors"
	"ambrotos/internal/core/domain/logging"
	"ambrotos/internal/core/domain/reset"
	"ambrotos/internal/core/services"
	service "ambrotos/internal/core/services/validate_reset_token"
	"errors"
	"html/template"
	"net/http"
)

// The one server-rendered page of the flow: the link from the email
// lands here, everything else answers JSON.
var formTemplate = template.Must(template.New("reset_form").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>Choose a new password</title>
</head>
<body>
	<h1>Choose a new password</h1>
	<form method="POST" action="/reset-password?token={{.Token}}">
		<label>New password <input type="password" name="password" required minlength="8"></label>
		<label>Confirm password <input type="password" name="password_confirmation" required minlength="8"></label>
		<button type="submit">Reset password</button>
	</form>
</body>
</html>
`))

type Handler struct {
	log     logging.Logger
	service services.Service[service.Input, service.Result]
}

func New(
	log logging.Logger,
	service services.Service[service.Input, service.Result],
) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(rw, "Invalid token.", http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(r.Context(), service.Input{Token: reset.Token(token)})
	if errors.Is(err, reset.ErrRequestDoesNotExist) {
		http.Error(rw, "Invalid or expired token.", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(rw, "An error occurred, try again later.", http.StatusInternalServerError)
		return
	}

	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := formTemplate.Execute(rw, struct{ Token reset.Token }{Token: result.Request.Token}); err != nil {
		h.log.Error(r.Context(), "Could not render reset form.", logging.Entry("err", err))
	}
}
