package app

import (
	"ambrotos/internal/app/deps"
	"ambrotos/internal/app/services"
	requestreset "ambrotos/internal/http/handlers/reset/request_reset"
	showresetform "ambrotos/internal/http/handlers/reset/show_reset_form"
	submitreset "ambrotos/internal/http/handlers/reset/submit_reset"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	router.Method(
		http.MethodPost,
		"/request-reset",
		requestreset.New(s.RequestPasswordReset, deps.Config.IsTestMode),
	)
	router.Method(http.MethodGet, "/reset-password", showresetform.New(deps.Logger, s.ValidateResetToken))
	router.Method(http.MethodPost, "/reset-password", submitreset.New(s.ResetPassword, deps.Config.LoginURL))

	address := fmt.Sprintf("0.0.0.0:%d", deps.Config.Port)

	return &http.Server{
		Handler:           router,
		Addr:              address,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// The write timeout must cover the bounded mail send.
		WriteTimeout: deps.Config.MailSendTimeout + 5*time.Second,
		IdleTimeout:  5 * time.Second,
	}
}
