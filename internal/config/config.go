package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	IsTestMode     bool     `env:"TEST_MODE" envDefault:"false"`
	Port           int      `env:"PORT" envDefault:"9090"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	Secret        string `env:"SECRET,required"`
	PostgresqlURL string `env:"POSTGRESQL_URL,required"`
	RedisURL      string `env:"REDIS_URL,required"`

	BcryptHasherCost int `env:"BCRYPT_HASHER_COST" envDefault:"10"`

	PasswordResetTokenTTL        time.Duration `env:"PASSWORD_RESET_TOKEN_TTL" envDefault:"1h"`
	PasswordResetRequestsPerHour uint16        `env:"PASSWORD_RESET_REQUESTS_PER_HOUR" envDefault:"3"`
	PasswordResetBaseURL         url.URL       `env:"PASSWORD_RESET_BASE_URL,required"`
	LoginURL                     string        `env:"LOGIN_URL,required"`

	AwsRegion       string        `env:"AWS_REGION,required"`
	AwsAccessKey    string        `env:"AWS_ACCESS_KEY,required"`
	AwsSecretKey    string        `env:"AWS_SECRET_KEY,required"`
	MailSender      string        `env:"MAIL_SENDER,required"`
	MailSenderName  string        `env:"MAIL_SENDER_NAME" envDefault:"Ambrotos"`
	MailSendTimeout time.Duration `env:"MAIL_SEND_TIMEOUT" envDefault:"10s"`
}

func Load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}
	return config, nil
}
