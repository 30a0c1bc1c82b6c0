package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig is an intermediate DTO for environment parsing; only variables
// that are actually set overlay the Config.
type envConfig struct {
	EndpointAddr    string        `env:"ADDRESS"`
	DatabaseDSN     string        `env:"DATABASE_DSN"`
	SecretKey       string        `env:"SECRET_KEY"`
	TokenValidity   time.Duration `env:"TOKEN_VALIDITY"`
	OTPValidity     time.Duration `env:"OTP_VALIDITY"`
	OTPDigits       int           `env:"OTP_DIGITS"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	MaxAttempts     int           `env:"MAX_ATTEMPTS"`
	AttemptCooldown time.Duration `env:"ATTEMPT_COOLDOWN"`
	SMTPAddr        string        `env:"SMTP_ADDR"`
	SMTPUser        string        `env:"SMTP_USER"`
	SMTPPassword    string        `env:"SMTP_PASSWORD"`
	MailFrom        string        `env:"MAIL_FROM"`
	MailTimeout     time.Duration `env:"MAIL_TIMEOUT"`
	CORSOrigin      string        `env:"CORS_ORIGIN"`
}

func parseEnv(config *Config) {
	e := envConfig{}
	if err := env.Parse(&e); err != nil {
		panic(err)
	}

	if e.EndpointAddr != "" {
		config.EndpointAddr = e.EndpointAddr
	}
	if e.DatabaseDSN != "" {
		config.DatabaseDSN = e.DatabaseDSN
	}
	if e.SecretKey != "" {
		config.SecretKey = e.SecretKey
	}
	if e.TokenValidity != 0 {
		config.TokenValidity = e.TokenValidity
	}
	if e.OTPValidity != 0 {
		config.OTPValidity = e.OTPValidity
	}
	if e.OTPDigits != 0 {
		config.OTPDigits = e.OTPDigits
	}
	if e.RedisAddr != "" {
		config.RedisAddr = e.RedisAddr
	}
	if e.MaxAttempts != 0 {
		config.MaxAttempts = e.MaxAttempts
	}
	if e.AttemptCooldown != 0 {
		config.AttemptCooldown = e.AttemptCooldown
	}
	if e.SMTPAddr != "" {
		config.SMTPAddr = e.SMTPAddr
	}
	if e.SMTPUser != "" {
		config.SMTPUser = e.SMTPUser
	}
	if e.SMTPPassword != "" {
		config.SMTPPassword = e.SMTPPassword
	}
	if e.MailFrom != "" {
		config.MailFrom = e.MailFrom
	}
	if e.MailTimeout != 0 {
		config.MailTimeout = e.MailTimeout
	}
	if e.CORSOrigin != "" {
		config.CORSOrigin = e.CORSOrigin
	}
}
