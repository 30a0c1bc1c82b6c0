package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/notevault/internal/flagx"
	"github.com/dmitrijs2005/notevault/internal/timex"
)

// JsonConfig is an intermediate DTO for JSON unmarshalling. Interval fields
// use timex.Duration so both "5m" strings and integer nanoseconds parse.
// Zero-valued fields leave the target Config untouched.
type JsonConfig struct {
	EndpointAddr    string         `json:"endpoint_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	SecretKey       string         `json:"secret_key"`
	TokenValidity   timex.Duration `json:"token_validity"`
	OTPValidity     timex.Duration `json:"otp_validity"`
	OTPDigits       int            `json:"otp_digits"`
	RedisAddr       string         `json:"redis_addr"`
	MaxAttempts     int            `json:"max_attempts"`
	AttemptCooldown timex.Duration `json:"attempt_cooldown"`
	SMTPAddr        string         `json:"smtp_addr"`
	SMTPUser        string         `json:"smtp_user"`
	SMTPPassword    string         `json:"smtp_password"`
	MailFrom        string         `json:"mail_from"`
	MailTimeout     timex.Duration `json:"mail_timeout"`
	CORSOrigin      string         `json:"cors_origin"`
}

// parseJson overlays values from the JSON file named by -c/-config, if any.
// An unreadable or invalid file is a startup error and panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidity.Duration != 0 {
		config.TokenValidity = c.TokenValidity.Duration
	}
	if c.OTPValidity.Duration != 0 {
		config.OTPValidity = c.OTPValidity.Duration
	}
	if c.OTPDigits != 0 {
		config.OTPDigits = c.OTPDigits
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.MaxAttempts != 0 {
		config.MaxAttempts = c.MaxAttempts
	}
	if c.AttemptCooldown.Duration != 0 {
		config.AttemptCooldown = c.AttemptCooldown.Duration
	}
	if c.SMTPAddr != "" {
		config.SMTPAddr = c.SMTPAddr
	}
	if c.SMTPUser != "" {
		config.SMTPUser = c.SMTPUser
	}
	if c.SMTPPassword != "" {
		config.SMTPPassword = c.SMTPPassword
	}
	if c.MailFrom != "" {
		config.MailFrom = c.MailFrom
	}
	if c.MailTimeout.Duration != 0 {
		config.MailTimeout = c.MailTimeout.Duration
	}
	if c.CORSOrigin != "" {
		config.CORSOrigin = c.CORSOrigin
	}
}
