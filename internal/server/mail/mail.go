// Package mail provides the outbound email capability used for OTP
// delivery. The orchestrator only sees the Sender interface; delivery
// failures come back as ordinary errors and never panic past this boundary.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notevault/internal/logging"
)

// Message is a single outbound email. HTML may be empty, Text may not.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a message to a single recipient.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// OTPMessage builds the login-code email for a recipient. The code appears
// only in the message body, never in logs.
func OTPMessage(to, code string, validity time.Duration) Message {
	minutes := int(validity.Minutes())
	return Message{
		To:      to,
		Subject: "Your OTP for NoteVault",
		Text:    fmt.Sprintf("Your OTP is: %s. This OTP is valid for %d minutes.", code, minutes),
		HTML: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px;">
  <h2>NoteVault - OTP Verification</h2>
  <p>Your One-Time Password (OTP) is:</p>
  <h1 style="background: #f4f4f4; padding: 15px; border-radius: 5px; display: inline-block;">%s</h1>
  <p>This OTP is valid for %d minutes.</p>
  <p>If you didn't request this, please ignore this email.</p>
</div>`, code, minutes),
	}
}

// LogSender is a development Sender that records that a delivery happened
// without writing the message body anywhere.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(l logging.Logger) *LogSender {
	return &LogSender{logger: l.With("module", "mail")}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info(ctx, "email delivery skipped (log sender)", "to", msg.To, "subject", msg.Subject)
	return nil
}
