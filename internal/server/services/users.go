// Package services contains server-side business logic. This file implements
// UserService: registration and the two-step login state machine
// (password check, OTP issuance and delivery, OTP verification, session
// token issuance).
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/dbx"
	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/server/auth"
	"github.com/dmitrijs2005/notevault/internal/server/config"
	"github.com/dmitrijs2005/notevault/internal/server/limiter"
	"github.com/dmitrijs2005/notevault/internal/server/mail"
	"github.com/dmitrijs2005/notevault/internal/server/models"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/repomanager"
)

const minPasswordLength = 6

// UserService provides authentication-related operations:
//   - Register: create accounts with hashed credentials
//   - Login: verify the password and issue + deliver an OTP challenge
//   - ResendOTP: re-issue the challenge for an in-progress login
//   - VerifyOTP: complete the login and mint a session token
//   - Profile: public account projection
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      mail.Sender
	limiter     *limiter.Limiter // optional, nil disables attempt limiting
	logger      logging.Logger
	jwtSecret   []byte

	tokenValidity time.Duration
	otpValidity   time.Duration
	otpDigits     int
	mailTimeout   time.Duration
}

// NewUserService constructs a UserService using repositories, collaborators
// and server config. The limiter may be nil.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, mailer mail.Sender, lim *limiter.Limiter, l logging.Logger, cfg *config.Config) *UserService {
	digits := cfg.OTPDigits
	if digits == 0 {
		digits = auth.OTPDigits
	}
	return &UserService{
		db:            db,
		repomanager:   m,
		mailer:        mailer,
		limiter:       lim,
		logger:        l.With("module", "users_service"),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidity,
		otpValidity:   cfg.OTPValidity,
		otpDigits:     digits,
		mailTimeout:   cfg.MailTimeout,
	}
}

// NormalizeEmail is the case normalization applied to every identity before
// it touches storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

// Register creates a new account. The password is hashed here, explicitly,
// before anything is stored. An empty role selects models.RoleStandard.
func (s *UserService) Register(ctx context.Context, email, password, role string) (*models.User, error) {

	email = NormalizeEmail(email)
	if !validEmail(email) {
		return nil, fmt.Errorf("%w: a valid email is required", common.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLength)
	}

	parsedRole, err := models.ParseRole(role)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{Email: email, PasswordHash: hash, Role: parsedRole}

	repo := s.repomanager.Users(s.db)
	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		s.logger.Error(ctx, "error creating user", "error", err.Error())
		return nil, common.ErrInternal
	}

	s.logger.Info(ctx, "user registered", "email", user.Email, "role", string(user.Role))
	return user, nil
}

// Login is step 1 of the login flow. On a password match it issues a fresh
// OTP challenge (overwriting any previous one) and delivers it out-of-band.
// A delivery failure is surfaced as ErrDeliveryFailure but deliberately does
// not roll the challenge back, so a resend or the undelivered code can still
// complete the login.
func (s *UserService) Login(ctx context.Context, email, password string) error {

	email = NormalizeEmail(email)

	if err := s.checkAttempts(ctx, "login:"+email); err != nil {
		return err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		s.logger.Error(ctx, "error looking up user", "error", err.Error())
		return common.ErrInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		s.recordFailure(ctx, "login:"+email)
		return common.ErrInvalidCredentials
	}
	s.resetAttempts(ctx, "login:"+email)

	challenge, err := auth.NewChallenge(s.otpDigits, s.otpValidity, time.Now())
	if err != nil {
		return common.ErrInternal
	}

	if err := repo.SetChallenge(ctx, user.ID, challenge); err != nil {
		s.logger.Error(ctx, "error storing challenge", "error", err.Error())
		return common.ErrInternal
	}

	return s.deliver(ctx, user.Email, challenge.Code)
}

// ResendOTP re-issues the challenge for an in-progress login. It requires an
// unexpired existing challenge as proof that the password step completed;
// otherwise the caller must start over with Login.
func (s *UserService) ResendOTP(ctx context.Context, email string) error {

	email = NormalizeEmail(email)

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		s.logger.Error(ctx, "error looking up user", "error", err.Error())
		return common.ErrInternal
	}

	if user.Challenge == nil || !time.Now().Before(user.Challenge.ExpiresAt) {
		return common.ErrInvalidOTP
	}

	challenge, err := auth.NewChallenge(s.otpDigits, s.otpValidity, time.Now())
	if err != nil {
		return common.ErrInternal
	}

	// the previous code becomes invalid the moment this update lands
	if err := repo.SetChallenge(ctx, user.ID, challenge); err != nil {
		s.logger.Error(ctx, "error storing challenge", "error", err.Error())
		return common.ErrInternal
	}

	return s.deliver(ctx, user.Email, challenge.Code)
}

// VerifyOTP is step 2 of the login flow. On success the challenge is cleared
// first, so a still-unexpired code can never be replayed, and then a session
// token is minted for the account's identity and role.
func (s *UserService) VerifyOTP(ctx context.Context, email, code string) (string, *models.User, error) {

	email = NormalizeEmail(email)

	if err := s.checkAttempts(ctx, "otp:"+email); err != nil {
		return "", nil, err
	}

	// the expiry check happens here, but the code match is re-checked by
	// the conditional consume, so a concurrent verification of the same
	// code can succeed at most once
	var user *models.User
	err := s.inTx(ctx, func(ctx context.Context, db dbx.DBTX) error {
		repo := s.repomanager.Users(db)
		u, err := repo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if !auth.ChallengeValid(u.Challenge, code, time.Now()) {
			return common.ErrInvalidOTP
		}
		if err := repo.ConsumeChallenge(ctx, u.ID, code); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			return "", nil, common.ErrNotFound
		case errors.Is(err, common.ErrInvalidOTP):
			s.recordFailure(ctx, "otp:"+email)
			return "", nil, common.ErrInvalidOTP
		}
		s.logger.Error(ctx, "error verifying otp", "error", err.Error())
		return "", nil, common.ErrInternal
	}
	s.resetAttempts(ctx, "otp:"+email)

	token, err := auth.GenerateToken(user, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.logger.Error(ctx, "error generating token", "error", err.Error())
		return "", nil, common.ErrInternal
	}

	s.logger.Info(ctx, "login completed", "email", user.Email)

	user.Challenge = nil
	return token, user, nil
}

// Profile returns the account for a verified token subject.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		s.logger.Error(ctx, "error looking up user", "error", err.Error())
		return nil, common.ErrInternal
	}
	return user, nil
}

// inTx runs fn inside a database transaction. A nil db handle (fake
// repositories in tests) runs fn directly.
func (s *UserService) inTx(ctx context.Context, fn func(ctx context.Context, db dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, s.db)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}

// deliver sends the OTP email within the configured timeout. The code is
// never logged.
func (s *UserService) deliver(ctx context.Context, email, code string) error {
	mctx := ctx
	if s.mailTimeout > 0 {
		var cancel context.CancelFunc
		mctx, cancel = context.WithTimeout(ctx, s.mailTimeout)
		defer cancel()
	}

	msg := mail.OTPMessage(email, code, s.otpValidity)
	if err := s.mailer.Send(mctx, msg); err != nil {
		s.logger.Error(ctx, "otp delivery failed", "email", email, "error", err.Error())
		return common.ErrDeliveryFailure
	}

	s.logger.Info(ctx, "otp sent", "email", email)
	return nil
}

func (s *UserService) checkAttempts(ctx context.Context, key string) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Check(ctx, key)
}

func (s *UserService) recordFailure(ctx context.Context, key string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Fail(ctx, key); err != nil && !errors.Is(err, common.ErrRateLimited) {
		s.logger.Warn(ctx, "limiter error", "error", err.Error())
	}
}

func (s *UserService) resetAttempts(ctx context.Context, key string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Reset(ctx, key); err != nil {
		s.logger.Warn(ctx, "limiter error", "error", err.Error())
	}
}
