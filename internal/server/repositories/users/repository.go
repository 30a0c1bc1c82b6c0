// Package users stores accounts: credential hash, role and the current OTP
// challenge. The store is the single source of truth for challenge state;
// challenge writes are single-statement updates and therefore atomic per
// account.
package users

import (
	"context"

	"github.com/dmitrijs2005/notevault/internal/server/models"
)

type Repository interface {
	// Create inserts a new account. A duplicate email yields
	// common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the account for a normalized email, or
	// common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the account by id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// SetChallenge overwrites the account's OTP challenge in one atomic
	// update. Any previous challenge is discarded.
	SetChallenge(ctx context.Context, userID string, c *models.Challenge) error

	// ConsumeChallenge removes the account's OTP challenge only when the
	// stored code still equals code, in one atomic update. When the
	// challenge is already gone or holds a different code it returns
	// common.ErrInvalidOTP, so two concurrent logins can never both spend
	// the same code.
	ConsumeChallenge(ctx context.Context, userID, code string) error
}
