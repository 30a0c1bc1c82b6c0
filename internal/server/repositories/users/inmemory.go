package users

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests and local
// development. A single mutex serializes all writes, which also gives the
// per-account atomicity the challenge field requires.
type InMemoryRepository struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	byEmail map[string]string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrAlreadyExists
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	stored := cloneUser(user)
	r.byID[stored.ID] = stored
	r.byEmail[stored.Email] = stored.ID

	return cloneUser(stored), nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *InMemoryRepository) SetChallenge(ctx context.Context, userID string, c *models.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return common.ErrNotFound
	}
	challenge := *c
	user.Challenge = &challenge
	return nil
}

func (r *InMemoryRepository) ConsumeChallenge(ctx context.Context, userID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return common.ErrNotFound
	}
	// compare and clear under the same lock, mirroring the conditional
	// UPDATE of the Postgres implementation
	if user.Challenge == nil || user.Challenge.Code != code {
		return common.ErrInvalidOTP
	}
	user.Challenge = nil
	return nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.Challenge != nil {
		challenge := *u.Challenge
		c.Challenge = &challenge
	}
	return &c
}
