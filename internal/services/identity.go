package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/AnshRaj112/feedback-notes/internal/models"
	"github.com/AnshRaj112/feedback-notes/internal/repositories"
	"github.com/AnshRaj112/feedback-notes/pkg/utils"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
var ErrInvalidCredentials = errors.New("invalid username or password")

// IdentityService owns registration and credential checks on top of a UserStore.
type IdentityService struct {
	users repositories.UserStore

	// PasswordParams controls the cost of newly created hashes.
	PasswordParams utils.PasswordParams

	dummyOnce sync.Once
	dummyHash string
}

func NewIdentityService(users repositories.UserStore) *IdentityService {
	return &IdentityService{
		users:          users,
		PasswordParams: utils.DefaultPasswordParams,
	}
}

// NewUser hashes the password and returns an unsaved user record.
func NewUser(username, password, email, firstName, lastName string) (*models.User, error) {
	return newUser(utils.DefaultPasswordParams, username, password, email, firstName, lastName)
}

func newUser(p utils.PasswordParams, username, password, email, firstName, lastName string) (*models.User, error) {
	hashed, err := utils.HashPasswordWith(password, p)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &models.User{
		Username:  strings.TrimSpace(username),
		Password:  hashed,
		Email:     utils.NormalizeEmail(email),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}, nil
}

// Register builds the user and commits it. Duplicates come back as
// repositories.ErrUsernameTaken or repositories.ErrEmailTaken.
func (s *IdentityService) Register(ctx context.Context, username, password, email, firstName, lastName string) (*models.User, error) {
	user, err := newUser(s.PasswordParams, username, password, email, firstName, lastName)
	if err != nil {
		return nil, err
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user when password matches the stored hash.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// Spend the same hashing work as a real check.
			_, _ = utils.VerifyPassword(password, s.dummy())
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil {
		log.Printf("ERROR: stored password hash for %q is unreadable: %v", username, err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *IdentityService) Get(ctx context.Context, username string) (*models.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// Delete removes the user together with all of its feedback.
func (s *IdentityService) Delete(ctx context.Context, username string) error {
	return s.users.DeleteWithFeedback(ctx, username)
}

func (s *IdentityService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := utils.HashPasswordWith("not-a-real-password", s.PasswordParams)
		if err != nil {
			log.Printf("ERROR: failed to build dummy hash: %v", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
