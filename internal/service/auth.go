package service

import (
	"context"
	"errors"

	"github.com/dkorolev/playsave/internal/models"
)

// ErrInvalidCredentials indicates that the username or password was wrong.
// It deliberately does not distinguish the two cases.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// InsertUser creates a new user row with the given username and
	// password digest. Returns repository.ErrDuplicateUser if the
	// username is taken.
	InsertUser(ctx context.Context, username, digest string) error
	// FindUserByUsername fetches a user, or (nil, nil) when absent.
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService implements registration and login on top of a UserRepository
// and a password Hasher.
type AuthService struct {
	repo   UserRepository
	hasher *Hasher
}

// NewAuthService constructs an AuthService using the provided repository
// and hasher.
func NewAuthService(repo UserRepository, hasher *Hasher) *AuthService {
	return &AuthService{repo: repo, hasher: hasher}
}

// Register hashes the password and creates the user. Inputs are assumed to
// have passed validation. The duplicate-username error from the repository
// is passed through untranslated.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	return s.repo.InsertUser(ctx, username, digest)
}

// Login verifies the credentials and returns the matching user, or
// ErrInvalidCredentials. When the user does not exist a dummy verification
// is performed so that the response time matches the wrong-password path.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.hasher.DummyVerify()
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
