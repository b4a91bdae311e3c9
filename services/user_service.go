package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/insidehealthgt/hms/models"
	"github.com/insidehealthgt/hms/repositories"
)

// ErrInvalidPassword is returned when the current password does not match
var ErrInvalidPassword = errors.New("current password is incorrect")

// UserService interface defines staff user business logic
type UserService interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, form *models.UserForm) (*models.User, error)
	Update(ctx context.Context, id int64, form *models.UserForm) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	ChangePassword(ctx context.Context, id int64, form *models.PasswordForm) error
	ResolveLogin(ctx context.Context, email, name string) (*models.User, error)
}

type userService struct {
	users repositories.UserRepository
	tx    Transactor
	cost  int
}

// NewUserService creates a new user service
func NewUserService(users repositories.UserRepository, tx Transactor) UserService {
	return &userService{users: users, tx: tx, cost: bcrypt.DefaultCost}
}

// GetAll retrieves all users
func (s *userService) GetAll(ctx context.Context) ([]models.User, error) {
	return s.users.GetAll(ctx)
}

// GetByID retrieves a user by ID
func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid user ID %d: %w", id, repositories.ErrNotFound)
	}
	return s.users.GetByID(ctx, id)
}

// Create registers a new user with a hashed password
func (s *userService) Create(ctx context.Context, form *models.UserForm) (*models.User, error) {
	if err := models.Check(form.Validate(true)); err != nil {
		return nil, err
	}

	hash, err := s.hash(form.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{PasswordHash: hash, MustChangePassword: true}
	form.Apply(user)

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.ensureEmailFree(ctx, user.Email, 0); err != nil {
			return err
		}
		return s.users.Create(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Update changes profile fields and, when given, the password
func (s *userService) Update(ctx context.Context, id int64, form *models.UserForm) (*models.User, error) {
	if err := models.Check(form.Validate(false)); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if user, err = s.users.GetByID(ctx, id); err != nil {
			return err
		}
		if err := s.ensureEmailFree(ctx, form.Email, id); err != nil {
			return err
		}

		form.Apply(user)
		if form.Password != "" {
			if user.PasswordHash, err = s.hash(form.Password); err != nil {
				return err
			}
		}
		return s.users.Update(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete removes a user
func (s *userService) Delete(ctx context.Context, id int64) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.users.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ChangePassword verifies the current password and stores a new hash
func (s *userService) ChangePassword(ctx context.Context, id int64, form *models.PasswordForm) error {
	if err := models.Check(form.Validate()); err != nil {
		return err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.CurrentPassword)) != nil {
			return ErrInvalidPassword
		}

		if user.PasswordHash, err = s.hash(form.NewPassword); err != nil {
			return err
		}
		user.MustChangePassword = false
		return s.users.Update(ctx, user)
	})
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// ResolveLogin finds the local user for an identity provider login, creating
// one on first sign-in
func (s *userService) ResolveLogin(ctx context.Context, email, name string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &models.ValidationError{Messages: []string{"Identity provider did not supply an email"}}
	}

	var user *models.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.users.GetByEmail(ctx, email)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}

		secret, err := randomSecret()
		if err != nil {
			return err
		}
		hash, err := s.hash(secret)
		if err != nil {
			return err
		}

		user = &models.User{
			Username:      usernameFromEmail(email),
			Email:         email,
			PasswordHash:  hash,
			Status:        models.UserStatusActive,
			EmailVerified: true,
			Roles:         []string{models.RoleUser},
		}
		if name = strings.TrimSpace(name); name != "" {
			user.FirstName = &name
		}
		return s.users.Create(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve login: %w", err)
	}
	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("user %s is %s: %w", user.Username, strings.ToLower(string(user.Status)), ErrConflict)
	}
	return user, nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("email %s is already in use: %w", email, ErrConflict)
	}
	return nil
}

func (s *userService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func usernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return strings.ToLower(email[:at])
	}
	return strings.ToLower(email)
}

func randomSecret() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	return hex.EncodeToString(b), nil
}
