package services

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/recipes-be/internal/models"
	"github.com/isdelr/recipes-be/internal/validation"
	"github.com/uptrace/bun"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	CreateUser(ctx context.Context, username, email, password string) (models.User, error)
	AuthenticateUser(ctx context.Context, username, password string) (models.User, error)
	UpdatePassword(ctx context.Context, id int64, currentPassword, newPassword string) error
	DeleteUser(ctx context.Context, id int64) error
}

// UserService provides business logic for user management.
type UserService struct {
	db         *bun.DB
	bcryptCost int
}

// NewUserService creates a new UserService hashing passwords with bcryptCost.
func NewUserService(db *bun.DB, bcryptCost int) *UserService {
	return &UserService{db: db, bcryptCost: bcryptCost}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := s.db.NewSelect().Model(&user).Where("user_id = ?", id).Scan(ctx)
	if err != nil {
		return models.User{}, storeError(err, "get user", nil, ErrUserNotFound)
	}
	return user, nil
}

// UserExists reports whether a user with id is registered.
func (s *UserService) UserExists(ctx context.Context, id int64) (bool, error) {
	exists, err := s.db.NewSelect().Model((*models.User)(nil)).Where("user_id = ?", id).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return exists, nil
}

// CreateUser validates the credentials and creates a new user with a hashed
// password. Username and email are stored lower-cased.
func (s *UserService) CreateUser(ctx context.Context, username, email, password string) (models.User, error) {
	switch {
	case !validation.Username(username):
		return models.User{}, ErrInvalidUsername
	case !validation.Password(password):
		return models.User{}, ErrInvalidPassword
	case !validation.Email(email):
		return models.User{}, ErrInvalidEmail
	}

	user := models.User{
		Username:  validation.Normalize(username),
		Email:     validation.Normalize(email),
		CreatedAt: time.Now().UTC(),
	}
	if err := user.SetPassword(password, s.bcryptCost); err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		taken, err := tx.NewSelect().Model((*models.User)(nil)).Where("username = ?", user.Username).Exists(ctx)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			return ErrUsernameTaken
		}
		taken, err = tx.NewSelect().Model((*models.User)(nil)).Where("email = ?", user.Email).Exists(ctx)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			return ErrEmailTaken
		}

		_, err = tx.NewInsert().Model(&user).Returning("user_id").Exec(ctx)
		// Lost a race with a concurrent registration.
		return storeError(err, "insert user", ErrConflict, nil)
	})
	if err != nil {
		return models.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// AuthenticateUser verifies a user's credentials. ErrUserNotFound and
// ErrInvalidCredentials tell the two failures apart.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (models.User, error) {
	var user models.User
	err := s.db.NewSelect().Model(&user).Where("username = ?", validation.Normalize(username)).Scan(ctx)
	if err != nil {
		return models.User{}, storeError(err, "get user", nil, ErrUserNotFound)
	}

	if !user.CheckPassword(password) {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// UpdatePassword verifies the current password, then hashes and sets a new
// password. The new password is checked first.
func (s *UserService) UpdatePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	if !validation.Password(newPassword) {
		return ErrInvalidPassword
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var user models.User
		if err := tx.NewSelect().Model(&user).Where("user_id = ?", id).Scan(ctx); err != nil {
			return storeError(err, "get user", nil, ErrUserNotFound)
		}

		if !user.CheckPassword(currentPassword) {
			return ErrInvalidCredentials
		}

		if err := user.SetPassword(newPassword, s.bcryptCost); err != nil {
			return fmt.Errorf("failed to hash new password: %w", err)
		}

		_, err := tx.NewUpdate().Model(&user).Column("password_hash").WherePK().Exec(ctx)
		return storeError(err, "update password", nil, nil)
	})
}

// DeleteUser removes a user together with all of their categories and recipes.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.Recipe)(nil)).Where("created_by = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete recipes: %w", err)
		}
		if _, err := tx.NewDelete().Model((*models.Category)(nil)).Where("created_by = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete categories: %w", err)
		}
		res, err := tx.NewDelete().Model((*models.User)(nil)).Where("user_id = ?", id).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}
