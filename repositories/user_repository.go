package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/insidehealthgt/hms/database"
	"github.com/insidehealthgt/hms/models"
)

// UserRepository interface defines user database operations
type UserRepository interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *sql.DB
	lc *lifecycle
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, listener EntityListener) UserRepository {
	return newUserRepository(db, newLifecycle(listener))
}

func newUserRepository(db *sql.DB, lc *lifecycle) *userRepository {
	return &userRepository{db: db, lc: lc}
}

const userColumns = `
	id, username, email, password_hash, first_name, last_name, status,
	email_verified, locale_preference, must_change_password,
	created_at, updated_at, created_by, updated_by, deleted_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Status,
		&u.EmailVerified, &u.LocalePreference, &u.MustChangePassword,
		&u.CreatedAt, &u.UpdatedAt, &u.CreatedBy, &u.UpdatedBy, &u.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetAll retrieves all users ordered by username
func (r *userRepository) GetAll(ctx context.Context) ([]models.User, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY username ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	for i := range users {
		if users[i].Roles, err = r.roles(ctx, users[i].ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email address
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	u, err := scanUser(database.Conn(ctx, r.db).QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", notFound(err))
	}
	if u.Roles, err = r.roles(ctx, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) roles(ctx context.Context, userID int64) ([]string, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = ? ORDER BY role`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user roles: %w", err)
	}
	defer rows.Close()

	roles := []string{}
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan user role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *userRepository) setRoles(ctx context.Context, exec database.Executor, user *models.User) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, user.ID); err != nil {
		return fmt.Errorf("failed to clear user roles: %w", err)
	}
	roles := append([]string(nil), user.Roles...)
	sort.Strings(roles)
	for _, role := range roles {
		if _, err := exec.ExecContext(ctx,
			`INSERT OR IGNORE INTO user_roles (user_id, role) VALUES (?, ?)`, user.ID, role); err != nil {
			return fmt.Errorf("failed to add user role: %w", err)
		}
	}
	return nil
}

// Create inserts a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	exec := database.Conn(ctx, r.db)
	user.Stamp(r.lc.now(), actorID(ctx))

	result, err := exec.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name, status,
			email_verified, locale_preference, must_change_password,
			created_at, updated_at, created_by, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Status,
		user.EmailVerified, user.LocalePreference, user.MustChangePassword,
		user.CreatedAt, user.UpdatedAt, user.CreatedBy, user.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user ID: %w", err)
	}
	user.ID = id

	if err := r.setRoles(ctx, exec, user); err != nil {
		return err
	}

	r.lc.listener.AfterCreate(ctx, user)
	return nil
}

// Update saves all fields of an existing user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	exec := database.Conn(ctx, r.db)
	previous, err := r.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}

	keepCreation(&user.Base, &previous.Base)
	r.lc.listener.BeforeUpdate(ctx, previous, user)
	user.Touch(r.lc.now(), actorID(ctx))

	result, err := exec.ExecContext(ctx, `
		UPDATE users
		SET username = ?, email = ?, password_hash = ?, first_name = ?, last_name = ?, status = ?,
			email_verified = ?, locale_preference = ?, must_change_password = ?,
			updated_at = ?, updated_by = ?
		WHERE id = ?`,
		user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Status,
		user.EmailVerified, user.LocalePreference, user.MustChangePassword,
		user.UpdatedAt, user.UpdatedBy, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if err := affectedOne(result); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if err := r.setRoles(ctx, exec, user); err != nil {
		return err
	}

	r.lc.listener.AfterUpdate(ctx, user)
	return nil
}

// Delete removes a user
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	r.lc.listener.AfterDelete(ctx, user)
	return nil
}

// Count returns the number of users
func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := database.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
