package database

import (
	"context"
	"errors"
	"time"

	"github.com/artyaffairs/storefront/internal/models"
)

// EnsureProfile creates the users row for an authenticated identity if it is
// absent. A concurrent insert of the same row is not an error.
func (r *Repository) EnsureProfile(ctx context.Context, u models.User) error {
	role := u.Role
	if role == "" {
		role = r.roleFor(u.Email)
	}
	name := u.Name
	if name == "" {
		name = defaultName(u.Email)
	}

	query := `INSERT INTO users (user_id, name, email, role, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, query, u.ID, name, u.Email, role, time.Now().UTC())
	err = mapError(err)
	if errors.Is(err, models.ErrDuplicate) {
		return nil
	}
	return err
}

// GetUser loads a profile by id.
func (r *Repository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	query := `SELECT user_id, name, email, role, created_at FROM users WHERE user_id = ?`
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func defaultName(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}
