package sqlite

import (
	"context"
	"database/sql"

	"github.com/cartelera/cartelera/internal/domain"
)

type usersRepo struct {
	db *sql.DB
}

func (r *usersRepo) GetUserByName(ctx context.Context, name string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE name = ?`, name)
	return mapUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt)
	return mapConflict(err)
}
