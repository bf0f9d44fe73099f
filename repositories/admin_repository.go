package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Asadbek07/event-match-system/models"
)

var ErrAdminNotFound = errors.New("admin user not found")

type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}

type postgresAdminRepository struct {
	db *sql.DB
}

func NewPostgresAdminRepository(db *sql.DB) AdminRepository {
	return &postgresAdminRepository{db: db}
}

func (r *postgresAdminRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	query := `SELECT id, email, password_hash, name, role, created_at FROM admin_users WHERE email = $1`

	a := &models.AdminUser{}
	var name sql.NullString
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &name, &a.Role, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin user: %w", err)
	}
	if name.Valid {
		a.Name = &name.String
	}
	return a, nil
}
