package postgres

import (
	"context"
	"database/sql"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/repository"
)

type adminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) repository.AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*domain.Admin, error) {
	a := &domain.Admin{}
	query := `SELECT id, email, COALESCE(name, ''), COALESCE(ngo_code, ''), role FROM admins WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Email, &a.Name, &a.OrgCode, &a.Role)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	a := &domain.Admin{}
	query := `SELECT id, email, COALESCE(name, ''), COALESCE(ngo_code, ''), role FROM admins WHERE lower(email) = lower($1)`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&a.ID, &a.Email, &a.Name, &a.OrgCode, &a.Role)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}
