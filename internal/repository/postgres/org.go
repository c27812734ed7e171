package postgres

import (
	"context"
	"database/sql"
	"time"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/repository"

	"github.com/lib/pq"
)

type organizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) repository.OrganizationRepository {
	return &organizationRepository{db: db}
}

const orgColumns = `ngo_code, name, COALESCE(description, ''), COALESCE(logo_url, ''), COALESCE(contact_email, ''),
	COALESCE(contact_phone, ''), COALESCE(address, ''), COALESCE(preferred_categories, '{}'), created_at`

func scanOrg(s interface{ Scan(...any) error }, o *domain.Organization) error {
	return s.Scan(&o.Code, &o.Name, &o.Description, &o.LogoURL, &o.ContactEmail, &o.ContactPhone, &o.Address,
		pq.Array(&o.Categories), &o.CreatedOn)
}

func (r *organizationRepository) Create(ctx context.Context, o *domain.Organization) error {
	query := `INSERT INTO ngo_information (ngo_code, name, description, logo_url, contact_email, contact_phone, address, preferred_categories, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at`
	return r.db.QueryRowContext(ctx, query, o.Code, o.Name, o.Description, o.LogoURL, o.ContactEmail, o.ContactPhone,
		o.Address, pq.Array(o.Categories), time.Now()).Scan(&o.CreatedOn)
}

func (r *organizationRepository) GetByCode(ctx context.Context, code string) (*domain.Organization, error) {
	o := &domain.Organization{}
	query := `SELECT ` + orgColumns + ` FROM ngo_information WHERE ngo_code = $1`
	if err := scanOrg(r.db.QueryRowContext(ctx, query, code), o); err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (r *organizationRepository) List(ctx context.Context) ([]domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM ngo_information ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		var o domain.Organization
		if err := scanOrg(rows, &o); err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

func (r *organizationRepository) Update(ctx context.Context, o *domain.Organization) error {
	query := `UPDATE ngo_information SET name = $1, description = $2, logo_url = $3, contact_email = $4, contact_phone = $5,
	          address = $6, preferred_categories = $7 WHERE ngo_code = $8`
	res, err := r.db.ExecContext(ctx, query, o.Name, o.Description, o.LogoURL, o.ContactEmail, o.ContactPhone, o.Address,
		pq.Array(o.Categories), o.Code)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *organizationRepository) CountRegisteredVolunteers(ctx context.Context, code string) (int, error) {
	var count int
	query := `SELECT count(*) FROM volunteers WHERE ` + membershipMatch
	err := r.db.QueryRowContext(ctx, query, code).Scan(&count)
	return count, err
}
