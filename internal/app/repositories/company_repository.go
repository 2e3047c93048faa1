package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/pkg/apperrors"
)

const companyColumns = "id, name, industry, address, contact_person, contact_email, website, moa_url, created_at"

// CompanyRepository handles read access to partner company listings
type CompanyRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCompany(row pgx.Row) (*models.Company, error) {
	var company models.Company
	err := row.Scan(
		&company.ID,
		&company.Name,
		&company.Industry,
		&company.Address,
		&company.ContactPerson,
		&company.ContactEmail,
		&company.Website,
		&company.MOAURL,
		&company.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// GetAll retrieves all partner companies, optionally filtered by a search term
func (r *CompanyRepository) GetAll(ctx context.Context, search string) ([]models.Company, error) {
	query := r.sb.Select(companyColumns).
		From("companies").
		OrderBy("name ASC")

	if search != "" {
		query = query.Where("name ILIKE ? OR industry ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list companies query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing companies: %w", err)
	}
	defer rows.Close()

	var companies []models.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning company row: %w", err)
		}
		companies = append(companies, *company)
	}
	return companies, rows.Err()
}

// GetByID retrieves a company by ID
func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	sql, args, err := r.sb.Select(companyColumns).
		From("companies").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get company query: %w", err)
	}

	company, err := scanCompany(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("error retrieving company %d: %w", id, err)
	}
	return company, nil
}
