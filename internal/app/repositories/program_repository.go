package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbaylon/interntrack/internal/app/models"
)

// ProgramRepository handles read access to the academic program catalog
type ProgramRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProgramRepository creates a new ProgramRepository
func NewProgramRepository(db *pgxpool.Pool) *ProgramRepository {
	return &ProgramRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetAllPrograms retrieves the full program catalog
func (r *ProgramRepository) GetAllPrograms(ctx context.Context) ([]models.Program, error) {
	sql, args, err := r.sb.Select("id", "name", "code").
		From("programs").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list programs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing programs: %w", err)
	}
	defer rows.Close()

	var programs []models.Program
	for rows.Next() {
		var program models.Program
		if err := rows.Scan(&program.ID, &program.Name, &program.Code); err != nil {
			return nil, fmt.Errorf("error scanning program row: %w", err)
		}
		programs = append(programs, program)
	}
	return programs, rows.Err()
}
