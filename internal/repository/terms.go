package repository

import (
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func (r *Repository) GetTermByID(id int64) (*domain.Term, error) {
	query := `
		SELECT
			id,
			name,
			start_date,
			end_date,
			created_at,
			version
		FROM terms
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	var term domain.Term
	dst := []any{
		&term.ID,
		&term.Name,
		&term.StartDate,
		&term.EndDate,
		&term.CreatedAt,
		&term.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return &term, nil
}

func (r *Repository) CreateTerm(term *domain.Term) error {
	query := `
		INSERT INTO terms (name, start_date, end_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	dst := []any{&term.ID, &term.CreatedAt, &term.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, term.Name, term.StartDate, term.EndDate).Scan(dst...); err != nil {
		return err
	}

	return nil
}
