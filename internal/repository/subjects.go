package repository

import (
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func (r *Repository) CreateSubject(subject *domain.Subject) error {
	query := `
		INSERT INTO subjects (code, name, credits, department_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{subject.Code, subject.Name, subject.Credits, subject.DepartmentID}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&subject.ID); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateClassGroup(group *domain.ClassGroup) error {
	query := `INSERT INTO class_groups (name) VALUES ($1) RETURNING id`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, group.Name).Scan(&group.ID); err != nil {
		return err
	}

	return nil
}
