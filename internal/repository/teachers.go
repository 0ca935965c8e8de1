package repository

import (
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// ListTeachers 返回所有未被删除的教师
func (r *Repository) ListTeachers() ([]*domain.Teacher, error) {
	query := `
		SELECT
			id,
			code,
			full_name,
			department_id
		FROM teachers
		WHERE is_deleted = FALSE
		ORDER BY id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teachers := []*domain.Teacher{}
	for rows.Next() {
		var teacher domain.Teacher
		if err := rows.Scan(&teacher.ID, &teacher.Code, &teacher.FullName, &teacher.DepartmentID); err != nil {
			return nil, err
		}
		teachers = append(teachers, &teacher)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return teachers, nil
}

func (r *Repository) CreateTeacher(teacher *domain.Teacher) error {
	query := `
		INSERT INTO teachers (code, full_name, department_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, teacher.Code, teacher.FullName, teacher.DepartmentID).Scan(&teacher.ID); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateDepartment(department *domain.Department) error {
	query := `INSERT INTO departments (name) VALUES ($1) RETURNING id`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, department.Name).Scan(&department.ID); err != nil {
		return err
	}

	return nil
}
