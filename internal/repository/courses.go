package repository

import (
	"database/sql"
	"fmt"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

const selectCourses = `
	SELECT
		c.id,
		c.term_id,
		c.subject_id,
		s.department_id,
		c.class_group_id,
		c.max_capacity,
		c.teacher_id,
		c.room_id,
		c.weekday,
		c.start_period,
		c.created_at,
		c.version
	FROM courses c
	LEFT JOIN subjects s ON c.subject_id = s.id
`

func scanCourses(rows *sql.Rows) ([]*domain.Course, error) {
	courses := []*domain.Course{}
	for rows.Next() {
		var course domain.Course
		dst := []any{
			&course.ID,
			&course.TermID,
			&course.SubjectID,
			&course.DepartmentID,
			&course.ClassGroupID,
			&course.MaxCapacity,
			&course.TeacherID,
			&course.RoomID,
			&course.Weekday,
			&course.StartPeriod,
			&course.CreatedAt,
			&course.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// ListSchedulableCourses 返回学期中还没有分配教师的课程
func (r *Repository) ListSchedulableCourses(termID int64) ([]*domain.Course, error) {
	query := selectCourses + `
		WHERE c.term_id = $1 AND c.is_deleted = FALSE AND c.teacher_id IS NULL
		ORDER BY c.id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCourses(rows)
}

func (r *Repository) ListCoursesByTermID(termID int64) ([]*domain.Course, error) {
	query := selectCourses + `
		WHERE c.term_id = $1 AND c.is_deleted = FALSE
		ORDER BY c.id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCourses(rows)
}

func (r *Repository) CreateCourse(course *domain.Course) error {
	query := `
		INSERT INTO courses (term_id, subject_id, class_group_id, max_capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{course.TermID, course.SubjectID, course.ClassGroupID, course.MaxCapacity}
	dst := []any{&course.ID, &course.CreatedAt, &course.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

// ApplySchedule 在一个事务中写入排课结果，任意一条更新失败都会回滚全部更新
func (r *Repository) ApplySchedule(termID int64, assignments []domain.ScheduleAssignment) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 只更新还没有排课的课程，防止覆盖其他人的排课结果
	query := `
		UPDATE courses
		SET
			teacher_id = $1,
			room_id = $2,
			weekday = $3,
			start_period = $4,
			version = version + 1
		WHERE id = $5 AND term_id = $6 AND is_deleted = FALSE AND teacher_id IS NULL
	`

	for _, a := range assignments {
		res, err := tx.ExecContext(ctx, query, a.TeacherID, a.RoomID, a.Weekday, a.StartPeriod, a.CourseID, termID)
		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: %d", ErrCourseNotUpdated, a.CourseID)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// ResetSchedule 清空学期中所有课程的排课信息，返回被清空的课程数量
func (r *Repository) ResetSchedule(termID int64) (int64, error) {
	query := `
		UPDATE courses
		SET
			teacher_id = NULL,
			room_id = NULL,
			weekday = NULL,
			start_period = NULL,
			version = version + 1
		WHERE term_id = $1 AND is_deleted = FALSE
	`

	ctx, cancel := r.transactionContext()
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, termID)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
