package seed

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/utils"
)

// 工号冲突时最多重试的次数
const maxTeacherCodeRetries = 5

// SeedTeachers 为院系插入 n 位随机教师，返回成功插入的数量
func SeedTeachers(r *repository.Repository, departmentID int64, n int) int {
	cnt := 0
	for i := 0; i < n; i++ {
		for retry := 0; retry < maxTeacherCodeRetries; retry++ {
			teacher := utils.GenerateRandomTeacher(departmentID)
			err := r.CreateTeacher(teacher)
			if err == nil {
				cnt++
				break
			}

			// 工号重复时换一个随机工号
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "teachers_code_key" {
				continue
			}

			slog.Error("无法插入教师", "error", err)
			break
		}
	}

	return cnt
}

// SeedRooms 插入 n 间随机教室，返回成功插入的数量
func SeedRooms(r *repository.Repository, n int) int {
	cnt := 0
	for i := 0; i < n; i++ {
		room := utils.GenerateRandomRoom(i + 1)
		if err := r.CreateRoom(room); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				slog.Warn("教室编号已存在", "code", room.Code)
				continue
			}
			slog.Error("无法插入教室", "error", err)
			continue
		}
		cnt++
	}

	return cnt
}

// SeedRandomTerm 创建一个新学期，并为若干随机科目各生成若干门课程，每门课程属于不同的行政班
func SeedRandomTerm(r *repository.Repository, departmentIDs []int64, n int) (*domain.Term, error) {
	term := utils.GenerateCurrentTerm()
	if err := r.CreateTerm(term); err != nil {
		return nil, fmt.Errorf("插入学期失败: %w", err)
	}

	for i := 0; i < n; i++ {
		var departmentID *int64
		// 大约五分之一的科目是公共课，不限院系
		if len(departmentIDs) > 0 && rand.Intn(5) != 0 {
			departmentID = &departmentIDs[rand.Intn(len(departmentIDs))]
		}

		subject := utils.GenerateRandomSubject(departmentID)
		if err := r.CreateSubject(subject); err != nil {
			return nil, fmt.Errorf("插入科目失败: %w", err)
		}

		group := &domain.ClassGroup{Name: fmt.Sprintf("%s %d 班", subject.Name, i+1)}
		if err := r.CreateClassGroup(group); err != nil {
			return nil, fmt.Errorf("插入行政班失败: %w", err)
		}

		course := utils.GenerateRandomCourse(term.ID, subject.ID, &group.ID)
		if err := r.CreateCourse(course); err != nil {
			return nil, fmt.Errorf("插入课程失败: %w", err)
		}
	}

	slog.Info("插入随机学期成功", "term_id", term.ID, "courses", n)
	return term, nil
}
