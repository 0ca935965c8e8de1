package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func TestCandidatePool_EligibleTeachers(t *testing.T) {
	teachers := []*domain.Teacher{
		{ID: 1, DepartmentID: 1},
		{ID: 2, DepartmentID: 2},
		{ID: 3, DepartmentID: 1},
	}
	pool := NewCandidatePool(teachers, nil)

	assert.Equal(t, []*domain.Teacher{teachers[0], teachers[2]}, pool.EligibleTeachers(&domain.Course{DepartmentID: int64Ptr(1)}))
	assert.Equal(t, []*domain.Teacher{teachers[1]}, pool.EligibleTeachers(&domain.Course{DepartmentID: int64Ptr(2)}))
	assert.Empty(t, pool.EligibleTeachers(&domain.Course{DepartmentID: int64Ptr(3)}))

	// 没有关联院系的课程所有教师都可以教
	assert.Equal(t, teachers, pool.EligibleTeachers(&domain.Course{}))
}

func TestCandidatePool_SuitableRooms(t *testing.T) {
	rooms := []*domain.Room{
		{ID: 1, MaxCapacity: 30, IsActive: true},
		{ID: 2, MaxCapacity: 100, IsActive: false},
		{ID: 3, MaxCapacity: 80, IsActive: true},
		{ID: 4, MaxCapacity: 50, IsActive: true},
	}
	pool := NewCandidatePool(nil, rooms)

	assert.Equal(t, []*domain.Room{rooms[2], rooms[3]}, pool.SuitableRooms(&domain.Course{MaxCapacity: 50}))
	assert.Equal(t, []*domain.Room{rooms[0], rooms[2], rooms[3]}, pool.SuitableRooms(&domain.Course{MaxCapacity: 30}))
	assert.Empty(t, pool.SuitableRooms(&domain.Course{MaxCapacity: 120}))
}
