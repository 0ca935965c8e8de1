package scheduler

import "github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"

// CandidatePool 给出某门课程可以选择的教师和教室
type CandidatePool interface {
	EligibleTeachers(course *domain.Course) []*domain.Teacher
	SuitableRooms(course *domain.Course) []*domain.Room
}

type candidatePool struct {
	teachers     []*domain.Teacher
	rooms        []*domain.Room
	byDepartment map[int64][]*domain.Teacher
}

// NewCandidatePool 根据教师和教室列表构建候选池，返回结果的顺序和传入的顺序一致
func NewCandidatePool(teachers []*domain.Teacher, rooms []*domain.Room) CandidatePool {
	p := &candidatePool{
		teachers:     teachers,
		rooms:        rooms,
		byDepartment: make(map[int64][]*domain.Teacher),
	}

	for _, teacher := range teachers {
		p.byDepartment[teacher.DepartmentID] = append(p.byDepartment[teacher.DepartmentID], teacher)
	}

	return p
}

// EligibleTeachers 返回和课程同院系的教师，课程没有关联院系时返回所有教师
func (p *candidatePool) EligibleTeachers(course *domain.Course) []*domain.Teacher {
	if course.DepartmentID == nil {
		return p.teachers
	}
	return p.byDepartment[*course.DepartmentID]
}

// SuitableRooms 返回所有启用中且容量足够的教室
func (p *candidatePool) SuitableRooms(course *domain.Course) []*domain.Room {
	rooms := make([]*domain.Room, 0)
	for _, room := range p.rooms {
		if room.IsActive && room.MaxCapacity >= course.MaxCapacity {
			rooms = append(rooms, room)
		}
	}
	return rooms
}
