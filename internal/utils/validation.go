package utils

import (
	"fmt"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// ValidateHardAssignments 检查强制排课引用的课程、教师和教室是否存在
// courses 应当是该学期所有的课程，同一门课程只能有一条强制排课
func ValidateHardAssignments(hardAssignments []*domain.HardAssignment, courses []*domain.Course, teachers []*domain.Teacher, rooms []*domain.Room) error {
	courseMap := make(map[int64]*domain.Course, len(courses))
	for _, course := range courses {
		courseMap[course.ID] = course
	}
	teacherSet := make(map[int64]bool, len(teachers))
	for _, teacher := range teachers {
		teacherSet[teacher.ID] = true
	}
	roomSet := make(map[int64]bool, len(rooms))
	for _, room := range rooms {
		roomSet[room.ID] = true
	}

	seen := make(map[int64]bool, len(hardAssignments))
	for i, ha := range hardAssignments {
		course, exists := courseMap[ha.CourseID]
		if !exists {
			return fmt.Errorf("第 %d 条强制排课中的课程 %d 不属于该学期", i+1, ha.CourseID)
		}
		// 已经指定了教师的课程不会进入排课，强制排课也就无从生效
		if course.TeacherID != nil {
			return fmt.Errorf("第 %d 条强制排课中的课程 %d 已经排过课", i+1, ha.CourseID)
		}
		if seen[ha.CourseID] {
			return fmt.Errorf("课程 %d 存在多条强制排课", ha.CourseID)
		}
		seen[ha.CourseID] = true

		if !teacherSet[ha.TeacherID] {
			return fmt.Errorf("第 %d 条强制排课中的教师 %d 不存在", i+1, ha.TeacherID)
		}
		if !roomSet[ha.RoomID] {
			return fmt.Errorf("第 %d 条强制排课中的教室 %d 不存在", i+1, ha.RoomID)
		}
		if ha.DayIdx < 0 || ha.DayIdx > 5 {
			return fmt.Errorf("第 %d 条强制排课中的星期 %d 不在 0 ~ 5 之间", i+1, ha.DayIdx)
		}
		if ha.Slot < 1 || ha.Slot > 6 {
			return fmt.Errorf("第 %d 条强制排课中的节次 %d 不在 1 ~ 6 之间", i+1, ha.Slot)
		}
	}

	return nil
}

// ValidateAssignmentsWithHardAssignments 在写入数据库前再检查一次排课结果是否遵守了强制排课
func ValidateAssignmentsWithHardAssignments(assignments []domain.ScheduleAssignment, hardAssignments []*domain.HardAssignment, weekdayName func(int32) string) error {
	assignmentMap := make(map[int64]domain.ScheduleAssignment, len(assignments))
	for _, a := range assignments {
		if _, exists := assignmentMap[a.CourseID]; exists {
			return fmt.Errorf("排课结果中课程 %d 出现了多次", a.CourseID)
		}
		assignmentMap[a.CourseID] = a
	}

	for _, ha := range hardAssignments {
		a, exists := assignmentMap[ha.CourseID]
		if !exists {
			return fmt.Errorf("强制排课的课程 %d 没有出现在排课结果中", ha.CourseID)
		}
		if a.TeacherID != ha.TeacherID || a.RoomID != ha.RoomID || a.Weekday != weekdayName(ha.DayIdx) || a.StartPeriod != ha.Slot {
			return fmt.Errorf("课程 %d 的排课结果和强制排课不一致", ha.CourseID)
		}
	}

	return nil
}
