package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func TestValidateHardAssignments(t *testing.T) {
	teacherID, roomID := int64(1), int64(1)
	courses := []*domain.Course{
		{ID: 1, TermID: 1},
		{ID: 2, TermID: 1},
		{ID: 3, TermID: 1, TeacherID: &teacherID, RoomID: &roomID},
		{ID: 4, TermID: 1, TeacherID: &teacherID}, // 只指定了教师，没有教室
	}
	teachers := []*domain.Teacher{{ID: 1}, {ID: 2}}
	rooms := []*domain.Room{{ID: 1}, {ID: 2}}

	valid := []*domain.HardAssignment{
		{CourseID: 1, TeacherID: 2, RoomID: 1, DayIdx: 0, Slot: 1},
		{CourseID: 2, TeacherID: 1, RoomID: 2, DayIdx: 5, Slot: 6},
	}
	require.NoError(t, ValidateHardAssignments(valid, courses, teachers, rooms))
	require.NoError(t, ValidateHardAssignments(nil, courses, teachers, rooms))

	cases := map[string]struct {
		ha      *domain.HardAssignment
		message string
	}{
		"课程不存在":  {&domain.HardAssignment{CourseID: 9, TeacherID: 1, RoomID: 1, Slot: 1}, "不属于该学期"},
		"课程已经排课": {&domain.HardAssignment{CourseID: 3, TeacherID: 1, RoomID: 1, Slot: 1}, "已经排过课"},
		"课程已有教师": {&domain.HardAssignment{CourseID: 4, TeacherID: 2, RoomID: 2, Slot: 1}, "课程 4 已经排过课"},
		"教师不存在":  {&domain.HardAssignment{CourseID: 1, TeacherID: 9, RoomID: 1, Slot: 1}, "教师 9 不存在"},
		"教室不存在":  {&domain.HardAssignment{CourseID: 1, TeacherID: 1, RoomID: 9, Slot: 1}, "教室 9 不存在"},
		"星期越界":   {&domain.HardAssignment{CourseID: 1, TeacherID: 1, RoomID: 1, DayIdx: 6, Slot: 1}, "星期 6"},
		"节次越界":   {&domain.HardAssignment{CourseID: 1, TeacherID: 1, RoomID: 1, Slot: 7}, "节次 7"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateHardAssignments([]*domain.HardAssignment{tc.ha}, courses, teachers, rooms)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}

	duplicated := []*domain.HardAssignment{valid[0], valid[0]}
	err := ValidateHardAssignments(duplicated, courses, teachers, rooms)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "多条强制排课")
}

func TestValidateAssignmentsWithHardAssignments(t *testing.T) {
	weekday := func(idx int32) string {
		return []string{"星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}[idx]
	}
	hard := []*domain.HardAssignment{
		{CourseID: 1, TeacherID: 7, RoomID: 3, DayIdx: 1, Slot: 2},
	}

	ok := []domain.ScheduleAssignment{
		{CourseID: 1, TeacherID: 7, RoomID: 3, Weekday: "星期二", StartPeriod: 2, IsLocked: true},
		{CourseID: 2, TeacherID: 8, RoomID: 4, Weekday: "星期一", StartPeriod: 1},
	}
	assert.NoError(t, ValidateAssignmentsWithHardAssignments(ok, hard, weekday))

	drifted := []domain.ScheduleAssignment{
		{CourseID: 1, TeacherID: 7, RoomID: 3, Weekday: "星期三", StartPeriod: 2, IsLocked: true},
	}
	assert.Error(t, ValidateAssignmentsWithHardAssignments(drifted, hard, weekday))

	// 强制排课的课程必须出现在结果中，不能被悄悄丢掉
	missing := append(hard, &domain.HardAssignment{CourseID: 5, TeacherID: 7, RoomID: 3, DayIdx: 1, Slot: 3})
	err := ValidateAssignmentsWithHardAssignments(ok, missing, weekday)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "课程 5")

	duplicated := []domain.ScheduleAssignment{ok[1], ok[1]}
	assert.Error(t, ValidateAssignmentsWithHardAssignments(duplicated, nil, weekday))
}

func TestGenerateTeacherCodeFromChineseName(t *testing.T) {
	code := GenerateTeacherCodeFromChineseName("张伟")

	require.Len(t, code, len("zhangwei")+3)
	assert.Equal(t, "zhangwei", code[:len("zhangwei")])
}
