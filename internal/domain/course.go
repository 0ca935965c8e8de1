package domain

import "time"

// Course 表示某个学期中需要排课的一个教学班
type Course struct {
	ID           int64  `json:"id"`
	TermID       int64  `json:"termID"`
	SubjectID    *int64 `json:"subjectID"`
	DepartmentID *int64 `json:"departmentID"` // 课程所属学科的院系，为 nil 时所有教师都可以教这门课
	ClassGroupID *int64 `json:"classGroupID"` // 为 nil 时不参与学生班级冲突检查
	MaxCapacity  int32  `json:"maxCapacity"`

	// 以下字段为 nil 表示还没有排课
	TeacherID   *int64  `json:"teacherID"`
	RoomID      *int64  `json:"roomID"`
	Weekday     *string `json:"weekday"`
	StartPeriod *int32  `json:"startPeriod"`

	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

func (c *Course) IsScheduled() bool {
	return c.TeacherID != nil && c.RoomID != nil
}
