package domain

// HardAssignment 表示外部指定的强制排课，被锁定的课程必须严格按照这里的值排课
type HardAssignment struct {
	CourseID  int64  `json:"courseID"`
	TeacherID int64  `json:"teacherID"`
	RoomID    int64  `json:"roomID"`
	DayIdx    int32  `json:"dayIdx"` // 0 = 星期一, ..., 5 = 星期六
	Slot      int32  `json:"slot"`   // 1 ~ 6
	Reason    string `json:"reason"`
}
