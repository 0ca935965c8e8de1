package domain

type ScheduleAssignment struct {
	CourseID    int64  `json:"courseID"`
	TeacherID   int64  `json:"teacherID"`
	RoomID      int64  `json:"roomID"`
	Weekday     string `json:"weekday"`
	StartPeriod int32  `json:"startPeriod"`
	IsLocked    bool   `json:"isLocked"`
}

type ScheduleViolations struct {
	RoomConflicts    int `json:"roomConflicts"`
	TeacherConflicts int `json:"teacherConflicts"`
	ClassConflicts   int `json:"classConflicts"`
	CapacityIssues   int `json:"capacityIssues"`
	HardViolations   int `json:"hardViolations"`
}

type ScheduleStatistics struct {
	TotalScheduled       int            `json:"totalScheduled"`
	DayDistribution      map[string]int `json:"dayDistribution"`
	SlotDistribution     map[string]int `json:"slotDistribution"`
	TeacherLoad          map[int64]int  `json:"teacherLoad"`
	TeachersAssigned     int            `json:"teachersAssigned"`
	AvgClassesPerTeacher float64        `json:"avgClassesPerTeacher"`
	MaxClassesPerTeacher int            `json:"maxClassesPerTeacher"`
	MinClassesPerTeacher int            `json:"minClassesPerTeacher"`
}

type SchedulingResult struct {
	RunID                 string               `json:"runID"`
	TermID                int64                `json:"termID"`
	Success               bool                 `json:"success"`
	Message               string               `json:"message"`
	Applied               bool                 `json:"applied"`
	Assignments           []ScheduleAssignment `json:"assignments"`
	Statistics            *ScheduleStatistics  `json:"statistics"`
	Violations            ScheduleViolations   `json:"violations"`
	FitnessScore          float64              `json:"fitnessScore"`
	GenerationsRun        int                  `json:"generationsRun"`
	HardAssignmentsCount  int                  `json:"hardAssignmentsCount"`
	UnresolvableCourseIDs []int64              `json:"unresolvableCourseIDs"`
	BestFitnessHistory    []float64            `json:"bestFitnessHistory"`
	AvgFitnessHistory     []float64            `json:"avgFitnessHistory"`
}

type ScheduleStatus struct {
	TermID             int64     `json:"termID"`
	TotalCourses       int       `json:"totalCourses"`
	ScheduledCourses   int       `json:"scheduledCourses"`
	UnscheduledCourses int       `json:"unscheduledCourses"`
	CompletionRate     float64   `json:"completionRate"`
	ScheduleList       []*Course `json:"scheduleList"`
}
