package scheduler

import (
	"math"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// CalculateStatistics 统计排课结果在星期、节次和教师上的分布
func CalculateStatistics(assignments []domain.ScheduleAssignment) *domain.ScheduleStatistics {
	stats := &domain.ScheduleStatistics{
		TotalScheduled:   len(assignments),
		DayDistribution:  make(map[string]int),
		SlotDistribution: make(map[string]int),
		TeacherLoad:      make(map[int64]int),
	}

	for _, a := range assignments {
		stats.DayDistribution[a.Weekday]++
		stats.SlotDistribution[SlotLabel(a.StartPeriod)]++
		stats.TeacherLoad[a.TeacherID]++
	}

	stats.TeachersAssigned = len(stats.TeacherLoad)
	if stats.TeachersAssigned == 0 {
		return stats
	}

	stats.MinClassesPerTeacher = math.MaxInt
	total := 0
	for _, cnt := range stats.TeacherLoad {
		total += cnt
		stats.MaxClassesPerTeacher = max(stats.MaxClassesPerTeacher, cnt)
		stats.MinClassesPerTeacher = min(stats.MinClassesPerTeacher, cnt)
	}

	avg := float64(total) / float64(stats.TeachersAssigned)
	stats.AvgClassesPerTeacher = math.Round(avg*100) / 100

	return stats
}
