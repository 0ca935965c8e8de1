package scheduler

import "fmt"

var weekdayNames = [DaysPerWeek]string{"星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}

var slotTimes = [SlotsPerDay]string{
	"07:00-11:00",
	"13:00-17:00",
	"13:00-15:00",
	"15:15-17:15",
	"17:30-19:30",
	"19:45-21:45",
}

// WeekdayName 将 0 ~ 5 的 dayIdx 转换为星期名称，越界时返回空字符串
func WeekdayName(dayIdx int32) string {
	if dayIdx < 0 || dayIdx >= DaysPerWeek {
		return ""
	}
	return weekdayNames[dayIdx]
}

// WeekdayIndex 是 WeekdayName 的逆操作
func WeekdayIndex(name string) (int32, bool) {
	for i, n := range weekdayNames {
		if n == name {
			return int32(i), true
		}
	}
	return -1, false
}

// SlotLabel 返回节次的展示名称，例如 "第1节 (07:00-11:00)"
func SlotLabel(slot int32) string {
	if slot < MinSlot || slot > SlotsPerDay {
		return fmt.Sprintf("第%d节", slot)
	}
	return fmt.Sprintf("第%d节 (%s)", slot, slotTimes[slot-MinSlot])
}
