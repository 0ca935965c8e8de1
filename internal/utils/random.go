package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateTeacherCodeFromChineseName 用姓名的拼音加上随机数字生成教师工号，例如 "zhangwei042"
func GenerateTeacherCodeFromChineseName(chineseName string) string {
	code := ""
	for _, py := range pinyin.LazyConvert(chineseName, nil) {
		code += py
	}

	for i := 0; i < 3; i++ {
		code += string(digits[rand.Intn(len(digits))])
	}

	return code
}

func GenerateRandomTeacher(departmentID int64) *domain.Teacher {
	fullName := GenerateRandomChineseName()

	return &domain.Teacher{
		Code:         GenerateTeacherCodeFromChineseName(fullName),
		FullName:     fullName,
		DepartmentID: departmentID,
	}
}

var buildings = []string{"A", "B", "C", "D"}

// 大约十分之一的教室是停用的
func GenerateRandomRoom(index int) *domain.Room {
	building := buildings[rand.Intn(len(buildings))]

	return &domain.Room{
		Code:        fmt.Sprintf("%s%d%02d", building, rand.Intn(5)+1, index),
		MaxCapacity: int32(rand.Intn(5)+1) * 30,
		IsActive:    rand.Intn(10) != 0,
	}
}

var subjectNames = []string{
	"高等数学", "线性代数", "概率论与数理统计", "大学物理", "数据结构",
	"操作系统", "计算机网络", "数据库系统", "编译原理", "软件工程",
	"大学英语", "马克思主义基本原理", "电路原理", "信号与系统", "离散数学",
}

func GenerateRandomSubject(departmentID *int64) *domain.Subject {
	return &domain.Subject{
		Code:         fmt.Sprintf("SUB%04d", rand.Intn(10000)),
		Name:         subjectNames[rand.Intn(len(subjectNames))],
		Credits:      int32(rand.Intn(4) + 1),
		DepartmentID: departmentID,
	}
}

// GenerateRandomCourse 生成一门还没有排课的课程，容量在 20 ~ 120 之间
func GenerateRandomCourse(termID int64, subjectID int64, classGroupID *int64) *domain.Course {
	return &domain.Course{
		TermID:       termID,
		SubjectID:    &subjectID,
		ClassGroupID: classGroupID,
		MaxCapacity:  int32(rand.Intn(101) + 20),
	}
}

// GenerateCurrentTerm 生成一个从今天开始、持续 20 周的学期
func GenerateCurrentTerm() *domain.Term {
	start := time.Now().Truncate(24 * time.Hour)
	return &domain.Term{
		Name:      fmt.Sprintf("%d 学年第 %d 学期", start.Year(), rand.Intn(2)+1),
		StartDate: start,
		EndDate:   start.Add(time.Hour * 24 * 7 * 20),
	}
}
