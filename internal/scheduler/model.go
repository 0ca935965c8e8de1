package scheduler

import (
	"errors"
	"fmt"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// Gene: 表示某门课程的排课决策 (teacher, room, day, slot)
type Gene struct {
	courseID  int64
	teacherID int64
	roomID    int64
	dayIdx    int32 // 0 ~ 5，对应星期一到星期六
	slot      int32 // 1 ~ 6
	isLocked  bool  // 锁定的基因来自强制排课，遗传算子不能修改
}

// Violations: 染色体违反约束的统计
type Violations struct {
	RoomConflicts    int
	TeacherConflicts int
	ClassConflicts   int
	CapacityIssues   int
	HardViolations   int
}

func (v Violations) toDomain() domain.ScheduleViolations {
	return domain.ScheduleViolations{
		RoomConflicts:    v.RoomConflicts,
		TeacherConflicts: v.TeacherConflicts,
		ClassConflicts:   v.ClassConflicts,
		CapacityIssues:   v.CapacityIssues,
		HardViolations:   v.HardViolations,
	}
}

// Chromosome: 整个课表，每门可排课程对应一个基因
type Chromosome struct {
	genes      []*Gene
	fitness    float64
	violations Violations
}

// clone 深拷贝染色体，保证之后对种群的修改不会影响到拷贝
func (ch *Chromosome) clone() *Chromosome {
	c := &Chromosome{
		genes:      make([]*Gene, len(ch.genes)),
		fitness:    ch.fitness,
		violations: ch.violations,
	}
	for i, g := range ch.genes {
		gene := *g
		c.genes[i] = &gene
	}
	return c
}

// 适应度权重
const (
	WeightScheduled        = 1000.0
	PenaltyRoomConflict    = -1000.0
	PenaltyTeacherConflict = -1000.0
	PenaltyClassConflict   = -1000.0
	PenaltyRoomCapacity    = -500.0
	PenaltyViolateHard     = -10000.0
	BonusMorning           = 10.0
)

const (
	DaysPerWeek  = 6
	SlotsPerDay  = 6
	MinSlot      = 1
	MorningSlots = 2 // 第 1、2 节视为上午
)

var ErrInvalidParameters = errors.New("遗传算法参数不合法")

// 遗传算法参数
type Parameters struct {
	PopulationSize  int     // 种群大小
	MaxGenerations  int     // 最大迭代次数
	CrossoverRate   float64 // 交叉概率
	MutationRate    float64 // 变异概率
	ElitismCount    int     // 精英数量
	TournamentSize  int     // 锦标赛规模
	StagnationLimit int     // 连续多少代没有提升就提前停止
	Workers         int     // 并行计算适应度的 goroutine 数量，<= 1 时串行
	Seed            int64   // 随机数种子
}

func DefaultParameters() Parameters {
	return Parameters{
		PopulationSize:  100,
		MaxGenerations:  200,
		CrossoverRate:   0.8,
		MutationRate:    0.05,
		ElitismCount:    10,
		TournamentSize:  5,
		StagnationLimit: 50,
		Workers:         1,
	}
}

// 参数的绝对上限，调用方应当在此之下再设置更严格的限制
const (
	MaxPopulationSize = 100000
	MaxGenerations    = 1000000
)

func (p *Parameters) validate() error {
	switch {
	case p.PopulationSize < 1 || p.PopulationSize > MaxPopulationSize:
		return fmt.Errorf("%w: 种群大小必须在 [1, %d] 之间", ErrInvalidParameters, MaxPopulationSize)
	case p.MaxGenerations < 0 || p.MaxGenerations > MaxGenerations:
		return fmt.Errorf("%w: 最大迭代次数必须在 [0, %d] 之间", ErrInvalidParameters, MaxGenerations)
	case p.CrossoverRate < 0 || p.CrossoverRate > 1:
		return fmt.Errorf("%w: 交叉概率必须在 [0, 1] 之间", ErrInvalidParameters)
	case p.MutationRate < 0 || p.MutationRate > 1:
		return fmt.Errorf("%w: 变异概率必须在 [0, 1] 之间", ErrInvalidParameters)
	case p.ElitismCount < 0 || p.ElitismCount > p.PopulationSize:
		return fmt.Errorf("%w: 精英数量必须在 [0, 种群大小] 之间", ErrInvalidParameters)
	case p.TournamentSize < 1:
		return fmt.Errorf("%w: 锦标赛规模必须大于 0", ErrInvalidParameters)
	case p.StagnationLimit < 1:
		return fmt.Errorf("%w: 停滞代数必须大于 0", ErrInvalidParameters)
	}
	return nil
}
