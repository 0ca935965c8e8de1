package scheduler

import (
	"log/slog"
	"math/rand"
	"sort"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// courseCandidates 是工作集中的一门课程以及它的候选教师和教室
type courseCandidates struct {
	course   *domain.Course
	teachers []*domain.Teacher
	rooms    []*domain.Room
	hard     *domain.HardAssignment
}

type Scheduler struct {
	parameters   Parameters
	rng          *rand.Rand
	courses      []*courseCandidates // 工作集，顺序和传入的课程顺序一致
	courseByID   map[int64]*courseCandidates
	roomsByID    map[int64]*domain.Room // 所有教室，用于容量检查
	unresolvable []int64
	hardCount    int

	// 每一代计算完适应度后调用，仅供测试观察种群
	onGeneration func(generation int, pop []*Chromosome)
}

// Result 是一次排课的输出
type Result struct {
	Assignments           []domain.ScheduleAssignment
	Statistics            *domain.ScheduleStatistics
	Violations            domain.ScheduleViolations
	Fitness               float64
	Generations           int
	NoImprovementCount    int
	HardAssignmentsCount  int
	UnresolvableCourseIDs []int64
	BestFitnessHistory    []float64
	AvgFitnessHistory     []float64
}

// New 创建一个排课器
// courses 为需要排课的课程，teachers 和 rooms 为所有可用的教师和教室
// hardAssignments 中引用的课程、教师和教室需要在调用前校验过
// rng 为 nil 时使用 parameters.Seed 创建随机数生成器
func New(parameters Parameters, courses []*domain.Course, teachers []*domain.Teacher, rooms []*domain.Room, hardAssignments []*domain.HardAssignment, rng *rand.Rand) (*Scheduler, error) {
	if err := parameters.validate(); err != nil {
		return nil, err
	}
	parameters.TournamentSize = min(parameters.TournamentSize, parameters.PopulationSize)

	if rng == nil {
		rng = rand.New(rand.NewSource(parameters.Seed))
	}

	s := &Scheduler{
		parameters:   parameters,
		rng:          rng,
		courses:      make([]*courseCandidates, 0, len(courses)),
		courseByID:   make(map[int64]*courseCandidates, len(courses)),
		roomsByID:    make(map[int64]*domain.Room, len(rooms)),
		unresolvable: make([]int64, 0),
	}

	for _, room := range rooms {
		s.roomsByID[room.ID] = room
	}

	hardByCourse := make(map[int64]*domain.HardAssignment, len(hardAssignments))
	for _, ha := range hardAssignments {
		hardByCourse[ha.CourseID] = ha
	}

	pool := NewCandidatePool(teachers, rooms)
	for _, course := range courses {
		if _, exists := s.courseByID[course.ID]; exists {
			// 同一门课程只能有一个基因
			continue
		}

		c := &courseCandidates{
			course:   course,
			teachers: pool.EligibleTeachers(course),
			rooms:    pool.SuitableRooms(course),
			hard:     hardByCourse[course.ID],
		}

		// 强制排课的基因不会变异，不需要候选池
		if c.hard == nil && (len(c.teachers) == 0 || len(c.rooms) == 0) {
			s.unresolvable = append(s.unresolvable, course.ID)
			continue
		}

		if c.hard != nil {
			s.hardCount++
		}

		s.courses = append(s.courses, c)
		s.courseByID[course.ID] = c
	}

	if len(s.unresolvable) > 0 {
		slog.Warn("部分课程没有合适的教师或教室，无法排课", "course_ids", s.unresolvable)
	}

	return s, nil
}

// UnresolvableCourseIDs 返回因为没有候选教师或教室而无法排课的课程
func (s *Scheduler) UnresolvableCourseIDs() []int64 {
	return s.unresolvable
}

// CourseCount 返回参与排课的课程数量
func (s *Scheduler) CourseCount() int {
	return len(s.courses)
}

func (s *Scheduler) Schedule() *Result {
	result := &Result{
		Assignments:           make([]domain.ScheduleAssignment, 0),
		HardAssignmentsCount:  s.hardCount,
		UnresolvableCourseIDs: s.unresolvable,
		BestFitnessHistory:    make([]float64, 0),
		AvgFitnessHistory:     make([]float64, 0),
	}

	if len(s.courses) == 0 {
		result.Statistics = CalculateStatistics(result.Assignments)
		return result
	}

	slog.Info("开始排课",
		"courses", len(s.courses),
		"hard_assignments", s.hardCount,
		"population_size", s.parameters.PopulationSize,
		"max_generations", s.parameters.MaxGenerations,
	)
	for _, c := range s.courses {
		if c.hard != nil {
			slog.Debug("锁定课程", "course_id", c.course.ID, "teacher_id", c.hard.TeacherID, "room_id", c.hard.RoomID, "day_idx", c.hard.DayIdx, "slot", c.hard.Slot)
		}
	}

	// 生成初始种群
	pop := make([]*Chromosome, s.parameters.PopulationSize)
	for i := range pop {
		pop[i] = s.randomInitChromosome()
	}

	bestFit, avgFit := s.evaluateGeneration(0, pop)
	result.BestFitnessHistory = append(result.BestFitnessHistory, bestFit)
	result.AvgFitnessHistory = append(result.AvgFitnessHistory, avgFit)

	// 这里需要使用深拷贝，防止后续繁殖的过程中导致指向的基因被修改
	bestChromosomeEver := pop[0].clone()

	noImprovement := 0
	generations := 0
	for gen := 1; gen <= s.parameters.MaxGenerations; gen++ {
		generations = gen

		pop = s.breed(pop)
		bestFit, avgFit = s.evaluateGeneration(gen, pop)
		result.BestFitnessHistory = append(result.BestFitnessHistory, bestFit)
		result.AvgFitnessHistory = append(result.AvgFitnessHistory, avgFit)

		if bestFit > bestChromosomeEver.fitness {
			bestChromosomeEver = pop[0].clone()
			noImprovement = 0
		} else {
			noImprovement++
		}

		if gen%10 == 0 {
			v := bestChromosomeEver.violations
			slog.Info("排课进度",
				"generation", gen,
				"best_fitness", bestFit,
				"avg_fitness", avgFit,
				"room_conflicts", v.RoomConflicts,
				"teacher_conflicts", v.TeacherConflicts,
				"class_conflicts", v.ClassConflicts,
			)
		}

		if noImprovement >= s.parameters.StagnationLimit {
			slog.Info("适应度长时间没有提升，提前停止", "generation", gen, "no_improvement", noImprovement)
			break
		}
	}

	result.Generations = generations
	result.NoImprovementCount = noImprovement
	result.Fitness = bestChromosomeEver.fitness
	result.Violations = bestChromosomeEver.violations.toDomain()

	for _, gene := range bestChromosomeEver.genes {
		result.Assignments = append(result.Assignments, domain.ScheduleAssignment{
			CourseID:    gene.courseID,
			TeacherID:   gene.teacherID,
			RoomID:      gene.roomID,
			Weekday:     WeekdayName(gene.dayIdx),
			StartPeriod: gene.slot,
			IsLocked:    gene.isLocked,
		})
	}
	result.Statistics = CalculateStatistics(result.Assignments)

	slog.Info("排课完成",
		"generations", result.Generations,
		"fitness", result.Fitness,
		"scheduled", len(result.Assignments),
		"hard_violations", result.Violations.HardViolations,
	)

	return result
}

// evaluateGeneration 计算适应度并按适应度从高到低排序，返回本代的最佳和平均适应度
func (s *Scheduler) evaluateGeneration(gen int, pop []*Chromosome) (float64, float64) {
	s.evaluate(pop)

	sort.SliceStable(pop, func(i, j int) bool {
		return pop[i].fitness > pop[j].fitness
	})

	sum := 0.0
	for _, ch := range pop {
		sum += ch.fitness
	}

	if s.onGeneration != nil {
		s.onGeneration(gen, pop)
	}

	return pop[0].fitness, sum / float64(len(pop))
}

// breed 根据已经排好序的种群繁殖下一代
func (s *Scheduler) breed(pop []*Chromosome) []*Chromosome {
	newPop := make([]*Chromosome, 0, s.parameters.PopulationSize)

	// 保留精英
	for i := 0; i < s.parameters.ElitismCount; i++ {
		newPop = append(newPop, pop[i].clone())
	}

	for len(newPop) < s.parameters.PopulationSize {
		p1 := s.selectByTournament(pop)
		p2 := s.selectByTournament(pop)

		c1, c2 := s.uniformCrossover(p1, p2)

		s.mutate(c1)
		s.mutate(c2)

		newPop = append(newPop, c1)

		if len(newPop) < s.parameters.PopulationSize {
			newPop = append(newPop, c2)
		}
	}

	return newPop
}
