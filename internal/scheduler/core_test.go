package scheduler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func roomConflictScheduler(t *testing.T) *Scheduler {
	t.Helper()

	courses := []*domain.Course{
		{ID: 1, MaxCapacity: 30},
		{ID: 2, MaxCapacity: 30},
	}
	teachers := []*domain.Teacher{{ID: 1, DepartmentID: 1}, {ID: 2, DepartmentID: 1}}
	rooms := []*domain.Room{{ID: 5, MaxCapacity: 50, IsActive: true}}

	s, err := New(testParameters(), courses, teachers, rooms, nil, nil)
	require.NoError(t, err)
	return s
}

func TestCalcFitness_RoomConflictPenalizedOnce(t *testing.T) {
	s := roomConflictScheduler(t)

	ch := &Chromosome{genes: []*Gene{
		{courseID: 1, teacherID: 1, roomID: 5, dayIdx: 2, slot: 3},
		{courseID: 2, teacherID: 2, roomID: 5, dayIdx: 2, slot: 3},
	}}
	s.calcFitness(ch)

	assert.Equal(t, Violations{RoomConflicts: 1}, ch.violations)
	assert.Equal(t, 2*WeightScheduled+PenaltyRoomConflict, ch.fitness)
}

func TestCalcFitness_TeacherAndClassConflicts(t *testing.T) {
	courses := testCourses(3)
	courses[1].ClassGroupID = courses[0].ClassGroupID
	courses[2].ClassGroupID = nil

	s := newTestScheduler(t, testParameters(), courses, nil, 1)

	ch := &Chromosome{genes: []*Gene{
		{courseID: 1, teacherID: 1, roomID: 1, dayIdx: 0, slot: 4},
		{courseID: 2, teacherID: 1, roomID: 2, dayIdx: 0, slot: 4},
		{courseID: 3, teacherID: 1, roomID: 2, dayIdx: 0, slot: 5},
	}}
	s.calcFitness(ch)

	assert.Equal(t, Violations{TeacherConflicts: 1, ClassConflicts: 1}, ch.violations)
	assert.Equal(t, 3*WeightScheduled+PenaltyTeacherConflict+PenaltyClassConflict, ch.fitness)
}

func TestCalcFitness_CapacityAndMorningBonus(t *testing.T) {
	courses := []*domain.Course{{ID: 1, MaxCapacity: 30}, {ID: 2, MaxCapacity: 30}}
	rooms := []*domain.Room{
		{ID: 1, MaxCapacity: 50, IsActive: true},
		{ID: 2, MaxCapacity: 20, IsActive: true},
	}

	s, err := New(testParameters(), courses, testTeachers(), rooms, nil, nil)
	require.NoError(t, err)

	ch := &Chromosome{genes: []*Gene{
		{courseID: 1, teacherID: 1, roomID: 2, dayIdx: 3, slot: 1},
		{courseID: 2, teacherID: 2, roomID: 99, dayIdx: 3, slot: 2}, // 教室不存在时跳过容量检查
	}}
	s.calcFitness(ch)

	assert.Equal(t, Violations{CapacityIssues: 1}, ch.violations)
	assert.Equal(t, 2*WeightScheduled+PenaltyRoomCapacity+2*BonusMorning, ch.fitness)
}

func TestCalcFitness_LockedGenePenalizedPerField(t *testing.T) {
	hard := []*domain.HardAssignment{{CourseID: 1, TeacherID: 1, RoomID: 1, DayIdx: 0, Slot: 3}}
	s := newTestScheduler(t, testParameters(), testCourses(1), hard, 1)

	cases := []struct {
		name       string
		gene       Gene
		violations int
	}{
		{"完全一致", Gene{courseID: 1, teacherID: 1, roomID: 1, dayIdx: 0, slot: 3, isLocked: true}, 0},
		{"教师不一致", Gene{courseID: 1, teacherID: 2, roomID: 1, dayIdx: 0, slot: 3, isLocked: true}, 1},
		{"全部不一致", Gene{courseID: 1, teacherID: 2, roomID: 2, dayIdx: 5, slot: 4, isLocked: true}, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gene := tc.gene
			ch := &Chromosome{genes: []*Gene{&gene}}
			s.calcFitness(ch)

			assert.Equal(t, tc.violations, ch.violations.HardViolations)
			assert.Equal(t, WeightScheduled+PenaltyViolateHard*float64(tc.violations), ch.fitness)
		})
	}
}

func TestRandomInitChromosome(t *testing.T) {
	hard := []*domain.HardAssignment{{CourseID: 3, TeacherID: 9, RoomID: 8, DayIdx: 5, Slot: 6}}
	s := newTestScheduler(t, testParameters(), testCourses(4), hard, 1)

	for i := 0; i < 50; i++ {
		ch := s.randomInitChromosome()
		require.Len(t, ch.genes, 4)

		for j, g := range ch.genes {
			assert.Equal(t, int64(j+1), g.courseID)
			if g.courseID == 3 {
				assert.Equal(t, Gene{courseID: 3, teacherID: 9, roomID: 8, dayIdx: 5, slot: 6, isLocked: true}, *g)
				continue
			}
			assert.False(t, g.isLocked)
			assert.Contains(t, []int64{1, 2}, g.teacherID)
			assert.Contains(t, []int64{1, 2}, g.roomID)
			assert.GreaterOrEqual(t, g.dayIdx, int32(0))
			assert.Less(t, g.dayIdx, int32(DaysPerWeek))
			assert.GreaterOrEqual(t, g.slot, int32(MinSlot))
			assert.LessOrEqual(t, g.slot, int32(SlotsPerDay))
		}
	}
}

func TestSelectByTournament(t *testing.T) {
	p := testParameters()
	p.PopulationSize = 4
	p.ElitismCount = 1
	p.TournamentSize = 4
	s := newTestScheduler(t, p, testCourses(1), nil, 1)

	pop := []*Chromosome{{fitness: 10}, {fitness: 40}, {fitness: 30}, {fitness: -5}}

	for i := 0; i < 20; i++ {
		assert.Same(t, pop[1], s.selectByTournament(pop))
	}
}

func TestSelectByTournament_TieGoesToFirstDrawn(t *testing.T) {
	p := testParameters()
	p.PopulationSize = 8
	p.ElitismCount = 1
	p.TournamentSize = 3
	s := newTestScheduler(t, p, testCourses(1), nil, 1)

	pop := make([]*Chromosome, 8)
	for i := range pop {
		pop[i] = &Chromosome{fitness: 7}
	}

	for seed := int64(0); seed < 20; seed++ {
		s.rng = rand.New(rand.NewSource(seed))
		drawn := rand.New(rand.NewSource(seed)).Perm(len(pop))[:p.TournamentSize]

		assert.Same(t, pop[drawn[0]], s.selectByTournament(pop))
	}
}

func TestSelectByTournament_BestAmongDrawn(t *testing.T) {
	p := testParameters()
	p.PopulationSize = 8
	p.ElitismCount = 1
	p.TournamentSize = 3
	s := newTestScheduler(t, p, testCourses(1), nil, 1)

	// 只有两种适应度，抽中的候选之间经常出现平局
	pop := make([]*Chromosome, 8)
	for i := range pop {
		pop[i] = &Chromosome{fitness: float64(i % 2)}
	}

	for seed := int64(0); seed < 50; seed++ {
		s.rng = rand.New(rand.NewSource(seed))
		drawn := rand.New(rand.NewSource(seed)).Perm(len(pop))[:p.TournamentSize]

		seen := make(map[int]bool)
		expected := drawn[0]
		for _, idx := range drawn {
			require.False(t, seen[idx], "同一轮锦标赛不能重复抽中 %d", idx)
			seen[idx] = true
			if pop[idx].fitness > pop[expected].fitness {
				expected = idx
			}
		}

		assert.Same(t, pop[expected], s.selectByTournament(pop))
	}
}

func TestUniformCrossover_LockedGenesPropagate(t *testing.T) {
	p := testParameters()
	p.CrossoverRate = 1
	hard := []*domain.HardAssignment{{CourseID: 2, TeacherID: 2, RoomID: 2, DayIdx: 3, Slot: 4}}
	s := newTestScheduler(t, p, testCourses(6), hard, 17)

	for i := 0; i < 50; i++ {
		p1, p2 := s.randomInitChromosome(), s.randomInitChromosome()
		before1, before2 := p1.clone(), p2.clone()

		c1, c2 := s.uniformCrossover(p1, p2)

		// 父本不会被修改
		assert.Equal(t, before1.genes, p1.genes)
		assert.Equal(t, before2.genes, p2.genes)

		require.Len(t, c1.genes, 6)
		require.Len(t, c2.genes, 6)
		for j := range c1.genes {
			assert.Equal(t, p1.genes[j].courseID, c1.genes[j].courseID)
			assert.Equal(t, p1.genes[j].courseID, c2.genes[j].courseID)

			if p1.genes[j].isLocked {
				assert.Equal(t, *p1.genes[j], *c1.genes[j])
				assert.Equal(t, *p1.genes[j], *c2.genes[j])
				assert.NotSame(t, c1.genes[j], c2.genes[j])
				continue
			}

			// 非锁定位置上两个子代各自来自不同的父本
			fromP1 := *c1.genes[j] == *p1.genes[j] && *c2.genes[j] == *p2.genes[j]
			fromP2 := *c1.genes[j] == *p2.genes[j] && *c2.genes[j] == *p1.genes[j]
			assert.True(t, fromP1 || fromP2)
		}
	}
}

func TestUniformCrossover_SkippedWhenRateIsZero(t *testing.T) {
	p := testParameters()
	p.CrossoverRate = 0
	s := newTestScheduler(t, p, testCourses(6), nil, 17)

	p1, p2 := s.randomInitChromosome(), s.randomInitChromosome()
	c1, c2 := s.uniformCrossover(p1, p2)

	assert.Equal(t, p1.genes, c1.genes)
	assert.Equal(t, p2.genes, c2.genes)
	assert.NotSame(t, p1.genes[0], c1.genes[0])
}

func TestMutate_SkipsLockedGenes(t *testing.T) {
	p := testParameters()
	p.MutationRate = 1
	hard := []*domain.HardAssignment{{CourseID: 1, TeacherID: 5, RoomID: 6, DayIdx: 2, Slot: 3}}
	s := newTestScheduler(t, p, testCourses(3), hard, 3)

	ch := s.randomInitChromosome()
	changed := false
	before := ch.clone()

	for i := 0; i < 100; i++ {
		s.mutate(ch)

		assert.Equal(t, Gene{courseID: 1, teacherID: 5, roomID: 6, dayIdx: 2, slot: 3, isLocked: true}, *ch.genes[0])
		for _, g := range ch.genes[1:] {
			assert.Contains(t, []int64{1, 2}, g.teacherID)
			assert.Contains(t, []int64{1, 2}, g.roomID)
			assert.GreaterOrEqual(t, g.slot, int32(MinSlot))
			assert.LessOrEqual(t, g.slot, int32(SlotsPerDay))
		}
	}

	for j := 1; j < len(ch.genes); j++ {
		if *ch.genes[j] != *before.genes[j] {
			changed = true
		}
	}
	assert.True(t, changed)
}

func TestMutate_ChangesAtMostOneField(t *testing.T) {
	p := testParameters()
	p.MutationRate = 1

	for seed := int64(0); seed < 20; seed++ {
		s := newTestScheduler(t, p, testCourses(8), nil, seed)

		ch := s.randomInitChromosome()
		before := ch.clone()
		s.mutate(ch)

		for j, g := range ch.genes {
			old := before.genes[j]
			changed := 0
			if g.teacherID != old.teacherID {
				changed++
			}
			if g.roomID != old.roomID {
				changed++
			}
			if g.dayIdx != old.dayIdx {
				changed++
			}
			if g.slot != old.slot {
				changed++
			}
			assert.LessOrEqual(t, changed, 1, "课程 %d 一次变异修改了 %d 个字段", g.courseID, changed)
			assert.Equal(t, old.courseID, g.courseID)
		}
	}
}

func TestMutate_NoopWhenRateIsZero(t *testing.T) {
	p := testParameters()
	p.MutationRate = 0
	s := newTestScheduler(t, p, testCourses(3), nil, 3)

	ch := s.randomInitChromosome()
	before := ch.clone()
	s.mutate(ch)

	assert.Equal(t, before.genes, ch.genes)
}

func TestEvaluate_ParallelMatchesSequential(t *testing.T) {
	p := testParameters()
	p.Workers = 4
	s := newTestScheduler(t, p, testCourses(10), nil, 8)

	pop := make([]*Chromosome, 30)
	for i := range pop {
		pop[i] = s.randomInitChromosome()
	}
	expected := make([]*Chromosome, len(pop))
	for i, ch := range pop {
		expected[i] = ch.clone()
		s.calcFitness(expected[i])
	}

	s.evaluate(pop)

	for i := range pop {
		assert.Equal(t, expected[i].fitness, pop[i].fitness)
		assert.Equal(t, expected[i].violations, pop[i].violations)
	}
}
