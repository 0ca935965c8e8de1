package scheduler

import (
	"golang.org/x/sync/errgroup"
)

// randomInitChromosome 随机初始化一个染色体
// 有强制排课的课程直接生成锁定的基因，其余课程从候选池中随机选择教师和教室
func (s *Scheduler) randomInitChromosome() *Chromosome {
	genes := make([]*Gene, 0, len(s.courses))

	for _, c := range s.courses {
		if c.hard != nil {
			genes = append(genes, &Gene{
				courseID:  c.course.ID,
				teacherID: c.hard.TeacherID,
				roomID:    c.hard.RoomID,
				dayIdx:    c.hard.DayIdx,
				slot:      c.hard.Slot,
				isLocked:  true,
			})
			continue
		}

		genes = append(genes, &Gene{
			courseID:  c.course.ID,
			teacherID: c.teachers[s.rng.Intn(len(c.teachers))].ID,
			roomID:    c.rooms[s.rng.Intn(len(c.rooms))].ID,
			dayIdx:    s.randomDay(),
			slot:      s.randomSlot(),
		})
	}

	return &Chromosome{
		genes: genes,
	}
}

func (s *Scheduler) randomDay() int32 {
	return int32(s.rng.Intn(DaysPerWeek))
}

func (s *Scheduler) randomSlot() int32 {
	return int32(s.rng.Intn(SlotsPerDay)) + MinSlot
}

type slotKey struct {
	id     int64
	dayIdx int32
	slot   int32
}

/**
 * 计算染色体的适应度
 * fitness = 1000 * 基因数量 + 各项惩罚 + 上午奖励
 * 其中:
 *		1. 锁定基因的四个字段分别和强制排课比较，每个不一致的字段扣 10000
 *		2. 教室、教师、学生班级在同一时间段被占用时，第一个基因不扣分，之后的每个基因扣 1000
 *		3. 教室容量不足扣 500
 *		4. 第 1、2 节的课程加 10
 * 只会修改 ch 自身，可以并发调用
 */
func (s *Scheduler) calcFitness(ch *Chromosome) {
	var v Violations
	fitness := 0.0

	roomSlots := make(map[slotKey]struct{}, len(ch.genes))
	teacherSlots := make(map[slotKey]struct{}, len(ch.genes))
	classSlots := make(map[slotKey]struct{}, len(ch.genes))

	for _, gene := range ch.genes {
		info := s.courseByID[gene.courseID]

		fitness += WeightScheduled

		if gene.isLocked && info != nil && info.hard != nil {
			mismatches := 0
			if gene.teacherID != info.hard.TeacherID {
				mismatches++
			}
			if gene.roomID != info.hard.RoomID {
				mismatches++
			}
			if gene.dayIdx != info.hard.DayIdx {
				mismatches++
			}
			if gene.slot != info.hard.Slot {
				mismatches++
			}
			fitness += PenaltyViolateHard * float64(mismatches)
			v.HardViolations += mismatches
		}

		roomKey := slotKey{id: gene.roomID, dayIdx: gene.dayIdx, slot: gene.slot}
		if _, taken := roomSlots[roomKey]; taken {
			fitness += PenaltyRoomConflict
			v.RoomConflicts++
		} else {
			roomSlots[roomKey] = struct{}{}
		}

		teacherKey := slotKey{id: gene.teacherID, dayIdx: gene.dayIdx, slot: gene.slot}
		if _, taken := teacherSlots[teacherKey]; taken {
			fitness += PenaltyTeacherConflict
			v.TeacherConflicts++
		} else {
			teacherSlots[teacherKey] = struct{}{}
		}

		if info != nil && info.course.ClassGroupID != nil {
			classKey := slotKey{id: *info.course.ClassGroupID, dayIdx: gene.dayIdx, slot: gene.slot}
			if _, taken := classSlots[classKey]; taken {
				fitness += PenaltyClassConflict
				v.ClassConflicts++
			} else {
				classSlots[classKey] = struct{}{}
			}
		}

		// 找不到教室时跳过容量检查
		if room, exists := s.roomsByID[gene.roomID]; exists && info != nil {
			if room.MaxCapacity < info.course.MaxCapacity {
				fitness += PenaltyRoomCapacity
				v.CapacityIssues++
			}
		}

		if gene.slot >= MinSlot && gene.slot <= MorningSlots {
			fitness += BonusMorning
		}
	}

	ch.fitness = fitness
	ch.violations = v
}

// evaluate 计算整个种群的适应度，Workers > 1 时并行计算
func (s *Scheduler) evaluate(pop []*Chromosome) {
	if s.parameters.Workers <= 1 {
		for _, ch := range pop {
			s.calcFitness(ch)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(s.parameters.Workers)
	for _, ch := range pop {
		g.Go(func() error {
			s.calcFitness(ch)
			return nil
		})
	}
	_ = g.Wait()
}

// 锦标赛选择
// 每次从种群中不放回地抽取 TournamentSize 个染色体，返回其中适应度最高的（相同时取先抽到的）
func (s *Scheduler) selectByTournament(pop []*Chromosome) *Chromosome {
	k := min(s.parameters.TournamentSize, len(pop))

	var winner *Chromosome
	for _, idx := range s.rng.Perm(len(pop))[:k] {
		if winner == nil || pop[idx].fitness > winner.fitness {
			winner = pop[idx]
		}
	}

	return winner
}

// 均匀交叉
// 返回两个新的子代，父本不会被修改
// 锁定的基因原样复制给两个子代，其余位置以 0.5 的概率交换
func (s *Scheduler) uniformCrossover(p1 *Chromosome, p2 *Chromosome) (*Chromosome, *Chromosome) {
	c1, c2 := p1.clone(), p2.clone()

	if s.rng.Float64() >= s.parameters.CrossoverRate {
		return c1, c2
	}

	if len(c1.genes) != len(c2.genes) {
		// 同一次排课中的染色体长度总是相等的
		return c1, c2
	}

	for i := range c1.genes {
		switch {
		case p1.genes[i].isLocked:
			gene := *p1.genes[i]
			c2.genes[i] = &gene
		case p2.genes[i].isLocked:
			gene := *p2.genes[i]
			c1.genes[i] = &gene
		case s.rng.Float64() < 0.5:
			c1.genes[i], c2.genes[i] = c2.genes[i], c1.genes[i]
		}
	}

	return c1, c2
}

// 变异
// 跳过锁定的基因，其余基因以 MutationRate 的概率随机改变教师、教室、星期、节次中的一项
func (s *Scheduler) mutate(ch *Chromosome) {
	for _, gene := range ch.genes {
		if gene.isLocked {
			continue
		}

		if s.rng.Float64() >= s.parameters.MutationRate {
			continue
		}

		info := s.courseByID[gene.courseID]
		if info == nil {
			continue
		}

		switch s.rng.Intn(4) {
		case 0:
			gene.teacherID = info.teachers[s.rng.Intn(len(info.teachers))].ID
		case 1:
			gene.roomID = info.rooms[s.rng.Intn(len(info.rooms))].ID
		case 2:
			gene.dayIdx = s.randomDay()
		case 3:
			gene.slot = s.randomSlot()
		}
	}
}
