package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/lock"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/utils"
)

type hardAssignmentRequest struct {
	CourseID  int64  `json:"courseID" validate:"required,min=1"`
	TeacherID int64  `json:"teacherID" validate:"required,min=1"`
	RoomID    int64  `json:"roomID" validate:"required,min=1"`
	DayIdx    *int32 `json:"dayIdx" validate:"required,min=0,max=5"`
	Slot      int32  `json:"slot" validate:"required,min=1,max=6"`
	Reason    string `json:"reason" validate:"max=255"`
}

// 所有参数都是可选的，没有传入时使用配置中的默认值
type generateScheduleRequest struct {
	PopulationSize  *int                     `json:"populationSize" validate:"omitnil,min=1"`
	MaxGenerations  *int                     `json:"maxGenerations" validate:"omitnil,min=0"`
	CrossoverRate   *float64                 `json:"crossoverRate" validate:"omitnil,min=0,max=1"`
	MutationRate    *float64                 `json:"mutationRate" validate:"omitnil,min=0,max=1"`
	ElitismCount    *int                     `json:"elitismCount" validate:"omitnil,min=0"`
	TournamentSize  *int                     `json:"tournamentSize" validate:"omitnil,min=1"`
	StagnationLimit *int                     `json:"stagnationLimit" validate:"omitnil,min=1"`
	Seed            *int64                   `json:"seed"`
	DryRun          bool                     `json:"dryRun"`
	HardAssignments []*hardAssignmentRequest `json:"hardAssignments" validate:"dive"`
}

func (h *Handler) schedulerParameters(req *generateScheduleRequest) scheduler.Parameters {
	cfg := h.config.Scheduler
	p := scheduler.Parameters{
		PopulationSize:  cfg.PopulationSize,
		MaxGenerations:  cfg.MaxGenerations,
		CrossoverRate:   cfg.CrossoverRate,
		MutationRate:    cfg.MutationRate,
		ElitismCount:    cfg.ElitismCount,
		TournamentSize:  cfg.TournamentSize,
		StagnationLimit: cfg.StagnationLimit,
		Workers:         cfg.Workers,
		Seed:            time.Now().UnixNano(),
	}

	if req.PopulationSize != nil {
		p.PopulationSize = *req.PopulationSize
	}
	if req.MaxGenerations != nil {
		p.MaxGenerations = *req.MaxGenerations
	}
	if req.CrossoverRate != nil {
		p.CrossoverRate = *req.CrossoverRate
	}
	if req.MutationRate != nil {
		p.MutationRate = *req.MutationRate
	}
	if req.ElitismCount != nil {
		p.ElitismCount = *req.ElitismCount
	}
	if req.TournamentSize != nil {
		p.TournamentSize = *req.TournamentSize
	}
	if req.StagnationLimit != nil {
		p.StagnationLimit = *req.StagnationLimit
	}
	if req.Seed != nil {
		p.Seed = *req.Seed
	}

	return p
}

// checkParameterLimits 限制单次排课的规模，避免一次请求占满内存或长时间持有排课锁
func (h *Handler) checkParameterLimits(p scheduler.Parameters) error {
	cfg := h.config.Scheduler
	if p.PopulationSize > cfg.MaxPopulationSize {
		return fmt.Errorf("种群大小不能超过 %d", cfg.MaxPopulationSize)
	}
	if p.MaxGenerations > cfg.MaxGenerationsLimit {
		return fmt.Errorf("最大迭代次数不能超过 %d", cfg.MaxGenerationsLimit)
	}
	return nil
}

func lastRunKey(termID int64) string {
	return fmt.Sprintf("schedule_last_run_term_%d", termID)
}

func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	term := r.Context().Value(TermCtx).(*domain.Term)

	// 获取参数，请求体为空时全部使用默认值
	var req generateScheduleRequest
	if err := h.readJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	parameters := h.schedulerParameters(&req)
	if err := h.checkParameterLimits(parameters); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hardAssignments := make([]*domain.HardAssignment, 0, len(req.HardAssignments))
	for _, ha := range req.HardAssignments {
		hardAssignments = append(hardAssignments, &domain.HardAssignment{
			CourseID:  ha.CourseID,
			TeacherID: ha.TeacherID,
			RoomID:    ha.RoomID,
			DayIdx:    *ha.DayIdx,
			Slot:      ha.Slot,
			Reason:    ha.Reason,
		})
	}

	// 同一个学期同时只能有一个排课任务
	runID := uuid.NewString()
	if err := h.acquireTermLock(term.ID, runID); err != nil {
		switch {
		case errors.Is(err, lock.ErrLocked):
			h.metrics.CountRun(metrics.OutcomeLocked)
			h.errorResponse(w, r, "该学期正在排课，请稍后再试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	defer h.releaseTermLock(term.ID, runID)

	teachers, err := h.repository.ListTeachers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	rooms, err := h.repository.ListRooms()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 强制排课在进入排课器之前必须校验完毕
	if len(hardAssignments) > 0 {
		termCourses, err := h.repository.ListCoursesByTermID(term.ID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if err := utils.ValidateHardAssignments(hardAssignments, termCourses, teachers, rooms); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	courses, err := h.repository.ListSchedulableCourses(term.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	s, err := scheduler.New(parameters, courses, teachers, rooms, hardAssignments, nil)
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrInvalidParameters):
			h.badRequest(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	slog.Info("开始自动排课", "run_id", runID, "term_id", term.ID, "seed", parameters.Seed, "dry_run", req.DryRun)

	start := time.Now()
	res := s.Schedule()
	duration := time.Since(start)

	result := &domain.SchedulingResult{
		RunID:                 runID,
		TermID:                term.ID,
		Success:               true,
		Assignments:           res.Assignments,
		Statistics:            res.Statistics,
		Violations:            res.Violations,
		FitnessScore:          res.Fitness,
		GenerationsRun:        res.Generations,
		HardAssignmentsCount:  res.HardAssignmentsCount,
		UnresolvableCourseIDs: res.UnresolvableCourseIDs,
		BestFitnessHistory:    res.BestFitnessHistory,
		AvgFitnessHistory:     res.AvgFitnessHistory,
	}

	// 所有课程都缺少候选教师或教室，属于数据问题，需要让调用方注意到
	if len(res.Assignments) == 0 && len(res.UnresolvableCourseIDs) > 0 {
		result.Success = false
		result.Message = fmt.Sprintf("%d 门课程没有合适的教师或教室，无法排课", len(res.UnresolvableCourseIDs))
		h.metrics.ObserveRun(metrics.OutcomeUnresolvable, metrics.RunStats{
			Duration:     duration,
			Unresolvable: len(res.UnresolvableCourseIDs),
		})
		h.cacheLastRun(result)
		h.publishScheduleFailedMail(term, runID, result.Message)
		h.writeJSON(w, r, http.StatusOK, Response{
			Success: false,
			Message: result.Message,
			Data:    result,
		})
		return
	}

	if len(res.Assignments) == 0 {
		result.Message = "没有需要排课的课程"
		h.metrics.CountRun(metrics.OutcomeEmpty)
		h.cacheLastRun(result)
		h.successResponse(w, r, result.Message, result)
		return
	}

	stats := metrics.RunStats{
		Duration:         duration,
		Generations:      res.Generations,
		Fitness:          res.Fitness,
		Unresolvable:     len(res.UnresolvableCourseIDs),
		RoomConflicts:    res.Violations.RoomConflicts,
		TeacherConflicts: res.Violations.TeacherConflicts,
		ClassConflicts:   res.Violations.ClassConflicts,
		CapacityIssues:   res.Violations.CapacityIssues,
		HardViolations:   res.Violations.HardViolations,
	}

	if req.DryRun {
		result.Message = "排课完成，结果未写入"
		h.metrics.ObserveRun(metrics.OutcomeDryRun, stats)
		h.cacheLastRun(result)
		h.publishScheduleGeneratedMail(term, result)
		h.successResponse(w, r, result.Message, result)
		return
	}

	// 写入前再检查一次强制排课，然后在一个事务中写入所有课程
	err = utils.ValidateAssignmentsWithHardAssignments(res.Assignments, hardAssignments, scheduler.WeekdayName)
	if err == nil {
		err = h.repository.ApplySchedule(term.ID, res.Assignments)
	}
	if err != nil {
		slog.Error("写入排课结果失败", "run_id", runID, "term_id", term.ID, "error", err)

		result.Success = false
		result.Message = "写入排课结果失败，所有修改均已回滚"
		if errors.Is(err, repository.ErrCourseNotUpdated) {
			result.Message = "部分课程已被修改或删除，所有修改均已回滚"
		}

		h.metrics.ObserveRun(metrics.OutcomeFailed, stats)
		h.cacheLastRun(result)
		h.publishScheduleFailedMail(term, runID, result.Message)
		h.failedResponse(w, r, result.Message, result)
		return
	}

	result.Applied = true
	result.Message = "排课成功"
	h.metrics.ObserveRun(metrics.OutcomeApplied, stats)
	h.cacheLastRun(result)
	h.publishScheduleGeneratedMail(term, result)
	h.successResponse(w, r, result.Message, result)
}

func (h *Handler) GetScheduleStatus(w http.ResponseWriter, r *http.Request) {
	term := r.Context().Value(TermCtx).(*domain.Term)

	courses, err := h.repository.ListCoursesByTermID(term.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	status := &domain.ScheduleStatus{
		TermID:       term.ID,
		TotalCourses: len(courses),
		ScheduleList: make([]*domain.Course, 0),
	}
	for _, course := range courses {
		if course.IsScheduled() {
			status.ScheduleList = append(status.ScheduleList, course)
		}
	}
	status.ScheduledCourses = len(status.ScheduleList)
	status.UnscheduledCourses = status.TotalCourses - status.ScheduledCourses
	if status.TotalCourses > 0 {
		rate := float64(status.ScheduledCourses) / float64(status.TotalCourses) * 100
		status.CompletionRate = math.Round(rate*100) / 100
	}

	h.successResponse(w, r, "获取排课状态成功", status)
}

func (h *Handler) ResetSchedule(w http.ResponseWriter, r *http.Request) {
	term := r.Context().Value(TermCtx).(*domain.Term)

	runID := uuid.NewString()
	if err := h.acquireTermLock(term.ID, runID); err != nil {
		switch {
		case errors.Is(err, lock.ErrLocked):
			h.errorResponse(w, r, "该学期正在排课，请稍后再试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	defer h.releaseTermLock(term.ID, runID)

	count, err := h.repository.ResetSchedule(term.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.metrics.CountReset()
	slog.Info("已重置学期排课", "term_id", term.ID, "count", count)

	h.successResponse(w, r, fmt.Sprintf("已重置 %d 门课程的排课", count), map[string]int64{"resetCount": count})
}

func (h *Handler) GetLastScheduleRun(w http.ResponseWriter, r *http.Request) {
	term := r.Context().Value(TermCtx).(*domain.Term)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	data, err := h.redisClient.Get(ctx, lastRunKey(term.ID)).Bytes()
	if err != nil {
		switch {
		case errors.Is(err, redis.Nil):
			h.errorResponse(w, r, "该学期还没有排课记录")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	var result domain.SchedulingResult
	if err := json.Unmarshal(data, &result); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取最近一次排课结果成功", &result)
}

func (h *Handler) acquireTermLock(termID int64, token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	return h.termLocker.Acquire(ctx, termID, token)
}

func (h *Handler) releaseTermLock(termID int64, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	// 释放失败时锁会在过期后自动释放
	if err := h.termLocker.Release(ctx, termID, token); err != nil {
		slog.Error("无法释放学期排课锁", "term_id", termID, "error", err)
	}
}

// cacheLastRun 把结果缓存到 redis 中，失败时只记录日志
func (h *Handler) cacheLastRun(result *domain.SchedulingResult) {
	data, err := json.Marshal(result)
	if err != nil {
		slog.Error("无法序列化排课结果", "run_id", result.RunID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	expiration := time.Duration(h.config.Redis.LastRunExpiration) * time.Second
	if err := h.redisClient.Set(ctx, lastRunKey(result.TermID), data, expiration).Err(); err != nil {
		slog.Error("无法缓存排课结果", "run_id", result.RunID, "error", err)
	}
}
