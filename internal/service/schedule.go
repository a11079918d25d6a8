package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paiban/roster/internal/events"
	"github.com/paiban/roster/internal/lock"
	"github.com/paiban/roster/internal/metrics"
	"github.com/paiban/roster/internal/repository"
	apperrors "github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/logger"
	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/optimizer"
	"github.com/paiban/roster/pkg/scheduler/roster"
	"github.com/paiban/roster/pkg/scheduler/solver"
	"github.com/paiban/roster/pkg/stats"
	"github.com/paiban/roster/pkg/validator"
)

// GenerateRequest 月度排班生成请求
type GenerateRequest struct {
	Year        int      `json:"year"`
	Month       int      `json:"month"`
	EmployeeIDs []int64  `json:"employee_ids"`
	Holidays    []string `json:"holidays,omitempty"` // YYYY-MM-DD
}

// EmployeeRow 员工当月班次，Codes 为按天排列的单字母代码
type EmployeeRow struct {
	EmployeeID int64  `json:"employee_id"`
	Name       string `json:"name,omitempty"`
	Codes      string `json:"codes"`
}

// GenerateResult 月度排班生成结果
type GenerateResult struct {
	RunID       string              `json:"run_id"`
	Year        int                 `json:"year"`
	Month       int                 `json:"month"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	Holidays    []string            `json:"holidays,omitempty"`
	Seed        int64               `json:"seed"`
	Cost        float64             `json:"cost"`
	InitialCost float64             `json:"initial_cost"`
	Breakdown   optimizer.Breakdown `json:"breakdown"`
	Iterations  int                 `json:"iterations"`
	Reheats     int                 `json:"reheats"`
	Skipped     int                 `json:"skipped"`
	Repaired    int                 `json:"repaired"`
	StoppedBy   string              `json:"stopped_by"`
	Fingerprint string              `json:"fingerprint"`
	Rows        []EmployeeRow       `json:"rows"`
	Stats       *stats.Summary      `json:"stats"`
	Warnings    []string            `json:"warnings,omitempty"`
	DurationMs  int64               `json:"duration_ms"`
}

// validateGenerateRequest 在搜索开始前校验全部输入
func validateGenerateRequest(req *GenerateRequest) ([]time.Time, error) {
	verrs := &apperrors.ValidationErrors{}

	if req.Month < 1 || req.Month > 12 {
		verrs.Add("month", "月份必须在 1-12 之间")
	}
	if req.Year < 1 || req.Year > 9999 {
		verrs.Add("year", "年份无效")
	}
	if len(req.EmployeeIDs) == 0 {
		verrs.Add("employee_ids", "员工列表不能为空")
	}

	seen := make(map[int64]bool, len(req.EmployeeIDs))
	for _, id := range req.EmployeeIDs {
		if id <= 0 {
			verrs.Add("employee_ids", fmt.Sprintf("员工ID无效: %d", id))
			break
		}
		if seen[id] {
			verrs.Add("employee_ids", fmt.Sprintf("员工ID重复: %d", id))
			break
		}
		seen[id] = true
	}

	holidays := make([]time.Time, 0, len(req.Holidays))
	for _, h := range req.Holidays {
		d, err := model.ParseDate(h)
		if err != nil {
			verrs.Add("holidays", fmt.Sprintf("日期格式错误: %s", h))
			break
		}
		holidays = append(holidays, d)
	}

	if verrs.HasErrors() {
		return nil, verrs.ToAppError()
	}
	return holidays, nil
}

// checkEmployees 确认所有员工存在
func (s *ScheduleService) checkEmployees(ctx context.Context, ids []int64) error {
	existing, err := s.employees.ExistingIDs(ctx, ids)
	if err != nil {
		return apperrors.Database(err, "查询员工")
	}

	var unknown []string
	for _, id := range ids {
		if !existing[id] {
			unknown = append(unknown, fmt.Sprint(id))
		}
	}
	if len(unknown) > 0 {
		return apperrors.InvalidInput("employee_ids", "未知员工: "+strings.Join(unknown, ","))
	}
	return nil
}

// GenerateMonthlySchedule 生成月度排班并整体替换该月已有记录
//
// 任何失败都不会修改已存储的排班。
func (s *ScheduleService) GenerateMonthlySchedule(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	start := s.now()

	holidays, err := validateGenerateRequest(&req)
	if err != nil {
		return nil, err
	}
	if err := s.checkEmployees(ctx, req.EmployeeIDs); err != nil {
		return nil, err
	}

	cal, err := roster.NewCalendar(req.Year, time.Month(req.Month), holidays)
	if err != nil {
		return nil, apperrors.InvalidInput("month", err.Error())
	}

	release, err := s.locker.Acquire(ctx, req.Year, time.Month(req.Month))
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return nil, apperrors.ScheduleConflict(req.Year, req.Month, err.Error())
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, mapContextError(ctxErr)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "获取排班锁失败")
	}
	defer release()

	if s.metrics != nil {
		defer s.metrics.GenerationStarted()()
	}

	result, err := s.generate(ctx, req, cal, start)
	if s.metrics != nil {
		s.metrics.RecordGeneration(err == nil, s.now().Sub(start))
	}
	if err != nil {
		s.log.ScheduleFailed(string(apperrors.GetCode(err)), err)
		return nil, err
	}
	result.DurationMs = s.now().Sub(start).Milliseconds()
	return result, nil
}

func (s *ScheduleService) generate(ctx context.Context, req GenerateRequest, cal *roster.Calendar, start time.Time) (*GenerateResult, error) {
	runID := uuid.NewString()
	log := s.log.ForRun(runID)
	n := len(req.EmployeeIDs)

	annealing := *s.params.Annealing
	if annealing.Seed == 0 {
		annealing.Seed = s.now().UnixNano()
	}

	var warnings []string
	log.StartSchedule(n, cal.DaysInMonth(), annealing.Seed)
	switch daily := s.params.Evaluator.Coverage.MaxDaily(); {
	case n < daily:
		log.StaffingWarning(n, daily)
		warnings = append(warnings, fmt.Sprintf("员工数 %d 少于单日最低需求 %d 人，覆盖缺口不可避免", n, daily))
	case n < s.cfg.RecommendedMinStaff:
		log.StaffingWarning(n, s.cfg.RecommendedMinStaff)
		warnings = append(warnings, fmt.Sprintf("员工数 %d 少于建议的 %d 人，覆盖需求可能无法满足", n, s.cfg.RecommendedMinStaff))
	}

	evaluator, err := optimizer.NewEvaluator(cal, s.params.Evaluator)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidInput, "排班引擎配置无效")
	}
	engine, err := optimizer.NewEngine(solver.NewGreedyBuilder(s.params.Evaluator.Coverage), evaluator, &annealing, s.params.Neighbor, log)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidInput, "排班引擎配置无效")
	}

	res, err := engine.Solve(ctx, n)
	if err != nil {
		return nil, mapContextError(err)
	}
	if len(res.Grid.Violations()) > 0 {
		return nil, apperrors.New(apperrors.CodeInternal, "修复后仍存在禁止模式")
	}

	rng := cal.Range()
	shifts := make([]*model.Shift, 0, n*cal.DaysInMonth())
	for e, id := range req.EmployeeIDs {
		for d := 1; d <= cal.DaysInMonth(); d++ {
			shifts = append(shifts, &model.Shift{
				EmployeeID:  id,
				ShiftTypeID: res.Grid.At(e, d),
				WorkDate:    model.FormatDate(cal.Date(d)),
			})
		}
	}
	if err := s.shifts.ReplaceMonth(ctx, rng, shifts); err != nil {
		return nil, apperrors.Database(err, "保存月度排班")
	}

	infos, names := s.employeeInfos(ctx, req.EmployeeIDs)
	summary := stats.Summarize(res.Grid, cal, s.params.Evaluator.Coverage, infos)

	rows := make([]EmployeeRow, n)
	lines := strings.Split(res.Grid.String(), "\n")
	for e, id := range req.EmployeeIDs {
		rows[e] = EmployeeRow{EmployeeID: id, Name: names[id], Codes: lines[e]}
	}

	sum := res.Grid.Fingerprint()
	fingerprint := fmt.Sprintf("%016x", sum)
	if s.metrics != nil {
		s.metrics.RecordOptimizer(metrics.OptimizerRun{
			Iterations: res.Iterations,
			Accepted:   res.Accepted,
			Skipped:    res.Skipped,
			Reheats:    res.Reheats,
			Repaired:   res.Repaired,
			Cost:       res.Cost,
		})
		s.metrics.SetCoverageRate(summary.Coverage.OverallCoverage)
		s.metrics.SetFairnessGini("workload", summary.Fairness.WorkloadGini)
		s.metrics.SetFairnessGini("night", summary.Fairness.NightShiftGini)
		s.metrics.SetFairnessGini("weekend", summary.Fairness.WeekendShiftGini)
	}

	s.publish(ctx, events.RosterGenerated, events.Generated{
		Year:        req.Year,
		Month:       req.Month,
		Employees:   n,
		Shifts:      len(shifts),
		Cost:        res.Cost,
		Fingerprint: fingerprint,
	})
	log.ScheduleComplete(s.now().Sub(start), res.Cost, res.Iterations, sum)

	return &GenerateResult{
		RunID:       runID,
		Year:        req.Year,
		Month:       req.Month,
		StartDate:   rng.StartDate,
		EndDate:     rng.EndDate,
		Holidays:    cal.Holidays(),
		Seed:        res.Seed,
		Cost:        res.Cost,
		InitialCost: res.InitialCost,
		Breakdown:   res.Breakdown,
		Iterations:  res.Iterations,
		Reheats:     res.Reheats,
		Skipped:     res.Skipped,
		Repaired:    res.Repaired,
		StoppedBy:   string(res.StoppedBy),
		Fingerprint: fingerprint,
		Rows:        rows,
		Stats:       summary,
		Warnings:    warnings,
	}, nil
}

// employeeInfos 按请求顺序返回员工信息，查询失败时只保留ID
func (s *ScheduleService) employeeInfos(ctx context.Context, ids []int64) ([]stats.EmployeeInfo, map[int64]string) {
	names := make(map[int64]string, len(ids))
	emps, err := s.employees.ListByIDs(ctx, ids)
	if err != nil {
		logger.WithContext(ctx).Warn().Err(err).Msg("查询员工姓名失败")
	}
	for _, e := range emps {
		names[e.ID] = e.Name
	}

	infos := make([]stats.EmployeeInfo, len(ids))
	for i, id := range ids {
		infos[i] = stats.EmployeeInfo{ID: id, Name: names[id]}
	}
	return infos, names
}

// AuditMonth 审计某月已存储的排班，返回禁止模式、重复记录、连续工作与超时冲突
//
// 读取范围向前多取两天，以发现跨月的禁止模式。
func (s *ScheduleService) AuditMonth(ctx context.Context, year, month int) ([]validator.Conflict, error) {
	cal, err := roster.NewCalendar(year, time.Month(month), nil)
	if err != nil {
		return nil, apperrors.InvalidInput("month", err.Error())
	}
	rng := cal.Range()
	from := model.FormatDate(cal.Date(1).AddDate(0, 0, -2))

	shifts, err := s.shifts.List(ctx, repository.ShiftFilter{}.WithDateRange(from, rng.EndDate))
	if err != nil {
		return nil, apperrors.Database(err, "查询排班")
	}
	emps, err := s.employees.List(ctx)
	if err != nil {
		return nil, apperrors.Database(err, "查询员工")
	}
	byID := make(map[int64]*model.Employee, len(emps))
	for _, e := range emps {
		byID[e.ID] = e
	}

	conflicts := make([]validator.Conflict, 0)
	for _, c := range s.detector.DetectAll(shifts, byID) {
		if rng.Contains(c.Date) {
			conflicts = append(conflicts, c)
		}
	}
	sort.SliceStable(conflicts, func(i, j int) bool {
		if conflicts[i].EmployeeID != conflicts[j].EmployeeID {
			return conflicts[i].EmployeeID < conflicts[j].EmployeeID
		}
		return conflicts[i].Date < conflicts[j].Date
	})
	return conflicts, nil
}
