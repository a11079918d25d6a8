package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paiban/roster/pkg/model"
)

// ShiftRepository 班次记录仓储
type ShiftRepository struct {
	db TxDB
}

// NewShiftRepository 创建班次仓储
func NewShiftRepository(db TxDB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

const shiftColumns = `
	s.id, s.employee_id, s.shift_type_id, s.work_date,
	COALESCE(e.name, ''), COALESCE(t.name, '')`

const shiftFrom = `
	FROM shifts s
	LEFT JOIN employees e ON e.id = s.employee_id
	LEFT JOIN shift_types t ON t.id = s.shift_type_id`

// FindShift 查询员工某日的班次，不存在时 found=false
func (r *ShiftRepository) FindShift(ctx context.Context, employeeID int64, date time.Time) (model.ShiftCode, bool, error) {
	var code int
	err := r.db.QueryRowContext(ctx,
		`SELECT shift_type_id FROM shifts WHERE employee_id = $1 AND work_date = $2`,
		employeeID, model.FormatDate(date),
	).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Unassigned, false, nil
	}
	if err != nil {
		return model.Unassigned, false, fmt.Errorf("查询班次失败: %w", err)
	}
	return model.ShiftCode(code), true, nil
}

// UpsertShift 写入员工某日的班次，已存在则覆盖
func (r *ShiftRepository) UpsertShift(ctx context.Context, employeeID int64, date time.Time, code model.ShiftCode) (*model.Shift, error) {
	shift := &model.Shift{
		EmployeeID:  employeeID,
		ShiftTypeID: code,
		WorkDate:    model.FormatDate(date),
	}

	query := `
		INSERT INTO shifts (employee_id, shift_type_id, work_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, work_date)
		DO UPDATE SET shift_type_id = EXCLUDED.shift_type_id
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, employeeID, int(code), shift.WorkDate).Scan(&shift.ID); err != nil {
		return nil, fmt.Errorf("写入班次失败: %w", err)
	}
	return shift, nil
}

// Add 新增一条班次记录，同一员工同一天已有记录时返回 ErrDuplicate
func (r *ShiftRepository) Add(ctx context.Context, shift *model.Shift) error {
	query := `
		INSERT INTO shifts (employee_id, shift_type_id, work_date)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, shift.EmployeeID, int(shift.ShiftTypeID), shift.WorkDate).Scan(&shift.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("创建班次失败: %w", err)
	}
	return nil
}

// Delete 删除班次记录
func (r *ShiftRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("删除班次失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// List 查询班次列表，按日期、员工排序
func (r *ShiftRepository) List(ctx context.Context, filter ShiftFilter) ([]*model.Shift, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("s.employee_id = $%d", argIndex))
		args = append(args, *filter.EmployeeID)
		argIndex++
	}
	if filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("s.work_date >= $%d", argIndex))
		args = append(args, filter.StartDate)
		argIndex++
	}
	if filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("s.work_date <= $%d", argIndex))
		args = append(args, filter.EndDate)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY s.work_date ASC, s.employee_id ASC`, shiftColumns, shiftFrom, whereClause)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询班次列表失败: %w", err)
	}
	defer rows.Close()

	var shifts []*model.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, rows.Err()
}

// ListAll 查询全部班次记录
func (r *ShiftRepository) ListAll(ctx context.Context) ([]*model.Shift, error) {
	return r.List(ctx, ShiftFilter{})
}

// ListByEmployee 查询员工的全部班次记录
func (r *ShiftRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*model.Shift, error) {
	return r.List(ctx, ShiftFilter{}.WithEmployee(employeeID))
}

// scanShift 扫描班次行
func scanShift(row Scanner) (*model.Shift, error) {
	shift := &model.Shift{}
	var code int
	var workDate time.Time
	if err := row.Scan(&shift.ID, &shift.EmployeeID, &code, &workDate, &shift.EmployeeName, &shift.ShiftTypeName); err != nil {
		return nil, fmt.Errorf("扫描班次数据失败: %w", err)
	}
	shift.ShiftTypeID = model.ShiftCode(code)
	shift.WorkDate = model.FormatDate(workDate)
	return shift, nil
}
