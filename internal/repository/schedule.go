package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/paiban/roster/pkg/model"
)

// ReplaceMonth 在一个事务内删除日期范围内的全部班次并批量写入新排班
//
// 写入使用 unnest 数组展开，一次往返完成整月插入。
func (r *ShiftRepository) ReplaceMonth(ctx context.Context, rng model.DateRange, shifts []*model.Shift) error {
	employeeIDs := make([]int64, len(shifts))
	codes := make([]int64, len(shifts))
	dates := make([]string, len(shifts))
	for i, s := range shifts {
		if s.WorkDate < rng.StartDate || s.WorkDate > rng.EndDate {
			return fmt.Errorf("班次日期 %s 超出范围 [%s, %s]", s.WorkDate, rng.StartDate, rng.EndDate)
		}
		employeeIDs[i] = s.EmployeeID
		codes[i] = int64(s.ShiftTypeID)
		dates[i] = s.WorkDate
	}

	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM shifts WHERE work_date BETWEEN $1 AND $2`,
			rng.StartDate, rng.EndDate,
		); err != nil {
			return fmt.Errorf("删除旧排班失败: %w", err)
		}

		if len(shifts) == 0 {
			return nil
		}

		query := `
			INSERT INTO shifts (employee_id, shift_type_id, work_date)
			SELECT * FROM unnest($1::bigint[], $2::smallint[], $3::date[])
		`
		if _, err := tx.ExecContext(ctx, query, pq.Array(employeeIDs), pq.Array(codes), pq.Array(dates)); err != nil {
			return fmt.Errorf("批量写入排班失败: %w", err)
		}
		return nil
	})
}

// ListMonth 查询日期范围内的班次记录
func (r *ShiftRepository) ListMonth(ctx context.Context, rng model.DateRange) ([]*model.Shift, error) {
	return r.List(ctx, ShiftFilter{}.WithDateRange(rng.StartDate, rng.EndDate))
}
