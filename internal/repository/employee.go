package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/paiban/roster/pkg/model"
)

// EmployeeRepository 员工仓储
type EmployeeRepository struct {
	db DB
}

// NewEmployeeRepository 创建员工仓储
func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `id, name, role, night_shift_available, max_weekly_hours, created_at, updated_at`

// Create 创建员工
func (r *EmployeeRepository) Create(ctx context.Context, emp *model.Employee) error {
	emp.ApplyDefaults()
	now := time.Now()
	emp.CreatedAt = now
	emp.UpdatedAt = now

	query := `
		INSERT INTO employees (name, role, night_shift_available, max_weekly_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		emp.Name, emp.Role, emp.NightShiftAvailable, emp.MaxWeeklyHours, emp.CreatedAt, emp.UpdatedAt,
	).Scan(&emp.ID)
	if err != nil {
		return fmt.Errorf("创建员工失败: %w", err)
	}
	return nil
}

// GetByID 根据ID获取员工
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}
	return emp, nil
}

// Update 更新员工
func (r *EmployeeRepository) Update(ctx context.Context, emp *model.Employee) error {
	emp.ApplyDefaults()
	emp.UpdatedAt = time.Now()

	query := `
		UPDATE employees SET
			name = $2, role = $3, night_shift_available = $4, max_weekly_hours = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Role, emp.NightShiftAvailable, emp.MaxWeeklyHours, emp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("更新员工失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 删除员工，其班次记录级联删除
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("删除员工失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// List 查询全部员工
func (r *EmployeeRepository) List(ctx context.Context) ([]*model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY id ASC`
	return r.query(ctx, query)
}

// ListByIDs 根据ID列表获取员工
func (r *EmployeeRepository) ListByIDs(ctx context.Context, ids []int64) ([]*model.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ANY($1) ORDER BY id ASC`
	return r.query(ctx, query, pq.Array(ids))
}

// ExistingIDs 返回 ids 中实际存在的员工ID集合
func (r *EmployeeRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM employees WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("扫描员工ID失败: %w", err)
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

func (r *EmployeeRepository) query(ctx context.Context, query string, args ...interface{}) ([]*model.Employee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("扫描员工数据失败: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// scanEmployee 扫描员工行
func scanEmployee(row Scanner) (*model.Employee, error) {
	emp := &model.Employee{}
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Role, &emp.NightShiftAvailable, &emp.MaxWeeklyHours,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return emp, nil
}
