// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrDuplicate 违反唯一约束
	ErrDuplicate = errors.New("记录已存在")
)

// uniqueViolation PostgreSQL 唯一约束错误码
const uniqueViolation = "23505"

// ShiftFilter 班次查询过滤器
type ShiftFilter struct {
	EmployeeID *int64 `json:"employee_id,omitempty"`
	StartDate  string `json:"start_date,omitempty"` // YYYY-MM-DD，含
	EndDate    string `json:"end_date,omitempty"`   // YYYY-MM-DD，含
	Limit      int    `json:"limit"`
}

// WithEmployee 设置员工过滤
func (f ShiftFilter) WithEmployee(id int64) ShiftFilter {
	f.EmployeeID = &id
	return f
}

// WithDateRange 设置日期范围
func (f ShiftFilter) WithDateRange(start, end string) ShiftFilter {
	f.StartDate = start
	f.EndDate = end
	return f
}

// DB 数据库接口，*sql.DB、*sql.Tx 与 database.DB 均满足
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxDB 支持事务的数据库接口
type TxDB interface {
	DB
	Transaction(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// Scanner 行扫描接口
type Scanner interface {
	Scan(dest ...interface{}) error
}

// isUniqueViolation 判断是否违反唯一约束，兼容 lib/pq 与 pgx 两种驱动
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}
