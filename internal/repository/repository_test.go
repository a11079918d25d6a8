package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"lib/pq 唯一约束", &pq.Error{Code: "23505"}, true},
		{"lib/pq 外键约束", &pq.Error{Code: "23503"}, false},
		{"pgx 唯一约束", &pgconn.PgError{Code: "23505"}, true},
		{"包装后的 pgx 唯一约束", fmt.Errorf("插入班次: %w", &pgconn.PgError{Code: "23505"}), true},
		{"普通错误", errors.New("连接中断"), false},
		{"空错误", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestShiftFilter(t *testing.T) {
	base := ShiftFilter{Limit: 10}
	f := base.WithEmployee(3).WithDateRange("2025-09-01", "2025-09-30")

	if base.EmployeeID != nil {
		t.Error("WithEmployee() should not modify the receiver")
	}
	if f.EmployeeID == nil || *f.EmployeeID != 3 {
		t.Errorf("EmployeeID = %v, expected 3", f.EmployeeID)
	}
	if f.StartDate != "2025-09-01" || f.EndDate != "2025-09-30" || f.Limit != 10 {
		t.Errorf("filter = %+v", f)
	}
}
