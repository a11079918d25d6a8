package repository

import (
	"context"
	"fmt"

	"github.com/paiban/roster/pkg/logger"
	"github.com/paiban/roster/pkg/model"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		night_shift_available BOOLEAN NOT NULL DEFAULT TRUE,
		max_weekly_hours INTEGER NOT NULL DEFAULT 40,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS shift_types (
		id SMALLINT PRIMARY KEY,
		name TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS shifts (
		id BIGSERIAL PRIMARY KEY,
		employee_id BIGINT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		shift_type_id SMALLINT NOT NULL REFERENCES shift_types(id),
		work_date DATE NOT NULL,
		UNIQUE (employee_id, work_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_shifts_work_date ON shifts (work_date)`,
}

// Migrate 创建表结构并写入班次类型字典
func Migrate(ctx context.Context, db DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("创建表结构失败: %w", err)
		}
	}

	for _, st := range model.DefaultShiftTypes() {
		_, err := db.ExecContext(ctx, `
			INSERT INTO shift_types (id, name, start_time, end_time)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name,
				start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time
		`, int(st.ID), st.Name, st.StartTime, st.EndTime)
		if err != nil {
			return fmt.Errorf("写入班次类型失败: %w", err)
		}
	}

	logger.Info().Int("tables", 3).Msg("数据库表结构已就绪")
	return nil
}
