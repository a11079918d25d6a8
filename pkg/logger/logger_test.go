package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{"调试", "debug", zerolog.DebugLevel},
		{"警告", "warn", zerolog.WarnLevel},
		{"错误", "error", zerolog.ErrorLevel},
		{"未知按信息级别", "verbose", zerolog.InfoLevel},
		{"空值按信息级别", "", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLevel(tt.level); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, expected %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID(empty) = %q, expected empty", got)
	}
	ctx := ContextWithRequestID(context.Background(), "req-1")
	if got := RequestID(ctx); got != "req-1" {
		t.Errorf("RequestID() = %q, expected req-1", got)
	}
	if WithContext(ctx) == nil {
		t.Error("WithContext() = nil")
	}
}

func TestSchedulerLogger_ForRun(t *testing.T) {
	l := NewSchedulerLogger()
	run := l.ForRun("run-1")
	if run == l || run.base == l.base {
		t.Error("ForRun() should return a child logger")
	}
	// 只验证不会 panic
	run.StartSchedule(7, 30, 42)
	run.Repaired(0)
	run.EditRejected(1, "2025-09-06", "N→D/E")
}

func TestSchedulerLogger_Events(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)
	l := &SchedulerLogger{base: &base}

	tests := []struct {
		name  string
		emit  func()
		msg   string
		field string
		want  interface{}
	}{
		{"生成完成", func() { l.ScheduleComplete(1500*time.Millisecond, 1234.5, 470, 0xdeadbeef) }, "排班生成完成", "iterations", float64(470)},
		{"指纹", func() { l.ScheduleComplete(time.Second, 1, 1, 0xdeadbeef) }, "排班生成完成", "fingerprint", float64(0xdeadbeef)},
		{"生成失败", func() { l.ScheduleFailed("DATABASE_ERROR", errors.New("连接中断")) }, "排班生成失败", "code", "DATABASE_ERROR"},
		{"修改被拒绝", func() { l.EditRejected(3, "2025-09-06", "N-O-D") }, "班次修改被拒绝", "pattern", "N-O-D"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.emit()

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("日志不是 JSON: %v (%s)", err, buf.String())
			}
			if entry["message"] != tt.msg {
				t.Errorf("message = %v, expected %v", entry["message"], tt.msg)
			}
			if entry[tt.field] != tt.want {
				t.Errorf("%s = %v, expected %v", tt.field, entry[tt.field], tt.want)
			}
		})
	}
}
