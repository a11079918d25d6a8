// Package model 定义排班引擎的核心数据模型
package model

import (
	"time"
)

// DateLayout 日期格式 (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// BaseModel 基础模型（包含通用字段）
type BaseModel struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewBaseModel 创建新的基础模型
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ParseDate 解析 YYYY-MM-DD 格式日期（UTC）
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate 格式化日期
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateRange 日期范围
type DateRange struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// Days 返回范围内的天数（含首尾），格式错误时返回0
func (r DateRange) Days() int {
	start, err1 := ParseDate(r.StartDate)
	end, err2 := ParseDate(r.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Contains 检查日期是否在范围内
func (r DateRange) Contains(date string) bool {
	return date >= r.StartDate && date <= r.EndDate
}
