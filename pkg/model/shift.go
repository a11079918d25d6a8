// Package model 定义排班引擎的核心数据模型
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ShiftCode 班次代码，数值与数据库 shift_types.id 一一对应，不可修改
type ShiftCode int

const (
	Unassigned ShiftCode = 0 // 仅在初始解构造过程中出现，不落库
	Day        ShiftCode = 1 // 白班 D
	Evening    ShiftCode = 2 // 小夜班 E
	Night      ShiftCode = 3 // 大夜班 N
	Off        ShiftCode = 4 // 休息 O
)

// WorkCodes 需要覆盖人数的工作班次（按初始分配顺序）
var WorkCodes = []ShiftCode{Day, Evening, Night}

// AllCodes 可分配的全部班次代码
var AllCodes = []ShiftCode{Day, Evening, Night, Off}

// String 返回单字母代码
func (c ShiftCode) String() string {
	switch c {
	case Day:
		return "D"
	case Evening:
		return "E"
	case Night:
		return "N"
	case Off:
		return "O"
	default:
		return "-"
	}
}

// Name 返回班次名称
func (c ShiftCode) Name() string {
	switch c {
	case Day:
		return "DAY"
	case Evening:
		return "EVENING"
	case Night:
		return "NIGHT"
	case Off:
		return "OFF"
	default:
		return "UNASSIGNED"
	}
}

// Valid 检查是否为可落库的班次代码
func (c ShiftCode) Valid() bool {
	return c >= Day && c <= Off
}

// IsWork 检查是否为工作班次
func (c ShiftCode) IsWork() bool {
	return c == Day || c == Evening || c == Night
}

// OrOff 缺失记录按 OFF 处理
func (c ShiftCode) OrOff() ShiftCode {
	if !c.Valid() {
		return Off
	}
	return c
}

// ParseShiftCode 解析班次代码，支持数字(1-4)、字母(D/E/N/O)和名称(DAY/EVENING/NIGHT/OFF)
func ParseShiftCode(s string) (ShiftCode, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if n, err := strconv.Atoi(v); err == nil {
		c := ShiftCode(n)
		if !c.Valid() {
			return Unassigned, fmt.Errorf("未知班次代码: %d", n)
		}
		return c, nil
	}
	for _, c := range AllCodes {
		if v == c.String() || v == c.Name() {
			return c, nil
		}
	}
	return Unassigned, fmt.Errorf("未知班次代码: %q", s)
}

// ShiftType 班次类型定义
type ShiftType struct {
	ID        ShiftCode `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StartTime string    `json:"start_time,omitempty" db:"start_time"` // HH:MM
	EndTime   string    `json:"end_time,omitempty" db:"end_time"`     // HH:MM
}

// DefaultShiftTypes 默认三班倒班次定义
func DefaultShiftTypes() []ShiftType {
	return []ShiftType{
		{ID: Day, Name: Day.Name(), StartTime: "07:00", EndTime: "15:00"},
		{ID: Evening, Name: Evening.Name(), StartTime: "15:00", EndTime: "23:00"},
		{ID: Night, Name: Night.Name(), StartTime: "23:00", EndTime: "07:00"},
		{ID: Off, Name: Off.Name()},
	}
}

// Shift 员工某日的班次记录
type Shift struct {
	ID            int64     `json:"id" db:"id"`
	EmployeeID    int64     `json:"employee_id" db:"employee_id"`
	ShiftTypeID   ShiftCode `json:"shift_type_id" db:"shift_type_id"`
	WorkDate      string    `json:"work_date" db:"work_date"` // YYYY-MM-DD
	EmployeeName  string    `json:"employee_name,omitempty" db:"-"`
	ShiftTypeName string    `json:"shift_type_name,omitempty" db:"-"`
}

// IsOnDate 检查记录是否在指定日期
func (s *Shift) IsOnDate(date string) bool {
	return s.WorkDate == date
}
