// Package model 定义排班引擎的核心数据模型
package model

// DefaultMaxWeeklyHours 默认每周最大工时
const DefaultMaxWeeklyHours = 40

// Employee 员工
type Employee struct {
	BaseModel
	Name                string `json:"name" db:"name"`
	Role                string `json:"role" db:"role"` // nurse/doctor/assistant...
	NightShiftAvailable bool   `json:"night_shift_available" db:"night_shift_available"`
	MaxWeeklyHours      int    `json:"max_weekly_hours" db:"max_weekly_hours"`
}

// NewEmployee 创建员工（带默认值）
func NewEmployee(name, role string) *Employee {
	return &Employee{
		BaseModel:           NewBaseModel(),
		Name:                name,
		Role:                role,
		NightShiftAvailable: true,
		MaxWeeklyHours:      DefaultMaxWeeklyHours,
	}
}

// ApplyDefaults 填充未设置的字段
func (e *Employee) ApplyDefaults() {
	if e.MaxWeeklyHours <= 0 {
		e.MaxWeeklyHours = DefaultMaxWeeklyHours
	}
}
