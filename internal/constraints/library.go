// Package constraints 排班规则目录：禁止的班次衔接与成本函数各项的当前参数
package constraints

import (
	"strconv"

	"github.com/paiban/roster/internal/config"
	"github.com/paiban/roster/pkg/scheduler/optimizer"
	"github.com/paiban/roster/pkg/scheduler/roster"
	"github.com/paiban/roster/pkg/scheduler/rule"
)

// ConstraintParam 规则参数
type ConstraintParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // int, float
	Description string `json:"description"`
	Value       string `json:"value"`
	Default     string `json:"default,omitempty"`
}

// ConstraintDefinition 规则定义
type ConstraintDefinition struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Type        string            `json:"type"` // hard 硬约束, soft 软约束
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Params      []ConstraintParam `json:"params,omitempty"`
}

// LibraryResponse 规则目录响应
type LibraryResponse struct {
	Library []ConstraintDefinition `json:"library"`
}

// HardPatterns 全部禁止模式，按判定优先级排列
var HardPatterns = []rule.Pattern{
	rule.PatternNightToDayEvening,
	rule.PatternEveningToDay,
	rule.PatternNightOffDay,
}

func intParam(name, desc string, v, def int) ConstraintParam {
	return ConstraintParam{Name: name, Type: "int", Description: desc, Value: strconv.Itoa(v), Default: strconv.Itoa(def)}
}

func floatParam(name, desc string, v, def float64) ConstraintParam {
	return ConstraintParam{
		Name:        name,
		Type:        "float",
		Description: desc,
		Value:       strconv.FormatFloat(v, 'g', -1, 64),
		Default:     strconv.FormatFloat(def, 'g', -1, 64),
	}
}

// GetLibrary 返回当前生效的规则目录
//
// 硬约束由修复保证在落库前为零；软约束的权重与阈值取自 cfg。
func GetLibrary(cfg config.SchedulerConfig) []ConstraintDefinition {
	def := optimizer.DefaultWeights()
	cov := roster.DefaultCoverage()
	lib := make([]ConstraintDefinition, 0, len(HardPatterns)+5)

	for _, p := range HardPatterns {
		lib = append(lib, ConstraintDefinition{
			Name:        string(p),
			DisplayName: p.Label(),
			Type:        "hard",
			Category:    "班次衔接",
			Description: p.Description() + "，月初之前或无记录的日期按休息处理",
		})
	}

	lib = append(lib,
		ConstraintDefinition{
			Name:        "coverage",
			DisplayName: "每日最低人数",
			Type:        "soft",
			Category:    "人员覆盖",
			Description: "每天每个工作班次低于最低人数时，每缺一人计一次罚分；周末与节假日使用周末标准。",
			Params: []ConstraintParam{
				floatParam("weight", "每缺一人的罚分", cfg.WeightCoverage, def.Coverage),
				intParam("weekday_day", "工作日白班", cfg.WeekdayDay, cov.Weekday.Day),
				intParam("weekday_evening", "工作日小夜班", cfg.WeekdayEvening, cov.Weekday.Evening),
				intParam("weekday_night", "工作日大夜班", cfg.WeekdayNight, cov.Weekday.Night),
				intParam("weekend_day", "周末白班", cfg.WeekendDay, cov.WeekendHoliday.Day),
				intParam("weekend_evening", "周末小夜班", cfg.WeekendEvening, cov.WeekendHoliday.Evening),
				intParam("weekend_night", "周末大夜班", cfg.WeekendNight, cov.WeekendHoliday.Night),
			},
		},
		ConstraintDefinition{
			Name:        "max_consecutive_work",
			DisplayName: "最大连续工作天数",
			Type:        "soft",
			Category:    "休息保障",
			Description: "连续工作超过上限后，每多一天计一次罚分。",
			Params: []ConstraintParam{
				floatParam("weight", "每超一天的罚分", cfg.WeightConsecutive, def.Consecutive),
				intParam("max_days", "连续工作上限", cfg.MaxConsecutive, optimizer.DefaultMaxConsecutive),
			},
		},
		ConstraintDefinition{
			Name:        "off_count",
			DisplayName: "休息天数目标",
			Type:        "soft",
			Category:    "休息保障",
			Description: "每名员工的休息天数与目标值（当月天数乘以休息比例）的偏差。",
			Params: []ConstraintParam{
				floatParam("weight", "每偏差一天的罚分", cfg.WeightOffCount, def.OffCount),
				floatParam("ratio", "休息比例", cfg.OffRatio, optimizer.DefaultOffRatio),
			},
		},
		ConstraintDefinition{
			Name:        "off_fairness",
			DisplayName: "休息均衡",
			Type:        "soft",
			Category:    "公平性",
			Description: "员工之间休息天数的标准差。",
			Params: []ConstraintParam{
				floatParam("weight", "标准差权重", cfg.WeightOffStd, def.OffStd),
			},
		},
		ConstraintDefinition{
			Name:        "shift_balance",
			DisplayName: "班次均衡",
			Type:        "soft",
			Category:    "公平性",
			Description: "员工之间白班、小夜班、大夜班数量的标准差之和。",
			Params: []ConstraintParam{
				floatParam("weight", "标准差权重", cfg.WeightBalance, def.Balance),
			},
		},
	)
	return lib
}
