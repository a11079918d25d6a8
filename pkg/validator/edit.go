// Package validator 提供排班验证功能
package validator

import (
	"context"
	"fmt"
	"time"

	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/scheduler/rule"
)

// HistoryLookup 查询员工某日已存班次
type HistoryLookup interface {
	// FindShift 返回员工在 date 的班次；无记录时 found 为 false
	FindShift(ctx context.Context, employeeID int64, date time.Time) (code model.ShiftCode, found bool, err error)
}

// Decision 单次修改的校验结果
type Decision struct {
	Accepted bool         `json:"success"`
	Pattern  rule.Pattern `json:"pattern,omitempty"`
	Message  string       `json:"message"`
}

// 提示信息
const (
	MessageAccepted = "班次修改完成"
	MessageRejected = "禁止的班次衔接（N→D/E、N-O-D、E→D 均不允许）"
)

// EditValidator 单次班次修改校验器，只读，不修改任何数据
type EditValidator struct {
	history HistoryLookup
}

// NewEditValidator 创建单次修改校验器
func NewEditValidator(history HistoryLookup) *EditValidator {
	return &EditValidator{history: history}
}

// Validate 校验将员工在 date 的班次改为 code 是否构成禁止模式。
// 前一天与前两天无记录时按 OFF 处理。
func (v *EditValidator) Validate(ctx context.Context, employeeID int64, date time.Time, code model.ShiftCode) (*Decision, error) {
	if !code.Valid() {
		return nil, fmt.Errorf("未知班次代码: %d", int(code))
	}

	prev1, err := v.lookup(ctx, employeeID, date.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	prev2, err := v.lookup(ctx, employeeID, date.AddDate(0, 0, -2))
	if err != nil {
		return nil, err
	}

	if p := rule.Check(prev2, prev1, code); p != rule.PatternNone {
		return &Decision{
			Accepted: false,
			Pattern:  p,
			Message:  fmt.Sprintf("%s: %s", MessageRejected, p.Label()),
		}, nil
	}
	return &Decision{Accepted: true, Message: MessageAccepted}, nil
}

func (v *EditValidator) lookup(ctx context.Context, employeeID int64, date time.Time) (model.ShiftCode, error) {
	code, found, err := v.history.FindShift(ctx, employeeID, date)
	if err != nil {
		return model.Unassigned, fmt.Errorf("查询员工 %d 在 %s 的班次失败: %w", employeeID, model.FormatDate(date), err)
	}
	if !found {
		return model.Off, nil
	}
	return code.OrOff(), nil
}
