package service

import (
	"context"
	"fmt"

	apperrors "github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/model"
)

// EmployeeService 员工管理
type EmployeeService struct {
	store EmployeeStore
}

// NewEmployeeService 创建员工服务
func NewEmployeeService(store EmployeeStore) *EmployeeService {
	return &EmployeeService{store: store}
}

// EmployeeInput 员工输入
type EmployeeInput struct {
	Name                string `json:"name"`
	Role                string `json:"role"`
	NightShiftAvailable *bool  `json:"night_shift_available,omitempty"`
	MaxWeeklyHours      int    `json:"max_weekly_hours,omitempty"`
}

func (in EmployeeInput) validate() error {
	verrs := &apperrors.ValidationErrors{}
	if in.Name == "" {
		verrs.Add("name", "姓名不能为空")
	}
	if in.Role == "" {
		verrs.Add("role", "角色不能为空")
	}
	if in.MaxWeeklyHours < 0 {
		verrs.Add("max_weekly_hours", "每周最大工时必须为正数")
	}
	if verrs.HasErrors() {
		return verrs.ToAppError()
	}
	return nil
}

func (in EmployeeInput) apply(emp *model.Employee) {
	emp.Name = in.Name
	emp.Role = in.Role
	if in.NightShiftAvailable != nil {
		emp.NightShiftAvailable = *in.NightShiftAvailable
	}
	emp.MaxWeeklyHours = in.MaxWeeklyHours
	emp.ApplyDefaults()
}

// Create 创建员工
func (s *EmployeeService) Create(ctx context.Context, in EmployeeInput) (*model.Employee, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	emp := model.NewEmployee(in.Name, in.Role)
	in.apply(emp)
	if err := s.store.Create(ctx, emp); err != nil {
		return nil, apperrors.Database(err, "创建员工")
	}
	return emp, nil
}

// Get 获取员工
func (s *EmployeeService) Get(ctx context.Context, id int64) (*model.Employee, error) {
	emp, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "员工", fmt.Sprint(id), "查询员工")
	}
	return emp, nil
}

// List 查询全部员工
func (s *EmployeeService) List(ctx context.Context) ([]*model.Employee, error) {
	emps, err := s.store.List(ctx)
	if err != nil {
		return nil, apperrors.Database(err, "查询员工")
	}
	return emps, nil
}

// Update 更新员工
func (s *EmployeeService) Update(ctx context.Context, id int64, in EmployeeInput) (*model.Employee, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	emp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(emp)
	if err := s.store.Update(ctx, emp); err != nil {
		return nil, mapStoreError(err, "员工", fmt.Sprint(id), "更新员工")
	}
	return emp, nil
}

// Delete 删除员工
func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return mapStoreError(err, "员工", fmt.Sprint(id), "删除员工")
	}
	return nil
}
