package store

import (
	"context"
	"errors"

	"github.com/sarveshmathanraj02/employee-task-app/internal/model"

	"gorm.io/gorm"
)

// EmployeeStore 提供员工记录的持久化访问。
type EmployeeStore struct {
	db *gorm.DB
}

// NewEmployeeStore 创建 EmployeeStore。
func NewEmployeeStore(db *gorm.DB) *EmployeeStore {
	return &EmployeeStore{db: db}
}

// List 返回全部员工，顺序为存储默认顺序。
func (s *EmployeeStore) List(ctx context.Context) ([]model.Employee, error) {
	employees := []model.Employee{}
	if err := s.db.WithContext(ctx).Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// Get 按 ID 查询员工，不存在时返回 (nil, nil)。
func (s *EmployeeStore) Get(ctx context.Context, id uint) (*model.Employee, error) {
	var employee model.Employee
	err := s.db.WithContext(ctx).First(&employee, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// Create 写入新员工。邮箱已被占用时返回 ErrDuplicate。
func (s *EmployeeStore) Create(ctx context.Context, employee *model.Employee) error {
	if err := s.db.WithContext(ctx).Create(employee).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Update 按字段集合部分更新员工，未出现在 updates 中的字段保持原值。
//
// 员工不存在时返回 (nil, nil)；邮箱冲突返回 ErrDuplicate。
func (s *EmployeeStore) Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.Employee, error) {
	var employee model.Employee
	err := s.db.WithContext(ctx).First(&employee, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&employee).Updates(updates).Error; err != nil {
			return nil, translateError(err)
		}
	}

	// 重新读取，返回落库后的完整记录
	if err := s.db.WithContext(ctx).First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// Delete 删除员工并级联删除其名下全部任务。
//
// 级联在同一事务内完成：要么员工与任务一起消失，要么都不变。
// 员工不存在时返回 (false, nil)。
func (s *EmployeeStore) Delete(ctx context.Context, id uint) (bool, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return false, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// 先删子记录，再删父记录，避免外键约束阻止删除
	if err := tx.Where("employee_id = ?", id).Delete(&model.Task{}).Error; err != nil {
		tx.Rollback()
		return false, err
	}

	res := tx.Where("id = ?", id).Delete(&model.Employee{})
	if res.Error != nil {
		tx.Rollback()
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return false, nil
	}

	if err := tx.Commit().Error; err != nil {
		return false, err
	}
	return true, nil
}
