package store

import (
	"context"
	"errors"

	"github.com/sarveshmathanraj02/employee-task-app/internal/model"

	"gorm.io/gorm"
)

// TaskStore 提供任务记录的持久化访问。
type TaskStore struct {
	db *gorm.DB
}

// NewTaskStore 创建 TaskStore。
func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

// List 返回全部任务，顺序为存储默认顺序。
func (s *TaskStore) List(ctx context.Context) ([]model.Task, error) {
	tasks := []model.Task{}
	if err := s.db.WithContext(ctx).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Get 按 ID 查询任务，不存在时返回 (nil, nil)。
func (s *TaskStore) Get(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := s.db.WithContext(ctx).First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Create 写入新任务。employee_id 指向不存在的员工时返回 ErrForeignKey。
func (s *TaskStore) Create(ctx context.Context, task *model.Task) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Update 按字段集合部分更新任务，未出现在 updates 中的字段保持原值。
//
// 任务不存在时返回 (nil, nil)；employee_id 无效返回 ErrForeignKey。
func (s *TaskStore) Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.Task, error) {
	var task model.Task
	err := s.db.WithContext(ctx).First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&task).Updates(updates).Error; err != nil {
			return nil, translateError(err)
		}
	}

	if err := s.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete 删除任务，任务不存在时返回 (false, nil)。
func (s *TaskStore) Delete(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
