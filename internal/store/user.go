package store

import (
	"context"
	"errors"

	"github.com/sarveshmathanraj02/employee-task-app/internal/model"

	"gorm.io/gorm"
)

// UserStore 提供用户记录的持久化访问。
type UserStore struct {
	db *gorm.DB
}

// NewUserStore 创建 UserStore。
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create 写入新用户。用户名已存在时返回 ErrDuplicate。
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// FindByUsername 按用户名查询用户，不存在时返回 (nil, nil)。
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
