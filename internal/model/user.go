package model

import "time"

// User 表示系统用户。
type User struct {
	ID        uint      `gorm:"primaryKey"`                             // 用户 ID
	Username  string    `gorm:"type:varchar(100);uniqueIndex;not null"` // 用户名（唯一）
	Password  string    `gorm:"type:varchar(255);not null"`             // bcrypt 哈希
	IsActive  bool      `gorm:"default:true"`                           // 账户是否可用
	CreatedAt time.Time // 创建时间
}
