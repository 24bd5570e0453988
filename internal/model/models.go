package model

import (
	"time"
)

// Employee 表示一名员工。
//
// 员工拥有自己名下的任务集合；删除员工时，名下任务一并删除（级联）。
type Employee struct {
	ID        uint      `gorm:"primaryKey"` // 员工唯一标识
	Name      string    `gorm:"type:varchar(100);not null"`
	Email     string    `gorm:"type:varchar(100);uniqueIndex;not null"` // 邮箱（唯一）
	Role      string    `gorm:"type:varchar(50)"`                       // 职位（可选）
	CreatedAt time.Time // 创建时间

	Tasks []Task `gorm:"foreignKey:EmployeeID"` // 名下任务列表
}

// Task 表示一条任务记录。
//
// EmployeeID 为可空外键：任务可以不归属任何员工单独存在。
type Task struct {
	ID          uint       `gorm:"primaryKey"` // 任务唯一标识
	Title       string     `gorm:"type:varchar(150);not null"`
	Description string     `gorm:"type:text"`                        // 任务描述（可选）
	Status      string     `gorm:"type:varchar(20);default:pending"` // 任务状态，默认 "pending"
	DueDate     *time.Time // 截止日期（可选）

	EmployeeID *uint     `gorm:"index"` // 所属员工 ID（可空）
	Employee   *Employee `gorm:"foreignKey:EmployeeID"`
}
