package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
)

// User ID 与认证令牌的 sub 一致，仅用于排行榜显示名
// swagger:model User
type User struct {
	ID        string    `gorm:"primaryKey;size:128" json:"id"`
	Email     string    `gorm:"size:100" json:"email"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Role      UserRole  `gorm:"size:20;default:'student'" json:"role"`
	Grade     *int      `json:"grade,omitempty"`
	School    *string   `gorm:"size:200" json:"school,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
