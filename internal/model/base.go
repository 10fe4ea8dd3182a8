package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UUIDBase 以随机 UUID 字符串为主键，调用方可预先指定
type UUIDBase struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`
}

func (b *UUIDBase) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = GenerateUUID()
	}
	return nil
}

func GenerateUUID() string {
	return uuid.NewString()
}
