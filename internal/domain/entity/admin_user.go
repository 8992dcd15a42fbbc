package entity

import (
	"time"
)

// AdminUser представляет администратора панели управления
type AdminUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (AdminUser) TableName() string {
	return "admin_users"
}
