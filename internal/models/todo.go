package models

import (
	"time"
)

type Todo struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	IsCompleted bool      `gorm:"not null;default:false" json:"is_completed"`
	UserID      uint64    `gorm:"not null;index" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
