package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kisansetu/kisansetu-backend/pkg/enums"
)

// User is a marketplace account, either a farmer or a consumer.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null"`
	Phone        *string        `gorm:"column:phone"`
	Village      *string        `gorm:"column:village"`
	District     *string        `gorm:"column:district"`
	State        *string        `gorm:"column:state"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
