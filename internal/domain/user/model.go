package user

import (
	"time"

	"census-app-go/internal/domain/access"
	"gorm.io/datatypes"
)

type User struct {
	ID           int64                       `gorm:"primaryKey"`
	Name         string                      `gorm:"size:100;not null"`
	Email        string                      `gorm:"size:255;not null;uniqueIndex:idx_users_email"`
	PasswordHash string                      `gorm:"not null"`
	Role         string                      `gorm:"size:16;not null;index"`
	Permissions  datatypes.JSONSlice[string] `gorm:"not null"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt    time.Time                   `gorm:"autoUpdateTime"`
}

func (u User) Actor() access.Actor {
	return access.Actor{ID: u.ID, Role: u.Role, Permissions: append([]string(nil), u.Permissions...)}
}

func (u User) Subject() access.Subject {
	return access.Subject{ID: u.ID, Role: u.Role}
}

type Input struct {
	Name        string
	Email       string
	Password    string
	Role        string
	Permissions []string
}
