package model

import "time"

type User struct {
	ID        string `gorm:"primaryKey"`
	Email     string `gorm:"unique;not null"`
	Name      string
	Password  string
	Role      string `gorm:"default:USER;not null;index"`
	LastLogin time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == "ADMIN"
}
