package model

import (
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 用户模型
type User struct {
	ID           int       `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:254;index"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name" gorm:"size:150"`
	LastName     string    `json:"last_name" gorm:"size:150"`
	Role         string    `json:"role" gorm:"size:20;not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// FullName 姓名，为空时返回用户名
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID       int
	Email    string
	Username string
	Role     string
}

// WatchedMovie 观看记录，(user_id, movie_id) 唯一
type WatchedMovie struct {
	UserID    int       `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	MovieID   int       `json:"movie_id" gorm:"primaryKey;autoIncrement:false;index"`
	WatchedAt time.Time `json:"watched_at"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Movie     *Movie    `json:"-" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
}

// TableName 表名
func (WatchedMovie) TableName() string {
	return "watched_movies"
}
