// File: internal/model/user.go
package model

import "time"

// Role 使用者角色，只有 user 與 admin 兩種
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid 是否為已知角色
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           int       `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// UserPublic 不含密碼雜湊的對外投影
type UserPublic struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (u User) Public() UserPublic {
	return UserPublic{ID: u.ID, Username: u.Username, Role: u.Role}
}
