package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// User 用户，PasswordHash 只保存哈希值
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Address      string
	Image        string
	IsAdmin      bool
	IsBanned     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile 用户可修改的资料
type Profile struct {
	Name    string
	Address string
	Image   string
}

// NewUser 创建用户，email 统一转为小写
func NewUser(id, email, passwordHash string, profile Profile) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email,max=255"); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", ErrInvalidUser, email)
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidUser)
	}
	u := &User{ID: id, Email: email, PasswordHash: passwordHash}
	if err := u.UpdateProfile(profile); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateProfile 覆盖用户资料
func (u *User) UpdateProfile(p Profile) error {
	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidUser)
	case len(name) > 100:
		return fmt.Errorf("%w: name exceeds 100 characters", ErrInvalidUser)
	case len(p.Address) > 255:
		return fmt.Errorf("%w: address exceeds 255 characters", ErrInvalidUser)
	}
	u.Name = name
	u.Address = p.Address
	u.Image = p.Image
	return nil
}

// SetBanned 封禁或解封，返回状态是否发生变化
func (u *User) SetBanned(banned bool) bool {
	if u.IsBanned == banned {
		return false
	}
	u.IsBanned = banned
	return true
}

// Status 用户状态
func (u *User) Status() string {
	if u.IsBanned {
		return "banned"
	}
	return "active"
}
