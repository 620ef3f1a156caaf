package domain

import "errors"

var (
	ErrInvalidUser  = errors.New("invalid user")
	ErrUserNotFound = errors.New("user not found")
	// ErrConflict 邮箱已被占用，或用户仍被订单引用
	ErrConflict = errors.New("user conflict")
	// ErrInvalidCredentials 邮箱或密码错误，或用户已被封禁
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStorage            = errors.New("user storage failure")
)
