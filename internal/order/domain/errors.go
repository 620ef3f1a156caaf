package domain

import "errors"

var (
	// ErrInvalidOrder 请求在访问存储前被拒绝
	ErrInvalidOrder = errors.New("invalid order")
	// ErrOrderNotFound 写入时订单已不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrConstraintViolation 写入时违反唯一键、外键或必填约束
	ErrConstraintViolation = errors.New("order constraint violation")
	// ErrStorage 其它存储错误
	ErrStorage = errors.New("order storage failure")
)
