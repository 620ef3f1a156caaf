package domain

import "context"

// UserRepository 用户仓储，查询不到时返回 (nil, nil)
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	// Update 保存资料、密码与状态字段，不存在时返回 ErrUserNotFound
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) (bool, error)
}

// PasswordHasher 密码哈希
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare 密码不匹配时返回错误
	Compare(hash, password string) error
}

// EventPublisher 用户事件发布者
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
