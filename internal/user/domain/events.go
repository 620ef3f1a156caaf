package domain

import (
	"time"
)

const (
	TopicUserCreated       = "user.created"
	TopicUserUpdated       = "user.updated"
	TopicUserDeleted       = "user.deleted"
	TopicUserStatusChanged = "user.status_changed"
)

// UserCreatedEvent 用户创建事件
type UserCreatedEvent struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserUpdatedEvent 用户更新事件
type UserUpdatedEvent struct {
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	Address         string    `json:"address,omitempty"`
	PasswordChanged bool      `json:"password_changed"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserDeletedEvent 用户删除事件
type UserDeletedEvent struct {
	UserID    string    `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// UserStatusChangedEvent 用户状态变更事件
type UserStatusChangedEvent struct {
	UserID    string    `json:"user_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedAt time.Time `json:"changed_at"`
}
