package application

import (
	"time"

	"github.com/wyfcoding/ecommerce/internal/user/domain"
)

// RegisterUserCommand 注册用户命令
type RegisterUserCommand struct {
	Name     string
	Email    string
	Password string
	Address  string
	Image    string
}

// UpdateUserCommand 更新用户命令，Password 为空时不修改密码
type UpdateUserCommand struct {
	ID       string
	Name     string
	Address  string
	Image    string
	Password string
}

// UserDTO 用户响应，不包含密码哈希
type UserDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address,omitempty"`
	Image     string    `json:"image,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	IsBanned  bool      `json:"is_banned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserDTO(u *domain.User) *UserDTO {
	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Image:     u.Image,
		IsAdmin:   u.IsAdmin,
		IsBanned:  u.IsBanned,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
