package application

import (
	"context"

	"github.com/wyfcoding/ecommerce/internal/user/domain"
)

// UserQueryService 用户查询服务
type UserQueryService struct {
	repo domain.UserRepository
}

// NewUserQueryService 创建新的用户查询服务
func NewUserQueryService(repo domain.UserRepository) *UserQueryService {
	return &UserQueryService{
		repo: repo,
	}
}

// GetUserByID 根据ID获取用户，不存在时返回 (nil, nil)
func (s *UserQueryService) GetUserByID(ctx context.Context, id string) (*UserDTO, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	return toUserDTO(u), nil
}

// ListUsers 列出所有用户
func (s *UserQueryService) ListUsers(ctx context.Context) ([]*UserDTO, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*UserDTO, len(users))
	for i, u := range users {
		out[i] = toUserDTO(u)
	}
	return out, nil
}
