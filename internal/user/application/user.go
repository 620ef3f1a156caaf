package application

import (
	"context"

	"github.com/wyfcoding/ecommerce/internal/user/domain"
)

// UserService 用户应用服务，作为门面服务整合命令和查询服务
type UserService struct {
	commandService *UserCommandService
	queryService   *UserQueryService
}

// NewUserService 创建新的用户应用服务
func NewUserService(repo domain.UserRepository, hasher domain.PasswordHasher, publisher domain.EventPublisher) *UserService {
	return &UserService{
		commandService: NewUserCommandService(repo, hasher, publisher),
		queryService:   NewUserQueryService(repo),
	}
}

// Register 注册用户（命令操作）
func (s *UserService) Register(ctx context.Context, cmd RegisterUserCommand) (*UserDTO, error) {
	return s.commandService.Register(ctx, cmd)
}

// UpdateUser 更新用户（命令操作）
func (s *UserService) UpdateUser(ctx context.Context, cmd UpdateUserCommand) (*UserDTO, error) {
	return s.commandService.UpdateUser(ctx, cmd)
}

// BanUser 封禁用户（命令操作）
func (s *UserService) BanUser(ctx context.Context, id string) (*UserDTO, error) {
	return s.commandService.SetBanned(ctx, id, true)
}

// UnbanUser 解封用户（命令操作）
func (s *UserService) UnbanUser(ctx context.Context, id string) (*UserDTO, error) {
	return s.commandService.SetBanned(ctx, id, false)
}

// DeleteUser 删除用户（命令操作）
func (s *UserService) DeleteUser(ctx context.Context, id string) (bool, error) {
	return s.commandService.DeleteUser(ctx, id)
}

// Authenticate 校验登录凭据（命令操作）
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*UserDTO, error) {
	return s.commandService.Authenticate(ctx, email, password)
}

// GetUser 获取用户信息（查询操作）
func (s *UserService) GetUser(ctx context.Context, id string) (*UserDTO, error) {
	return s.queryService.GetUserByID(ctx, id)
}

// ListUsers 列出用户（查询操作）
func (s *UserService) ListUsers(ctx context.Context) ([]*UserDTO, error) {
	return s.queryService.ListUsers(ctx)
}
