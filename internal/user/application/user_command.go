package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/ecommerce/internal/user/domain"
	"github.com/wyfcoding/ecommerce/pkg/logger"
)

const minPasswordLength = 6

// UserCommandService 用户命令服务
type UserCommandService struct {
	repo      domain.UserRepository
	hasher    domain.PasswordHasher
	publisher domain.EventPublisher
	now       func() time.Time
}

// NewUserCommandService 创建新的用户命令服务
func NewUserCommandService(repo domain.UserRepository, hasher domain.PasswordHasher, publisher domain.EventPublisher) *UserCommandService {
	return &UserCommandService{
		repo:      repo,
		hasher:    hasher,
		publisher: publisher,
		now:       time.Now,
	}
}

// Register 注册用户，邮箱已存在时返回 ErrConflict
func (s *UserCommandService) Register(ctx context.Context, cmd RegisterUserCommand) (*UserDTO, error) {
	hash, err := s.hashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(uuid.NewString(), cmd.Email, hash, domain.Profile{
		Name:    cmd.Name,
		Address: cmd.Address,
		Image:   cmd.Image,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		logger.Warn(ctx, "Failed to register user", "email", user.Email, "error", err)
		return nil, err
	}
	logger.Info(ctx, "User registered", "user_id", user.ID)

	// 发布用户创建事件
	s.publish(ctx, domain.TopicUserCreated, user.ID, domain.UserCreatedEvent{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	})
	return toUserDTO(user), nil
}

// UpdateUser 更新用户资料，可选修改密码；不存在时返回 (nil, nil)
func (s *UserCommandService) UpdateUser(ctx context.Context, cmd UpdateUserCommand) (*UserDTO, error) {
	user, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil || user == nil {
		return nil, err
	}

	if err := user.UpdateProfile(domain.Profile{Name: cmd.Name, Address: cmd.Address, Image: cmd.Image}); err != nil {
		return nil, err
	}
	passwordChanged := cmd.Password != ""
	if passwordChanged {
		if user.PasswordHash, err = s.hashPassword(cmd.Password); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	s.publish(ctx, domain.TopicUserUpdated, user.ID, domain.UserUpdatedEvent{
		UserID:          user.ID,
		Name:            user.Name,
		Address:         user.Address,
		PasswordChanged: passwordChanged,
		UpdatedAt:       user.UpdatedAt,
	})
	return toUserDTO(user), nil
}

// SetBanned 封禁或解封用户；不存在时返回 (nil, nil)
func (s *UserCommandService) SetBanned(ctx context.Context, id string, banned bool) (*UserDTO, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}

	oldStatus := user.Status()
	if !user.SetBanned(banned) {
		return toUserDTO(user), nil
	}
	if err := s.save(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	logger.Info(ctx, "User status changed", "user_id", id, "status", user.Status())
	s.publish(ctx, domain.TopicUserStatusChanged, user.ID, domain.UserStatusChangedEvent{
		UserID:    user.ID,
		OldStatus: oldStatus,
		NewStatus: user.Status(),
		ChangedAt: s.now(),
	})
	return toUserDTO(user), nil
}

// DeleteUser 删除用户；仍有订单时返回 ErrConflict
func (s *UserCommandService) DeleteUser(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil || !deleted {
		return false, err
	}

	// 发布用户删除事件
	s.publish(ctx, domain.TopicUserDeleted, id, domain.UserDeletedEvent{
		UserID:    id,
		DeletedAt: s.now(),
	})
	return true, nil
}

// Authenticate 校验邮箱与密码，被封禁的用户无法通过
func (s *UserCommandService) Authenticate(ctx context.Context, email, password string) (*UserDTO, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsBanned {
		return nil, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			logger.Error(ctx, "Failed to compare password", "user_id", user.ID, "error", err)
		}
		return nil, domain.ErrInvalidCredentials
	}
	return toUserDTO(user), nil
}

func (s *UserCommandService) hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidUser, minPasswordLength)
	}
	return s.hasher.Hash(password)
}

func (s *UserCommandService) save(ctx context.Context, user *domain.User) error {
	err := s.repo.Update(ctx, user)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		logger.Error(ctx, "Failed to update user", "user_id", user.ID, "error", err)
	}
	return err
}

func (s *UserCommandService) publish(ctx context.Context, topic, key string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, key, event); err != nil {
		// 记录错误但不影响主流程
		logger.Warn(ctx, "Failed to publish user event", "topic", topic, "user_id", key, "error", err)
	}
}
