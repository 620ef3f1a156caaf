// Package crypto 密码哈希实现
package crypto

import (
	"errors"
	"fmt"

	"github.com/wyfcoding/ecommerce/internal/user/domain"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher 基于 bcrypt 的密码哈希
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher 创建哈希器，cost 为 0 时使用 bcrypt.DefaultCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

var _ domain.PasswordHasher = (*BcryptHasher)(nil)

// Hash 计算密码哈希；超过 72 字节的密码 bcrypt 无法处理，直接拒绝
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password exceeds 72 bytes", domain.ErrInvalidUser)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare 校验密码
func (h *BcryptHasher) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return domain.ErrInvalidCredentials
		}
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}
