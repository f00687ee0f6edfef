// File: internal/service/password.go
package service

import (
	"context"
	"fmt"

	"e-library/internal/worker"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength 註冊與修改密碼共用的最短長度
const MinPasswordLength = 6

var (
	bcryptGenerateFromPassword   = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
)

// HashPassword 接收明文密碼，回傳 bcrypt 哈希字串
func HashPassword(password string) (string, error) {
	hashBytes, err := bcryptGenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// ComparePassword 比對明文密碼與 bcrypt 哈希，成功回傳 nil，失敗則回傳錯誤
func ComparePassword(hash, password string) error {
	return bcryptCompareHashAndPassword([]byte(hash), []byte(password))
}

// PasswordHasher 把 bcrypt 運算交給 worker pool，限制同時進行的雜湊數量
type PasswordHasher struct {
	pool worker.Pool
}

func NewPasswordHasher(pool worker.Pool) *PasswordHasher {
	return &PasswordHasher{pool: pool}
}

func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	var (
		hash string
		err  error
	)
	if poolErr := worker.Do(ctx, h.pool, func() {
		hash, err = HashPassword(password)
	}); poolErr != nil {
		return "", fmt.Errorf("hash password: %w", poolErr)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// Compare 密碼不符時回傳 bcrypt.ErrMismatchedHashAndPassword
func (h *PasswordHasher) Compare(ctx context.Context, hash, password string) error {
	var err error
	if poolErr := worker.Do(ctx, h.pool, func() {
		err = ComparePassword(hash, password)
	}); poolErr != nil {
		return fmt.Errorf("compare password: %w", poolErr)
	}
	return err
}
