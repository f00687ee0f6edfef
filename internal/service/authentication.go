// File: internal/service/authentication.go
package service

import (
	"errors"
	"fmt"
	"time"

	"e-library/internal/errs"
	"e-library/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

const msgInvalidToken = "Invalid or expired token"

var (
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

// CustomClaims 定義 JWT 負載內容
type CustomClaims struct {
	ID   int        `json:"id"`
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService 簽發與驗證存取權杖，密鑰在建構時注入
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService 密鑰不可為空
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid token ttl %s", ttl)
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Issue 依據使用者資訊產生 JWT
func (s *TokenService) Issue(user model.User) (string, error) {
	now := timeNow()
	claims := CustomClaims{
		ID:   user.ID,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("IssueToken: %w", err)
	}
	return signed, nil
}

// Verify 驗證並解析 JWT；任何失敗都回傳 InvalidCredential
func (s *TokenService) Verify(tokenString string) (Principal, error) {
	claims := &CustomClaims{}
	token, err := parseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(timeNow))
	if err != nil || !token.Valid {
		return Principal{}, errs.E(errs.InvalidCredential, msgInvalidToken)
	}
	if claims.ID <= 0 || !claims.Role.Valid() {
		return Principal{}, errs.E(errs.InvalidCredential, msgInvalidToken)
	}
	return Principal{ID: claims.ID, Role: claims.Role}, nil
}
