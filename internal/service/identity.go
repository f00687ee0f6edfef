package service

import (
	"context"
	"errors"
	"strings"

	"e-library/internal/database"
	"e-library/internal/errs"
	"e-library/internal/model"
	"e-library/internal/store"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgUsernameRequired   = "Username is required"
	msgUsernameTaken      = "Username already taken"
	msgPasswordTooShort   = "Password must be at least 6 characters"
	msgInvalidRole        = "Role must be either user or admin"
	msgInvalidPassword    = "Invalid password"
	msgForbidden          = "Forbidden"
	msgCannotUpdateOther  = "Cannot update other user"
	msgCannotDeleteOther  = "Cannot delete other user"
	msgUserActiveBorrows  = "User has active borrows"
	msgConfirmationFailed = `Confirmation failed. Send { "confirm": "yes" } to delete all regular users.`
)

// ConfirmDeleteAll 刪除所有一般使用者時必須送出的確認字串
const ConfirmDeleteAll = "yes"

var (
	getUserByID            = store.GetUserByID
	getUserByUsername      = store.GetUserByUsername
	listUsers              = store.ListUsers
	createUser             = store.CreateUser
	updateUser             = store.UpdateUser
	lockUser               = store.LockUser
	deleteUser             = store.DeleteUser
	deleteUsersByRole      = store.DeleteUsersByRole
	hasActiveBorrowForUser = store.HasActiveBorrowForUser
)

// Hasher 由 PasswordHasher 實作
type Hasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, hash, password string) error
}

// Identity 使用者註冊、登入與帳號管理
type Identity struct {
	db     database.DB
	hasher Hasher
	tokens *TokenService
	log    *zap.Logger
}

func NewIdentity(db database.DB, hasher Hasher, tokens *TokenService, log *zap.Logger) *Identity {
	return &Identity{db: db, hasher: hasher, tokens: tokens, log: log.Named("identity")}
}

// ParseRole 空字串視為 user
func ParseRole(s string) (model.Role, error) {
	if s == "" {
		return model.RoleUser, nil
	}
	r := model.Role(s)
	if !r.Valid() {
		return "", errs.E(errs.InvalidInput, msgInvalidRole)
	}
	return r, nil
}

// Register 建立帳號，回傳不含密碼的資料
func (s *Identity) Register(ctx context.Context, username, password, role string) (*model.UserPublic, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.E(errs.InvalidInput, msgUsernameRequired)
	}

	// 先查一次，真正的保證在 unique constraint
	_, err := getUserByUsername(ctx, s.db, username)
	switch {
	case err == nil:
		return nil, errs.E(errs.Conflict, msgUsernameTaken)
	case !errs.Is(err, errs.NotFound):
		return nil, err
	}

	if len(password) < MinPasswordLength {
		return nil, errs.E(errs.InvalidInput, msgPasswordTooShort)
	}
	r, err := ParseRole(role)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}
	u, err := createUser(ctx, s.db, &model.User{Username: username, PasswordHash: hash, Role: r})
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.Int("user_id", u.ID), zap.String("role", string(u.Role)))
	pub := u.Public()
	return &pub, nil
}

// Login 驗證帳密並簽發權杖
func (s *Identity) Login(ctx context.Context, username, password string) (string, error) {
	u, err := getUserByUsername(ctx, s.db, username)
	if err != nil {
		return "", err
	}
	if err := s.hasher.Compare(ctx, u.PasswordHash, password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", errs.E(errs.Unauthenticated, msgInvalidPassword)
		}
		return "", err
	}
	return s.tokens.Issue(*u)
}

func (s *Identity) List(ctx context.Context) ([]model.UserPublic, error) {
	users, err := listUsers(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]model.UserPublic, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// Get 權限檢查先於存在檢查，避免洩漏其他帳號是否存在
func (s *Identity) Get(ctx context.Context, p Principal, id int) (*model.UserPublic, error) {
	if err := AuthorizeSelfOrAdmin(p, id, msgForbidden); err != nil {
		return nil, err
	}
	u, err := getUserByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

// Update 只允許本人；空字串視為未提供
func (s *Identity) Update(ctx context.Context, p Principal, id int, username, password *string) (*model.UserPublic, error) {
	if err := AuthorizeSelf(p, id, msgCannotUpdateOther); err != nil {
		return nil, err
	}

	var newName, newHash *string
	if username != nil && strings.TrimSpace(*username) != "" {
		trimmed := strings.TrimSpace(*username)
		newName = &trimmed
	}
	if password != nil && *password != "" {
		if len(*password) < MinPasswordLength {
			return nil, errs.E(errs.InvalidInput, msgPasswordTooShort)
		}
		hash, err := s.hasher.Hash(ctx, *password)
		if err != nil {
			return nil, err
		}
		newHash = &hash
	}

	u, err := updateUser(ctx, s.db, id, newName, newHash)
	if err != nil {
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

// Delete 借閱中的使用者不能刪除；其餘借閱紀錄隨帳號一併刪除
func (s *Identity) Delete(ctx context.Context, p Principal, id int) error {
	if err := AuthorizeSelfOrAdmin(p, id, msgCannotDeleteOther); err != nil {
		return err
	}
	err := database.WithTx(ctx, s.db, func(q database.Querier) error {
		if _, err := lockUser(ctx, q, id); err != nil {
			return err
		}
		active, err := hasActiveBorrowForUser(ctx, q, id)
		if err != nil {
			return err
		}
		if active {
			return errs.E(errs.Conflict, msgUserActiveBorrows)
		}
		return deleteUser(ctx, q, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("user deleted", zap.Int("user_id", id), zap.Int("by", p.ID))
	return nil
}

// DeleteAllRegular 刪除所有 role=user 的帳號，回傳筆數
func (s *Identity) DeleteAllRegular(ctx context.Context, confirm string) (int64, error) {
	if confirm != ConfirmDeleteAll {
		return 0, errs.E(errs.InvalidInput, msgConfirmationFailed)
	}
	n, err := deleteUsersByRole(ctx, s.db, model.RoleUser)
	if err != nil {
		return 0, err
	}
	s.log.Warn("regular users deleted", zap.Int64("count", n))
	return n, nil
}
