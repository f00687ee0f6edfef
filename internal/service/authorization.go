package service

import (
	"e-library/internal/errs"
	"e-library/internal/model"
)

// Principal 通過驗證的呼叫者
type Principal struct {
	ID   int
	Role model.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

func AuthorizeAdmin(p Principal) error {
	if !p.IsAdmin() {
		return errs.E(errs.Forbidden, "Forbidden: Admins only")
	}
	return nil
}

// AuthorizeSelf 只允許本人
func AuthorizeSelf(p Principal, ownerID int, msg string) error {
	if p.ID != ownerID {
		return errs.E(errs.Forbidden, msg)
	}
	return nil
}

// AuthorizeSelfOrAdmin 管理員或本人
func AuthorizeSelfOrAdmin(p Principal, ownerID int, msg string) error {
	if p.IsAdmin() {
		return nil
	}
	return AuthorizeSelf(p, ownerID, msg)
}
