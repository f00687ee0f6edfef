package store

import (
	"context"
	"fmt"

	"e-library/internal/database"
	"e-library/internal/errs"
	"e-library/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const userColumns = "id, username, password_hash, role, created_at"

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var role string
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&role,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return u, nil
}

func GetUserByID(ctx context.Context, db database.Querier, userID int) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		userID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, errs.E(errs.NotFound, msgUserNotFound)
		}
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}
	return u, nil
}

func GetUserByUsername(ctx context.Context, db database.Querier, username string) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, errs.E(errs.NotFound, msgUserNotFound)
		}
		return nil, fmt.Errorf("GetUserByUsername: %w", err)
	}
	return u, nil
}

// LockUser 以 FOR UPDATE 鎖定使用者列，與新增借閱時外鍵取得的鎖互斥
func LockUser(ctx context.Context, db database.Querier, userID int) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, errs.E(errs.NotFound, msgUserNotFound)
		}
		return nil, fmt.Errorf("LockUser: %w", err)
	}
	return u, nil
}

func ListUsers(ctx context.Context, db database.Querier) ([]model.User, error) {
	rows, err := db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.User, error) {
		u, err := scanUser(row)
		if err != nil {
			return model.User{}, err
		}
		return *u, nil
	})
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return users, nil
}

func CreateUser(ctx context.Context, db database.Querier, u *model.User) (*model.User, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, role)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		u.Username,
		u.PasswordHash,
		string(u.Role),
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		if ok, _ := isUniqueViolation(err); ok {
			return nil, errs.E(errs.Conflict, msgUsernameTaken)
		}
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

// UpdateUser 只更新非 nil 的欄位；兩者皆 nil 時回傳目前資料
func UpdateUser(ctx context.Context, db database.Querier, userID int, username, passwordHash *string) (*model.User, error) {
	if username == nil && passwordHash == nil {
		return GetUserByID(ctx, db, userID)
	}

	b := qb.Update("users").Where(sq.Eq{"id": userID}).Suffix("RETURNING " + userColumns)
	if username != nil {
		b = b.Set("username", *username)
	}
	if passwordHash != nil {
		b = b.Set("password_hash", *passwordHash)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("UpdateUser: %w", err)
	}

	u, err := scanUser(db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, errs.E(errs.NotFound, msgUserNotFound)
		}
		if ok, _ := isUniqueViolation(err); ok {
			return nil, errs.E(errs.Conflict, msgUsernameTaken)
		}
		return nil, fmt.Errorf("UpdateUser: %w", err)
	}
	return u, nil
}

func DeleteUser(ctx context.Context, db database.Querier, userID int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM users WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("DeleteUser: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.E(errs.NotFound, msgUserNotFound)
	}
	return nil
}

// DeleteUsersByRole 回傳刪除筆數
func DeleteUsersByRole(ctx context.Context, db database.Querier, role model.Role) (int64, error) {
	tag, err := db.Exec(ctx,
		`DELETE FROM users WHERE role = $1`,
		string(role),
	)
	if err != nil {
		return 0, fmt.Errorf("DeleteUsersByRole: %w", err)
	}
	return tag.RowsAffected(), nil
}
