package store

import (
	"errors"

	"e-library/internal/errs"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	constraintActiveUserBook = "borrows_active_user_book_uidx"
	constraintBorrowsUserFK  = "borrows_user_id_fkey"
)

const (
	msgUserNotFound          = "User not found"
	msgBookNotFound          = "Book not found"
	msgBorrowNotFound        = "Borrow record not found or not yours"
	msgUsernameTaken         = "Username already taken"
	msgBookBorrowed          = "Book is currently borrowed"
	msgAlreadyBorrowedByUser = "You have already borrowed this book"
	msgAlreadyReturned       = "Book already returned"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// pgCode 回傳 postgres 錯誤碼與 constraint 名稱
func pgCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func isUniqueViolation(err error) (bool, string) {
	code, constraint := pgCode(err)
	return code == pgerrcode.UniqueViolation, constraint
}

func isForeignKeyViolation(err error) (bool, string) {
	code, constraint := pgCode(err)
	return code == pgerrcode.ForeignKeyViolation, constraint
}

// borrowConstraintError 將借閱相關的 constraint 違反轉為領域錯誤
func borrowConstraintError(err error) error {
	if ok, constraint := isUniqueViolation(err); ok {
		if constraint == constraintActiveUserBook {
			return errs.E(errs.Conflict, msgAlreadyBorrowedByUser)
		}
		return errs.E(errs.Conflict, msgBookBorrowed)
	}
	if ok, constraint := isForeignKeyViolation(err); ok {
		if constraint == constraintBorrowsUserFK {
			return errs.E(errs.NotFound, msgUserNotFound)
		}
		return errs.E(errs.NotFound, msgBookNotFound)
	}
	return nil
}
