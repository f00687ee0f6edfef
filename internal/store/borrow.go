package store

import (
	"context"
	"fmt"
	"time"

	"e-library/internal/database"
	"e-library/internal/errs"
	"e-library/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const borrowColumns = "br.id, br.user_id, br.book_id, br.borrow_date, br.return_date"

// Include 決定借閱紀錄要一併帶出哪些關聯
type Include uint8

const (
	IncludeBook Include = 1 << iota
	IncludeUser
)

func (i Include) has(f Include) bool { return i&f != 0 }

func (i Include) columns() string {
	cols := borrowColumns
	if i.has(IncludeBook) {
		cols += ", " + bookColumns
	}
	if i.has(IncludeUser) {
		cols += ", u.id, u.username, u.role"
	}
	return cols
}

func scanBorrow(row pgx.Row, inc Include) (*model.Borrow, error) {
	br := &model.Borrow{}
	dest := []any{&br.ID, &br.UserID, &br.BookID, &br.BorrowDate, &br.ReturnDate}
	if inc.has(IncludeBook) {
		br.Book = &model.Book{}
		dest = append(dest, bookDest(br.Book)...)
	}
	var role string
	if inc.has(IncludeUser) {
		br.User = &model.UserPublic{}
		dest = append(dest, &br.User.ID, &br.User.Username, &role)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if br.User != nil {
		br.User.Role = model.Role(role)
	}
	return br, nil
}

func exists(ctx context.Context, db database.Querier, where sq.Sqlizer) (bool, error) {
	sub, args, err := qb.Select("1").From("borrows br").Where(where).ToSql()
	if err != nil {
		return false, err
	}
	var ok bool
	if err := db.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// HasActiveBorrowForBook 該書是否有任何人尚未歸還
func HasActiveBorrowForBook(ctx context.Context, db database.Querier, bookID int) (bool, error) {
	ok, err := exists(ctx, db, sq.Eq{"br.book_id": bookID, "br.return_date": nil})
	if err != nil {
		return false, fmt.Errorf("HasActiveBorrowForBook: %w", err)
	}
	return ok, nil
}

func HasActiveBorrow(ctx context.Context, db database.Querier, userID, bookID int) (bool, error) {
	ok, err := exists(ctx, db, sq.Eq{"br.user_id": userID, "br.book_id": bookID, "br.return_date": nil})
	if err != nil {
		return false, fmt.Errorf("HasActiveBorrow: %w", err)
	}
	return ok, nil
}

func HasActiveBorrowForUser(ctx context.Context, db database.Querier, userID int) (bool, error) {
	ok, err := exists(ctx, db, sq.Eq{"br.user_id": userID, "br.return_date": nil})
	if err != nil {
		return false, fmt.Errorf("HasActiveBorrowForUser: %w", err)
	}
	return ok, nil
}

func CreateBorrow(ctx context.Context, db database.Querier, userID, bookID int, at time.Time) (*model.Borrow, error) {
	br := &model.Borrow{UserID: userID, BookID: bookID, BorrowDate: at}
	row := db.QueryRow(ctx,
		`INSERT INTO borrows (user_id, book_id, borrow_date)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		userID,
		bookID,
		at,
	)
	if err := row.Scan(&br.ID); err != nil {
		if domainErr := borrowConstraintError(err); domainErr != nil {
			return nil, domainErr
		}
		return nil, fmt.Errorf("CreateBorrow: %w", err)
	}
	return br, nil
}

// GetOwnedBorrowForUpdate 鎖定屬於 ownerID 的借閱紀錄；不存在與不屬於本人回傳相同錯誤
func GetOwnedBorrowForUpdate(ctx context.Context, db database.Querier, borrowID, ownerID int) (*model.Borrow, error) {
	br, err := scanBorrow(db.QueryRow(ctx,
		`SELECT `+borrowColumns+` FROM borrows br
		 WHERE br.id = $1 AND br.user_id = $2
		 FOR UPDATE`,
		borrowID,
		ownerID,
	), 0)
	if err != nil {
		if isNoRows(err) {
			return nil, errs.E(errs.NotFound, msgBorrowNotFound)
		}
		return nil, fmt.Errorf("GetOwnedBorrowForUpdate: %w", err)
	}
	return br, nil
}

// MarkReturned 只會更新尚未歸還的紀錄
func MarkReturned(ctx context.Context, db database.Querier, borrowID int, at time.Time) (*model.Borrow, error) {
	br, err := scanBorrow(db.QueryRow(ctx,
		`UPDATE borrows br SET return_date = $2
		 WHERE br.id = $1 AND br.return_date IS NULL
		 RETURNING `+borrowColumns,
		borrowID,
		at,
	), 0)
	if err != nil {
		if isNoRows(err) {
			return nil, errs.E(errs.Conflict, msgAlreadyReturned)
		}
		return nil, fmt.Errorf("MarkReturned: %w", err)
	}
	return br, nil
}

func DeleteBorrow(ctx context.Context, db database.Querier, borrowID int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM borrows WHERE id = $1`,
		borrowID,
	)
	if err != nil {
		return fmt.Errorf("DeleteBorrow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.E(errs.NotFound, msgBorrowNotFound)
	}
	return nil
}

// listBorrows 為所有借閱列表共用；p 為 nil 時不分頁
func listBorrows(ctx context.Context, db database.Querier, where sq.Sqlizer, inc Include, p *model.Paging) ([]model.Borrow, int, error) {
	from := qb.Select().
		From("borrows br").
		Join("books b ON b.id = br.book_id").
		Join("users u ON u.id = br.user_id").
		Where(where)

	total, err := count(ctx, db, from.Columns("COUNT(*)"))
	if err != nil {
		return nil, 0, err
	}

	sel := from.Columns(inc.columns()).OrderBy("br.id")
	if p != nil {
		sel = sel.Limit(uint64(p.Limit)).Offset(uint64(p.Offset()))
	}
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Borrow, error) {
		br, err := scanBorrow(row, inc)
		if err != nil {
			return model.Borrow{}, err
		}
		return *br, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListBorrowsByUser 帶出書籍資料
func ListBorrowsByUser(ctx context.Context, db database.Querier, userID int, p model.Paging) ([]model.Borrow, int, error) {
	items, total, err := listBorrows(ctx, db, sq.Eq{"br.user_id": userID}, IncludeBook, &p)
	if err != nil {
		return nil, 0, fmt.Errorf("ListBorrowsByUser: %w", err)
	}
	return items, total, nil
}

// ListBorrows 搜尋字串比對書名或使用者名稱（任一符合即可）
func ListBorrows(ctx context.Context, db database.Querier, search string, p model.Paging) ([]model.Borrow, int, error) {
	var where sq.Sqlizer = sq.Expr("TRUE")
	if search != "" {
		pattern := likePattern(search)
		where = sq.Or{
			sq.ILike{"b.title": pattern},
			sq.ILike{"u.username": pattern},
		}
	}
	items, total, err := listBorrows(ctx, db, where, IncludeBook|IncludeUser, &p)
	if err != nil {
		return nil, 0, fmt.Errorf("ListBorrows: %w", err)
	}
	return items, total, nil
}

// ListBorrowsByBook 帶出借閱者資料；p 為 nil 時回傳全部
func ListBorrowsByBook(ctx context.Context, db database.Querier, bookID int, p *model.Paging) ([]model.Borrow, int, error) {
	items, total, err := listBorrows(ctx, db, sq.Eq{"br.book_id": bookID}, IncludeUser, p)
	if err != nil {
		return nil, 0, fmt.Errorf("ListBorrowsByBook: %w", err)
	}
	return items, total, nil
}

func CountBorrowsByBook(ctx context.Context, db database.Querier, bookID int) (int, error) {
	n, err := count(ctx, db, qb.Select("COUNT(*)").From("borrows br").Where(sq.Eq{"br.book_id": bookID}))
	if err != nil {
		return 0, fmt.Errorf("CountBorrowsByBook: %w", err)
	}
	return n, nil
}
