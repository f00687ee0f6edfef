package store

import (
	"context"
	"fmt"
	"strings"

	"e-library/internal/database"
	"e-library/internal/errs"
	"e-library/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// LockMode 交易內鎖定書籍列的方式
type LockMode string

const (
	LockShare  LockMode = "FOR SHARE"
	LockUpdate LockMode = "FOR UPDATE"
)

const bookColumns = "b.id, b.title, b.author, b.description, b.stock, b.created_at"

func bookDest(b *model.Book) []any {
	return []any{&b.ID, &b.Title, &b.Author, &b.Description, &b.Stock, &b.CreatedAt}
}

func scanBook(row pgx.Row) (*model.Book, error) {
	b := &model.Book{}
	if err := row.Scan(bookDest(b)...); err != nil {
		return nil, err
	}
	return b, nil
}

// likePattern 跳脫 LIKE 特殊字元後包成 %s%
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// ListBooks 依標題做不分大小寫的子字串搜尋並分頁
func ListBooks(ctx context.Context, db database.Querier, search string, p model.Paging) ([]model.Book, int, error) {
	var where sq.Sqlizer = sq.Expr("TRUE")
	if search != "" {
		where = sq.ILike{"b.title": likePattern(search)}
	}

	total, err := count(ctx, db, qb.Select("COUNT(*)").From("books b").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("ListBooks: %w", err)
	}

	query, args, err := qb.Select(bookColumns).
		From("books b").
		Where(where).
		OrderBy("b.id").
		Limit(uint64(p.Limit)).
		Offset(uint64(p.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ListBooks: %w", err)
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ListBooks: %w", err)
	}
	books, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Book, error) {
		b, err := scanBook(row)
		if err != nil {
			return model.Book{}, err
		}
		return *b, nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("ListBooks: %w", err)
	}
	return books, total, nil
}

func GetBookByID(ctx context.Context, db database.Querier, bookID int) (*model.Book, error) {
	b, err := scanBook(db.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books b WHERE b.id = $1`,
		bookID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, errs.E(errs.NotFound, msgBookNotFound)
		}
		return nil, fmt.Errorf("GetBookByID: %w", err)
	}
	return b, nil
}

// LockBook 必須在交易中呼叫
func LockBook(ctx context.Context, db database.Querier, bookID int, mode LockMode) (*model.Book, error) {
	b, err := scanBook(db.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books b WHERE b.id = $1 `+string(mode),
		bookID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, errs.E(errs.NotFound, msgBookNotFound)
		}
		return nil, fmt.Errorf("LockBook: %w", err)
	}
	return b, nil
}

func CreateBook(ctx context.Context, db database.Querier, b *model.Book) (*model.Book, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO books (title, author, description, stock)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		b.Title,
		b.Author,
		b.Description,
		b.Stock,
	)
	if err := row.Scan(&b.ID, &b.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateBook: %w", err)
	}
	return b, nil
}

// UpdateBook 以 b 的四個欄位整筆取代
func UpdateBook(ctx context.Context, db database.Querier, b *model.Book) (*model.Book, error) {
	row := db.QueryRow(ctx,
		`UPDATE books b
		 SET title = $1, author = $2, description = $3, stock = $4
		 WHERE b.id = $5
		 RETURNING `+bookColumns,
		b.Title,
		b.Author,
		b.Description,
		b.Stock,
		b.ID,
	)
	updated, err := scanBook(row)
	if err != nil {
		if isNoRows(err) {
			return nil, errs.E(errs.NotFound, msgBookNotFound)
		}
		return nil, fmt.Errorf("UpdateBook: %w", err)
	}
	return updated, nil
}

func DeleteBook(ctx context.Context, db database.Querier, bookID int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM books WHERE id = $1`,
		bookID,
	)
	if err != nil {
		return fmt.Errorf("DeleteBook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.E(errs.NotFound, msgBookNotFound)
	}
	return nil
}

func count(ctx context.Context, db database.Querier, b sq.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
