package service

import (
	"context"
	"strings"

	"e-library/internal/database"
	"e-library/internal/errs"
	"e-library/internal/model"
	"e-library/internal/store"

	"go.uber.org/zap"
)

const (
	msgBookCurrentlyBorrowed = "Book is currently borrowed"
	msgAlreadyBorrowed       = "You have already borrowed this book"
	msgDeleteActiveBorrow    = "Cannot delete active borrow record. Return the book first."
)

var (
	hasActiveBorrow         = store.HasActiveBorrow
	createBorrow            = store.CreateBorrow
	getOwnedBorrowForUpdate = store.GetOwnedBorrowForUpdate
	markReturned            = store.MarkReturned
	deleteBorrow            = store.DeleteBorrow
	listBorrowsByUser       = store.ListBorrowsByUser
	listBorrows             = store.ListBorrows
	countBorrowsByBook      = store.CountBorrowsByBook
)

// Ledger 借閱狀態機：Active -> Returned -> Deleted
type Ledger struct {
	db  database.DB
	log *zap.Logger
}

func NewLedger(db database.DB, log *zap.Logger) *Ledger {
	return &Ledger{db: db, log: log.Named("ledger")}
}

// Borrow 同一本書同時只能有一筆 Active；併發時由 partial unique index 擋下
func (s *Ledger) Borrow(ctx context.Context, userID, bookID int) (*model.Borrow, error) {
	var br *model.Borrow
	err := database.WithTx(ctx, s.db, func(q database.Querier) error {
		if _, err := lockBook(ctx, q, bookID, store.LockShare); err != nil {
			return err
		}
		active, err := hasActiveBorrowForBook(ctx, q, bookID)
		if err != nil {
			return err
		}
		if active {
			return errs.E(errs.Conflict, msgBookCurrentlyBorrowed)
		}
		mine, err := hasActiveBorrow(ctx, q, userID, bookID)
		if err != nil {
			return err
		}
		if mine {
			return errs.E(errs.Conflict, msgAlreadyBorrowed)
		}
		br, err = createBorrow(ctx, q, userID, bookID, timeNow().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("book borrowed", zap.Int("borrow_id", br.ID), zap.Int("user_id", userID), zap.Int("book_id", bookID))
	return br, nil
}

// Return 只有借閱者本人能歸還；不存在與非本人一律回傳 NotFound
func (s *Ledger) Return(ctx context.Context, borrowID, requesterID int) (*model.Borrow, error) {
	var br *model.Borrow
	err := database.WithTx(ctx, s.db, func(q database.Querier) error {
		cur, err := getOwnedBorrowForUpdate(ctx, q, borrowID, requesterID)
		if err != nil {
			return err
		}
		if !cur.Active() {
			return errs.E(errs.Conflict, "Book already returned")
		}
		br, err = markReturned(ctx, q, borrowID, timeNow().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}
	return br, nil
}

// Delete 必須先歸還才能刪除
func (s *Ledger) Delete(ctx context.Context, borrowID, requesterID int) error {
	return database.WithTx(ctx, s.db, func(q database.Querier) error {
		cur, err := getOwnedBorrowForUpdate(ctx, q, borrowID, requesterID)
		if err != nil {
			return err
		}
		if cur.Active() {
			return errs.E(errs.Conflict, msgDeleteActiveBorrow)
		}
		return deleteBorrow(ctx, q, borrowID)
	})
}

func (s *Ledger) ListMine(ctx context.Context, userID int, p model.Paging) (model.Page[model.Borrow], error) {
	return s.ListForUser(ctx, userID, p)
}

func (s *Ledger) ListForUser(ctx context.Context, userID int, p model.Paging) (model.Page[model.Borrow], error) {
	items, total, err := listBorrowsByUser(ctx, s.db, userID, p)
	if err != nil {
		return model.Page[model.Borrow]{}, err
	}
	return model.NewPage(p, total, items), nil
}

// ListAll search 同時比對書名與使用者名稱
func (s *Ledger) ListAll(ctx context.Context, search string, p model.Paging) (model.Page[model.Borrow], error) {
	items, total, err := listBorrows(ctx, s.db, strings.TrimSpace(search), p)
	if err != nil {
		return model.Page[model.Borrow]{}, err
	}
	return model.NewPage(p, total, items), nil
}

func (s *Ledger) StatusOf(ctx context.Context, bookID int) (model.BorrowStatus, error) {
	active, err := hasActiveBorrowForBook(ctx, s.db, bookID)
	if err != nil {
		return "", err
	}
	if active {
		return model.StatusBorrowed, nil
	}
	return model.StatusAvailable, nil
}

// CountFor 歷史總借閱次數（含已歸還）
func (s *Ledger) CountFor(ctx context.Context, bookID int) (int, error) {
	return countBorrowsByBook(ctx, s.db, bookID)
}

func (s *Ledger) HistoryOf(ctx context.Context, bookID int, p model.Paging) (model.Page[model.Borrow], error) {
	items, total, err := listBorrowsByBook(ctx, s.db, bookID, &p)
	if err != nil {
		return model.Page[model.Borrow]{}, err
	}
	return model.NewPage(p, total, items), nil
}
