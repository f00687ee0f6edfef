package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"e-library/internal/cache"
	"e-library/internal/database"
	"e-library/internal/errs"
	"e-library/internal/model"
	"e-library/internal/store"

	"go.uber.org/zap"
)

const msgBookBorrowedNoDelete = "Cannot delete book. Book is currently borrowed."

var (
	listBooks              = store.ListBooks
	getBookByID            = store.GetBookByID
	lockBook               = store.LockBook
	createBook             = store.CreateBook
	updateBook             = store.UpdateBook
	deleteBook             = store.DeleteBook
	hasActiveBorrowForBook = store.HasActiveBorrowForBook
	listBorrowsByBook      = store.ListBorrowsByBook
)

// BookInput 新增與更新書籍時的欄位
type BookInput struct {
	Title       string
	Author      string
	Description string
	Stock       int
}

func (in BookInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return errs.E(errs.InvalidInput, "Title is required")
	case strings.TrimSpace(in.Author) == "":
		return errs.E(errs.InvalidInput, "Author is required")
	case strings.TrimSpace(in.Description) == "":
		return errs.E(errs.InvalidInput, "Description is required")
	case in.Stock < 0:
		return errs.E(errs.InvalidInput, "Stock must be a non-negative integer")
	}
	return nil
}

func bookCacheKey(id int) string {
	return fmt.Sprintf("book:%d", id)
}

// bookVersionKey 每次更新或刪除書籍都會遞增
func bookVersionKey(id int) string {
	return fmt.Sprintf("book:%d:ver", id)
}

// Catalog 書籍管理；單本書的讀取走 Redis 快取
type Catalog struct {
	db       database.DB
	cache    cache.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewCatalog(db database.DB, c cache.Cache, cacheTTL time.Duration, log *zap.Logger) *Catalog {
	return &Catalog{db: db, cache: c, cacheTTL: cacheTTL, log: log.Named("catalog")}
}

func (s *Catalog) List(ctx context.Context, search string, p model.Paging) (model.Page[model.Book], error) {
	books, total, err := listBooks(ctx, s.db, strings.TrimSpace(search), p)
	if err != nil {
		return model.Page[model.Book]{}, err
	}
	return model.NewPage(p, total, books), nil
}

// Get 快取失敗只記錄，不影響回應。
// 查詢資料庫前先記下版本號，回填時版本已變代表期間有更新或刪除，放棄回填
func (s *Catalog) Get(ctx context.Context, id int) (*model.Book, error) {
	key, verKey := bookCacheKey(id), bookVersionKey(id)
	var cached model.Book
	hit, err := cache.GetJSON(ctx, s.cache, key, &cached)
	if err != nil {
		s.log.Warn("book cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	ver, verErr := cache.Version(ctx, s.cache, verKey)
	if verErr != nil {
		s.log.Warn("book cache version read failed", zap.String("key", verKey), zap.Error(verErr))
	}

	b, err := getBookByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if verErr != nil {
		return b, nil
	}
	stored, err := cache.SetJSONIfVersion(ctx, s.cache, key, verKey, ver, b, s.cacheTTL)
	if err != nil {
		s.log.Warn("book cache write failed", zap.String("key", key), zap.Error(err))
	} else if !stored {
		s.log.Debug("book cache fill skipped", zap.Int("book_id", id))
	}
	return b, nil
}

func (s *Catalog) Create(ctx context.Context, in BookInput) (*model.Book, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return createBook(ctx, s.db, &model.Book{
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		Stock:       in.Stock,
	})
}

// Update 四個欄位整筆取代
func (s *Catalog) Update(ctx context.Context, id int, in BookInput) (*model.Book, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	b, err := updateBook(ctx, s.db, &model.Book{
		ID:          id,
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		Stock:       in.Stock,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return b, nil
}

// Delete 鎖住書籍列後才檢查借閱狀態，避免檢查與刪除之間有人借走
func (s *Catalog) Delete(ctx context.Context, id int) error {
	err := database.WithTx(ctx, s.db, func(q database.Querier) error {
		if _, err := lockBook(ctx, q, id, store.LockUpdate); err != nil {
			return err
		}
		active, err := hasActiveBorrowForBook(ctx, q, id)
		if err != nil {
			return err
		}
		if active {
			return errs.E(errs.Conflict, msgBookBorrowedNoDelete)
		}
		return deleteBook(ctx, q, id)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// BorrowsOf 該書所有借閱紀錄（含借閱者），不分頁
func (s *Catalog) BorrowsOf(ctx context.Context, id int) ([]model.Borrow, error) {
	items, _, err := listBorrowsByBook(ctx, s.db, id, nil)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Borrow{}
	}
	return items, nil
}

// invalidate 先遞增版本號再刪除，讓進行中的 Get 無法回填舊資料
func (s *Catalog) invalidate(ctx context.Context, id int) {
	verKey := bookVersionKey(id)
	if err := cache.BumpVersion(ctx, s.cache, verKey); err != nil {
		s.log.Warn("book cache version bump failed", zap.String("key", verKey), zap.Error(err))
	}
	key := bookCacheKey(id)
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		s.log.Warn("book cache invalidate failed", zap.String("key", key), zap.Error(err))
	}
}
