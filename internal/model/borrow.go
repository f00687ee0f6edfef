// File: internal/model/borrow.go
package model

import "time"

// BorrowStatus 書籍目前的借閱狀態
type BorrowStatus string

const (
	StatusAvailable BorrowStatus = "available"
	StatusBorrowed  BorrowStatus = "borrowed"
)

// Borrow 借閱紀錄；ReturnDate 為 nil 代表仍在借閱中
type Borrow struct {
	ID         int         `db:"id" json:"id"`
	UserID     int         `db:"user_id" json:"userId"`
	BookID     int         `db:"book_id" json:"bookId"`
	BorrowDate time.Time   `db:"borrow_date" json:"borrowDate"`
	ReturnDate *time.Time  `db:"return_date" json:"returnDate"`
	Book       *Book       `json:"book,omitempty"`
	User       *UserPublic `json:"user,omitempty"`
}

// Active 尚未歸還
func (b Borrow) Active() bool {
	return b.ReturnDate == nil
}
