// File: internal/errs/errs.go
package errs

import (
	"errors"
	"net/http"
)

// Kind 錯誤分類，決定回應的 HTTP 狀態碼
type Kind int

const (
	Internal Kind = iota
	Unauthenticated
	InvalidCredential
	Forbidden
	NotFound
	InvalidInput
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case InvalidCredential:
		return "invalid credential"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not found"
	case InvalidInput:
		return "invalid input"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error 帶分類的領域錯誤，Message 會直接回傳給呼叫端
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// E 建立領域錯誤
func E(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// KindOf 取出錯誤分類，非領域錯誤一律視為 Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is 判斷 err 是否為指定分類
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus Conflict 沿用 400
func HTTPStatus(kind Kind) int {
	switch kind {
	case Unauthenticated, InvalidCredential:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case InvalidInput, Conflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
