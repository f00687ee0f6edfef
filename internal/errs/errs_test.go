package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	err := E(Conflict, "Book is currently borrowed")
	require.Equal(t, Conflict, KindOf(err))
	require.Equal(t, "Book is currently borrowed", err.Error())

	wrapped := fmt.Errorf("CreateBorrow: %w", err)
	require.Equal(t, Conflict, KindOf(wrapped))
	require.True(t, Is(wrapped, Conflict))
	require.False(t, Is(wrapped, NotFound))

	require.Equal(t, Internal, KindOf(errors.New("boom")))
	require.False(t, Is(nil, Internal))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		Internal:          http.StatusInternalServerError,
		Unauthenticated:   http.StatusUnauthorized,
		InvalidCredential: http.StatusUnauthorized,
		Forbidden:         http.StatusForbidden,
		NotFound:          http.StatusNotFound,
		InvalidInput:      http.StatusBadRequest,
		Conflict:          http.StatusBadRequest,
	}
	for kind, status := range cases {
		require.Equal(t, status, HTTPStatus(kind), kind.String())
	}
}
