package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPaging(t *testing.T) {
	p := NewPaging(0, 0)
	require.Equal(t, Paging{Page: 1, Limit: 10}, p)
	require.Equal(t, 0, p.Offset())

	p = NewPaging(3, 500)
	require.Equal(t, MaxLimit, p.Limit)
	require.Equal(t, 200, p.Offset())

	p = NewPaging(-2, -5)
	require.Equal(t, Paging{Page: 1, Limit: 10}, p)
}

func TestNewPagingHugePage(t *testing.T) {
	for _, limit := range []int{1, 10, MaxLimit} {
		p := NewPaging(math.MaxInt, limit)
		require.Equal(t, math.MaxInt/limit, p.Page)
		require.Equal(t, (math.MaxInt/limit-1)*limit, p.Offset(), "limit %d", limit)
	}

	p := NewPaging(100000000000000000, 100)
	require.Greater(t, p.Offset(), 0)
}

func TestTotalPages(t *testing.T) {
	p := NewPaging(1, 10)
	require.Equal(t, 3, p.TotalPages(25))
	require.Equal(t, 1, p.TotalPages(10))
	require.Equal(t, 0, p.TotalPages(0))
}

func TestNewPageBeyondLast(t *testing.T) {
	p := NewPaging(4, 10)
	page := NewPage[Book](p, 25, nil)
	require.Equal(t, 4, page.CurrentPage)
	require.Equal(t, 3, page.TotalPages)
	require.Equal(t, 25, page.TotalCount)
	require.Empty(t, page.Items)

	raw, err := json.Marshal(page)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"items":[]`)
}

func TestRoleAndBorrow(t *testing.T) {
	require.True(t, RoleUser.Valid())
	require.True(t, RoleAdmin.Valid())
	require.False(t, Role("root").Valid())

	u := User{ID: 1, Username: "alice", PasswordHash: "h", Role: RoleUser}
	raw, err := json.Marshal(u)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "password")
	require.Equal(t, UserPublic{ID: 1, Username: "alice", Role: RoleUser}, u.Public())

	require.True(t, Borrow{}.Active())
}
