// file: internals/helpers/pagination_test.go
package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPagination(t *testing.T) {
	p := Paging{Page: 2, PerPage: 20, Offset: 20, Limit: 20}
	pg := BuildPagination(45, p)

	assert.Equal(t, 2, pg.Page)
	assert.Equal(t, int64(45), pg.Total)
	assert.Equal(t, 3, pg.TotalPages)
	assert.True(t, pg.HasNext)
	assert.True(t, pg.HasPrev)
}

func TestBuildPaginationEmpty(t *testing.T) {
	p := Paging{Page: 1, PerPage: 20, Limit: 20}
	pg := BuildPagination(0, p)

	assert.Equal(t, 1, pg.TotalPages)
	assert.False(t, pg.HasNext)
	assert.False(t, pg.HasPrev)
}
