package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateFirstPageWithMore(t *testing.T) {
	plan := Plan{Page: 1, Limit: 25}
	pg := paginate(plan, 60)

	require.NotNil(t, pg.Next)
	assert.Equal(t, int64(2), pg.Next.Page)
	assert.Equal(t, int64(25), pg.Next.Limit)
	assert.Nil(t, pg.Prev)
}

func TestPaginateMiddlePage(t *testing.T) {
	plan := Plan{Page: 2, Limit: 25}
	pg := paginate(plan, 60)

	require.NotNil(t, pg.Next)
	assert.Equal(t, int64(3), pg.Next.Page)
	require.NotNil(t, pg.Prev)
	assert.Equal(t, int64(1), pg.Prev.Page)
}

func TestPaginateLastPage(t *testing.T) {
	plan := Plan{Page: 3, Limit: 25}
	pg := paginate(plan, 60)

	assert.Nil(t, pg.Next)
	require.NotNil(t, pg.Prev)
	assert.Equal(t, int64(2), pg.Prev.Page)
}

func TestPaginateSinglePage(t *testing.T) {
	plan := Plan{Page: 1, Limit: 25}
	pg := paginate(plan, 10)

	assert.Nil(t, pg.Next)
	assert.Nil(t, pg.Prev)
}

func TestPaginateExactBoundary(t *testing.T) {
	plan := Plan{Page: 1, Limit: 25}
	pg := paginate(plan, 25)

	assert.Nil(t, pg.Next)
	assert.Nil(t, pg.Prev)
}
