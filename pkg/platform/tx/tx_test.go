package tx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	_, ok := From(ctx)
	assert.False(t, ok)

	assert.Equal(t, ctx, WithTx(ctx, nil), "nil tx leaves the context untouched")

	sqlTx := &sql.Tx{}
	got, ok := From(WithTx(ctx, sqlTx))
	assert.True(t, ok)
	assert.Same(t, sqlTx, got)
}

func TestQuerierFrom(t *testing.T) {
	db := &sql.DB{}
	assert.Same(t, db, QuerierFrom(context.Background(), db))

	sqlTx := &sql.Tx{}
	assert.Same(t, sqlTx, QuerierFrom(WithTx(context.Background(), sqlTx), db))
}
