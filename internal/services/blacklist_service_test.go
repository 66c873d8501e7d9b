package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/isdelr/recipes-be/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func TestBlacklist_RevokeIsIdempotent(t *testing.T) {
	s := NewBlacklistService(testutil.NewDB(t))
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "jti-1"))
	require.NoError(t, s.Revoke(ctx, "jti-1"))

	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = s.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestBlacklist_StorageError(t *testing.T) {
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	s := NewBlacklistService(db)
	boom := errors.New("disk I/O error")

	mock.ExpectQuery("blacklisted_tokens").WillReturnError(boom)
	_, err = s.IsRevoked(context.Background(), "jti-1")
	assert.ErrorIs(t, err, boom)

	mock.ExpectExec("blacklisted_tokens").WillReturnError(boom)
	err = s.Revoke(context.Background(), "jti-1")
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}
