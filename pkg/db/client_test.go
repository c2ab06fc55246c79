package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type clientTestRow struct {
	ID   int
	Name string
}

func newTestConn(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&clientTestRow{}))
	return conn
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	conn := newTestConn(t)
	client := NewFromConn(conn)
	ctx := context.Background()

	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&clientTestRow{Name: "committed"}).Error
	}))

	var count int64
	require.NoError(t, conn.Model(&clientTestRow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&clientTestRow{Name: "discarded"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	require.NoError(t, conn.Model(&clientTestRow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "rollback must discard the second row")
}

func TestPing(t *testing.T) {
	client := NewFromConn(newTestConn(t))
	require.NoError(t, client.Ping(context.Background()))
}
