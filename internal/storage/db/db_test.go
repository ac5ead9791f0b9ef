package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront/internal/storage/db"
)

func TestClient_WithTx(t *testing.T) {
	t.Run("Should commit when the function succeeds", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM products").
			WithArgs(int64(1)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		client := db.NewClient(mock)
		err = client.WithTx(context.Background(), func(tx db.DB) error {
			_, err := tx.Exec(context.Background(), "DELETE FROM products WHERE id = $1", int64(1))
			return err
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should rollback when the function fails", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		client := db.NewClient(mock)
		err = client.WithTx(context.Background(), func(db.DB) error {
			return boom
		})

		require.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should reuse the transaction for nested calls", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		client := db.NewClient(mock)
		err = client.WithTx(context.Background(), func(tx db.DB) error {
			return tx.WithTx(context.Background(), func(inner db.DB) error {
				assert.Same(t, tx, inner)
				return nil
			})
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestClient_IsHealthy(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing()

	healthy, err := db.NewClient(mock).IsHealthy(context.Background())
	require.NoError(t, err)
	assert.True(t, healthy)
	assert.NoError(t, mock.ExpectationsWereMet())
}
