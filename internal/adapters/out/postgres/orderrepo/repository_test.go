package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"ordertracker/internal/adapters/out/postgres/orderrepo"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/errs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepository(t *testing.T) (*orderrepo.GormOrderRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgresdriver.New(postgresdriver.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return orderrepo.NewGormOrderRepository(db), mock
}

// loadedOrder mimics an order read back from the store at version 1.
func loadedOrder(t *testing.T) *order.Order {
	t.Helper()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	buyer := kernel.NewUUID()
	o, err := order.RestoreOrder(order.State{
		ID:              kernel.NewUUID(),
		Code:            "ORD-1",
		Items:           []string{"item1"},
		BuyerID:         &buyer,
		Stage:           order.OrderPlaced,
		StageTimestamps: map[order.Stage]time.Time{order.OrderPlaced: now},
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	require.NoError(t, err)
	require.NoError(t, o.AssociateBuyer(buyer, now.Add(time.Minute)))
	return o
}

func TestGormOrderRepository_Update_ComparesVersion(t *testing.T) {
	t.Run("should write stage entries after a matching version", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		o := loadedOrder(t)

		mock.ExpectExec(`UPDATE "orders" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "order_stage_entries" .* ON CONFLICT DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), o)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should report a concurrent modification and skip stage entries", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		o := loadedOrder(t)

		mock.ExpectExec(`UPDATE "orders" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), o)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.ErrorIs(t, err, errs.ErrConcurrentModification)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should translate driver failures", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		o := loadedOrder(t)

		mock.ExpectExec(`UPDATE "orders"`).WillReturnError(context.DeadlineExceeded)

		err := repo.Update(context.Background(), o)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInternal)
		assert.True(t, errs.IsRetryable(err))
	})
}
