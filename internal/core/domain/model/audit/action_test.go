package audit_test

import (
	"testing"
	"time"

	"ordertracker/internal/core/domain/model/audit"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAction_String(t *testing.T) {
	tests := map[string]audit.Action{
		"Order Created":              audit.OrderCreated(),
		"Buyer Associated":           audit.BuyerAssociated(),
		"Seller Associated":          audit.SellerAssociated(),
		"Stage changed to Packed":    audit.StageAdvanced(order.Packed),
		"Stage changed to Delivered": audit.StageAdvanced(order.Delivered),
		"Order Deleted":              audit.OrderDeleted(),
	}

	for expected, action := range tests {
		t.Run(expected, func(t *testing.T) {
			assert.Equal(t, expected, action.String())
		})
	}
}

func TestRestoreAction(t *testing.T) {
	t.Run("should restore a stage change with its stage", func(t *testing.T) {
		action, err := audit.RestoreAction(audit.KindStageAdvanced, order.Shipped)

		require.NoError(t, err)
		assert.Equal(t, audit.StageAdvanced(order.Shipped), action)
	})

	t.Run("should drop the stage for other kinds", func(t *testing.T) {
		action, err := audit.RestoreAction(audit.KindOrderDeleted, order.Shipped)

		require.NoError(t, err)
		assert.Equal(t, order.Unknown, action.Stage())
	})

	t.Run("should reject a stage change without stage", func(t *testing.T) {
		_, err := audit.RestoreAction(audit.KindStageAdvanced, order.Unknown)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject an unknown kind", func(t *testing.T) {
		_, err := audit.RestoreAction(audit.Kind(99), order.Unknown)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestNewEntry(t *testing.T) {
	orderID, actor := kernel.NewUUID(), kernel.NewUUID()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("should record an action", func(t *testing.T) {
		e, err := audit.NewEntry(orderID, audit.OrderCreated(), actor, at)

		require.NoError(t, err)
		require.NoError(t, e.Validate())
		assert.NoError(t, e.ID().Validate())
		assert.Equal(t, orderID, e.OrderID())
		assert.Equal(t, actor, e.PerformedBy())
		assert.Equal(t, at, e.OccurredAt())
	})

	t.Run("should reject a zero action", func(t *testing.T) {
		e, err := audit.NewEntry(orderID, audit.Action{}, actor, at)

		require.Error(t, err)
		assert.Nil(t, e)
	})
}
