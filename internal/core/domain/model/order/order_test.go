package order_test

import (
	"testing"
	"time"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newPlacedOrder(t *testing.T, buyer *kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-TEST", []string{"item1", "item2"}, buyer, placedAt)
	require.NoError(t, err)
	return o
}

func newProcessingOrder(t *testing.T) (*order.Order, kernel.UUID, kernel.UUID) {
	t.Helper()
	buyer, seller := kernel.NewUUID(), kernel.NewUUID()
	o := newPlacedOrder(t, &buyer)
	require.NoError(t, o.AssociateBuyer(buyer, placedAt.Add(time.Minute)))
	require.NoError(t, o.AssociateSeller(seller, placedAt.Add(2*time.Minute)))
	return o, buyer, seller
}

func TestNewOrder(t *testing.T) {
	validID := kernel.NewUUID()
	buyer := kernel.NewUUID()

	t.Run("should place order with all valid parameters", func(t *testing.T) {
		o, err := order.NewOrder(validID, "ORD-1", []string{"item1"}, &buyer, placedAt)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(validID))
		assert.Equal(t, order.Code("ORD-1"), o.Code())
		assert.Equal(t, []string{"item1"}, o.Items())
		assert.True(t, o.IsBoughtBy(buyer))
		assert.Nil(t, o.Seller())
		assert.Equal(t, order.OrderPlaced, o.Stage())
		assert.Equal(t, map[order.Stage]time.Time{order.OrderPlaced: placedAt}, o.StageTimestamps())
		assert.False(t, o.IsDeleted())
		assert.Equal(t, 1, o.Version())
		assert.Equal(t, 0, o.ExpectedVersion())
	})

	t.Run("should allow an order without buyer", func(t *testing.T) {
		o, err := order.NewOrder(validID, "ORD-1", []string{"item1"}, nil, placedAt)

		require.NoError(t, err)
		assert.Nil(t, o.Buyer())
	})

	t.Run("should fail with empty items", func(t *testing.T) {
		o, err := order.NewOrder(validID, "ORD-1", nil, &buyer, placedAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "items")
	})

	t.Run("should fail with a blank item", func(t *testing.T) {
		o, err := order.NewOrder(validID, "ORD-1", []string{"item1", "  "}, &buyer, placedAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "item 1 is blank")
	})

	t.Run("should join every validation error", func(t *testing.T) {
		var invalidID kernel.UUID

		o, err := order.NewOrder(invalidID, "", nil, nil, placedAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "code")
		assert.Contains(t, err.Error(), "items")
	})

	t.Run("should not share the items slice with the caller", func(t *testing.T) {
		items := []string{"item1"}
		o, err := order.NewOrder(validID, "ORD-1", items, nil, placedAt)
		require.NoError(t, err)

		items[0] = "changed"
		returned := o.Items()
		returned[0] = "changed again"

		assert.Equal(t, []string{"item1"}, o.Items())
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("should fail validation for nil order", func(t *testing.T) {
		var o *order.Order

		assert.Equal(t, order.ErrOrderIsNotConstructed, o.Validate())
	})

	t.Run("should fail validation for zero value order", func(t *testing.T) {
		o := &order.Order{}

		assert.Equal(t, order.ErrOrderIsNotConstructed, o.Validate())
	})
}

func TestOrder_AssociateBuyer(t *testing.T) {
	t.Run("should bind the buyer and enter Buyer Associated", func(t *testing.T) {
		o := newPlacedOrder(t, nil)
		buyer := kernel.NewUUID()
		at := placedAt.Add(time.Minute)

		err := o.AssociateBuyer(buyer, at)

		require.NoError(t, err)
		assert.True(t, o.IsBoughtBy(buyer))
		assert.Equal(t, order.BuyerAssociated, o.Stage())
		assert.Equal(t, at, o.StageTimestamps()[order.BuyerAssociated])
		assert.Equal(t, 2, o.Version())
	})

	t.Run("should allow re-confirming the buyer set at creation", func(t *testing.T) {
		buyer := kernel.NewUUID()
		o := newPlacedOrder(t, &buyer)

		require.NoError(t, o.AssociateBuyer(buyer, placedAt.Add(time.Minute)))
		assert.Equal(t, order.BuyerAssociated, o.Stage())
	})

	t.Run("should refuse to replace a different buyer", func(t *testing.T) {
		buyer := kernel.NewUUID()
		o := newPlacedOrder(t, &buyer)

		err := o.AssociateBuyer(kernel.NewUUID(), placedAt.Add(time.Minute))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidState)
		assert.True(t, o.IsBoughtBy(buyer))
		assert.Equal(t, order.OrderPlaced, o.Stage())
		assert.Equal(t, 1, o.Version())
	})

	t.Run("should refuse when stage is not Order Placed", func(t *testing.T) {
		o, buyer, _ := newProcessingOrder(t)

		err := o.AssociateBuyer(buyer, placedAt.Add(time.Hour))

		require.Error(t, err)
		var stateErr *errs.InvalidStateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, "Processing", stateErr.Current)
	})

	t.Run("should reject a zero buyer id", func(t *testing.T) {
		o := newPlacedOrder(t, nil)

		err := o.AssociateBuyer(kernel.UUID{}, placedAt)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should never stamp a stage before the previous one", func(t *testing.T) {
		o := newPlacedOrder(t, nil)

		require.NoError(t, o.AssociateBuyer(kernel.NewUUID(), placedAt.Add(-time.Hour)))

		assert.Equal(t, placedAt, o.StageTimestamps()[order.BuyerAssociated])
	})
}

func TestOrder_AssociateSeller(t *testing.T) {
	t.Run("should bind the seller and enter Processing", func(t *testing.T) {
		o, _, seller := newProcessingOrder(t)

		assert.True(t, o.IsHandledBy(seller))
		assert.Equal(t, order.Processing, o.Stage())
		assert.Len(t, o.StageTimestamps(), 3)
		assert.Equal(t, 3, o.Version())
	})

	t.Run("should refuse before a buyer is associated", func(t *testing.T) {
		o := newPlacedOrder(t, nil)

		err := o.AssociateSeller(kernel.NewUUID(), placedAt)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Nil(t, o.Seller())
	})

	t.Run("should refuse a second seller", func(t *testing.T) {
		o, _, seller := newProcessingOrder(t)

		err := o.AssociateSeller(kernel.NewUUID(), placedAt.Add(time.Hour))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidState)
		assert.True(t, o.IsHandledBy(seller))
	})
}

func TestOrder_AdvanceStage(t *testing.T) {
	t.Run("should walk the lifecycle one stage at a time", func(t *testing.T) {
		o, _, _ := newProcessingOrder(t)
		expected := []order.Stage{order.Packed, order.Shipped, order.OutForDelivery, order.Delivered}

		for i, want := range expected {
			next, err := o.AdvanceStage(placedAt.Add(time.Duration(i+3) * time.Minute))

			require.NoError(t, err)
			assert.Equal(t, want, next)
			assert.Equal(t, want, o.Stage())
		}

		timestamps := o.StageTimestamps()
		assert.Len(t, timestamps, len(order.Stages()))
		var previous time.Time
		for _, stage := range order.Stages() {
			at, ok := timestamps[stage]
			require.True(t, ok, "missing %s", stage)
			assert.False(t, at.Before(previous))
			previous = at
		}
	})

	t.Run("should fail at Delivered and leave the order unchanged", func(t *testing.T) {
		o, _, _ := newProcessingOrder(t)
		for range 4 {
			_, err := o.AdvanceStage(placedAt.Add(time.Hour))
			require.NoError(t, err)
		}
		version := o.Version()

		next, err := o.AdvanceStage(placedAt.Add(2 * time.Hour))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, order.Unknown, next)
		assert.Equal(t, order.Delivered, o.Stage())
		assert.Equal(t, version, o.Version())
	})
}

func TestOrder_MarkDeleted(t *testing.T) {
	t.Run("should soft delete and then refuse every mutation", func(t *testing.T) {
		o, _, _ := newProcessingOrder(t)

		require.NoError(t, o.MarkDeleted(placedAt.Add(time.Hour)))
		assert.True(t, o.IsDeleted())

		_, err := o.AdvanceStage(placedAt.Add(2 * time.Hour))
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)

		err = o.MarkDeleted(placedAt.Add(2 * time.Hour))
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("should round trip through State", func(t *testing.T) {
		o, buyer, seller := newProcessingOrder(t)

		restored, err := order.RestoreOrder(o.State())

		require.NoError(t, err)
		assert.Equal(t, o.State(), restored.State())
		assert.True(t, restored.IsBoughtBy(buyer))
		assert.True(t, restored.IsHandledBy(seller))
		assert.Equal(t, o.Version(), restored.ExpectedVersion())
	})

	t.Run("should reject timestamps that skip a stage", func(t *testing.T) {
		o, _, _ := newProcessingOrder(t)
		state := o.State()
		delete(state.StageTimestamps, order.BuyerAssociated)

		_, err := order.RestoreOrder(state)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "Buyer Associated is missing")
	})

	t.Run("should reject timestamps past the current stage", func(t *testing.T) {
		o, _, _ := newProcessingOrder(t)
		state := o.State()
		state.StageTimestamps[order.Shipped] = placedAt.Add(time.Hour)

		_, err := order.RestoreOrder(state)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Shipped is stamped")
	})

	t.Run("should reject decreasing timestamps", func(t *testing.T) {
		o, _, _ := newProcessingOrder(t)
		state := o.State()
		state.StageTimestamps[order.Processing] = placedAt.Add(-time.Hour)

		_, err := order.RestoreOrder(state)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "entered before the previous stage")
	})

	t.Run("should reject a seller before Buyer Associated", func(t *testing.T) {
		o := newPlacedOrder(t, nil)
		state := o.State()
		seller := kernel.NewUUID()
		state.SellerID = &seller

		_, err := order.RestoreOrder(state)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid stage to have a seller")
	})

	t.Run("should reject a bound stage without buyer", func(t *testing.T) {
		o, _, _ := newProcessingOrder(t)
		state := o.State()
		state.BuyerID = nil

		_, err := order.RestoreOrder(state)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid stage to have no buyer")
	})
}
