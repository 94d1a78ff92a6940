package order_test

import (
	"fmt"
	"testing"

	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStage_Constants(t *testing.T) {
	t.Run("should number stages by their position in the lifecycle", func(t *testing.T) {
		assert.Equal(t, 0, int(order.Unknown))
		assert.Equal(t, 1, int(order.OrderPlaced))
		assert.Equal(t, 2, int(order.BuyerAssociated))
		assert.Equal(t, 3, int(order.Processing))
		assert.Equal(t, 4, int(order.Packed))
		assert.Equal(t, 5, int(order.Shipped))
		assert.Equal(t, 6, int(order.OutForDelivery))
		assert.Equal(t, 7, int(order.Delivered))
	})

	t.Run("should list stages in lifecycle order", func(t *testing.T) {
		stages := order.Stages()

		require.Len(t, stages, 7)
		for i := 1; i < len(stages); i++ {
			assert.Less(t, int(stages[i-1]), int(stages[i]))
		}
	})
}

func TestStage_String(t *testing.T) {
	tests := []struct {
		stage    order.Stage
		expected string
	}{
		{order.OrderPlaced, "Order Placed"},
		{order.BuyerAssociated, "Buyer Associated"},
		{order.Processing, "Processing"},
		{order.Packed, "Packed"},
		{order.Shipped, "Shipped"},
		{order.OutForDelivery, "Out for Delivery"},
		{order.Delivered, "Delivered"},
		{order.Unknown, "Unknown"},
		{order.Stage(42), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("should render %d as %s", int(tt.stage), tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.stage.String())
		})
	}
}

func TestStage_Validate(t *testing.T) {
	t.Run("should accept every lifecycle stage", func(t *testing.T) {
		for _, stage := range order.Stages() {
			require.NoError(t, stage.Validate())
		}
	})

	t.Run("should reject unknown values", func(t *testing.T) {
		for _, stage := range []order.Stage{order.Unknown, order.Stage(-1), order.Stage(8)} {
			err := stage.Validate()

			require.Error(t, err)
			assert.IsType(t, &errs.ValueIsInvalidError{}, err)
			assert.Contains(t, err.Error(), fmt.Sprintf("%d is not a valid stage", int(stage)))
		}
	})
}

func TestParseStage(t *testing.T) {
	t.Run("should resolve display names", func(t *testing.T) {
		for _, stage := range order.Stages() {
			parsed, err := order.ParseStage(stage.String())

			require.NoError(t, err)
			assert.Equal(t, stage, parsed)
		}
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		parsed, err := order.ParseStage("Lost in transit")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.Unknown, parsed)
	})
}

func TestStage_Next(t *testing.T) {
	t.Run("should return exactly one successor for every non-terminal stage", func(t *testing.T) {
		stages := order.Stages()
		for i := 0; i+1 < len(stages); i++ {
			next, err := stages[i].Next()

			require.NoError(t, err)
			assert.Equal(t, stages[i+1], next)
		}
	})

	t.Run("should refuse to advance past Delivered", func(t *testing.T) {
		next, err := order.Delivered.Next()

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Contains(t, err.Error(), "order already delivered, no next stage")
		assert.Equal(t, order.Unknown, next)
	})

	t.Run("should reject Unknown", func(t *testing.T) {
		_, err := order.Unknown.Next()

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStage_Reached(t *testing.T) {
	assert.True(t, order.Processing.Reached(order.BuyerAssociated))
	assert.True(t, order.Processing.Reached(order.Processing))
	assert.False(t, order.OrderPlaced.Reached(order.BuyerAssociated))
	assert.True(t, order.Delivered.IsTerminal())
	assert.False(t, order.OutForDelivery.IsTerminal())
}
