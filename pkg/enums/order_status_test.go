package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusProcessing))
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusCompleted))

	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusCompleted))
	assert.False(t, OrderStatusProcessing.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusProcessing.CanTransitionTo(OrderStatusCancelled))

	// Terminal states never move.
	for _, next := range validOrderStatuses {
		assert.False(t, OrderStatusCompleted.CanTransitionTo(next))
		assert.False(t, OrderStatusCancelled.CanTransitionTo(next))
	}
}

func TestParseOrderStatus(t *testing.T) {
	parsed, err := ParseOrderStatus("processing")
	assert.NoError(t, err)
	assert.Equal(t, OrderStatusProcessing, parsed)

	_, err = ParseOrderStatus("shipped")
	assert.Error(t, err)

	assert.True(t, OrderStatusPending.IsValid())
	assert.False(t, OrderStatus("shipped").IsValid())
}
