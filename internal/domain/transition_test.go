package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(status OrderStatus, staff *int64) Order {
	return Order{
		ID:       1,
		SubTotal: decimal.RequireFromString("10.00"),
		Tax:      decimal.RequireFromString("1.50"),
		Total:    decimal.RequireFromString("999"),
		Status:   status,
		StaffID:  staff,
	}
}

func ptr(v int64) *int64 { return &v }

func TestClaimTransition(t *testing.T) {
	tests := []struct {
		current OrderStatus
		want    OrderStatus
	}{
		{StatusProcessing, StatusWashing},
		{StatusPickupCompleted, StatusWashing},
		{StatusReadyForDelivery, StatusReadyForDelivery},
		{StatusOrderPlaced, StatusPickupScheduled},
		{StatusPickupScheduled, StatusPickupScheduled},
		{StatusWashing, StatusPickupScheduled},
	}
	for _, tt := range tests {
		t.Run(string(tt.current), func(t *testing.T) {
			o := newOrder(tt.current, nil)
			o.Apply(ClaimTransition(o.Status), 7)

			assert.Equal(t, tt.want, o.Status)
			require.NotNil(t, o.StaffID)
			assert.Equal(t, int64(7), *o.StaffID)
		})
	}
}

func TestSetStatusTransition_ClearsStaffAtCheckpoints(t *testing.T) {
	for _, target := range []OrderStatus{StatusPickupCompleted, StatusReadyForDelivery} {
		o := newOrder(StatusWashing, ptr(3))
		o.Apply(SetStatusTransition(target), 0)

		assert.Equal(t, target, o.Status)
		assert.Nil(t, o.StaffID)
		assert.Equal(t, AssignClear, SetStatusTransition(target).Assignment)
	}
}

func TestSetStatusTransition_KeepsStaffOtherwise(t *testing.T) {
	o := newOrder(StatusWashing, ptr(3))
	o.Apply(SetStatusTransition(StatusDrying), 0)

	assert.Equal(t, StatusDrying, o.Status)
	require.NotNil(t, o.StaffID)
	assert.Equal(t, int64(3), *o.StaffID)
}

func TestApply_RecomputesTotal(t *testing.T) {
	o := newOrder(StatusOrderPlaced, nil)
	o.Apply(ClaimTransition(o.Status), 1)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("11.50")), o.Total.String())
}

func TestParseOrderStatus(t *testing.T) {
	st, err := ParseOrderStatus("  ready FOR delivery ")
	require.NoError(t, err)
	assert.Equal(t, StatusReadyForDelivery, st)

	_, err = ParseOrderStatus("")
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = ParseOrderStatus("Teleported")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	for _, s := range allStatuses {
		got, err := ParseOrderStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err = ParseOrderStatus("Cancelled")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNotification_MarkReadOnce(t *testing.T) {
	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n := OrderStatusNotification(5, 9, StatusWashing, first)
	assert.False(t, n.Read)
	assert.Nil(t, n.ReadAt)
	assert.Contains(t, n.Message, "Washing")

	assert.True(t, n.MarkRead(first))
	assert.False(t, n.MarkRead(first.Add(time.Hour)))
	require.NotNil(t, n.ReadAt)
	assert.Equal(t, first, *n.ReadAt)
}

func TestParseRecipientKind(t *testing.T) {
	k, err := ParseRecipientKind("Staff")
	require.NoError(t, err)
	assert.Equal(t, RecipientStaff, k)

	_, err = ParseRecipientKind("admin")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
