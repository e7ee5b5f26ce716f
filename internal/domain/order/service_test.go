package order_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/logger"
	"github.com/your-org/marketplace-backend/internal/testutil"
	"gorm.io/gorm"
)

func newOrder(t *testing.T, db *gorm.DB, userID, productID uint, status order.OrderStatus) order.Order {
	t.Helper()
	o := order.Order{
		UserID:          userID,
		Shipping:        order.ShippingInfo{FirstName: "Ivan", LastName: "Petrenko", Email: "ivan@example.com"},
		TotalPrice:      decimal.NewFromInt(200),
		Status:          status,
		PaymentProvider: order.PaymentVisa,
		Lines: []order.Line{
			{ProductID: productID, ProductName: "Phone", Quantity: 2, Price: decimal.NewFromInt(100)},
		},
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}

func TestStatusMachine(t *testing.T) {
	cases := []struct {
		from, to order.OrderStatus
		allowed  bool
	}{
		{order.OrderStatusPending, order.OrderStatusProcessing, true},
		{order.OrderStatusPending, order.OrderStatusCancelled, true},
		{order.OrderStatusPending, order.OrderStatusShipped, false},
		{order.OrderStatusProcessing, order.OrderStatusShipped, true},
		{order.OrderStatusProcessing, order.OrderStatusCancelled, true},
		{order.OrderStatusShipped, order.OrderStatusDelivered, true},
		{order.OrderStatusShipped, order.OrderStatusCancelled, false},
		{order.OrderStatusDelivered, order.OrderStatusCancelled, false},
		{order.OrderStatusCancelled, order.OrderStatusPending, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}

	assert.True(t, order.OrderStatusDelivered.IsTerminal())
	assert.True(t, order.OrderStatusCancelled.IsTerminal())
	assert.False(t, order.OrderStatusShipped.IsTerminal())
	assert.False(t, order.OrderStatus("lost").Valid())
}

func TestUpdateStatusRecordsHistory(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := order.NewService(db, logger.Discard())
	ctx := context.Background()

	buyer := testutil.User(t, db, "buyer@example.com")
	staff := testutil.User(t, db, "staff@example.com")
	o := newOrder(t, db, buyer.ID, 1, order.OrderStatusPending)

	for _, next := range []order.OrderStatus{order.OrderStatusProcessing, order.OrderStatusShipped, order.OrderStatusDelivered} {
		_, err := svc.UpdateStatus(ctx, o.ID, next, "moved", &staff.ID)
		require.NoError(t, err)
	}

	got, err := svc.GetAny(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusDelivered, got.Status)
	require.Len(t, got.StatusHistory, 3)
	assert.Equal(t, order.OrderStatusShipped, got.StatusHistory[1].Status)

	_, err = svc.UpdateStatus(ctx, o.ID, order.OrderStatusCancelled, "", &staff.ID)
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "cannot change order status from delivered to cancelled")

	_, err = svc.UpdateStatus(ctx, o.ID, order.OrderStatus("lost"), "", nil)
	require.ErrorAs(t, err, &verr)

	_, err = svc.UpdateStatus(ctx, 9999, order.OrderStatusProcessing, "", nil)
	var nf *apperror.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestCancelIsScopedToBuyer(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := order.NewService(db, logger.Discard())
	ctx := context.Background()

	buyer := testutil.User(t, db, "buyer@example.com")
	stranger := testutil.User(t, db, "stranger@example.com")
	o := newOrder(t, db, buyer.ID, 1, order.OrderStatusPending)

	_, err := svc.Cancel(ctx, o.ID, stranger.ID)
	var nf *apperror.NotFoundError
	require.ErrorAs(t, err, &nf)

	cancelled, err := svc.Cancel(ctx, o.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusCancelled, cancelled.Status)
	assert.False(t, cancelled.CanBeCancelled())

	_, err = svc.Cancel(ctx, o.ID, buyer.ID)
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestGetAndList(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := order.NewService(db, logger.Discard())
	ctx := context.Background()

	buyer := testutil.User(t, db, "buyer@example.com")
	other := testutil.User(t, db, "other@example.com")
	mine := newOrder(t, db, buyer.ID, 1, order.OrderStatusPending)
	newOrder(t, db, buyer.ID, 2, order.OrderStatusShipped)
	theirs := newOrder(t, db, other.ID, 1, order.OrderStatusPending)

	got, err := svc.Get(ctx, mine.ID, buyer.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "200.00", got.LinesTotal().StringFixed(2))

	_, err = svc.Get(ctx, theirs.ID, buyer.ID)
	var nf *apperror.NotFoundError
	require.ErrorAs(t, err, &nf)

	page, err := svc.ListForUser(ctx, buyer.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
	assert.EqualValues(t, 2, page.Pagination.Total)

	pending, err := svc.List(ctx, &order.OrderListRequest{Status: string(order.OrderStatusPending)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, pending.Pagination.Total)

	_, err = svc.List(ctx, &order.OrderListRequest{Status: "lost"})
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestHasDeliveredPurchase(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := order.NewService(db, logger.Discard())
	ctx := context.Background()

	buyer := testutil.User(t, db, "buyer@example.com")
	newOrder(t, db, buyer.ID, 7, order.OrderStatusShipped)

	ok, err := svc.HasDeliveredPurchase(ctx, buyer.ID, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	newOrder(t, db, buyer.ID, 7, order.OrderStatusDelivered)
	ok, err = svc.HasDeliveredPurchase(ctx, buyer.ID, 7)
	require.NoError(t, err)
	assert.True(t, ok)
}
