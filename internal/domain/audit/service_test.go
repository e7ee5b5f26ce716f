package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/domain/audit"
	"github.com/your-org/marketplace-backend/internal/pkg/logger"
	"github.com/your-org/marketplace-backend/internal/testutil"
)

func TestRecordAndList(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := audit.NewService(db, logger.Discard())
	ctx := context.Background()

	userID, orderID := uint(3), uint(11)
	svc.Record(ctx, audit.Entry{
		UserID:     &userID,
		Action:     audit.ActionOrderCreate,
		ObjectType: "order",
		ObjectID:   &orderID,
		Extra:      map[string]interface{}{"total": "139997.00"},
		IPAddress:  "127.0.0.1",
	})
	svc.Record(ctx, audit.Entry{
		UserID: &userID,
		Action: audit.ActionCartAdd,
		Err:    errors.New("insufficient stock: only 2 left"),
	})
	svc.Record(ctx, audit.Entry{Action: audit.ActionLogin})

	mine, err := svc.List(ctx, &audit.Filter{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, mine.Logs, 2)
	assert.EqualValues(t, 2, mine.Total)

	failed := mine.Logs[0]
	assert.Equal(t, audit.ActionCartAdd, failed.ActionType)
	assert.False(t, failed.IsSuccess)
	assert.Equal(t, "insufficient stock: only 2 left", failed.ErrorMessage)

	placed := mine.Logs[1]
	assert.True(t, placed.IsSuccess)
	assert.Equal(t, "139997.00", placed.ExtraData["total"])

	orders, err := svc.List(ctx, &audit.Filter{ObjectType: "order"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, orders.Total)

	all, err := svc.List(ctx, &audit.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)
	assert.Equal(t, 50, all.Limit)
}
