package cart_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/inventory"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/logger"
	"github.com/your-org/marketplace-backend/internal/testutil"
	"gorm.io/gorm"
)

const session = "session-abc"

type fixture struct {
	db     *gorm.DB
	svc    *cart.Service
	phones product.Category
	shoes  product.Category
	s41    product.Size
	s42    product.Size
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	log := logger.Discard()
	ledger := inventory.NewLedger(db, testutil.Config(config.OversellStrict), log)
	return &fixture{
		db:     db,
		svc:    cart.NewService(db, cart.NewRepository(db), ledger, log),
		phones: testutil.Category(t, db, "phones", false),
		shoes:  testutil.Category(t, db, "shoes", true),
		s41:    testutil.Size(t, db, "41"),
		s42:    testutil.Size(t, db, "42"),
	}
}

func TestSnapshotArithmetic(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := testutil.FlatProduct(t, f.db, f.phones, "Phone X", "49999.00", testutil.IntPtr(10))
	b := testutil.FlatProduct(t, f.db, f.phones, "Phone Lite", "39999.00", testutil.IntPtr(10))

	_, err := f.svc.AddLine(ctx, session, &cart.AddLineRequest{ProductID: a.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = f.svc.AddLine(ctx, session, &cart.AddLineRequest{ProductID: b.ID, Quantity: 1})
	require.NoError(t, err)

	snap, err := f.svc.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.TotalItems)
	assert.Equal(t, "139997.00", snap.Subtotal.StringFixed(2))
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "99998.00", snap.Items[0].Total().StringFixed(2))
}

func TestSnapshotReadsLivePrice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p := testutil.FlatProduct(t, f.db, f.phones, "Phone", "100.00", nil)
	_, err := f.svc.AddLine(ctx, session, &cart.AddLineRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&product.Product{}).Where("id = ?", p.ID).
		Update("price", testutil.Price(t, "120.00")).Error)

	snap, err := f.svc.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "240.00", snap.Subtotal.StringFixed(2))
}

func TestSnapshotWithoutCart(t *testing.T) {
	f := setup(t)

	snap, err := f.svc.Snapshot(context.Background(), "never-used")
	require.NoError(t, err)
	assert.Zero(t, snap.TotalItems)
	assert.True(t, snap.Subtotal.IsZero())
	assert.Empty(t, snap.Items)
}

func TestAddLineMergesSameItem(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p := testutil.SizedProduct(t, f.db, f.shoes, "Runner", "50.00", []product.Size{f.s41, f.s42}, []int{5, 5})
	size := p.SizeVariants[0].ID

	_, err := f.svc.AddLine(ctx, session, &cart.AddLineRequest{ProductID: p.ID, SizeVariantID: &size, Quantity: 1})
	require.NoError(t, err)
	line, err := f.svc.AddLine(ctx, session, &cart.AddLineRequest{ProductID: p.ID, SizeVariantID: &size, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)

	other := p.SizeVariants[1].ID
	_, err = f.svc.AddLine(ctx, session, &cart.AddLineRequest{ProductID: p.ID, SizeVariantID: &other, Quantity: 1})
	require.NoError(t, err)

	snap, err := f.svc.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Len(t, snap.Items, 2)
	assert.Equal(t, 4, snap.TotalItems)
}

func TestAddLineAdditiveHeadroom(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p := testutil.SizedProduct(t, f.db, f.shoes, "Runner", "50.00", []product.Size{f.s41}, []int{5})
	size := p.SizeVariants[0].ID

	_, err := f.svc.AddLine(ctx, session, &cart.AddLineRequest{ProductID: p.ID, SizeVariantID: &size, Quantity: 3})
	require.NoError(t, err)

	_, err = f.svc.AddLine(ctx, session, &cart.AddLineRequest{ProductID: p.ID, SizeVariantID: &size, Quantity: 3})
	var insufficient *apperror.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Available)

	snap, err := f.svc.Snapshot(ctx, session)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 3, snap.Items[0].Quantity)
	assert.Equal(t, 5, testutil.VariantStock(t, f.db, size))
}

func TestAddLinePicksFirstSizeInStock(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p := testutil.SizedProduct(t, f.db, f.shoes, "Runner", "50.00", []product.Size{f.s41, f.s42}, []int{0, 2})
	line, err := f.svc.AddLine(ctx, session, &cart.AddLineRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	require.NotNil(t, line.SizeVariantID)
	assert.Equal(t, p.SizeVariants[1].ID, *line.SizeVariantID)

	soldOut := testutil.SizedProduct(t, f.db, f.shoes, "Sold Out", "50.00", []product.Size{f.s41}, []int{0})
	_, err = f.svc.AddLine(ctx, session, &cart.AddLineRequest{ProductID: soldOut.ID, Quantity: 1})
	var oos *apperror.OutOfStockError
	require.ErrorAs(t, err, &oos)
}

func TestAddLineRejects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	flat := testutil.FlatProduct(t, f.db, f.phones, "Phone", "100.00", testutil.IntPtr(1))

	t.Run("missing session", func(t *testing.T) {
		_, err := f.svc.AddLine(ctx, "", &cart.AddLineRequest{ProductID: flat.ID, Quantity: 1})
		var verr *apperror.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := f.svc.AddLine(ctx, session, &cart.AddLineRequest{ProductID: flat.ID, Quantity: 0})
		var verr *apperror.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := f.svc.AddLine(ctx, session, &cart.AddLineRequest{ProductID: 4242, Quantity: 1})
		var nf *apperror.NotFoundError
		require.ErrorAs(t, err, &nf)
	})

	t.Run("flat stock exceeded", func(t *testing.T) {
		_, err := f.svc.AddLine(ctx, session, &cart.AddLineRequest{ProductID: flat.ID, Quantity: 2})
		var insufficient *apperror.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 1, insufficient.Available)
	})
}

func TestUpdateQuantity(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p := testutil.FlatProduct(t, f.db, f.phones, "Phone", "100.00", testutil.IntPtr(4))
	line, err := f.svc.AddLine(ctx, session, &cart.AddLineRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	updated, err := f.svc.UpdateQuantity(ctx, session, line.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	_, err = f.svc.UpdateQuantity(ctx, session, line.ID, 5)
	var insufficient *apperror.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 4, insufficient.Available)

	_, err = f.svc.UpdateQuantity(ctx, "other-session", line.ID, 1)
	var nf *apperror.NotFoundError
	require.ErrorAs(t, err, &nf)

	removed, err := f.svc.UpdateQuantity(ctx, session, line.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, removed)

	snap, err := f.svc.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestRemoveLineIsIdempotent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p := testutil.FlatProduct(t, f.db, f.phones, "Phone", "100.00", nil)
	line, err := f.svc.AddLine(ctx, session, &cart.AddLineRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveLine(ctx, session, line.ID))
	require.NoError(t, f.svc.RemoveLine(ctx, session, line.ID))
	require.NoError(t, f.svc.RemoveLine(ctx, "no-cart-yet", line.ID))

	snap, err := f.svc.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestClearAndAttachUser(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p := testutil.FlatProduct(t, f.db, f.phones, "Phone", "100.00", nil)
	_, err := f.svc.AddLine(ctx, session, &cart.AddLineRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	buyer := testutil.User(t, f.db, "buyer@example.com")
	require.NoError(t, f.svc.AttachUser(ctx, session, buyer.ID))

	c, err := f.svc.GetOrCreateCart(ctx, session)
	require.NoError(t, err)
	require.NotNil(t, c.UserID)
	assert.Equal(t, buyer.ID, *c.UserID)

	require.NoError(t, f.svc.Clear(ctx, session))
	snap, err := f.svc.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Zero(t, snap.TotalItems)
}

func TestLineSameItem(t *testing.T) {
	one, two := uint(1), uint(2)
	line := cart.Line{ProductID: 7, SizeVariantID: &one}

	assert.True(t, line.SameItem(7, &one))
	assert.False(t, line.SameItem(7, &two))
	assert.False(t, line.SameItem(7, nil))
	assert.False(t, line.SameItem(8, &one))
	assert.True(t, cart.Line{ProductID: 7}.SameItem(7, nil))
}
