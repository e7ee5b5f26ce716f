package recommendation_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/recommendation"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/logger"
	"github.com/your-org/marketplace-backend/internal/testutil"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	svc    *recommendation.Service
	buyer  uint
	phones product.Category
	cases  product.Category
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	return &fixture{
		db:     db,
		svc:    recommendation.NewService(db, logger.Discard()),
		buyer:  testutil.User(t, db, "buyer@example.com").ID,
		phones: testutil.Category(t, db, "phones", false),
		cases:  testutil.Category(t, db, "cases", false),
	}
}

func (f *fixture) product(t *testing.T, category product.Category, name, price string) product.Product {
	t.Helper()
	return testutil.FlatProduct(t, f.db, category, name, price, nil)
}

func (f *fixture) set(t *testing.T, p product.Product, column string, value interface{}) {
	t.Helper()
	require.NoError(t, f.db.Model(&product.Product{}).Where("id = ?", p.ID).Update(column, value).Error)
}

// placeOrder records one order of the buyer with a single unit of each product
func (f *fixture) placeOrder(t *testing.T, userID uint, products ...product.Product) order.Order {
	t.Helper()
	o := order.Order{
		UserID:          userID,
		Shipping:        order.ShippingInfo{FirstName: "Ivan", LastName: "Petrenko", Email: "ivan@example.com"},
		Status:          order.OrderStatusPending,
		PaymentProvider: order.PaymentVisa,
	}
	for _, p := range products {
		o.Lines = append(o.Lines, order.Line{ProductID: p.ID, ProductName: p.Name, Quantity: 1, Price: p.Price})
		o.TotalPrice = o.TotalPrice.Add(p.Price)
	}
	require.NoError(t, f.db.Create(&o).Error)
	return o
}

func names(products []product.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestSimilar(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	base := f.product(t, f.phones, "Base", "100.00")
	f.set(t, base, "color", "black")
	sameColour := f.product(t, f.phones, "Same colour", "500.00")
	f.set(t, sameColour, "color", "Black")
	closePrice := f.product(t, f.phones, "Close price", "110.00")
	f.set(t, closePrice, "color", "white")
	f.product(t, f.phones, "Far price", "1000.00")
	other := f.product(t, f.cases, "Other category", "100.00")
	f.set(t, other, "color", "black")

	similar, err := f.svc.Similar(ctx, base.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Same colour", "Close price", "Far price"}, names(similar))

	short, err := f.svc.Similar(ctx, base.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Same colour", "Close price"}, names(short))

	pricier, err := f.svc.Upsell(ctx, base.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Close price", "Same colour"}, names(pricier))

	_, err = f.svc.Similar(ctx, 9999, 0)
	var notFound *apperror.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestAlsoBoughtAndBestsellers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	phone := f.product(t, f.phones, "Phone", "100.00")
	charger := f.product(t, f.cases, "Charger", "10.00")
	cover := f.product(t, f.cases, "Cover", "15.00")
	f.product(t, f.cases, "Never sold", "5.00")

	f.placeOrder(t, f.buyer, phone, charger)
	f.placeOrder(t, f.buyer, phone, cover)
	f.placeOrder(t, f.buyer, phone, cover)

	together, err := f.svc.AlsoBought(ctx, phone.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cover", "Charger"}, names(together))

	alone, err := f.svc.AlsoBought(ctx, charger.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Phone"}, names(alone))

	best, err := f.svc.Bestsellers(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Phone", "Cover", "Charger", "Never sold"}, names(best))

	top, err := f.svc.Bestsellers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Phone"}, names(top))
}

func TestTrending(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	viewed := f.product(t, f.phones, "Viewed", "100.00")
	f.set(t, viewed, "views_count", 10)
	selling := f.product(t, f.phones, "Selling", "100.00")
	stale := f.product(t, f.phones, "Stale", "100.00")
	f.set(t, stale, "views_count", 5)

	for i := 0; i < 4; i++ {
		f.placeOrder(t, f.buyer, selling)
	}
	old := f.placeOrder(t, f.buyer, stale, stale, stale)
	require.NoError(t, f.db.Model(&order.Order{}).Where("id = ?", old.ID).
		Update("created_at", time.Now().UTC().AddDate(0, 0, -30)).Error)

	trending, err := f.svc.Trending(ctx, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Selling", "Viewed", "Stale"}, names(trending))

	// A window reaching the old order counts its sales too
	wide, err := f.svc.Trending(ctx, 60, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Stale", "Selling", "Viewed"}, names(wide))
}

func TestStoreWideLists(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first := f.product(t, f.phones, "First", "100.00")
	f.set(t, first, "views_count", 3)
	f.set(t, first, "rating", decimal.RequireFromString("4.50"))
	f.set(t, first, "reviews_count", 4)

	second := f.product(t, f.phones, "Second", "80.00")
	f.set(t, second, "views_count", 7)
	f.set(t, second, "old_price", decimal.RequireFromString("100.00"))
	f.set(t, second, "rating", decimal.RequireFromString("5.00"))
	f.set(t, second, "reviews_count", 1)

	third := f.product(t, f.phones, "Third", "120.00")
	f.set(t, third, "old_price", decimal.RequireFromString("90.00"))
	f.set(t, third, "rating", decimal.RequireFromString("3.00"))
	f.set(t, third, "reviews_count", 9)

	popular, err := f.svc.Popular(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Second", "First", "Third"}, names(popular))

	newest, err := f.svc.New(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Third", "Second"}, names(newest))

	sale, err := f.svc.Sale(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Second"}, names(sale))

	rated, err := f.svc.TopRated(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Third"}, names(rated))
}

func TestForUser(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	bought := f.product(t, f.phones, "Bought", "100.00")
	cheaper := f.product(t, f.phones, "Near price", "120.00")
	f.set(t, cheaper, "rating", decimal.RequireFromString("4.00"))
	best := f.product(t, f.phones, "Near price, best rated", "140.00")
	f.set(t, best, "rating", decimal.RequireFromString("5.00"))
	pricey := f.product(t, f.phones, "Out of budget", "1000.00")
	f.set(t, pricey, "views_count", 10)
	elsewhere := f.product(t, f.cases, "Other category", "100.00")
	f.set(t, elsewhere, "views_count", 50)

	f.placeOrder(t, f.buyer, bought)

	personal, err := f.svc.ForUser(ctx, &f.buyer, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Near price, best rated", "Near price"}, names(personal))

	filled, err := f.svc.ForUser(ctx, &f.buyer, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"Near price, best rated", "Near price", "Other category", "Out of budget"}, names(filled))

	anonymous, err := f.svc.ForUser(ctx, nil, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Other category", "Out of budget", "Bought"}, names(anonymous))
}

func TestCrossSell(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	phone := f.product(t, f.phones, "Phone", "100.00")
	otherPhone := f.product(t, f.phones, "Other phone", "90.00")
	cover := f.product(t, f.cases, "Cover", "15.00")
	charger := f.product(t, f.cases, "Charger", "10.00")
	f.set(t, charger, "views_count", 9)

	f.placeOrder(t, f.buyer, phone, cover)
	f.placeOrder(t, f.buyer, phone, cover)
	f.placeOrder(t, f.buyer, phone, charger)
	f.placeOrder(t, f.buyer, phone, otherPhone)

	withPhone, err := f.svc.CrossSell(ctx, []product.Product{phone}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cover", "Charger"}, names(withPhone))

	// Only same-category products were bought with it, so views decide
	fallback, err := f.svc.CrossSell(ctx, []product.Product{otherPhone}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Charger", "Cover"}, names(fallback))

	empty, err := f.svc.CrossSell(ctx, nil, 1)
	require.NoError(t, err)
	assert.Len(t, empty, 1)
}
