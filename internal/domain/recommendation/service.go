// internal/domain/recommendation/service.go
package recommendation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// MaxLimit caps every recommendation list
const MaxLimit = 50

// Default list sizes per kind
const (
	DefaultListLimit     = 12
	DefaultSimilarLimit  = 8
	DefaultAlsoBought    = 6
	DefaultUpsellLimit   = 4
	DefaultCrossSell     = 4
	DefaultTrendingDays  = 7
	DefaultMinReviews    = 3
	defaultBuyerAvgPrice = 500
)

var (
	similarPriceBand  = decimal.NewFromFloat(0.3)
	personalPriceBand = decimal.NewFromFloat(0.5)
)

// Service builds product recommendations from the catalog and from sales
// recorded in order lines
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new recommendation service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// Query carries the optional knobs of a recommendation list
type Query struct {
	Limit      int `form:"limit"`
	Days       int `form:"days"`
	MinReviews int `form:"min_reviews"`
}

// Similar returns products of the same category: same colour first (up to
// half the list), then products priced within 30% of it, then the rest of
// the category.
func (s *Service) Similar(ctx context.Context, productID uint, limit int) ([]product.Product, error) {
	limit = clampLimit(limit, DefaultSimilarLimit)

	base, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}

	sameCategory := func(exclude []uint) *gorm.DB {
		q := s.db.WithContext(ctx).Preload("Category").
			Where("category_id = ? AND id <> ?", base.CategoryID, base.ID)
		if len(exclude) > 0 {
			q = q.Where("id NOT IN ?", exclude)
		}
		return q.Order("id ASC")
	}

	var results []product.Product
	if base.Color != "" {
		if err := sameCategory(nil).
			Where("LOWER(color) = LOWER(?)", base.Color).
			Limit(limit / 2).
			Find(&results).Error; err != nil {
			return nil, fmt.Errorf("failed to find same colour products: %w", err)
		}
	}

	low := base.Price.Mul(decimal.NewFromInt(1).Sub(similarPriceBand))
	high := base.Price.Mul(decimal.NewFromInt(1).Add(similarPriceBand))
	if remaining := limit - len(results); remaining > 0 {
		var priced []product.Product
		if err := sameCategory(ids(results)).
			Where("price >= ? AND price <= ?", low, high).
			Limit(remaining).
			Find(&priced).Error; err != nil {
			return nil, fmt.Errorf("failed to find similarly priced products: %w", err)
		}
		results = append(results, priced...)
	}

	if remaining := limit - len(results); remaining > 0 {
		var rest []product.Product
		if err := sameCategory(ids(results)).Limit(remaining).Find(&rest).Error; err != nil {
			return nil, fmt.Errorf("failed to find category products: %w", err)
		}
		results = append(results, rest...)
	}

	return results, nil
}

// AlsoBought returns the products most often ordered together with productID
func (s *Service) AlsoBought(ctx context.Context, productID uint, limit int) ([]product.Product, error) {
	limit = clampLimit(limit, DefaultAlsoBought)

	if _, err := s.product(ctx, productID); err != nil {
		return nil, err
	}

	var ranked []uint
	if err := s.db.WithContext(ctx).Raw(`
		SELECT product_id
		FROM order_items
		WHERE order_id IN (SELECT order_id FROM order_items WHERE product_id = ?)
		  AND product_id <> ?
		GROUP BY product_id
		ORDER BY COUNT(*) DESC, product_id ASC
		LIMIT ?
	`, productID, productID, limit).Scan(&ranked).Error; err != nil {
		return nil, fmt.Errorf("failed to rank products bought together: %w", err)
	}

	return s.inOrder(ctx, ranked)
}

// Upsell returns pricier products of the same category, cheapest first
func (s *Service) Upsell(ctx context.Context, productID uint, limit int) ([]product.Product, error) {
	limit = clampLimit(limit, DefaultUpsellLimit)

	base, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}

	var products []product.Product
	if err := s.db.WithContext(ctx).Preload("Category").
		Where("category_id = ? AND id <> ? AND price > ?", base.CategoryID, base.ID, base.Price).
		Order("price ASC, id ASC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find upsell products: %w", err)
	}
	return products, nil
}

// Bestsellers ranks every product by the number of order lines naming it
func (s *Service) Bestsellers(ctx context.Context, limit int) ([]product.Product, error) {
	limit = clampLimit(limit, DefaultListLimit)

	var ranked []uint
	if err := s.db.WithContext(ctx).Raw(`
		SELECT products.id
		FROM products
		LEFT JOIN order_items ON order_items.product_id = products.id
		GROUP BY products.id
		ORDER BY COUNT(order_items.id) DESC, products.id ASC
		LIMIT ?
	`, limit).Scan(&ranked).Error; err != nil {
		return nil, fmt.Errorf("failed to rank bestsellers: %w", err)
	}

	return s.inOrder(ctx, ranked)
}

// Trending scores products by recent sales (times three) plus views
func (s *Service) Trending(ctx context.Context, days, limit int) ([]product.Product, error) {
	limit = clampLimit(limit, DefaultListLimit)
	if days <= 0 {
		days = DefaultTrendingDays
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	var ranked []uint
	if err := s.db.WithContext(ctx).Raw(`
		SELECT products.id
		FROM products
		LEFT JOIN (
			SELECT order_items.product_id, COUNT(*) AS sales
			FROM order_items
			JOIN orders ON orders.id = order_items.order_id
			WHERE orders.created_at >= ?
			GROUP BY order_items.product_id
		) recent ON recent.product_id = products.id
		ORDER BY COALESCE(recent.sales, 0) * 3 + products.views_count DESC, products.id ASC
		LIMIT ?
	`, since, limit).Scan(&ranked).Error; err != nil {
		return nil, fmt.Errorf("failed to rank trending products: %w", err)
	}

	return s.inOrder(ctx, ranked)
}

// TopRated returns products with at least minReviews reviews, best rated first
func (s *Service) TopRated(ctx context.Context, minReviews, limit int) ([]product.Product, error) {
	limit = clampLimit(limit, DefaultListLimit)
	if minReviews <= 0 {
		minReviews = DefaultMinReviews
	}

	return s.list(ctx, limit, "rating DESC, reviews_count DESC, id ASC", "reviews_count >= ?", minReviews)
}

// Popular returns the most viewed products
func (s *Service) Popular(ctx context.Context, limit int) ([]product.Product, error) {
	return s.list(ctx, clampLimit(limit, DefaultListLimit), "views_count DESC, id ASC", "")
}

// New returns the most recently added products
func (s *Service) New(ctx context.Context, limit int) ([]product.Product, error) {
	return s.list(ctx, clampLimit(limit, DefaultListLimit), "created_at DESC, id DESC", "")
}

// Sale returns products whose old price is above the current one
func (s *Service) Sale(ctx context.Context, limit int) ([]product.Product, error) {
	return s.list(ctx, clampLimit(limit, DefaultListLimit), "id ASC", "old_price IS NOT NULL AND old_price > price")
}

// ForUser recommends unbought products from the categories a user has
// bought in, priced within 50% of their average purchase. Anonymous callers
// and short lists are filled up with trending products.
func (s *Service) ForUser(ctx context.Context, userID *uint, limit int) ([]product.Product, error) {
	limit = clampLimit(limit, DefaultListLimit)
	if userID == nil {
		return s.Trending(ctx, DefaultTrendingDays, limit)
	}

	db := s.db.WithContext(ctx)

	var purchased []uint
	if err := db.Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ?", *userID).
		Distinct().
		Pluck("order_items.product_id", &purchased).Error; err != nil {
		return nil, fmt.Errorf("failed to load purchased products: %w", err)
	}

	var results []product.Product
	if len(purchased) > 0 {
		var categories []uint
		if err := db.Model(&product.Product{}).
			Where("id IN ?", purchased).
			Distinct().
			Pluck("category_id", &categories).Error; err != nil {
			return nil, fmt.Errorf("failed to load purchased categories: %w", err)
		}

		var spent struct {
			Avg decimal.NullDecimal
		}
		if err := db.Table("order_items").
			Select("AVG(products.price) AS avg").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("orders.user_id = ?", *userID).
			Scan(&spent).Error; err != nil {
			return nil, fmt.Errorf("failed to average purchase price: %w", err)
		}
		center := decimal.NewFromInt(defaultBuyerAvgPrice)
		if spent.Avg.Valid {
			center = spent.Avg.Decimal
		}
		low := center.Mul(decimal.NewFromInt(1).Sub(personalPriceBand))
		high := center.Mul(decimal.NewFromInt(1).Add(personalPriceBand))

		if err := db.Preload("Category").
			Where("category_id IN ? AND id NOT IN ?", categories, purchased).
			Where("price >= ? AND price <= ?", low, high).
			Order("rating DESC, views_count DESC, id ASC").
			Limit(limit).
			Find(&results).Error; err != nil {
			return nil, fmt.Errorf("failed to find personal recommendations: %w", err)
		}
	}

	if len(results) < limit {
		trending, err := s.Trending(ctx, DefaultTrendingDays, MaxLimit)
		if err != nil {
			return nil, err
		}
		skip := make(map[uint]bool, len(results)+len(purchased))
		for _, id := range purchased {
			skip[id] = true
		}
		for _, p := range results {
			skip[p.ID] = true
		}
		for _, p := range trending {
			if len(results) == limit {
				break
			}
			if !skip[p.ID] {
				results = append(results, p)
			}
		}
	}

	return results, nil
}

// CrossSell suggests products from other categories that were ordered
// together with the given cart products. Without sales data it falls back to
// the most viewed products outside the cart's categories, and an empty cart
// gets trending products.
func (s *Service) CrossSell(ctx context.Context, cartProducts []product.Product, limit int) ([]product.Product, error) {
	limit = clampLimit(limit, DefaultCrossSell)
	if len(cartProducts) == 0 {
		return s.Trending(ctx, DefaultTrendingDays, limit)
	}

	productIDs := ids(cartProducts)
	categoryIDs := make([]uint, 0, len(cartProducts))
	for _, p := range cartProducts {
		categoryIDs = append(categoryIDs, p.CategoryID)
	}

	var ranked []uint
	if err := s.db.WithContext(ctx).Raw(`
		SELECT order_items.product_id
		FROM order_items
		JOIN products ON products.id = order_items.product_id
		WHERE order_items.order_id IN (SELECT order_id FROM order_items WHERE product_id IN ?)
		  AND order_items.product_id NOT IN ?
		  AND products.category_id NOT IN ?
		GROUP BY order_items.product_id
		ORDER BY COUNT(*) DESC, order_items.product_id ASC
		LIMIT ?
	`, productIDs, productIDs, categoryIDs, limit).Scan(&ranked).Error; err != nil {
		return nil, fmt.Errorf("failed to rank cross-sell products: %w", err)
	}
	if len(ranked) > 0 {
		return s.inOrder(ctx, ranked)
	}

	return s.list(ctx, limit, "views_count DESC, id ASC", "category_id NOT IN ?", categoryIDs)
}

// Private helpers

func (s *Service) product(ctx context.Context, id uint) (*product.Product, error) {
	var p product.Product
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFound("product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &p, nil
}

func (s *Service) list(ctx context.Context, limit int, order, where string, args ...interface{}) ([]product.Product, error) {
	q := s.db.WithContext(ctx).Preload("Category")
	if where != "" {
		q = q.Where(where, args...)
	}

	var products []product.Product
	if err := q.Order(order).Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// inOrder loads products by id and returns them in the order of ranked
func (s *Service) inOrder(ctx context.Context, ranked []uint) ([]product.Product, error) {
	if len(ranked) == 0 {
		return []product.Product{}, nil
	}

	var found []product.Product
	if err := s.db.WithContext(ctx).Preload("Category").Where("id IN ?", ranked).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to load ranked products: %w", err)
	}

	byID := make(map[uint]product.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]product.Product, 0, len(ranked))
	for _, id := range ranked {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func ids(products []product.Product) []uint {
	out := make([]uint, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
