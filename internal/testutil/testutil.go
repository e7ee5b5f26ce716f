// Package testutil opens throwaway databases and builds catalog fixtures for
// package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/infrastructure/database/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// OpenDB returns a migrated in-memory database private to the test
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(postgres.Models()...))
	return db
}

// Config returns a valid configuration with the given oversell policy
func Config(policy string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Marketplace Test", Environment: "test"},
		JWT: config.JWTConfig{
			Secret:             "test-secret-test-secret-test-secret-1234",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{
			BcryptCost:         4,
			RateLimitPerMinute: 1000,
			SessionCookieName:  "session_id",
			SessionCookieTTL:   time.Hour,
		},
		Checkout: config.CheckoutConfig{OversellPolicy: policy, Currency: "UAH"},
		Invoice:  config.InvoiceConfig{CompanyName: "Marketplace"},
		Logging:  config.LoggingConfig{Level: "error", Format: "text"},
	}
}

// Price parses a decimal literal
func Price(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int { return &v }

// Category creates a category
func Category(t *testing.T, db *gorm.DB, slug string, requiresSize bool) product.Category {
	t.Helper()
	c := product.Category{Name: strings.ToUpper(slug[:1]) + slug[1:], Slug: slug, RequiresSize: requiresSize}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// Size creates a size
func Size(t *testing.T, db *gorm.DB, name string) product.Size {
	t.Helper()
	s := product.Size{Name: name}
	require.NoError(t, db.Create(&s).Error)
	return s
}

// FlatProduct creates a product outside size-tracked categories. A nil stock
// leaves the product untracked.
func FlatProduct(t *testing.T, db *gorm.DB, category product.Category, name, price string, stock *int) product.Product {
	t.Helper()
	p := product.Product{
		Name:       name,
		Slug:       fmt.Sprintf("%s-%d", strings.ToLower(strings.ReplaceAll(name, " ", "-")), dbSeq.Add(1)),
		CategoryID: category.ID,
		Price:      Price(t, price),
		Stock:      stock,
	}
	require.NoError(t, db.Create(&p).Error)
	p.Category = category
	return p
}

// SizedProduct creates a size-tracked product with one variant per entry of
// stocks, in the given size order, and caches their total.
func SizedProduct(t *testing.T, db *gorm.DB, category product.Category, name, price string, sizes []product.Size, stocks []int) product.Product {
	t.Helper()
	require.Len(t, stocks, len(sizes))

	total := 0
	p := FlatProduct(t, db, category, name, price, IntPtr(0))
	for i, size := range sizes {
		v := product.SizeVariant{ProductID: p.ID, SizeID: size.ID, Stock: stocks[i]}
		require.NoError(t, db.Create(&v).Error)
		v.Size = size
		p.SizeVariants = append(p.SizeVariants, v)
		total += stocks[i]
	}
	require.NoError(t, db.Model(&product.Product{}).Where("id = ?", p.ID).Update("stock", total).Error)
	p.Stock = IntPtr(total)
	return p
}

// User creates an active user with an unusable password
func User(t *testing.T, db *gorm.DB, email string) user.User {
	t.Helper()
	u := user.User{
		Email:     email,
		Password:  "not-a-bcrypt-hash",
		FirstName: "Test",
		LastName:  "Buyer",
		IsActive:  true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// FlatStock reads the stored stock of a product
func FlatStock(t *testing.T, db *gorm.DB, productID uint) *int {
	t.Helper()
	var p product.Product
	require.NoError(t, db.Select("id", "stock").First(&p, productID).Error)
	return p.Stock
}

// VariantStock reads the stored stock of a size variant
func VariantStock(t *testing.T, db *gorm.DB, variantID uint) int {
	t.Helper()
	var v product.SizeVariant
	require.NoError(t, db.First(&v, variantID).Error)
	return v.Stock
}
