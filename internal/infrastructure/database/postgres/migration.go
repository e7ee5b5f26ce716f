// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/domain/audit"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/inventory"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		// User domain
		&user.User{},

		// Catalog
		&product.Category{},
		&product.Size{},
		&product.Product{},
		&product.SizeVariant{},
		&product.Review{},

		// Inventory ledger
		&inventory.StockMovement{},

		// Cart domain
		&cart.Cart{},
		&cart.Line{},

		// Order domain
		&order.Order{},
		&order.Line{},
		&order.StatusHistory{},

		// Audit
		&audit.ActionLog{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	for _, model := range Models() {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category_created ON products(category_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_rating ON products(rating DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_seller_created ON products(seller_id, created_at DESC)",

		// Size stock indexes
		"CREATE INDEX IF NOT EXISTS idx_product_sizes_in_stock ON product_sizes(product_id, id) WHERE stock > 0",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_cart_product ON cart_items(cart_id, product_id)",
		"CREATE INDEX IF NOT EXISTS idx_carts_updated_at ON carts(updated_at)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at)",

		// Ledger and audit indexes
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_product_created ON stock_movements(product_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_reference ON stock_movements(reference_type, reference_id)",
		"CREATE INDEX IF NOT EXISTS idx_action_logs_user_created ON action_logs(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_action_logs_action_created ON action_logs(action_type, created_at DESC)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			log.Printf("⚠️ Warning: Failed to create index: %s - Error: %v", index, err)
		}
	}

	log.Println("✅ Additional database indexes created successfully")
	return nil
}

// SeedInitialData seeds the database with initial data
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	var count int64
	if err := m.db.Model(&product.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing data: %w", err)
	}
	if count > 0 {
		log.Println("ℹ️ Catalog already seeded, skipping")
		return nil
	}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		steps := []func(*gorm.DB) error{
			seedCategories,
			seedSizes,
			seedUsers,
			seedProducts,
		}
		for _, step := range steps {
			if err := step(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// GetTableInfo logs row counts of the main tables
func (m *Migration) GetTableInfo() error {
	tables := []string{"users", "categories", "products", "product_sizes", "carts", "cart_items", "orders", "order_items", "stock_movements"}

	log.Println("📊 Database table information:")
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			log.Printf("  %s: error (%v)", table, err)
			continue
		}
		log.Printf("  %s: %d rows", table, count)
	}
	return nil
}

func seedCategories(tx *gorm.DB) error {
	categories := []product.Category{
		{Name: "Smartphones", Slug: "smartphones"},
		{Name: "Laptops", Slug: "laptops"},
		{Name: "Clothing", Slug: "clothing", RequiresSize: true},
		{Name: "Shoes", Slug: "shoes", RequiresSize: true},
		{Name: "Gift Cards", Slug: "gift-cards"},
	}
	if err := tx.Create(&categories).Error; err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	log.Printf("✅ Seeded %d categories", len(categories))
	return nil
}

func seedSizes(tx *gorm.DB) error {
	sizes := []product.Size{
		{Name: "S"}, {Name: "M"}, {Name: "L"}, {Name: "XL"},
		{Name: "40"}, {Name: "41"}, {Name: "42"}, {Name: "43"},
	}
	if err := tx.Create(&sizes).Error; err != nil {
		return fmt.Errorf("failed to seed sizes: %w", err)
	}
	return nil
}

func seedUsers(tx *gorm.DB) error {
	users := []struct {
		email, password, first, last string
		admin, seller                bool
	}{
		{"admin@example.com", "Admin12345", "Admin", "User", true, false},
		{"seller@example.com", "Seller12345", "Store", "Owner", false, true},
		{"buyer@example.com", "Buyer12345", "Test", "Buyer", false, false},
	}

	for _, u := range users {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		record := user.User{
			Email:     u.email,
			Password:  string(hashed),
			FirstName: u.first,
			LastName:  u.last,
			IsActive:  true,
			IsAdmin:   u.admin,
			IsSeller:  u.seller,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.email, err)
		}
		log.Printf("✅ Seeded user: %s", u.email)
	}
	return nil
}

func seedProducts(tx *gorm.DB) error {
	var seller user.User
	if err := tx.Where("email = ?", "seller@example.com").First(&seller).Error; err != nil {
		return fmt.Errorf("failed to find seed seller: %w", err)
	}

	categoryID := func(slug string) (uint, error) {
		var c product.Category
		if err := tx.Where("slug = ?", slug).First(&c).Error; err != nil {
			return 0, fmt.Errorf("failed to find category %s: %w", slug, err)
		}
		return c.ID, nil
	}
	sizeID := func(name string) (uint, error) {
		var s product.Size
		if err := tx.Where("name = ?", name).First(&s).Error; err != nil {
			return 0, fmt.Errorf("failed to find size %s: %w", name, err)
		}
		return s.ID, nil
	}
	intPtr := func(v int) *int { return &v }

	seeds := []struct {
		name, slug, category, color, price string
		stock                              *int
		sizes                              map[string]int
	}{
		{name: "Phone X 128GB", slug: "phone-x-128gb", category: "smartphones", color: "Black", price: "49999.00", stock: intPtr(12)},
		{name: "Phone Lite", slug: "phone-lite", category: "smartphones", color: "White", price: "39999.00", stock: intPtr(5)},
		{name: "Ultrabook 14", slug: "ultrabook-14", category: "laptops", color: "Silver", price: "64999.00", stock: intPtr(3)},
		{name: "Cotton T-Shirt", slug: "cotton-t-shirt", category: "clothing", color: "Blue", price: "799.00", sizes: map[string]int{"S": 4, "M": 6, "L": 0}},
		{name: "Running Shoes", slug: "running-shoes", category: "shoes", color: "Red", price: "3499.00", sizes: map[string]int{"41": 2, "42": 5}},
		{name: "Gift Card 500", slug: "gift-card-500", category: "gift-cards", price: "500.00"},
	}

	for _, seed := range seeds {
		catID, err := categoryID(seed.category)
		if err != nil {
			return err
		}
		price, err := decimal.NewFromString(seed.price)
		if err != nil {
			return fmt.Errorf("invalid seed price %s: %w", seed.price, err)
		}

		p := product.Product{
			Name:       seed.name,
			Slug:       seed.slug,
			SellerID:   &seller.ID,
			CategoryID: catID,
			Color:      seed.color,
			Price:      price,
			Stock:      seed.stock,
		}
		if seed.sizes != nil {
			p.Stock = intPtr(0)
		}
		if err := tx.Create(&p).Error; err != nil {
			return fmt.Errorf("failed to seed product %s: %w", seed.name, err)
		}

		total := 0
		for name, qty := range seed.sizes {
			sid, err := sizeID(name)
			if err != nil {
				return err
			}
			variant := product.SizeVariant{ProductID: p.ID, SizeID: sid, Stock: qty}
			if err := tx.Create(&variant).Error; err != nil {
				return fmt.Errorf("failed to seed size %s of %s: %w", name, seed.name, err)
			}
			total += qty
		}
		if seed.sizes != nil {
			if err := tx.Model(&p).Update("stock", total).Error; err != nil {
				return fmt.Errorf("failed to cache stock of %s: %w", seed.name, err)
			}
		}
	}

	log.Printf("✅ Seeded %d products", len(seeds))
	return nil
}
