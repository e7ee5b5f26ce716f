// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/validation"
	"gorm.io/gorm"
)

// VariantWriter creates size variants and keeps the cached stock in step
type VariantWriter interface {
	CreateVariant(ctx context.Context, productID, sizeID uint, stock int, actorID *uint) (*SizeVariant, error)
}

// VariantWriterFactory binds a VariantWriter to a transaction
type VariantWriterFactory func(tx *gorm.DB) VariantWriter

// Service handles product business logic
type Service struct {
	db       *gorm.DB
	variants VariantWriterFactory
	logger   *logrus.Logger
}

// NewService creates a new product service
func NewService(db *gorm.DB, variants VariantWriterFactory, logger *logrus.Logger) *Service {
	return &Service{
		db:       db,
		variants: variants,
		logger:   logger,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	Category  string `form:"category"` // category slug
	Search    string `form:"search"`
	InStock   bool   `form:"in_stock"`
	SellerID  *uint  `form:"seller_id"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

// SizeStock is the initial stock of one size on product creation
type SizeStock struct {
	SizeID uint `json:"size_id" validate:"required"`
	Stock  int  `json:"stock" validate:"min=0"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Name        string           `json:"name" validate:"notblank,max=100"`
	CategoryID  uint             `json:"category_id" validate:"required"`
	Color       string           `json:"color" validate:"max=100"`
	Price       decimal.Decimal  `json:"price"`
	OldPrice    *decimal.Decimal `json:"old_price"`
	Description string           `json:"description"`
	MainImage   string           `json:"main_image" validate:"max=500"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
	Sizes       []SizeStock      `json:"sizes" validate:"dive"`
}

// ProductUpdateRequest represents product update data. Stock is managed by
// the inventory endpoints.
type ProductUpdateRequest struct {
	Name        *string          `json:"name" validate:"omitempty,notblank,max=100"`
	Color       *string          `json:"color" validate:"omitempty,max=100"`
	Price       *decimal.Decimal `json:"price"`
	OldPrice    *decimal.Decimal `json:"old_price"`
	Description *string          `json:"description"`
	MainImage   *string          `json:"main_image" validate:"omitempty,max=500"`
}

// ProductResponse represents product response with pagination
type ProductResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(ctx context.Context, req *ProductListRequest) (*ProductResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	db := s.db.WithContext(ctx)
	filter := func(q *gorm.DB) *gorm.DB {
		if req.Category != "" {
			q = q.Where("products.category_id IN (?)", db.Model(&Category{}).Select("id").Where("slug = ?", req.Category))
		}
		if req.SellerID != nil {
			q = q.Where("products.seller_id = ?", *req.SellerID)
		}
		if req.Search != "" {
			search := "%" + strings.ToLower(req.Search) + "%"
			q = q.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", search, search)
		}
		if req.InStock {
			// Sized products carry their cached total; flat ones sell when untracked or positive
			q = q.Where("products.stock IS NULL OR products.stock > 0")
		}
		return q
	}

	var total int64
	if err := db.Model(&Product{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	offset := (req.Page - 1) * req.Limit
	if err := db.Scopes(filter).
		Preload("Category").
		Preload("SizeVariants.Size").
		Order(buildOrderClause(req.SortBy, req.SortOrder)).
		Offset(offset).Limit(req.Limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ProductResponse{
		Products: products,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetProduct retrieves a single product by ID with its category and sizes
func (s *Service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("SizeVariants", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("SizeVariants.Size").
		First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFound("product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &product, nil
}

// ViewProduct returns a product and counts the view
func (s *Service) ViewProduct(ctx context.Context, id uint) (*Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error; err != nil {
		s.logger.WithError(err).WithField("product_id", id).Warn("Failed to count product view")
	} else {
		product.ViewsCount++
	}
	return product, nil
}

// CreateProduct creates a product owned by sellerID. Size-tracked products get
// their variants through the inventory ledger in the same transaction.
func (s *Service) CreateProduct(ctx context.Context, sellerID uint, req *ProductCreateRequest) (*Product, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if !req.Price.IsPositive() {
		return nil, apperror.NewValidation("price", "must be greater than 0")
	}
	if req.OldPrice != nil && req.OldPrice.IsNegative() {
		return nil, apperror.NewValidation("old_price", "must not be negative")
	}

	var created Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category Category
		if err := tx.First(&category, req.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("category", req.CategoryID)
			}
			return fmt.Errorf("failed to load category: %w", err)
		}

		created = Product{
			Name:        strings.TrimSpace(req.Name),
			Slug:        generateSlug(req.Name) + "-" + uuid.NewString()[:8],
			SellerID:    &sellerID,
			CategoryID:  category.ID,
			Color:       req.Color,
			Price:       req.Price.Round(2),
			OldPrice:    req.OldPrice,
			Description: req.Description,
			MainImage:   req.MainImage,
		}

		if category.RequiresSize {
			zero := 0
			created.Stock = &zero
		} else {
			if len(req.Sizes) > 0 {
				return apperror.NewValidation("sizes", "category does not use sizes")
			}
			created.Stock = req.Stock
		}

		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		if category.RequiresSize {
			writer := s.variants(tx)
			for _, size := range req.Sizes {
				if _, err := writer.CreateVariant(ctx, created.ID, size.SizeID, size.Stock, &sellerID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": created.ID,
		"seller_id":  sellerID,
	}).Info("Product created")

	return s.GetProduct(ctx, created.ID)
}

// UpdateProduct updates descriptive fields and price of an owned product
func (s *Service) UpdateProduct(ctx context.Context, id, sellerID uint, req *ProductUpdateRequest) (*Product, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.RequireOwner(ctx, id, sellerID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, apperror.NewValidation("price", "must be greater than 0")
		}
		updates["price"] = req.Price.Round(2)
	}
	if req.OldPrice != nil {
		updates["old_price"] = req.OldPrice.Round(2)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.MainImage != nil {
		updates["main_image"] = *req.MainImage
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct deletes an owned product
func (s *Service) DeleteProduct(ctx context.Context, id, sellerID uint) error {
	if err := s.RequireOwner(ctx, id, sellerID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&Product{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// RequireOwner fails with ForbiddenError unless sellerID owns the product
func (s *Service) RequireOwner(ctx context.Context, productID, sellerID uint) error {
	var product Product
	err := s.db.WithContext(ctx).Select("id", "seller_id").First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFound("product", productID)
	}
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}
	if product.SellerID == nil || *product.SellerID != sellerID {
		return &apperror.ForbiddenError{Message: "you can only manage your own products"}
	}
	return nil
}

// buildOrderClause builds ORDER BY clause for sorting
func buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"name":        true,
		"price":       true,
		"rating":      true,
		"created_at":  true,
		"views_count": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("products.%s %s, products.id %s", sortBy, sortOrder, sortOrder)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// generateSlug generates URL-friendly slug from name
func generateSlug(name string) string {
	slug := nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "product"
	}
	if len(slug) > 80 {
		slug = slug[:80]
	}
	return slug
}
