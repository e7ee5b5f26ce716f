// internal/domain/product/category_service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/validation"
	"gorm.io/gorm"
)

// CategoryService handles categories and the size dictionary
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{
		db: db,
	}
}

// CategoryCreateRequest represents category creation data
type CategoryCreateRequest struct {
	Name         string `json:"name" validate:"notblank,max=100"`
	RequiresSize bool   `json:"requires_size"`
}

// SizeCreateRequest represents size creation data
type SizeCreateRequest struct {
	Name string `json:"name" validate:"notblank,max=20"`
}

// CategoryWithProductCount represents category with product count
type CategoryWithProductCount struct {
	Category
	ProductCount int64 `json:"product_count"`
}

// GetCategories retrieves all categories with their product counts
func (s *CategoryService) GetCategories(ctx context.Context) ([]CategoryWithProductCount, error) {
	var categories []CategoryWithProductCount
	err := s.db.WithContext(ctx).Model(&Category{}).
		Select("categories.*, (SELECT COUNT(*) FROM products WHERE products.category_id = categories.id) AS product_count").
		Order("categories.name ASC").
		Scan(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// GetCategoryBySlug retrieves a single category by slug
func (s *CategoryService) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewNotFound("category", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}
	return &category, nil
}

// CreateCategory creates a category; its RequiresSize flag fixes how stock of
// its products is tracked
func (s *CategoryService) CreateCategory(ctx context.Context, req *CategoryCreateRequest) (*Category, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	category := Category{
		Name:         strings.TrimSpace(req.Name),
		Slug:         generateSlug(req.Name),
		RequiresSize: req.RequiresSize,
	}

	db := s.db.WithContext(ctx)
	var existing int64
	if err := db.Model(&Category{}).Where("slug = ?", category.Slug).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check category slug: %w", err)
	}
	if existing > 0 {
		return nil, &apperror.ConflictError{Message: fmt.Sprintf("category %q already exists", category.Slug)}
	}

	if err := db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

// GetSizes lists every known size
func (s *CategoryService) GetSizes(ctx context.Context) ([]Size, error) {
	var sizes []Size
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&sizes).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve sizes: %w", err)
	}
	return sizes, nil
}

// CreateSize adds a size to the dictionary
func (s *CategoryService) CreateSize(ctx context.Context, req *SizeCreateRequest) (*Size, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	size := Size{Name: strings.ToUpper(strings.TrimSpace(req.Name))}
	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&Size{}).Where("name = ?", size.Name).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check size: %w", err)
	}
	if existing > 0 {
		return nil, &apperror.ConflictError{Message: fmt.Sprintf("size %s already exists", size.Name)}
	}

	if err := db.Create(&size).Error; err != nil {
		return nil, fmt.Errorf("failed to create size: %w", err)
	}
	return &size, nil
}
