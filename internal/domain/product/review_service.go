// internal/domain/product/review_service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/validation"
	"gorm.io/gorm"
)

// PurchaseVerifier answers whether a user has received a product
type PurchaseVerifier interface {
	HasDeliveredPurchase(ctx context.Context, userID, productID uint) (bool, error)
}

// ReviewService handles review business logic
type ReviewService struct {
	db        *gorm.DB
	purchases PurchaseVerifier
	logger    *logrus.Logger
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB, purchases PurchaseVerifier, logger *logrus.Logger) *ReviewService {
	return &ReviewService{
		db:        db,
		purchases: purchases,
		logger:    logger,
	}
}

// CreateReview creates a new product review
func (s *ReviewService) CreateReview(ctx context.Context, productID, userID uint, req *CreateReviewRequest) (*Review, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	verified, err := s.purchases.HasDeliveredPurchase(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check purchase: %w", err)
	}

	review := Review{
		ProductID:          productID,
		UserID:             userID,
		Rating:             req.Rating,
		Title:              strings.TrimSpace(req.Title),
		Text:               strings.TrimSpace(req.Text),
		Advantages:         strings.TrimSpace(req.Advantages),
		Disadvantages:      strings.TrimSpace(req.Disadvantages),
		IsVerifiedPurchase: verified,
		IsApproved:         true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to load product: %w", err)
		}
		if count == 0 {
			return apperror.NewNotFound("product", productID)
		}

		if err := tx.Model(&Review{}).Where("product_id = ? AND user_id = ?", productID, userID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing review: %w", err)
		}
		if count > 0 {
			return &apperror.ConflictError{Message: "you have already reviewed this product"}
		}

		if err := tx.Create(&review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		return updateRating(tx, productID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"review_id":  review.ID,
		"product_id": productID,
		"verified":   verified,
	}).Info("Review created")

	return &review, nil
}

// UpdateReview updates a review owned by userID
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, userID uint, req *UpdateReviewRequest) (*Review, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var review Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findOwnReview(tx, reviewID, userID, &review); err != nil {
			return err
		}

		if req.Rating != nil {
			review.Rating = *req.Rating
		}
		if req.Title != nil {
			review.Title = strings.TrimSpace(*req.Title)
		}
		if req.Text != nil {
			review.Text = strings.TrimSpace(*req.Text)
		}
		if req.Advantages != nil {
			review.Advantages = strings.TrimSpace(*req.Advantages)
		}
		if req.Disadvantages != nil {
			review.Disadvantages = strings.TrimSpace(*req.Disadvantages)
		}

		if err := tx.Save(&review).Error; err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}
		return updateRating(tx, review.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview deletes a review owned by userID
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review Review
		if err := findOwnReview(tx, reviewID, userID, &review); err != nil {
			return err
		}
		if err := tx.Delete(&review).Error; err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		return updateRating(tx, review.ProductID)
	})
}

// GetReviews lists the approved reviews of a product
func (s *ReviewService) GetReviews(ctx context.Context, productID uint, req *ReviewListRequest) (*ReviewListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Review{}).
		Where("product_id = ? AND is_approved = ?", productID, true)
	if req.Rating >= 1 && req.Rating <= 5 {
		query = query.Where("rating = ?", req.Rating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	var reviews []Review
	offset := (req.Page - 1) * req.Limit
	if err := query.Order(reviewOrdering(req.Ordering)).Offset(offset).Limit(req.Limit).Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}

	summary, err := s.GetReviewSummary(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &ReviewListResponse{
		Reviews:    reviews,
		Summary:    *summary,
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(req.Limit))),
	}, nil
}

// GetReviewSummary returns the rating statistics of a product's approved reviews
func (s *ReviewService) GetReviewSummary(ctx context.Context, productID uint) (*ReviewSummary, error) {
	var rows []struct {
		Rating int
		Count  int
	}
	if err := s.db.WithContext(ctx).Model(&Review{}).
		Select("rating, COUNT(*) AS count").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Group("rating").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to summarise reviews: %w", err)
	}

	summary := &ReviewSummary{RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	sum := 0
	for _, row := range rows {
		summary.RatingDistribution[row.Rating] = row.Count
		summary.TotalReviews += row.Count
		sum += row.Rating * row.Count
	}
	if summary.TotalReviews > 0 {
		summary.AverageRating = math.Round(float64(sum)/float64(summary.TotalReviews)*100) / 100
	}
	return summary, nil
}

// Private helper methods

func findOwnReview(tx *gorm.DB, reviewID, userID uint, review *Review) error {
	err := tx.First(review, reviewID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFound("review", reviewID)
	}
	if err != nil {
		return fmt.Errorf("failed to load review: %w", err)
	}
	if review.UserID != userID {
		return &apperror.ForbiddenError{Message: "you can only change your own review"}
	}
	return nil
}

// updateRating stores the average of approved reviews on the product
func updateRating(tx *gorm.DB, productID uint) error {
	var agg struct {
		Avg   float64
		Count int
	}
	if err := tx.Model(&Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Scan(&agg).Error; err != nil {
		return fmt.Errorf("failed to aggregate rating: %w", err)
	}

	return tx.Model(&Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"rating":        decimal.NewFromFloat(agg.Avg).Round(2),
		"reviews_count": agg.Count,
	}).Error
}

func reviewOrdering(ordering string) string {
	switch ordering {
	case "oldest":
		return "created_at ASC, id ASC"
	case "rating_high":
		return "rating DESC, created_at DESC"
	case "rating_low":
		return "rating ASC, created_at DESC"
	case "helpful":
		return "helpful_count DESC, created_at DESC"
	default:
		return "created_at DESC, id DESC"
	}
}
