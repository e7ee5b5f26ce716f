// internal/domain/product/review_dto.go
package product

// Review DTOs and Request/Response structures

// CreateReviewRequest represents the request to create a review
type CreateReviewRequest struct {
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Title         string `json:"title" validate:"max=200"`
	Text          string `json:"text" validate:"max=5000"`
	Advantages    string `json:"advantages" validate:"max=2000"`
	Disadvantages string `json:"disadvantages" validate:"max=2000"`
}

// UpdateReviewRequest represents the request to update a review
type UpdateReviewRequest struct {
	Rating        *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Title         *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Text          *string `json:"text,omitempty" validate:"omitempty,max=5000"`
	Advantages    *string `json:"advantages,omitempty" validate:"omitempty,max=2000"`
	Disadvantages *string `json:"disadvantages,omitempty" validate:"omitempty,max=2000"`
}

// ReviewListRequest represents query parameters for listing reviews
type ReviewListRequest struct {
	Rating   int    `form:"rating"`
	Ordering string `form:"ordering"` // newest, oldest, rating_high, rating_low, helpful
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// ReviewSummary represents review statistics for a product
type ReviewSummary struct {
	TotalReviews       int         `json:"total_reviews"`
	AverageRating      float64     `json:"average_rating"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}

// ReviewListResponse represents paginated review list response
type ReviewListResponse struct {
	Reviews    []Review      `json:"reviews"`
	Summary    ReviewSummary `json:"summary"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
}
