// internal/services/review_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopverse/ecommerce-backend/internal/models"
	"github.com/shopverse/ecommerce-backend/internal/utils"
)

type ReviewService struct {
	db *gorm.DB
}

type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required"`
	Comment   string    `json:"comment,omitempty"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// CreateReview adds the user's review of a product. One review per user per
// product; the product's aggregate is recomputed before the commit.
func (s *ReviewService) CreateReview(userID uuid.UUID, req *CreateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		var count int64
		if err := tx.Model(&models.Review{}).
			Where("user_id = ? AND product_id = ?", userID, req.ProductID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if count > 0 {
			return ErrDuplicateReview
		}

		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		return recomputeProductRating(tx, req.ProductID)
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}

func (s *ReviewService) UpdateReview(userID, reviewID uuid.UUID, req *UpdateReviewRequest) (*models.Review, error) {
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, ErrInvalidRating
	}

	var review models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", reviewID, userID).
			First(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		updates := make(map[string]interface{})
		if req.Rating != nil {
			updates["rating"] = *req.Rating
			review.Rating = *req.Rating
		}
		if req.Comment != nil {
			updates["comment"] = *req.Comment
			review.Comment = *req.Comment
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&review).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}

		return recomputeProductRating(tx, review.ProductID)
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

func (s *ReviewService) DeleteReview(userID, reviewID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.Where("id = ? AND user_id = ?", reviewID, userID).
			First(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Unscoped().Delete(&review).Error; err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}

		return recomputeProductRating(tx, review.ProductID)
	})
}

func (s *ReviewService) ListByProduct(productID uuid.UUID, params utils.PaginationParams) ([]models.Review, int64, error) {
	query := s.db.Model(&models.Review{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	allowedSortFields := []string{"created_at", "rating"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	return reviews, total, nil
}

// recomputeProductRating folds the current review rows into the product's
// rating and review_count. Always a full recomputation, never an incremental
// delta, so a missed earlier update cannot cause drift.
func recomputeProductRating(tx *gorm.DB, productID uuid.UUID) error {
	var agg struct {
		Count int64
		Sum   int64
	}
	if err := tx.Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
		Where("product_id = ?", productID).
		Scan(&agg).Error; err != nil {
		return fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	rating := decimal.Zero
	if agg.Count > 0 {
		rating = decimal.NewFromInt(agg.Sum).
			Div(decimal.NewFromInt(agg.Count)).
			Round(1)
	}

	if err := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating":       rating,
			"review_count": agg.Count,
		}).Error; err != nil {
		return fmt.Errorf("failed to update product rating: %w", err)
	}
	return nil
}
