// internal/services/review_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shopverse/ecommerce-backend/internal/models"
)

type ReviewServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ReviewService
	product *models.Product
}

func (s *ReviewServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.service = NewReviewService(s.db)
	s.product = createTestProduct(s.T(), s.db, "Keyboard", "49.99", 10)
}

func (s *ReviewServiceTestSuite) review(user *models.User, rating int) *models.Review {
	review, err := s.service.CreateReview(user.ID, &CreateReviewRequest{
		ProductID: s.product.ID,
		Rating:    rating,
		Comment:   "solid",
	})
	s.Require().NoError(err)
	return review
}

func (s *ReviewServiceTestSuite) assertAggregate(rating string, count int64) {
	var reloaded models.Product
	s.Require().NoError(s.db.First(&reloaded, s.product.ID).Error)
	s.True(reloaded.Rating.Equal(decimal.RequireFromString(rating)),
		"rating = %s, want %s", reloaded.Rating, rating)
	s.Equal(count, reloaded.ReviewCount)
}

func (s *ReviewServiceTestSuite) TestAggregateOverSeveralReviews() {
	for _, rating := range []int{5, 4, 3} {
		s.review(createTestUser(s.T(), s.db), rating)
	}
	s.assertAggregate("4.0", 3)
}

func (s *ReviewServiceTestSuite) TestAggregateRoundsToOneDecimal() {
	for _, rating := range []int{5, 4, 4} {
		s.review(createTestUser(s.T(), s.db), rating)
	}
	// 13/3 = 4.333...
	s.assertAggregate("4.3", 3)
}

func (s *ReviewServiceTestSuite) TestDeleteRecomputesAggregate() {
	var toDelete *models.Review
	var author *models.User
	for _, rating := range []int{5, 4, 3} {
		user := createTestUser(s.T(), s.db)
		review := s.review(user, rating)
		if rating == 3 {
			toDelete, author = review, user
		}
	}

	s.Require().NoError(s.service.DeleteReview(author.ID, toDelete.ID))
	s.assertAggregate("4.5", 2)
}

func (s *ReviewServiceTestSuite) TestDeleteLastReviewZeroesAggregate() {
	user := createTestUser(s.T(), s.db)
	review := s.review(user, 5)

	s.Require().NoError(s.service.DeleteReview(user.ID, review.ID))
	s.assertAggregate("0", 0)
}

func (s *ReviewServiceTestSuite) TestMayReviewAgainAfterDelete() {
	user := createTestUser(s.T(), s.db)
	review := s.review(user, 2)

	s.Require().NoError(s.service.DeleteReview(user.ID, review.ID))

	s.review(user, 4)
	s.assertAggregate("4.0", 1)
}

func (s *ReviewServiceTestSuite) TestDuplicateReviewRejected() {
	user := createTestUser(s.T(), s.db)
	s.review(user, 5)

	_, err := s.service.CreateReview(user.ID, &CreateReviewRequest{
		ProductID: s.product.ID,
		Rating:    1,
	})
	s.ErrorIs(err, ErrDuplicateReview)

	// Aggregate untouched by the rejected write
	s.assertAggregate("5.0", 1)
}

func (s *ReviewServiceTestSuite) TestSameUserMayReviewOtherProducts() {
	user := createTestUser(s.T(), s.db)
	s.review(user, 5)

	mouse := createTestProduct(s.T(), s.db, "Mouse", "19.99", 10)
	_, err := s.service.CreateReview(user.ID, &CreateReviewRequest{
		ProductID: mouse.ID,
		Rating:    4,
	})
	s.NoError(err)
}

func (s *ReviewServiceTestSuite) TestUpdateRecomputesAggregate() {
	user := createTestUser(s.T(), s.db)
	review := s.review(user, 5)
	s.review(createTestUser(s.T(), s.db), 3)

	rating := 1
	_, err := s.service.UpdateReview(user.ID, review.ID, &UpdateReviewRequest{Rating: &rating})
	s.Require().NoError(err)

	// (1+3)/2
	s.assertAggregate("2.0", 2)
}

func (s *ReviewServiceTestSuite) TestRatingBounds() {
	user := createTestUser(s.T(), s.db)

	for _, rating := range []int{-1, 6} {
		_, err := s.service.CreateReview(user.ID, &CreateReviewRequest{
			ProductID: s.product.ID,
			Rating:    rating,
		})
		s.ErrorIs(err, ErrInvalidRating)
	}
}

func (s *ReviewServiceTestSuite) TestReviewUnknownProduct() {
	user := createTestUser(s.T(), s.db)

	_, err := s.service.CreateReview(user.ID, &CreateReviewRequest{
		ProductID: uuid.New(),
		Rating:    4,
	})
	s.ErrorIs(err, ErrNotFound)
}

func TestReviewServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceTestSuite))
}
