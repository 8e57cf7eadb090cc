package repositories

import (
	"errors"
	"fmt"

	"dinedate/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository defines review and connection database operations.
type ReviewRepository interface {
	CreateReview(review *models.Review) error
	FindReview(orderID, reviewerID uint) (*models.Review, error)
	ListReviewsByOrder(orderID uint) ([]models.Review, error)

	CreateConnection(conn *models.Connection) error
	FindConnection(userA, userB uint) (*models.Connection, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) CreateReview(review *models.Review) error {
	if err := r.db.Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) FindReview(orderID, reviewerID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("order_id = ? AND reviewer_id = ?", orderID, reviewerID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return &review, nil
}

func (r *reviewRepository) ListReviewsByOrder(orderID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Where("order_id = ?", orderID).Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) CreateConnection(conn *models.Connection) error {
	conn.User1ID, conn.User2ID = models.NormalizePair(conn.User1ID, conn.User2ID)
	if err := r.db.Create(conn).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("failed to create connection: %w", err)
	}
	return nil
}

func (r *reviewRepository) FindConnection(userA, userB uint) (*models.Connection, error) {
	low, high := models.NormalizePair(userA, userB)
	var conn models.Connection
	err := r.db.Where("user1_id = ? AND user2_id = ?", low, high).
		First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to find connection: %w", err)
	}
	return &conn, nil
}
