package repositories

import (
	"errors"
	"fmt"
	"time"

	"dinedate/internal/models"

	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.DateOrder) error {
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetByID(id uint) (*models.DateOrder, error) {
	var order models.DateOrder
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if !order.Status.Valid() {
		return nil, fmt.Errorf("%w: order %d has status %q", ErrInvalidStatus, order.ID, order.Status)
	}
	return &order, nil
}

func (r *orderRepository) CountActiveByCreator(creatorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.DateOrder{}).
		Where("creator_id = ? AND status = ?", creatorID, models.OrderStatusActive).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active orders: %w", err)
	}
	return count, nil
}

func (r *orderRepository) CountCompletedForUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.DateOrder{}).
		Where("status = ? AND (creator_id = ? OR matched_user_id = ?)",
			models.OrderStatusCompleted, userID, userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completed orders: %w", err)
	}
	return count, nil
}

func (r *orderRepository) TransitionStatus(orderID uint, from, to models.OrderStatus, updates map[string]interface{}) (bool, error) {
	if !from.Valid() || !to.Valid() {
		return false, ErrInvalidStatus
	}
	values := map[string]interface{}{"status": to}
	for k, v := range updates {
		values[k] = v
	}
	result := r.db.Model(&models.DateOrder{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(values)
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition order %d: %w", orderID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepository) FindMatchedBefore(cutoff time.Time, limit int) ([]models.DateOrder, error) {
	var orders []models.DateOrder
	err := r.db.Where("status = ? AND date_time < ?", models.OrderStatusMatched, cutoff).
		Order("date_time ASC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find matched orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) FindActiveBefore(cutoff time.Time, limit int) ([]models.DateOrder, error) {
	var orders []models.DateOrder
	err := r.db.Where("status = ? AND date_time < ?", models.OrderStatusActive, cutoff).
		Order("date_time ASC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find stale active orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) CreateApplication(app *models.Application) error {
	if err := r.db.Create(app).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *orderRepository) GetApplication(id uint) (*models.Application, error) {
	var app models.Application
	if err := r.db.First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

func (r *orderRepository) FindApplication(orderID, applicantID uint) (*models.Application, error) {
	var app models.Application
	err := r.db.Where("order_id = ? AND applicant_id = ?", orderID, applicantID).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

func (r *orderRepository) ListApplications(orderID uint) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (r *orderRepository) ListPendingApplications(orderID uint) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.Where("order_id = ? AND status = ?", orderID, models.ApplicationStatusPending).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending applications: %w", err)
	}
	return apps, nil
}

func (r *orderRepository) UpdateApplicationStatus(id uint, status models.ApplicationStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	result := r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update application %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *orderRepository) RejectPendingSiblings(orderID, acceptedID uint) error {
	err := r.db.Model(&models.Application{}).
		Where("order_id = ? AND id <> ? AND status = ?",
			orderID, acceptedID, models.ApplicationStatusPending).
		Update("status", models.ApplicationStatusRejected).Error
	if err != nil {
		return fmt.Errorf("failed to reject sibling applications: %w", err)
	}
	return nil
}

func (r *orderRepository) Wallets() WalletRepository {
	return &walletRepository{db: r.db}
}

func (r *orderRepository) ExecuteInTransaction(fn func(OrderRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&orderRepository{db: tx})
	})
}
