package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kartik48/sunitas-creations/internal/identity"
	"github.com/kartik48/sunitas-creations/pkg/db/models"
)

// Repository defines persistence operations for cart lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindLine(ctx context.Context, scope identity.CartScope, productID uuid.UUID) (*models.CartItem, error)
	FindLineByID(ctx context.Context, scope identity.CartScope, lineID uuid.UUID) (*models.CartItem, error)
	ListLines(ctx context.Context, scope identity.CartScope) ([]models.CartItem, error)
	CreateLine(ctx context.Context, line *models.CartItem) error
	UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	Clear(ctx context.Context, scope identity.CartScope) error
	TotalQuantity(ctx context.Context, scope identity.CartScope) (int, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func scoped(q *gorm.DB, scope identity.CartScope) *gorm.DB {
	if scope.IsUser() {
		return q.Where("user_id = ?", scope.UserID)
	}
	return q.Where("session_id = ?", scope.SessionID)
}

func (r *repository) FindLine(ctx context.Context, scope identity.CartScope, productID uuid.UUID) (*models.CartItem, error) {
	var line models.CartItem
	err := scoped(r.db.WithContext(ctx), scope).
		Where("product_id = ?", productID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) FindLineByID(ctx context.Context, scope identity.CartScope, lineID uuid.UUID) (*models.CartItem, error) {
	var line models.CartItem
	err := scoped(r.db.WithContext(ctx), scope).
		Preload("Product").
		Where("id = ?", lineID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) ListLines(ctx context.Context, scope identity.CartScope) ([]models.CartItem, error) {
	var lines []models.CartItem
	err := scoped(r.db.WithContext(ctx), scope).
		Preload("Product").
		Preload("Product.Images").
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) CreateLine(ctx context.Context, line *models.CartItem) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *repository) UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", lineID).
		Update("quantity", quantity).Error
}

func (r *repository) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", lineID).
		Delete(&models.CartItem{}).Error
}

func (r *repository) Clear(ctx context.Context, scope identity.CartScope) error {
	return scoped(r.db.WithContext(ctx), scope).
		Delete(&models.CartItem{}).Error
}

func (r *repository) TotalQuantity(ctx context.Context, scope identity.CartScope) (int, error) {
	var total *int
	err := scoped(r.db.WithContext(ctx).Model(&models.CartItem{}), scope).
		Select("SUM(quantity)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
