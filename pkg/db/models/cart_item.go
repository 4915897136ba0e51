package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one product-quantity pairing inside a cart. Exactly one of
// UserID and SessionID is set, matching the scope that owns the line; a scope
// holds at most one line per product.
type CartItem struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid;uniqueIndex:idx_cart_items_user_product"`
	SessionID *string    `gorm:"column:session_id;uniqueIndex:idx_cart_items_session_product"`
	ProductID uuid.UUID  `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_user_product;uniqueIndex:idx_cart_items_session_product"`
	Quantity  int        `gorm:"column:quantity;not null"`
	Product   *Product   `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
