package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a single handcrafted listing. Price is currency-unscaled and
// StockQuantity is the live inventory level; checkout is the only writer that
// decrements it.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID    uuid.UUID        `gorm:"column:category_id;type:uuid;not null"`
	Name          string           `gorm:"column:name;not null"`
	Slug          string           `gorm:"column:slug;not null;uniqueIndex"`
	Description   string           `gorm:"column:description;not null"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	StockQuantity int              `gorm:"column:stock_quantity;not null;default:0"`
	Materials     *string          `gorm:"column:materials"`
	Dimensions    *string          `gorm:"column:dimensions"`
	Weight        *decimal.Decimal `gorm:"column:weight;type:numeric(10,2)"`
	IsFeatured    bool             `gorm:"column:is_featured;not null;default:false"`
	// No gorm-level default: a default tag makes Create drop the field when
	// it is false, so an inactive row would be stored active. The migration
	// owns the column default.
	IsActive      bool             `gorm:"column:is_active;not null"`
	Category      *Category        `gorm:"foreignKey:CategoryID"`
	Tags          []Tag            `gorm:"many2many:product_tags"`
	Images        []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// PrimaryImage returns the image flagged as primary, or nil.
func (p *Product) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	return nil
}
