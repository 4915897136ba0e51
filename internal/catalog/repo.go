package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kartik48/sunitas-creations/pkg/db/models"
	"github.com/kartik48/sunitas-creations/pkg/pagination"
)

// SortOrder names the supported shop listing sorts.
type SortOrder string

const (
	SortLatest    SortOrder = "latest"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortNameAsc   SortOrder = "name_asc"
)

// Filters narrows the shop listing.
type Filters struct {
	CategorySlug string
	TagSlug      string
	Search       string
	Sort         SortOrder
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListFeatured(ctx context.Context, limit int) ([]models.Product, error)
	ListShop(ctx context.Context, filters Filters, params pagination.Params) ([]models.Product, string, error)
	ListAll(ctx context.Context, params pagination.Params) ([]models.Product, string, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListRelated(ctx context.Context, product *models.Product, limit int) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	FindTagsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product, updates map[string]any) error
	ReplaceTags(ctx context.Context, product *models.Product, tags []models.Tag) error
	ReplaceImages(ctx context.Context, productID uuid.UUID, images []models.ProductImage) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	HasOrderHistory(ctx context.Context, id uuid.UUID) (bool, error)
	CountBySlugPrefix(ctx context.Context, slug string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func activeProducts(q *gorm.DB) *gorm.DB {
	return q.Where("products.is_active = ?", true)
}

func (r *repository) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := activeProducts(r.db.WithContext(ctx)).
		Preload("Images").
		Preload("Category").
		Where("is_featured = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListShop returns one storefront page. Cursor pagination applies only to the
// default latest sort; price and name sorts return a single bounded page.
func (r *repository) ListShop(ctx context.Context, filters Filters, params pagination.Params) ([]models.Product, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := activeProducts(r.db.WithContext(ctx).Model(&models.Product{})).
		Preload("Images").
		Preload("Category").
		Preload("Tags")

	if filters.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filters.CategorySlug)
	}
	if filters.TagSlug != "" {
		query = query.Joins("JOIN product_tags ON product_tags.product_id = products.id").
			Joins("JOIN tags ON tags.id = product_tags.tag_id").
			Where("tags.slug = ?", filters.TagSlug)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where("products.name LIKE ? OR products.description LIKE ?", like, like)
	}

	switch filters.Sort {
	case SortPriceAsc:
		return r.listSorted(query, "products.price ASC, products.id ASC", limit)
	case SortPriceDesc:
		return r.listSorted(query, "products.price DESC, products.id ASC", limit)
	case SortNameAsc:
		return r.listSorted(query, "products.name ASC, products.id ASC", limit)
	}

	query = query.Order("products.created_at DESC, products.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"products.created_at < ? OR (products.created_at = ? AND products.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

// ListAll pages through every product including inactive ones, for the
// admin catalog view.
func (r *repository) ListAll(ctx context.Context, params pagination.Params) ([]models.Product, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Product{}).
		Preload("Images").
		Preload("Category").
		Preload("Tags").
		Order("products.created_at DESC, products.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"products.created_at < ? OR (products.created_at = ? AND products.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

func (r *repository) listSorted(query *gorm.DB, order string, limit int) ([]models.Product, string, error) {
	var rows []models.Product
	if err := query.Order(order).Limit(limit).Find(&rows).Error; err != nil {
		return nil, "", err
	}
	return rows, "", nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := activeProducts(r.db.WithContext(ctx)).
		Preload("Images").
		Preload("Category").
		Preload("Tags").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := activeProducts(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Tags").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListRelated(ctx context.Context, product *models.Product, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := activeProducts(r.db.WithContext(ctx)).
		Preload("Images").
		Where("category_id = ? AND id <> ?", product.CategoryID, product.ID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) ListTags(ctx context.Context) ([]models.Tag, error) {
	var rows []models.Tag
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindTagsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Tag
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Tags", "Images", "Category").Create(product).Error
}

func (r *repository) UpdateProduct(ctx context.Context, product *models.Product, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(product).Updates(updates).Error
}

func (r *repository) ReplaceTags(ctx context.Context, product *models.Product, tags []models.Tag) error {
	return r.db.WithContext(ctx).Model(product).Association("Tags").Replace(tags)
}

func (r *repository) ReplaceImages(ctx context.Context, productID uuid.UUID, images []models.ProductImage) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		images[i].ProductID = productID
	}
	return tx.Create(&images).Error
}

func (r *repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

func (r *repository) HasOrderHistory(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("product_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CountBySlugPrefix(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("slug = ? OR slug LIKE ?", slug, slug+"-%").
		Count(&count).Error
	return count, err
}
