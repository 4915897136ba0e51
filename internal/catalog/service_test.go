package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kartik48/sunitas-creations/pkg/db/models"
	pkgerrors "github.com/kartik48/sunitas-creations/pkg/errors"
	"github.com/kartik48/sunitas-creations/pkg/logger"
	"github.com/kartik48/sunitas-creations/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  description TEXT,
  image_path TEXT,
  parent_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS tags (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  type TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  description TEXT NOT NULL,
  price TEXT NOT NULL,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  materials TEXT,
  dimensions TEXT,
  weight TEXT,
  is_featured INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS product_tags (
  product_id TEXT NOT NULL,
  tag_id TEXT NOT NULL,
  PRIMARY KEY (product_id, tag_id)
);`, `
CREATE TABLE IF NOT EXISTS product_images (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  image_path TEXT NOT NULL,
  is_primary INTEGER NOT NULL DEFAULT 0,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type catalogTxRunner struct {
	db *gorm.DB
}

func (r catalogTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func newCatalogService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "catalog-test", Level: zerolog.Disabled})
	svc, err := NewService(NewRepository(db), catalogTxRunner{db: db}, logg)
	require.NoError(t, err)
	return svc
}

func seedCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()

	category := &models.Category{ID: uuid.New(), Name: name, Slug: slug, IsActive: true}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedTag(t *testing.T, db *gorm.DB, name, slug string) *models.Tag {
	t.Helper()

	tag := &models.Tag{ID: uuid.New(), Name: name, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

type productSeed struct {
	name      string
	slug      string
	price     string
	category  uuid.UUID
	featured  bool
	active    bool
	createdAt time.Time
	tags      []models.Tag
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, seed productSeed) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:            uuid.New(),
		CategoryID:    seed.category,
		Name:          seed.name,
		Slug:          seed.slug,
		Description:   "handcrafted " + seed.name,
		Price:         decimal.RequireFromString(seed.price),
		StockQuantity: 10,
		IsFeatured:    seed.featured,
		IsActive:      seed.active,
		CreatedAt:     seed.createdAt,
		UpdatedAt:     seed.createdAt,
	}
	require.NoError(t, db.Omit("Tags", "Images", "Category").Create(product).Error)
	for _, tag := range seed.tags {
		require.NoError(t, db.Exec("INSERT INTO product_tags (product_id, tag_id) VALUES (?, ?)", product.ID, tag.ID).Error)
	}
	return product
}

func TestFeaturedListsOnlyActiveFeatured(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	category := seedCategory(t, db, "Pottery", "pottery")
	now := time.Now()

	seedCatalogProduct(t, db, productSeed{name: "Clay Diya", slug: "clay-diya", price: "100.00", category: category.ID, featured: true, active: true, createdAt: now})
	seedCatalogProduct(t, db, productSeed{name: "Hidden Pot", slug: "hidden-pot", price: "90.00", category: category.ID, featured: true, active: false, createdAt: now})
	seedCatalogProduct(t, db, productSeed{name: "Plain Bowl", slug: "plain-bowl", price: "80.00", category: category.ID, featured: false, active: true, createdAt: now})

	rows, err := svc.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Clay Diya", rows[0].Name)
}

func TestHomeBundlesFeaturedAndCategories(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	category := seedCategory(t, db, "Pottery", "pottery")
	now := time.Now()

	seedCatalogProduct(t, db, productSeed{name: "Clay Diya", slug: "clay-diya", price: "100.00", category: category.ID, featured: true, active: true, createdAt: now})

	home, err := svc.Home(context.Background())
	require.NoError(t, err)
	require.Len(t, home.Featured, 1)
	require.Len(t, home.Categories, 1)
	assert.Equal(t, "Pottery", home.Categories[0].Name)
}

func TestAdminProductsIncludeInactive(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	category := seedCategory(t, db, "Pottery", "pottery")
	now := time.Now()

	seedCatalogProduct(t, db, productSeed{name: "Clay Diya", slug: "clay-diya", price: "100.00", category: category.ID, active: true, createdAt: now})
	hidden := seedCatalogProduct(t, db, productSeed{name: "Hidden Pot", slug: "hidden-pot", price: "90.00", category: category.ID, active: false, createdAt: now.Add(-time.Minute)})

	page, err := svc.AdminProducts(context.Background(), pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)

	got, err := svc.AdminProductByID(context.Background(), hidden.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hidden Pot", got.Name)

	_, err = svc.AdminProductByID(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestShopFiltersAndSorts(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	pottery := seedCategory(t, db, "Pottery", "pottery")
	textiles := seedCategory(t, db, "Textiles", "textiles")
	handPainted := seedTag(t, db, "Hand Painted", "hand-painted")
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	seedCatalogProduct(t, db, productSeed{name: "Clay Diya", slug: "clay-diya", price: "100.00", category: pottery.ID, active: true, createdAt: base, tags: []models.Tag{*handPainted}})
	seedCatalogProduct(t, db, productSeed{name: "Terracotta Vase", slug: "terracotta-vase", price: "300.00", category: pottery.ID, active: true, createdAt: base.Add(time.Hour)})
	seedCatalogProduct(t, db, productSeed{name: "Block Print Scarf", slug: "block-print-scarf", price: "250.00", category: textiles.ID, active: true, createdAt: base.Add(2 * time.Hour)})

	byCategory, err := svc.Shop(context.Background(), Filters{CategorySlug: "pottery"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, byCategory.Products, 2)
	assert.Equal(t, "Terracotta Vase", byCategory.Products[0].Name, "newest first by default")

	byTag, err := svc.Shop(context.Background(), Filters{TagSlug: "hand-painted"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, byTag.Products, 1)
	assert.Equal(t, "Clay Diya", byTag.Products[0].Name)

	bySearch, err := svc.Shop(context.Background(), Filters{Search: "Scarf"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, bySearch.Products, 1)
	assert.Equal(t, "Block Print Scarf", bySearch.Products[0].Name)

	byPrice, err := svc.Shop(context.Background(), Filters{Sort: SortPriceAsc}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, byPrice.Products, 3)
	assert.Equal(t, "Clay Diya", byPrice.Products[0].Name)
	assert.Equal(t, "Terracotta Vase", byPrice.Products[2].Name)

	_, err = svc.Shop(context.Background(), Filters{CategorySlug: "no-such-category"}, pagination.Params{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestShopCursorPagination(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	category := seedCategory(t, db, "Pottery", "pottery")
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		seedCatalogProduct(t, db, productSeed{
			name:      fmt.Sprintf("Bowl %d", i),
			slug:      fmt.Sprintf("bowl-%d", i),
			price:     "100.00",
			category:  category.ID,
			active:    true,
			createdAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	first, err := svc.Shop(context.Background(), Filters{}, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, first.Products, 3)
	require.NotEmpty(t, first.NextCursor)
	assert.Equal(t, "Bowl 4", first.Products[0].Name)

	second, err := svc.Shop(context.Background(), Filters{}, pagination.Params{Limit: 3, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Products, 2)
	assert.Empty(t, second.NextCursor)
	assert.Equal(t, "Bowl 1", second.Products[0].Name)
	assert.Equal(t, "Bowl 0", second.Products[1].Name)
}

func TestProductBySlugWithRelated(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	category := seedCategory(t, db, "Pottery", "pottery")
	now := time.Now()

	seedCatalogProduct(t, db, productSeed{name: "Clay Diya", slug: "clay-diya", price: "100.00", category: category.ID, active: true, createdAt: now})
	seedCatalogProduct(t, db, productSeed{name: "Terracotta Vase", slug: "terracotta-vase", price: "300.00", category: category.ID, active: true, createdAt: now})
	seedCatalogProduct(t, db, productSeed{name: "Retired Pot", slug: "retired-pot", price: "50.00", category: category.ID, active: false, createdAt: now})

	detail, err := svc.ProductBySlug(context.Background(), "clay-diya")
	require.NoError(t, err)
	assert.Equal(t, "Clay Diya", detail.Product.Name)
	require.Len(t, detail.Related, 1, "related excludes self and inactive products")
	assert.Equal(t, "Terracotta Vase", detail.Related[0].Name)

	_, err = svc.ProductBySlug(context.Background(), "retired-pot")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "inactive product must 404, got %v", err)
}

func TestCreateProductGeneratesUniqueSlug(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	category := seedCategory(t, db, "Pottery", "pottery")
	tag := seedTag(t, db, "Hand Painted", "hand-painted")

	input := CreateProductInput{
		CategoryID:    category.ID,
		Name:          "Clay Diya!",
		Description:   "a hand painted diya",
		Price:         decimal.RequireFromString("100.00"),
		StockQuantity: 5,
		TagIDs:        []uuid.UUID{tag.ID},
		ImagePaths:    []string{"images/diya-front.jpg", "images/diya-side.jpg"},
	}

	first, err := svc.CreateProduct(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "clay-diya", first.Slug)
	require.Len(t, first.Images, 2)
	assert.True(t, first.Images[0].IsPrimary || first.Images[1].IsPrimary)
	require.Len(t, first.Tags, 1)

	second, err := svc.CreateProduct(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "clay-diya-2", second.Slug)
}

func TestCreateProductRejectsUnknownTag(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	category := seedCategory(t, db, "Pottery", "pottery")

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		CategoryID:  category.ID,
		Name:        "Clay Diya",
		Description: "a diya",
		Price:       decimal.RequireFromString("100.00"),
		TagIDs:      []uuid.UUID{uuid.New()},
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
}

func TestUpdateProductPartial(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	category := seedCategory(t, db, "Pottery", "pottery")
	product := seedCatalogProduct(t, db, productSeed{name: "Clay Diya", slug: "clay-diya", price: "100.00", category: category.ID, active: true, createdAt: time.Now()})

	newPrice := decimal.RequireFromString("120.00")
	stockQty := 3
	updated, err := svc.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		Price:         &newPrice,
		StockQuantity: &stockQty,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, 3, updated.StockQuantity)
	assert.Equal(t, "clay-diya", updated.Slug, "slug unchanged when name is unchanged")

	name := "Festival Diya"
	renamed, err := svc.UpdateProduct(context.Background(), product.ID, UpdateProductInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "festival-diya", renamed.Slug)
}

func TestDeleteProductKeepsOrderedProducts(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	category := seedCategory(t, db, "Pottery", "pottery")

	fresh := seedCatalogProduct(t, db, productSeed{name: "Fresh Pot", slug: "fresh-pot", price: "80.00", category: category.ID, active: true, createdAt: time.Now()})
	ordered := seedCatalogProduct(t, db, productSeed{name: "Popular Pot", slug: "popular-pot", price: "90.00", category: category.ID, active: true, createdAt: time.Now()})
	require.NoError(t, db.Create(&models.OrderItem{
		ID:        uuid.New(),
		OrderID:   uuid.New(),
		ProductID: ordered.ID,
		Quantity:  1,
		Price:     decimal.RequireFromString("90.00"),
	}).Error)

	require.NoError(t, svc.DeleteProduct(context.Background(), fresh.ID))
	var count int64
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", fresh.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count, "unordered product is removed")

	require.NoError(t, svc.DeleteProduct(context.Background(), ordered.ID))
	var row models.Product
	require.NoError(t, db.Where("id = ?", ordered.ID).First(&row).Error)
	assert.False(t, row.IsActive, "ordered product is deactivated, not deleted")
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "clay-diya", slugify("Clay Diya!"))
	assert.Equal(t, "block-print-scarf", slugify("  Block   Print Scarf "))
	assert.Equal(t, "", slugify("!!!"))
}
