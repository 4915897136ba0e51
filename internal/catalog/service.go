package catalog

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kartik48/sunitas-creations/pkg/db/models"
	pkgerrors "github.com/kartik48/sunitas-creations/pkg/errors"
	"github.com/kartik48/sunitas-creations/pkg/logger"
	"github.com/kartik48/sunitas-creations/pkg/pagination"
)

const (
	featuredLimit = 6
	relatedLimit  = 4
)

var validate = validator.New()

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the storefront catalog plus admin product management.
type Service interface {
	Home(ctx context.Context) (*HomePage, error)
	Featured(ctx context.Context) ([]models.Product, error)
	Shop(ctx context.Context, filters Filters, params pagination.Params) (*ShopPage, error)
	ProductBySlug(ctx context.Context, slug string) (*ProductDetail, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Tags(ctx context.Context) ([]models.Tag, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	AdminProducts(ctx context.Context, params pagination.Params) (*ShopPage, error)
	AdminProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// HomePage is the storefront landing payload.
type HomePage struct {
	Featured   []models.Product  `json:"featured"`
	Categories []models.Category `json:"categories"`
}

// ShopPage is one page of the shop listing.
type ShopPage struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// ProductDetail joins a product with related picks from its category.
type ProductDetail struct {
	Product *models.Product  `json:"product"`
	Related []models.Product `json:"related"`
}

// CreateProductInput carries the admin form for a new product.
type CreateProductInput struct {
	CategoryID    uuid.UUID        `json:"category_id" validate:"required"`
	Name          string           `json:"name" validate:"required,max=255"`
	Description   string           `json:"description" validate:"required"`
	Price         decimal.Decimal  `json:"price" validate:"required"`
	StockQuantity int              `json:"stock_quantity" validate:"gte=0"`
	Materials     *string          `json:"materials,omitempty"`
	Dimensions    *string          `json:"dimensions,omitempty"`
	Weight        *decimal.Decimal `json:"weight,omitempty"`
	IsFeatured    bool             `json:"is_featured"`
	TagIDs        []uuid.UUID      `json:"tag_ids,omitempty"`
	ImagePaths    []string         `json:"image_paths,omitempty"`
}

// UpdateProductInput carries a partial admin edit; nil fields are untouched.
type UpdateProductInput struct {
	CategoryID    *uuid.UUID       `json:"category_id,omitempty"`
	Name          *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	StockQuantity *int             `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	Materials     *string          `json:"materials,omitempty"`
	Dimensions    *string          `json:"dimensions,omitempty"`
	Weight        *decimal.Decimal `json:"weight,omitempty"`
	IsFeatured    *bool            `json:"is_featured,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
	TagIDs        *[]uuid.UUID     `json:"tag_ids,omitempty"`
	ImagePaths    *[]string        `json:"image_paths,omitempty"`
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) Home(ctx context.Context) (*HomePage, error) {
	featured, err := s.Featured(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return &HomePage{Featured: featured, Categories: categories}, nil
}

func (s *service) Featured(ctx context.Context) ([]models.Product, error) {
	rows, err := s.repo.ListFeatured(ctx, featuredLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured products")
	}
	return rows, nil
}

func (s *service) Shop(ctx context.Context, filters Filters, params pagination.Params) (*ShopPage, error) {
	if filters.CategorySlug != "" {
		if _, err := s.repo.FindCategoryBySlug(ctx, filters.CategorySlug); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
	}

	rows, nextCursor, err := s.repo.ListShop(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shop products")
	}
	return &ShopPage{Products: rows, NextCursor: nextCursor}, nil
}

func (s *service) ProductBySlug(ctx context.Context, slug string) (*ProductDetail, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug required")
	}

	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	related, err := s.repo.ListRelated(ctx, product, relatedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list related products")
	}
	return &ProductDetail{Product: product, Related: related}, nil
}

func (s *service) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

func (s *service) Tags(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tags")
	}
	return rows, nil
}

// AdminProducts pages through the whole catalog, inactive products included.
func (s *service) AdminProducts(ctx context.Context, params pagination.Params) (*ShopPage, error) {
	rows, nextCursor, err := s.repo.ListAll(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return &ShopPage{Products: rows, NextCursor: nextCursor}, nil
}

func (s *service) AdminProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if err := validate.Struct(input); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(fieldErrors(err))
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	slug, err := s.uniqueSlug(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, input.TagIDs)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:            uuid.New(),
		CategoryID:    input.CategoryID,
		Name:          input.Name,
		Slug:          slug,
		Description:   input.Description,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		Materials:     input.Materials,
		Dimensions:    input.Dimensions,
		Weight:        input.Weight,
		IsFeatured:    input.IsFeatured,
		IsActive:      true,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateProduct(ctx, product); err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := repo.ReplaceTags(ctx, product, tags); err != nil {
				return err
			}
		}
		return repo.ReplaceImages(ctx, product.ID, imageRows(input.ImagePaths))
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"product_id": product.ID.String(),
		"slug":       product.Slug,
	}), "product created")

	return s.reload(ctx, product.ID)
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if err := validate.Struct(input); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(fieldErrors(err))
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	updates := map[string]any{}
	if input.CategoryID != nil {
		updates["category_id"] = *input.CategoryID
	}
	if input.Name != nil && *input.Name != product.Name {
		slug, err := s.uniqueSlug(ctx, *input.Name)
		if err != nil {
			return nil, err
		}
		updates["name"] = *input.Name
		updates["slug"] = slug
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price"] = *input.Price
	}
	if input.StockQuantity != nil {
		updates["stock_quantity"] = *input.StockQuantity
	}
	if input.Materials != nil {
		updates["materials"] = *input.Materials
	}
	if input.Dimensions != nil {
		updates["dimensions"] = *input.Dimensions
	}
	if input.Weight != nil {
		updates["weight"] = *input.Weight
	}
	if input.IsFeatured != nil {
		updates["is_featured"] = *input.IsFeatured
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	var tags []models.Tag
	if input.TagIDs != nil {
		tags, err = s.resolveTags(ctx, *input.TagIDs)
		if err != nil {
			return nil, err
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateProduct(ctx, product, updates); err != nil {
			return err
		}
		if input.TagIDs != nil {
			if err := repo.ReplaceTags(ctx, product, tags); err != nil {
				return err
			}
		}
		if input.ImagePaths != nil {
			if err := repo.ReplaceImages(ctx, product.ID, imageRows(*input.ImagePaths)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	return s.reload(ctx, product.ID)
}

// DeleteProduct removes a product outright unless it appears on past orders,
// in which case it is deactivated so order history stays intact.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	ordered, err := s.repo.HasOrderHistory(ctx, product.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order history")
	}

	if ordered {
		if err := s.repo.UpdateProduct(ctx, product, map[string]any{"is_active": false}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate product")
		}
		s.logg.Info(s.logg.WithField(ctx, "product_id", product.ID.String()), "product deactivated (has order history)")
		return nil
	}

	if err := s.repo.DeleteProduct(ctx, product.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", product.ID.String()), "product deleted")
	return nil
}

func (s *service) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slugify(name)
	if base == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product name must contain letters or digits")
	}
	count, err := s.repo.CountBySlugPrefix(ctx, base)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug availability")
	}
	if count == 0 {
		return base, nil
	}
	return fmt.Sprintf("%s-%d", base, count+1), nil
}

func (s *service) resolveTags(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tags, err := s.repo.FindTagsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tags")
	}
	if len(tags) != len(ids) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "one or more tags do not exist")
	}
	return tags, nil
}

func (s *service) reload(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return product, nil
}

func imageRows(paths []string) []models.ProductImage {
	rows := make([]models.ProductImage, 0, len(paths))
	for i, path := range paths {
		rows = append(rows, models.ProductImage{
			ID:        uuid.New(),
			ImagePath: path,
			IsPrimary: i == 0,
			SortOrder: i,
		})
	}
	return rows
}

func fieldErrors(err error) map[string]string {
	fields := map[string]string{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return fields
}
