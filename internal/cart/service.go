package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kartik48/sunitas-creations/internal/identity"
	"github.com/kartik48/sunitas-creations/internal/stock"
	"github.com/kartik48/sunitas-creations/pkg/db/models"
	pkgerrors "github.com/kartik48/sunitas-creations/pkg/errors"
	"github.com/kartik48/sunitas-creations/pkg/logger"
)

// ProductFinder loads purchasable products for cart mutations.
type ProductFinder interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart operations for a resolved cart scope.
type Service interface {
	Add(ctx context.Context, scope identity.CartScope, productID uuid.UUID, quantity int) (*LineView, error)
	UpdateQuantity(ctx context.Context, scope identity.CartScope, lineID uuid.UUID, quantity int) (*LineView, error)
	Remove(ctx context.Context, scope identity.CartScope, lineID uuid.UUID) error
	Clear(ctx context.Context, scope identity.CartScope) error
	Get(ctx context.Context, scope identity.CartScope) (*View, error)
	Count(ctx context.Context, scope identity.CartScope) (int, error)
}

// View is the cart as rendered to the storefront. Prices are live product
// prices; nothing is frozen until checkout.
type View struct {
	Items         []LineView      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Shipping      decimal.Decimal `json:"shipping"`
	Total         decimal.Decimal `json:"total"`
	TotalQuantity int             `json:"total_quantity"`
}

// LineView is a single cart line joined with its product.
type LineView struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
	ImagePath    *string         `json:"image_path,omitempty"`
	AvailableQty int             `json:"available_qty"`
}

type service struct {
	repo     Repository
	products ProductFinder
	logg     *logger.Logger
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, products ProductFinder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, products: products, logg: logg}, nil
}

// Add merges the requested quantity into any existing line for the product.
// The merged quantity must fit within current stock.
func (s *service) Add(ctx context.Context, scope identity.CartScope, productID uuid.UUID, quantity int) (*LineView, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindActiveByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	existing, err := s.repo.FindLine(ctx, scope, productID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	target := quantity
	if existing != nil {
		target += existing.Quantity
	}
	if err := stock.Check(product.Name, target, product.StockQuantity); err != nil {
		return nil, err
	}

	var line *models.CartItem
	if existing != nil {
		if err := s.repo.UpdateQuantity(ctx, existing.ID, target); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
		}
		existing.Quantity = target
		line = existing
	} else {
		line = &models.CartItem{ID: uuid.New(), ProductID: productID, Quantity: target}
		if scope.IsUser() {
			userID := scope.UserID
			line.UserID = &userID
		} else {
			sessionID := scope.SessionID
			line.SessionID = &sessionID
		}
		if err := s.repo.CreateLine(ctx, line); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
		}
	}

	ctx = s.logg.WithCartScope(ctx, string(scope.Kind), scope.LogID())
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"product_id": productID.String(),
		"quantity":   target,
	}), "cart line upserted")

	return lineView(line, product), nil
}

// UpdateQuantity sets the line to an absolute quantity, bounded by stock.
func (s *service) UpdateQuantity(ctx context.Context, scope identity.CartScope, lineID uuid.UUID, quantity int) (*LineView, error) {
	if lineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart item id required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	line, err := s.repo.FindLineByID(ctx, scope, lineID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	product, err := s.products.FindActiveByID(ctx, line.ProductID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := stock.Check(product.Name, quantity, product.StockQuantity); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateQuantity(ctx, line.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	line.Quantity = quantity

	return lineView(line, product), nil
}

func (s *service) Remove(ctx context.Context, scope identity.CartScope, lineID uuid.UUID) error {
	if lineID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item id required")
	}

	line, err := s.repo.FindLineByID(ctx, scope, lineID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	if err := s.repo.DeleteLine(ctx, line.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	return nil
}

// Clear removes every line in the scope. Clearing an empty cart succeeds.
func (s *service) Clear(ctx context.Context, scope identity.CartScope) error {
	if err := s.repo.Clear(ctx, scope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) Get(ctx context.Context, scope identity.CartScope) (*View, error) {
	lines, err := s.repo.ListLines(ctx, scope)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}

	view := &View{
		Items:    make([]LineView, 0, len(lines)),
		Subtotal: decimal.Zero,
		Shipping: decimal.Zero,
	}
	for i := range lines {
		line := &lines[i]
		if line.Product == nil {
			continue
		}
		item := lineView(line, line.Product)
		view.Items = append(view.Items, *item)
		view.Subtotal = view.Subtotal.Add(item.LineTotal)
		view.TotalQuantity += line.Quantity
	}
	// Shipping is flat zero.
	view.Total = view.Subtotal.Add(view.Shipping)
	return view, nil
}

func (s *service) Count(ctx context.Context, scope identity.CartScope) (int, error) {
	total, err := s.repo.TotalQuantity(ctx, scope)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count cart quantity")
	}
	return total, nil
}

func lineView(line *models.CartItem, product *models.Product) *LineView {
	view := &LineView{
		ID:           line.ID,
		ProductID:    product.ID,
		Name:         product.Name,
		Slug:         product.Slug,
		Price:        product.Price,
		Quantity:     line.Quantity,
		LineTotal:    product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		AvailableQty: product.StockQuantity,
	}
	if img := product.PrimaryImage(); img != nil {
		view.ImagePath = &img.ImagePath
	} else if len(product.Images) > 0 {
		view.ImagePath = &product.Images[0].ImagePath
	}
	return view
}
