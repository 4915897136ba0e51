package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kartik48/sunitas-creations/internal/cart"
	"github.com/kartik48/sunitas-creations/internal/identity"
	"github.com/kartik48/sunitas-creations/internal/orders"
	"github.com/kartik48/sunitas-creations/internal/stock"
	"github.com/kartik48/sunitas-creations/pkg/db"
	"github.com/kartik48/sunitas-creations/pkg/db/models"
	"github.com/kartik48/sunitas-creations/pkg/enums"
	pkgerrors "github.com/kartik48/sunitas-creations/pkg/errors"
	"github.com/kartik48/sunitas-creations/pkg/logger"
)

// orderNumberAttempts bounds how often a colliding order number is reminted
// before the checkout is abandoned.
const orderNumberAttempts = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service converts a cart into an order.
type Service interface {
	Summary(ctx context.Context, userID uuid.UUID) (*Summary, error)
	Submit(ctx context.Context, userID uuid.UUID, input Input) (*models.Order, error)
}

// Summary is the pre-confirmation view of a checkout: freshly priced lines
// and the total the order would be placed with.
type Summary struct {
	Items    []SummaryLine   `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

type SummaryLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type service struct {
	cartRepo  cart.Repository
	ordersRep orders.Repository
	products  cart.ProductFinder
	tx        txRunner
	logg      *logger.Logger
}

// NewService builds a checkout service with the required dependencies.
func NewService(cartRepo cart.Repository, ordersRep orders.Repository, products cart.ProductFinder, tx txRunner, logg *logger.Logger) (Service, error) {
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ordersRep == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		cartRepo:  cartRepo,
		ordersRep: ordersRep,
		products:  products,
		tx:        tx,
		logg:      logg,
	}, nil
}

type pricedLine struct {
	productID uuid.UUID
	name      string
	price     decimal.Decimal
	quantity  int
}

// Summary prices the user's cart without mutating anything. It fails the
// same way Submit would: empty cart first, then the first stock shortage.
func (s *service) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "checkout requires a signed-in user")
	}

	lines, err := s.cartRepo.ListLines(ctx, identity.UserScope(userID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no items")
	}

	priced, total, err := s.priceLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Items:    make([]SummaryLine, 0, len(priced)),
		Subtotal: total,
		Shipping: decimal.Zero,
		Total:    total,
	}
	for _, line := range priced {
		summary.Items = append(summary.Items, SummaryLine{
			ProductID: line.productID,
			Name:      line.name,
			Price:     line.price,
			Quantity:  line.quantity,
			LineTotal: line.price.Mul(decimal.NewFromInt(int64(line.quantity))),
		})
	}
	return summary, nil
}

// Submit places an order from the user's cart. Preconditions are checked in a
// fixed sequence: empty cart, then stock, then customer details. Stock is
// re-verified inside the transaction with a conditional decrement, so two
// racing checkouts can never drive inventory negative.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, input Input) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "checkout requires a signed-in user")
	}

	scope := identity.UserScope(userID)

	lines, err := s.cartRepo.ListLines(ctx, scope)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no items")
	}

	priced, total, err := s.priceLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	ctx = s.logg.WithUserID(ctx, userID.String())

	var placed *models.Order
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		number, err := newOrderNumber()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, err, "mint order number")
		}

		txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.ordersRep.WithTx(tx)

			order := &models.Order{
				ID:              uuid.New(),
				UserID:          userID,
				OrderNumber:     number,
				TotalAmount:     total,
				Status:          enums.OrderStatusPending,
				PaymentMethod:   input.PaymentMethod,
				PaymentStatus:   enums.PaymentStatusPending,
				CustomerName:    input.CustomerName,
				CustomerEmail:   input.CustomerEmail,
				CustomerPhone:   input.CustomerPhone,
				ShippingAddress: input.ShippingAddress,
				Notes:           input.Notes,
			}
			if _, err := repo.CreateOrder(ctx, order); err != nil {
				return err
			}

			items := make([]models.OrderItem, 0, len(priced))
			for _, line := range priced {
				items = append(items, models.OrderItem{
					ID:        uuid.New(),
					OrderID:   order.ID,
					ProductID: line.productID,
					Quantity:  line.quantity,
					Price:     line.price,
				})
			}
			if err := repo.CreateOrderItems(ctx, items); err != nil {
				return err
			}

			for _, line := range priced {
				if err := decrementStock(ctx, tx, line); err != nil {
					return err
				}
			}

			if err := s.cartRepo.WithTx(tx).Clear(ctx, scope); err != nil {
				return err
			}

			placed = order
			return nil
		})

		if txErr == nil {
			s.logg.Info(s.logg.WithFields(ctx, map[string]any{
				"order_id":     placed.ID.String(),
				"order_number": placed.OrderNumber,
				"total":        placed.TotalAmount.String(),
			}), "order placed")
			return placed, nil
		}

		if db.IsUniqueViolation(txErr, "order_number") {
			s.logg.Warn(s.logg.WithField(ctx, "attempt", attempt), "order number collision, retrying")
			continue
		}
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, txErr
		}
		s.logg.Error(ctx, "checkout transaction failed", txErr)
		return nil, pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, txErr, "checkout transaction failed")
	}

	return nil, pkgerrors.New(pkgerrors.CodeCheckoutFailed, "could not allocate an order number")
}

// priceLines re-reads every product so stale cart rows cannot oversell or
// mis-price an order. The first shortage aborts the whole checkout.
func (s *service) priceLines(ctx context.Context, lines []models.CartItem) ([]pricedLine, decimal.Decimal, error) {
	priced := make([]pricedLine, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		product, err := s.products.FindActiveByID(ctx, line.ProductID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				name := "unknown product"
				if line.Product != nil {
					name = line.Product.Name
				}
				return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeInsufficientStock, "product is no longer available").
					WithDetails(stock.ShortageDetails{
						ProductName:  name,
						RequestedQty: line.Quantity,
						AvailableQty: 0,
					})
			}
			return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		if err := stock.Check(product.Name, line.Quantity, product.StockQuantity); err != nil {
			return nil, decimal.Zero, err
		}

		priced = append(priced, pricedLine{
			productID: product.ID,
			name:      product.Name,
			price:     product.Price,
			quantity:  line.Quantity,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return priced, total, nil
}

// decrementStock applies a guarded decrement. Zero rows affected means a
// concurrent checkout consumed the stock first; the caller rolls back.
func decrementStock(ctx context.Context, tx *gorm.DB, line pricedLine) error {
	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock_quantity >= ?
	`, line.quantity, line.productID, line.quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		available := 0
		var current models.Product
		if err := tx.WithContext(ctx).Select("stock_quantity").Where("id = ?", line.productID).First(&current).Error; err == nil {
			available = current.StockQuantity
		}
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "stock changed during checkout").
			WithDetails(stock.ShortageDetails{
				ProductName:  line.name,
				RequestedQty: line.quantity,
				AvailableQty: available,
			})
	}
	return nil
}
