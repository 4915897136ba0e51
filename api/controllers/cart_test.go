package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartsvc "github.com/kartik48/sunitas-creations/internal/cart"
	"github.com/kartik48/sunitas-creations/internal/identity"
	pkgerrors "github.com/kartik48/sunitas-creations/pkg/errors"
)

type stubCartService struct {
	view *cartsvc.View
	line *cartsvc.LineView
	err  error
}

func (s stubCartService) Add(ctx context.Context, scope identity.CartScope, productID uuid.UUID, quantity int) (*cartsvc.LineView, error) {
	return s.line, s.err
}

func (s stubCartService) UpdateQuantity(ctx context.Context, scope identity.CartScope, lineID uuid.UUID, quantity int) (*cartsvc.LineView, error) {
	return s.line, s.err
}

func (s stubCartService) Remove(ctx context.Context, scope identity.CartScope, lineID uuid.UUID) error {
	return s.err
}

func (s stubCartService) Clear(ctx context.Context, scope identity.CartScope) error {
	return s.err
}

func (s stubCartService) Get(ctx context.Context, scope identity.CartScope) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s stubCartService) Count(ctx context.Context, scope identity.CartScope) (int, error) {
	if s.view == nil {
		return 0, s.err
	}
	return s.view.TotalQuantity, s.err
}

func guestRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(identity.WithSessionID(req.Context(), uuid.NewString()))
}

func TestCartGetSuccess(t *testing.T) {
	view := &cartsvc.View{
		Items: []cartsvc.LineView{{
			ID:        uuid.New(),
			ProductID: uuid.New(),
			Name:      "Clay Diya",
			Price:     decimal.RequireFromString("150.00"),
			Quantity:  2,
			LineTotal: decimal.RequireFromString("300.00"),
		}},
		Subtotal:      decimal.RequireFromString("300.00"),
		TotalQuantity: 2,
	}
	handler := CartGet(stubCartService{view: view}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, guestRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalQuantity != 2 {
		t.Fatalf("unexpected total quantity: %d", envelope.Data.TotalQuantity)
	}
	if len(envelope.Data.Items) != 1 || envelope.Data.Items[0].Name != "Clay Diya" {
		t.Fatalf("unexpected items: %+v", envelope.Data.Items)
	}
}

func TestCartGetMissingIdentity(t *testing.T) {
	handler := CartGet(stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user or session, got %d", resp.Code)
	}
}

func TestCartAddSuccess(t *testing.T) {
	line := &cartsvc.LineView{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		Name:      "Jute Basket",
		Quantity:  1,
	}
	handler := CartAdd(stubCartService{line: line}, nil)

	body := `{"product_id":"` + line.ProductID.String() + `","quantity":1}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
}

func TestCartAddInvalidBody(t *testing.T) {
	handler := CartAdd(stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/cart/items", `{"quantity":0}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", resp.Code)
	}
}

func TestCartAddInsufficientStock(t *testing.T) {
	stockErr := pkgerrors.New(pkgerrors.CodeInsufficientStock, "only 2 left")
	handler := CartAdd(stubCartService{err: stockErr}, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":5}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}
