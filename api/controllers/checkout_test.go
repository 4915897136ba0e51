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

	checkoutsvc "github.com/kartik48/sunitas-creations/internal/checkout"
	"github.com/kartik48/sunitas-creations/internal/identity"
	"github.com/kartik48/sunitas-creations/pkg/db/models"
	"github.com/kartik48/sunitas-creations/pkg/enums"
	pkgerrors "github.com/kartik48/sunitas-creations/pkg/errors"
	"github.com/kartik48/sunitas-creations/pkg/metrics"
)

type stubCheckoutService struct {
	order *models.Order
	err   error

	gotUserID uuid.UUID
	gotInput  checkoutsvc.Input
}

func (s *stubCheckoutService) Summary(ctx context.Context, userID uuid.UUID) (*checkoutsvc.Summary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &checkoutsvc.Summary{}, nil
}

func (s *stubCheckoutService) Submit(ctx context.Context, userID uuid.UUID, input checkoutsvc.Input) (*models.Order, error) {
	s.gotUserID = userID
	s.gotInput = input
	return s.order, s.err
}

func checkoutRequest(userID uuid.UUID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(identity.WithUser(req.Context(), userID, "Asha", false))
}

const checkoutBody = `{
	"customer_name": "Asha Verma",
	"customer_email": "asha@example.com",
	"customer_phone": "+91-9876543210",
	"shipping_address": "12 MG Road, Pune",
	"payment_method": "cod"
}`

func TestCheckoutSubmitSuccess(t *testing.T) {
	userID := uuid.New()
	svc := &stubCheckoutService{order: &models.Order{
		ID:          uuid.New(),
		UserID:      userID,
		OrderNumber: "ORD-AB12CD34EF",
		TotalAmount: decimal.RequireFromString("350.00"),
		Status:      enums.OrderStatusPending,
	}}
	handler := CheckoutSubmit(svc, nil, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, checkoutRequest(userID, checkoutBody))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotUserID != userID {
		t.Fatalf("expected user %s passed to service, got %s", userID, svc.gotUserID)
	}
	if svc.gotInput.CustomerEmail != "asha@example.com" {
		t.Fatalf("body not decoded: %+v", svc.gotInput)
	}

	var envelope struct {
		Data models.Order `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderNumber != "ORD-AB12CD34EF" {
		t.Fatalf("unexpected order number: %s", envelope.Data.OrderNumber)
	}
}

func TestCheckoutSubmitEmptyCart(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")}
	m := metrics.NewHTTPMetrics()
	handler := CheckoutSubmit(svc, m, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, checkoutRequest(uuid.New(), checkoutBody))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for an empty cart, got %d", resp.Code)
	}
}

func TestCheckoutSubmitInsufficientStockExposesDetails(t *testing.T) {
	detailErr := pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
		WithDetails(map[string]any{"product_name": "Clay Diya", "available_qty": 1})
	handler := CheckoutSubmit(&stubCheckoutService{err: detailErr}, nil, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, checkoutRequest(uuid.New(), checkoutBody))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Clay Diya") {
		t.Fatalf("expected shortage details in body: %s", resp.Body.String())
	}
}

func TestCheckoutSubmitMalformedBody(t *testing.T) {
	handler := CheckoutSubmit(&stubCheckoutService{}, nil, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, checkoutRequest(uuid.New(), `{"customer_name":`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", resp.Code)
	}
}
