package stock

import (
	pkgerrors "github.com/kartik48/sunitas-creations/pkg/errors"
)

// ShortageDetails describes a stock rejection in API responses.
type ShortageDetails struct {
	ProductName  string `json:"product_name"`
	RequestedQty int    `json:"requested_qty"`
	AvailableQty int    `json:"available_qty"`
}

// Check validates that the requested quantity fits within the available
// inventory. Requested quantities must be positive; available may be zero.
func Check(productName string, requested, available int) error {
	if requested <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if requested > available {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "requested quantity exceeds available stock").
			WithDetails(ShortageDetails{
				ProductName:  productName,
				RequestedQty: requested,
				AvailableQty: available,
			})
	}
	return nil
}
