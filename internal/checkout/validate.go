package checkout

import (
	"github.com/go-playground/validator/v10"

	"github.com/kartik48/sunitas-creations/pkg/enums"
	pkgerrors "github.com/kartik48/sunitas-creations/pkg/errors"
)

var validate = validator.New()

// Input carries the customer details submitted with a checkout. Field
// validation runs after the cart and stock preconditions, so an empty cart is
// reported before a missing phone number.
type Input struct {
	CustomerName    string              `json:"customer_name" validate:"required,max=255"`
	CustomerEmail   string              `json:"customer_email" validate:"required,email,max=255"`
	CustomerPhone   string              `json:"customer_phone" validate:"required,max=20"`
	ShippingAddress string              `json:"shipping_address" validate:"required,max=2000"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method" validate:"required"`
	Notes           *string             `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func validateInput(input Input) error {
	if err := validate.Struct(input); err != nil {
		fields := map[string]string{}
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout details").WithDetails(fields)
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout details").
			WithDetails(map[string]string{"PaymentMethod": "oneof"})
	}
	return nil
}
