package checkout

import (
	"crypto/rand"
	"fmt"
)

const (
	orderNumberPrefix  = "ORD-"
	orderNumberLength  = 10
	orderNumberCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// newOrderNumber generates a customer-facing order reference. Collisions are
// possible, so order creation retries on a unique violation.
func newOrderNumber() (string, error) {
	buf := make([]byte, orderNumberLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating order number: %w", err)
	}
	for i, b := range buf {
		buf[i] = orderNumberCharset[int(b)%len(orderNumberCharset)]
	}
	return orderNumberPrefix + string(buf), nil
}
