package sale

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("sale not found")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidInput    = errors.New("invalid sale")
	ErrProductNotFound = errors.New("product not found")
)

// ProductNotFoundError names the product a checkout line referenced.
type ProductNotFoundError struct {
	ProductID uuid.UUID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error {
	return ErrProductNotFound
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
