package product

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrDuplicateName     = errors.New("product already exists")
	ErrDuplicateBarcode  = errors.New("barcode already in use")
	ErrInvalidInput      = errors.New("invalid product")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError reports a request for more units than are on hand.
// It matches ErrInsufficientStock with errors.Is.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d", e.ProductName, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
