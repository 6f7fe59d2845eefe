package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/encoding"
)

type ImportResult struct {
	Created []*Product
	Skipped []RowError
}

// Import creates catalog entries from a CSV sheet. Rows that fail validation
// or collide with an existing name are reported in Skipped; any other error
// aborts the import.
func (s *Service) Import(ctx context.Context, ownerID uuid.UUID, r io.Reader) (*ImportResult, error) {
	utf8Reader, charset, err := encoding.Detect(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	rows, rowErrs, err := ParseCSV(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	slog.Debug("importing products", "owner", ownerID, "rows", len(rows), "charset", charset)

	result := &ImportResult{Skipped: rowErrs}

	for _, row := range rows {
		p, err := s.Create(ctx, ownerID, row.Params)
		if err != nil {
			if errors.Is(err, ErrDuplicateName) || errors.Is(err, ErrDuplicateBarcode) || errors.Is(err, ErrInvalidInput) {
				result.Skipped = append(result.Skipped, RowError{Line: row.Line, Name: row.Params.Name, Reason: err.Error()})
				continue
			}

			return nil, fmt.Errorf("importing line %d: %w", row.Line, err)
		}

		result.Created = append(result.Created, p)
	}

	return result, nil
}
