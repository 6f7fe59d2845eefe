package receipt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/sale"
)

type SaleLister interface {
	List(ctx context.Context, ownerID uuid.UUID, params sale.ListParams) (*sale.Page, error)
}

// Item links an exported sale to the receipt file written for it.
type Item struct {
	Sale     *sale.Sale
	FilePath string
}

type Exporter struct {
	sales SaleLister
	opts  Options
}

func NewExporter(sales SaleLister, opts Options) *Exporter {
	return &Exporter{sales: sales, opts: opts}
}

// Export writes one <invoice>.txt receipt per sale in the date range to
// outputDir, walking every page of the history.
func (e *Exporter) Export(ctx context.Context, ownerID uuid.UUID, params sale.ListParams, outputDir string) ([]Item, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	params.Page = 1
	params.Limit = sale.MaxPageSize

	var items []Item

	for {
		page, err := e.sales.List(ctx, ownerID, params)
		if err != nil {
			return nil, fmt.Errorf("listing sales: %w", err)
		}

		for _, s := range page.Sales {
			path := filepath.Join(outputDir, s.InvoiceNumber+".txt")

			if err := os.WriteFile(path, []byte(String(s, e.opts)), 0o644); err != nil {
				return nil, fmt.Errorf("writing receipt %s: %w", s.InvoiceNumber, err)
			}

			items = append(items, Item{Sale: s, FilePath: path})
		}

		if page.CurrentPage >= page.TotalPages {
			break
		}

		params.Page++
	}

	return items, nil
}

// Summary lists exported receipts one per line, suitable for pasting into an
// email to the accountant.
func Summary(items []Item, currency string) string {
	if currency == "" {
		currency = "GHS"
	}

	var sb strings.Builder

	for _, item := range items {
		fmt.Fprintf(&sb, "* %s | %s | %s %s | %s\n",
			item.Sale.CreatedAt.Format("2006-01-02"),
			item.Sale.InvoiceNumber,
			currency,
			money(item.Sale.Total),
			filepath.Base(item.FilePath),
		)
	}

	return sb.String()
}
