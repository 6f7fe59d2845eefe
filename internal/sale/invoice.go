package sale

import (
	"fmt"
	"time"
)

// FormatInvoiceNumber renders INV-YYMMDD-NNNN for the calendar day of now in
// loc. Sequences beyond 9999 keep all their digits.
func FormatInvoiceNumber(now time.Time, loc *time.Location, seq int64) string {
	return fmt.Sprintf("INV-%s-%04d", now.In(loc).Format("060102"), seq)
}
