package product

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	colName      = "name"
	colPrice     = "price"
	colStock     = "stock"
	colCategory  = "category"
	colBarcode   = "barcode"
	colThreshold = "low_stock_threshold"
)

// Row is one parsed line of a catalog CSV.
type Row struct {
	Line   int
	Params CreateParams
}

// RowError describes a line that could not be imported.
type RowError struct {
	Line   int    `json:"line"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// ParseCSV reads a catalog sheet. The header row may appear after any number
// of preamble lines and must contain at least the name and price columns.
// Both ',' and ';' separated files are accepted; with ';' prices may use a
// decimal comma ("1.234,56").
func ParseCSV(r io.Reader) ([]Row, []RowError, error) {
	br := bufio.NewReader(r)

	comma, err := sniffSeparator(br)
	if err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(br)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var (
		rows    []Row
		rowErrs []RowError
		cols    map[string]int
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, nil, fmt.Errorf("reading csv: %w", err)
		}

		line, _ := reader.FieldPos(0)

		if cols == nil {
			cols = headerColumns(record)
			continue
		}

		if isBlank(record) {
			continue
		}

		params, err := parseRecord(record, cols, comma)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Name: field(record, cols, colName), Reason: err.Error()})
			continue
		}

		rows = append(rows, Row{Line: line, Params: params})
	}

	if cols == nil {
		return nil, nil, fmt.Errorf("csv header with %q and %q columns not found", colName, colPrice)
	}

	return rows, rowErrs, nil
}

// headerColumns returns the column index map when record looks like the
// header, nil otherwise.
func headerColumns(record []string) map[string]int {
	cols := make(map[string]int, len(record))

	for i, col := range record {
		key := strings.ToLower(strings.TrimSpace(col))
		key = strings.ReplaceAll(key, " ", "_")

		switch key {
		case colName, colPrice, colStock, colCategory, colBarcode, colThreshold:
			cols[key] = i
		case "lowstockthreshold", "threshold":
			cols[colThreshold] = i
		}
	}

	_, hasName := cols[colName]
	_, hasPrice := cols[colPrice]

	if !hasName || !hasPrice {
		return nil
	}

	return cols
}

func parseRecord(record []string, cols map[string]int, comma rune) (CreateParams, error) {
	params := CreateParams{
		Name:     field(record, cols, colName),
		Category: field(record, cols, colCategory),
	}

	if params.Name == "" {
		return params, fmt.Errorf("name is empty")
	}

	price, err := parsePrice(field(record, cols, colPrice), comma == ';')
	if err != nil {
		return params, fmt.Errorf("invalid price: %w", err)
	}

	params.Price = price

	if s := field(record, cols, colStock); s != "" {
		stock, err := strconv.Atoi(s)
		if err != nil {
			return params, fmt.Errorf("invalid stock %q", s)
		}

		params.Stock = stock
	}

	if s := field(record, cols, colBarcode); s != "" {
		params.Barcode = &s
	}

	if s := field(record, cols, colThreshold); s != "" {
		threshold, err := strconv.Atoi(s)
		if err != nil {
			return params, fmt.Errorf("invalid low stock threshold %q", s)
		}

		params.LowStockThreshold = &threshold
	}

	return params, nil
}

// parsePrice accepts "12.50", and with decimalComma also "12,50" and "1.234,56".
func parsePrice(s string, decimalComma bool) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)

	if decimalComma && strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	return decimal.NewFromString(clean)
}

func sniffSeparator(br *bufio.Reader) (rune, error) {
	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, fmt.Errorf("peek: %w", err)
	}

	if strings.Count(string(buf), ";") > strings.Count(string(buf), ",") {
		return ';', nil
	}

	return ',', nil
}

func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[idx])
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}

	return true
}
