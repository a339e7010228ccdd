// Package sheet reads and writes the ingredient price list as a spreadsheet.
//
// Both .xlsx and .csv use the same five columns. Import is lenient: headers
// are matched after trimming and upper-casing, prices accept a decimal comma
// and anything unparseable reads as zero.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Simplici0/costeo/internal/ledger"
)

// SheetName is the worksheet written on export.
const SheetName = "COSTES"

const (
	colName      = "INGREDIENTE"
	colUnit      = "UNIDAD"
	colPrice     = "PRECIO_COMPRA"
	colSalePrice = "PVP_VENTA_EXTRA"
	colVisible   = "VENTA_ACTIVA"

	aliasName      = "NOMBRE"
	aliasPrice     = "PRECIO"
	aliasSalePrice = "PVP"

	yes = "SI"
	no  = "NO"
)

// Columns is the export header row in order.
var Columns = []string{colName, colUnit, colPrice, colSalePrice, colVisible}

var (
	// ErrNoValidRows is returned when a readable source yields no row with a
	// name.
	ErrNoValidRows = errors.New("no valid ingredient rows")
	// ErrUnreadable is returned when the source cannot be parsed at all.
	ErrUnreadable = errors.New("unreadable spreadsheet")
	// ErrUnknownFormat is returned for formats other than xlsx and csv.
	ErrUnknownFormat = errors.New("unknown spreadsheet format")
)

// Format is a supported file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "xlsx" or "csv" in any case, with or without a dot.
// Empty means xlsx.
func ParseFormat(raw string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), ".") {
	case "", "xlsx":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("format %q: %w", raw, ErrUnknownFormat)
	}
}

// FormatFromFilename picks the format from a file extension.
func FormatFromFilename(name string) (Format, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return "", fmt.Errorf("file %q has no extension: %w", name, ErrUnknownFormat)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type used when serving an export.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Read parses ingredients from r. The returned entries carry fresh IDs and
// normalised names and are meant to be passed to ledger.Merge.
func Read(r io.Reader, f Format) ([]ledger.Ingredient, error) {
	var (
		rows [][]string
		err  error
	)
	switch f {
	case FormatXLSX:
		rows, err = readXLSX(r)
	case FormatCSV:
		rows, err = readCSV(r)
	default:
		return nil, fmt.Errorf("read %q: %w", f, ErrUnknownFormat)
	}
	if err != nil {
		return nil, err
	}
	return Parse(rows)
}

// Write serialises the ledger in storage order.
func Write(w io.Writer, f Format, l ledger.Ledger) error {
	switch f {
	case FormatXLSX:
		return writeXLSX(w, l)
	case FormatCSV:
		return writeCSV(w, l)
	default:
		return fmt.Errorf("write %q: %w", f, ErrUnknownFormat)
	}
}

// Parse turns raw rows into ingredients. The first row is the header.
func Parse(rows [][]string) ([]ledger.Ingredient, error) {
	if len(rows) < 2 {
		return nil, ErrNoValidRows
	}

	header := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		key := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := header[key]; !dup {
			header[key] = i
		}
	}

	cell := func(row []string, keys ...string) string {
		for _, k := range keys {
			idx, ok := header[k]
			if !ok || idx >= len(row) {
				continue
			}
			if v := strings.TrimSpace(row[idx]); v != "" {
				return v
			}
		}
		return ""
	}

	out := make([]ledger.Ingredient, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := cell(row, colName, aliasName)
		if name == "" {
			continue
		}
		out = append(out, ledger.NewIngredient(
			name,
			ledger.ParseUnit(cell(row, colUnit)),
			parseAmount(cell(row, colPrice, aliasPrice)),
			parseAmount(cell(row, colSalePrice, aliasSalePrice)),
			strings.EqualFold(cell(row, colVisible), yes),
		))
	}
	if len(out) == 0 {
		return nil, ErrNoValidRows
	}
	return out, nil
}

func parseAmount(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func flag(v bool) string {
	if v {
		return yes
	}
	return no
}
