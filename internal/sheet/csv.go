package sheet

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Simplici0/costeo/internal/ledger"
)

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w: %w", ErrUnreadable, err)
	}
	return rows, nil
}

func writeCSV(w io.Writer, l ledger.Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, ing := range l {
		record := []string{
			ing.Name,
			string(ing.Unit),
			formatAmount(ing.PricePerUnit),
			formatAmount(ing.DefaultSalePrice),
			flag(ing.ShowInSales),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write %s: %w", ing.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
