package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"retail-dashboard/internal/models"
)

var exportHeader = []string{
	"product_id",
	"position",
	"on_promotion",
	"category",
	"season",
	"price",
	"description",
	"origin",
	"material",
	"sales_volume",
}

// WriteTable writes a table (usually a filtered view) as delimited text with
// a header row, for the dashboard's download button. Delimiter is ',' for
// CSV or '\t' for TSV.
func WriteTable(w io.Writer, table models.Table, delimiter rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter

	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rec := range table {
		row := []string{
			rec.ProductID,
			rec.Position,
			strconv.FormatBool(rec.OnPromotion),
			rec.Category,
			rec.Season,
			rec.Price.String(),
			rec.Description,
			rec.Origin,
			rec.Material,
			strconv.Itoa(rec.SalesVolume),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", rec.ProductID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
