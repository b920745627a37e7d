package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	apperrors "retail-dashboard/internal/errors"
	"retail-dashboard/internal/models"
)

const (
	parseBatchSize  = 5000
	maxParseWorkers = 8
)

var requiredColumns = []string{
	"product_id",
	"position",
	"on_promotion",
	"category",
	"season",
	"price",
	"origin",
	"sales_volume",
}

// Optional columns: description is free text, material only exists in the
// jacket-focused dataset.
var optionalColumns = []string{"description", "material"}

// LoaderOptions controls strictness and delimiter handling. Delimiter 0 means
// sniff tab-vs-comma from the header line, matching how the upstream
// dashboards auto-detected pasted TSV data.
type LoaderOptions struct {
	Strict    bool
	Delimiter rune
}

type columnIndex map[string]int

// Load reads and validates the dataset at path. See LoadReader.
func Load(ctx context.Context, path string, opts LoaderOptions) (models.Table, *models.LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return LoadReader(ctx, f, opts)
}

// LoadReader parses the dataset into an immutable table plus a load report.
// Missing required columns and empty inputs are fatal; per-row coercion
// failures are skipped and reported unless opts.Strict is set, in which case
// the first bad row aborts the load.
func LoadReader(ctx context.Context, r io.Reader, opts LoaderOptions) (models.Table, *models.LoadReport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read dataset: %w", err)
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(data)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, apperrors.EmptyDataset()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, nil, err
	}

	type rawRow struct {
		line   int
		fields []string
	}

	var rows []rawRow
	var csvSkips []models.RowSkip
	line := 1
	for {
		line++
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if opts.Strict {
				return nil, nil, apperrors.ValidationWrap(err, fmt.Sprintf("malformed row at line %d", line))
			}
			csvSkips = append(csvSkips, models.RowSkip{Line: line, Reason: fmt.Sprintf("malformed row: %v", err)})
			continue
		}
		rows = append(rows, rawRow{line: line, fields: fields})
	}

	if len(rows) == 0 && len(csvSkips) == 0 {
		return nil, nil, apperrors.EmptyDataset()
	}

	// Coerce rows in batches across workers; results are indexed so the
	// table keeps the file order.
	type parsed struct {
		rec models.ProductRecord
		err error
	}
	results := make([]parsed, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParseWorkers)
	for start := 0; start < len(rows); start += parseBatchSize {
		end := min(start+parseBatchSize, len(rows))
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			for i := start; i < end; i++ {
				results[i].rec, results[i].err = parseRecord(rows[i].fields, cols)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	report := &models.LoadReport{Skips: csvSkips, RowsSkipped: len(csvSkips)}
	table := make(models.Table, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for i, res := range results {
		rowErr := res.err
		if rowErr == nil {
			if _, dup := seen[res.rec.ProductID]; dup {
				rowErr = fmt.Errorf("duplicate product_id %q", res.rec.ProductID)
			}
		}
		if rowErr != nil {
			if opts.Strict {
				return nil, nil, apperrors.ValidationWrap(rowErr, fmt.Sprintf("row rejected at line %d", rows[i].line))
			}
			report.RowsSkipped++
			report.Skips = append(report.Skips, models.RowSkip{Line: rows[i].line, Reason: rowErr.Error()})
			continue
		}
		seen[res.rec.ProductID] = struct{}{}
		table = append(table, res.rec)
		report.RowsLoaded++
	}

	return table, report, nil
}

func sniffDelimiter(data []byte) rune {
	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}
	if bytes.ContainsRune(firstLine, '\t') {
		return '\t'
	}
	return ','
}

func resolveColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		key = strings.ReplaceAll(key, " ", "_")
		if _, exists := cols[key]; !exists {
			cols[key] = i
		}
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, apperrors.MissingColumn(name)
		}
	}
	for _, name := range optionalColumns {
		if _, ok := cols[name]; !ok {
			cols[name] = -1
		}
	}
	return cols, nil
}

func (c columnIndex) field(fields []string, name string) (string, bool) {
	idx := c[name]
	if idx < 0 || idx >= len(fields) {
		return "", false
	}
	return fields[idx], true
}

func parseRecord(fields []string, cols columnIndex) (models.ProductRecord, error) {
	var rec models.ProductRecord

	for _, name := range requiredColumns {
		if _, ok := cols.field(fields, name); !ok {
			return rec, fmt.Errorf("row has no value for column %q", name)
		}
	}

	id, _ := cols.field(fields, "product_id")
	rec.ProductID = strings.TrimSpace(id)
	if rec.ProductID == "" {
		return rec, fmt.Errorf("empty product_id")
	}

	raw, _ := cols.field(fields, "on_promotion")
	promo, err := parsePromotionFlag(raw)
	if err != nil {
		return rec, err
	}
	rec.OnPromotion = promo

	raw, _ = cols.field(fields, "price")
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return rec, fmt.Errorf("invalid price %q", raw)
	}
	if price.IsNegative() {
		return rec, fmt.Errorf("negative price %q", raw)
	}
	rec.Price = price

	raw, _ = cols.field(fields, "sales_volume")
	volume, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return rec, fmt.Errorf("invalid sales_volume %q", raw)
	}
	if volume < 0 {
		return rec, fmt.Errorf("negative sales_volume %d", volume)
	}
	rec.SalesVolume = volume

	raw, _ = cols.field(fields, "position")
	rec.Position = normalizeValue(raw)
	raw, _ = cols.field(fields, "category")
	rec.Category = normalizeValue(raw)
	raw, _ = cols.field(fields, "season")
	rec.Season = normalizeValue(raw)
	raw, _ = cols.field(fields, "origin")
	rec.Origin = normalizeValue(raw)

	if raw, ok := cols.field(fields, "material"); ok {
		rec.Material = normalizeValue(raw)
	}
	if raw, ok := cols.field(fields, "description"); ok {
		rec.Description = strings.TrimSpace(raw)
	}

	return rec, nil
}

func parsePromotionFlag(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid on_promotion %q", raw)
}

// normalizeValue trims, collapses inner whitespace, and title-cases a
// categorical value so group-by keys are consistent: "  WINTER " and
// "winter" both become "Winter".
func normalizeValue(raw string) string {
	words := strings.Fields(raw)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
