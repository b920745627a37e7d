package services

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "retail-dashboard/internal/errors"
	"retail-dashboard/internal/models"
)

const (
	MetricCount         = "count"
	MetricSumSales      = "sum_sales"
	MetricAvgSales      = "avg_sales"
	MetricSumPrice      = "sum_price"
	MetricAvgPrice      = "avg_price"
	MetricSumRevenue    = "sum_revenue"
	MetricPromotionRate = "promotion_rate"
)

var knownMetrics = map[string]struct{}{
	MetricCount:         {},
	MetricSumSales:      {},
	MetricAvgSales:      {},
	MetricSumPrice:      {},
	MetricAvgPrice:      {},
	MetricSumRevenue:    {},
	MetricPromotionRate: {},
}

// keySep joins dimension values into a map key; unit separator cannot occur
// in normalized values.
const keySep = "\x1f"

// Aggregate groups table by the named dimensions and computes per-group
// metrics. Output order is deterministic: the first requested metric
// descending (sales-volume sum when metrics is empty), ties broken by key
// tuple ascending. The function is stateless; identical inputs always
// produce identical results.
func Aggregate(table models.Table, groupBy []string, metrics []string) (*models.AggregationResult, error) {
	if len(groupBy) == 0 {
		return nil, apperrors.Validation("group_by must name at least one dimension")
	}

	names := make([]string, len(groupBy))
	accessors := make([]func(models.ProductRecord) string, len(groupBy))
	for i, dim := range groupBy {
		name := strings.ToLower(strings.TrimSpace(dim))
		accessor, ok := dimensions[name]
		if !ok {
			return nil, apperrors.UnknownDimension(dim)
		}
		names[i] = name
		accessors[i] = accessor
	}

	sortMetric := MetricSumSales
	for i, m := range metrics {
		name := strings.ToLower(strings.TrimSpace(m))
		if _, ok := knownMetrics[name]; !ok {
			return nil, apperrors.Validation(fmt.Sprintf("unknown metric %q", m))
		}
		if i == 0 {
			sortMetric = name
		}
	}

	type bucket struct {
		key        []string
		count      int
		sumSales   int64
		sumPrice   decimal.Decimal
		sumRevenue decimal.Decimal
		promoted   int
	}

	buckets := make(map[string]*bucket)
	for _, rec := range table {
		key := make([]string, len(accessors))
		for i, accessor := range accessors {
			key[i] = accessor(rec)
		}
		mapKey := strings.Join(key, keySep)

		b, ok := buckets[mapKey]
		if !ok {
			b = &bucket{key: key}
			buckets[mapKey] = b
		}
		b.count++
		b.sumSales += int64(rec.SalesVolume)
		b.sumPrice = b.sumPrice.Add(rec.Price)
		b.sumRevenue = b.sumRevenue.Add(rec.Revenue())
		if rec.OnPromotion {
			b.promoted++
		}
	}

	groups := make([]models.GroupRow, 0, len(buckets))
	for _, b := range buckets {
		n := float64(b.count)
		groups = append(groups, models.GroupRow{
			Key:           b.key,
			Count:         b.count,
			SumSales:      b.sumSales,
			AvgSales:      float64(b.sumSales) / n,
			SumPrice:      b.sumPrice,
			AvgPrice:      b.sumPrice.InexactFloat64() / n,
			SumRevenue:    b.sumRevenue,
			PromotionRate: float64(b.promoted) / n,
		})
	}

	slices.SortFunc(groups, func(a, b models.GroupRow) int {
		if c := compareMetric(sortMetric, a, b); c != 0 {
			return -c
		}
		return slices.Compare(a.Key, b.Key)
	})

	return &models.AggregationResult{GroupBy: names, Groups: groups}, nil
}

func compareMetric(name string, a, b models.GroupRow) int {
	switch name {
	case MetricCount:
		return cmp.Compare(a.Count, b.Count)
	case MetricSumSales:
		return cmp.Compare(a.SumSales, b.SumSales)
	case MetricAvgSales:
		return cmp.Compare(a.AvgSales, b.AvgSales)
	case MetricSumPrice:
		return a.SumPrice.Cmp(b.SumPrice)
	case MetricAvgPrice:
		return cmp.Compare(a.AvgPrice, b.AvgPrice)
	case MetricSumRevenue:
		return a.SumRevenue.Cmp(b.SumRevenue)
	case MetricPromotionRate:
		return cmp.Compare(a.PromotionRate, b.PromotionRate)
	}
	return 0
}

// Summarize computes the dashboard key-metric cards: product count, units
// sold, exact total revenue, average price, and the most common material
// (ties broken by ascending name).
func Summarize(table models.Table) models.Summary {
	summary := models.Summary{Products: len(table)}

	var sumPrice decimal.Decimal
	materialCounts := make(map[string]int)
	for _, rec := range table {
		summary.TotalSalesVolume += int64(rec.SalesVolume)
		summary.TotalRevenue = summary.TotalRevenue.Add(rec.Revenue())
		sumPrice = sumPrice.Add(rec.Price)
		if rec.Material != "" {
			materialCounts[rec.Material]++
		}
	}

	if len(table) > 0 {
		summary.AvgPrice = sumPrice.InexactFloat64() / float64(len(table))
	}

	best, bestCount := "", 0
	for material, count := range materialCounts {
		if count > bestCount || (count == bestCount && material < best) {
			best, bestCount = material, count
		}
	}
	summary.TopMaterial = best

	return summary
}

// TopProducts returns the best sellers: records ordered by sales volume
// descending, ties by product_id ascending, truncated to limit.
func TopProducts(table models.Table, limit int) models.Table {
	out := slices.Clone(table)
	slices.SortFunc(out, func(a, b models.ProductRecord) int {
		if c := cmp.Compare(b.SalesVolume, a.SalesVolume); c != 0 {
			return c
		}
		return strings.Compare(a.ProductID, b.ProductID)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
