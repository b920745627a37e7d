package models

import "github.com/shopspring/decimal"

// ProductRecord is one row of the sales dataset. Records are created once at
// load time and never mutated; filtering and aggregation work on copies.
type ProductRecord struct {
	ProductID   string          `json:"product_id"`
	Position    string          `json:"position"`
	OnPromotion bool            `json:"on_promotion"`
	Category    string          `json:"category"`
	Season      string          `json:"season"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Origin      string          `json:"origin"`
	Material    string          `json:"material,omitempty"`
	SalesVolume int             `json:"sales_volume"`
}

// Revenue is price times units sold, exact.
func (r ProductRecord) Revenue() decimal.Decimal {
	return r.Price.Mul(decimal.NewFromInt(int64(r.SalesVolume)))
}

// Table is an ordered, read-only sequence of records.
type Table []ProductRecord

// FilterSpec holds optional inclusion predicates. A nil/empty field means no
// restriction on that dimension. Set predicates OR their values; predicates
// AND together. Range bounds are inclusive.
type FilterSpec struct {
	Categories  []string
	Seasons     []string
	Origins     []string
	Materials   []string
	Positions   []string
	OnPromotion *bool
	PriceMin    *decimal.Decimal
	PriceMax    *decimal.Decimal
	SalesMin    *int
	SalesMax    *int
}

type GroupRow struct {
	Key           []string        `json:"key"`
	Count         int             `json:"count"`
	SumSales      int64           `json:"sum_sales"`
	AvgSales      float64         `json:"avg_sales"`
	SumPrice      decimal.Decimal `json:"sum_price"`
	AvgPrice      float64         `json:"avg_price"`
	SumRevenue    decimal.Decimal `json:"sum_revenue"`
	PromotionRate float64         `json:"promotion_rate"`
}

type AggregationResult struct {
	GroupBy []string   `json:"group_by"`
	Groups  []GroupRow `json:"groups"`
}

type RowSkip struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type LoadReport struct {
	RowsLoaded  int       `json:"rows_loaded"`
	RowsSkipped int       `json:"rows_skipped"`
	Skips       []RowSkip `json:"skips,omitempty"`
}

type Summary struct {
	Products         int             `json:"products"`
	TotalSalesVolume int64           `json:"total_sales_volume"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	AvgPrice         float64         `json:"avg_price"`
	TopMaterial      string          `json:"top_material"`
}
