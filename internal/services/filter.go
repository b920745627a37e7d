package services

import (
	"slices"
	"strings"

	apperrors "retail-dashboard/internal/errors"
	"retail-dashboard/internal/models"
)

// dimensions maps group-by / filter dimension names to record accessors.
// Only categorical fields are listed; continuous fields must be bucketed by
// the caller before they can be grouped on.
var dimensions = map[string]func(models.ProductRecord) string{
	"category": func(r models.ProductRecord) string { return r.Category },
	"season":   func(r models.ProductRecord) string { return r.Season },
	"origin":   func(r models.ProductRecord) string { return r.Origin },
	"material": func(r models.ProductRecord) string { return r.Material },
	"position": func(r models.ProductRecord) string { return r.Position },
	"on_promotion": func(r models.ProductRecord) string {
		if r.OnPromotion {
			return "Yes"
		}
		return "No"
	},
}

var seasonOrder = map[string]int{
	"Spring": 0,
	"Summer": 1,
	"Autumn": 2,
	"Winter": 3,
}

// ApplyFilter returns the records of table satisfying every predicate in
// spec, in their original order. The input table is never modified; an empty
// result is a valid outcome.
func ApplyFilter(table models.Table, spec models.FilterSpec) models.Table {
	categories := normalizeSet(spec.Categories)
	seasons := normalizeSet(spec.Seasons)
	origins := normalizeSet(spec.Origins)
	materials := normalizeSet(spec.Materials)
	positions := normalizeSet(spec.Positions)

	out := make(models.Table, 0, len(table))
	for _, rec := range table {
		if !inSet(categories, rec.Category) ||
			!inSet(seasons, rec.Season) ||
			!inSet(origins, rec.Origin) ||
			!inSet(materials, rec.Material) ||
			!inSet(positions, rec.Position) {
			continue
		}
		if spec.OnPromotion != nil && rec.OnPromotion != *spec.OnPromotion {
			continue
		}
		if spec.PriceMin != nil && rec.Price.Cmp(*spec.PriceMin) < 0 {
			continue
		}
		if spec.PriceMax != nil && rec.Price.Cmp(*spec.PriceMax) > 0 {
			continue
		}
		if spec.SalesMin != nil && rec.SalesVolume < *spec.SalesMin {
			continue
		}
		if spec.SalesMax != nil && rec.SalesVolume > *spec.SalesMax {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// DimensionValues returns the sorted distinct values of a dimension, for
// populating filter widgets. Seasons sort in calendar order, everything else
// lexicographically.
func DimensionValues(table models.Table, dimension string) ([]string, error) {
	name := strings.ToLower(strings.TrimSpace(dimension))
	accessor, ok := dimensions[name]
	if !ok {
		return nil, apperrors.UnknownDimension(dimension)
	}

	distinct := make(map[string]struct{})
	for _, rec := range table {
		if v := accessor(rec); v != "" {
			distinct[v] = struct{}{}
		}
	}

	values := make([]string, 0, len(distinct))
	for v := range distinct {
		values = append(values, v)
	}

	if name == "season" {
		slices.SortFunc(values, compareSeasons)
	} else {
		slices.Sort(values)
	}
	return values, nil
}

func compareSeasons(a, b string) int {
	ra, aKnown := seasonOrder[a]
	rb, bKnown := seasonOrder[b]
	switch {
	case aKnown && bKnown:
		return ra - rb
	case aKnown:
		return -1
	case bKnown:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func normalizeSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[normalizeValue(v)] = struct{}{}
	}
	return set
}

func inSet(set map[string]struct{}, value string) bool {
	if set == nil {
		return true
	}
	_, ok := set[value]
	return ok
}
