package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "retail-dashboard/internal/errors"
	"retail-dashboard/internal/models"
)

// Filter parameters accepted on every data endpoint. Multi-value dimensions
// take repeated params or comma-separated lists; ranges are inclusive.
func parseFilterSpec(q url.Values) (models.FilterSpec, error) {
	spec := models.FilterSpec{
		Categories: parseList(q, "category"),
		Seasons:    parseList(q, "season"),
		Origins:    parseList(q, "origin"),
		Materials:  parseList(q, "material"),
		Positions:  parseList(q, "position"),
	}

	if raw := q.Get("promotion"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return spec, apperrors.BadRequestWrap(err, fmt.Sprintf("invalid promotion value %q", raw))
		}
		spec.OnPromotion = &v
	}

	var err error
	if spec.PriceMin, err = parsePriceParam(q, "price_min"); err != nil {
		return spec, err
	}
	if spec.PriceMax, err = parsePriceParam(q, "price_max"); err != nil {
		return spec, err
	}
	if spec.SalesMin, err = parseIntParam(q, "sales_min"); err != nil {
		return spec, err
	}
	if spec.SalesMax, err = parseIntParam(q, "sales_max"); err != nil {
		return spec, err
	}

	return spec, nil
}

func parseList(q url.Values, key string) []string {
	var values []string
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

func parsePriceParam(q url.Values, key string) (*decimal.Decimal, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperrors.BadRequestWrap(err, fmt.Sprintf("invalid %s value %q", key, raw))
	}
	return &v, nil
}

func parseIntParam(q url.Values, key string) (*int, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.BadRequestWrap(err, fmt.Sprintf("invalid %s value %q", key, raw))
	}
	return &v, nil
}

func parseCommaList(q url.Values, key string) []string {
	var values []string
	for _, part := range strings.Split(q.Get(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func parseLimit(q url.Values, key string, fallback int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperrors.BadRequest(fmt.Sprintf("invalid %s value %q", key, raw))
	}
	return v, nil
}
