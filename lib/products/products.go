// Package products holds the normalized product record and the rules for
// deriving it from the loosely shaped JSON the recommendation endpoints
// return. Field names drift between upstreams (image/featured_image/images,
// string vs. numeric ids, decimal-string vs. minor-unit prices), so
// everything funnels through Normalize, which never fails: a missing or
// unreadable field degrades to its zero value.
package products

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type Product struct {
	ID             string
	Title          string
	URL            string
	ImageURL       string
	Price          int64
	CompareAtPrice int64
}

// Normalize maps one raw upstream product object to a Product.
func Normalize(raw map[string]any) Product {
	var p Product
	p.ID = stringField(raw, "id", "handle")
	p.Title = stringField(raw, "title", "name")
	p.URL = stringField(raw, "url", "product_url")
	p.ImageURL = imageField(raw)
	p.Price = priceField(raw, "price", "price_min")
	p.CompareAtPrice = priceField(raw, "compare_at_price", "compare_at_price_min")
	return p
}

// DecodeList decodes a `{"products": [...]}` payload, normalizing every
// entry. Entries that are not objects are dropped.
func DecodeList(body []byte) ([]Product, error) {
	var payload struct {
		Products []any `json:"products"`
	}
	err := json.Unmarshal(body, &payload)
	if err != nil {
		return nil, err
	}

	out := make([]Product, 0, len(payload.Products))
	for _, entry := range payload.Products {
		raw, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Normalize(raw))
	}
	return out, nil
}

func stringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return formatNumericID(v)
		}
	}
	return ""
}

func formatNumericID(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func imageField(raw map[string]any) string {
	for _, key := range []string{"image", "featured_image"} {
		if src := imageValue(raw[key]); src != "" {
			return src
		}
	}
	if images, ok := raw["images"].([]any); ok && len(images) > 0 {
		return imageValue(images[0])
	}
	return ""
}

func imageValue(v any) string {
	switch img := v.(type) {
	case string:
		return img
	case map[string]any:
		src, _ := img["src"].(string)
		return src
	}
	return ""
}

// priceField reads a price in minor currency units. Numbers are taken as
// minor units directly, strings are parsed as decimal major units
// ("12.34" -> 1234).
func priceField(raw map[string]any, keys ...string) int64 {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case float64:
			return int64(math.Round(v))
		case string:
			if cents, ok := parseDecimalPrice(v); ok {
				return cents
			}
		}
	}
	return 0
}

func parseDecimalPrice(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	major, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int64(math.Round(major * 100)), true
}
