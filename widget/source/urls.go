package source

import (
	"fmt"
	"net/url"
	"strconv"
)

func fragmentURL(base string, req Request, sectionID string) string {
	query := url.Values{}
	query.Set("product_id", req.ProductID)
	query.Set("section_id", sectionID)
	query.Set("intent", req.intentOrDefault())
	return fmt.Sprintf("%s/recommendations/fragment?%s", base, query.Encode())
}

func recommendationsURL(base string, req Request) string {
	query := url.Values{}
	query.Set("product_id", req.ProductID)
	query.Set("limit", strconv.Itoa(req.limitOrDefault()))
	query.Set("intent", req.intentOrDefault())
	return fmt.Sprintf("%s/recommendations/products.json?%s", base, query.Encode())
}

func collectionURL(base string, req Request) string {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(req.limitOrDefault()))
	return fmt.Sprintf(
		"%s/collections/%s/products.json?%s",
		base, url.PathEscape(req.CollectionHandle), query.Encode(),
	)
}

func (r Request) intentOrDefault() string {
	if r.Intent == "" {
		return DefaultIntent
	}
	return r.Intent
}

func (r Request) sectionOrDefault() string {
	if r.SectionID == "" {
		return DefaultSectionID
	}
	return r.SectionID
}

func (r Request) limitOrDefault() int {
	if r.Limit <= 0 {
		return DefaultLimit
	}
	return r.Limit
}
