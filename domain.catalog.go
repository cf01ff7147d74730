package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// FacetField enumerates the book attributes which can drive
// selection widgets on the storefront.
type FacetField string

const (
	AuthorFacet   FacetField = "author"
	GenreFacet    FacetField = "genre"
	LocationFacet FacetField = "location"
)

// ParseFacetField validates a facet name against the closed set of
// recognized book attributes.
func ParseFacetField(name string) (FacetField, error) {
	switch FacetField(name) {
	case AuthorFacet, GenreFacet, LocationFacet:
		return FacetField(name), nil
	}
	return "", fmt.Errorf("facet: %w: %q", ErrUnknownFacetField, name)
}

// FilterSpec describes the active catalog filter. A nil bound or an
// empty string field imposes no constraint on the matching books.
type FilterSpec struct {
	TextQuery      string
	GenreEquals    string
	LocationEquals string
	PriceMin       *int64
	PriceMax       *int64
}

// filterSpecKeys is the closed set of query keys recognized when
// building a FilterSpec. Anything else is rejected at construction.
var filterSpecKeys = map[string]struct{}{
	"q":        {},
	"genre":    {},
	"location": {},
	"pricemin": {},
	"pricemax": {},
}

// NewFilterSpec builds a FilterSpec from request query values. Unknown
// keys and non numeric price bounds are construction errors rather than
// silently matching nothing.
func NewFilterSpec(values url.Values) (FilterSpec, error) {
	var spec FilterSpec
	for key := range values {
		if _, ok := filterSpecKeys[key]; !ok {
			return spec, fmt.Errorf("filter: %w: %q", ErrUnknownFilterKey, key)
		}
	}

	spec.TextQuery = values.Get("q")
	spec.GenreEquals = values.Get("genre")
	spec.LocationEquals = values.Get("location")

	if raw := values.Get("pricemin"); raw != "" {
		min, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return spec, fmt.Errorf("filter: invalid pricemin %q: %w", raw, err)
		}
		spec.PriceMin = &min
	}

	if raw := values.Get("pricemax"); raw != "" {
		max, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return spec, fmt.Errorf("filter: invalid pricemax %q: %w", raw, err)
		}
		spec.PriceMax = &max
	}
	return spec, nil
}

// Matches reports whether a single book satisfies every constraint
// carried by the spec.
func (fs FilterSpec) Matches(book Book) bool {
	if q := strings.TrimSpace(fs.TextQuery); q != "" {
		haystack := strings.ToLower(book.Title + " " + book.Author + " " + book.Genre)
		if !strings.Contains(haystack, strings.ToLower(q)) {
			return false
		}
	}

	if fs.GenreEquals != "" && book.Genre != fs.GenreEquals {
		return false
	}

	if fs.LocationEquals != "" && book.Location != fs.LocationEquals {
		return false
	}

	if fs.PriceMin != nil && book.Price < *fs.PriceMin {
		return false
	}

	if fs.PriceMax != nil && book.Price > *fs.PriceMax {
		return false
	}
	return true
}

// ApplyFilter returns the books matching the spec. The filter is stable,
// preserves the relative ordering of the source list and never mutates it.
func ApplyFilter(books []Book, spec FilterSpec) []Book {
	matches := []Book{}
	for _, book := range books {
		if spec.Matches(book) {
			matches = append(matches, book)
		}
	}
	return matches
}

// UniqueValuesOf collects the distinct values of a facet field across
// the list, keeping the insertion order of first occurrence. Empty
// values are skipped as they carry no selectable meaning.
func UniqueValuesOf(books []Book, field FacetField) []string {
	seen := make(map[string]struct{}, len(books))
	values := []string{}
	for _, book := range books {
		var value string
		switch field {
		case AuthorFacet:
			value = book.Author
		case GenreFacet:
			value = book.Genre
		case LocationFacet:
			value = book.Location
		}
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	return values
}
