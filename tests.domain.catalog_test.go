package main

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBooks() []Book {
	return []Book{
		{ID: "b:1", Title: "The Go Programming Language", Author: "Alan Donovan", Genre: "Tech", Location: "Douala", Price: 450},
		{ID: "b:2", Title: "Clean Architecture", Author: "Robert Martin", Genre: "Tech", Location: "Yaounde", Price: 300},
		{ID: "b:3", Title: "Things Fall Apart", Author: "Chinua Achebe", Genre: "Fiction", Location: "Douala", Price: 150},
		{ID: "b:4", Title: "Half of a Yellow Sun", Author: "Chimamanda Adichie", Genre: "Fiction", Location: "Douala", Price: 200},
	}
}

// TestNewFilterSpec ensures query values map onto the spec fields and
// that unknown keys or bad bounds are construction errors.
func TestNewFilterSpec(t *testing.T) {
	t.Run("should pass: all known keys", func(t *testing.T) {
		values := url.Values{}
		values.Set("q", "go")
		values.Set("genre", "Tech")
		values.Set("location", "Douala")
		values.Set("pricemin", "100")
		values.Set("pricemax", "500")

		spec, err := NewFilterSpec(values)
		require.NoError(t, err)
		assert.Equal(t, "go", spec.TextQuery)
		assert.Equal(t, "Tech", spec.GenreEquals)
		assert.Equal(t, "Douala", spec.LocationEquals)
		require.NotNil(t, spec.PriceMin)
		require.NotNil(t, spec.PriceMax)
		assert.Equal(t, int64(100), *spec.PriceMin)
		assert.Equal(t, int64(500), *spec.PriceMax)
	})

	t.Run("should pass: no values means no constraint", func(t *testing.T) {
		spec, err := NewFilterSpec(url.Values{})
		require.NoError(t, err)
		assert.Nil(t, spec.PriceMin)
		assert.Nil(t, spec.PriceMax)
		assert.Equal(t, len(testBooks()), len(ApplyFilter(testBooks(), spec)))
	})

	t.Run("should fail: unknown key", func(t *testing.T) {
		values := url.Values{}
		values.Set("publisher", "penguin")
		_, err := NewFilterSpec(values)
		assert.ErrorIs(t, err, ErrUnknownFilterKey)
	})

	t.Run("should fail: non numeric price bound", func(t *testing.T) {
		values := url.Values{}
		values.Set("pricemin", "cheap")
		_, err := NewFilterSpec(values)
		assert.Error(t, err)
	})
}

// TestApplyFilter ensures the filter selects a subset, keeps the source
// ordering and never mutates the source list.
func TestApplyFilter(t *testing.T) {
	books := testBooks()

	t.Run("should pass: genre constraint", func(t *testing.T) {
		result := ApplyFilter(books, FilterSpec{GenreEquals: "Fiction"})
		require.Equal(t, 2, len(result))
		assert.Equal(t, "b:3", result[0].ID)
		assert.Equal(t, "b:4", result[1].ID)
	})

	t.Run("should pass: text query is case insensitive over title author genre", func(t *testing.T) {
		result := ApplyFilter(books, FilterSpec{TextQuery: "chinua"})
		require.Equal(t, 1, len(result))
		assert.Equal(t, "b:3", result[0].ID)
	})

	t.Run("should pass: price bounds are inclusive", func(t *testing.T) {
		min, max := int64(150), int64(300)
		result := ApplyFilter(books, FilterSpec{PriceMin: &min, PriceMax: &max})
		require.Equal(t, 3, len(result))
		assert.Equal(t, "b:2", result[0].ID)
		assert.Equal(t, "b:3", result[1].ID)
		assert.Equal(t, "b:4", result[2].ID)
	})

	t.Run("should pass: combined constraints intersect", func(t *testing.T) {
		result := ApplyFilter(books, FilterSpec{GenreEquals: "Fiction", LocationEquals: "Douala", TextQuery: "sun"})
		require.Equal(t, 1, len(result))
		assert.Equal(t, "b:4", result[0].ID)
	})

	t.Run("should pass: filtering is idempotent", func(t *testing.T) {
		spec := FilterSpec{GenreEquals: "Tech"}
		once := ApplyFilter(books, spec)
		twice := ApplyFilter(once, spec)
		assert.Equal(t, once, twice)
	})

	t.Run("should pass: source list untouched", func(t *testing.T) {
		ApplyFilter(books, FilterSpec{GenreEquals: "Tech"})
		assert.Equal(t, testBooks(), books)
	})

	t.Run("should pass: no match yields empty list not nil", func(t *testing.T) {
		result := ApplyFilter(books, FilterSpec{GenreEquals: "Poetry"})
		assert.NotNil(t, result)
		assert.Equal(t, 0, len(result))
	})
}

// TestParseFacetField ensures only the closed set of book attributes
// is accepted as facet name.
func TestParseFacetField(t *testing.T) {
	for _, name := range []string{"author", "genre", "location"} {
		field, err := ParseFacetField(name)
		assert.NoError(t, err)
		assert.Equal(t, FacetField(name), field)
	}

	_, err := ParseFacetField("publisher")
	assert.ErrorIs(t, err, ErrUnknownFacetField)
}

// TestUniqueValuesOf ensures facet values are distinct, ordered by
// first occurrence and skip empty attributes.
func TestUniqueValuesOf(t *testing.T) {
	books := testBooks()
	books = append(books, Book{ID: "b:5", Title: "Untagged", Author: "Alan Donovan"})

	t.Run("should pass: genres", func(t *testing.T) {
		assert.Equal(t, []string{"Tech", "Fiction"}, UniqueValuesOf(books, GenreFacet))
	})

	t.Run("should pass: locations skip empties", func(t *testing.T) {
		assert.Equal(t, []string{"Douala", "Yaounde"}, UniqueValuesOf(books, LocationFacet))
	})

	t.Run("should pass: duplicate author listed once", func(t *testing.T) {
		authors := UniqueValuesOf(books, AuthorFacet)
		assert.Equal(t, []string{"Alan Donovan", "Robert Martin", "Chinua Achebe", "Chimamanda Adichie"}, authors)
	})
}
