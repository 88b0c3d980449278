package view_test

import (
	"testing"

	"storefront/internal/models"
	"storefront/internal/view"

	"github.com/stretchr/testify/assert"
)

func twoProducts() []models.Product {
	return []models.Product{
		{ID: 1, Title: "first", Price: 10, Category: "a"},
		{ID: 2, Title: "second", Price: 20, Category: "b"},
	}
}

func TestListing_SelectCategoryScenario(t *testing.T) {
	l := view.NewListing(twoProducts(), []string{"a", "b"})

	b := l.SelectCategory("b")
	if assert.Len(t, b, 1) {
		assert.Equal(t, 2, b[0].ID)
	}
	assert.Equal(t, "b", l.Selected())

	all := l.SelectCategory(view.AllCategories)
	assert.Equal(t, twoProducts(), all)
}

func TestListing_DefaultsToAll(t *testing.T) {
	l := view.NewListing(twoProducts(), nil)

	assert.Equal(t, view.AllCategories, l.Selected())
	assert.Equal(t, twoProducts(), l.Visible())
}

func TestFilter(t *testing.T) {
	products := []models.Product{
		{ID: 1, Category: "x"},
		{ID: 2, Category: "y"},
		{ID: 3, Category: "x"},
		{ID: 4, Category: "z"},
		{ID: 5, Category: "x"},
	}

	tests := []struct {
		name     string
		category string
		wantIDs  []int
	}{
		{name: "all keeps order", category: view.AllCategories, wantIDs: []int{1, 2, 3, 4, 5}},
		{name: "subset keeps order", category: "x", wantIDs: []int{1, 3, 5}},
		{name: "single", category: "z", wantIDs: []int{4}},
		{name: "absent", category: "nope", wantIDs: []int{}},
		{name: "case sensitive", category: "X", wantIDs: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := view.Filter(products, tt.category)
			ids := make([]int, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.NotNil(t, got)
		})
	}
}

func TestListing_Categories(t *testing.T) {
	products := []models.Product{
		{ID: 1, Category: "b"},
		{ID: 2, Category: "a"},
		{ID: 3, Category: "b"},
	}

	derived := view.NewListing(products, nil)
	assert.Equal(t, []string{"All", "b", "a"}, derived.Categories())

	remote := view.NewListing(products, []string{"a", "b", "c"})
	assert.Equal(t, []string{"All", "a", "b", "c"}, remote.Categories())

	empty := view.NewListing(nil, nil)
	assert.Equal(t, []string{"All"}, empty.Categories())
}

func TestListing_VisibleIsACopy(t *testing.T) {
	l := view.NewListing(twoProducts(), nil)

	v := l.Visible()
	v[0].Title = "mutated"

	assert.Equal(t, "first", l.Visible()[0].Title)
}
