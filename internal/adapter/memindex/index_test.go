package memindex

import (
	"context"
	"testing"

	"github.com/joris-vdw/StyleCast/internal/domain/wardrobe"
)

func item(id, name string, cat wardrobe.Category, opts ...func(*wardrobe.Item)) wardrobe.Item {
	it := wardrobe.Item{
		ID: id, Name: name, Category: cat,
		Material: "cotton", Color: "blue", WarmthLevel: 3, Formality: 2,
	}
	for _, opt := range opts {
		opt(&it)
	}
	return it
}

func seeded(t *testing.T) *Index {
	t.Helper()
	ix := New()
	items := []wardrobe.Item{
		item("1", "Grey Merino Sweater", wardrobe.CategoryTop, func(it *wardrobe.Item) {
			it.Material = "merino wool"
			it.Color = "grey"
			it.WarmthLevel = 4
			it.WeatherTags = []string{"cold", "cool"}
		}),
		item("2", "White Cotton T-Shirt", wardrobe.CategoryTop, func(it *wardrobe.Item) {
			it.Color = "white"
			it.WarmthLevel = 1
			it.WeatherTags = []string{"warm", "hot"}
		}),
		item("3", "Dark Wash Jeans", wardrobe.CategoryBottom, func(it *wardrobe.Item) {
			it.Material = "denim"
		}),
		item("4", "Navy Rain Jacket", wardrobe.CategoryOuterwear, func(it *wardrobe.Item) {
			it.Material = "nylon"
			it.Color = "navy"
			it.WeatherTags = []string{"rain", "wind"}
		}),
	}
	for _, it := range items {
		if err := ix.Add(context.Background(), it); err != nil {
			t.Fatalf("Add(%s): %v", it.ID, err)
		}
	}
	return ix
}

func TestSearchRanksByRelevance(t *testing.T) {
	ix := seeded(t)

	got, err := ix.Search(context.Background(), "warm merino sweater for cold weather", 4)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("no results")
	}
	if got[0].ID != "1" {
		t.Errorf("top result = %s, want the merino sweater", got[0].Name)
	}
}

func TestSearchExcludesZeroOverlap(t *testing.T) {
	ix := seeded(t)

	got, err := ix.Search(context.Background(), "merino", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for _, it := range got {
		if it.ID == "3" {
			t.Error("jeans matched a query they share no tokens with")
		}
	}
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	ix := seeded(t)

	got, err := ix.Search(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 4 {
		t.Errorf("results = %d, want 4", len(got))
	}
	// Equal scores fall back to insertion order.
	if got[0].ID != "1" || got[3].ID != "4" {
		t.Errorf("order = %v", ids(got))
	}
}

func TestSearchCategoryRestricts(t *testing.T) {
	ix := seeded(t)

	got, err := ix.SearchCategory(context.Background(), "", wardrobe.CategoryTop, 10)
	if err != nil {
		t.Fatalf("SearchCategory() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2", len(got))
	}
	for _, it := range got {
		if it.Category != wardrobe.CategoryTop {
			t.Errorf("result %s has category %s", it.Name, it.Category)
		}
	}
}

func TestSearchHonorsLimit(t *testing.T) {
	ix := seeded(t)

	got, err := ix.Search(context.Background(), "", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("results = %d, want 2", len(got))
	}
}

func TestAddReplacesByID(t *testing.T) {
	ix := seeded(t)

	updated := item("1", "Grey Merino Cardigan", wardrobe.CategoryTop)
	if err := ix.Add(context.Background(), updated); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	all, _ := ix.ListAll(context.Background())
	if len(all) != 4 {
		t.Fatalf("items = %d, want 4 after replace", len(all))
	}
	// Replacement keeps the original position.
	if all[0].Name != "Grey Merino Cardigan" {
		t.Errorf("first item = %s", all[0].Name)
	}
}

func TestRemoveReindexes(t *testing.T) {
	ix := seeded(t)

	if !ix.Remove(context.Background(), "2") {
		t.Fatal("Remove(2) = false")
	}
	if ix.Remove(context.Background(), "2") {
		t.Error("Remove(2) twice = true")
	}

	// Later items must still be findable after positions shift.
	got, err := ix.Search(context.Background(), "rain jacket", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) == 0 || got[0].ID != "4" {
		t.Errorf("results = %v, want rain jacket first", ids(got))
	}

	all, _ := ix.ListAll(context.Background())
	if len(all) != 3 {
		t.Errorf("items = %d, want 3", len(all))
	}
}

func TestClear(t *testing.T) {
	ix := seeded(t)
	if err := ix.Clear(context.Background()); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	all, _ := ix.ListAll(context.Background())
	if len(all) != 0 {
		t.Errorf("items = %d after clear", len(all))
	}
	stats, _ := ix.Stats(context.Background())
	if stats.TotalItems != 0 {
		t.Errorf("stats total = %d", stats.TotalItems)
	}
}

func TestStats(t *testing.T) {
	ix := seeded(t)

	stats, err := ix.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalItems != 4 {
		t.Errorf("total = %d, want 4", stats.TotalItems)
	}
	if stats.Categories[wardrobe.CategoryTop] != 2 {
		t.Errorf("tops = %d, want 2", stats.Categories[wardrobe.CategoryTop])
	}
	if stats.Materials["denim"] != 1 {
		t.Errorf("denim = %d, want 1", stats.Materials["denim"])
	}
	if stats.Colors["navy"] != 1 {
		t.Errorf("navy = %d, want 1", stats.Colors["navy"])
	}
}

func ids(items []wardrobe.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
