package service

import (
	"context"
	"testing"

	"github.com/joris-vdw/StyleCast/internal/domain/wardrobe"
	"github.com/joris-vdw/StyleCast/internal/port/catalog"
)

var _ catalog.Store = (*mockStore)(nil)

type mockStore struct {
	items map[string]wardrobe.Item
	order []string
}

func newMockStore() *mockStore {
	return &mockStore{items: make(map[string]wardrobe.Item)}
}

func (m *mockStore) SaveItem(_ context.Context, item wardrobe.Item) error {
	if _, ok := m.items[item.ID]; !ok {
		m.order = append(m.order, item.ID)
	}
	m.items[item.ID] = item
	return nil
}

func (m *mockStore) DeleteItem(_ context.Context, id string) (bool, error) {
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (m *mockStore) DeleteAll(_ context.Context) error {
	m.items = make(map[string]wardrobe.Item)
	m.order = nil
	return nil
}

func (m *mockStore) ListItems(_ context.Context) ([]wardrobe.Item, error) {
	out := make([]wardrobe.Item, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	return out, nil
}

func TestWardrobeAddWritesThrough(t *testing.T) {
	store := newMockStore()
	index := &mockIndex{}
	svc := NewWardrobeService(store, index, testLogger())

	item, err := svc.Add(context.Background(), wardrobe.CreateRequest{
		Name: "Grey Merino Sweater", Category: "tops",
		Material: "wool", Color: "grey", WarmthLevel: 4, Formality: 3,
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if item.ID == "" {
		t.Error("ID not assigned")
	}
	if item.Category != wardrobe.CategoryTop {
		t.Errorf("category = %q, want normalized top", item.Category)
	}
	if len(store.items) != 1 {
		t.Errorf("store items = %d, want 1", len(store.items))
	}
	if len(index.items) != 1 {
		t.Errorf("index items = %d, want 1", len(index.items))
	}
}

func TestWardrobeAddRejectsInvalid(t *testing.T) {
	svc := NewWardrobeService(newMockStore(), &mockIndex{}, testLogger())

	tests := []wardrobe.CreateRequest{
		{Name: "", Category: "top", WarmthLevel: 3, Formality: 2},
		{Name: "Thing", Category: "spacesuit", WarmthLevel: 3, Formality: 2},
		{Name: "Thing", Category: "top", WarmthLevel: 0, Formality: 2},
		{Name: "Thing", Category: "top", WarmthLevel: 3, Formality: 9},
	}
	for _, req := range tests {
		if _, err := svc.Add(context.Background(), req); err == nil {
			t.Errorf("Add(%+v) expected error", req)
		}
	}
}

func TestWardrobeRemove(t *testing.T) {
	store := newMockStore()
	index := &mockIndex{}
	svc := NewWardrobeService(store, index, testLogger())

	item, err := svc.Add(context.Background(), wardrobe.CreateRequest{
		Name: "Black Hoodie", Category: "top",
		Material: "cotton", Color: "black", WarmthLevel: 3, Formality: 1,
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	deleted, err := svc.Remove(context.Background(), item.ID)
	if err != nil || !deleted {
		t.Fatalf("Remove() = %v, %v; want true, nil", deleted, err)
	}
	if len(store.items) != 0 || len(index.items) != 0 {
		t.Error("item not removed everywhere")
	}

	deleted, err = svc.Remove(context.Background(), "missing")
	if err != nil || deleted {
		t.Errorf("Remove(missing) = %v, %v; want false, nil", deleted, err)
	}
}

func TestWardrobeWarmIndex(t *testing.T) {
	store := newMockStore()
	for _, it := range testCatalog() {
		if err := store.SaveItem(context.Background(), it); err != nil {
			t.Fatal(err)
		}
	}
	index := &mockIndex{}
	svc := NewWardrobeService(store, index, testLogger())

	n, err := svc.WarmIndex(context.Background())
	if err != nil {
		t.Fatalf("WarmIndex() error = %v", err)
	}
	if n != len(testCatalog()) {
		t.Errorf("warmed %d items, want %d", n, len(testCatalog()))
	}
	if len(index.items) != len(testCatalog()) {
		t.Errorf("index items = %d", len(index.items))
	}
}

func TestWardrobeSeedStarter(t *testing.T) {
	store := newMockStore()
	index := &mockIndex{}
	svc := NewWardrobeService(store, index, testLogger())

	added, err := svc.SeedStarter(context.Background())
	if err != nil {
		t.Fatalf("SeedStarter() error = %v", err)
	}
	if added != len(starterItems()) {
		t.Errorf("added = %d, want %d", added, len(starterItems()))
	}

	// Every category must be represented in the starter set.
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	for _, cat := range wardrobe.Categories() {
		if stats.Categories[cat] == 0 {
			t.Errorf("starter catalog has no %s items", cat)
		}
	}
}

func TestWardrobeSearchValidatesCategory(t *testing.T) {
	svc := NewWardrobeService(newMockStore(), &mockIndex{items: testCatalog()}, testLogger())

	if _, err := svc.Search(context.Background(), "warm", "spacesuit", 5); err == nil {
		t.Error("Search() expected error for unknown category")
	}

	items, err := svc.Search(context.Background(), "warm", "tops", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for _, it := range items {
		if it.Category != wardrobe.CategoryTop {
			t.Errorf("item %s has category %s", it.Name, it.Category)
		}
	}
}
