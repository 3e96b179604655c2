package service

import (
	"context"
	"errors"
	"testing"

	"github.com/joris-vdw/StyleCast/internal/domain/wardrobe"
)

func candidatePool() *wardrobe.CandidateSet {
	items := testCatalog()
	byCat := func(cat wardrobe.Category) []wardrobe.Item {
		var out []wardrobe.Item
		for _, it := range items {
			if it.Category == cat && len(out) < wardrobe.CandidateCap(cat) {
				out = append(out, it)
			}
		}
		return out
	}
	return &wardrobe.CandidateSet{
		Tops:        byCat(wardrobe.CategoryTop),
		Bottoms:     byCat(wardrobe.CategoryBottom),
		Footwear:    byCat(wardrobe.CategoryFootwear),
		Outerwear:   byCat(wardrobe.CategoryOuterwear),
		Accessories: byCat(wardrobe.CategoryAccessory),
	}
}

func newComposer(mock *mockLLM) *ComposerService {
	return NewComposerService(mock, "test-model", 0.7, testLogger())
}

func TestComposeStructured(t *testing.T) {
	mock := &mockLLM{steps: []mockStep{
		respondJSON(t, outfitPayload{
			Top:         "Grey Merino Sweater",
			Bottom:      "Dark Wash Jeans",
			Footwear:    "Brown Leather Boots",
			Outerwear:   "Navy Rain Jacket",
			Accessories: []string{"Grey Wool Scarf"},
			Description: "A warm layered look.",
		}),
	}}

	o, err := newComposer(mock).Compose(context.Background(), coolSnapshot(), "", candidatePool())
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if o.Top == nil || o.Top.Name != "Grey Merino Sweater" {
		t.Errorf("top = %+v, want Grey Merino Sweater", o.Top)
	}
	if o.Outerwear == nil || o.Outerwear.Name != "Navy Rain Jacket" {
		t.Errorf("outerwear = %+v, want Navy Rain Jacket", o.Outerwear)
	}
	if len(o.Accessories) != 1 || o.Accessories[0].Name != "Grey Wool Scarf" {
		t.Errorf("accessories = %+v", o.Accessories)
	}
	if o.Description != "A warm layered look." {
		t.Errorf("description = %q", o.Description)
	}
}

func TestComposeNoneSentinels(t *testing.T) {
	mock := &mockLLM{steps: []mockStep{
		respondJSON(t, outfitPayload{
			Top:       "White Cotton T-Shirt",
			Bottom:    "Beige Chinos",
			Footwear:  "White Leather Sneakers",
			Outerwear: "None",
		}),
	}}

	o, err := newComposer(mock).Compose(context.Background(), coolSnapshot(), "", candidatePool())
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if o.Outerwear != nil {
		t.Errorf("outerwear = %+v, want nil for None", o.Outerwear)
	}
	if o.Top == nil {
		t.Error("top should be selected")
	}
}

func TestComposeDropsFabricatedItems(t *testing.T) {
	mock := &mockLLM{steps: []mockStep{
		respondJSON(t, outfitPayload{
			Top:         "Crimson Velvet Blazer", // not in the pool
			Bottom:      "Dark Wash Jeans",
			Accessories: []string{"Diamond Tiara"},
		}),
	}}

	o, err := newComposer(mock).Compose(context.Background(), coolSnapshot(), "", candidatePool())
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if o.Top != nil {
		t.Errorf("fabricated top resolved to %+v, want nil", o.Top)
	}
	if o.Bottom == nil {
		t.Error("real bottom should survive")
	}
	if len(o.Accessories) != 0 {
		t.Errorf("fabricated accessories = %+v, want none", o.Accessories)
	}
}

func TestComposePositionalFallback(t *testing.T) {
	mock := &mockLLM{steps: []mockStep{
		respondText("Grey Merino Sweater|Dark Wash Jeans|Brown Leather Boots|None|Grey Wool Scarf,Black Beanie"),
	}}

	o, err := newComposer(mock).Compose(context.Background(), coolSnapshot(), "", candidatePool())
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if o.Top == nil || o.Top.Name != "Grey Merino Sweater" {
		t.Errorf("top = %+v", o.Top)
	}
	if o.Outerwear != nil {
		t.Errorf("outerwear = %+v, want nil", o.Outerwear)
	}
	if len(o.Accessories) != 2 {
		t.Errorf("accessories = %d, want 2", len(o.Accessories))
	}
	if o.Description == "" {
		t.Error("default description should be filled")
	}
}

func TestComposeMalformedPositional(t *testing.T) {
	mock := &mockLLM{steps: []mockStep{respondText("Grey Merino Sweater|Dark Wash Jeans")}}

	o, err := newComposer(mock).Compose(context.Background(), coolSnapshot(), "", candidatePool())
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if !o.Empty() {
		t.Errorf("malformed positional output should yield an empty outfit, got %+v", o)
	}
}

func TestComposeCallFailure(t *testing.T) {
	mock := &mockLLM{steps: []mockStep{respondError(errors.New("model down"))}}

	o, err := newComposer(mock).Compose(context.Background(), coolSnapshot(), "", candidatePool())
	if err == nil {
		t.Fatal("Compose() expected error")
	}
	if !o.Empty() {
		t.Errorf("failed composition should yield an empty outfit, got %+v", o)
	}
	if o.Description == "" || o.StylingAdvice == "" {
		t.Error("rationale defaults should still be filled")
	}
}

func TestResolveName(t *testing.T) {
	items := []wardrobe.Item{
		{ID: "1", Name: "Grey Merino Sweater"},
		{ID: "2", Name: "Black Hoodie"},
	}
	tests := []struct {
		name   string
		wantID string
	}{
		{"grey merino sweater", "1"}, // exact, case-insensitive
		{"Merino Sweater", "1"},      // name contains query
		{"the Black Hoodie from my wardrobe", "2"}, // query contains name
		{"None", ""},
		{"not needed", ""},
		{"", ""},
		{"Red Dress", ""},
	}
	for _, tt := range tests {
		got := resolveName(tt.name, items)
		switch {
		case tt.wantID == "" && got != nil:
			t.Errorf("resolveName(%q) = %v, want nil", tt.name, got.Name)
		case tt.wantID != "" && (got == nil || got.ID != tt.wantID):
			t.Errorf("resolveName(%q) = %v, want item %s", tt.name, got, tt.wantID)
		}
	}
}
