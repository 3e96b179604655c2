// Package wardrobe defines the clothing catalog entities.
package wardrobe

import (
	"fmt"
	"strings"
	"time"
)

// Category is the clothing slot an item occupies in an outfit.
type Category string

const (
	CategoryTop       Category = "top"
	CategoryBottom    Category = "bottom"
	CategoryFootwear  Category = "footwear"
	CategoryOuterwear Category = "outerwear"
	CategoryAccessory Category = "accessory"
)

// Categories lists all categories in outfit order.
func Categories() []Category {
	return []Category{CategoryTop, CategoryBottom, CategoryFootwear, CategoryOuterwear, CategoryAccessory}
}

// ParseCategory normalizes a free-form category label ("tops", "Footwear")
// to a Category. Returns an error for unknown labels.
func ParseCategory(s string) (Category, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimSuffix(v, "s")
	switch v {
	case "top":
		return CategoryTop, nil
	case "bottom":
		return CategoryBottom, nil
	case "footwear", "shoe":
		return CategoryFootwear, nil
	case "outerwear":
		return CategoryOuterwear, nil
	case "accessory", "accessorie":
		return CategoryAccessory, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Item is a single clothing item in the personal catalog.
// Items are immutable once stored; ID is the only field selection logic
// may rely on for equality.
type Item struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Category        Category  `json:"category"`
	Subcategory     string    `json:"subcategory"`
	Material        string    `json:"material"`
	Color           string    `json:"color"`
	SecondaryColors []string  `json:"secondary_colors,omitempty"`
	WarmthLevel     int       `json:"warmth_level"` // 1 (very light) .. 5 (very warm)
	Formality       int       `json:"formality"`    // 1 (very casual) .. 5 (very formal)
	WeatherTags     []string  `json:"weather_tags,omitempty"`
	SeasonTags      []string  `json:"season_tags,omitempty"`
	Brand           string    `json:"brand,omitempty"`
	Size            string    `json:"size,omitempty"`
	Description     string    `json:"description,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// Validate checks the fields an item needs before it can be stored.
func (it *Item) Validate() error {
	if it.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := ParseCategory(string(it.Category)); err != nil {
		return err
	}
	if it.WarmthLevel < 1 || it.WarmthLevel > 5 {
		return fmt.Errorf("warmth_level must be 1..5, got %d", it.WarmthLevel)
	}
	if it.Formality < 1 || it.Formality > 5 {
		return fmt.Errorf("formality must be 1..5, got %d", it.Formality)
	}
	return nil
}

// SearchDocument renders the item as a single searchable text document for
// the semantic index.
func (it *Item) SearchDocument() string {
	parts := []string{
		fmt.Sprintf("%s - %s %s", it.Name, it.Subcategory, it.Category),
		fmt.Sprintf("Made of %s in %s", it.Material, it.Color),
		it.Description,
		"Colors: " + strings.Join(append([]string{it.Color}, it.SecondaryColors...), ", "),
		"Suitable for: " + strings.Join(it.WeatherTags, ", "),
		"Best seasons: " + strings.Join(it.SeasonTags, ", "),
		fmt.Sprintf("Warmth level: %d/5", it.WarmthLevel),
		fmt.Sprintf("Formality: %d/5", it.Formality),
		"Tags: " + strings.Join(it.Tags, ", "),
	}
	if it.Brand != "" {
		parts = append(parts, "Brand: "+it.Brand)
	}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " | ")
}

// Stats summarizes the catalog contents.
type Stats struct {
	TotalItems int              `json:"total_items"`
	Categories map[Category]int `json:"categories"`
	Colors     map[string]int   `json:"colors"`
	Materials  map[string]int   `json:"materials"`
}

// CreateRequest holds the fields accepted when adding an item.
type CreateRequest struct {
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Subcategory     string   `json:"subcategory"`
	Material        string   `json:"material"`
	Color           string   `json:"color"`
	SecondaryColors []string `json:"secondary_colors,omitempty"`
	WarmthLevel     int      `json:"warmth_level"`
	Formality       int      `json:"formality"`
	WeatherTags     []string `json:"weather_tags,omitempty"`
	SeasonTags      []string `json:"season_tags,omitempty"`
	Brand           string   `json:"brand,omitempty"`
	Size            string   `json:"size,omitempty"`
	Description     string   `json:"description,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// Build turns a create request into a validated Item.
func (r CreateRequest) Build(id string, createdAt time.Time) (Item, error) {
	cat, err := ParseCategory(r.Category)
	if err != nil {
		return Item{}, err
	}
	item := Item{
		ID:              id,
		Name:            strings.TrimSpace(r.Name),
		Category:        cat,
		Subcategory:     r.Subcategory,
		Material:        r.Material,
		Color:           r.Color,
		SecondaryColors: r.SecondaryColors,
		WarmthLevel:     r.WarmthLevel,
		Formality:       r.Formality,
		WeatherTags:     r.WeatherTags,
		SeasonTags:      r.SeasonTags,
		Brand:           r.Brand,
		Size:            r.Size,
		Description:     r.Description,
		Tags:            r.Tags,
		CreatedAt:       createdAt,
	}
	if err := item.Validate(); err != nil {
		return Item{}, err
	}
	return item, nil
}
