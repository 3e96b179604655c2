// Package outfit defines the composed outfit entity.
package outfit

import "github.com/joris-vdw/StyleCast/internal/domain/wardrobe"

// Outfit is a committed selection of at most one item per non-accessory
// category plus zero or more accessories. A nil slot means the category is
// not needed for the conditions, not that composition failed.
type Outfit struct {
	Top       *wardrobe.Item `json:"top,omitempty"`
	Bottom    *wardrobe.Item `json:"bottom,omitempty"`
	Footwear  *wardrobe.Item `json:"footwear,omitempty"`
	Outerwear *wardrobe.Item `json:"outerwear,omitempty"`

	Accessories []wardrobe.Item `json:"accessories,omitempty"`

	Description    string `json:"description"`
	StylingAdvice  string `json:"styling_advice"`
	WeatherFit     string `json:"weather_fit"`
	FormalityMatch string `json:"formality_match"`
}

// Empty reports whether no item was selected in any slot.
func (o *Outfit) Empty() bool {
	return o.Top == nil && o.Bottom == nil && o.Footwear == nil &&
		o.Outerwear == nil && len(o.Accessories) == 0
}

// Slot returns the selected item for a non-accessory category.
func (o *Outfit) Slot(c wardrobe.Category) *wardrobe.Item {
	switch c {
	case wardrobe.CategoryTop:
		return o.Top
	case wardrobe.CategoryBottom:
		return o.Bottom
	case wardrobe.CategoryFootwear:
		return o.Footwear
	case wardrobe.CategoryOuterwear:
		return o.Outerwear
	}
	return nil
}
