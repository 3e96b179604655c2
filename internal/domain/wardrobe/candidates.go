package wardrobe

// Per-category caps on the candidate set handed to outfit composition.
const (
	MaxTopCandidates       = 4
	MaxBottomCandidates    = 4
	MaxFootwearCandidates  = 3
	MaxOuterwearCandidates = 2
	MaxAccessoryCandidates = 3
)

// CandidateCap returns the candidate cap for a category.
func CandidateCap(c Category) int {
	switch c {
	case CategoryTop:
		return MaxTopCandidates
	case CategoryBottom:
		return MaxBottomCandidates
	case CategoryFootwear:
		return MaxFootwearCandidates
	case CategoryOuterwear:
		return MaxOuterwearCandidates
	case CategoryAccessory:
		return MaxAccessoryCandidates
	}
	return 0
}

// CandidateSet is the bounded, per-category candidate pool produced by the
// wardrobe selection stage. A category with no suitable items holds an
// empty slice; that is not an error condition.
type CandidateSet struct {
	Tops        []Item `json:"tops"`
	Bottoms     []Item `json:"bottoms"`
	Footwear    []Item `json:"footwear"`
	Outerwear   []Item `json:"outerwear"`
	Accessories []Item `json:"accessories"`
	Reasoning   string `json:"reasoning,omitempty"`
}

// ByCategory returns the candidate slice for a category.
func (cs *CandidateSet) ByCategory(c Category) []Item {
	switch c {
	case CategoryTop:
		return cs.Tops
	case CategoryBottom:
		return cs.Bottoms
	case CategoryFootwear:
		return cs.Footwear
	case CategoryOuterwear:
		return cs.Outerwear
	case CategoryAccessory:
		return cs.Accessories
	}
	return nil
}

// SetCategory replaces the candidate slice for a category, enforcing the cap.
func (cs *CandidateSet) SetCategory(c Category, items []Item) {
	if cap := CandidateCap(c); len(items) > cap {
		items = items[:cap]
	}
	switch c {
	case CategoryTop:
		cs.Tops = items
	case CategoryBottom:
		cs.Bottoms = items
	case CategoryFootwear:
		cs.Footwear = items
	case CategoryOuterwear:
		cs.Outerwear = items
	case CategoryAccessory:
		cs.Accessories = items
	}
}

// All returns every candidate across categories.
func (cs *CandidateSet) All() []Item {
	out := make([]Item, 0, len(cs.Tops)+len(cs.Bottoms)+len(cs.Footwear)+len(cs.Outerwear)+len(cs.Accessories))
	out = append(out, cs.Tops...)
	out = append(out, cs.Bottoms...)
	out = append(out, cs.Footwear...)
	out = append(out, cs.Outerwear...)
	out = append(out, cs.Accessories...)
	return out
}

// Total returns the number of candidates across all categories.
func (cs *CandidateSet) Total() int {
	return len(cs.Tops) + len(cs.Bottoms) + len(cs.Footwear) + len(cs.Outerwear) + len(cs.Accessories)
}
