// Package memindex implements the wardrobe index port as an in-process
// lexical index. It stands in for the external embedding engine: ranking
// is token overlap between the query and each item's search document,
// which is deterministic and good enough for a personal-sized catalog.
package memindex

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/joris-vdw/StyleCast/internal/domain/wardrobe"
)

// Index holds all catalog items and their tokenized search documents.
// Safe for concurrent readers; writes come from the admin path only.
type Index struct {
	mu      sync.RWMutex
	items   []entry
	byID    map[string]int // id -> position in items
	nextSeq int
}

type entry struct {
	item   wardrobe.Item
	tokens map[string]int // token -> occurrences in the search document
	seq    int            // insertion order, used as ranking tie-break
}

// New creates an empty index.
func New() *Index {
	return &Index{byID: make(map[string]int)}
}

// Add indexes an item, replacing any existing entry with the same ID.
func (ix *Index) Add(_ context.Context, item wardrobe.Item) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	e := entry{
		item:   item,
		tokens: tokenize(item.SearchDocument()),
		seq:    ix.nextSeq,
	}
	ix.nextSeq++

	if pos, ok := ix.byID[item.ID]; ok {
		e.seq = ix.items[pos].seq
		ix.items[pos] = e
		return nil
	}
	ix.byID[item.ID] = len(ix.items)
	ix.items = append(ix.items, e)
	return nil
}

// Remove unindexes an item by ID. Returns false if the ID was not indexed.
func (ix *Index) Remove(_ context.Context, id string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	pos, ok := ix.byID[id]
	if !ok {
		return false
	}
	ix.items = append(ix.items[:pos], ix.items[pos+1:]...)
	delete(ix.byID, id)
	for i := pos; i < len(ix.items); i++ {
		ix.byID[ix.items[i].item.ID] = i
	}
	return true
}

// Clear removes all items.
func (ix *Index) Clear(_ context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.items = nil
	ix.byID = make(map[string]int)
	return nil
}

// ListAll returns every item in insertion order.
func (ix *Index) ListAll(_ context.Context) ([]wardrobe.Item, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]wardrobe.Item, len(ix.items))
	for i := range ix.items {
		out[i] = ix.items[i].item
	}
	return out, nil
}

// Search returns up to limit items ranked by lexical relevance to the query.
// Items with zero overlap are excluded.
func (ix *Index) Search(_ context.Context, query string, limit int) ([]wardrobe.Item, error) {
	return ix.search(query, "", limit), nil
}

// SearchCategory is Search restricted to one category.
func (ix *Index) SearchCategory(_ context.Context, query string, category wardrobe.Category, limit int) ([]wardrobe.Item, error) {
	return ix.search(query, category, limit), nil
}

func (ix *Index) search(query string, category wardrobe.Category, limit int) []wardrobe.Item {
	if limit <= 0 {
		return nil
	}

	queryTokens := tokenize(query)

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	type scored struct {
		item  wardrobe.Item
		score float64
		seq   int
	}
	var ranked []scored
	for i := range ix.items {
		e := &ix.items[i]
		if category != "" && e.item.Category != category {
			continue
		}
		s := score(queryTokens, e)
		if s <= 0 && len(queryTokens) > 0 {
			continue
		}
		ranked = append(ranked, scored{item: e.item, score: s, seq: e.seq})
	}

	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		return ranked[a].seq < ranked[b].seq
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]wardrobe.Item, len(ranked))
	for i := range ranked {
		out[i] = ranked[i].item
	}
	return out
}

// Stats summarizes the indexed catalog.
func (ix *Index) Stats(_ context.Context) (*wardrobe.Stats, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	stats := &wardrobe.Stats{
		TotalItems: len(ix.items),
		Categories: make(map[wardrobe.Category]int),
		Colors:     make(map[string]int),
		Materials:  make(map[string]int),
	}
	for i := range ix.items {
		it := &ix.items[i].item
		stats.Categories[it.Category]++
		if it.Color != "" {
			stats.Colors[it.Color]++
		}
		for _, c := range it.SecondaryColors {
			stats.Colors[c]++
		}
		if it.Material != "" {
			stats.Materials[it.Material]++
		}
	}
	return stats, nil
}

// score weighs query/document token overlap, with a bonus for tokens that
// appear in the item name so exact-item queries rank their item first.
func score(queryTokens map[string]int, e *entry) float64 {
	if len(queryTokens) == 0 {
		return 1 // empty query matches everything equally
	}
	nameTokens := tokenize(e.item.Name)
	var s float64
	for tok := range queryTokens {
		if n, ok := e.tokens[tok]; ok {
			s += 1 + float64(n)*0.1
		}
		if _, ok := nameTokens[tok]; ok {
			s += 2
		}
	}
	return s
}

func tokenize(s string) map[string]int {
	tokens := make(map[string]int)
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		if len(f) < 2 {
			continue
		}
		tokens[f]++
	}
	return tokens
}
