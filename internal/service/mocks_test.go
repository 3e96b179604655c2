package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/joris-vdw/StyleCast/internal/domain/wardrobe"
	"github.com/joris-vdw/StyleCast/internal/domain/weather"
	"github.com/joris-vdw/StyleCast/internal/port/broadcast"
	"github.com/joris-vdw/StyleCast/internal/port/cache"
	"github.com/joris-vdw/StyleCast/internal/port/llm"
	wardrobeindex "github.com/joris-vdw/StyleCast/internal/port/wardrobe"
	"github.com/joris-vdw/StyleCast/internal/port/weathersrc"
)

// Ensure mock types implement their interfaces at compile time.
var (
	_ llm.Client            = (*mockLLM)(nil)
	_ weathersrc.Source     = (*mockSource)(nil)
	_ wardrobeindex.Index   = (*mockIndex)(nil)
	_ broadcast.Broadcaster = (*mockBroadcaster)(nil)
	_ cache.Cache           = (*mockCache)(nil)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockLLM answers each completion with the next scripted step. When the
// script runs out the last step repeats.
type mockLLM struct {
	mu    sync.Mutex
	steps []mockStep
	calls []llm.ChatRequest
}

type mockStep struct {
	content string
	err     error
}

func respondJSON(t *testing.T, v any) mockStep {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal mock response: %v", err)
	}
	return mockStep{content: string(raw)}
}

func respondText(s string) mockStep { return mockStep{content: s} }

func respondError(err error) mockStep { return mockStep{err: err} }

func (m *mockLLM) ChatCompletion(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)

	idx := len(m.calls) - 1
	if idx >= len(m.steps) {
		idx = len(m.steps) - 1
	}
	step := m.steps[idx]
	if step.err != nil {
		return nil, step.err
	}
	return &llm.ChatResponse{Content: step.content, Model: "mock", TokensIn: 10, TokensOut: 10}, nil
}

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockSource struct {
	snap  *weather.Snapshot
	err   error
	calls int
	mu    sync.Mutex
}

func (m *mockSource) Current(_ context.Context, location string) (*weather.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	snap := *m.snap
	snap.Location = location
	return &snap, nil
}

// mockIndex serves category searches from a fixed catalog, ignoring query
// relevance.
type mockIndex struct {
	items     []wardrobe.Item
	searchErr error
	mu        sync.Mutex
	queries   []string
}

func (m *mockIndex) Search(_ context.Context, query string, limit int) ([]wardrobe.Item, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if limit > len(m.items) {
		limit = len(m.items)
	}
	return m.items[:limit], nil
}

func (m *mockIndex) SearchCategory(ctx context.Context, query string, category wardrobe.Category, limit int) ([]wardrobe.Item, error) {
	m.mu.Lock()
	m.queries = append(m.queries, string(category)+":"+query)
	m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	var out []wardrobe.Item
	for _, it := range m.items {
		if it.Category == category {
			out = append(out, it)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *mockIndex) Stats(_ context.Context) (*wardrobe.Stats, error) {
	stats := &wardrobe.Stats{
		TotalItems: len(m.items),
		Categories: map[wardrobe.Category]int{},
		Colors:     map[string]int{},
		Materials:  map[string]int{},
	}
	for _, it := range m.items {
		stats.Categories[it.Category]++
	}
	return stats, nil
}

func (m *mockIndex) Add(_ context.Context, item wardrobe.Item) error {
	m.items = append(m.items, item)
	return nil
}

func (m *mockIndex) Remove(_ context.Context, id string) bool {
	for i, it := range m.items {
		if it.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
	}
	return false
}

func (m *mockIndex) Clear(_ context.Context) error {
	m.items = nil
	return nil
}

func (m *mockIndex) ListAll(_ context.Context) ([]wardrobe.Item, error) {
	return m.items, nil
}

// mockCache is a trivial map-backed cache; TTLs are ignored.
type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type mockBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (m *mockBroadcaster) BroadcastEvent(_ context.Context, eventType string, _ any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, eventType)
}

func (m *mockBroadcaster) count(eventType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e == eventType {
			n++
		}
	}
	return n
}

func testCatalog() []wardrobe.Item {
	mk := func(id, name string, cat wardrobe.Category) wardrobe.Item {
		return wardrobe.Item{
			ID: id, Name: name, Category: cat,
			Material: "cotton", Color: "blue", WarmthLevel: 3, Formality: 2,
		}
	}
	return []wardrobe.Item{
		mk("t1", "Grey Merino Sweater", wardrobe.CategoryTop),
		mk("t2", "White Cotton T-Shirt", wardrobe.CategoryTop),
		mk("t3", "Black Hoodie", wardrobe.CategoryTop),
		mk("t4", "Light Blue Oxford Shirt", wardrobe.CategoryTop),
		mk("t5", "Red Flannel Shirt", wardrobe.CategoryTop),
		mk("b1", "Dark Wash Jeans", wardrobe.CategoryBottom),
		mk("b2", "Beige Chinos", wardrobe.CategoryBottom),
		mk("f1", "Brown Leather Boots", wardrobe.CategoryFootwear),
		mk("f2", "White Leather Sneakers", wardrobe.CategoryFootwear),
		mk("o1", "Navy Rain Jacket", wardrobe.CategoryOuterwear),
		mk("a1", "Grey Wool Scarf", wardrobe.CategoryAccessory),
		mk("a2", "Black Beanie", wardrobe.CategoryAccessory),
	}
}

func coolSnapshot() *weather.Snapshot {
	return &weather.Snapshot{
		Location:    "leuven",
		Temperature: 8,
		FeelsLike:   5,
		Humidity:    80,
		WindSpeed:   20,
		Description: "light rain",
		Conditions:  []string{"Rain"},
	}
}
