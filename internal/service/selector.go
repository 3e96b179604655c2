package service

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joris-vdw/StyleCast/internal/domain/wardrobe"
	"github.com/joris-vdw/StyleCast/internal/domain/weather"
	"github.com/joris-vdw/StyleCast/internal/port/llm"
	wardrobeindex "github.com/joris-vdw/StyleCast/internal/port/wardrobe"
)

//go:embed templates/queries_system.tmpl
var queriesSystemPrompt string

// SelectorService gathers a bounded, per-category candidate pool from the
// wardrobe index. Queries come from the model when it cooperates and from a
// deterministic builder when it does not; the search loop itself is a plain
// bounded loop over categories with progressively broader retries.
type SelectorService struct {
	index       wardrobeindex.Index
	llm         llm.Client
	model       string
	temperature float64
	maxRounds   int
	logger      *slog.Logger
}

func NewSelectorService(index wardrobeindex.Index, client llm.Client, model string, temperature float64, maxRounds int, logger *slog.Logger) *SelectorService {
	return &SelectorService{
		index:       index,
		llm:         client,
		model:       model,
		temperature: temperature,
		maxRounds:   maxRounds,
		logger:      logger.With("service", "selector"),
	}
}

// Select gathers candidates for every category. A nil snapshot means no
// weather is in play (wardrobe-only requests); queries then use neutral
// mild conditions. The returned set is always usable; a non-nil error means
// at least one index search failed and the set may be partial.
func (s *SelectorService) Select(ctx context.Context, snap *weather.Snapshot, requestContext string) (wardrobe.CandidateSet, error) {
	if snap == nil {
		snap = neutralSnapshot()
	}

	queries := s.categoryQueries(ctx, snap, requestContext)

	var set wardrobe.CandidateSet
	var firstErr error
	var queried []string

	picked := make(map[wardrobe.Category][]wardrobe.Item)
	seen := make(map[string]bool)
	rounds := 0

	// Breadth-first accumulate loop: one query per category per pass, with
	// broadened queries on later passes for categories still under their
	// cap, until every category is filled or the round limit is hit.
accumulate:
	for attempt := 0; attempt < 3; attempt++ {
		for _, cat := range wardrobe.Categories() {
			limit := wardrobe.CandidateCap(cat)
			if len(picked[cat]) >= limit {
				continue
			}
			if rounds >= s.maxRounds {
				break accumulate
			}
			query := broadenQuery(queries[cat], cat, attempt)
			rounds++
			queried = append(queried, fmt.Sprintf("%s:%q", cat, query))

			items, err := s.index.SearchCategory(ctx, query, cat, limit)
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("search %s: %w", cat, err)
				}
				s.logger.Warn("candidate search failed", "category", cat, "error", err)
				continue
			}
			for _, it := range items {
				if seen[it.ID] || len(picked[cat]) >= limit {
					continue
				}
				seen[it.ID] = true
				picked[cat] = append(picked[cat], it)
			}
		}
	}

	for _, cat := range wardrobe.Categories() {
		set.SetCategory(cat, picked[cat])
	}
	set.Reasoning = "queries: " + strings.Join(queried, "; ")
	return set, firstErr
}

// categoryQueries asks the model for one search query per category, falling
// back to deterministic queries built from the snapshot.
func (s *SelectorService) categoryQueries(ctx context.Context, snap *weather.Snapshot, requestContext string) map[wardrobe.Category]string {
	prompt := fmt.Sprintf("Weather: %.0f°C feels like %.0f°C, %s, wind %.0f km/h.",
		snap.Temperature, snap.FeelsLike, snap.Description, snap.WindSpeed)
	if requestContext != "" {
		prompt += "\nContext: " + sanitizePromptInput(requestContext)
	}

	result := generate[map[string]string](ctx, s.llm, llm.ChatRequest{
		Model:       s.model,
		Temperature: s.temperature,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: queriesSystemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
	})

	queries := make(map[wardrobe.Category]string)
	if result.kind == genStructured {
		for label, q := range result.value {
			cat, err := wardrobe.ParseCategory(label)
			if err != nil || strings.TrimSpace(q) == "" {
				continue
			}
			queries[cat] = strings.TrimSpace(q)
		}
	} else {
		s.logger.Warn("query generation unavailable, using deterministic queries")
	}

	for _, cat := range wardrobe.Categories() {
		if queries[cat] == "" {
			queries[cat] = deterministicQuery(cat, snap, requestContext)
		}
	}
	return queries
}

// deterministicQuery builds a search query from the weather bands alone.
func deterministicQuery(cat wardrobe.Category, snap *weather.Snapshot, requestContext string) string {
	parts := []string{string(weather.CategorizeTemperature(snap.FeelsLike)), "weather"}
	if weather.CategorizeWind(snap.WindSpeed) == weather.WindWindy || weather.CategorizeWind(snap.WindSpeed) == weather.WindVeryWind {
		parts = append(parts, "wind resistant")
	}
	if wet(snap.Conditions) {
		parts = append(parts, "waterproof")
	}
	parts = append(parts, string(cat))
	if requestContext != "" {
		parts = append(parts, requestContext)
	}
	return strings.Join(parts, " ")
}

// broadenQuery widens the search on retries: the original query first, then
// the query stripped of context words, then the bare category.
func broadenQuery(query string, cat wardrobe.Category, attempt int) string {
	switch attempt {
	case 0:
		return query
	case 1:
		fields := strings.Fields(query)
		if len(fields) > 2 {
			fields = fields[:2]
		}
		return strings.Join(append(fields, string(cat)), " ")
	default:
		return string(cat)
	}
}

func wet(conditions []string) bool {
	for _, c := range conditions {
		switch strings.ToLower(c) {
		case "rain", "drizzle", "snow", "thunderstorm":
			return true
		}
	}
	return false
}

// neutralSnapshot stands in when a request needs wardrobe candidates but no
// weather was fetched.
func neutralSnapshot() *weather.Snapshot {
	return &weather.Snapshot{
		Location:    "unspecified",
		Temperature: 18,
		FeelsLike:   18,
		Humidity:    50,
		Description: "mild conditions",
		Conditions:  []string{"Clear"},
		CapturedAt:  time.Now(),
	}
}
