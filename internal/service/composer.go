package service

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/joris-vdw/StyleCast/internal/domain/outfit"
	"github.com/joris-vdw/StyleCast/internal/domain/wardrobe"
	"github.com/joris-vdw/StyleCast/internal/domain/weather"
	"github.com/joris-vdw/StyleCast/internal/port/llm"
)

//go:embed templates/composer_prompt.tmpl
var composerPromptText string

var composerPrompt = template.Must(template.New("composer").Parse(composerPromptText))

// ComposerService picks one outfit from the candidate pool. The model's
// answer is accepted in structured JSON or in a positional single-string
// fallback; every named item is resolved against the candidate pool so the
// outfit can never reference an item the user does not own.
type ComposerService struct {
	llm         llm.Client
	model       string
	temperature float64
	logger      *slog.Logger
}

func NewComposerService(client llm.Client, model string, temperature float64, logger *slog.Logger) *ComposerService {
	return &ComposerService{
		llm:         client,
		model:       model,
		temperature: temperature,
		logger:      logger.With("service", "composer"),
	}
}

type outfitPayload struct {
	Top            string   `json:"top"`
	Bottom         string   `json:"bottom"`
	Footwear       string   `json:"footwear"`
	Outerwear      string   `json:"outerwear"`
	Accessories    []string `json:"accessories"`
	Description    string   `json:"description"`
	StylingAdvice  string   `json:"styling_advice"`
	WeatherFit     string   `json:"weather_fit"`
	FormalityMatch string   `json:"formality_match"`
}

type composerPromptData struct {
	Location    string
	Temperature float64
	FeelsLike   float64
	Description string
	WindSpeed   float64
	Humidity    int
	Context     string
	Items       string
}

// Compose selects an outfit from the candidates. The returned outfit is
// always well formed; a non-nil error means the model call failed outright
// and the outfit is empty with default rationale text.
func (s *ComposerService) Compose(ctx context.Context, snap *weather.Snapshot, requestContext string, candidates *wardrobe.CandidateSet) (outfit.Outfit, error) {
	if snap == nil {
		snap = neutralSnapshot()
	}

	var prompt bytes.Buffer
	err := composerPrompt.Execute(&prompt, composerPromptData{
		Location:    snap.Location,
		Temperature: snap.Temperature,
		FeelsLike:   snap.FeelsLike,
		Description: snap.Description,
		WindSpeed:   snap.WindSpeed,
		Humidity:    snap.Humidity,
		Context:     sanitizePromptInput(requestContext),
		Items:       formatCandidates(candidates),
	})
	if err != nil {
		return defaultOutfit(), fmt.Errorf("render composer prompt: %w", err)
	}

	lookup := buildLookup(candidates)

	result := generate[outfitPayload](ctx, s.llm, llm.ChatRequest{
		Model:       s.model,
		Temperature: s.temperature,
		Messages: []llm.ChatMessage{
			{Role: "user", Content: prompt.String()},
		},
		ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
	})

	switch result.kind {
	case genStructured:
		return s.fromPayload(result.value, lookup), nil
	case genUnstructured:
		s.logger.Warn("composer returned non-JSON output, parsing positional format",
			"raw", truncate(result.raw, 200))
		return s.fromPositional(result.raw, lookup), nil
	default:
		s.logger.Warn("composer call failed", "error", result.err)
		return defaultOutfit(), fmt.Errorf("composer call failed: %w", result.err)
	}
}

func (s *ComposerService) fromPayload(p outfitPayload, lookup map[wardrobe.Category][]wardrobe.Item) outfit.Outfit {
	o := outfit.Outfit{
		Top:            resolveName(p.Top, lookup[wardrobe.CategoryTop]),
		Bottom:         resolveName(p.Bottom, lookup[wardrobe.CategoryBottom]),
		Footwear:       resolveName(p.Footwear, lookup[wardrobe.CategoryFootwear]),
		Outerwear:      resolveName(p.Outerwear, lookup[wardrobe.CategoryOuterwear]),
		Description:    p.Description,
		StylingAdvice:  p.StylingAdvice,
		WeatherFit:     p.WeatherFit,
		FormalityMatch: p.FormalityMatch,
	}
	for _, name := range p.Accessories {
		if item := resolveName(name, lookup[wardrobe.CategoryAccessory]); item != nil {
			o.Accessories = append(o.Accessories, *item)
		}
	}
	return fillRationale(o)
}

// fromPositional parses the single-string fallback format
// "top|bottom|footwear|outerwear|acc1,acc2" with "None" for empty slots.
// Anything that does not split into exactly five fields yields an outfit
// with every slot empty.
func (s *ComposerService) fromPositional(raw string, lookup map[wardrobe.Category][]wardrobe.Item) outfit.Outfit {
	line := raw
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	fields := strings.Split(line, "|")
	if len(fields) != 5 {
		s.logger.Warn("positional outfit output malformed", "fields", len(fields))
		return defaultOutfit()
	}

	o := outfit.Outfit{
		Top:       resolveName(fields[0], lookup[wardrobe.CategoryTop]),
		Bottom:    resolveName(fields[1], lookup[wardrobe.CategoryBottom]),
		Footwear:  resolveName(fields[2], lookup[wardrobe.CategoryFootwear]),
		Outerwear: resolveName(fields[3], lookup[wardrobe.CategoryOuterwear]),
	}
	for _, name := range strings.Split(fields[4], ",") {
		if item := resolveName(name, lookup[wardrobe.CategoryAccessory]); item != nil {
			o.Accessories = append(o.Accessories, *item)
		}
	}
	return fillRationale(o)
}

// resolveName matches a model-produced name against candidate items:
// exact case-insensitive first, then substring containment either way.
// Empty names and "None" sentinels resolve to no item.
func resolveName(name string, items []wardrobe.Item) *wardrobe.Item {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "none", "not needed", "n/a":
		return nil
	}

	for i := range items {
		if strings.ToLower(items[i].Name) == name {
			return &items[i]
		}
	}
	for i := range items {
		candidate := strings.ToLower(items[i].Name)
		if strings.Contains(candidate, name) || strings.Contains(name, candidate) {
			return &items[i]
		}
	}
	return nil
}

func buildLookup(candidates *wardrobe.CandidateSet) map[wardrobe.Category][]wardrobe.Item {
	lookup := make(map[wardrobe.Category][]wardrobe.Item)
	if candidates == nil {
		return lookup
	}
	for _, cat := range wardrobe.Categories() {
		lookup[cat] = candidates.ByCategory(cat)
	}
	return lookup
}

func formatCandidates(candidates *wardrobe.CandidateSet) string {
	if candidates == nil || candidates.Total() == 0 {
		return "(no items available)"
	}
	var b strings.Builder
	for _, cat := range wardrobe.Categories() {
		items := candidates.ByCategory(cat)
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", cat)
		for _, it := range items {
			fmt.Fprintf(&b, "  - %s (%s, %s, warmth %d/5, formality %d/5)\n",
				it.Name, it.Color, it.Material, it.WarmthLevel, it.Formality)
		}
	}
	return b.String()
}

func fillRationale(o outfit.Outfit) outfit.Outfit {
	if o.Description == "" {
		o.Description = "Outfit assembled from your wardrobe."
	}
	if o.StylingAdvice == "" {
		o.StylingAdvice = "Adjust layers to stay comfortable through the day."
	}
	if o.WeatherFit == "" {
		o.WeatherFit = "Chosen to suit the current conditions."
	}
	if o.FormalityMatch == "" {
		o.FormalityMatch = "Suited to everyday wear."
	}
	return o
}

func defaultOutfit() outfit.Outfit {
	return fillRationale(outfit.Outfit{})
}
