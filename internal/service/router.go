package service

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joris-vdw/StyleCast/internal/domain/chat"
	"github.com/joris-vdw/StyleCast/internal/port/llm"
)

//go:embed templates/router_system.tmpl
var routerSystemPrompt string

// RouterService classifies an incoming message into a pipeline action and
// extracts the location and follow-up context the later stages need.
type RouterService struct {
	llm         llm.Client
	model       string
	temperature float64
	logger      *slog.Logger
}

func NewRouterService(client llm.Client, model string, temperature float64, logger *slog.Logger) *RouterService {
	return &RouterService{
		llm:         client,
		model:       model,
		temperature: temperature,
		logger:      logger.With("service", "router"),
	}
}

type routePayload struct {
	Action          string  `json:"action"`
	Location        string  `json:"location"`
	FollowupContext string  `json:"followup_context"`
	Reasoning       string  `json:"reasoning"`
	Confidence      float64 `json:"confidence"`
}

// Route produces a plan for the message. It always returns a usable plan;
// a non-nil error means classification failed and the returned plan is the
// conservative fallback (full recommendation, confidence 0.5).
func (s *RouterService) Route(ctx context.Context, message string, history []chat.Exchange) (chat.RoutePlan, error) {
	messages := []llm.ChatMessage{{Role: "system", Content: routerSystemPrompt}}
	for _, ex := range history {
		messages = append(messages,
			llm.ChatMessage{Role: "user", Content: sanitizePromptInput(ex.User)},
			llm.ChatMessage{Role: "assistant", Content: ex.Assistant},
		)
	}
	messages = append(messages, llm.ChatMessage{Role: "user", Content: sanitizePromptInput(message)})

	result := generate[routePayload](ctx, s.llm, llm.ChatRequest{
		Model:          s.model,
		Messages:       messages,
		Temperature:    s.temperature,
		ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
	})

	switch result.kind {
	case genStructured:
		plan := chat.RoutePlan{
			Action:          chat.ParseAction(result.value.Action),
			Location:        normalizeLocation(result.value.Location),
			FollowupContext: strings.TrimSpace(result.value.FollowupContext),
			OriginalMessage: message,
			Reasoning:       result.value.Reasoning,
			Confidence:      clampConfidence(result.value.Confidence),
		}
		s.logger.Debug("routed message",
			"action", plan.Action,
			"location", plan.Location,
			"confidence", plan.Confidence)
		return plan, nil

	case genUnstructured:
		s.logger.Warn("router returned non-JSON output, using fallback plan",
			"raw", truncate(result.raw, 200))
		return fallbackPlan(message), fmt.Errorf("router output not parseable as plan")

	default:
		s.logger.Warn("router call failed, using fallback plan", "error", result.err)
		return fallbackPlan(message), fmt.Errorf("router call failed: %w", result.err)
	}
}

func fallbackPlan(message string) chat.RoutePlan {
	return chat.RoutePlan{
		Action:          chat.ActionFullRecommendation,
		OriginalMessage: message,
		Reasoning:       "intent classification unavailable, defaulting to full recommendation",
		Confidence:      0.5,
	}
}

// normalizeLocation reduces a location to a simple city name: lowercase,
// trimmed, and only the part before the first comma.
func normalizeLocation(loc string) string {
	loc = strings.ToLower(strings.TrimSpace(loc))
	if idx := strings.Index(loc, ","); idx >= 0 {
		loc = strings.TrimSpace(loc[:idx])
	}
	return loc
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
