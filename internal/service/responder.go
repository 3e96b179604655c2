package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joris-vdw/StyleCast/internal/domain/chat"
	"github.com/joris-vdw/StyleCast/internal/port/llm"
)

//go:embed templates/responder_system.tmpl
var responderSystemPrompt string

// ApologyReply is the terminal fallback when no reply at all can be
// generated. It is the only reply text produced without a model call.
const ApologyReply = "I apologize, but I encountered an error processing your request. Please try again."

// ResponderService turns the accumulated pipeline state into the final
// natural-language reply. It degrades through three levels: structured
// JSON reply, plain-text retry, then a fixed apology.
type ResponderService struct {
	llm         llm.Client
	model       string
	temperature float64
	logger      *slog.Logger
}

func NewResponderService(client llm.Client, model string, temperature float64, logger *slog.Logger) *ResponderService {
	return &ResponderService{
		llm:         client,
		model:       model,
		temperature: temperature,
		logger:      logger.With("service", "responder"),
	}
}

type replyPayload struct {
	Response     string   `json:"response"`
	ResponseType string   `json:"response_type"`
	Confidence   float64  `json:"confidence"`
	Suggestions  []string `json:"suggestions"`
}

// Respond generates the final reply from the state. It always returns a
// usable reply; a non-nil error means generation degraded to the fixed
// apology.
func (s *ResponderService) Respond(ctx context.Context, state chat.State) (chat.Reply, error) {
	messages := []llm.ChatMessage{{Role: "system", Content: responderSystemPrompt}}
	for _, ex := range state.History {
		messages = append(messages,
			llm.ChatMessage{Role: "user", Content: sanitizePromptInput(ex.User)},
			llm.ChatMessage{Role: "assistant", Content: ex.Assistant},
		)
	}
	messages = append(messages,
		llm.ChatMessage{Role: "user", Content: sanitizePromptInput(state.Message)},
		llm.ChatMessage{Role: "system", Content: "Pipeline results:\n" + resultsSummary(state)},
	)

	result := generate[replyPayload](ctx, s.llm, llm.ChatRequest{
		Model:          s.model,
		Messages:       messages,
		Temperature:    s.temperature,
		ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
	})

	switch result.kind {
	case genStructured:
		if strings.TrimSpace(result.value.Response) == "" {
			break
		}
		return chat.Reply{
			Text:         result.value.Response,
			ResponseType: normalizeResponseType(result.value.ResponseType, state.Action),
			Confidence:   clampConfidence(result.value.Confidence),
			Suggestions:  result.value.Suggestions,
		}, nil

	case genUnstructured:
		// Free text is still a perfectly good reply.
		return chat.Reply{
			Text:         result.raw,
			ResponseType: responseTypeForAction(state.Action),
			Confidence:   0.5,
		}, nil
	}

	// Structured attempt failed outright (or produced an empty reply):
	// retry once without the JSON constraint.
	s.logger.Warn("structured reply generation failed, retrying plain", "error", result.err)
	resp, err := s.llm.ChatCompletion(ctx, llm.ChatRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: s.temperature,
	})
	if err == nil && strings.TrimSpace(resp.Content) != "" {
		return chat.Reply{
			Text:         strings.TrimSpace(resp.Content),
			ResponseType: responseTypeForAction(state.Action),
			Confidence:   0.5,
		}, nil
	}

	s.logger.Error("reply generation exhausted, returning apology", "error", err)
	return chat.Reply{
		Text:         ApologyReply,
		ResponseType: "error",
		Confidence:   0,
	}, fmt.Errorf("reply generation failed: %w", firstNonNil(result.err, err))
}

// resultsSummary renders the state subset the responder may ground on.
func resultsSummary(state chat.State) string {
	summary := map[string]any{
		"action":   state.Action,
		"location": state.Location,
	}
	if state.Weather != nil {
		summary["weather"] = state.Weather
	}
	if state.Analysis != nil {
		summary["analysis"] = state.Analysis
	}
	if state.Outfit != nil {
		summary["outfit"] = state.Outfit
	} else if state.Candidates != nil {
		summary["wardrobe_candidates"] = state.Candidates
	}
	if len(state.Errors) > 0 {
		kinds := make([]string, 0, len(state.Errors))
		for _, e := range state.Errors {
			kinds = append(kinds, string(e.Kind))
		}
		summary["degraded_stages"] = kinds
	}
	raw, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Sprintf("action: %s", state.Action)
	}
	return string(raw)
}

func normalizeResponseType(t string, action chat.Action) string {
	switch t {
	case "outfit_recommendation", "weather_info", "wardrobe_info", "conversation", "error":
		return t
	}
	return responseTypeForAction(action)
}

func responseTypeForAction(action chat.Action) string {
	switch action {
	case chat.ActionWeatherOnly:
		return "weather_info"
	case chat.ActionWardrobeOnly:
		return "wardrobe_info"
	case chat.ActionConversationOnly:
		return "conversation"
	default:
		return "outfit_recommendation"
	}
}

func firstNonNil(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
