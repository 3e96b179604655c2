// Package chat defines the per-request conversation state and routing types.
package chat

import (
	"time"

	"github.com/joris-vdw/StyleCast/internal/domain/outfit"
	"github.com/joris-vdw/StyleCast/internal/domain/wardrobe"
	"github.com/joris-vdw/StyleCast/internal/domain/weather"
)

// Action is the pipeline subset the router decided to run.
type Action string

const (
	ActionFullRecommendation Action = "full_recommendation"
	ActionWeatherOnly        Action = "weather_only"
	ActionWardrobeOnly       Action = "wardrobe_only"
	ActionConversationOnly   Action = "conversation_only"
)

// ParseAction maps a free-form action label to an Action, defaulting to
// full recommendation for anything unrecognized.
func ParseAction(s string) Action {
	switch Action(s) {
	case ActionWeatherOnly, ActionWardrobeOnly, ActionConversationOnly:
		return Action(s)
	default:
		return ActionFullRecommendation
	}
}

// RoutePlan is the intent router's decision for one utterance.
type RoutePlan struct {
	Action          Action  `json:"action"`
	Location        string  `json:"location,omitempty"`
	FollowupContext string  `json:"followup_context,omitempty"`
	OriginalMessage string  `json:"original_message"`
	Reasoning       string  `json:"reasoning,omitempty"`
	Confidence      float64 `json:"confidence"`
}

// Reply is the final response produced for the user.
type Reply struct {
	Text         string   `json:"text"`
	ResponseType string   `json:"response_type,omitempty"`
	Confidence   float64  `json:"confidence,omitempty"`
	Suggestions  []string `json:"suggestions,omitempty"`
}

// Exchange is one user/assistant utterance pair in a thread.
type Exchange struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// MaxHistoryExchanges bounds per-thread memory and the history slice fed
// into prompts.
const MaxHistoryExchanges = 10

// FailureKind identifies which pipeline stage degraded.
type FailureKind string

const (
	FailureRouting            FailureKind = "routing"
	FailureWeatherFetch       FailureKind = "weather_fetch"
	FailureWeatherAnalysis    FailureKind = "weather_analysis"
	FailureWardrobeSearch     FailureKind = "wardrobe_search"
	FailureComposition        FailureKind = "composition"
	FailureResponseGeneration FailureKind = "response_generation"
	FailureInternal           FailureKind = "internal"
)

// StageError records one recovered stage failure.
type StageError struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}

// State is the progressively populated record for one request/response
// cycle. Stages never mutate a State in place: each With* method returns a
// shallow-copied value with one field advanced, so a failing stage cannot
// corrupt fields populated upstream.
type State struct {
	Message         string                 `json:"message"`
	ThreadID        string                 `json:"thread_id"`
	Action          Action                 `json:"action"`
	Location        string                 `json:"location,omitempty"`
	FollowupContext string                 `json:"followup_context,omitempty"`
	Routing         *RoutePlan             `json:"routing,omitempty"`
	Weather         *weather.Snapshot      `json:"weather,omitempty"`
	Analysis        *weather.Analysis      `json:"analysis,omitempty"`
	Candidates      *wardrobe.CandidateSet `json:"candidates,omitempty"`
	Outfit          *outfit.Outfit         `json:"outfit,omitempty"`
	Reply           *Reply                 `json:"reply,omitempty"`
	History         []Exchange             `json:"history,omitempty"`
	Errors          []StageError           `json:"errors,omitempty"`
	StartedAt       time.Time              `json:"started_at"`
}

// NewState creates the initial state for one request. The history slice is
// trimmed to the last MaxHistoryExchanges pairs.
func NewState(message, threadID string, history []Exchange) State {
	if len(history) > MaxHistoryExchanges {
		history = history[len(history)-MaxHistoryExchanges:]
	}
	return State{
		Message:   message,
		ThreadID:  threadID,
		Action:    ActionFullRecommendation,
		History:   history,
		StartedAt: time.Now(),
	}
}

// WithRoute returns a copy with the routing decision applied.
func (s State) WithRoute(plan RoutePlan) State {
	s.Routing = &plan
	s.Action = plan.Action
	if plan.Location != "" {
		s.Location = plan.Location
	}
	if plan.FollowupContext != "" {
		s.FollowupContext = plan.FollowupContext
	}
	if plan.OriginalMessage != "" {
		s.Message = plan.OriginalMessage
	}
	return s
}

// WithWeather returns a copy carrying the fetched snapshot.
func (s State) WithWeather(snap weather.Snapshot) State {
	s.Weather = &snap
	return s
}

// WithAnalysis returns a copy carrying the weather analysis.
func (s State) WithAnalysis(a weather.Analysis) State {
	s.Analysis = &a
	return s
}

// WithCandidates returns a copy carrying the wardrobe candidate set.
func (s State) WithCandidates(cs wardrobe.CandidateSet) State {
	s.Candidates = &cs
	return s
}

// WithOutfit returns a copy carrying the composed outfit.
func (s State) WithOutfit(o outfit.Outfit) State {
	s.Outfit = &o
	return s
}

// WithReply returns a copy carrying the final reply.
func (s State) WithReply(r Reply) State {
	s.Reply = &r
	return s
}

// WithError returns a copy with one more recorded stage failure. The
// errors slice is re-allocated so earlier copies of the state stay intact.
func (s State) WithError(kind FailureKind, msg string) State {
	errs := make([]StageError, len(s.Errors), len(s.Errors)+1)
	copy(errs, s.Errors)
	s.Errors = append(errs, StageError{Kind: kind, Message: msg, At: time.Now()})
	return s
}

// HasError reports whether a failure of the given kind was recorded.
func (s State) HasError(kind FailureKind) bool {
	for _, e := range s.Errors {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// ReplyText returns the final reply text, or empty if none was produced.
func (s State) ReplyText() string {
	if s.Reply == nil {
		return ""
	}
	return s.Reply.Text
}
