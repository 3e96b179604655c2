package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/joris-vdw/StyleCast/internal/adapter/otel"
	"github.com/joris-vdw/StyleCast/internal/domain/chat"
	"github.com/joris-vdw/StyleCast/internal/logger"
	"github.com/joris-vdw/StyleCast/internal/port/broadcast"
)

// StylistService orchestrates the request pipeline: route the message,
// run the stage subset the action calls for, then generate the reply.
// Stage failures are recorded on the state and never abort the run; the
// responder always gets a chance to say something useful.
type StylistService struct {
	router    *RouterService
	weather   *WeatherService
	selector  *SelectorService
	composer  *ComposerService
	responder *ResponderService

	hub     broadcast.Broadcaster
	metrics *otel.Metrics
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	memory map[string][]chat.Exchange
}

func NewStylistService(
	router *RouterService,
	weather *WeatherService,
	selector *SelectorService,
	composer *ComposerService,
	responder *ResponderService,
	hub broadcast.Broadcaster,
	metrics *otel.Metrics,
	timeout time.Duration,
	logger *slog.Logger,
) *StylistService {
	return &StylistService{
		router:    router,
		weather:   weather,
		selector:  selector,
		composer:  composer,
		responder: responder,
		hub:       hub,
		metrics:   metrics,
		timeout:   timeout,
		logger:    logger.With("service", "stylist"),
		memory:    make(map[string][]chat.Exchange),
	}
}

// ProcessRequest runs the full pipeline for one message and returns the
// terminal state. It never returns an error: every failure mode ends in a
// state carrying a reply, down to the fixed apology.
func (s *StylistService) ProcessRequest(ctx context.Context, message, threadID string) (finalState chat.State) {
	if threadID == "" {
		threadID = uuid.NewString()
	}
	requestID := uuid.NewString()
	start := time.Now()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx = logger.WithRequestID(ctx, requestID)
	ctx, span := otel.StartRequestSpan(ctx, requestID, threadID)
	defer span.End()

	state := chat.NewState(message, threadID, s.History(threadID))

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("pipeline panicked", "request_id", requestID, "panic", r)
			finalState = state.
				WithError(chat.FailureInternal, "internal pipeline error").
				WithReply(chat.Reply{Text: ApologyReply, ResponseType: "error"})
		}
		s.finish(ctx, requestID, finalState, start)
	}()

	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, broadcast.EventRequestStarted, broadcast.RequestStartedEvent{
			RequestID: requestID,
			ThreadID:  threadID,
			Message:   message,
		})
	}

	state = s.runRouting(ctx, requestID, state)

	switch state.Action {
	case chat.ActionWeatherOnly:
		state = s.runWeather(ctx, requestID, state)
	case chat.ActionWardrobeOnly:
		state = s.runWardrobe(ctx, requestID, state)
	case chat.ActionConversationOnly:
		// nothing to gather
	default:
		state = s.runWeather(ctx, requestID, state)
		state = s.runWardrobe(ctx, requestID, state)
		state = s.runComposition(ctx, requestID, state)
	}

	state = s.runResponse(ctx, requestID, state)

	s.remember(threadID, message, state.ReplyText())
	return state
}

func (s *StylistService) runRouting(ctx context.Context, requestID string, state chat.State) chat.State {
	ctx, span := otel.StartStageSpan(ctx, "routing")
	defer span.End()

	plan, err := s.router.Route(ctx, state.Message, state.History)
	state = state.WithRoute(plan)
	if err != nil {
		state = state.WithError(chat.FailureRouting, err.Error())
	}
	s.stageDone(ctx, requestID, "routing", err != nil)
	return state
}

func (s *StylistService) runWeather(ctx context.Context, requestID string, state chat.State) chat.State {
	ctx, span := otel.StartStageSpan(ctx, "weather")
	defer span.End()

	if state.Location == "" {
		state = state.WithError(chat.FailureWeatherFetch, "no location to fetch weather for")
		s.stageDone(ctx, requestID, "weather", true)
		return state
	}
	if err := ctx.Err(); err != nil {
		state = state.WithError(chat.FailureWeatherFetch, err.Error())
		s.stageDone(ctx, requestID, "weather", true)
		return state
	}

	snap, err := s.weather.Fetch(ctx, state.Location)
	if err != nil {
		state = state.WithError(chat.FailureWeatherFetch, err.Error())
		s.stageDone(ctx, requestID, "weather", true)
		return state
	}
	state = state.WithWeather(*snap)

	analysis, err := s.weather.Analyze(ctx, snap)
	state = state.WithAnalysis(analysis)
	if err != nil {
		state = state.WithError(chat.FailureWeatherAnalysis, err.Error())
	}
	s.stageDone(ctx, requestID, "weather", err != nil)
	return state
}

func (s *StylistService) runWardrobe(ctx context.Context, requestID string, state chat.State) chat.State {
	ctx, span := otel.StartStageSpan(ctx, "wardrobe")
	defer span.End()

	if err := ctx.Err(); err != nil {
		state = state.WithError(chat.FailureWardrobeSearch, err.Error())
		s.stageDone(ctx, requestID, "wardrobe", true)
		return state
	}

	candidates, err := s.selector.Select(ctx, state.Weather, state.FollowupContext)
	state = state.WithCandidates(candidates)
	if err != nil {
		state = state.WithError(chat.FailureWardrobeSearch, err.Error())
	}
	s.stageDone(ctx, requestID, "wardrobe", err != nil)
	return state
}

func (s *StylistService) runComposition(ctx context.Context, requestID string, state chat.State) chat.State {
	ctx, span := otel.StartStageSpan(ctx, "composition")
	defer span.End()

	if state.Candidates == nil || state.Candidates.Total() == 0 {
		state = state.WithError(chat.FailureComposition, "no wardrobe candidates to compose from")
		s.stageDone(ctx, requestID, "composition", true)
		return state
	}
	if err := ctx.Err(); err != nil {
		state = state.WithError(chat.FailureComposition, err.Error())
		s.stageDone(ctx, requestID, "composition", true)
		return state
	}

	selected, err := s.composer.Compose(ctx, state.Weather, state.FollowupContext, state.Candidates)
	state = state.WithOutfit(selected)
	if err != nil {
		state = state.WithError(chat.FailureComposition, err.Error())
	}
	s.stageDone(ctx, requestID, "composition", err != nil)
	return state
}

func (s *StylistService) runResponse(ctx context.Context, requestID string, state chat.State) chat.State {
	ctx, span := otel.StartStageSpan(ctx, "response")
	defer span.End()

	// A dead context cannot carry a model call; go straight to the apology.
	if err := ctx.Err(); err != nil && errors.Is(err, context.DeadlineExceeded) {
		state = state.WithError(chat.FailureResponseGeneration, err.Error())
		s.stageDone(ctx, requestID, "response", true)
		return state.WithReply(chat.Reply{Text: ApologyReply, ResponseType: "error"})
	}

	reply, err := s.responder.Respond(ctx, state)
	if err != nil {
		state = state.WithError(chat.FailureResponseGeneration, err.Error())
	}
	s.stageDone(ctx, requestID, "response", err != nil)
	return state.WithReply(reply)
}

// History returns a copy of the remembered exchanges for a thread.
func (s *StylistService) History(threadID string) []chat.Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.memory[threadID]
	out := make([]chat.Exchange, len(stored))
	copy(out, stored)
	return out
}

// remember appends one exchange to a thread's memory, trimmed to the last
// MaxHistoryExchanges pairs.
func (s *StylistService) remember(threadID, user, assistant string) {
	if assistant == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	history := append(s.memory[threadID], chat.Exchange{User: user, Assistant: assistant})
	if len(history) > chat.MaxHistoryExchanges {
		history = history[len(history)-chat.MaxHistoryExchanges:]
	}
	s.memory[threadID] = history
}

func (s *StylistService) stageDone(ctx context.Context, requestID, stage string, degraded bool) {
	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, broadcast.EventStageCompleted, broadcast.StageCompletedEvent{
			RequestID: requestID,
			Stage:     stage,
			Degraded:  degraded,
		})
	}
	if s.metrics != nil && degraded {
		s.metrics.StageFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
	}
}

func (s *StylistService) finish(ctx context.Context, requestID string, state chat.State, start time.Time) {
	elapsed := time.Since(start)
	s.logger.Info("request processed",
		"request_id", requestID,
		"thread_id", state.ThreadID,
		"action", state.Action,
		"errors", len(state.Errors),
		"duration_ms", elapsed.Milliseconds())

	if s.metrics != nil {
		attrs := metric.WithAttributes(attribute.String("action", string(state.Action)))
		s.metrics.Requests.Add(ctx, 1, attrs)
		s.metrics.RequestDuration.Record(ctx, elapsed.Seconds(), attrs)
	}
	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, broadcast.EventRequestFinished, broadcast.RequestFinishedEvent{
			RequestID: requestID,
			ThreadID:  state.ThreadID,
			Action:    string(state.Action),
			Errors:    len(state.Errors),
		})
	}
}
