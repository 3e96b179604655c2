// Package broadcast defines the port interface for pushing events to clients.
package broadcast

import "context"

// Broadcaster fans an event out to all connected clients. Implementations
// must never block request processing on slow consumers.
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}

// Event types emitted by the request pipeline.
const (
	EventRequestStarted  = "request_started"
	EventStageCompleted  = "stage_completed"
	EventRequestFinished = "request_finished"
)

// RequestStartedEvent announces a new pipeline run.
type RequestStartedEvent struct {
	RequestID string `json:"request_id"`
	ThreadID  string `json:"thread_id"`
	Message   string `json:"message"`
}

// StageCompletedEvent reports one finished pipeline stage.
type StageCompletedEvent struct {
	RequestID string `json:"request_id"`
	Stage     string `json:"stage"`
	Degraded  bool   `json:"degraded"`
}

// RequestFinishedEvent reports the terminal state of a pipeline run.
type RequestFinishedEvent struct {
	RequestID string `json:"request_id"`
	ThreadID  string `json:"thread_id"`
	Action    string `json:"action"`
	Errors    int    `json:"errors"`
}
