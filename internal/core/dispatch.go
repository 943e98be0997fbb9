package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// HandlerRunner executes the handlers configured for a resolved hook and
// reports their outcomes in the order the caller wants them folded.
type HandlerRunner interface {
	Run(ctx context.Context, hook Hook, e *Event) []HandlerOutcome
}

// Result is the output of one dispatch
type Result struct {
	InvocationID string
	Event        *Event
	Hook         Hook
	Outcomes     []HandlerOutcome
	Response     map[string]any
}

// Dispatcher runs the parse, resolve, handle and respond pipeline for one event.
type Dispatcher struct {
	// Runner executes handlers. Nil means no handlers run.
	Runner HandlerRunner
	// Logger records each dispatch. Nil disables logging.
	Logger *EventLogger
	// Now is overridable for tests
	Now func() time.Time
}

// Dispatch parses text as an event and produces the reply for its hook type.
// Parse, resolution and construction errors are returned as-is and no
// response is produced.
func (d *Dispatcher) Dispatch(ctx context.Context, text string) (*Result, error) {
	entry := LogEntry{InvocationID: uuid.NewString(), Timestamp: d.now().Format(time.RFC3339)}

	event, err := ParseEvent(text)
	if err != nil {
		entry.Error = err.Error()
		d.Logger.Log(entry)
		return nil, err
	}
	entry.Producer = string(event.Producer())

	hook, err := Resolve(event)
	if err != nil {
		entry.Error = err.Error()
		d.Logger.Log(entry)
		return nil, err
	}
	entry.HookType = string(hook.HookType())
	entry.ToolName, _ = ToolName(event)
	if details := ToolDetails(hook); len(details) > 0 {
		entry.Details = map[string]any{}
		for k, v := range details {
			entry.Details[k] = v
		}
	}

	var outcomes []HandlerOutcome
	if d.Runner != nil {
		outcomes = d.Runner.Run(ctx, hook, event)
	}
	response := hook.GenerateResponse(outcomes)

	for _, o := range outcomes {
		entry.Outcomes = append(entry.Outcomes, o.String())
	}
	entry.Response = response
	d.Logger.Log(entry)

	return &Result{
		InvocationID: entry.InvocationID,
		Event:        event,
		Hook:         hook,
		Outcomes:     outcomes,
		Response:     response,
	}, nil
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
