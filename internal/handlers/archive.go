package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/klauern/hookrelay/internal/core"
	"github.com/klauern/hookrelay/internal/store"
)

// archiveHandler indexes the event into a search store
type archiveHandler struct {
	name  string
	store store.EventStore
	now   func() time.Time
}

func (h *archiveHandler) Name() string { return h.name }

func (h *archiveHandler) Handle(ctx context.Context, hook core.Hook, e *core.Event) core.HandlerOutcome {
	doc := store.EventToDocument(string(hook.HookType()), string(e.Producer()), h.now(), e.Value())
	if err := h.store.Index(ctx, doc); err != nil {
		return core.Failure(fmt.Sprintf("%s: %v", h.name, err))
	}
	return core.Success()
}
