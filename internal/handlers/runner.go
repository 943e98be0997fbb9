package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauern/hookrelay/internal/config"
	"github.com/klauern/hookrelay/internal/core"
	"github.com/klauern/hookrelay/internal/store"
)

// Options supplies the side-effecting dependencies handlers use. Zero values
// are replaced with real implementations.
type Options struct {
	Executor CommandExecutor
	Notifier Notifier
	// Store backs meilisearch handlers; nil builds a MeiliStore from config
	Store      store.EventStore
	Env        EnvironmentProvider
	ProjectDir string
	Now        func() time.Time
}

type compiledRule struct {
	name     string
	events   map[core.EventType]bool
	match    map[string]string
	parallel bool
	handlers []Handler
}

// Runner selects rules for an event and executes their handlers. It
// implements core.HandlerRunner.
type Runner struct {
	rules []compiledRule
}

var _ core.HandlerRunner = (*Runner)(nil)

// NewRunner compiles the rules of cfg. Unknown hook types, malformed glob
// patterns and invalid handler settings are reported here rather than at
// dispatch time.
func NewRunner(cfg *config.Config, opts Options) (*Runner, error) {
	if opts.Executor == nil {
		opts.Executor = ExecExecutor{}
	}
	if opts.Notifier == nil {
		opts.Notifier = DesktopNotifier{Executor: opts.Executor}
	}
	if opts.Env == nil {
		opts.Env = NewEventEnvironmentProvider(opts.ProjectDir)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := &Runner{}
	if cfg == nil {
		return r, nil
	}

	for i, rule := range cfg.Rules {
		label := rule.Name
		if label == "" {
			label = fmt.Sprintf("rules[%d]", i)
		}

		cr := compiledRule{name: label, match: rule.Match, parallel: rule.Parallel}
		if len(rule.Events) > 0 {
			cr.events = make(map[core.EventType]bool, len(rule.Events))
			for _, ev := range rule.Events {
				if !core.IsValidEventType(ev) {
					return nil, fmt.Errorf("%s: unknown hook type %q", label, ev)
				}
				cr.events[core.EventType(ev)] = true
			}
		}
		for path, pattern := range rule.Match {
			if !doublestar.ValidatePattern(pattern) {
				return nil, fmt.Errorf("%s: invalid match pattern %q for %s", label, pattern, path)
			}
		}

		for j, hc := range rule.Handlers {
			h, err := buildHandler(hc, cfg.Meilisearch, &opts)
			if err != nil {
				return nil, fmt.Errorf("%s.handlers[%d]: %w", label, j, err)
			}
			cr.handlers = append(cr.handlers, h)
		}
		r.rules = append(r.rules, cr)
	}
	return r, nil
}

func buildHandler(hc config.HandlerConfig, meili *config.MeilisearchConfig, opts *Options) (Handler, error) {
	switch hc.Type {
	case config.HandlerCommand:
		return &commandHandler{cfg: hc, executor: opts.Executor, env: opts.Env}, nil
	case config.HandlerNotify:
		return &notifyHandler{cfg: hc, notifier: opts.Notifier}, nil
	case config.HandlerDecision:
		return newDecisionHandler(hc)
	case config.HandlerMeilisearch:
		s := opts.Store
		if s == nil {
			if meili == nil || meili.Endpoint == "" {
				return nil, fmt.Errorf("meilisearch handler requires a meilisearch.endpoint")
			}
			index := meili.Index
			if hc.Index != "" {
				index = hc.Index
			}
			s = store.NewMeiliStore(meili.Endpoint, meili.APIKey, index)
		}
		return &archiveHandler{name: hc.DisplayName(), store: s, now: opts.Now}, nil
	default:
		return nil, fmt.Errorf("unknown handler type %q", hc.Type)
	}
}

// Rules returns the number of compiled rules
func (r *Runner) Rules() int {
	return len(r.rules)
}

// Run executes every handler of every matching rule. Rules run in
// configuration order; within a parallel rule handlers run concurrently but
// their outcomes keep declaration order.
func (r *Runner) Run(ctx context.Context, hook core.Hook, e *core.Event) []core.HandlerOutcome {
	var outcomes []core.HandlerOutcome
	for _, rule := range r.rules {
		if !rule.matches(hook, e) {
			continue
		}
		if rule.parallel && len(rule.handlers) > 1 {
			outcomes = append(outcomes, runParallel(ctx, rule.handlers, hook, e)...)
			continue
		}
		for _, h := range rule.handlers {
			outcomes = append(outcomes, h.Handle(ctx, hook, e))
		}
	}
	return outcomes
}

func runParallel(ctx context.Context, handlers []Handler, hook core.Hook, e *core.Event) []core.HandlerOutcome {
	results := make([]core.HandlerOutcome, len(handlers))
	var wg sync.WaitGroup
	for i, h := range handlers {
		wg.Go(func() {
			results[i] = h.Handle(ctx, hook, e)
		})
	}
	wg.Wait()
	return results
}

// Matches returns the names of the rules that select the event, for dry runs.
func (r *Runner) Matches(hook core.Hook, e *core.Event) []string {
	var names []string
	for _, rule := range r.rules {
		if rule.matches(hook, e) {
			names = append(names, rule.name)
		}
	}
	return names
}

func (rule compiledRule) matches(hook core.Hook, e *core.Event) bool {
	if rule.events != nil && !rule.events[hook.HookType()] {
		return false
	}
	for path, pattern := range rule.match {
		value, ok := e.GetNestedString(path)
		if !ok {
			return false
		}
		matched, err := doublestar.Match(pattern, value)
		if err != nil || !matched {
			return false
		}
	}
	return true
}
