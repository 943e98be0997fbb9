package core

import (
	"fmt"
	"strings"
)

// OutcomeKind tags a HandlerOutcome
type OutcomeKind int

const (
	// OutcomeSuccess means the handler did its work
	OutcomeSuccess OutcomeKind = iota
	// OutcomeError means the handler failed; Message explains why
	OutcomeError
	// OutcomeInteractive means the handler made a permission decision
	OutcomeInteractive
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeError:
		return "error"
	case OutcomeInteractive:
		return "interactive"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// PermissionDecision is the decision an interactive handler reports
type PermissionDecision string

const (
	DecisionAllow PermissionDecision = "allow"
	DecisionDeny  PermissionDecision = "deny"
	DecisionAsk   PermissionDecision = "ask"
)

// ParsePermissionDecision accepts allow, deny or ask in any case
func ParsePermissionDecision(s string) (PermissionDecision, error) {
	switch PermissionDecision(strings.ToLower(strings.TrimSpace(s))) {
	case DecisionAllow:
		return DecisionAllow, nil
	case DecisionDeny:
		return DecisionDeny, nil
	case DecisionAsk:
		return DecisionAsk, nil
	default:
		return "", fmt.Errorf("invalid permission decision %q (valid: allow, deny, ask)", s)
	}
}

// strength orders decisions so the most restrictive one wins a fold
func (d PermissionDecision) strength() int {
	switch d {
	case DecisionDeny:
		return 3
	case DecisionAsk:
		return 2
	case DecisionAllow:
		return 1
	default:
		return 0
	}
}

// HandlerOutcome is what one handler reported.
type HandlerOutcome struct {
	Kind     OutcomeKind
	Message  string             // OutcomeError only
	Decision PermissionDecision // OutcomeInteractive only
	Reason   string             // OutcomeInteractive only, optional
}

// Success returns a successful outcome
func Success() HandlerOutcome {
	return HandlerOutcome{Kind: OutcomeSuccess}
}

// Failure returns an error outcome with the given message
func Failure(message string) HandlerOutcome {
	return HandlerOutcome{Kind: OutcomeError, Message: message}
}

// Interactive returns a permission decision outcome. Reason may be empty.
func Interactive(decision PermissionDecision, reason string) HandlerOutcome {
	return HandlerOutcome{Kind: OutcomeInteractive, Decision: decision, Reason: reason}
}

func (o HandlerOutcome) String() string {
	switch o.Kind {
	case OutcomeError:
		return "error: " + o.Message
	case OutcomeInteractive:
		if o.Reason != "" {
			return fmt.Sprintf("%s (%s)", o.Decision, o.Reason)
		}
		return string(o.Decision)
	default:
		return o.Kind.String()
	}
}

// errorMessages returns the messages of all error outcomes in order
func errorMessages(outcomes []HandlerOutcome) []string {
	var msgs []string
	for _, o := range outcomes {
		if o.Kind == OutcomeError {
			msgs = append(msgs, o.Message)
		}
	}
	return msgs
}

// strongestDecision folds interactive outcomes: deny beats ask beats allow,
// and within a level the first outcome's reason is kept.
func strongestDecision(outcomes []HandlerOutcome) (HandlerOutcome, bool) {
	var best HandlerOutcome
	found := false
	for _, o := range outcomes {
		if o.Kind != OutcomeInteractive {
			continue
		}
		if !found || o.Decision.strength() > best.Decision.strength() {
			best = o
			found = true
		}
	}
	return best, found
}
