// Package guard decides who may read and mutate posts. It is pure: callers
// resolve the session and load the post, the guard only answers yes or no.
package guard

import (
	"scribe/internal/models"
	"scribe/internal/observability"
)

// Action names a guarded operation.
type Action string

const (
	ActionViewFeed Action = "view_feed"
	ActionWrite    Action = "write"
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
)

// Reason explains a denial.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonAnonymous Reason = "anonymous"
	ReasonNotOwner  Reason = "not_owner"
)

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Err converts a denial into the matching application error, or nil when allowed.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Reason == ReasonNotOwner:
		return models.NewForbiddenError("You can only modify your own posts")
	default:
		return models.NewUnauthorizedError("Login required")
	}
}

// Policy holds the single feed visibility flag shared by every read route.
type Policy struct {
	FeedRequiresAuth bool
}

// NewPolicy returns a policy with the given feed visibility.
func NewPolicy(feedRequiresAuth bool) *Policy {
	return &Policy{FeedRequiresAuth: feedRequiresAuth}
}

// CanViewFeed covers the feed, single post reads and author listings.
func (p *Policy) CanViewFeed(state models.SessionState) bool {
	return p.Decide(ActionViewFeed, state, nil).Allowed
}

func (p *Policy) CanWrite(state models.SessionState) bool {
	return p.Decide(ActionWrite, state, nil).Allowed
}

func (p *Policy) CanEdit(state models.SessionState, post *models.Post) bool {
	return p.Decide(ActionEdit, state, post).Allowed
}

func (p *Policy) CanDelete(state models.SessionState, post *models.Post) bool {
	return p.Decide(ActionDelete, state, post).Allowed
}

// Decide evaluates action for state. post is only consulted for edit and
// delete; a nil post is never owned by anyone. A nil policy requires auth.
func (p *Policy) Decide(action Action, state models.SessionState, post *models.Post) Decision {
	d := p.decide(action, state, post)
	outcome := "allow"
	if !d.Allowed {
		outcome = string(d.Reason)
	}
	observability.GuardDecisions.WithLabelValues(string(action), outcome).Inc()
	return d
}

func (p *Policy) decide(action Action, state models.SessionState, post *models.Post) Decision {
	switch action {
	case ActionViewFeed:
		if p != nil && !p.FeedRequiresAuth {
			return Decision{Allowed: true}
		}
		return requireAuth(state)
	case ActionWrite:
		return requireAuth(state)
	case ActionEdit, ActionDelete:
		if d := requireAuth(state); !d.Allowed {
			return d
		}
		if !post.OwnedBy(state.AccountID) {
			return Decision{Reason: ReasonNotOwner}
		}
		return Decision{Allowed: true}
	default:
		return Decision{Reason: ReasonAnonymous}
	}
}

func requireAuth(state models.SessionState) Decision {
	if !state.IsAuthenticated() {
		return Decision{Reason: ReasonAnonymous}
	}
	return Decision{Allowed: true}
}
