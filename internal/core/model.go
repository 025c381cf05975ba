package core

import (
	"time"
)

// Verdict represents the outcome of checking a URL against the
// verification service. Status is free text as returned by the service;
// classification happens in Classify, never by comparing Status directly.
type Verdict struct {
	Status     string
	Confidence *float64
	Reason     string
}

// ConfidenceValue returns the confidence score and whether one is present.
func (v Verdict) ConfidenceValue() (float64, bool) {
	if v.Confidence == nil {
		return 0, false
	}
	return *v.Confidence, true
}

// VerdictClass is the closed classification of a raw verdict.
type VerdictClass int

const (
	ClassUnknown VerdictClass = iota
	ClassSafe
	ClassSuspicious
	ClassPhishing
)

// String returns the lowercase name of the class.
func (c VerdictClass) String() string {
	switch c {
	case ClassSafe:
		return "safe"
	case ClassSuspicious:
		return "suspicious"
	case ClassPhishing:
		return "phishing"
	default:
		return "unknown"
	}
}

// CacheEntry represents a cached verdict for a URL
type CacheEntry struct {
	URL        string
	Status     string
	Confidence *float64
	Reason     string
	CheckedAt  time.Time
	ExpiresAt  time.Time
}

// Verdict reconstructs the verdict stored in the entry.
func (e *CacheEntry) Verdict() Verdict {
	return Verdict{
		Status:     e.Status,
		Confidence: e.Confidence,
		Reason:     e.Reason,
	}
}

// PendingNavigation represents the single in-flight link activation
// awaiting a decision. Seq is a monotonic tag; a decision is only
// dispatched if the register still holds the same Seq, so a verdict for
// a superseded activation can never trigger navigation.
type PendingNavigation struct {
	Href         string
	OpenInNewTab bool
	Seq          uint64
}

// Origin describes where a verdict came from
type Origin struct {
	FromCache bool
}

// ActionKind enumerates what to do with an intercepted navigation.
type ActionKind int

const (
	// ActionWait keeps navigation suppressed until the user decides.
	ActionWait ActionKind = iota
	// ActionContinueNow releases the navigation immediately.
	ActionContinueNow
	// ActionContinueAfterGrace releases the navigation after the grace delay.
	ActionContinueAfterGrace
	// ActionEscalateInternal redirects to the local warning surface.
	ActionEscalateInternal
	// ActionEscalateExternal redirects to the dashboard warning surface.
	ActionEscalateExternal
)

// String returns a short name for the action kind.
func (k ActionKind) String() string {
	switch k {
	case ActionContinueNow:
		return "continue"
	case ActionContinueAfterGrace:
		return "continue_after_grace"
	case ActionEscalateInternal:
		return "escalate_internal"
	case ActionEscalateExternal:
		return "escalate_external"
	default:
		return "wait"
	}
}

// Action is the decision produced by the policy for a verdict.
type Action struct {
	Kind ActionKind
	// OpenRecheckTab instructs the gateway to open a background tab
	// pointed at a dashboard re-check of the URL. Only set for
	// ActionEscalateExternal.
	OpenRecheckTab bool
}

// SurfaceState represents the notification surface lifecycle.
type SurfaceState int

const (
	StateIdle SurfaceState = iota
	StateVerifying
	StateResult
)
