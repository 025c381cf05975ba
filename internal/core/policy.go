package core

// Policy turns a verdict into a navigation action. It is pure: all
// side effects belong to the guard and the gateway.
type Policy struct {
	// SuspicionThreshold is the confidence below which a non-phishing,
	// non-safe verdict escalates externally.
	SuspicionThreshold float64
}

// NewPolicy creates a policy with the given suspicion threshold. A zero
// or negative threshold falls back to the default.
func NewPolicy(threshold float64) Policy {
	if threshold <= 0 {
		threshold = DefaultSuspicionThreshold
	}
	return Policy{SuspicionThreshold: threshold}
}

// Decide maps a verdict and its origin to an action. Rules are ordered,
// first match wins:
//
//  1. phishing/malicious labels escalate to the internal warning surface.
//  2. legitimate/safe labels continue - immediately for a fresh
//     verification, after the grace delay for a cached one. The
//     asymmetry is deliberate: a cached verdict navigates after a short
//     window so the surface can redraw before the page unloads.
//  3. suspicious labels, or any remaining verdict with low confidence,
//     escalate to the dashboard warning surface and request a
//     background re-check tab.
//  4. everything else (including "unknown") waits for the user.
func (p Policy) Decide(v Verdict, origin Origin) Action {
	switch {
	case isPhishingLabel(v.Status):
		return Action{Kind: ActionEscalateInternal}
	case isSafeLabel(v.Status):
		if origin.FromCache {
			return Action{Kind: ActionContinueAfterGrace}
		}
		return Action{Kind: ActionContinueNow}
	case isSuspiciousLabel(v.Status) || isLowConfidence(v, p.SuspicionThreshold):
		return Action{Kind: ActionEscalateExternal, OpenRecheckTab: true}
	default:
		return Action{Kind: ActionWait}
	}
}
