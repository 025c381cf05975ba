package core

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
)

// GuardConfig carries the tunables of the guard pipeline.
type GuardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
	GraceDelay   time.Duration
	// WarningURL is the base URL of the local warning surface used for
	// phishing verdicts.
	WarningURL string
	// DashboardURL is the base URL of the dashboard hosting the
	// external warning and re-check views.
	DashboardURL string
}

// Guard is the navigation firewall: it owns the pending-navigation
// register, the notification surface state and the grace timer, and
// drives the cache -> verification -> decision -> side-effect pipeline.
//
// At most one navigation is pending at a time. A new interception
// silently replaces the previous one; the sequence tag on the register
// makes sure a verdict obtained for a replaced navigation is discarded
// instead of navigating somewhere the user no longer asked for.
type Guard struct {
	verifier Verifier
	cache    CacheRepository
	gateway  Gateway
	notifier Notifier
	trust    TrustChecker
	policy   Policy
	cfg      GuardConfig
	logger   *zap.Logger

	mu         sync.Mutex
	seq        uint64
	pending    *PendingNavigation
	state      SurfaceState
	graceTimer *time.Timer
}

// NewGuard creates a new navigation guard.
func NewGuard(
	verifier Verifier,
	cache CacheRepository,
	gateway Gateway,
	notifier Notifier,
	trust TrustChecker,
	policy Policy,
	cfg GuardConfig,
	logger *zap.Logger,
) *Guard {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.GraceDelay <= 0 {
		cfg.GraceDelay = time.Second
	}
	return &Guard{
		verifier: verifier,
		cache:    cache,
		gateway:  gateway,
		notifier: notifier,
		trust:    trust,
		policy:   policy,
		cfg:      cfg,
		logger:   logger,
		state:    StateIdle,
	}
}

// Intercept records a new pending navigation and renders the verifying
// surface. Any previously pending navigation, including a scheduled
// grace continuation, is silently superseded.
func (g *Guard) Intercept(href string, openInNewTab bool) PendingNavigation {
	g.mu.Lock()
	g.cancelGraceLocked()
	g.seq++
	nav := PendingNavigation{Href: href, OpenInNewTab: openInNewTab, Seq: g.seq}
	g.pending = &nav
	g.state = StateVerifying
	g.mu.Unlock()

	g.logger.Debug("Intercepted link activation",
		zap.String("url", href),
		zap.Bool("new_tab", openInNewTab),
		zap.Uint64("seq", nav.Seq))
	g.notifier.ShowVerifying(href)
	return nav
}

// Confirm runs the verification pipeline for the currently pending
// navigation: clipboard copy, trusted-host bypass, cache lookup, live
// verification on a miss, then decision and dispatch. It is a no-op
// when nothing is pending.
func (g *Guard) Confirm(ctx context.Context) {
	g.mu.Lock()
	if g.pending == nil {
		g.mu.Unlock()
		return
	}
	nav := *g.pending
	g.mu.Unlock()

	// Clipboard copy is best effort and never blocks verification.
	if err := g.gateway.CopyToClipboard(ctx, nav.Href); err != nil {
		g.logger.Debug("Clipboard copy failed", zap.Error(err))
	}

	if host := hostOf(nav.Href); host != "" && g.trust != nil && g.trust.IsTrusted(host) {
		g.logger.Info("Skipping verification for trusted host",
			zap.String("url", nav.Href),
			zap.String("host", host))
		conf := 1.0
		v := Verdict{Status: "legitimate", Confidence: &conf, Reason: "trusted host"}
		g.resolve(ctx, nav, v, Origin{FromCache: false})
		return
	}

	if g.cfg.CacheEnabled {
		entry, err := g.cache.Get(ctx, nav.Href)
		if err == nil {
			g.logger.Debug("Cache hit", zap.String("url", nav.Href))
			g.resolve(ctx, nav, entry.Verdict(), Origin{FromCache: true})
			return
		}
		if !errors.Is(err, ErrNotFound) {
			// Storage trouble degrades to a miss, never blocks the pipeline.
			g.logger.Warn("Cache read failed", zap.Error(err), zap.String("url", nav.Href))
		}
	}

	v := g.verifier.Verify(ctx, nav.Href)

	if g.cfg.CacheEnabled {
		// The verdict is written even if this activation has been
		// superseded meanwhile: it is keyed by URL and stays true for
		// the next lookup either way.
		now := time.Now()
		entry := &CacheEntry{
			URL:        nav.Href,
			Status:     v.Status,
			Confidence: v.Confidence,
			Reason:     v.Reason,
			CheckedAt:  now,
			ExpiresAt:  now.Add(g.cfg.CacheTTL),
		}
		if err := g.cache.Set(ctx, entry); err != nil {
			g.logger.Warn("Cache write failed", zap.Error(err), zap.String("url", nav.Href))
		}
	}

	g.resolve(ctx, nav, v, Origin{FromCache: false})
}

// Dismiss executes the explicit user override: the pending navigation,
// if any, continues immediately regardless of any verdict.
func (g *Guard) Dismiss(ctx context.Context) {
	g.mu.Lock()
	g.cancelGraceLocked()
	nav := g.pending
	g.pending = nil
	g.state = StateIdle
	g.mu.Unlock()

	g.notifier.Hide()
	if nav == nil {
		return
	}
	g.logger.Info("User dismissed verification", zap.String("url", nav.Href))
	g.open(ctx, *nav)
}

// State returns the current surface state.
func (g *Guard) State() SurfaceState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Pending returns a copy of the pending navigation, if any.
func (g *Guard) Pending() (PendingNavigation, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return PendingNavigation{}, false
	}
	return *g.pending, true
}

// resolve applies a verdict to the navigation it was obtained for. The
// register is re-read here rather than trusted from interception time;
// a stale sequence means the user clicked something else while the
// verdict was in flight, and the verdict is dropped.
func (g *Guard) resolve(ctx context.Context, nav PendingNavigation, v Verdict, origin Origin) {
	g.mu.Lock()
	if g.pending == nil || g.pending.Seq != nav.Seq {
		g.mu.Unlock()
		g.logger.Info("Discarding stale verdict",
			zap.String("url", nav.Href),
			zap.Uint64("seq", nav.Seq))
		return
	}
	g.state = StateResult
	g.mu.Unlock()

	class := ClassifyWithThreshold(v, g.policy.SuspicionThreshold)
	action := g.policy.Decide(v, origin)

	g.logger.Info("Navigation decision",
		zap.String("url", nav.Href),
		zap.String("status", v.Status),
		zap.String("class", class.String()),
		zap.String("action", action.Kind.String()),
		zap.Bool("from_cache", origin.FromCache))

	g.notifier.ShowResult(nav.Href, class, v)
	g.dispatch(ctx, nav, v, action)
}

// dispatch executes the decided action through the gateway.
func (g *Guard) dispatch(ctx context.Context, nav PendingNavigation, v Verdict, action Action) {
	switch action.Kind {
	case ActionContinueNow:
		if !g.consume(nav.Seq) {
			return
		}
		g.notifier.Hide()
		g.open(ctx, nav)

	case ActionContinueAfterGrace:
		g.mu.Lock()
		if g.pending != nil && g.pending.Seq == nav.Seq {
			seq := nav.Seq
			g.graceTimer = time.AfterFunc(g.cfg.GraceDelay, func() {
				g.continueAfterGrace(seq, nav)
			})
		}
		g.mu.Unlock()

	case ActionEscalateInternal:
		if !g.consume(nav.Seq) {
			return
		}
		g.notifier.Hide()
		target := withParams(g.cfg.WarningURL, nav.Href, v.Reason)
		if err := g.gateway.Navigate(ctx, target); err != nil {
			g.logger.Error("Failed to open warning surface", zap.Error(err), zap.String("url", target))
		}

	case ActionEscalateExternal:
		if !g.consume(nav.Seq) {
			return
		}
		g.notifier.Hide()
		if action.OpenRecheckTab {
			recheck := g.cfg.DashboardURL + "/verify?url=" + url.QueryEscape(nav.Href)
			if err := g.gateway.OpenBackgroundTab(ctx, recheck); err != nil {
				g.logger.Debug("Failed to open re-check tab", zap.Error(err))
			}
		}
		target := withParams(g.cfg.DashboardURL+"/warning", nav.Href, v.Reason)
		if err := g.gateway.Navigate(ctx, target); err != nil {
			g.logger.Error("Failed to open warning surface", zap.Error(err), zap.String("url", target))
		}

	case ActionWait:
		// Navigation stays suppressed and the surface stays visible;
		// the register remains latched for a later Confirm or Dismiss.
	}
}

// continueAfterGrace fires when the grace timer elapses. The register
// is checked again: a new interception in the meantime abandons the
// scheduled continuation.
func (g *Guard) continueAfterGrace(seq uint64, nav PendingNavigation) {
	if !g.consume(seq) {
		return
	}
	g.notifier.Hide()
	g.open(context.Background(), nav)
}

// consume clears the register if it still holds seq, returning whether
// the caller owns the navigation and may perform its side effects.
func (g *Guard) consume(seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil || g.pending.Seq != seq {
		return false
	}
	g.cancelGraceLocked()
	g.pending = nil
	g.state = StateIdle
	return true
}

func (g *Guard) cancelGraceLocked() {
	if g.graceTimer != nil {
		g.graceTimer.Stop()
		g.graceTimer = nil
	}
}

// open performs the released navigation itself.
func (g *Guard) open(ctx context.Context, nav PendingNavigation) {
	var err error
	if nav.OpenInNewTab {
		err = g.gateway.OpenTab(ctx, nav.Href)
	} else {
		err = g.gateway.Navigate(ctx, nav.Href)
	}
	if err != nil {
		g.logger.Error("Navigation failed", zap.Error(err), zap.String("url", nav.Href))
	}
}

// withParams appends url and reason query parameters to a warning
// surface base URL.
func withParams(base, href, reason string) string {
	return base + "?url=" + url.QueryEscape(href) + "&reason=" + url.QueryEscape(reason)
}

func hostOf(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
