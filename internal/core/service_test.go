package core

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- fakes ---

type fakeVerifier struct {
	mu      sync.Mutex
	verdict Verdict
	calls   int
	// blockCh, when set, is received from before Verify returns, letting
	// tests hold a verification in flight.
	blockCh chan struct{}
}

func (f *fakeVerifier) Verify(ctx context.Context, url string) Verdict {
	f.mu.Lock()
	f.calls++
	block := f.blockCh
	v := f.verdict
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return v
}

func (f *fakeVerifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*CacheEntry
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*CacheEntry)}
}

func (f *fakeCache) Get(ctx context.Context, url string) (*CacheEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	entry, ok := f.entries[url]
	if !ok || time.Now().After(entry.ExpiresAt) {
		return nil, ErrNotFound
	}
	return entry, nil
}

func (f *fakeCache) Set(ctx context.Context, entry *CacheEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[entry.URL] = entry
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, url)
	return nil
}

func (f *fakeCache) Cleanup(ctx context.Context) error { return nil }

func (f *fakeCache) seed(url string, v Verdict, age, ttl time.Duration) {
	checked := time.Now().Add(-age)
	f.entries[url] = &CacheEntry{
		URL:        url,
		Status:     v.Status,
		Confidence: v.Confidence,
		Reason:     v.Reason,
		CheckedAt:  checked,
		ExpiresAt:  checked.Add(ttl),
	}
}

type effect struct {
	op  string
	url string
}

type fakeGateway struct {
	mu      sync.Mutex
	effects []effect
}

func (f *fakeGateway) Navigate(ctx context.Context, url string) error {
	f.add("navigate", url)
	return nil
}

func (f *fakeGateway) OpenTab(ctx context.Context, url string) error {
	f.add("open_tab", url)
	return nil
}

func (f *fakeGateway) OpenBackgroundTab(ctx context.Context, url string) error {
	f.add("open_background_tab", url)
	return nil
}

func (f *fakeGateway) CopyToClipboard(ctx context.Context, text string) error {
	f.add("copy", text)
	return nil
}

func (f *fakeGateway) add(op, url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.effects = append(f.effects, effect{op: op, url: url})
}

// navigations returns the recorded effects excluding clipboard copies.
func (f *fakeGateway) navigations() []effect {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []effect
	for _, e := range f.effects {
		if e.op != "copy" {
			out = append(out, e)
		}
	}
	return out
}

type fakeNotifier struct {
	mu        sync.Mutex
	verifying []string
	results   []VerdictClass
	hidden    int
}

func (f *fakeNotifier) ShowVerifying(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifying = append(f.verifying, url)
}

func (f *fakeNotifier) ShowResult(url string, class VerdictClass, v Verdict) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, class)
}

func (f *fakeNotifier) Hide() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hidden++
}

type fakeTrust struct {
	hosts map[string]bool
}

func (f *fakeTrust) IsTrusted(host string) bool { return f.hosts[host] }

// --- harness ---

type harness struct {
	guard    *Guard
	verifier *fakeVerifier
	cache    *fakeCache
	gateway  *fakeGateway
	notifier *fakeNotifier
	trust    *fakeTrust
}

func newHarness(t *testing.T, mutate func(cfg *GuardConfig)) *harness {
	t.Helper()
	h := &harness{
		verifier: &fakeVerifier{},
		cache:    newFakeCache(),
		gateway:  &fakeGateway{},
		notifier: &fakeNotifier{},
		trust:    &fakeTrust{hosts: map[string]bool{}},
	}
	cfg := GuardConfig{
		CacheEnabled: true,
		CacheTTL:     5 * time.Minute,
		GraceDelay:   10 * time.Millisecond,
		WarningURL:   "http://127.0.0.1:8790/warning",
		DashboardURL: "http://127.0.0.1:5173",
	}
	if mutate != nil {
		mutate(&cfg)
	}
	h.guard = NewGuard(h.verifier, h.cache, h.gateway, h.notifier, h.trust, NewPolicy(0.7), cfg, zap.NewNop())
	return h
}

// --- tests ---

func TestConfirm_FreshLegitimate_ContinuesImmediately(t *testing.T) {
	h := newHarness(t, nil)
	h.verifier.verdict = Verdict{Status: "legitimate", Confidence: confPtr(0.95)}

	h.guard.Intercept("https://example.com", false)
	h.guard.Confirm(context.Background())

	require.Equal(t, 1, h.verifier.callCount())
	navs := h.gateway.navigations()
	require.Len(t, navs, 1)
	assert.Equal(t, effect{op: "navigate", url: "https://example.com"}, navs[0])

	// Fresh result is also cached for the next activation.
	entry, err := h.cache.Get(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "legitimate", entry.Status)

	_, pending := h.guard.Pending()
	assert.False(t, pending)
	assert.Equal(t, StateIdle, h.guard.State())
}

func TestConfirm_Phishing_EscalatesToInternalWarning(t *testing.T) {
	h := newHarness(t, nil)
	h.verifier.verdict = Verdict{Status: "phishing", Reason: "known blacklist"}

	h.guard.Intercept("http://bad.test", false)
	h.guard.Confirm(context.Background())

	navs := h.gateway.navigations()
	require.Len(t, navs, 1)
	assert.Equal(t, "navigate", navs[0].op)

	parsed, err := url.Parse(navs[0].url)
	require.NoError(t, err)
	assert.Equal(t, "/warning", parsed.Path)
	assert.Equal(t, "http://bad.test", parsed.Query().Get("url"))
	assert.Equal(t, "known blacklist", parsed.Query().Get("reason"))
}

func TestConfirm_CachedSuspicious_SkipsVerifier(t *testing.T) {
	h := newHarness(t, nil)
	h.cache.seed("https://maybe.test", Verdict{Status: "suspicious", Reason: "odd redirects"}, 4*time.Minute, 5*time.Minute)

	h.guard.Intercept("https://maybe.test", false)
	h.guard.Confirm(context.Background())

	assert.Equal(t, 0, h.verifier.callCount(), "cache hit must not reach the verification service")

	navs := h.gateway.navigations()
	require.Len(t, navs, 2)
	assert.Equal(t, "open_background_tab", navs[0].op)
	assert.Contains(t, navs[0].url, "/verify?url=")
	assert.Equal(t, "navigate", navs[1].op)
	assert.Contains(t, navs[1].url, "/warning?url=")
	assert.True(t, strings.HasPrefix(navs[1].url, "http://127.0.0.1:5173"))
}

func TestConfirm_ExpiredCacheEntry_GoesLive(t *testing.T) {
	h := newHarness(t, nil)
	h.cache.seed("https://old.test", Verdict{Status: "safe"}, 6*time.Minute, 5*time.Minute)
	h.verifier.verdict = Verdict{Status: "legitimate", Confidence: confPtr(0.9)}

	h.guard.Intercept("https://old.test", false)
	h.guard.Confirm(context.Background())

	assert.Equal(t, 1, h.verifier.callCount(), "expired entry must be treated as a miss")
	navs := h.gateway.navigations()
	require.Len(t, navs, 1)
	assert.Equal(t, "navigate", navs[0].op)
}

func TestConfirm_VerifierFailure_Waits(t *testing.T) {
	h := newHarness(t, nil)
	h.verifier.verdict = Verdict{Status: "unknown", Confidence: confPtr(0), Reason: "network error: connection refused"}

	h.guard.Intercept("https://unreachable.test", false)
	h.guard.Confirm(context.Background())

	assert.Empty(t, h.gateway.navigations(), "no navigation on an unknown verdict")
	nav, pending := h.guard.Pending()
	require.True(t, pending, "the navigation stays latched for an explicit user action")
	assert.Equal(t, "https://unreachable.test", nav.Href)
	assert.Equal(t, StateResult, h.guard.State())
}

func TestConfirm_CachedSafe_ContinuesAfterGrace(t *testing.T) {
	h := newHarness(t, nil)
	h.cache.seed("https://good.test", Verdict{Status: "safe", Confidence: confPtr(0.9)}, time.Minute, 5*time.Minute)

	h.guard.Intercept("https://good.test", false)
	h.guard.Confirm(context.Background())

	// Navigation must not fire before the grace delay.
	assert.Empty(t, h.gateway.navigations())

	require.Eventually(t, func() bool {
		return len(h.gateway.navigations()) == 1
	}, time.Second, 2*time.Millisecond)
	assert.Equal(t, effect{op: "navigate", url: "https://good.test"}, h.gateway.navigations()[0])
}

func TestIntercept_ReplacesGraceContinuation(t *testing.T) {
	h := newHarness(t, func(cfg *GuardConfig) { cfg.GraceDelay = 30 * time.Millisecond })
	h.cache.seed("https://first.test", Verdict{Status: "safe"}, time.Minute, 5*time.Minute)

	h.guard.Intercept("https://first.test", false)
	h.guard.Confirm(context.Background())

	// A new interception before the grace elapses abandons the
	// scheduled continuation.
	h.guard.Intercept("https://second.test", false)

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, h.gateway.navigations(), "superseded continuation must never navigate")

	nav, pending := h.guard.Pending()
	require.True(t, pending)
	assert.Equal(t, "https://second.test", nav.Href)
}

func TestStaleVerdict_IsDiscarded(t *testing.T) {
	h := newHarness(t, nil)
	h.verifier.verdict = Verdict{Status: "legitimate", Confidence: confPtr(0.9)}
	h.verifier.blockCh = make(chan struct{})

	h.guard.Intercept("https://first.test", false)

	done := make(chan struct{})
	go func() {
		h.guard.Confirm(context.Background())
		close(done)
	}()

	// Wait for the verification to be in flight, then supersede it.
	require.Eventually(t, func() bool { return h.verifier.callCount() == 1 }, time.Second, time.Millisecond)
	h.guard.Intercept("https://second.test", false)

	close(h.verifier.blockCh)
	<-done

	assert.Empty(t, h.gateway.navigations(), "verdict for a replaced navigation must not dispatch")
	nav, pending := h.guard.Pending()
	require.True(t, pending)
	assert.Equal(t, "https://second.test", nav.Href)

	// The verdict is still cached: it is keyed by URL and stays true.
	entry, err := h.cache.Get(context.Background(), "https://first.test")
	require.NoError(t, err)
	assert.Equal(t, "legitimate", entry.Status)
}

func TestDismiss_ContinuesUnconditionally(t *testing.T) {
	h := newHarness(t, nil)

	h.guard.Intercept("https://anywhere.test", false)
	h.guard.Dismiss(context.Background())

	navs := h.gateway.navigations()
	require.Len(t, navs, 1)
	assert.Equal(t, effect{op: "navigate", url: "https://anywhere.test"}, navs[0])
	assert.Equal(t, 0, h.verifier.callCount())
	assert.Equal(t, StateIdle, h.guard.State())
}

func TestDismiss_AfterUnknownVerdict(t *testing.T) {
	h := newHarness(t, nil)
	h.verifier.verdict = Verdict{Status: "unknown"}

	h.guard.Intercept("https://unknown.test", true)
	h.guard.Confirm(context.Background())
	require.Empty(t, h.gateway.navigations())

	// The explicit override wins over the latched Wait.
	h.guard.Dismiss(context.Background())
	navs := h.gateway.navigations()
	require.Len(t, navs, 1)
	assert.Equal(t, effect{op: "open_tab", url: "https://unknown.test"}, navs[0])
}

func TestDismiss_WithoutPending_IsNoop(t *testing.T) {
	h := newHarness(t, nil)
	h.guard.Dismiss(context.Background())
	assert.Empty(t, h.gateway.navigations())
}

func TestConfirm_NewTabIntent_OpensTab(t *testing.T) {
	h := newHarness(t, nil)
	h.verifier.verdict = Verdict{Status: "legitimate", Confidence: confPtr(0.9)}

	h.guard.Intercept("https://example.com", true)
	h.guard.Confirm(context.Background())

	navs := h.gateway.navigations()
	require.Len(t, navs, 1)
	assert.Equal(t, effect{op: "open_tab", url: "https://example.com"}, navs[0])
}

func TestConfirm_TrustedHost_SkipsVerification(t *testing.T) {
	h := newHarness(t, nil)
	h.trust.hosts["docs.internal.example"] = true

	h.guard.Intercept("https://docs.internal.example/handbook", false)
	h.guard.Confirm(context.Background())

	assert.Equal(t, 0, h.verifier.callCount())
	navs := h.gateway.navigations()
	require.Len(t, navs, 1)
	assert.Equal(t, effect{op: "navigate", url: "https://docs.internal.example/handbook"}, navs[0])
}

func TestConfirm_CacheFailure_DegradesToLiveCheck(t *testing.T) {
	h := newHarness(t, nil)
	h.cache.getErr = errors.New("storage offline")
	h.cache.setErr = errors.New("storage offline")
	h.verifier.verdict = Verdict{Status: "legitimate", Confidence: confPtr(0.9)}

	h.guard.Intercept("https://example.com", false)
	h.guard.Confirm(context.Background())

	assert.Equal(t, 1, h.verifier.callCount(), "storage trouble degrades to a miss")
	navs := h.gateway.navigations()
	require.Len(t, navs, 1)
	assert.Equal(t, "navigate", navs[0].op)
}

func TestConfirm_CopiesDestinationToClipboard(t *testing.T) {
	h := newHarness(t, nil)
	h.verifier.verdict = Verdict{Status: "legitimate", Confidence: confPtr(0.9)}

	h.guard.Intercept("https://example.com", false)
	h.guard.Confirm(context.Background())

	h.gateway.mu.Lock()
	defer h.gateway.mu.Unlock()
	require.NotEmpty(t, h.gateway.effects)
	assert.Equal(t, effect{op: "copy", url: "https://example.com"}, h.gateway.effects[0])
}

func TestConfirm_WithoutPending_IsNoop(t *testing.T) {
	h := newHarness(t, nil)
	h.guard.Confirm(context.Background())
	assert.Equal(t, 0, h.verifier.callCount())
	assert.Empty(t, h.gateway.navigations())
}

func TestIntercept_ShowsVerifyingSurface(t *testing.T) {
	h := newHarness(t, nil)

	h.guard.Intercept("https://example.com", false)

	assert.Equal(t, StateVerifying, h.guard.State())
	h.notifier.mu.Lock()
	defer h.notifier.mu.Unlock()
	assert.Equal(t, []string{"https://example.com"}, h.notifier.verifying)
}
