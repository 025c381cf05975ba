package core

import (
	"context"
	"errors"
)

// ErrNotFound is returned by cache repositories when no valid entry
// exists for a URL.
var ErrNotFound = errors.New("cache entry not found")

// Verifier defines the interface to the external verification service.
// Implementations never return an error: any failure is mapped to an
// "unknown" verdict so the pipeline always receives a usable value.
type Verifier interface {
	// Verify checks a URL and returns the normalized verdict.
	Verify(ctx context.Context, url string) Verdict
}

// CacheRepository defines the interface for caching verdicts per URL
type CacheRepository interface {
	// Get retrieves a non-expired entry for a URL, or ErrNotFound.
	Get(ctx context.Context, url string) (*CacheEntry, error)

	// Set stores an entry, overwriting any prior one for the URL.
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes the entry for a URL.
	Delete(ctx context.Context, url string) error

	// Cleanup removes expired entries.
	Cleanup(ctx context.Context) error
}

// Gateway performs the terminal navigation side effects. It holds no
// decision logic.
type Gateway interface {
	// Navigate points the current browsing context at the URL.
	Navigate(ctx context.Context, url string) error

	// OpenTab loads the URL in a new focused context.
	OpenTab(ctx context.Context, url string) error

	// OpenBackgroundTab loads the URL in a new, unfocused context.
	OpenBackgroundTab(ctx context.Context, url string) error

	// CopyToClipboard writes text to the clipboard.
	CopyToClipboard(ctx context.Context, text string) error
}

// Notifier renders the interception surface. Implementations are
// best-effort; rendering failures must not affect the pipeline.
type Notifier interface {
	// ShowVerifying displays the intercepted URL with a confirm/dismiss
	// affordance.
	ShowVerifying(url string)

	// ShowResult updates the surface with the verdict and its class.
	ShowResult(url string, class VerdictClass, v Verdict)

	// Hide hides the surface.
	Hide()
}

// TrustChecker reports whether a host is trusted enough to skip
// verification entirely.
type TrustChecker interface {
	IsTrusted(host string) bool
}
