package allowlist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker reports whether a destination host is trusted enough to skip
// verification entirely.
type Checker struct {
	hosts  []string
	logger *zap.Logger
}

// NewChecker creates a new allowlist checker
func NewChecker(hosts []string, logger *zap.Logger) *Checker {
	normalized := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			normalized = append(normalized, h)
		}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized trusted host allowlist", zap.Strings("hosts", normalized))
	}

	return &Checker{
		hosts:  normalized,
		logger: logger,
	}
}

// IsTrusted checks if the host is on the allowlist. Matching is exact
// and case-insensitive; subdomains are not implied.
func (c *Checker) IsTrusted(host string) bool {
	if len(c.hosts) == 0 {
		return false
	}

	host = strings.ToLower(host)
	for _, trusted := range c.hosts {
		if host == trusted {
			return true
		}
	}

	return false
}
