package gateway

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// SideEffect records one action a dry-run gateway was asked to perform.
type SideEffect struct {
	Op  string
	URL string
}

// LogGateway is a dry-run implementation of the Gateway interface: it
// logs every requested side effect and records it for inspection
// instead of touching a browser. Used by the one-shot CLI and tests.
type LogGateway struct {
	logger *zap.Logger

	mu      sync.Mutex
	effects []SideEffect
}

// NewLogGateway creates a new dry-run gateway
func NewLogGateway(logger *zap.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

// Navigate logs the navigation instead of performing it
func (g *LogGateway) Navigate(ctx context.Context, url string) error {
	g.record("navigate", url)
	g.logger.Info("Would navigate", zap.String("url", url))
	return nil
}

// OpenTab logs the new-tab navigation instead of performing it
func (g *LogGateway) OpenTab(ctx context.Context, url string) error {
	g.record("open_tab", url)
	g.logger.Info("Would open tab", zap.String("url", url))
	return nil
}

// OpenBackgroundTab logs the background tab instead of opening it
func (g *LogGateway) OpenBackgroundTab(ctx context.Context, url string) error {
	g.record("open_background_tab", url)
	g.logger.Info("Would open background tab", zap.String("url", url))
	return nil
}

// CopyToClipboard is a no-op beyond logging
func (g *LogGateway) CopyToClipboard(ctx context.Context, text string) error {
	g.record("copy", text)
	g.logger.Debug("Would copy to clipboard", zap.String("text", text))
	return nil
}

// Effects returns the side effects recorded so far.
func (g *LogGateway) Effects() []SideEffect {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]SideEffect, len(g.effects))
	copy(out, g.effects)
	return out
}

func (g *LogGateway) record(op, url string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.effects = append(g.effects, SideEffect{Op: op, URL: url})
}
