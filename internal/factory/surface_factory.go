package factory

import (
	"fmt"

	"github.com/phishguard/linkguard/internal/adapters/browser"
	"github.com/phishguard/linkguard/internal/adapters/notifier"
	"github.com/phishguard/linkguard/internal/config"
	"github.com/phishguard/linkguard/internal/core"
	"github.com/phishguard/linkguard/internal/utils"
	"go.uber.org/zap"
)

// SurfaceFactory creates the notification surface based on configuration
type SurfaceFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	session *browser.Session
	text    *utils.TextProcessor
}

// NewSurfaceFactory creates a new surface factory
func NewSurfaceFactory(cfg *config.Config, logger *zap.Logger, session *browser.Session, text *utils.TextProcessor) *SurfaceFactory {
	return &SurfaceFactory{
		cfg:     cfg,
		logger:  logger,
		session: session,
		text:    text,
	}
}

// CreateNotifier creates the configured notification surface. "banner"
// renders inside the guarded page, "log" only writes structured logs.
func (f *SurfaceFactory) CreateNotifier() (core.Notifier, error) {
	switch surface := f.cfg.GetBrowser().Surface; surface {
	case "banner":
		return browser.NewBannerNotifier(f.session, f.logger), nil
	case "log":
		return notifier.NewLogNotifier(f.logger, f.text), nil
	default:
		return nil, fmt.Errorf("unsupported surface type: %s", surface)
	}
}
