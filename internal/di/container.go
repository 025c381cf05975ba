package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/phishguard/linkguard/internal/adapters/browser"
	"github.com/phishguard/linkguard/internal/allowlist"
	"github.com/phishguard/linkguard/internal/config"
	"github.com/phishguard/linkguard/internal/core"
	"github.com/phishguard/linkguard/internal/factory"
	"github.com/phishguard/linkguard/internal/logging"
	"github.com/phishguard/linkguard/internal/ports"
	"github.com/phishguard/linkguard/internal/utils"
	"github.com/phishguard/linkguard/internal/warning"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register browser session
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *browser.Session {
		bc := cfg.GetBrowser()
		return browser.NewSession(browser.Options{
			Headless:  bc.Headless,
			ExecPath:  bc.ExecPath,
			UserAgent: bc.UserAgent,
			StartURL:  bc.StartURL,
		}, logger)
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewVerifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSurfaceFactory); err != nil {
		return nil, err
	}

	// Register verification client
	if err := container.Provide(func(f *factory.VerifierFactory) (core.Verifier, error) {
		return f.CreateVerifier()
	}); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register notification surface
	if err := container.Provide(func(f *factory.SurfaceFactory) (core.Notifier, error) {
		return f.CreateNotifier()
	}); err != nil {
		return nil, err
	}

	// Register side-effect gateway
	if err := container.Provide(func(s *browser.Session, logger *zap.Logger) core.Gateway {
		return browser.NewGateway(s, logger)
	}); err != nil {
		return nil, err
	}

	// Register trusted host allowlist
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.TrustChecker {
		return allowlist.NewChecker(cfg.GetPolicy().TrustedHosts, logger)
	}); err != nil {
		return nil, err
	}

	// Register decision policy
	if err := container.Provide(func(cfg *config.Config) core.Policy {
		return core.NewPolicy(cfg.GetPolicy().SuspicionThreshold)
	}); err != nil {
		return nil, err
	}

	// Register warning surface
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *warning.Server {
		return warning.NewServer(cfg.GetString("warning.listen_address"), logger)
	}); err != nil {
		return nil, err
	}

	// Register guard configuration
	if err := container.Provide(func(cfg *config.Config, f *factory.CacheFactory, ws *warning.Server) (core.GuardConfig, error) {
		ttl, err := f.GetCacheTTL()
		if err != nil {
			return core.GuardConfig{}, err
		}
		grace, err := cfg.GetDuration("policy.grace_delay")
		if err != nil {
			return core.GuardConfig{}, err
		}
		return core.GuardConfig{
			CacheEnabled: f.IsCacheEnabled(),
			CacheTTL:     ttl,
			GraceDelay:   grace,
			WarningURL:   ws.URL(),
			DashboardURL: cfg.GetDashboard().BaseURL,
		}, nil
	}); err != nil {
		return nil, err
	}

	// Register guard service
	if err := container.Provide(core.NewGuard); err != nil {
		return nil, err
	}

	// Register browser monitor
	if err := container.Provide(func(s *browser.Session, g *core.Guard, logger *zap.Logger) ports.Monitor {
		return browser.NewMonitor(s, g, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
