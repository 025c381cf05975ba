package factory

import (
	"fmt"

	"github.com/phishguard/linkguard/internal/adapters/verifier"
	"github.com/phishguard/linkguard/internal/config"
	"github.com/phishguard/linkguard/internal/core"
	"go.uber.org/zap"
)

// VerifierFactory creates verification clients based on configuration
type VerifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewVerifierFactory creates a new verifier factory
func NewVerifierFactory(cfg *config.Config, logger *zap.Logger) *VerifierFactory {
	return &VerifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateVerifier creates the verification client
func (f *VerifierFactory) CreateVerifier() (core.Verifier, error) {
	vc := f.cfg.GetVerifier()
	if vc.Endpoint == "" {
		return nil, fmt.Errorf("verifier endpoint is not configured")
	}

	timeout, err := f.cfg.GetDuration("verifier.timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid verifier timeout: %w", err)
	}

	return verifier.NewHTTPVerifier(vc.Endpoint, vc.FallbackEndpoint, timeout, f.logger), nil
}
