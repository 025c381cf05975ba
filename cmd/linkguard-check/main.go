package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/phishguard/linkguard/internal/adapters/cache"
	"github.com/phishguard/linkguard/internal/adapters/gateway"
	"github.com/phishguard/linkguard/internal/adapters/notifier"
	"github.com/phishguard/linkguard/internal/allowlist"
	"github.com/phishguard/linkguard/internal/config"
	"github.com/phishguard/linkguard/internal/core"
	"github.com/phishguard/linkguard/internal/factory"
	"github.com/phishguard/linkguard/internal/logging"
	"github.com/phishguard/linkguard/internal/utils"
	"go.uber.org/zap"
)

var (
	// Verifier flags
	endpoint         = flag.String("endpoint", "http://127.0.0.1:8001/verify", "Verification service endpoint")
	fallbackEndpoint = flag.String("fallback-endpoint", "", "Fallback verification endpoint")
	timeout          = flag.Duration("timeout", 15*time.Second, "Verification request timeout")

	// Policy flags
	threshold    = flag.Float64("threshold", 0.7, "Confidence threshold below which verdicts are suspicious")
	dashboardURL = flag.String("dashboard", "http://127.0.0.1:5173", "Dashboard base URL for escalations")
	trustedHosts = flag.String("trusted", "", "Comma-separated list of trusted hosts that skip verification")

	// Output flags
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <url>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	targetURL := flag.Arg(0)

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg *config.Config
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = createConfigFromFlags()
	}

	verifierClient, err := factory.NewVerifierFactory(cfg, logger).CreateVerifier()
	if err != nil {
		logger.Fatal("Failed to create verifier", zap.Error(err))
	}

	// A one-shot check gains nothing from caching or cleanup.
	cacheRepo := cache.NewMemoryCache(logger, 0)
	dryRun := gateway.NewLogGateway(logger)
	surface := notifier.NewLogNotifier(logger, utils.NewTextProcessor(logger))
	trust := allowlist.NewChecker(cfg.GetPolicy().TrustedHosts, logger)
	policy := core.NewPolicy(cfg.GetPolicy().SuspicionThreshold)

	guard := core.NewGuard(verifierClient, cacheRepo, dryRun, surface, trust, policy, core.GuardConfig{
		CacheEnabled: false,
		WarningURL:   "linkguard://warning",
		DashboardURL: cfg.GetDashboard().BaseURL,
	}, logger)

	fmt.Printf("\n=== Checking %s ===\n", targetURL)
	guard.Intercept(targetURL, false)
	guard.Confirm(context.Background())

	escalated := printOutcome(guard, dryRun)
	if escalated {
		os.Exit(1)
	}
}

// printOutcome summarizes what the guard decided, and reports whether
// the URL was escalated to a warning surface.
func printOutcome(guard *core.Guard, dryRun *gateway.LogGateway) bool {
	fmt.Printf("\n=== Decision ===\n")

	escalated := false
	for _, effect := range dryRun.Effects() {
		if effect.Op == "copy" {
			continue
		}
		fmt.Printf("%s: %s\n", effect.Op, effect.URL)
		if effect.Op == "navigate" && strings.Contains(effect.URL, "warning") {
			escalated = true
		}
	}

	if _, pending := guard.Pending(); pending {
		fmt.Printf("no automatic navigation: verdict unknown, user decision required\n")
	}

	return escalated
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("verifier.endpoint", *endpoint)
	v.Set("verifier.fallback_endpoint", *fallbackEndpoint)
	v.Set("verifier.timeout", timeout.String())
	v.Set("policy.suspicion_threshold", *threshold)
	v.Set("dashboard.base_url", *dashboardURL)

	if *trustedHosts != "" {
		v.Set("policy.trusted_hosts", strings.Split(*trustedHosts, ","))
	}

	return config.NewFromViper(v)
}
