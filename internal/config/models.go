package config

// VerifierConfig represents the configuration for the verification service client
type VerifierConfig struct {
	Endpoint         string
	FallbackEndpoint string
}

// PolicyConfig represents the decision policy configuration
type PolicyConfig struct {
	SuspicionThreshold float64
	TrustedHosts       []string
}

// BrowserConfig represents the configuration for the browser attachment
type BrowserConfig struct {
	Headless  bool
	ExecPath  string
	UserAgent string
	StartURL  string
	Surface   string
}

// DashboardConfig represents the dashboard collaborator configuration
type DashboardConfig struct {
	BaseURL string
}

// GetVerifier returns the verifier configuration
func (c *Config) GetVerifier() VerifierConfig {
	return VerifierConfig{
		Endpoint:         c.GetString("verifier.endpoint"),
		FallbackEndpoint: c.GetString("verifier.fallback_endpoint"),
	}
}

// GetPolicy returns the policy configuration
func (c *Config) GetPolicy() PolicyConfig {
	return PolicyConfig{
		SuspicionThreshold: c.GetFloat64("policy.suspicion_threshold"),
		TrustedHosts:       c.GetStringSlice("policy.trusted_hosts"),
	}
}

// GetBrowser returns the browser configuration
func (c *Config) GetBrowser() BrowserConfig {
	return BrowserConfig{
		Headless:  c.GetBool("browser.headless"),
		ExecPath:  c.GetString("browser.exec_path"),
		UserAgent: c.GetString("browser.user_agent"),
		StartURL:  c.GetString("browser.start_url"),
		Surface:   c.GetString("browser.surface"),
	}
}

// GetDashboard returns the dashboard configuration
func (c *Config) GetDashboard() DashboardConfig {
	return DashboardConfig{
		BaseURL: c.GetString("dashboard.base_url"),
	}
}
