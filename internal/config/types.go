package config

// Config is the top-level hookgate configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Webhook WebhookConfig `yaml:"webhook"`
	Journal JournalConfig `yaml:"journal"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServiceConfig holds daemon-level settings.
type ServiceConfig struct {
	LogLevel string `yaml:"log_level"`
}

// WebhookConfig configures the ingestion endpoint.
type WebhookConfig struct {
	// Listen is the address the HTTP server binds (e.g. "127.0.0.1:8080").
	Listen string `yaml:"listen"`

	// Path is the URL path for the webhook endpoint (e.g. "/webhook").
	Path string `yaml:"path"`

	// Secret is the HMAC shared secret. Supports ${ENV_VAR} interpolation.
	// An empty secret is legal but means every delivery is rejected.
	Secret string `yaml:"secret"`

	// SignatureHeader is the HTTP header carrying the HMAC signature.
	// Defaults to GitHub's X-Hub-Signature-256.
	SignatureHeader string `yaml:"signature_header"`

	// MaxBodySize is the maximum request body size, e.g. "1MB" or "2048576".
	MaxBodySize string `yaml:"max_body_size"`
}

// JournalConfig configures the optional SQLite delivery journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MetricsConfig configures the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default values
const (
	DefaultListen          = "127.0.0.1:8080"
	DefaultWebhookPath     = "/webhook"
	DefaultSignatureHeader = "X-Hub-Signature-256"
	DefaultMaxBodySize     = 1048576 // 1 MB
	DefaultMetricsPath     = "/metrics"
	DefaultLogLevel        = "INFO"
)
