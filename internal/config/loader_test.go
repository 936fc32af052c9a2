package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		wantErr bool
		checkFn func(t *testing.T, cfg *Config)
	}{
		{
			name: "minimal valid config",
			yaml: `
webhook:
  secret: topsecret
`,
			wantErr: false,
			checkFn: func(t *testing.T, cfg *Config) {
				if cfg.Webhook.Secret != "topsecret" {
					t.Error("secret not parsed")
				}
				// Check defaults applied
				if cfg.Webhook.Listen != DefaultListen {
					t.Errorf("listen = %q, want default %q", cfg.Webhook.Listen, DefaultListen)
				}
				if cfg.Webhook.Path != DefaultWebhookPath {
					t.Errorf("path = %q, want default %q", cfg.Webhook.Path, DefaultWebhookPath)
				}
				if cfg.Webhook.SignatureHeader != DefaultSignatureHeader {
					t.Errorf("signature_header = %q, want default %q", cfg.Webhook.SignatureHeader, DefaultSignatureHeader)
				}
				if cfg.Service.LogLevel != DefaultLogLevel {
					t.Errorf("log_level = %q, want default %q", cfg.Service.LogLevel, DefaultLogLevel)
				}
			},
		},
		{
			name: "env var interpolation",
			yaml: `
webhook:
  listen: "127.0.0.1:9000"
  secret: ${HOOKGATE_TEST_SECRET}
`,
			env:     map[string]string{"HOOKGATE_TEST_SECRET": "from-env"},
			wantErr: false,
			checkFn: func(t *testing.T, cfg *Config) {
				if cfg.Webhook.Secret != "from-env" {
					t.Errorf("secret = %q, want interpolated 'from-env'", cfg.Webhook.Secret)
				}
				if cfg.Webhook.Listen != "127.0.0.1:9000" {
					t.Errorf("listen = %q, want 127.0.0.1:9000", cfg.Webhook.Listen)
				}
			},
		},
		{
			name: "undefined secret env var rejected",
			yaml: `
webhook:
  secret: ${HOOKGATE_UNDEFINED_SECRET}
`,
			wantErr: true,
		},
		{
			name: "empty secret is allowed (fail-closed at runtime)",
			yaml: `
webhook:
  listen: "127.0.0.1:9000"
`,
			wantErr: false,
			checkFn: func(t *testing.T, cfg *Config) {
				if cfg.Webhook.Secret != "" {
					t.Errorf("secret = %q, want empty", cfg.Webhook.Secret)
				}
			},
		},
		{
			name: "invalid webhook path",
			yaml: `
webhook:
  path: webhook-without-slash
  secret: s
`,
			wantErr: true,
		},
		{
			name: "invalid max_body_size",
			yaml: `
webhook:
  secret: s
  max_body_size: lots
`,
			wantErr: true,
		},
		{
			name: "journal enabled requires path",
			yaml: `
webhook:
  secret: s
journal:
  enabled: true
`,
			wantErr: true,
		},
		{
			name: "full config",
			yaml: `
service:
  log_level: DEBUG
webhook:
  listen: "0.0.0.0:8443"
  path: /hooks/github
  secret: s3cr3t
  signature_header: X-Hub-Signature-256
  max_body_size: 2MB
journal:
  enabled: true
  path: ./deliveries.db
metrics:
  enabled: true
`,
			wantErr: false,
			checkFn: func(t *testing.T, cfg *Config) {
				if cfg.Service.LogLevel != "DEBUG" {
					t.Error("log_level not parsed")
				}
				if cfg.Webhook.Path != "/hooks/github" {
					t.Error("path not parsed")
				}
				size, err := ParseMaxBodySize(cfg.Webhook.MaxBodySize)
				if err != nil || size != 2*1024*1024 {
					t.Errorf("max_body_size = %d (%v), want 2MB", size, err)
				}
				if !cfg.Journal.Enabled || cfg.Journal.Path != "./deliveries.db" {
					t.Error("journal not parsed")
				}
				if cfg.Metrics.Path != DefaultMetricsPath {
					t.Errorf("metrics path = %q, want default %q", cfg.Metrics.Path, DefaultMetricsPath)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0600); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.checkFn != nil && err == nil {
				tt.checkFn(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() should fail for missing file")
	}
}

func TestParseMaxBodySize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", DefaultMaxBodySize, false},
		{"1048576", 1048576, false},
		{"512KB", 512 * 1024, false},
		{"1MB", 1024 * 1024, false},
		{"1GB", 1024 * 1024 * 1024, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"huge", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMaxBodySize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMaxBodySize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseMaxBodySize(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
