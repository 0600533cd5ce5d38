package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Iamport: IamportConfig{
			APIKey:    "key",
			APISecret: "secret",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: ErrInvalidPort,
		},
		{
			name:    "missing secret",
			mutate:  func(c *Config) { c.Iamport.APISecret = "  " },
			wantErr: ErrMissingIamportCred,
		},
		{
			name:    "email enabled without recipients",
			mutate:  func(c *Config) { c.Email.Enabled = true },
			wantErr: ErrMissingOpsEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIamportTimeouts(t *testing.T) {
	var c IamportConfig
	if got := c.FetchTimeout(); got != 10*time.Second {
		t.Errorf("FetchTimeout() default = %v", got)
	}
	if got := c.CancelTimeout(); got != 15*time.Second {
		t.Errorf("CancelTimeout() default = %v", got)
	}

	c.FetchTimeoutSeconds = 3
	c.CancelTimeoutSeconds = 4
	if got := c.FetchTimeout(); got != 3*time.Second {
		t.Errorf("FetchTimeout() = %v", got)
	}
	if got := c.CancelTimeout(); got != 4*time.Second {
		t.Errorf("CancelTimeout() = %v", got)
	}
}

func TestReadConfig_FileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	content := `server:
  port: 9000
iamport:
  api_key: file-key
  api_secret: file-secret
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MEDIBOOK_IAMPORT_API_KEY", "env-key")

	cfg, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Iamport.APIKey != "env-key" {
		t.Errorf("api_key = %q, want env override", cfg.Iamport.APIKey)
	}
	if cfg.Iamport.BaseURL != "https://api.iamport.kr" {
		t.Errorf("base_url default not applied: %q", cfg.Iamport.BaseURL)
	}
}

func TestReadConfig_MissingFile(t *testing.T) {
	t.Setenv("MEDIBOOK_DATABASE_HOST", "")
	if _, err := ReadConfig(t.TempDir()); err == nil {
		t.Fatal("expected error when config file and env are both missing")
	}
}
