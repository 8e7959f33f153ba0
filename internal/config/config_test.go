package config

import (
	"testing"
	"time"
)

func TestLoadConfigWithDefaults(t *testing.T) {
	// Load config without a file (should use defaults)
	cfg, err := Load("nonexistent.yaml")
	if err != nil {
		t.Fatalf("Failed to load config with defaults: %v", err)
	}

	// Verify defaults
	if cfg.Server.Port == 0 {
		t.Error("Expected Server.Port to be set")
	}

	if len(cfg.Server.CORSOrigins) == 0 {
		t.Error("Expected at least one CORS origin")
	}

	if cfg.Upload.MaxFileSize <= 0 {
		t.Error("Expected a positive upload size cap")
	}

	if len(cfg.Upload.AllowedExtensions) == 0 {
		t.Error("Expected at least one allowed extension")
	}

	if cfg.Cleanup.HeaderRows != 1 {
		t.Errorf("Cleanup.HeaderRows = %d, expected 1", cfg.Cleanup.HeaderRows)
	}

	if cfg.Cleanup.TotalKeyword != "total" {
		t.Errorf("Cleanup.TotalKeyword = %q, expected total", cfg.Cleanup.TotalKeyword)
	}

	if cfg.Output.Dir == "" {
		t.Error("Expected Output.Dir to be set")
	}

	t.Logf("Config loaded successfully with defaults")
	cfg.Print()
}

func TestAllowedExtension(t *testing.T) {
	cfg := &Config{
		Upload: UploadConfig{
			AllowedExtensions: []string{".xlsx", ".xls", ".csv"},
		},
	}

	tests := []struct {
		filename string
		expected bool
	}{
		{"ledger.xlsx", true},
		{"ledger.XLSX", true},
		{"old-export.xls", true},
		{"dump.csv", true},
		{"report.pdf", false},
		{"archive.xlsx.zip", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		result := cfg.AllowedExtension(tt.filename)
		if result != tt.expected {
			t.Errorf("AllowedExtension(%s) = %v, expected %v", tt.filename, result, tt.expected)
		}
	}
}

func TestCleanedName(t *testing.T) {
	cfg := &Config{
		Output: OutputConfig{FileSuffix: "_cleaned"},
	}

	tests := []struct {
		filename string
		expected string
	}{
		{"ledger.xlsx", "ledger_cleaned.xlsx"},
		{"trial balance.csv", "trial balance_cleaned.csv"},
		{"/tmp/uploads/q3.xlsx", "q3_cleaned.xlsx"},
	}

	for _, tt := range tests {
		result := cfg.CleanedName(tt.filename)
		if result != tt.expected {
			t.Errorf("CleanedName(%s) = %s, expected %s", tt.filename, result, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080},
			Upload: UploadConfig{
				MaxFileSize:       1 << 20,
				AllowedExtensions: []string{".xlsx"},
				SessionTTL:        time.Minute,
			},
			Cleanup: CleanupConfig{
				HeaderRows:   1,
				TotalKeyword: "total",
			},
			Output: OutputConfig{AuditFormats: []string{"excel", "json"}},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		shouldErr bool
	}{
		{
			name:      "Valid config",
			mutate:    func(c *Config) {},
			shouldErr: false,
		},
		{
			name:      "Port out of range",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			shouldErr: true,
		},
		{
			name:      "Zero upload cap",
			mutate:    func(c *Config) { c.Upload.MaxFileSize = 0 },
			shouldErr: true,
		},
		{
			name:      "No allowed extensions",
			mutate:    func(c *Config) { c.Upload.AllowedExtensions = nil },
			shouldErr: true,
		},
		{
			name:      "Zero session TTL",
			mutate:    func(c *Config) { c.Upload.SessionTTL = 0 },
			shouldErr: true,
		},
		{
			name:      "Header rows below one",
			mutate:    func(c *Config) { c.Cleanup.HeaderRows = 0 },
			shouldErr: true,
		},
		{
			name:      "Blank total keyword",
			mutate:    func(c *Config) { c.Cleanup.TotalKeyword = "  " },
			shouldErr: true,
		},
		{
			name:      "Unknown audit format",
			mutate:    func(c *Config) { c.Output.AuditFormats = []string{"pdf"} },
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.shouldErr && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}
