package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Cleanup CleanupConfig `mapstructure:"cleanup"`
	Output  OutputConfig  `mapstructure:"output"`
}

// ServerConfig holds the HTTP boundary settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`             // Listen address
	Port            int           `mapstructure:"port"`             // Listen port
	CORSOrigins     []string      `mapstructure:"cors_origins"`     // Allowed origins ("*" allows all)
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`     // Per-connection read deadline
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`    // Per-connection write deadline
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`  // Per-request ceiling (covers export encoding)
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"` // Grace period on SIGINT/SIGTERM
}

// UploadConfig holds upload boundary settings
type UploadConfig struct {
	MaxFileSize       int64         `mapstructure:"max_file_size"`      // Upload cap in bytes
	AllowedExtensions []string      `mapstructure:"allowed_extensions"` // Accepted file extensions
	PreviewRows       int           `mapstructure:"preview_rows"`       // Rows returned in the upload response
	SessionTTL        time.Duration `mapstructure:"session_ttl"`        // Idle lifetime of a session
}

// CleanupConfig holds row-selection behavior settings
type CleanupConfig struct {
	HeaderRows      int      `mapstructure:"header_rows"`      // Header block size; row numbering offsets by this
	TotalKeyword    string   `mapstructure:"total_keyword"`    // Marker for summary rows swept with their group
	CaseSensitive   bool     `mapstructure:"case_sensitive"`   // Default case handling for search terms
	RequiredColumns []string `mapstructure:"required_columns"` // Columns every upload must carry (empty disables)
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir          string   `mapstructure:"dir"`           // Output directory for CLI exports and logs
	FileSuffix   string   `mapstructure:"file_suffix"`   // Appended to the base name of cleaned files
	AuditFormats []string `mapstructure:"audit_formats"` // Audit artifacts to emit ("excel", "word", "json")
}

// Load reads the configuration from a file or uses defaults
// If configPath is empty, it looks for "config.yaml" in the current directory
// If the file doesn't exist, it uses sensible defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set sensible defaults
	setDefaults(v)

	// Determine config file to use
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Set config file
	v.SetConfigFile(configPath)

	// Read config file (ignore error if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		// Check if it's just a file not found error
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			// Config file not found - use defaults
			fmt.Println("==========================================")
			fmt.Println("Config file not found. Using defaults:")
			fmt.Println("  Listen: 0.0.0.0:8080")
			fmt.Println("  Output: ./output")
			fmt.Println("==========================================")
		} else {
			// Config file found but has some other error
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Printf("Loaded config from: %s\n", v.ConfigFileUsed())
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Normalize paths and extensions
	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	// Create output directory if it doesn't exist
	if err := cfg.EnsureOutputDir(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	// Server defaults - permissive CORS mirrors the single-user tool heritage
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	// Upload defaults
	v.SetDefault("upload.max_file_size", int64(20<<20))
	v.SetDefault("upload.allowed_extensions", []string{".xlsx", ".xls", ".csv"})
	v.SetDefault("upload.preview_rows", 100)
	v.SetDefault("upload.session_ttl", 30*time.Minute)

	// Cleanup defaults
	v.SetDefault("cleanup.header_rows", 1)
	v.SetDefault("cleanup.total_keyword", "total")
	v.SetDefault("cleanup.case_sensitive", false)
	v.SetDefault("cleanup.required_columns", []string{})

	// Output defaults
	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_suffix", "_cleaned")
	v.SetDefault("output.audit_formats", []string{"excel", "json"})
}

// normalize converts relative paths to absolute and canonicalizes extensions
func (c *Config) normalize() error {
	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput

	for i, ext := range c.Upload.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Upload.AllowedExtensions[i] = ext
	}

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// AllowedExtension checks if a filename carries a permitted extension
func (c *Config) AllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range c.Upload.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// CleanedName derives the download name for a cleaned file from its source
// name, keeping the extension: "ledger.xlsx" becomes "ledger_cleaned.xlsx"
func (c *Config) CleanedName(filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + c.Output.FileSuffix + ext
}

// OutputPath returns the full path of a file inside the output directory
func (c *Config) OutputPath(filename string) string {
	return filepath.Join(c.Output.Dir, filename)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("upload.max_file_size must be positive")
	}

	if len(c.Upload.AllowedExtensions) == 0 {
		return fmt.Errorf("upload.allowed_extensions must contain at least one extension")
	}

	if c.Upload.SessionTTL <= 0 {
		return fmt.Errorf("upload.session_ttl must be positive")
	}

	if c.Cleanup.HeaderRows < 1 {
		return fmt.Errorf("cleanup.header_rows must be at least 1")
	}

	if strings.TrimSpace(c.Cleanup.TotalKeyword) == "" {
		return fmt.Errorf("cleanup.total_keyword cannot be empty")
	}

	for _, format := range c.Output.AuditFormats {
		switch format {
		case "excel", "word", "json":
		default:
			return fmt.Errorf("unknown audit format: %s", format)
		}
	}

	return nil
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== Sheetsweep Configuration ===")
	fmt.Printf("Listen Address:   %s\n", c.Addr())
	fmt.Printf("CORS Origins:     %v\n", c.Server.CORSOrigins)
	fmt.Printf("Max Upload Size:  %d bytes\n", c.Upload.MaxFileSize)
	fmt.Printf("Extensions:       %v\n", c.Upload.AllowedExtensions)
	fmt.Printf("Preview Rows:     %d\n", c.Upload.PreviewRows)
	fmt.Printf("Session TTL:      %s\n", c.Upload.SessionTTL)
	fmt.Printf("Header Rows:      %d\n", c.Cleanup.HeaderRows)
	fmt.Printf("Total Keyword:    %s\n", c.Cleanup.TotalKeyword)
	fmt.Printf("Case Sensitive:   %v\n", c.Cleanup.CaseSensitive)
	fmt.Printf("Required Columns: %v\n", c.Cleanup.RequiredColumns)
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Printf("Audit Formats:    %v\n", c.Output.AuditFormats)
	fmt.Println("================================")
}
