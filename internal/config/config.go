package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for the catalog server.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Content    ContentConfig    `toml:"content"`
	Stats      StatsConfig      `toml:"stats"`
	Encryption EncryptionConfig `toml:"encryption"`
	Server     ServerConfig     `toml:"server"`
	Admin      AdminConfig      `toml:"admin"`
}

// ContentConfig selects where the content tree is stored.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ContentConfig struct {
	Type string `toml:"type"` // "memory", "filesystem", "s3" or "sqlite"

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSRoot string `toml:"fs_root,omitempty"`
	Watch  bool   `toml:"watch,omitempty"` // reload when the file changes on disk

	// S3-specific fields (only used when Type == "s3")
	S3Bucket   string `toml:"s3_bucket,omitempty"`
	S3Prefix   string `toml:"s3_prefix,omitempty"`
	S3Region   string `toml:"s3_region,omitempty"`
	S3Endpoint string `toml:"s3_endpoint,omitempty"` // for S3-compatible services

	// SQLite-specific fields (only used when Type == "sqlite")
	DataDir string `toml:"data_dir,omitempty"`

	// Encrypt seals blob content with the configured encryptor (filesystem and s3 only).
	Encrypt  bool `toml:"encrypt,omitempty"`
	SeedDemo bool `toml:"seed_demo"`
}

// StatsConfig selects where the analytics counters live.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StatsConfig struct {
	Type string `toml:"type"` // "memory", "redis" or "sqlite"

	// Redis-specific fields (only used when Type == "redis")
	RedisAddr   string `toml:"redis_addr,omitempty"`
	RedisDB     int    `toml:"redis_db,omitempty"`
	RedisPrefix string `toml:"redis_prefix,omitempty"`

	// SQLite-specific fields (only used when Type == "sqlite")
	DataDir string `toml:"data_dir,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used for encryption.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	AllowOrigins []string `toml:"allow_origins,omitempty"`
	CookieName   string   `toml:"cookie_name"`
	CookieSecure bool     `toml:"cookie_secure"`
}

// AdminConfig configures the hidden admin gate.
type AdminConfig struct {
	Secret          string `toml:"secret,omitempty"`
	SecretEnv       string `toml:"secret_env,omitempty"` // env var holding the secret; wins over Secret
	TriggerKey      string `toml:"trigger_key"`
	TriggerPresses  int    `toml:"trigger_presses"`
	TriggerWindowMS int    `toml:"trigger_window_ms"`
}

// ResolveSecret returns the admin secret, reading SecretEnv when set.
func (a AdminConfig) ResolveSecret() string {
	if a.SecretEnv != "" {
		if v := os.Getenv(a.SecretEnv); v != "" {
			return v
		}
	}
	return a.Secret
}

// NewConfig creates a new Config with default paths under baseDir: a
// filesystem content store, sqlite stats and the stock admin trigger.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Content: ContentConfig{
			Type:     "filesystem",
			FSRoot:   filepath.Join(baseDir, "content"),
			SeedDemo: true,
		},
		Stats: StatsConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  filepath.Join(baseDir, "keys", "catalog.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "catalog.key"),
		},
		Server: ServerConfig{
			Addr:       ":8080",
			CookieName: "catalog_session",
		},
		Admin: AdminConfig{
			SecretEnv:       "CATALOG_ADMIN_SECRET",
			TriggerKey:      "9",
			TriggerPresses:  7,
			TriggerWindowMS: 5000,
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
