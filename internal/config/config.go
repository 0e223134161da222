package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// FileName configuration file looked up next to the executable
const FileName = "config.toml"

// AppConfig application configuration
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Log     LogConfig     `toml:"log"`
	Import  ImportConfig  `toml:"import"`
	Export  ExportConfig  `toml:"export"`
	Aliases []AliasConfig `toml:"aliases" validate:"dive"`
}

// ServerConfig HTTP server
type ServerConfig struct {
	Port           int      `toml:"port" validate:"min=0,max=65535"`
	DevMode        bool     `toml:"dev_mode"`
	OpenBrowser    bool     `toml:"open_browser"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// DataConfig on-disk locations
type DataConfig struct {
	DataDir string `toml:"data_dir" validate:"required"`
	DBFile  string `toml:"db_file" validate:"required"`
}

// LogConfig zap logger
type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=console json"`
}

// ImportConfig import pipeline
type ImportConfig struct {
	// StrictBinary rejects criterion cells other than 0 and 1 instead of rounding them.
	StrictBinary bool `toml:"strict_binary"`
	// Locator header detection: heuristic, legacy or auto.
	Locator     string `toml:"locator" validate:"oneof=heuristic legacy auto"`
	MaxUploadMB int    `toml:"max_upload_mb" validate:"min=1,max=1024"`
}

// ExportConfig annual export
type ExportConfig struct {
	ReconcileBeforeExport bool `toml:"reconcile_before_export"`
}

// AliasConfig supplier alias seeded into the store at startup
type AliasConfig struct {
	Alias    string `toml:"alias" validate:"required"`
	Supplier string `toml:"fornecedor" validate:"required"`
}

// LoadConfigInfo metadata about how the configuration was loaded
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
	EnvOverrides  []string
}

// DefaultConfig default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        8080,
			OpenBrowser: false,
		},
		Data: DataConfig{
			DataDir: "data",
			DBFile:  "avaliacao.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Import: ImportConfig{
			Locator:     "heuristic",
			MaxUploadMB: 20,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir directory of the running executable
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func baseDir() string {
	dir, err := GetExeDir()
	if err != nil {
		return "."
	}
	return dir
}

// LoadConfigWithInfo loads config.toml and .env from the executable directory.
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return Load(baseDir())
}

// Load reads dir/config.toml over the defaults, then dir/.env, then applies
// RIR_* environment overrides and validates the result. A missing file is not
// an error.
func Load(dir string) (*AppConfig, LoadConfigInfo, error) {
	cfg := DefaultConfig()
	info := LoadConfigInfo{Path: filepath.Join(dir, FileName)}

	data, err := os.ReadFile(info.Path)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, info, fmt.Errorf("%s: %w", info.Path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, info, err
	}

	// .env never overrides variables already set in the environment
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, info, fmt.Errorf(".env: %w", err)
	}

	overrides, err := applyEnv(cfg)
	info.EnvOverrides = overrides
	if err != nil {
		return nil, info, err
	}
	if contains(overrides, "RIR_PORT") {
		info.PortSpecified = true
	}

	if err := Validate(cfg); err != nil {
		return nil, info, err
	}
	return cfg, info, nil
}

var validate = validator.New()

// Validate checks field constraints
func Validate(cfg *AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: %s=%s (valor %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
			}
			return fmt.Errorf("configuração inválida: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

type envBinding struct {
	name  string
	apply func(cfg *AppConfig, v string) error
}

var envBindings = []envBinding{
	{"RIR_PORT", func(cfg *AppConfig, v string) error {
		n, err := strconv.Atoi(v)
		cfg.Server.Port = n
		return err
	}},
	{"RIR_DEV_MODE", func(cfg *AppConfig, v string) (err error) {
		cfg.Server.DevMode, err = strconv.ParseBool(v)
		return err
	}},
	{"RIR_DATA_DIR", func(cfg *AppConfig, v string) error {
		cfg.Data.DataDir = v
		return nil
	}},
	{"RIR_LOG_LEVEL", func(cfg *AppConfig, v string) error {
		cfg.Log.Level = strings.ToLower(v)
		return nil
	}},
	{"RIR_LOG_FORMAT", func(cfg *AppConfig, v string) error {
		cfg.Log.Format = strings.ToLower(v)
		return nil
	}},
	{"RIR_STRICT_BINARY", func(cfg *AppConfig, v string) (err error) {
		cfg.Import.StrictBinary, err = strconv.ParseBool(v)
		return err
	}},
	{"RIR_LOCATOR", func(cfg *AppConfig, v string) error {
		cfg.Import.Locator = strings.ToLower(v)
		return nil
	}},
	{"RIR_RECONCILE_BEFORE_EXPORT", func(cfg *AppConfig, v string) (err error) {
		cfg.Export.ReconcileBeforeExport, err = strconv.ParseBool(v)
		return err
	}},
}

func applyEnv(cfg *AppConfig) ([]string, error) {
	var applied []string
	for _, b := range envBindings {
		v, ok := os.LookupEnv(b.name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := b.apply(cfg, strings.TrimSpace(v)); err != nil {
			return applied, fmt.Errorf("%s=%q: %w", b.name, v, err)
		}
		applied = append(applied, b.name)
	}
	return applied, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Save writes cfg as dir/config.toml.
func Save(dir string, cfg *AppConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, FileName), data, 0644)
}

// SaveConfig writes cfg to config.toml next to the executable.
func SaveConfig(cfg *AppConfig) error {
	return Save(baseDir(), cfg)
}

// ResolveDataDir absolute data directory; relative paths are taken from base.
func ResolveDataDir(config *AppConfig, base string) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	return filepath.Join(base, config.Data.DataDir)
}

// EnsureDataDir creates the data directory next to the executable.
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config, baseDir())
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// DBPath path of the SQLite database inside the data directory
func DBPath(config *AppConfig) string {
	return filepath.Join(ResolveDataDir(config, baseDir()), config.Data.DBFile)
}
