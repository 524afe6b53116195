package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"timeledger/internal/platform/logger"
)

const (
	EnvPrefix      = "TIMELEDGER"
	FileName       = "timeledger"
	stateDir       = ".timeledger"
	activeFileName = "active-session.json"
	anonymous      = "anonymous"
)

type Config struct {
	DataDir    string      `mapstructure:"data_dir"`
	StudentID  string      `mapstructure:"student_id"`
	LedgerFile string      `mapstructure:"ledger_file"`
	ExportDir  string      `mapstructure:"export_dir"`
	Index      IndexConfig `mapstructure:"index"`
	Notes      NotesConfig `mapstructure:"notes"`
	Log        LogConfig   `mapstructure:"log"`
}

type IndexConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type NotesConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Overrides carries command-line flags; empty fields leave the loaded value alone.
type Overrides struct {
	StudentID string
	LogLevel  string
}

// Load resolves configuration from defaults, an optional timeledger.yaml in
// dataDir and TIMELEDGER_* environment variables, in increasing precedence.
func Load(dataDir string, overrides Overrides) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	v := viper.New()
	setDefaults(v, dataDir)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dataDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if overrides.StudentID != "" {
		cfg.StudentID = overrides.StudentID
	}
	if overrides.LogLevel != "" {
		cfg.Log.Level = overrides.LogLevel
	}
	if strings.TrimSpace(cfg.StudentID) == "" {
		cfg.StudentID = os.Getenv("GITHUB_USER")
	}
	if strings.TrimSpace(cfg.StudentID) == "" {
		cfg.StudentID = anonymous
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, dataDir string) {
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("student_id", "")
	v.SetDefault("ledger_file", ".assessment_time_log.json")
	v.SetDefault("export_dir", ".")

	v.SetDefault("index.enabled", true)
	v.SetDefault("index.path", filepath.Join(stateDir, "index.db"))

	v.SetDefault("notes.enabled", false)
	v.SetDefault("notes.dir", "sessions")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.pretty", true)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir is required")
	}
	if strings.TrimSpace(c.LedgerFile) == "" {
		return fmt.Errorf("ledger_file is required")
	}
	if strings.ContainsAny(c.StudentID, `/\`) {
		return fmt.Errorf("student_id %q must not contain path separators", c.StudentID)
	}
	if c.Index.Enabled && strings.TrimSpace(c.Index.Path) == "" {
		return fmt.Errorf("index.path is required when the index is enabled")
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

func (c Config) LedgerPath() string { return c.resolve(c.LedgerFile) }

func (c Config) ActiveSessionPath() string {
	return filepath.Join(c.DataDir, stateDir, activeFileName)
}

func (c Config) IndexPath() string { return c.resolve(c.Index.Path) }

func (c Config) NotesDir() string { return c.resolve(c.Notes.Dir) }

func (c Config) ExportPath() string { return c.resolve(c.ExportDir) }

func (c Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}
