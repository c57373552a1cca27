// Package config provides Viper-based configuration loading for duel.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is the log sink: "stderr", "stdout", or a file path.
	Output string `mapstructure:"output"`
}

// SimulationConfig holds the settings of one simulation run.
type SimulationConfig struct {
	// Battles is the number of battles to run.
	Battles int `mapstructure:"battles"`
	// Challenger and Opponent are character IDs from the catalog.
	Challenger string `mapstructure:"challenger"`
	Opponent   string `mapstructure:"opponent"`
	// ContentDir is the catalog root holding weapons/, shields/, armour/, and characters/.
	ContentDir string `mapstructure:"content_dir"`
	// MaxTurns ends a battle as a draw after this many turns.
	MaxTurns int `mapstructure:"max_turns"`
	// Seed makes a run reproducible; 0 draws from crypto/rand.
	Seed uint64 `mapstructure:"seed"`
	// ClampMitigation floors damage after armour at zero.
	ClampMitigation bool `mapstructure:"clamp_mitigation"`
	// OffHandEdge selects the mitigation edge for off-hand swings: "main_hand" or "striking".
	OffHandEdge string `mapstructure:"off_hand_edge"`
	// LogRolls logs every dice roll at debug level.
	LogRolls bool `mapstructure:"log_rolls"`
}

// RewardsConfig holds the experience and gold granted after a decisive battle.
type RewardsConfig struct {
	WinnerExperience int `mapstructure:"winner_experience"`
	WinnerGold       int `mapstructure:"winner_gold"`
	LoserExperience  int `mapstructure:"loser_experience"`
	LoserGold        int `mapstructure:"loser_gold"`
	// ScriptDir, when set, names a directory of Lua files defining battle_rewards.
	ScriptDir string `mapstructure:"script_dir"`
	// InstructionLimit caps the Lua opcodes per hook call; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// Enabled stores each run's report when true.
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Rewards    RewardsConfig    `mapstructure:"rewards"`
	Database   DatabaseConfig   `mapstructure:"database"`
}

// Validate checks all configuration invariants. Database settings are only
// checked when the database is enabled.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRewards(c.Rewards); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Database.Enabled {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Battles < 1 {
		errs = append(errs, fmt.Sprintf("simulation.battles must be >= 1, got %d", s.Battles))
	}
	if s.Challenger == "" {
		errs = append(errs, "simulation.challenger must not be empty")
	}
	if s.Opponent == "" {
		errs = append(errs, "simulation.opponent must not be empty")
	}
	if s.Challenger != "" && s.Challenger == s.Opponent {
		errs = append(errs, fmt.Sprintf("simulation.challenger and simulation.opponent must differ, both %q", s.Challenger))
	}
	if s.ContentDir == "" {
		errs = append(errs, "simulation.content_dir must not be empty")
	}
	if s.MaxTurns < 1 {
		errs = append(errs, fmt.Sprintf("simulation.max_turns must be >= 1, got %d", s.MaxTurns))
	}
	validEdges := map[string]bool{"main_hand": true, "striking": true}
	if !validEdges[s.OffHandEdge] {
		errs = append(errs, fmt.Sprintf("simulation.off_hand_edge must be one of [main_hand, striking], got %q", s.OffHandEdge))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRewards(r RewardsConfig) error {
	var errs []string
	for _, f := range []struct {
		name  string
		value int
	}{
		{"rewards.winner_experience", r.WinnerExperience},
		{"rewards.winner_gold", r.WinnerGold},
		{"rewards.loser_experience", r.LoserExperience},
		{"rewards.loser_gold", r.LoserGold},
		{"rewards.instruction_limit", r.InstructionLimit},
	} {
		if f.value < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0, got %d", f.name, f.value))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with DUEL_ prefix
	v.SetEnvPrefix("DUEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the default settings.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("simulation.battles", 1000)
	v.SetDefault("simulation.challenger", "one")
	v.SetDefault("simulation.opponent", "two")
	v.SetDefault("simulation.content_dir", "content")
	v.SetDefault("simulation.max_turns", 1000)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.clamp_mitigation", true)
	v.SetDefault("simulation.off_hand_edge", "main_hand")
	v.SetDefault("simulation.log_rolls", false)

	v.SetDefault("rewards.winner_experience", 200)
	v.SetDefault("rewards.winner_gold", 10)
	v.SetDefault("rewards.loser_experience", 75)
	v.SetDefault("rewards.loser_gold", 5)
	v.SetDefault("rewards.script_dir", "")
	v.SetDefault("rewards.instruction_limit", 0)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "duel")
	v.SetDefault("database.password", "duel")
	v.SetDefault("database.name", "duel")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")
}
