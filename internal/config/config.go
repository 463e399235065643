// Package config loads TaskMine settings from defaults, a YAML file and
// TASKMINE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/storage"
)

const EnvPrefix = "TASKMINE"

// Config holds all configuration for TaskMine.
type Config struct {
	DB        DBConfig        `mapstructure:"db"`
	Family    FamilyConfig    `mapstructure:"family"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Server    ServerConfig    `mapstructure:"server"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type FamilyConfig struct {
	ID string `mapstructure:"id"`
}

type SchedulerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// EngineConfig mirrors engine.Tuning.
type EngineConfig struct {
	BonusDiamondsPerLevel int `mapstructure:"bonus_diamonds_per_level"`
	TaskHeal              int `mapstructure:"task_heal"`
	PotionHeal            int `mapstructure:"potion_heal"`
	PenaltyDamage         int `mapstructure:"penalty_damage"`
	MorningEndHour        int `mapstructure:"morning_end_hour"`
	AfternoonEndHour      int `mapstructure:"afternoon_end_hour"`
	GridSize              int `mapstructure:"grid_size"`
	ActivityWindow        int `mapstructure:"activity_window"`
	DefaultMaxHP          int `mapstructure:"default_max_hp"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Tuning converts the engine section into engine.Tuning.
func (c *Config) Tuning() engine.Tuning {
	e := c.Engine
	return engine.Tuning{
		BonusDiamondsPerLevel: e.BonusDiamondsPerLevel,
		TaskHeal:              e.TaskHeal,
		PotionHeal:            e.PotionHeal,
		PenaltyDamage:         e.PenaltyDamage,
		MorningEndHour:        e.MorningEndHour,
		AfternoonEndHour:      e.AfternoonEndHour,
		GridSize:              e.GridSize,
		ActivityWindow:        e.ActivityWindow,
		DefaultMaxHP:          e.DefaultMaxHP,
	}
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	e := c.Engine
	var errs []error
	if strings.TrimSpace(c.Family.ID) == "" {
		errs = append(errs, errors.New("family.id is empty"))
	}
	if e.MorningEndHour < 1 || e.MorningEndHour >= e.AfternoonEndHour || e.AfternoonEndHour > 23 {
		errs = append(errs, fmt.Errorf("engine hours must satisfy 1 <= morning_end_hour < afternoon_end_hour <= 23, got %d and %d", e.MorningEndHour, e.AfternoonEndHour))
	}
	if e.GridSize < 1 {
		errs = append(errs, fmt.Errorf("engine.grid_size must be positive, got %d", e.GridSize))
	}
	if e.DefaultMaxHP < 1 {
		errs = append(errs, fmt.Errorf("engine.default_max_hp must be positive, got %d", e.DefaultMaxHP))
	}
	if e.ActivityWindow < 1 {
		errs = append(errs, fmt.Errorf("engine.activity_window must be positive, got %d", e.ActivityWindow))
	}
	for name, v := range map[string]int{
		"bonus_diamonds_per_level": e.BonusDiamondsPerLevel,
		"task_heal":                e.TaskHeal,
		"potion_heal":              e.PotionHeal,
		"penalty_damage":           e.PenaltyDamage,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("engine.%s is negative: %d", name, v))
		}
	}
	if c.Scheduler.Interval <= 0 {
		errs = append(errs, fmt.Errorf("scheduler.interval must be positive, got %s", c.Scheduler.Interval))
	}
	return errors.Join(errs...)
}

// Source is a loaded configuration that can be re-read and watched.
type Source struct {
	v    *viper.Viper
	mu   sync.Mutex
	file string
}

// Open builds a Source. An empty path means the user config file, which
// may be missing. An explicit path must exist.
func Open(path string) (*Source, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(UserConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Source{v: v, file: v.ConfigFileUsed()}, nil
}

// Load reads the configuration once.
func Load(path string) (*Config, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	return src.Config()
}

// File returns the config file in use, or "" when running on defaults.
func (s *Source) File() string { return s.file }

// Config decodes the current settings.
func (s *Source) Config() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := &Config{}
	if err := s.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Watch calls fn after every write to the config file. It returns false
// when there is no file to watch.
func (s *Source) Watch(fn func(*Config, error)) bool {
	if s.file == "" {
		return false
	}
	s.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(s.Config())
	})
	s.v.WatchConfig()
	return true
}

func setDefaults(v *viper.Viper) {
	dbPath, err := storage.DefaultDBPath()
	if err != nil {
		dbPath = "taskmine.db"
	}
	v.SetDefault("db.path", dbPath)
	v.SetDefault("family.id", "default")
	v.SetDefault("scheduler.interval", "1m")

	tun := engine.DefaultTuning()
	v.SetDefault("engine.bonus_diamonds_per_level", tun.BonusDiamondsPerLevel)
	v.SetDefault("engine.task_heal", tun.TaskHeal)
	v.SetDefault("engine.potion_heal", tun.PotionHeal)
	v.SetDefault("engine.penalty_damage", tun.PenaltyDamage)
	v.SetDefault("engine.morning_end_hour", tun.MorningEndHour)
	v.SetDefault("engine.afternoon_end_hour", tun.AfternoonEndHour)
	v.SetDefault("engine.grid_size", tun.GridSize)
	v.SetDefault("engine.activity_window", tun.ActivityWindow)
	v.SetDefault("engine.default_max_hp", tun.DefaultMaxHP)

	v.SetDefault("server.addr", ":8080")
}

// UserConfigDir returns the XDG config directory for TaskMine.
func UserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskmine")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "taskmine")
	}
	return filepath.Join(home, ".config", "taskmine")
}
