package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/eval"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/layout"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/mapgen"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/search"
)

// Config holds all configuration for the application
type Config struct {
	Game        GameConfig        `mapstructure:"game"`
	Eval        EvalConfig        `mapstructure:"eval"`
	Search      SearchConfig      `mapstructure:"search"`
	Match       MatchConfig       `mapstructure:"match"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// GameConfig holds unit and map settings
type GameConfig struct {
	UnitHealth      int       `mapstructure:"unit_health"`
	CommanderHealth int       `mapstructure:"commander_health"`
	Map             MapConfig `mapstructure:"map"`
}

// MapConfig holds generated map settings, used when no scenario is given
type MapConfig struct {
	Width               int   `mapstructure:"width"`
	Height              int   `mapstructure:"height"`
	WallRatio           int   `mapstructure:"wall_ratio"`
	UnitsPerSide        int   `mapstructure:"units_per_side"`
	MinCommanderSpacing int   `mapstructure:"min_commander_spacing"`
	Seed                int64 `mapstructure:"seed"` // 0 seeds from the clock
}

// EvalConfig holds the evaluator weights
type EvalConfig struct {
	FriendlyUnit      float64 `mapstructure:"friendly_unit"`
	FriendlyCommander float64 `mapstructure:"friendly_commander"`
	EnemyUnit         float64 `mapstructure:"enemy_unit"`
	EnemyCommander    float64 `mapstructure:"enemy_commander"`
}

// SearchConfig holds decision engine settings
type SearchConfig struct {
	Strategy      string  `mapstructure:"strategy"`
	Depth         int     `mapstructure:"depth"`
	Jitter        float64 `mapstructure:"jitter"`
	Seed          uint64  `mapstructure:"seed"` // 0 seeds from the clock
	Workers       int     `mapstructure:"workers"`
	TurnTimeoutMS int     `mapstructure:"turn_timeout_ms"` // 0 disables the deadline
}

// MatchConfig holds settings for a local match
type MatchConfig struct {
	Scenario string `mapstructure:"scenario"` // YAML scenario; empty generates a map
	First    string `mapstructure:"first"`
	MaxTurns int    `mapstructure:"max_turns"`
	Mice     string `mapstructure:"mice"`    // strategy controlling mice
	Goblins  string `mapstructure:"goblins"` // strategy controlling goblins
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Advisor AdvisorServerConfig `mapstructure:"advisor"`
}

// AdvisorServerConfig holds gRPC advisor configuration
type AdvisorServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	LogLevel              string `mapstructure:"log_level"`
	MaxDepth              int    `mapstructure:"max_depth"`
	RequestTimeoutMS      int    `mapstructure:"request_timeout_ms"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	ColorBoard bool `mapstructure:"color_board"`
	ShowBoard  bool `mapstructure:"show_board"`
	LogEvents  bool `mapstructure:"log_events"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Game defaults
	v.SetDefault("game.unit_health", core.DefaultUnitHealth)
	v.SetDefault("game.commander_health", core.DefaultCommanderHealth)
	v.SetDefault("game.map.width", 10)
	v.SetDefault("game.map.height", 8)
	v.SetDefault("game.map.wall_ratio", 8)
	v.SetDefault("game.map.units_per_side", 3)
	v.SetDefault("game.map.min_commander_spacing", 4)
	v.SetDefault("game.map.seed", 0)

	// Evaluator defaults
	weights := eval.DefaultWeights()
	v.SetDefault("eval.friendly_unit", weights.FriendlyUnit)
	v.SetDefault("eval.friendly_commander", weights.FriendlyCommander)
	v.SetDefault("eval.enemy_unit", weights.EnemyUnit)
	v.SetDefault("eval.enemy_commander", weights.EnemyCommander)

	// Search defaults
	v.SetDefault("search.strategy", search.StrategyAlphaBeta)
	v.SetDefault("search.depth", 3)
	v.SetDefault("search.jitter", search.DefaultJitter)
	v.SetDefault("search.seed", 0)
	v.SetDefault("search.workers", 1)
	v.SetDefault("search.turn_timeout_ms", 0)

	// Match defaults
	v.SetDefault("match.scenario", "")
	v.SetDefault("match.first", "mice")
	v.SetDefault("match.max_turns", 200)
	v.SetDefault("match.mice", search.StrategyAlphaBeta)
	v.SetDefault("match.goblins", search.StrategyLookahead)

	// Advisor server defaults
	v.SetDefault("server.advisor.host", "0.0.0.0")
	v.SetDefault("server.advisor.port", 50061)
	v.SetDefault("server.advisor.log_level", "info")
	v.SetDefault("server.advisor.max_depth", 6)
	v.SetDefault("server.advisor.request_timeout_ms", 5000)
	v.SetDefault("server.advisor.enable_reflection", true)
	v.SetDefault("server.advisor.graceful_shutdown_delay", 5)

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Development defaults
	v.SetDefault("development.color_board", true)
	v.SetDefault("development.show_board", true)
	v.SetDefault("development.log_events", false)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/goblin-tactics")
	}

	v.SetEnvPrefix("TACTICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// No config file in the search paths; use defaults
		case configPath != "" && errors.Is(err, fs.ErrNotExist):
			// Specific file requested but not found; use defaults
		default:
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error merging environment config %s: %w", envFile, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	_ = v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. A reloaded config
// that fails validation is dropped and the previous one stays in effect.
func WatchConfig(onChange func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil || Validate(next) != nil {
			return
		}
		cfg = next
		if onChange != nil {
			onChange(next)
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Game.UnitHealth < 1 {
		return fmt.Errorf("game.unit_health must be at least 1")
	}
	if c.Game.CommanderHealth < 1 {
		return fmt.Errorf("game.commander_health must be at least 1")
	}
	if c.Game.Map.Width < mapgen.MinWidth || c.Game.Map.Height < mapgen.MinHeight {
		return fmt.Errorf("game.map must be at least %dx%d", mapgen.MinWidth, mapgen.MinHeight)
	}
	if c.Game.Map.WallRatio < 0 {
		return fmt.Errorf("game.map.wall_ratio must be non-negative")
	}
	if c.Game.Map.UnitsPerSide < 0 {
		return fmt.Errorf("game.map.units_per_side must be non-negative")
	}
	if c.Game.Map.MinCommanderSpacing < 1 {
		return fmt.Errorf("game.map.min_commander_spacing must be at least 1")
	}

	for key, name := range map[string]string{
		"search.strategy": c.Search.Strategy,
		"match.mice":      c.Match.Mice,
		"match.goblins":   c.Match.Goblins,
	} {
		if !isStrategy(name) {
			return fmt.Errorf("%s: %w: %q", key, search.ErrUnknownStrategy, name)
		}
	}
	if c.Search.Depth < 0 {
		return fmt.Errorf("search.depth must be non-negative")
	}
	if c.Search.Jitter < 0 {
		return fmt.Errorf("search.jitter must be non-negative")
	}
	if c.Search.Workers < 1 {
		return fmt.Errorf("search.workers must be at least 1")
	}
	if c.Search.TurnTimeoutMS < 0 {
		return fmt.Errorf("search.turn_timeout_ms must be non-negative")
	}

	if _, err := core.ParseFaction(c.Match.First); err != nil {
		return fmt.Errorf("match.first: %w", err)
	}
	if c.Match.MaxTurns < 0 {
		return fmt.Errorf("match.max_turns must be non-negative")
	}

	if c.Server.Advisor.Port <= 0 || c.Server.Advisor.Port > 65535 {
		return fmt.Errorf("server.advisor.port must be between 1 and 65535")
	}
	if c.Server.Advisor.MaxDepth < 1 {
		return fmt.Errorf("server.advisor.max_depth must be at least 1")
	}
	if c.Server.Advisor.RequestTimeoutMS < 0 {
		return fmt.Errorf("server.advisor.request_timeout_ms must be non-negative")
	}
	if c.Server.Advisor.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.advisor.graceful_shutdown_delay must be non-negative")
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}

	return nil
}

func isStrategy(name string) bool {
	switch name {
	case search.StrategyLookahead, search.StrategyAlphaBeta, search.StrategyRandom:
		return true
	}
	return false
}

// Weights returns the evaluator weights
func (c *Config) Weights() eval.Weights {
	return eval.Weights{
		FriendlyUnit:      c.Eval.FriendlyUnit,
		FriendlyCommander: c.Eval.FriendlyCommander,
		EnemyUnit:         c.Eval.EnemyUnit,
		EnemyCommander:    c.Eval.EnemyCommander,
	}
}

// SearchOptions builds the strategy options shared by every controller
func (c *Config) SearchOptions(logger zerolog.Logger) []search.Option {
	opts := []search.Option{
		search.WithLogger(logger),
		search.WithEvaluator(eval.NewEvaluator(c.Weights())),
		search.WithJitter(c.Search.Jitter),
		search.WithWorkers(c.Search.Workers),
	}
	if c.Search.Seed != 0 {
		opts = append(opts, search.WithSeed(c.Search.Seed))
	}
	return opts
}

// TurnTimeout is zero when no deadline applies
func (c *Config) TurnTimeout() time.Duration {
	return time.Duration(c.Search.TurnTimeoutMS) * time.Millisecond
}

// LayoutOptions returns the health values for parsed boards
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{UnitHealth: c.Game.UnitHealth, CommanderHealth: c.Game.CommanderHealth}
}

// MapConfig returns the generator settings
func (c *Config) MapConfig() mapgen.MapConfig {
	mc := mapgen.DefaultMapConfig(c.Game.Map.Width, c.Game.Map.Height)
	mc.WallRatio = c.Game.Map.WallRatio
	mc.UnitsPerSide = c.Game.Map.UnitsPerSide
	mc.MinCommanderSpacing = c.Game.Map.MinCommanderSpacing
	mc.UnitHealth = c.Game.UnitHealth
	mc.CommanderHealth = c.Game.CommanderHealth
	return mc
}
