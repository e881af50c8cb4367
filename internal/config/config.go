// Package config loads worldgen settings from defaults, an optional YAML file,
// WORLDGEN_* environment variables, and command-line flags, in rising priority.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/talgya/worldforge/internal/world"
)

// Config is the full worldgen configuration.
type Config struct {
	Generation GenerationConfig `mapstructure:"generation"`
	Store      StoreConfig      `mapstructure:"store"`
	Log        LogConfig        `mapstructure:"log"`
}

// GenerationConfig mirrors world.GenConfig plus the caller-side deadline.
type GenerationConfig struct {
	Grain         int           `mapstructure:"grain"`
	Factions      int           `mapstructure:"factions"`
	Seed          int64         `mapstructure:"seed"`
	Owner         string        `mapstructure:"owner"`
	MinConnection float64       `mapstructure:"min_connection"`
	GrowthRounds  int           `mapstructure:"growth_rounds"`
	CityFraction  float64       `mapstructure:"city_fraction"`
	PortChance    float64       `mapstructure:"port_chance"`
	FortFraction  float64       `mapstructure:"fort_fraction"`
	TroopChoices  []int         `mapstructure:"troop_choices"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// StoreConfig locates the world database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"` // empty disables the JSON file log
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// flagKeys binds command-line flag names to config keys.
var flagKeys = map[string]string{
	"grain":     "generation.grain",
	"factions":  "generation.factions",
	"seed":      "generation.seed",
	"owner":     "generation.owner",
	"db":        "store.path",
	"log-file":  "log.file",
	"log-level": "log.level",
}

// Load reads the configuration. path may be empty; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WORLDGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := world.DefaultGenConfig()
	v.SetDefault("generation.grain", d.Grain)
	v.SetDefault("generation.factions", d.Factions)
	v.SetDefault("generation.seed", int64(0))
	v.SetDefault("generation.owner", "")
	v.SetDefault("generation.min_connection", d.MinConnection)
	v.SetDefault("generation.growth_rounds", d.GrowthRounds)
	v.SetDefault("generation.city_fraction", d.Settlements.CityFraction)
	v.SetDefault("generation.port_chance", d.Settlements.PortChance)
	v.SetDefault("generation.fort_fraction", d.Settlements.FortFraction)
	v.SetDefault("generation.troop_choices", d.Settlements.TroopChoices)
	v.SetDefault("generation.timeout", 30*time.Second)

	v.SetDefault("store.path", "data/worlds.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", false)
}

// GenConfig converts the generation section into world parameters.
func (c Config) GenConfig() world.GenConfig {
	g := c.Generation
	return world.GenConfig{
		Grain:         g.Grain,
		Factions:      g.Factions,
		Seed:          g.Seed,
		Owner:         g.Owner,
		MinConnection: g.MinConnection,
		GrowthRounds:  g.GrowthRounds,
		Settlements: world.SettlementConfig{
			CityFraction: g.CityFraction,
			PortChance:   g.PortChance,
			FortFraction: g.FortFraction,
			TroopChoices: append([]int(nil), g.TroopChoices...),
		},
	}
}
