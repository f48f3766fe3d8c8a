package sbustatina

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/8549/sbustatinabot/sbustatina/database"
	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	if err = cfg.Game.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig         `toml:"log"`
	Bot    BotConfig         `toml:"bot"`
	DB     database.DBConfig `toml:"db"`
	Spaces SpacesConfig      `toml:"spaces"`
	Game   GameConfig        `toml:"game"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type SpacesConfig struct {
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Bucket   string `toml:"bucket"`
	CardRoot string `toml:"cardroot"`
}

type GameConfig struct {
	// DailyLimit is the number of pack openings per user per calendar day.
	DailyLimit int `toml:"daily_limit"`
	// DefaultSet is the set id packs are opened from.
	DefaultSet string `toml:"default_set"`
	// Timezone decides where the daily boundary falls for every user.
	Timezone string `toml:"timezone"`
	// DrawRetentionDays is how long draw records are kept before pruning.
	DrawRetentionDays int `toml:"draw_retention_days"`
}

func (g *GameConfig) validate() error {
	if g.DailyLimit <= 0 {
		return fmt.Errorf("game.daily_limit must be positive, got %d", g.DailyLimit)
	}
	if g.DefaultSet == "" {
		return fmt.Errorf("game.default_set is required")
	}
	if g.Timezone == "" {
		g.Timezone = "Europe/Rome"
	}
	if _, err := time.LoadLocation(g.Timezone); err != nil {
		return fmt.Errorf("invalid game.timezone %q: %w", g.Timezone, err)
	}
	if g.DrawRetentionDays <= 0 {
		g.DrawRetentionDays = 7
	}
	return nil
}

// Location returns the parsed reference timezone. validate has already
// checked it loads.
func (g *GameConfig) Location() *time.Location {
	loc, _ := time.LoadLocation(g.Timezone)
	return loc
}
