package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/CTAG07/markovwalk/pkg/board"
	"github.com/CTAG07/markovwalk/pkg/words"
	"github.com/natefinch/atomic"
)

// TweetConfig holds settings for the tweet generator.
type TweetConfig struct {
	MaxWords  int `json:"max_words"`
	NodeLimit int `json:"node_limit"`
}

// BoardConfig holds settings for the snakes-and-ladders walker.
type BoardConfig struct {
	MaxLength  int    `json:"max_length"`
	LayoutPath string `json:"layout_path"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	LogLevel     string       `json:"log_level"`
	DatabasePath string       `json:"database_path"`
	Tweets       *TweetConfig `json:"tweet_config"`
	Board        *BoardConfig `json:"board_config"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "warn",
		DatabasePath: "./markovwalk.db",
		Tweets: &TweetConfig{
			MaxWords:  words.DefaultMaxWords,
			NodeLimit: 0,
		},
		Board: &BoardConfig{
			MaxLength:  board.DefaultMaxLength,
			LayoutPath: "",
		},
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The generators still run with defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the generators cannot run with. Sections missing
// from the file are filled in with defaults.
func (c *Config) Validate() error {
	defaults := DefaultConfig()
	if c.Tweets == nil {
		c.Tweets = defaults.Tweets
	}
	if c.Board == nil {
		c.Board = defaults.Board
	}
	if c.Tweets.MaxWords < 1 {
		return fmt.Errorf("invalid config: tweet_config.max_words must be at least 1, got %d", c.Tweets.MaxWords)
	}
	if c.Tweets.NodeLimit < 0 {
		return fmt.Errorf("invalid config: tweet_config.node_limit must not be negative, got %d", c.Tweets.NodeLimit)
	}
	if c.Board.MaxLength < 1 {
		return fmt.Errorf("invalid config: board_config.max_length must be at least 1, got %d", c.Board.MaxLength)
	}
	return nil
}

// parseLogLevel maps a config string to a slog level, falling back to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
