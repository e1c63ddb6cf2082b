// Package config reads settings from flags, falling back to PLYCHESS_*
// environment variables.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/benbeisheim/plychess/internal/model"
)

type Config struct {
	Addr           string
	AllowOrigins   string
	Seed           uint64
	Underpromotion bool
}

// RegisterEngineFlags adds the flags shared by the server and the CLI.
func RegisterEngineFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Uint64Var(&cfg.Seed, "seed", getenu("PLYCHESS_SEED", 0), "engine seed (0 seeds from the clock)")
	fs.BoolVar(&cfg.Underpromotion, "underpromotion", getenb("PLYCHESS_UNDERPROMOTION", false), "offer rook, bishop and knight promotions")
}

// Load parses the server flags in args (without the program name).
func Load(args []string) (Config, error) {
	var cfg Config
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", getenv("PLYCHESS_ADDR", ":3000"), "listen address")
	fs.StringVar(&cfg.AllowOrigins, "allow-origins", getenv("PLYCHESS_ALLOW_ORIGINS", "http://localhost:5173"), "comma-separated CORS origins")
	RegisterEngineFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return cfg, nil
}

// Rules returns the move generation rules the config selects.
func (c Config) Rules() model.Rules {
	if c.Underpromotion {
		return model.AllPromotions()
	}
	return model.StandardRules()
}

// ResolvedSeed returns Seed, or a clock-derived seed when Seed is zero.
func (c Config) ResolvedSeed() uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(time.Now().UnixNano())
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getenu(key string, def uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
	}
	return def
}
