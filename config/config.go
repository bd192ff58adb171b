package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config holds the bot configuration loaded from flags, an optional .env file
// and the process environment.
type Config struct {
	Debug   bool `env:"DEBUG" envDefault:"false"`
	LogJSON bool `env:"LOG_JSON" envDefault:"false"`

	Discord struct {
		BotToken         string `env:"BOT_TOKEN"`
		AppID            string `env:"APP_ID"`
		GuildID          string `env:"GUILD_ID"`
		PublicKey        string `env:"PUBLIC_KEY"`
		RegisterCommands bool   `env:"REGISTER_COMMANDS" envDefault:"true"`
	}

	Server struct {
		Port       int    `env:"PORT" envDefault:"5000"`
		CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`
	}

	Storage struct {
		DataDir     string `env:"DATA_DIR" envDefault:"."`
		DatabaseURL string `env:"DATABASE_URL"`
	}

	Guild struct {
		OwnerID               string `env:"OWNER_ID" envDefault:"1151971830983311441"`
		ModRoleID             string `env:"MOD_ROLE_ID" envDefault:"1424020019070898186"`
		SupportCategoryID     string `env:"SUPPORT_CATEGORY_ID" envDefault:"1423413348065611953"`
		ApplicationCategoryID string `env:"APPLICATION_CATEGORY_ID" envDefault:"1434277752982474945"`
	}

	Tickets struct {
		DeleteDelay time.Duration `env:"TICKET_DELETE_DELAY" envDefault:"5s"`
	}
}

// Load parses command-line flags, loads the env file they point at (missing
// files are fine, the environment may be set directly) and fills Config.
// Flags win over the environment.
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("kekse-bot", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "path of the .env file to load")
	dataDir := flags.String("data-dir", "", "directory holding the JSON documents (overrides DATA_DIR)")
	debug := flags.Bool("debug", false, "enable debug logging")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", *envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if *dataDir != "" {
		cfg.Storage.DataDir = *dataDir
	}
	if *debug {
		cfg.Debug = true
	}
	return cfg, nil
}
