package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"drawfour-server/internal/util"
)

// Config provides configuration for the Draw Four server
type Config struct {
	loaded bool
	Log    struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
	JWT struct {
		Secret string `yaml:"secret" envconfig:"secret"`
	}
	Room struct {
		CodeLength    int    `yaml:"codeLength" envconfig:"code_length"`
		BotDifficulty string `yaml:"botDifficulty" envconfig:"bot_difficulty"`
		// IdleTimeoutMinutes is how long an empty room lingers before the
		// registry reaps it
		IdleTimeoutMinutes int `yaml:"idleTimeoutMinutes" envconfig:"idle_timeout_minutes"`
	}
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is not an error; environment variables alone are a
// valid configuration.
func Load() error {
	_ = godotenv.Load()

	config = Config{}

	configFile := util.Getenv("D4_CONFIG_FILE", "config.yaml")
	if file, err := os.Open(configFile); err == nil {
		err := yaml.NewDecoder(file).Decode(&config)
		_ = file.Close()
		if err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("d4", &config); err != nil {
		return err
	}

	if config.Room.CodeLength == 0 {
		config.Room.CodeLength = 4
	}

	if config.Room.BotDifficulty == "" {
		config.Room.BotDifficulty = "normal"
	}

	if config.Room.IdleTimeoutMinutes == 0 {
		config.Room.IdleTimeoutMinutes = 30
	}

	config.loaded = true
	return nil
}
