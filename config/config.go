package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from a .env file, config.yaml and the
// environment, in that order. Environment variables override file settings;
// dots in config keys map to underscores in variable names.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, skipping.")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Config file (config.yaml) not found, using environment variables and defaults.")
		} else {
			panic(fmt.Errorf("fatal error reading config file: %w", err))
		}
	}
}

func setDefaults() {
	viper.SetDefault("bot.prefix", "/")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("database.path", "./data/tracker.db")
	viper.SetDefault("hub.url", "https://pubsubhubbub.appspot.com/")
	viper.SetDefault("hub.default", "https://pubsubhubbub.appspot.com/")
	viper.SetDefault("hub.alwaysUseDefault", false)
	viper.SetDefault("hub.topicTemplate", "https://www.googleapis.com/activities/track?q=%s")
	viper.SetDefault("hub.timeout", "10s")
	viper.SetDefault("scheduler.renewSpec", "@daily")
	viper.SetDefault("scheduler.renewAtStartup", false)
}
