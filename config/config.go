package config

import (
	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DatabaseMaxIdleConns int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DatabaseAutoMigrate  bool   `mapstructure:"DB_AUTO_MIGRATE"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	StaticDir            string `mapstructure:"STATIC_DIR"`
}

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_AUTO_MIGRATE",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT",
	"CORS_ALLOW_ORIGINS", "STATIC_DIR",
}

var ConfigInstance Config

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	for _, env := range envVars {
		if err := v.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := v.IsSet("SERVER_PORT") && v.IsSet("DB_HOST")
	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		v.SetConfigFile(".env.local")
		if err := v.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"port", config.ServerPort,
		"dbHost", config.DatabaseHost,
		"dbName", config.DatabaseName,
	)
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

// EventsEnabled reports whether a valkey endpoint was configured for change events.
func (c Config) EventsEnabled() bool {
	return c.DatabaseCacheAddress != "" && c.DatabaseCachePort > 0
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GENERAL_VERSION", "dev")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("SERVER_PORT", 3000)
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_NAME", "game_critic")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("STATIC_DIR", "./public")
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.DatabaseMaxOpenConns <= 0 {
		return log.Error(
			"Fatal error: DB_MAX_OPEN_CONNS must be positive",
			"maxOpenConns", config.DatabaseMaxOpenConns,
		)
	}

	if (config.DatabaseCacheAddress == "") != (config.DatabaseCachePort == 0) {
		return log.ErrMsg(
			"Fatal error: DB_CACHE_ADDRESS and DB_CACHE_PORT must be set together",
		)
	}

	ConfigInstance = config
	return nil
}
