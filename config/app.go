package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type AppConfig struct {
	LogFile        string
	LogLevel       zerolog.Level
	MaxDepth       int
	StrictKeyOrder bool
	DB             *DBConfig
}

func NewAppConfig() *AppConfig {
	// empty means log to stderr only
	logFile := os.Getenv("LOG_FILE")

	logLevel, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}

	maxDepth := envInt("MAX_DEPTH", 512)
	if maxDepth <= 0 {
		maxDepth = 512
	}

	dbConf := NewDBConfig()

	return &AppConfig{
		LogFile:        logFile,
		LogLevel:       logLevel,
		MaxDepth:       maxDepth,
		StrictKeyOrder: envBool("STRICT_KEY_ORDER", false),
		DB:             dbConf,
	}
}

func envInt(name string, def int) int {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return def
	}
	return v
}

func envBool(name string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(name))
	if err != nil {
		return def
	}
	return v
}

var Main *AppConfig

func init() {
	_ = godotenv.Load()
	Main = NewAppConfig()
}
