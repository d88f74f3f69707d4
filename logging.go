package main

import (
	"os"
	"path/filepath"

	"bdecode/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logFile *os.File

func initLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr}

	var writer zerolog.LevelWriter = zerolog.MultiLevelWriter(consoleWriter)
	if logFilePath := config.Main.LogFile; logFilePath != "" {
		// Ensure the directory exists for the log file if it contains a path
		logDir := filepath.Dir(logFilePath)
		if logDir != "." {
			if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
				println("Error creating log directory: " + err.Error())
			}
		}

		var err error
		logFile, err = os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			println("Error opening log file: " + err.Error())
			logFile = nil
		} else {
			writer = zerolog.MultiLevelWriter(consoleWriter, logFile)
		}
	}
	zerolog.SetGlobalLevel(config.Main.LogLevel)
	logger := zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = logger

	log.Debug().Msgf("bdecode v%s", VERSION)
}

// shutdownLogging closes the log file if it's open.
func shutdownLogging() {
	if logFile != nil {
		err := logFile.Close()
		if err != nil {
			println("Error closing log file: " + err.Error())
		}
		logFile = nil
	}
}
