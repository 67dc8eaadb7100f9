package logger

import (
	"os"

	"go.uber.org/zap"
)

// New builds the process logger. Development mode when APP_ENV != production.
func New() *zap.Logger {
	var logger *zap.Logger
	var err error

	if os.Getenv("APP_ENV") == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}

	return logger
}
