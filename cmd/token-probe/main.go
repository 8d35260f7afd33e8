package main

import (
	"os"

	"bitcoin-auth-probe/probe"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func main() {
	godotenv.Load()

	logger.SetOutput(os.Stderr)
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	probe.New(probe.WithLogger(logger)).Run()
}
