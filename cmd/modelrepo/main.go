package main

import (
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/archicontribs/modelrepo/internal/cli"
)

func main() {
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	if err := cli.Execute(); err != nil {
		logger.Fatalf("Error: %s", err)
	}
}
