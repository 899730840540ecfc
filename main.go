package main

import (
	"fmt"
	"log"
	"os"

	"singleinclude/cmd"
	"singleinclude/pkg/logging"
	"singleinclude/pkg/version"

	"go.uber.org/zap"
)

func main() {
	if err := logging.Setup(false, version.AppName, version.Get().Version); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
	}

	err := cmd.Execute()
	if err != nil {
		logging.Logger.Error("singleinclude execution failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
	}

	logging.Sync()

	if err != nil {
		os.Exit(1)
	}
}
