// File path: cmd/actionatlas/main.go
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/actionatlas/actionatlas/internal/common"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("atlas: .env file not loaded", "error", err)
	} else {
		logger.Info("atlas: environment loaded from .env")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}
