package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"querybridge/pkg/logging"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run a live canary translation and exit",
	Long:  "Performs a test translation against the configured model and exits non-zero if it fails.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHealth()
	},
}

func runHealth() error {
	logger := logging.DefaultLogger()
	defer logger.Sync()

	app, err := buildApp(logger)
	if err != nil {
		logger.Error("initialization failed", zap.Error(err))
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	health := app.service.HealthCheck(ctx)

	out, _ := json.MarshalIndent(health, "", "  ")
	fmt.Println(string(out))

	if health.Status != "healthy" {
		os.Exit(1)
	}
	return nil
}
