package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"querybridge/internal/report"
	"querybridge/pkg/logging"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive translation session",
	Long:  "Reads queries from stdin and translates them. Commands: health, stats, report, reset, exit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl()
	},
}

func runRepl() error {
	logger := logging.DefaultLogger()
	defer logger.Sync()

	app, err := buildApp(logger)
	if err != nil {
		logger.Error("initialization failed", zap.Error(err))
		return err
	}
	defer app.Close()

	fmt.Println("QueryBridge interactive session")
	fmt.Println("Type a query to translate it, or: health, stats, report, reset, exit")

	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "exit", "quit":
			return scanner.Err()
		case "health":
			health := app.service.HealthCheck(ctx)
			fmt.Printf("Status: %s\n", health.Status)
			if health.TestTranslation != "" {
				fmt.Printf("Canary: %s (%.2fs)\n", health.TestTranslation, health.ResponseTime.Seconds())
			}
			if health.Error != "" {
				fmt.Printf("Error: %s\n", health.Error)
			}
		case "stats":
			printStats(app)
		case "report":
			fmt.Print(report.ExportText(app.service.Report(24)))
		case "reset":
			app.service.Reset()
			fmt.Println("Statistics reset.")
		default:
			translateLine(ctx, app, line)
		}
	}

	return scanner.Err()
}

func translateLine(ctx context.Context, app *app, text string) {
	result := app.service.ProcessQuery(ctx, text, "auto", "")

	if !result.Success {
		reason := "unknown error"
		if result.Error != nil {
			reason = result.Error.Message
		}
		fmt.Printf("Translation failed: %s (%.2fs)\n", reason, result.ProcessingTime.Seconds())
		return
	}

	fmt.Printf("Translation: %s\n", result.Translation)
	fmt.Printf("Source: %s -> %s", result.SourceLang, result.TargetLang)
	if result.FromCache {
		fmt.Print(" (cached)")
	}
	fmt.Println()
	fmt.Printf("Query type: %s\n", result.QueryType)
	if result.Evaluation != nil {
		fmt.Printf("Quality: %.2f/10 - %s\n", result.Evaluation.OverallScore, result.Evaluation.Feedback.Summary)
	}
}

func printStats(app *app) {
	stats := app.service.Statistics(context.Background())
	perf := stats.Performance

	fmt.Printf("Total requests: %d\n", perf.TotalRequests)
	fmt.Printf("Success rate: %.1f%%\n", perf.SuccessRate)
	fmt.Printf("Average response time: %.2fs\n", perf.AverageResponseTime)
	fmt.Printf("Cache hit rate: %.1f%%\n", perf.CacheHitRate)
	fmt.Printf("Cache entries: %d active / %d total\n", stats.Cache.ActiveEntries, stats.Cache.TotalEntries)

	if len(perf.LanguagesProcessed) > 0 {
		fmt.Print("Languages:")
		for lang, count := range perf.LanguagesProcessed {
			fmt.Printf(" %s=%d", lang, count)
		}
		fmt.Println()
	}
	if len(perf.ErrorBreakdown) > 0 {
		fmt.Print("Errors:")
		for kind, count := range perf.ErrorBreakdown {
			fmt.Printf(" %s=%d", kind, count)
		}
		fmt.Println()
	}
}
