package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/spatial-dedupe/internal/config"
	"github.com/spatial-dedupe/internal/match"
	"github.com/spatial-dedupe/internal/report"
	"github.com/spatial-dedupe/internal/runlog"
	"github.com/spatial-dedupe/internal/source"
	"github.com/spatial-dedupe/internal/web"
)

var configPath string

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	rootCmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Spatial duplicate detection",
		Long:  `Finds likely duplicate records by scoring every spatially close pair with fuzzy text similarity ratios`,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to TOML config file (default dedupe.toml when present)")

	rootCmd.AddCommand(createRunCmd())
	rootCmd.AddCommand(createPingCmd())
	rootCmd.AddCommand(createAnalyzeCmd())
	rootCmd.AddCommand(createServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	return cfg
}

func openRunLog(cfg *config.Config, name string) *runlog.Logger {
	level, err := runlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	logger, err := runlog.New(cfg.Log.Folder, name, level)
	if err != nil {
		log.Fatalf("Failed to open run log: %v", err)
	}
	return logger
}

// createRunCmd creates the duplicate detection run command
func createRunCmd() *cobra.Command {
	var distance string
	var maxRecords int
	var reportPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run duplicate detection",
		Long:  `Scores every spatially close pair of records with the four fuzzy similarity ratios and streams the results to a CSV report`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if distance != "" {
				cfg.Match.SearchDistance = distance
			}
			if cmd.Flags().Changed("max-records") {
				cfg.Match.MaxRecords = maxRecords
			}
			if reportPath == "" {
				reportPath = cfg.ReportPath()
			}

			logger := openRunLog(cfg, cfg.Log.Name)
			defer logger.Close()

			summary, err := runPipeline(cfg, logger, reportPath)
			if err != nil {
				fail(logger, err)
			}

			fmt.Printf("\n=== Run Results ===\n")
			fmt.Printf("Report: %s\n", reportPath)
			fmt.Printf("Input Records: %d\n", summary.InputRecords)
			fmt.Printf("Records Processed: %d\n", summary.RecordsProcessed)
			fmt.Printf("Comparisons Made: %d\n", summary.ComparisonsMade)
			fmt.Printf("Comparisons Skipped: %d\n", summary.ComparisonsSkipped)
			fmt.Printf("Duration: %s\n", summary.Duration)
		},
	}

	cmd.Flags().StringVar(&distance, "distance", "", `Search distance, e.g. "3600 Meters" (defaults to the configured distance)`)
	cmd.Flags().IntVar(&maxRecords, "max-records", 0, "Maximum number of records to process, 0 processes everything")
	cmd.Flags().StringVar(&reportPath, "report", "", "Report file path (defaults to the configured folder and filename)")

	return cmd
}

// runPipeline wires the source, engine and report writer together. A panic
// anywhere in the pipeline is logged with a stack excerpt and surfaces as
// an error.
func runPipeline(cfg *config.Config, logger *runlog.Logger, reportPath string) (summary *match.Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("unexpected failure: %v", r)
			logger.Errorf("stack excerpt: %s", stackExcerpt())
			summary = nil
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	radius, err := source.ParseDistance(cfg.Match.SearchDistance)
	if err != nil {
		return nil, err
	}

	src, err := source.Open(cfg.Source)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	writer, err := report.NewWriter(reportPath)
	if err != nil {
		return nil, err
	}

	engine := match.NewEngine(src, logger, match.Options{
		Radius:      radius,
		RadiusLabel: cfg.Match.SearchDistance,
		MaxRecords:  cfg.Match.MaxRecords,
	})
	summary, err = engine.Run(context.Background(), writer)
	if err != nil {
		writer.Close()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	logger.Infof("report written to %s with %d rows", reportPath, writer.Rows())
	return summary, nil
}

// fail logs err through the run log with its failure class, then exits.
func fail(logger *runlog.Logger, err error) {
	switch {
	case source.IsDataSourceError(err):
		logger.Errorf("data source failure: %v", err)
	case report.IsOutputWriteError(err):
		logger.Errorf("report write failure: %v", err)
	default:
		logger.Errorf("failure: %v", err)
	}
	logger.Close()
	log.Fatalf("Run failed: %v", err)
}

// stackExcerpt returns the leading frames of the current stack on one line.
func stackExcerpt() string {
	lines := strings.Split(string(debug.Stack()), "\n")
	if len(lines) > 12 {
		lines = lines[:12]
	}
	return strings.Join(lines, " | ")
}

// createPingCmd creates a command to test data source connectivity
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test data source connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()

			src, err := source.Open(cfg.Source)
			if err != nil {
				log.Fatalf("Failed to open data source: %v", err)
			}
			defer src.Close()

			count, err := src.Count(context.Background())
			if err != nil {
				log.Fatalf("Failed to count records: %v", err)
			}

			fmt.Println("Data source connection successful!")
			fmt.Printf("Records in %s: %d\n", cfg.Source.Table, count)
		},
	}
}

// createAnalyzeCmd creates the source analysis command
func createAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Summarise the source table",
		Long:  `Reports how many records carry coordinates and text, and the breakdown by class`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()

			src, err := source.Open(cfg.Source)
			if err != nil {
				log.Fatalf("Failed to open data source: %v", err)
			}
			defer src.Close()

			stats, err := src.Stats(context.Background())
			if err != nil {
				log.Fatalf("Failed to analyze source: %v", err)
			}

			fmt.Printf("\n=== Source Analysis ===\n")
			fmt.Printf("Total Records: %d\n", stats.Total)
			fmt.Printf("With Coordinates: %d\n", stats.WithCoords)
			fmt.Printf("Missing Coordinates: %d\n", stats.MissingCoords)
			fmt.Printf("With Text: %d\n", stats.WithText)
			fmt.Printf("Missing Text: %d\n", stats.MissingText)

			if len(stats.Classes) > 0 {
				classes := make([]string, 0, len(stats.Classes))
				for class := range stats.Classes {
					classes = append(classes, class)
				}
				sort.Strings(classes)

				fmt.Printf("\nRecords by class:\n")
				for _, class := range classes {
					label := class
					if label == "" {
						label = "(none)"
					}
					fmt.Printf("  %-24s %d\n", label, stats.Classes[class])
				}
			}
		},
	}
}

// createServeCmd creates the report API server command
func createServeCmd() *cobra.Command {
	var host string
	var port int
	var reportPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a finished report over HTTP",
		Long:  `Loads a comparison report and serves it as a read-only JSON API for review tooling`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if host != "" {
				cfg.Web.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Web.Port = port
			}
			if reportPath == "" {
				reportPath = cfg.ReportPath()
			}

			// A separate log name keeps a serve session from truncating
			// the run log.
			logger := openRunLog(cfg, cfg.Log.Name+"_serve")
			defer logger.Close()

			server, err := web.NewServer(cfg.Web, reportPath, logger)
			if err != nil {
				fail(logger, err)
			}
			if err := server.Start(); err != nil {
				fail(logger, err)
			}
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Bind host (defaults to the configured host)")
	cmd.Flags().IntVar(&port, "port", 0, "Bind port (defaults to the configured port)")
	cmd.Flags().StringVar(&reportPath, "report", "", "Report file to serve (defaults to the configured path)")

	return cmd
}
