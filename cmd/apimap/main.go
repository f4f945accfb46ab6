package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/apimap/internal/config"
	"github.com/MrSnakeDoc/apimap/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "apimap",
	Short: "apimap - endpoint mapping, response shaping and integration probes",
	Long: `apimap maps the dashboards' logical resource paths to backend URLs,
reshapes backend JSON into view models and probes a live backend.

Configuration is read from the environment (and a .env file when present).

Examples:
  # Serve the HTTP API
  apimap serve

  # Probe a backend once and fail on errors
  VITE_API_URL=http://localhost:8000/api apimap probe

  # See where a logical path goes
  apimap resolve admin/smart-bins users/42`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	// Global flags override their environment counterparts.
	apiURL       string
	endpointFile string
	logLevel     string
	format       string
)

// errProbeFailed marks a finished probe run with a failing result.
var errProbeFailed = errors.New("integration probes failed")

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (overrides VITE_API_URL)")
	rootCmd.PersistentFlags().StringVar(&endpointFile, "endpoints", "", "Endpoint overrides YAML file (overrides APIMAP_ENDPOINT_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "table", "Output format: table|json|yaml")
}

// loadConfig reads the environment and applies the global flags.
func loadConfig() *config.Config {
	cfg := config.Load()
	if apiURL != "" {
		cfg.APIURL = apiURL
		cfg.APIURLSource = "--api-url"
	}
	if endpointFile != "" {
		cfg.EndpointFile = endpointFile
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg
}

func newLogger(cfg *config.Config) logger.Logger {
	return logger.New(cfg.LogLevel, cfg.PrettyLog)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errProbeFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
