// Command research dispatches queries to research providers from the shell.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/amityadav/deepresearch/internal/dispatch"
	"github.com/amityadav/deepresearch/internal/export"
	appfx "github.com/amityadav/deepresearch/internal/fx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "research",
	Short: "Query research providers and export the results",
	Long: `research sends a query to one provider (web search, encyclopedia,
LLM, web page or document) and prints the normalized text.

Providers are enabled by environment variables, see "research providers".`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !verbose {
			log.SetOutput(io.Discard)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log provider calls to stderr")
	rootCmd.AddCommand(queryCmd, extractCmd, diagramCmd, providersCmd)
}

// services are the pieces of the fx graph the commands need
type services struct {
	Dispatcher *dispatch.Dispatcher
	Exporter   *export.Exporter
}

// loadServices builds the dispatcher and exporter the same way the server does
func loadServices() (services, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var s services
	app := fx.New(
		appfx.ConfigModule,
		appfx.ProviderModule,
		appfx.ExportModule,
		fx.Populate(&s.Dispatcher, &s.Exporter),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		return services{}, fmt.Errorf("failed to initialize providers: %w", err)
	}
	return s, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
