package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/thesavant42/waybackpulse/internal/api"
	"github.com/thesavant42/waybackpulse/internal/config"
)

var (
	cfg    config.Config
	logger *log.Logger

	baseURLFlag string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:           "waybackpulse",
	Short:         "waybackpulse charts how often the Wayback Machine captured a set of sites.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if baseURLFlag != "" {
			loaded.BaseURL = baseURLFlag
		}
		if verboseFlag {
			loaded.LogLevel = log.DebugLevel
		}
		cfg = loaded
		logger = cfg.NewLogger()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "CDX server base URL (overrides "+config.EnvBaseURL+")")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
}

// ExecuteContext runs the root command and exits non-zero on failure
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newClient() *api.WaybackClient {
	return api.NewWaybackClient(logger, api.ClientOptions{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	})
}
