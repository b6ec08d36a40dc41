package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/moonpull/moonpull-web/internal/backend"
	"github.com/moonpull/moonpull-web/internal/session"
)

var (
	cfg    *Config
	client *backend.Client
	holder *session.Holder
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "moonpull",
		Short: "CLI client for the Moonpull mentoring platform",
		Long: `moonpull signs in to a Moonpull server and opens member-only pages.

The session token is kept in a token file. Its presence is what marks the
CLI as signed in; the server decides whether the token is still valid.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A token given by flag or env counts as present without a file
			var marker session.Marker = session.FileMarker{Path: cfg.TokenFile}
			if cfg.Token != "" {
				marker = session.MarkerFunc(func() bool { return true })
			}

			if err := cfg.LoadToken(); err != nil {
				return err
			}

			client = backend.New(cfg.ServerURL, cfg.Token)
			holder = session.NewHolder(client, newLogger(cmd))
			holder.Bootstrap(marker)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: MOONPULL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Session token (env: MOONPULL_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: MOONPULL_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newJoinCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newMeCmd())
	rootCmd.AddCommand(newOpenCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
