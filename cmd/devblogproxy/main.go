package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"DevBlogProxy/internal/app"
	"DevBlogProxy/internal/config"
	"DevBlogProxy/internal/logging"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:           "devblogproxy",
	Short:         "Dev.to article proxy",
	Long:          "devblogproxy serves Dev.to article listings with pagination estimates, article details and an id/slug index.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP proxy",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (overrides DEVBLOG_CONFIG)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mappingCmd)
}

func loadConfig() config.Config {
	if flagConfig != "" {
		return config.LoadFile(flagConfig)
	}
	return config.Load()
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return application.Run(ctx)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logging.New("error", "text").Error("devblogproxy stopped", "error", err)
		os.Exit(1)
	}
}
