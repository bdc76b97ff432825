package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/inamate/whiteboard/internal/config"
)

// defaults seeds flag defaults from the environment, the same variables
// the server reads.
var defaults = loadDefaults()

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "whiteboard",
	Short: "Canvas selection engine tools",
	Long: `whiteboard drives the canvas selection engine outside a browser.
It replays scripted pointer gestures into PNG snapshots and runs an
interactive board in the terminal.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := defaults.Level()
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine activity to stderr")
}

func loadDefaults() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring environment: %v\n", err)
		return &config.Config{
			LogLevel:     "info",
			CanvasWidth:  800,
			CanvasHeight: 600,
			PixelRatio:   1,
			HandleSize:   10,
		}
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
