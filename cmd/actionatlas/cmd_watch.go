// File path: cmd/actionatlas/cmd_watch.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/actionatlas/actionatlas/internal/common"
	"github.com/actionatlas/actionatlas/internal/watch"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <dir>...",
	Short: "Watch directories and ingest workflow exports as they appear",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet interval before a batch runs (default from config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchDebounce > 0 {
		cfg.Watch.Debounce = watchDebounce
	}
	base, st, err := loadBase(false)
	if err != nil {
		return err
	}
	watcher, err := watch.New(cfg, base, st, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		common.Logger().Info("atlas: shutdown signal received")
		cancel()
	}()

	fmt.Printf("%s watching %s (debounce %s)\n", successStyle.Render("✓"),
		strings.Join(args, ", "), cfg.Watch.Debounce)
	return watcher.Run(ctx)
}
