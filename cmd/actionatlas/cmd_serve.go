// File path: cmd/actionatlas/cmd_serve.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/actionatlas/actionatlas/internal/api"
	"github.com/actionatlas/actionatlas/internal/common"
	"github.com/actionatlas/actionatlas/internal/llm"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address override (host:port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
	}
	base, st, err := loadBase(false)
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

	cat := openCatalog(ctx)
	if cat != nil {
		defer cat.Close()
	}
	srv, err := api.NewServer(cfg, base, st, cat, llm.NewProvider(cfg.OpenAI))
	if err != nil {
		return err
	}
	fmt.Printf("%s listening on %s\n", successStyle.Render("✓"), cfg.ListenAddr)
	return srv.Run(ctx)
}
