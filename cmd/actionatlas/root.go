// File path: cmd/actionatlas/root.go
package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/actionatlas/actionatlas/internal/api"
	"github.com/actionatlas/actionatlas/internal/catalog"
	"github.com/actionatlas/actionatlas/internal/common"
	"github.com/actionatlas/actionatlas/internal/config"
	"github.com/actionatlas/actionatlas/internal/kb"
	"github.com/actionatlas/actionatlas/internal/store"
)

// version is stamped at build time via -ldflags.
var version = "dev"

var (
	flagConfig   string
	flagSnapshot string
	flagLogLevel string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "actionatlas",
	Short: "Knowledge base and documentation tooling for Apple Shortcuts exports",
	Long: `actionatlas ingests exported Shortcuts workflow JSON into a persistent
knowledge base, mines parameter and flow patterns from it, and projects
the result into maintained markdown documentation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagLogLevel != "" {
			common.SetLevel(flagLogLevel)
		}
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagSnapshot != "" {
			loaded.SnapshotPath = flagSnapshot
		}
		cfg = loaded
		api.Version = version
		return nil
	},
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "configuration file (also ATLAS_CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&flagSnapshot, "snapshot", "", "snapshot path override")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
}

// newStore builds the snapshot store with the configured backup policy.
func newStore() *store.Store {
	return store.New(cfg.SnapshotPath, store.WithBackups(cfg.BackupDir, cfg.BackupCount))
}

// loadBase hydrates the base from the snapshot. An absent snapshot is a
// fresh start; an unreadable one degrades to empty state with a warning
// unless strict is set.
func loadBase(strict bool) (*kb.Base, *store.Store, error) {
	st := newStore()
	base, err := st.Load()
	if err != nil {
		if strict {
			return nil, nil, err
		}
		common.Logger().Warn("atlas: snapshot unusable, starting from empty state",
			"path", cfg.SnapshotPath, "error", err)
		base = kb.New()
	}
	return base, st, nil
}

// openCatalog connects to the configured catalog. No DSN means no catalog,
// and a failed connection is skipped with a warning so offline work keeps
// going.
func openCatalog(ctx context.Context) *catalog.Store {
	if strings.TrimSpace(cfg.CatalogDSN) == "" {
		return nil
	}
	cat, err := catalog.Open(ctx, cfg.CatalogDSN)
	if err != nil {
		common.Logger().Warn("atlas: catalog unavailable", "error", err)
		return nil
	}
	return cat
}
