// File path: cmd/actionatlas/cmd_export.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/actionatlas/actionatlas/internal/analysis"
	"github.com/actionatlas/actionatlas/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the knowledge base as a machine-readable payload",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "payload format: json or yaml")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "destination file (default under the output directory)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	base, _, err := loadBase(false)
	if err != nil {
		return err
	}
	report := analysis.Analyze(base, analysis.Options{
		MinPatternFrequency: cfg.Analysis.MinPatternFrequency,
		MaxPatternLength:    cfg.Analysis.MaxPatternLength,
	})
	data, err := export.Data(base, report, exportFormat)
	if err != nil {
		return err
	}

	target := exportOutput
	if target == "" {
		name := "actionatlas_export." + strings.ToLower(strings.TrimSpace(exportFormat))
		target = filepath.Join(cfg.OutputDir, name)
	}
	if dir := filepath.Dir(target); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Printf("%s %s (%d bytes)\n", successStyle.Render("✓"), target, len(data))
	return nil
}
