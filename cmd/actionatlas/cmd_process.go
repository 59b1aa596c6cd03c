// File path: cmd/actionatlas/cmd_process.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/actionatlas/actionatlas/internal/common"
	"github.com/actionatlas/actionatlas/internal/docs"
	"github.com/actionatlas/actionatlas/internal/ingest"
)

var (
	processRecursive bool
	processNoDocs    bool
	processStrict    bool
)

var processCmd = &cobra.Command{
	Use:   "process <path>...",
	Short: "Ingest workflow export files into the knowledge base",
	Long: `Reads the given workflow JSON files (directories expand to their *.json
children) into the knowledge base, saves the snapshot, and regenerates the
documentation. Files that fail to parse are reported and skipped; the rest
of the batch still lands.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&processRecursive, "recursive", false, "walk directories recursively")
	processCmd.Flags().BoolVar(&processNoDocs, "no-docs", false, "skip documentation regeneration")
	processCmd.Flags().BoolVar(&processStrict, "strict", false, "exit non-zero when any file fails")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	files, err := ingest.ExpandPaths(args, processRecursive)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no workflow files found under %s", strings.Join(args, ", "))
	}

	base, st, err := loadBase(processStrict)
	if err != nil {
		return err
	}
	sum, err := ingest.NewDriver(base).Run(ctx, files)
	if err != nil {
		return err
	}
	if err := st.Save(base); err != nil {
		return err
	}
	if cat := openCatalog(ctx); cat != nil {
		defer cat.Close()
		if err := cat.Sync(ctx, base); err != nil {
			common.Logger().Warn("atlas: catalog sync failed", "error", err)
		} else if err := cat.RecordRun(ctx, sum); err != nil {
			common.Logger().Warn("atlas: run not recorded", "error", err)
		}
	}
	if !processNoDocs {
		if _, err := docs.Generate(ctx, base, cfg.DocPath); err != nil {
			return err
		}
	}

	printSummary(sum)
	if processStrict && sum.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", sum.Failed, sum.Processed+sum.Failed)
	}
	return nil
}

func printSummary(sum *ingest.Summary) {
	fmt.Println(titleStyle.Render("Ingestion summary"))
	fmt.Printf("  %s %d file(s) processed\n", successStyle.Render("✓"), sum.Processed)
	if sum.Failed > 0 {
		fmt.Printf("  %s %d file(s) failed\n", errorStyle.Render("✗"), sum.Failed)
	}
	if len(sum.NewIdentifiers) > 0 {
		fmt.Printf("  %s %d new action(s)\n", successStyle.Render("+"), len(sum.NewIdentifiers))
		for _, id := range sum.NewIdentifiers {
			fmt.Printf("      %s\n", mutedStyle.Render(id))
		}
	}
	for _, fileErr := range sum.Errors {
		fmt.Printf("  %s %s: %v\n", errorStyle.Render("✗"), fileErr.Path, fileErr.Err)
	}
	fmt.Printf("  run %s in %s\n", mutedStyle.Render(sum.RunID), sum.Finished.Sub(sum.Started).Round(time.Millisecond))
}
