// File path: cmd/actionatlas/cmd_stats.go
package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/actionatlas/actionatlas/internal/analysis"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show analysis metrics for the knowledge base",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	base, _, err := loadBase(false)
	if err != nil {
		return err
	}
	report := analysis.Analyze(base, analysis.Options{
		MinPatternFrequency: cfg.Analysis.MinPatternFrequency,
		MaxPatternLength:    cfg.Analysis.MaxPatternLength,
	})

	fmt.Println(titleStyle.Render("Knowledge base overview"))
	fmt.Printf("  %-24s %d\n", "Actions", report.TotalActions)
	fmt.Printf("  %-24s %d\n", "Distinct combinations", report.TotalCombinations)
	fmt.Printf("  %-24s %d\n", "Isolated actions", len(report.Isolated))

	fmt.Println()
	fmt.Println(titleStyle.Render("Menu complexity"))
	fmt.Printf("  %-24s %d\n", "Menus", report.Menus.Menus)
	fmt.Printf("  %-24s %.1f\n", "Average items", report.Menus.AverageItems)
	fmt.Printf("  %-24s %d\n", "Max items", report.Menus.MaxItems)

	if len(report.Sequences) > 0 {
		fmt.Println()
		fmt.Println(titleStyle.Render("Top flow sequences"))
		fmt.Printf("  %s\n", headerStyle.Render(fmt.Sprintf("%-60s %5s", "sequence", "seen")))
		shown := min(len(report.Sequences), 10)
		for _, seq := range report.Sequences[:shown] {
			fmt.Printf("  %-60s %5d\n", strings.Join(seq.Actions, " → "), seq.Count)
		}
	}

	if len(report.Central) > 0 {
		fmt.Println()
		fmt.Println(titleStyle.Render("Most connected actions"))
		fmt.Printf("  %s\n", headerStyle.Render(fmt.Sprintf("%-60s %5s", "action", "edges")))
		for _, central := range report.Central {
			fmt.Printf("  %-60s %5d\n", central.Identifier, central.Degree)
		}
	}

	if len(report.Versions) > 0 {
		fmt.Println()
		fmt.Println(titleStyle.Render("Version distribution"))
		fmt.Printf("  %s\n", headerStyle.Render(fmt.Sprintf("%-24s %7s", "version", "actions")))
		versions := make([]string, 0, len(report.Versions))
		for version := range report.Versions {
			versions = append(versions, version)
		}
		sort.Strings(versions)
		for _, version := range versions {
			fmt.Printf("  %-24s %7d\n", version, len(report.Versions[version]))
		}
	}
	return nil
}
