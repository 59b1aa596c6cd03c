// File path: cmd/actionatlas/cmd_search.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/actionatlas/actionatlas/internal/search"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Find actions by lexical relevance",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 5, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	base, _, err := loadBase(false)
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")
	results := search.NewIndex(base).Search(query, searchLimit)
	if len(results) == 0 {
		fmt.Println(mutedStyle.Render("no matches"))
		return nil
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Results for %q", query)))
	for i, res := range results {
		fmt.Printf("  %d. %s %s\n", i+1, headerStyle.Render(res.DisplayName),
			mutedStyle.Render(fmt.Sprintf("(%s, score %.3f)", res.Identifier, res.Score)))
	}
	return nil
}
