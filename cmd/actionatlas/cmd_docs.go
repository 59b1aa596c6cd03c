// File path: cmd/actionatlas/cmd_docs.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/actionatlas/actionatlas/internal/docs"
	"github.com/actionatlas/actionatlas/internal/llm"
)

var (
	docsOutput string
	docsEnrich bool
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Regenerate the markdown documentation",
	Long: `Renders the owned documentation sections from the knowledge base and
merges them into the existing document: foreign sections survive, owned
sections are replaced.`,
	Args: cobra.NoArgs,
	RunE: runDocs,
}

func init() {
	docsCmd.Flags().StringVar(&docsOutput, "output", "", "documentation path override")
	docsCmd.Flags().BoolVar(&docsEnrich, "enrich", false, "add model-written action descriptions")
	rootCmd.AddCommand(docsCmd)
}

func runDocs(cmd *cobra.Command, args []string) error {
	base, _, err := loadBase(false)
	if err != nil {
		return err
	}
	target := docsOutput
	if target == "" {
		target = cfg.DocPath
	}

	var opts []docs.RenderOption
	if docsEnrich {
		opts = append(opts, docs.WithDescriber(llm.NewProvider(cfg.OpenAI)))
	}
	result, err := docs.Generate(cmd.Context(), base, target, opts...)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", successStyle.Render("✓"), target)
	if len(result.Preserved) > 0 {
		fmt.Printf("  preserved: %d foreign section(s)\n", len(result.Preserved))
	}
	if len(result.Replaced) > 0 {
		fmt.Printf("  replaced: %d owned section(s)\n", len(result.Replaced))
	}
	if result.Degradation != nil {
		fmt.Printf("  %s prior content discarded: %s\n", warnStyle.Render("!"), result.Degradation.Reason)
	}
	return nil
}
