package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/techlog/postguard/internal/transport/dto"
	duplicateuc "github.com/techlog/postguard/internal/usecase/duplicate"
)

type checkFlags struct {
	file     string
	kind     string
	title    string
	keywords []string
	arxivID  string
}

func newCheckCmd(g *globalFlags) *cobra.Command {
	f := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a candidate post against the content index",
		Long: `Classify a candidate post as duplicate, near-duplicate or unique and print the verdict as JSON.

The candidate is read as JSON from --file (or stdin), or built from --type/--title/--keywords.
Exit status is 0 when the candidate may be published and 2 when it is a duplicate.`,
		Example: `  postguard check --type paper --title "Attention Is All You Need" --keywords attention,transformer --arxiv 1706.03762
  cat candidate.json | postguard check`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var c dto.Candidate
			if f.title != "" {
				c = dto.Candidate{Type: f.kind, Title: f.title, Keywords: splitKeywords(f.keywords), ArxivID: f.arxivID}
			} else if err := readInput(cmd.InOrStdin(), f.file, &c); err != nil {
				return err
			}

			cand, err := c.ToDomain()
			if err != nil {
				return fmt.Errorf("invalid candidate: %w", err)
			}

			cfg, err := g.load()
			if err != nil {
				return err
			}
			logger, err := g.cliLogger(&cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			store, closeStore, err := openIndex(cmd.Context(), &cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			v, err := duplicateuc.New(store).Check(cmd.Context(), &cand)
			if err != nil {
				return fmt.Errorf("checking candidate: %w", err)
			}
			if err := printJSON(cmd.OutOrStdout(), dto.VerdictFromDomain(&v)); err != nil {
				return err
			}
			if v.IsDuplicate() {
				return &exitError{code: exitCodeDuplicate}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.file, "file", "f", "", "candidate JSON file (default: stdin)")
	cmd.Flags().StringVar(&f.kind, "type", "fundamental", "post type: fundamental or paper")
	cmd.Flags().StringVar(&f.title, "title", "", "candidate title")
	cmd.Flags().StringSliceVar(&f.keywords, "keywords", nil, "comma-separated keywords")
	cmd.Flags().StringVar(&f.arxivID, "arxiv", "", "ArXiv id (papers only)")
	return cmd
}

func splitKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
