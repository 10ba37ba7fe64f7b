package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/techlog/postguard/internal/domain/post"
	"github.com/techlog/postguard/internal/transport/dto"
	duplicateuc "github.com/techlog/postguard/internal/usecase/duplicate"
	publishuc "github.com/techlog/postguard/internal/usecase/publish"
)

func newAddCmd(g *globalFlags) *cobra.Command {
	var (
		file  string
		check bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Commit an accepted post to the content index",
		Long: `Append a post record (JSON from --file or stdin) to the content index.

add does not check for duplicates unless --check is given; with --check a
duplicate verdict is printed and the post is not added (exit status 2).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var p dto.Post
			if err := readInput(cmd.InOrStdin(), file, &p); err != nil {
				return err
			}
			rec, err := p.ToDomain()
			if err != nil {
				return fmt.Errorf("invalid post: %w", err)
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

			ctx := cmd.Context()
			store, closeStore, err := openIndex(ctx, &cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			if check {
				cand, err := post.NewCandidate(string(rec.Kind()), rec.Title(), rec.Keywords(), rec.ArxivID(), rec.Hash())
				if err != nil {
					return fmt.Errorf("invalid post: %w", err)
				}
				v, err := duplicateuc.New(store).Check(ctx, &cand)
				if err != nil {
					return fmt.Errorf("checking post: %w", err)
				}
				if v.IsDuplicate() {
					if err := printJSON(cmd.OutOrStdout(), dto.VerdictFromDomain(&v)); err != nil {
						return err
					}
					return &exitError{code: exitCodeDuplicate}
				}
			}

			svc := publishuc.New(store)
			events, err := openEvents(&cfg, logger)
			if err != nil {
				return err
			}
			if events != nil {
				defer func() {
					if err := events.Close(); err != nil {
						logger.Warn("Failed to close event publisher", zap.Error(err))
					}
				}()
				svc = svc.WithNotifier(events)
			}

			x, err := svc.Add(ctx, rec)
			if err != nil {
				return fmt.Errorf("adding post: %w", err)
			}
			meta := x.Metadata()
			return printJSON(cmd.OutOrStdout(), dto.AddResult{TotalPosts: meta.TotalPosts, LastUpdated: meta.LastUpdated})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "post JSON file (default: stdin)")
	cmd.Flags().BoolVar(&check, "check", false, "refuse the post when it is a duplicate")
	return cmd
}
