package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/techlog/postguard/internal/domain/post"
	"github.com/techlog/postguard/internal/transport/dto"
	publishuc "github.com/techlog/postguard/internal/usecase/publish"
)

func newStatsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show content index statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, done, err := g.publishService(cmd)
			if err != nil {
				return err
			}
			defer done()

			st, err := svc.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("reading stats: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), dto.Stats{
				Fundamentals: st.Fundamentals,
				Papers:       st.Papers,
				TotalPosts:   st.TotalPosts,
				Keywords:     st.Keywords,
				Topics:       st.Topics,
				LastUpdated:  st.LastUpdated,
				Consistent:   st.Consistent,
			})
		},
	}
}

func newListCmd(g *globalFlags) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed posts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, done, err := g.publishService(cmd)
			if err != nil {
				return err
			}
			defer done()

			records, err := svc.List(cmd.Context(), post.ParseKind(kind))
			if err != nil {
				return fmt.Errorf("listing posts: %w", err)
			}
			items := make([]dto.Post, len(records))
			for i := range records {
				items[i] = dto.PostFromDomain(&records[i])
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().StringVar(&kind, "type", "", "only list posts of this type (fundamental or paper)")
	return cmd
}

// publishService opens the index for read-only commands.
func (g *globalFlags) publishService(cmd *cobra.Command) (*publishuc.Service, func(), error) {
	cfg, err := g.load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := g.cliLogger(&cfg)
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := openIndex(cmd.Context(), &cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return publishuc.New(store), func() {
		closeStore()
		_ = logger.Sync()
	}, nil
}
