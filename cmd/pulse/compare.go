package main

import (
	"io"

	"github.com/Veraticus/sentiment-pulse/internal/cli"
	"github.com/spf13/cobra"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare an old and a new set of mentions",
		Long: `Compare two sets of mentions and report the change in volume, sentiment,
platforms, and countries, the mentions that are new, and alerts raised by the
new set.

--old and --new each take a file path or a snapshot name or ID.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			oldRef, _ := cmd.Flags().GetString("old")
			newRef, _ := cmd.Flags().GetString("new")

			oldMentions, err := s.resolve(ctx, oldRef)
			if err != nil {
				return err
			}
			newMentions, err := s.resolve(ctx, newRef)
			if err != nil {
				return err
			}

			dashboard, err := s.engine.Dashboard(ctx, s.filter(oldMentions), s.filter(newMentions))
			if err != nil {
				return err
			}

			return s.output(cmd.OutOrStdout(), dashboard, func(w io.Writer) error {
				return cli.RenderDashboard(w, dashboard)
			})
		},
	}

	cmd.Flags().String("old", "", "baseline file or snapshot")
	cmd.Flags().String("new", "", "current file or snapshot")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")

	return cmd
}
