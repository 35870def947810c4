package main

import (
	"fmt"
	"io"

	"github.com/Veraticus/sentiment-pulse/internal/aggregate"
	"github.com/Veraticus/sentiment-pulse/internal/cli"
	"github.com/Veraticus/sentiment-pulse/internal/model"
	"github.com/spf13/cobra"
)

func overviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Summarize mentions by country, platform, source type, and day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			mentions, err := s.loadInput(cmd)
			if err != nil {
				return err
			}

			overview, err := s.engine.Overview(cmd.Context(), mentions)
			if err != nil {
				return err
			}

			return s.output(cmd.OutOrStdout(), overview, func(w io.Writer) error {
				return cli.RenderOverview(w, overview)
			})
		},
	}

	addInputFlags(cmd)
	return cmd
}

func aggregateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Group mentions along one dimension",
		Long: fmt.Sprintf(`Group mentions and report sentiment, engagement, and taxonomy counts per group.

Dimensions: %v.
Groups below aggregate.min_count are dropped and groups beyond aggregate.top_n
are merged into "Other". Day groups are never dropped or merged.`, aggregate.Dimensions()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			by, _ := cmd.Flags().GetString("by")
			dimension := aggregate.Dimension(by)
			if _, err := aggregate.KeyFor(dimension); err != nil {
				return err
			}

			mentions, err := s.loadInput(cmd)
			if err != nil {
				return err
			}

			rows, err := s.engine.Aggregate(mentions, dimension)
			if err != nil {
				return err
			}

			return s.output(cmd.OutOrStdout(), rows, func(w io.Writer) error {
				return cli.RenderAggregate(w, by, rows)
			})
		},
	}

	addInputFlags(cmd)
	cmd.Flags().StringP("by", "b", string(aggregate.DimensionCountry), "dimension to group by")

	return cmd
}

func alertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Find mentions with intensely negative sentiment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			mentions, err := s.loadInput(cmd)
			if err != nil {
				return err
			}

			alerts := s.engine.Alerts(mentions)
			if alerts == nil {
				alerts = []model.Alert{}
			}

			return s.output(cmd.OutOrStdout(), alerts, func(w io.Writer) error {
				return cli.RenderAlerts(w, alerts)
			})
		},
	}

	addInputFlags(cmd)
	return cmd
}
