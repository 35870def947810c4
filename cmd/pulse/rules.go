package main

import (
	"io"

	"github.com/Veraticus/sentiment-pulse/internal/cli"
	"github.com/Veraticus/sentiment-pulse/internal/rules"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the rule set used for classification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			registry := s.engine.Registry()
			payload := map[string]any{"version": registry.Version()}
			for _, taxonomy := range rules.Taxonomies() {
				payload[string(taxonomy)] = registry.Categories(taxonomy)
			}

			return s.output(cmd.OutOrStdout(), payload, func(w io.Writer) error {
				return cli.RenderRules(w, registry)
			})
		},
	}
}
