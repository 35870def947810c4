package main

import (
	"fmt"
	"io"

	"github.com/Veraticus/sentiment-pulse/internal/cli"
	"github.com/Veraticus/sentiment-pulse/internal/config"
	"github.com/spf13/cobra"
)

func snapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Manage stored mention snapshots",
	}

	cmd.AddCommand(snapshotsListCmd())
	cmd.AddCommand(snapshotsDeleteCmd())

	return cmd
}

func snapshotsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			store, err := s.storage(cmd.Context())
			if err != nil {
				return err
			}
			snapshots, err := store.ListSnapshots(cmd.Context())
			if err != nil {
				return err
			}

			return s.output(cmd.OutOrStdout(), snapshots, func(w io.Writer) error {
				return cli.RenderSnapshots(w, snapshots)
			})
		},
	}
}

func snapshotsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name-or-id>",
		Short: "Delete a snapshot and its mentions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			snapshot, err := store.GetSnapshot(ctx, args[0])
			if err != nil {
				return err
			}

			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				question := fmt.Sprintf("Delete snapshot %q with %d mentions?", snapshot.Name, snapshot.MentionCount)
				confirmed, err := cli.Confirm(ctx, cli.NewNonBlockingReader(cmd.InOrStdin()), out, question)
				if err != nil {
					return err
				}
				if !confirmed {
					_, err := fmt.Fprintln(out, cli.FormatInfo("Nothing deleted"))
					return err
				}
			}

			if err := store.DeleteSnapshot(ctx, snapshot.ID); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted snapshot %q", snapshot.Name)))
			return err
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "delete without asking for confirmation")

	return cmd
}
