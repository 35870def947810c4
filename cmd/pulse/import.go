package main

import (
	"fmt"
	"path/filepath"

	"github.com/Veraticus/sentiment-pulse/internal/cli"
	"github.com/Veraticus/sentiment-pulse/internal/config"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a mention file as a named snapshot",
		Long: `Import a JSON array of mentions and store it as a snapshot.

Snapshots hold the raw mentions only; every analysis is recomputed from them,
so a snapshot can be re-analyzed with a different rule set later. Records with
malformed fields are skipped and reported.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("snapshot", "", "snapshot name (default: the file name)")
	cmd.Flags().Bool("dry-run", false, "decode and report without saving")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	mentions, err := decodeFile(path)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("snapshot")
	if name == "" {
		name = filepath.Base(path)
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		_, err := fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Would import %d mentions as %q", len(mentions), name)))
		return err
	}

	interrupts := cli.NewInterruptHandler(out, "No snapshot was saved.")
	ctx, cancel := interrupts.HandleInterrupts(cmd.Context())
	defer cancel()

	store, err := initStorage(ctx, settings)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	progress := cli.NewImportProgress(cmd.ErrOrStderr(), len(mentions))
	snapshot, err := store.CreateSnapshot(ctx, name, path, mentions, progress.Update)
	if err != nil {
		if interrupts.WasInterrupted() {
			return ctx.Err()
		}
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	progress.Finish()

	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d mentions as snapshot %q (%s)",
		snapshot.MentionCount, snapshot.Name, snapshot.ID)))
	return err
}
