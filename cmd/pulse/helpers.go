package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/sentiment-pulse/internal/cli"
	"github.com/Veraticus/sentiment-pulse/internal/common"
	"github.com/Veraticus/sentiment-pulse/internal/config"
	"github.com/Veraticus/sentiment-pulse/internal/engine"
	"github.com/Veraticus/sentiment-pulse/internal/filter"
	"github.com/Veraticus/sentiment-pulse/internal/ingest"
	"github.com/Veraticus/sentiment-pulse/internal/model"
	"github.com/Veraticus/sentiment-pulse/internal/rules"
	"github.com/Veraticus/sentiment-pulse/internal/service"
	"github.com/Veraticus/sentiment-pulse/internal/storage"
	"github.com/spf13/cobra"
)

// initStorage opens the snapshot database and runs migrations.
func initStorage(ctx context.Context, settings *config.Settings) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newEngine builds the engine from the configured rule set and tunables.
func newEngine(settings *config.Settings) (*engine.Engine, error) {
	var registry *rules.Registry
	if settings.RulesPath != "" {
		var err error
		if registry, err = rules.Load(settings.RulesPath); err != nil {
			return nil, common.NewUserError("Could not load the rule set", err)
		}
		slog.Debug("Loaded custom rules", "path", settings.RulesPath)
	}
	return engine.NewWithConfig(registry, settings.Engine, slog.Default())
}

// session bundles what an analysis command needs. The store is opened on first use.
type session struct {
	settings *config.Settings
	engine   *engine.Engine
	store    service.Storage
	format   cli.Format
}

func newSession(cmd *cobra.Command) (*session, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}

	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := cli.ParseFormat(formatFlag)
	if err != nil {
		return nil, err
	}

	e, err := newEngine(settings)
	if err != nil {
		return nil, err
	}

	return &session{settings: settings, engine: e, format: format}, nil
}

func (s *session) storage(ctx context.Context) (service.Storage, error) {
	if s.store == nil {
		store, err := initStorage(ctx, s.settings)
		if err != nil {
			return nil, err
		}
		s.store = store
	}
	return s.store, nil
}

func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			slog.Warn("Failed to close storage", "error", err)
		}
	}
}

// decodeFile reads a mention file, logging skipped records.
func decodeFile(path string) ([]model.Mention, error) {
	result, err := ingest.NewDecoder(slog.Default()).DecodeFile(path)
	if err != nil {
		if ingest.IsNoData(err) {
			return nil, common.NewUserError(fmt.Sprintf("%s holds no mention data", path), err)
		}
		return nil, err
	}
	if len(result.Skipped) > 0 {
		slog.Warn("Skipped malformed mentions", "file", path, "count", len(result.Skipped))
	}
	return result.Mentions, nil
}

// resolve loads mentions from ref: an existing file path, otherwise a snapshot name or ID.
func (s *session) resolve(ctx context.Context, ref string) ([]model.Mention, error) {
	if info, err := os.Stat(ref); err == nil && info.Mode().IsRegular() {
		return decodeFile(ref)
	}

	store, err := s.storage(ctx)
	if err != nil {
		return nil, err
	}
	mentions, err := store.LoadMentions(ctx, ref)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NewUserError(fmt.Sprintf("No file or snapshot named %q", ref), err)
	}
	return mentions, err
}

// addInputFlags registers --file and --snapshot on an analysis command.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "JSON file of mentions to analyze")
	cmd.Flags().StringP("snapshot", "s", "", "stored snapshot name or ID to analyze")
	cmd.MarkFlagsMutuallyExclusive("file", "snapshot")
	cmd.MarkFlagsOneRequired("file", "snapshot")
}

// loadInput reads the mentions selected by --file or --snapshot and applies the configured filters.
func (s *session) loadInput(cmd *cobra.Command) ([]model.Mention, error) {
	ctx := cmd.Context()

	file, _ := cmd.Flags().GetString("file")
	snapshot, _ := cmd.Flags().GetString("snapshot")

	var mentions []model.Mention
	var err error
	switch {
	case file != "":
		mentions, err = decodeFile(file)
	case snapshot != "":
		var store service.Storage
		if store, err = s.storage(ctx); err == nil {
			mentions, err = store.LoadMentions(ctx, snapshot)
		}
	default:
		return nil, common.NewUserError("Specify --file or --snapshot", common.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}

	return s.filter(mentions), nil
}

func (s *session) filter(mentions []model.Mention) []model.Mention {
	filtered := filter.Apply(mentions, s.settings.Filter)
	if len(filtered) != len(mentions) {
		slog.Debug("Filtered mentions",
			"before", len(mentions),
			"after", len(filtered),
			"range", s.settings.Filter.Range)
	}
	return filtered
}

// output writes v as JSON, or calls render for table output.
func (s *session) output(w io.Writer, v any, render func(io.Writer) error) error {
	if s.format == cli.FormatJSON {
		return cli.WriteJSON(w, v)
	}
	return render(w)
}
