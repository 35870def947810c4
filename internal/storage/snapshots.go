package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/sentiment-pulse/internal/common"
	"github.com/Veraticus/sentiment-pulse/internal/model"
	"github.com/Veraticus/sentiment-pulse/internal/service"
	"github.com/google/uuid"
)

// CreateSnapshot stores mentions as a new named snapshot, preserving their order.
// Names are unique; reusing one returns common.ErrDuplicateEntry.
func (s *SQLiteStorage) CreateSnapshot(ctx context.Context, name, source string, mentions []model.Mention, progress service.ProgressFunc) (*model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateSnapshotName(name); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots WHERE name = ?`, name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check snapshot name: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("%w: snapshot %q", common.ErrDuplicateEntry, name)
	}

	snapshot := &model.Snapshot{
		ID:           uuid.NewString(),
		Name:         name,
		Source:       source,
		MentionCount: len(mentions),
		CreatedAt:    time.Now().UTC().Round(0),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, name, source, mention_count, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, snapshot.ID, snapshot.Name, snapshot.Source, snapshot.MentionCount, snapshot.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	if err := s.saveMentionsTx(ctx, tx, snapshot.ID, mentions, progress); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	s.logger.Info("Created snapshot",
		"name", snapshot.Name,
		"id", snapshot.ID,
		"mentions", snapshot.MentionCount)

	return snapshot, nil
}

func (s *SQLiteStorage) saveMentionsTx(ctx context.Context, tx *sql.Tx, snapshotID string, mentions []model.Mention, progress service.ProgressFunc) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO mentions (
			snapshot_id, position, mention_id, text, timestamp, platform,
			source, country, label, score, likes, shares, comments
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, m := range mentions {
		if err := ctx.Err(); err != nil {
			return err
		}

		timestamp := sql.NullTime{Time: m.Timestamp.UTC(), Valid: !m.Timestamp.IsZero()}
		var score sql.NullFloat64
		if m.HasScore() {
			score = sql.NullFloat64{Float64: *m.Score, Valid: true}
		}

		_, err = stmt.ExecContext(ctx,
			snapshotID,
			i,
			m.ID,
			m.Text,
			timestamp,
			m.Platform,
			m.Source,
			m.Country,
			m.Label,
			score,
			m.Likes,
			m.Shares,
			m.Comments,
		)
		if err != nil {
			return fmt.Errorf("failed to insert mention %d: %w", i, err)
		}

		if progress != nil {
			progress(i + 1)
		}
	}

	return nil
}

// GetSnapshot returns the snapshot with the given ID or name.
func (s *SQLiteStorage) GetSnapshot(ctx context.Context, ref string) (*model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ref, "ref"); err != nil {
		return nil, err
	}
	return s.getSnapshotTx(ctx, s.db, ref)
}

func (s *SQLiteStorage) getSnapshotTx(ctx context.Context, q queryable, ref string) (*model.Snapshot, error) {
	var snapshot model.Snapshot
	var source sql.NullString

	err := q.QueryRowContext(ctx, `
		SELECT id, name, source, mention_count, created_at
		FROM snapshots
		WHERE id = ? OR name = ?
		ORDER BY id = ? DESC
		LIMIT 1
	`, ref, ref, ref).Scan(&snapshot.ID, &snapshot.Name, &source, &snapshot.MentionCount, &snapshot.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: snapshot %q", common.ErrNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	snapshot.Source = source.String
	snapshot.CreatedAt = snapshot.CreatedAt.UTC()
	return &snapshot, nil
}

// ListSnapshots returns every snapshot, oldest first.
func (s *SQLiteStorage) ListSnapshots(ctx context.Context) ([]model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, source, mention_count, created_at
		FROM snapshots
		ORDER BY created_at, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	snapshots := []model.Snapshot{}
	for rows.Next() {
		var snapshot model.Snapshot
		var source sql.NullString
		if err := rows.Scan(&snapshot.ID, &snapshot.Name, &source, &snapshot.MentionCount, &snapshot.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshot.Source = source.String
		snapshot.CreatedAt = snapshot.CreatedAt.UTC()
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}

// LoadMentions returns the mentions of a snapshot in import order.
func (s *SQLiteStorage) LoadMentions(ctx context.Context, ref string) ([]model.Mention, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ref, "ref"); err != nil {
		return nil, err
	}

	snapshot, err := s.getSnapshotTx(ctx, s.db, ref)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT mention_id, text, timestamp, platform, source, country,
		       label, score, likes, shares, comments
		FROM mentions
		WHERE snapshot_id = ?
		ORDER BY position
	`, snapshot.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mentions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	mentions := make([]model.Mention, 0, snapshot.MentionCount)
	for rows.Next() {
		m, err := scanMention(rows)
		if err != nil {
			return nil, err
		}
		mentions = append(mentions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mentions: %w", err)
	}

	return mentions, nil
}

func scanMention(rows *sql.Rows) (model.Mention, error) {
	var (
		m                                          model.Mention
		id, text, platform, source, country, label sql.NullString
		timestamp                                  sql.NullTime
		score                                      sql.NullFloat64
	)

	err := rows.Scan(&id, &text, &timestamp, &platform, &source, &country,
		&label, &score, &m.Likes, &m.Shares, &m.Comments)
	if err != nil {
		return model.Mention{}, fmt.Errorf("failed to scan mention: %w", err)
	}

	m.ID = id.String
	m.Text = text.String
	m.Platform = platform.String
	m.Source = source.String
	m.Country = country.String
	m.Label = label.String
	if timestamp.Valid {
		m.Timestamp = timestamp.Time.UTC()
	}
	if score.Valid {
		m.Score = model.Float(score.Float64)
	}
	return m, nil
}

// DeleteSnapshot removes a snapshot and its mentions.
func (s *SQLiteStorage) DeleteSnapshot(ctx context.Context, ref string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(ref, "ref"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	snapshot, err := s.getSnapshotTx(ctx, tx, ref)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM mentions WHERE snapshot_id = ?`, snapshot.ID); err != nil {
		return fmt.Errorf("failed to delete mentions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, snapshot.ID); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deletion: %w", err)
	}

	s.logger.Info("Deleted snapshot", "name", snapshot.Name, "id", snapshot.ID)
	return nil
}
