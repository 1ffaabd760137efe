package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/engagekit/engagement-tracker/internal/domain"
	"github.com/engagekit/engagement-tracker/internal/logger"
)

// Store persists click events in PostgreSQL.
//
// Deduplication rests entirely on the unique index over
// (session_num, post_num, tg_id): concurrent saves of the same triple race at
// the database, not in application code, and exactly one row survives.
type Store struct {
	db  *sql.DB
	log logger.Logger
}

// NewStore creates a Store backed by the given database handle.
func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{db: db, log: log}
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return newStorageError("ping", err)
	}
	return nil
}

// Save inserts the event unless a row with the same
// (session_num, post_num, tg_id) already exists; a duplicate is a silent
// no-op and the original row keeps its clicked_at.
//
// clicked_at is assigned here, at persistence time, truncated to seconds.
func (s *Store) Save(ctx context.Context, event domain.ClickEvent) error {
	if event.ClickedAt.IsZero() {
		event.ClickedAt = time.Now().Truncate(time.Second)
	}

	const query = `
		INSERT INTO clicks (session_num, post_num, tg_id, tg_username, x_username, x_link, clicked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_num, post_num, tg_id) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query,
		event.SessionNum, event.PostNum, event.TgID,
		event.TgUsername, event.XUsername, event.XLink,
		event.ClickedAt,
	)
	if err != nil {
		return newStorageError("save click", err)
	}

	if rows, rowsErr := result.RowsAffected(); rowsErr == nil && rows == 0 {
		s.log.Debug("Duplicate click ignored",
			logger.Int64("session_num", event.SessionNum),
			logger.Int64("post_num", event.PostNum),
			logger.Int64("tg_id", event.TgID),
		)
	}

	return nil
}

// ListBySession returns all events for the session ordered by clicked_at
// ascending. The id tiebreaker keeps ordering stable within one second.
func (s *Store) ListBySession(ctx context.Context, sessionNum int64) ([]domain.ClickEvent, error) {
	const query = `
		SELECT session_num, post_num, tg_id, tg_username, x_username, x_link, clicked_at
		FROM clicks
		WHERE session_num = $1
		ORDER BY clicked_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sessionNum)
	if err != nil {
		return nil, newStorageError("list clicks", err)
	}
	defer rows.Close()

	events := make([]domain.ClickEvent, 0)
	for rows.Next() {
		var event domain.ClickEvent
		if scanErr := rows.Scan(
			&event.SessionNum, &event.PostNum, &event.TgID,
			&event.TgUsername, &event.XUsername, &event.XLink,
			&event.ClickedAt,
		); scanErr != nil {
			return nil, newStorageError("scan click", scanErr)
		}
		events = append(events, event)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, newStorageError("iterate clicks", rowsErr)
	}

	return events, nil
}

// PurgeSession deletes every event for the session and returns the number of
// rows removed. Purging an empty or unknown session deletes zero rows and is
// not an error.
func (s *Store) PurgeSession(ctx context.Context, sessionNum int64) (int64, error) {
	const query = `DELETE FROM clicks WHERE session_num = $1`

	result, err := s.db.ExecContext(ctx, query, sessionNum)
	if err != nil {
		return 0, newStorageError("purge session", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, newStorageError("purge session rows", err)
	}

	return deleted, nil
}
