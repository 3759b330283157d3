package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"timercraft/internal/core/model"
)

const (
	sessionRowID = 1

	upsertSessionSQL = `
		INSERT INTO stopwatch_session (id, state, accumulated_ns, started_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state=excluded.state,
			accumulated_ns=excluded.accumulated_ns,
			started_at=excluded.started_at,
			updated_at=excluded.updated_at
	`

	selectSessionSQL = `
		SELECT state, accumulated_ns, started_at, updated_at
		FROM stopwatch_session WHERE id=?
	`

	insertActionSQL = `
		INSERT INTO stopwatch_actions (id, action, from_state, to_state, elapsed_ns, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectRecentActionsSQL = `
		SELECT id, action, from_state, to_state, elapsed_ns, occurred_at
		FROM stopwatch_actions
		ORDER BY occurred_at DESC, rowid DESC
		LIMIT ?
	`

	defaultActionLimit = 50
	maxActionLimit     = 500
)

// SessionSQLite stores the stopwatch session and its action log in SQLite.
type SessionSQLite struct {
	db *sql.DB
}

// NewSessionSQLite wraps an open database prepared by db.InitDB.
func NewSessionSQLite(db *sql.DB) *SessionSQLite {
	return &SessionSQLite{db: db}
}

// SaveSession upserts the single session row. Timestamps are stored in UTC.
func (r *SessionSQLite) SaveSession(ctx context.Context, session model.Session) error {
	updatedAt := session.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	var startedAt sql.NullTime
	if !session.StartedAt.IsZero() {
		startedAt = sql.NullTime{Time: session.StartedAt.UTC(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, upsertSessionSQL,
		sessionRowID,
		string(session.State),
		int64(session.Accumulated),
		startedAt,
		updatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns the saved session. The boolean is false when nothing was saved yet.
func (r *SessionSQLite) LoadSession(ctx context.Context) (model.Session, bool, error) {
	row := r.db.QueryRowContext(ctx, selectSessionSQL, sessionRowID)

	var (
		state       string
		accumulated int64
		startedAt   sql.NullTime
		updatedAt   time.Time
	)
	if err := row.Scan(&state, &accumulated, &startedAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, false, nil
		}
		return model.Session{}, false, fmt.Errorf("load session: %w", err)
	}

	session := model.Session{
		State:       model.RunState(state),
		Accumulated: time.Duration(accumulated),
		UpdatedAt:   updatedAt.UTC(),
	}
	if startedAt.Valid {
		session.StartedAt = startedAt.Time.UTC()
	}
	return session, true, nil
}

// AppendAction records an applied action.
func (r *SessionSQLite) AppendAction(ctx context.Context, record model.ActionRecord) error {
	occurredAt := record.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, insertActionSQL,
		record.ID,
		string(record.Action),
		string(record.From),
		string(record.To),
		int64(record.Elapsed),
		occurredAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("append action: %w", err)
	}
	return nil
}

// RecentActions returns the newest actions first. Non-positive limits use a default.
func (r *SessionSQLite) RecentActions(ctx context.Context, limit int) ([]model.ActionRecord, error) {
	if limit <= 0 {
		limit = defaultActionLimit
	}
	if limit > maxActionLimit {
		limit = maxActionLimit
	}

	rows, err := r.db.QueryContext(ctx, selectRecentActionsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]model.ActionRecord, 0, limit)
	for rows.Next() {
		var (
			record           model.ActionRecord
			action, from, to string
			elapsed          int64
		)
		if err := rows.Scan(&record.ID, &action, &from, &to, &elapsed, &record.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		record.Action = model.Action(action)
		record.From = model.RunState(from)
		record.To = model.RunState(to)
		record.Elapsed = time.Duration(elapsed)
		record.OccurredAt = record.OccurredAt.UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return records, nil
}
