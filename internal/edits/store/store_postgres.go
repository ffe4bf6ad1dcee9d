package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"qualitydesk/internal/edits/models"
	"qualitydesk/internal/edits/service"
	"qualitydesk/pkg/domain"
	dErrors "qualitydesk/pkg/domain-errors"
	"qualitydesk/pkg/platform/sentinel"
	"qualitydesk/pkg/platform/tx"
)

// Schema creates the edit_sessions table.
const Schema = `
CREATE TABLE IF NOT EXISTS edit_sessions (
	project_id      uuid PRIMARY KEY,
	file_name       text   NOT NULL DEFAULT '',
	data_edits      jsonb  NOT NULL DEFAULT '[]',
	indicator_edits jsonb  NOT NULL DEFAULT '[]',
	last_updated    bigint NOT NULL DEFAULT 0
)`

// defaultTxTimeout bounds a session transaction when the caller set no
// deadline.
const defaultTxTimeout = 5 * time.Second

// PostgresStore persists edit sessions in PostgreSQL, one row per project.
// Inside RunInTx every method joins the transaction carried by the context.
type PostgresStore struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPostgres constructs a PostgreSQL-backed session store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// WithTxTimeout sets the RunInTx timeout used when the caller set no deadline.
func (s *PostgresStore) WithTxTimeout(timeout time.Duration) *PostgresStore {
	s.timeout = timeout
	return s
}

func (s *PostgresStore) querier(ctx context.Context) tx.Querier {
	return tx.QuerierFrom(ctx, s.db)
}

// EnsureSchema creates the table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create edit_sessions: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByProject(ctx context.Context, projectID domain.ProjectID) (*models.EditSession, error) {
	var (
		session        models.EditSession
		dataEdits      []byte
		indicatorEdits []byte
	)
	err := s.querier(ctx).QueryRowContext(ctx, `
		SELECT file_name, data_edits, indicator_edits, last_updated
		FROM edit_sessions
		WHERE project_id = $1`,
		uuid.UUID(projectID),
	).Scan(&session.FileName, &dataEdits, &indicatorEdits, &session.LastUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find edit session: %w", err)
	}
	if err := json.Unmarshal(dataEdits, &session.DataEdits); err != nil {
		return nil, fmt.Errorf("unmarshal data edits: %w", err)
	}
	if err := json.Unmarshal(indicatorEdits, &session.IndicatorEdits); err != nil {
		return nil, fmt.Errorf("unmarshal indicator edits: %w", err)
	}
	return session.Clone(), nil
}

func (s *PostgresStore) Save(ctx context.Context, projectID domain.ProjectID, session *models.EditSession) error {
	session = models.SessionOrDefault(session).Clone()
	dataEdits, err := json.Marshal(session.DataEdits)
	if err != nil {
		return fmt.Errorf("marshal data edits: %w", err)
	}
	indicatorEdits, err := json.Marshal(session.IndicatorEdits)
	if err != nil {
		return fmt.Errorf("marshal indicator edits: %w", err)
	}
	_, err = s.querier(ctx).ExecContext(ctx, `
		INSERT INTO edit_sessions (project_id, file_name, data_edits, indicator_edits, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (project_id) DO UPDATE SET
			file_name = EXCLUDED.file_name,
			data_edits = EXCLUDED.data_edits,
			indicator_edits = EXCLUDED.indicator_edits,
			last_updated = EXCLUDED.last_updated`,
		uuid.UUID(projectID), session.FileName, dataEdits, indicatorEdits, session.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("save edit session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, projectID domain.ProjectID) error {
	res, err := s.querier(ctx).ExecContext(ctx, `DELETE FROM edit_sessions WHERE project_id = $1`, uuid.UUID(projectID))
	if err != nil {
		return fmt.Errorf("delete edit session: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete edit session: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// DeleteMany removes every listed session and reports how many rows were
// deleted. Outside a transaction it takes the advisory lock of every project
// first, the same lock RunInTx holds, so it cannot drop a session under a
// concurrent read-modify-write.
func (s *PostgresStore) DeleteMany(ctx context.Context, projectIDs []domain.ProjectID) (int64, error) {
	if len(projectIDs) == 0 {
		return 0, nil
	}
	ids := make([]string, len(projectIDs))
	for i, id := range projectIDs {
		ids[i] = id.String()
	}
	if _, inTx := tx.From(ctx); inTx {
		return s.deleteRows(ctx, ids)
	}

	var deleted int64
	err := s.withLocks(ctx, ids, func(ctx context.Context) error {
		n, err := s.deleteRows(ctx, ids)
		deleted = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (s *PostgresStore) deleteRows(ctx context.Context, ids []string) (int64, error) {
	res, err := s.querier(ctx).ExecContext(ctx, `DELETE FROM edit_sessions WHERE project_id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("delete edit sessions: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete edit sessions: %w", err)
	}
	return rows, nil
}

// RunInTx runs fn inside a database transaction holding a transaction-scoped
// advisory lock on the project, so concurrent service instances serialize
// their read-modify-write cycles.
func (s *PostgresStore) RunInTx(ctx context.Context, projectID domain.ProjectID, fn func(ctx context.Context, store service.Store) error) error {
	return s.withLocks(ctx, []string{projectID.String()}, func(ctx context.Context) error {
		return fn(ctx, s)
	})
}

// withLocks runs fn in a transaction after taking pg_advisory_xact_lock on
// hashtext of every key. Several keys are locked in ascending hash order.
func (s *PostgresStore) withLocks(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := s.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return txError(ctx, err, "begin edit session tx")
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := lockKeys(ctx, sqlTx, keys); err != nil {
		return txError(ctx, err, "lock edit session")
	}
	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return txError(ctx, err, "commit edit session tx")
	}
	return nil
}

func lockKeys(ctx context.Context, sqlTx *sql.Tx, keys []string) error {
	if len(keys) == 1 {
		_, err := sqlTx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, keys[0])
		return err
	}

	rows, err := sqlTx.QueryContext(ctx,
		`SELECT DISTINCT hashtext(k) AS h FROM unnest($1::text[]) AS k ORDER BY h`, pq.Array(keys))
	if err != nil {
		return err
	}
	var hashes []int64
	for rows.Next() {
		var h int64
		if err := rows.Scan(&h); err != nil {
			_ = rows.Close()
			return err
		}
		hashes = append(hashes, h)
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, h := range hashes {
		if _, err := sqlTx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, h); err != nil {
			return err
		}
	}
	return nil
}

// txError codes failures of the transaction itself. A lock wait that outlives
// the deadline surfaces as a timeout.
func txError(ctx context.Context, err error, msg string) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
