package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/lifeprotocol/internal/services/protocol/domain"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/storage"
)

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// LoadPartition reads one partition with its rituals, tasks and logs.
func (s *Store) LoadPartition(ctx context.Context, login string) (domain.Partition, error) {
	if err := s.check(ctx); err != nil {
		return domain.Partition{}, err
	}
	login = strings.TrimSpace(login)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Partition{}, fmt.Errorf("begin partition read: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		p         domain.Partition
		lastReset sql.NullInt64
		nextReset sql.NullInt64
	)
	err = tx.QueryRowContext(ctx, `
SELECT login, schema_version, locale, last_reset_at, next_reset_at
FROM partitions WHERE login = ?`, login,
	).Scan(&p.Login, &p.SchemaVersion, &p.Locale, &lastReset, &nextReset)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Partition{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Partition{}, fmt.Errorf("get partition: %w", err)
	}
	p.Cycle = domain.Cycle{LastResetAt: fromNullMillis(lastReset), NextResetAt: fromNullMillis(nextReset)}

	if p.Rituals, err = loadRituals(ctx, tx, login); err != nil {
		return domain.Partition{}, err
	}
	if p.Tasks, err = loadTasks(ctx, tx, login); err != nil {
		return domain.Partition{}, err
	}
	if p.Logs, err = loadLogs(ctx, tx, login); err != nil {
		return domain.Partition{}, err
	}
	return p, nil
}

func loadRituals(ctx context.Context, q queryer, login string) ([]domain.Ritual, error) {
	rows, err := q.QueryContext(ctx, `
SELECT ritual_id, status, completed_at FROM partition_rituals
WHERE login = ? ORDER BY position`, login)
	if err != nil {
		return nil, fmt.Errorf("list rituals: %w", err)
	}
	defer rows.Close()

	var rituals []domain.Ritual
	for rows.Next() {
		var (
			ritual      domain.Ritual
			ritualID    string
			status      string
			completedAt sql.NullInt64
		)
		if err := rows.Scan(&ritualID, &status, &completedAt); err != nil {
			return nil, fmt.Errorf("scan ritual: %w", err)
		}
		ritual.ID = domain.RitualID(ritualID)
		ritual.Status = domain.RitualStatus(status)
		if completedAt.Valid {
			value := fromMillis(completedAt.Int64)
			ritual.CompletedAt = &value
		}
		rituals = append(rituals, ritual)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rituals: %w", err)
	}
	return rituals, nil
}

func loadTasks(ctx context.Context, q queryer, login string) ([]domain.Task, error) {
	rows, err := q.QueryContext(ctx, `
SELECT id, title, detail, created_at FROM partition_tasks
WHERE login = ? ORDER BY position`, login)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var (
			task      domain.Task
			createdAt int64
		)
		if err := rows.Scan(&task.ID, &task.Title, &task.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		task.CreatedAt = fromMillis(createdAt)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func loadLogs(ctx context.Context, q queryer, login string) ([]domain.LogEntry, error) {
	rows, err := q.QueryContext(ctx, `
SELECT id, title, note, created_at FROM partition_logs
WHERE login = ? ORDER BY position`, login)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.LogEntry
	for rows.Next() {
		var (
			entry     domain.LogEntry
			createdAt int64
		)
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		entry.CreatedAt = fromMillis(createdAt)
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return logs, nil
}

// SavePartition replaces the stored partition in one transaction.
func (s *Store) SavePartition(ctx context.Context, p domain.Partition) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	login := strings.TrimSpace(p.Login)
	if login == "" {
		return fmt.Errorf("partition login is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin partition write: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback partition write: %v", cause, rollbackErr)
		}
		return cause
	}

	if err := savePartitionExec(ctx, tx, login, p); err != nil {
		return rollbackWith(err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit partition write: %w", err)
	}
	return nil
}

func savePartitionExec(ctx context.Context, q queryer, login string, p domain.Partition) error {
	_, err := q.ExecContext(ctx, `
INSERT INTO partitions (login, schema_version, locale, last_reset_at, next_reset_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(login) DO UPDATE SET
	schema_version = excluded.schema_version,
	locale = excluded.locale,
	last_reset_at = excluded.last_reset_at,
	next_reset_at = excluded.next_reset_at,
	updated_at = excluded.updated_at`,
		login, p.SchemaVersion, p.Locale,
		toNullMillis(p.Cycle.LastResetAt), toNullMillis(p.Cycle.NextResetAt),
		toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("put partition: %w", err)
	}

	for _, table := range []string{"partition_rituals", "partition_tasks", "partition_logs"} {
		if _, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE login = ?`, login); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for position, ritual := range p.Rituals {
		var completedAt sql.NullInt64
		if ritual.CompletedAt != nil {
			completedAt = toNullMillis(*ritual.CompletedAt)
		}
		if _, err := q.ExecContext(ctx, `
INSERT INTO partition_rituals (login, ritual_id, position, status, completed_at)
VALUES (?, ?, ?, ?, ?)`,
			login, string(ritual.ID), position, string(ritual.Status), completedAt,
		); err != nil {
			return fmt.Errorf("put ritual %s: %w", ritual.ID, err)
		}
	}
	for position, task := range p.Tasks {
		if _, err := q.ExecContext(ctx, `
INSERT INTO partition_tasks (login, id, position, title, detail, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
			login, task.ID, position, task.Title, task.Detail, toMillis(task.CreatedAt),
		); err != nil {
			return fmt.Errorf("put task %s: %w", task.ID, err)
		}
	}
	for position, entry := range p.Logs {
		if _, err := q.ExecContext(ctx, `
INSERT INTO partition_logs (login, id, position, title, note, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
			login, entry.ID, position, entry.Title, entry.Note, toMillis(entry.CreatedAt),
		); err != nil {
			return fmt.Errorf("put log %s: %w", entry.ID, err)
		}
	}
	return nil
}
