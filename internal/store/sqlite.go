package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/taskmaker/internal/model"
)

// dateTimeLayout matches the ISO-8601 form produced by JavaScript's
// Date.toISOString: UTC with millisecond precision.
const dateTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// SQLiteStore implements the Store interface using a local SQLite database.
// The database is opened lazily by the first operation.
type SQLiteStore struct {
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	db       *sqlx.DB
	inflight *initCall
	closed   bool
}

// initCall is a single open attempt shared by every caller that arrives
// while it runs.
type initCall struct {
	done chan struct{}
	db   *sqlx.DB
	err  error
}

// taskRow mirrors one row of the Tasks table. Every text column is nullable.
type taskRow struct {
	ID          int64          `db:"id"`
	Name        sql.NullString `db:"name"`
	Description sql.NullString `db:"description"`
	TextColour  sql.NullString `db:"textColour"`
	BackColour  sql.NullString `db:"backColour"`
	DateTime    sql.NullString `db:"dateTime"`
	ImageURI    sql.NullString `db:"imageUri"`
}

// NewSQLiteStore returns a store for the database at dbPath. Nothing is
// opened until the first operation. A nil logger means slog.Default().
func NewSQLiteStore(dbPath string, logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStore{
		path:   dbPath,
		logger: logger.With("component", "store"),
	}
}

// Path returns the database path the store was created with.
func (s *SQLiteStore) Path() string { return s.path }

// Initialize opens the database and creates the Tasks table if needed.
// It is idempotent; concurrent first calls share a single open attempt.
// After a failure the next call tries again.
func (s *SQLiteStore) Initialize(ctx context.Context) error {
	_, err := s.handle(ctx)
	return err
}

// handle returns the open database, opening it if this is the first use.
func (s *SQLiteStore) handle(ctx context.Context) (*sqlx.DB, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.db != nil {
		db := s.db
		s.mu.Unlock()
		return db, nil
	}
	if call := s.inflight; call != nil {
		s.mu.Unlock()
		select {
		case <-call.done:
			return call.db, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := &initCall{done: make(chan struct{})}
	s.inflight = call
	s.mu.Unlock()

	call.db, call.err = s.open(ctx)

	s.mu.Lock()
	s.inflight = nil
	if call.err == nil {
		if s.closed {
			_ = call.db.Close()
			call.db, call.err = nil, ErrClosed
		} else {
			s.db = call.db
		}
	}
	s.mu.Unlock()
	close(call.done)

	return call.db, call.err
}

// open connects to the database file and applies the schema.
func (s *SQLiteStore) open(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", s.path)
	if err != nil {
		return nil, s.initFailed(fmt.Errorf("opening sqlite db: %w", err))
	}

	// One connection keeps ":memory:" databases coherent; SQLite
	// serialises writers anyway.
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, s.initFailed(fmt.Errorf("applying %q: %w", p, err))
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, s.initFailed(fmt.Errorf("creating Tasks table: %w", err))
	}

	s.logger.Info("task store initialized", "path", s.path)
	return db, nil
}

func (s *SQLiteStore) initFailed(err error) error {
	s.logger.Error("task store initialization failed", "path", s.path, "error", err)
	return &InitializationError{Path: s.path, Err: err}
}

// queryFailed logs a failed statement and wraps it for the caller.
func (s *SQLiteStore) queryFailed(op string, err error, attrs ...any) error {
	s.logger.Error("task store query failed", append([]any{"op", op, "error", err}, attrs...)...)
	return &QueryError{Op: op, Err: err}
}

// Close closes the underlying database connection, if one was opened.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// AddTask inserts a task and returns it with its assigned id.
func (s *SQLiteStore) AddTask(ctx context.Context, in TaskInput) (model.Task, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return model.Task{}, err
	}

	result, err := db.ExecContext(ctx, `
		INSERT INTO Tasks (name, description, textColour, backColour, dateTime, imageUri)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.Name, in.Description, in.TextColour, in.BackColour,
		formatDateTime(in.DateTime), nullString(in.ImageURI),
	)
	if err != nil {
		return model.Task{}, s.queryFailed("adding task", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Task{}, s.queryFailed("reading new task id", err)
	}

	s.logger.Debug("task added", "id", id)
	return in.Task(id), nil
}

// GetAllTasks returns every task in storage order. The result is empty,
// never nil, when the table has no rows.
func (s *SQLiteStore) GetAllTasks(ctx context.Context) ([]model.Task, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return nil, err
	}

	var rows []taskRow
	if err := db.SelectContext(ctx, &rows, "SELECT "+taskColumns+" FROM Tasks"); err != nil {
		return nil, s.queryFailed("querying tasks", err)
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		task, err := row.task()
		if err != nil {
			return nil, s.queryFailed("scanning tasks", err, "id", row.ID)
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

// GetTask retrieves a single task by id.
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (model.Task, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return model.Task{}, err
	}

	var row taskRow
	err = db.GetContext(ctx, &row, "SELECT "+taskColumns+" FROM Tasks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, fmt.Errorf("getting task %d: %w", id, ErrTaskNotFound)
	}
	if err != nil {
		return model.Task{}, s.queryFailed("getting task", err, "id", id)
	}

	task, err := row.task()
	if err != nil {
		return model.Task{}, s.queryFailed("scanning task", err, "id", id)
	}
	return task, nil
}

// UpdateTask overwrites every mutable field of task id. Updating an id
// that does not exist changes nothing and is not an error.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id int64, in TaskInput) error {
	db, err := s.handle(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, `
		UPDATE Tasks SET
			name = ?, description = ?, textColour = ?, backColour = ?,
			dateTime = ?, imageUri = ?
		WHERE id = ?`,
		in.Name, in.Description, in.TextColour, in.BackColour,
		formatDateTime(in.DateTime), nullString(in.ImageURI),
		id,
	)
	if err != nil {
		return s.queryFailed("updating task", err, "id", id)
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		s.logger.Debug("update matched no task", "id", id)
	}
	return nil
}

// DeleteTask removes task id. Deleting an id that does not exist is not
// an error.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	db, err := s.handle(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, "DELETE FROM Tasks WHERE id = ?", id)
	if err != nil {
		return s.queryFailed("deleting task", err, "id", id)
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		s.logger.Debug("delete matched no task", "id", id)
	}
	return nil
}

// task converts a row to the model type.
func (r taskRow) task() (model.Task, error) {
	t := model.Task{
		ID:          r.ID,
		Name:        r.Name.String,
		Description: r.Description.String,
		TextColour:  r.TextColour.String,
		BackColour:  r.BackColour.String,
	}

	if r.DateTime.Valid && r.DateTime.String != "" {
		due, err := time.Parse(time.RFC3339Nano, r.DateTime.String)
		if err != nil {
			return model.Task{}, fmt.Errorf("parsing dateTime %q: %w", r.DateTime.String, err)
		}
		t.DateTime = &due
	}

	if r.ImageURI.Valid {
		uri := r.ImageURI.String
		t.ImageURI = &uri
	}

	return t, nil
}

// normalizeDateTime truncates to what the stored text can represent.
func normalizeDateTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// formatDateTime serialises an optional due time; nil becomes NULL.
func formatDateTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return normalizeDateTime(*t).Format(dateTimeLayout)
}

// nullString maps an optional string to a nullable column value.
func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
