package storage

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"remindr/internal/todo"
)

var ErrNotFound = errors.New("task not found")

// Store keeps the todos collection served by `remindr serve`.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS todos (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	duedate TEXT DEFAULT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureColumns()
}

// ensureColumns upgrades databases written before a column existed.
func (s *Store) ensureColumns() error {
	required := map[string]string{
		"description": "ALTER TABLE todos ADD COLUMN description TEXT NOT NULL DEFAULT '';",
		"duedate":     "ALTER TABLE todos ADD COLUMN duedate TEXT DEFAULT NULL;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(todos);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

// List returns every task in creation order.
func (s *Store) List(ctx context.Context) ([]todo.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, duedate, completed FROM todos ORDER BY seq;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []todo.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) Get(ctx context.Context, id string) (todo.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title, description, duedate, completed FROM todos WHERE id = ?;`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return todo.Task{}, ErrNotFound
	}
	return t, err
}

// Create stores a draft under a fresh id. Completed always starts false.
func (s *Store) Create(ctx context.Context, d todo.Draft) (todo.Task, error) {
	if err := d.Validate(); err != nil {
		return todo.Task{}, err
	}
	t := todo.Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		DueDate:     normalizeDue(d.DueDate),
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO todos (id, title, description, duedate, completed, created_at) VALUES (?, ?, ?, ?, 0, ?);`,
		t.ID, t.Title, t.Description, dueString(t.DueDate), s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return todo.Task{}, err
	}
	return t, nil
}

// Replace overwrites every field of an existing task.
func (s *Store) Replace(ctx context.Context, id string, t todo.Task) (todo.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return todo.Task{}, todo.ErrTitleRequired
	}
	t.ID = id
	t.Title = strings.TrimSpace(t.Title)
	t.DueDate = normalizeDue(t.DueDate)
	res, err := s.db.ExecContext(ctx, `UPDATE todos SET title = ?, description = ?, duedate = ?, completed = ? WHERE id = ?;`,
		t.Title, t.Description, dueString(t.DueDate), boolInt(t.Completed), id)
	if err != nil {
		return todo.Task{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return todo.Task{}, err
	}
	if n == 0 {
		return todo.Task{}, ErrNotFound
	}
	return t, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?;`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(r scanner) (todo.Task, error) {
	var t todo.Task
	var dueStr sql.NullString
	var done int
	if err := r.Scan(&t.ID, &t.Title, &t.Description, &dueStr, &done); err != nil {
		return todo.Task{}, err
	}
	t.Completed = done == 1
	if dueStr.Valid {
		if parsed, err := time.Parse(time.RFC3339Nano, dueStr.String); err == nil {
			t.DueDate = &parsed
		}
	}
	return t, nil
}

// normalizeDue stores due dates in UTC at millisecond precision, like a
// browser's toISOString.
func normalizeDue(due *time.Time) *time.Time {
	if due == nil {
		return nil
	}
	n := due.UTC().Truncate(time.Millisecond)
	return &n
}

func dueString(due *time.Time) sql.NullString {
	if due == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: due.UTC().Format(time.RFC3339Nano), Valid: true}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
