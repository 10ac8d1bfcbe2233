package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/formlite/formlite/internal/api"
	"github.com/formlite/formlite/internal/services"
)

// SQLiteStore is the durable Store implementation. Questions and answers
// are stored as JSON text columns; timestamps as RFC 3339 strings.
type SQLiteStore struct {
	db *sql.DB
}

var _ api.Store = (*SQLiteStore)(nil)

// Open opens (or creates) the database at path, applies pragmas, and runs
// the embedded migrations.
func Open(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := conn.Exec(stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	if err := RunMigrations(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &SQLiteStore{db: conn}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) FindUserByEmail(email string) (*services.Account, error) {
	row := s.db.QueryRow(
		`SELECT id, name, email, digest, created_at FROM users WHERE email = ?`, email)
	var u services.Account
	var created string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Digest, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLiteStore) AddUser(u *services.Account) error {
	_, err := s.db.Exec(
		`INSERT INTO users (id, name, email, digest, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.Digest, formatTime(u.CreatedAt))
	if isUniqueViolation(err) {
		return services.NewConflictError("an account with this email already exists")
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) InsertForm(f *services.Form) error {
	questions, err := json.Marshal(f.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO forms (id, owner_id, title, description, questions, created_at, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.OwnerID, f.Title, f.Description, string(questions),
		formatTime(f.CreatedAt), boolToInt(f.Active))
	if err != nil {
		return fmt.Errorf("insert form: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetForm(id string) (*services.Form, error) {
	row := s.db.QueryRow(
		`SELECT id, owner_id, title, description, questions, created_at, is_active
		 FROM forms WHERE id = ?`, id)
	f, err := scanForm(row)
	if err != nil || f == nil {
		return f, err
	}
	if f.Responses, err = s.listResponses(f.ID); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *SQLiteStore) ListFormsByOwner(ownerID string) ([]*services.Form, error) {
	rows, err := s.db.Query(
		`SELECT id, owner_id, title, description, questions, created_at, is_active
		 FROM forms WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	defer rows.Close()
	var out []*services.Form
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	for _, f := range out {
		if f.Responses, err = s.listResponses(f.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLiteStore) AppendResponse(formID string, r *services.Response) error {
	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO responses (id, form_id, answers, submitted_at) VALUES (?, ?, ?, ?)`,
		r.ID, formID, string(answers), formatTime(r.SubmittedAt))
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

// listResponses returns a form's responses in id order; response ids are
// ULIDs, so id order is submission order.
func (s *SQLiteStore) listResponses(formID string) ([]*services.Response, error) {
	rows, err := s.db.Query(
		`SELECT id, answers, submitted_at FROM responses WHERE form_id = ? ORDER BY id`, formID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()
	out := []*services.Response{}
	for rows.Next() {
		var r services.Response
		var answers, submitted string
		if err := rows.Scan(&r.ID, &answers, &submitted); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
		if r.SubmittedAt, err = parseTime(submitted); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (*services.Form, error) {
	var f services.Form
	var questions, created string
	var active int64
	err := row.Scan(&f.ID, &f.OwnerID, &f.Title, &f.Description, &questions, &created, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan form: %w", err)
	}
	if err := json.Unmarshal([]byte(questions), &f.Questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if f.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	f.Active = active != 0
	return &f, nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

func boolToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}
