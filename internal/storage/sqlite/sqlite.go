// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk, which matches how the
// records manager is used: one desktop session or one console process at a
// time, with the data surviving restarts.
//
// The driver is imported once, by name: importing it registers "sqlite3"
// with database/sql, and the name gives access to its error codes for
// constraint detection.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"

	"github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at cfg.StoragePath, creates the students
// table if it does not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// One writer at a time; avoids "database is locked" between pooled
	// connections to the same file.
	db.SetMaxOpenConns(1)

	// id keeps insertion order for unsorted listings; roll_no is the key
	// every operation addresses.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			roll_no  TEXT    UNIQUE NOT NULL,
			name     TEXT    NOT NULL,
			course   TEXT    NOT NULL,
			semester INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close closes the underlying connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// CreateStudent inserts a new row into the students table.
// A UNIQUE violation on roll_no surfaces as storage.ErrDuplicateKey; any
// other failure is wrapped as-is so it is never mistaken for a duplicate.
func (s *SQLite) CreateStudent(ctx context.Context, student types.Student) error {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO students (roll_no, name, course, semester) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, student.RollNo, student.Name, student.Course, student.Semester)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("CreateStudent: roll no %q: %w", student.RollNo, storage.ErrDuplicateKey)
		}
		return fmt.Errorf("CreateStudent: exec: %w", err)
	}

	return nil
}

// GetStudentByRollNo fetches exactly one row matched by roll number.
func (s *SQLite) GetStudentByRollNo(ctx context.Context, rollNo string) (types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT roll_no, name, course, semester FROM students WHERE roll_no = ? LIMIT 1",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByRollNo: prepare: %w", err)
	}
	defer stmt.Close()

	var student types.Student
	err = stmt.QueryRowContext(ctx, rollNo).Scan(
		&student.RollNo,
		&student.Name,
		&student.Course,
		&student.Semester,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("roll no %q: %w", rollNo, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByRollNo: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns all rows, in insertion order or sorted by name.
func (s *SQLite) GetStudents(ctx context.Context, order types.Order) ([]types.Student, error) {
	query := "SELECT roll_no, name, course, semester FROM students"
	switch order {
	case types.OrderByName:
		query += " ORDER BY name ASC, roll_no ASC"
	default:
		query += " ORDER BY id ASC"
	}

	students, err := s.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: %w", err)
	}
	return students, nil
}

// SearchStudents matches keyword as a substring of roll_no or name.
//
// SQLite's LIKE folds ASCII case only, so it serves the case-insensitive
// mode; instr() compares bytes exactly and serves the case-sensitive one.
func (s *SQLite) SearchStudents(ctx context.Context, keyword string, caseSensitive bool) ([]types.Student, error) {
	var (
		query string
		args  []any
	)
	if caseSensitive {
		query = `
			SELECT roll_no, name, course, semester FROM students
			WHERE instr(roll_no, ?) > 0 OR instr(name, ?) > 0
			ORDER BY name ASC, roll_no ASC`
		args = []any{keyword, keyword}
	} else {
		pattern := storage.LikePattern(keyword)
		query = `
			SELECT roll_no, name, course, semester FROM students
			WHERE ` + storage.LikeCondition("roll_no", "?") + ` OR ` + storage.LikeCondition("name", "?") + `
			ORDER BY name ASC, roll_no ASC`
		args = []any{pattern, pattern}
	}

	students, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("SearchStudents: %w", err)
	}
	return students, nil
}

// UpdateStudentByRollNo replaces the mutable fields of an existing row and
// returns the record as stored.
func (s *SQLite) UpdateStudentByRollNo(ctx context.Context, rollNo string, student types.Student) (types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"UPDATE students SET name = ?, course = ?, semester = ? WHERE roll_no = ?",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByRollNo: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, student.Name, student.Course, student.Semester, rollNo)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByRollNo: exec: %w", err)
	}
	if err := expectOneRow(result, rollNo); err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByRollNo: %w", err)
	}

	return s.GetStudentByRollNo(ctx, rollNo)
}

// DeleteStudentByRollNo removes a row by roll number.
func (s *SQLite) DeleteStudentByRollNo(ctx context.Context, rollNo string) error {
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM students WHERE roll_no = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudentByRollNo: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, rollNo)
	if err != nil {
		return fmt.Errorf("DeleteStudentByRollNo: exec: %w", err)
	}
	if err := expectOneRow(result, rollNo); err != nil {
		return fmt.Errorf("DeleteStudentByRollNo: %w", err)
	}

	return nil
}

// query runs a SELECT of the four record columns and collects the rows.
func (s *SQLite) query(ctx context.Context, query string, args ...any) ([]types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	// Non-nil so an empty table encodes as [] rather than null.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student
		if err := rows.Scan(
			&student.RollNo,
			&student.Name,
			&student.Course,
			&student.Semester,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return students, nil
}

func expectOneRow(result sql.Result, rollNo string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("roll no %q: %w", rollNo, storage.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
