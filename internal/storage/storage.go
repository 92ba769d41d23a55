// Package storage defines the Storage interface, the contract that any
// database backend must satisfy to hold student records.
//
// The records store, the HTTP handlers and the console menu only depend on
// this interface. Two backends implement it:
//
//   - sqlite: database/sql + mattn/go-sqlite3, a single file on disk.
//   - gormdb: gorm, used with the PostgreSQL driver in production.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/student-records/internal/types"
)

// Backends translate their native "row missing" and "unique constraint"
// failures into these sentinels so callers can branch with errors.Is.
var (
	ErrNotFound     = errors.New("student not found")
	ErrDuplicateKey = errors.New("roll no already exists")
)

// Storage is the database contract.
// Records passed in are already normalised and validated.
type Storage interface {
	// CreateStudent inserts a new record.
	// Returns ErrDuplicateKey if the roll number is taken.
	CreateStudent(ctx context.Context, student types.Student) error

	// GetStudentByRollNo fetches a single record by its roll number.
	// Returns ErrNotFound if no such record exists.
	GetStudentByRollNo(ctx context.Context, rollNo string) (types.Student, error)

	// GetStudents returns every record in the requested order.
	// Returns an empty slice (not nil) if there are none.
	GetStudents(ctx context.Context, order types.Order) ([]types.Student, error)

	// SearchStudents returns the records whose roll number or name contains
	// keyword, ordered by name. Wildcard characters in keyword are literal.
	SearchStudents(ctx context.Context, keyword string, caseSensitive bool) ([]types.Student, error)

	// UpdateStudentByRollNo replaces name, course and semester of an
	// existing record and returns the stored result.
	// Returns ErrNotFound if no such record exists.
	UpdateStudentByRollNo(ctx context.Context, rollNo string, student types.Student) (types.Student, error)

	// DeleteStudentByRollNo removes a record permanently.
	// Returns ErrNotFound if no such record exists.
	DeleteStudentByRollNo(ctx context.Context, rollNo string) error

	// Close releases the underlying database handle.
	Close() error
}
