// Package records is the student record store every front end talks to.
//
// It owns the rules the database does not enforce: input is trimmed and
// validated before it reaches storage, updates are merged over the current
// record, and the error a caller gets back is always one of ErrValidation,
// ErrDuplicateKey or ErrNotFound when the failure is the caller's doing.
package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Options tunes a Store.
type Options struct {
	// CaseSensitiveSearch makes Search match case exactly.
	CaseSensitiveSearch bool
}

// Store wraps a storage backend with validation.
type Store struct {
	storage  storage.Storage
	opts     Options
	validate *validator.Validate
}

// NewStore wraps st. The returned Store trims and validates every record
// before it reaches the backend and reports failures as ErrValidation,
// ErrNotFound or ErrDuplicateKey.
func NewStore(st storage.Storage, opts Options) *Store {
	return &Store{
		storage:  st,
		opts:     opts,
		validate: newValidator(),
	}
}

// Create validates student and inserts it. The stored record is returned.
func (s *Store) Create(ctx context.Context, student types.Student) (types.Student, error) {
	student = student.Normalize()
	if err := s.validateStudent(student); err != nil {
		return types.Student{}, err
	}

	if err := s.storage.CreateStudent(ctx, student); err != nil {
		return types.Student{}, fmt.Errorf("create student: %w", err)
	}
	return student, nil
}

// List returns every record. The slice is never nil.
func (s *Store) List(ctx context.Context, order types.Order) ([]types.Student, error) {
	students, err := s.storage.GetStudents(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// Get looks a record up by roll number.
func (s *Store) Get(ctx context.Context, rollNo string) (types.Student, error) {
	rollNo, err := requireRollNo(rollNo)
	if err != nil {
		return types.Student{}, err
	}

	student, err := s.storage.GetStudentByRollNo(ctx, rollNo)
	if err != nil {
		return types.Student{}, fmt.Errorf("get student: %w", err)
	}
	return student, nil
}

// Search returns the records whose roll number or name contains keyword,
// sorted by name. No match yields an empty slice and a nil error.
func (s *Store) Search(ctx context.Context, keyword string) ([]types.Student, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, invalid("search keyword is required")
	}

	students, err := s.storage.SearchStudents(ctx, keyword, s.opts.CaseSensitiveSearch)
	if err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	return students, nil
}

// Update merges fields over the current record and stores the result.
// A missing record is reported before any validation problem.
func (s *Store) Update(ctx context.Context, rollNo string, fields types.StudentUpdate) (types.Student, error) {
	current, err := s.Get(ctx, rollNo)
	if err != nil {
		return types.Student{}, err
	}

	next := fields.Apply(current).Normalize()
	if err := s.validateStudent(next); err != nil {
		return types.Student{}, err
	}

	updated, err := s.storage.UpdateStudentByRollNo(ctx, current.RollNo, next)
	if err != nil {
		return types.Student{}, fmt.Errorf("update student: %w", err)
	}
	return updated, nil
}

// Delete removes a record permanently.
func (s *Store) Delete(ctx context.Context, rollNo string) error {
	rollNo, err := requireRollNo(rollNo)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteStudentByRollNo(ctx, rollNo); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}

func requireRollNo(rollNo string) (string, error) {
	rollNo = strings.TrimSpace(rollNo)
	if rollNo == "" {
		return "", invalid("field roll_no is required")
	}
	return rollNo, nil
}
