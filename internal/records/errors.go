package records

import (
	"errors"
	"strings"

	"github.com/aanand-mishra/student-records/internal/storage"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")

	ErrNotFound     = storage.ErrNotFound
	ErrDuplicateKey = storage.ErrDuplicateKey
)

// ValidationError lists every field problem found in one input, as
// sentences fit to show a user.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(problems ...string) error {
	return &ValidationError{Problems: problems}
}
