// Package gormdb implements storage.Storage on top of gorm.
//
// Production runs it against PostgreSQL (gorm.io/driver/postgres); tests
// run the same code against an in-memory SQLite database
// (gorm.io/driver/sqlite). The queries stay within what both dialects
// accept.
package gormdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the gorm implementation of storage.Storage.
type Store struct {
	db *gorm.DB
}

var _ storage.Storage = (*Store)(nil)

// Open connects with the given dialector and migrates the students table.
// TranslateError makes unique violations surface as gorm.ErrDuplicatedKey
// regardless of the dialect.
func Open(dialector gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("gormdb.Open: connect: %w", err)
	}

	store := &Store{db: db}
	if err := db.AutoMigrate(&types.Student{}); err != nil {
		store.Close()
		return nil, fmt.Errorf("gormdb.Open: auto-migrate: %w", err)
	}

	return store, nil
}

// OpenPostgres connects to PostgreSQL using a libpq-style DSN, e.g.
// "host=localhost user=app password=secret dbname=students sslmode=disable".
func OpenPostgres(dsn string) (*Store, error) {
	return Open(postgres.Open(dsn))
}

// Close closes the underlying *sql.DB.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) CreateStudent(ctx context.Context, student types.Student) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&types.Student{}).Where("roll_no = ?", student.RollNo).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}
		return tx.Create(&student).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("CreateStudent: roll no %q: %w", student.RollNo, storage.ErrDuplicateKey)
		}
		return fmt.Errorf("CreateStudent: %w", err)
	}
	return nil
}

func (s *Store) GetStudentByRollNo(ctx context.Context, rollNo string) (types.Student, error) {
	var student types.Student
	err := s.db.WithContext(ctx).Where("roll_no = ?", rollNo).Take(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.Student{}, fmt.Errorf("roll no %q: %w", rollNo, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByRollNo: %w", err)
	}
	return student, nil
}

// GetStudents without an order falls back to the primary key; the table
// has no insertion counter.
func (s *Store) GetStudents(ctx context.Context, order types.Order) ([]types.Student, error) {
	q := s.db.WithContext(ctx).Model(&types.Student{})
	switch order {
	case types.OrderByName:
		q = q.Order("name ASC").Order("roll_no ASC")
	default:
		q = q.Order("roll_no ASC")
	}

	students := make([]types.Student, 0)
	if err := q.Find(&students).Error; err != nil {
		return nil, fmt.Errorf("GetStudents: %w", err)
	}
	return students, nil
}

// SearchStudents narrows candidates with a lowercased LIKE, which behaves
// the same on PostgreSQL and SQLite, then applies the exact matching mode
// in Go.
func (s *Store) SearchStudents(ctx context.Context, keyword string, caseSensitive bool) ([]types.Student, error) {
	pattern := storage.LikePattern(keyword)

	var candidates []types.Student
	err := s.db.WithContext(ctx).
		Where(storage.LikeCondition("LOWER(roll_no)", "LOWER(?)")+" OR "+storage.LikeCondition("LOWER(name)", "LOWER(?)"), pattern, pattern).
		Order("name ASC").
		Order("roll_no ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("SearchStudents: %w", err)
	}

	students := make([]types.Student, 0, len(candidates))
	for _, st := range candidates {
		if storage.Contains(st.RollNo, keyword, caseSensitive) || storage.Contains(st.Name, keyword, caseSensitive) {
			students = append(students, st)
		}
	}
	return students, nil
}

func (s *Store) UpdateStudentByRollNo(ctx context.Context, rollNo string, student types.Student) (types.Student, error) {
	// A map keeps zero values (gorm skips them when updating from a struct).
	res := s.db.WithContext(ctx).
		Model(&types.Student{}).
		Where("roll_no = ?", rollNo).
		Updates(map[string]any{
			"name":     student.Name,
			"course":   student.Course,
			"semester": student.Semester,
		})
	if res.Error != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByRollNo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return types.Student{}, fmt.Errorf("UpdateStudentByRollNo: roll no %q: %w", rollNo, storage.ErrNotFound)
	}
	return s.GetStudentByRollNo(ctx, rollNo)
}

func (s *Store) DeleteStudentByRollNo(ctx context.Context, rollNo string) error {
	res := s.db.WithContext(ctx).Where("roll_no = ?", rollNo).Delete(&types.Student{})
	if res.Error != nil {
		return fmt.Errorf("DeleteStudentByRollNo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("DeleteStudentByRollNo: roll no %q: %w", rollNo, storage.ErrNotFound)
	}
	return nil
}
