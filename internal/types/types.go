// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, records and the console can all import types without
// depending on each other.
package types

import "strings"

// Student represents one student record. RollNo is the primary key and
// never changes once the record is created; the other fields are mutable.
//
// Struct tags serve three purposes:
//
//  1. json:"..." is the field name in the HTTP API.
//  2. gorm:"..." is the column mapping for the gorm-backed store.
//  3. validate:"..." holds the rules checked by go-playground/validator.
//     alphaspace is a custom rule registered by the records package:
//     letters and spaces only, at least one letter.
type Student struct {
	RollNo   string `json:"roll_no"  gorm:"column:roll_no;primaryKey"           validate:"required"`
	Name     string `json:"name"     gorm:"column:name;not null"                validate:"required,alphaspace"`
	Course   string `json:"course"   gorm:"column:course;not null"              validate:"required"`
	Semester int    `json:"semester" gorm:"column:semester;not null"            validate:"min=1,max=6"`
}

// Normalize trims surrounding whitespace from every text field.
func (s Student) Normalize() Student {
	s.RollNo = strings.TrimSpace(s.RollNo)
	s.Name = strings.TrimSpace(s.Name)
	s.Course = strings.TrimSpace(s.Course)
	return s
}

// StudentUpdate carries new values for the mutable fields of a record.
// A nil field keeps the record's current value.
type StudentUpdate struct {
	Name     *string `json:"name,omitempty"`
	Course   *string `json:"course,omitempty"`
	Semester *int    `json:"semester,omitempty"`
}

// Apply returns s with the non-nil fields of u copied over it.
// RollNo is never touched.
func (u StudentUpdate) Apply(s Student) Student {
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Course != nil {
		s.Course = *u.Course
	}
	if u.Semester != nil {
		s.Semester = *u.Semester
	}
	return s
}

// Order selects how a listing is sorted.
type Order int

const (
	// OrderNone returns records in insertion order.
	OrderNone Order = iota
	// OrderByName sorts by name ascending, roll number breaking ties.
	OrderByName
)

// ParseOrder maps the "sort" query value used by the HTTP API.
func ParseOrder(s string) (Order, bool) {
	switch s {
	case "":
		return OrderNone, true
	case "name":
		return OrderByName, true
	default:
		return OrderNone, false
	}
}
