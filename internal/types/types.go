// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Student represents a student record in our system.
//
// Struct tags serve two purposes:
//
//  1. json:"..." — controls how the field appears when encoded to JSON.
//  2. db:"..."   — the column name sqlx maps the field to when scanning
//     rows or binding :named parameters.
//
// ID is supplied by the caller; it is never generated by the database.
type Student struct {
	ID         int64        `json:"id"         db:"id"`
	Name       string       `json:"name"       db:"name"`
	Branch     string       `json:"branch"     db:"branch"`
	Year       string       `json:"year"       db:"year"`
	Attendance int          `json:"attendance" db:"attendance"`
	Subjects   SubjectMarks `json:"subjects"   db:"subjects"`
	FeesPaid   bool         `json:"fees_paid"  db:"fees_paid"`
}

// SubjectMarks is the fixed set of marks kept for every student.
//
// It is stored in a single TEXT column as a JSON object. Value and Scan
// below implement driver.Valuer and sql.Scanner so database/sql (and sqlx)
// serialise and deserialise the column without any handler involvement.
type SubjectMarks struct {
	Maths   int `json:"Maths"`
	Physics int `json:"Physics"`
	English int `json:"English"`
}

// Value encodes the marks as JSON text for the subjects column.
func (m SubjectMarks) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("SubjectMarks.Value: %w", err)
	}
	return string(b), nil
}

// Scan decodes the subjects column. SQLite hands TEXT back as string or
// []byte depending on how it was written, so both are accepted.
func (m *SubjectMarks) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	case nil:
		return errors.New("SubjectMarks.Scan: subjects column is NULL")
	default:
		return fmt.Errorf("SubjectMarks.Scan: unsupported type %T", src)
	}

	var decoded SubjectMarks
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("SubjectMarks.Scan: %w", err)
	}

	*m = decoded
	return nil
}

// StudentInput is the request-body shape for POST and PUT.
//
// Every field is a pointer so that "missing" and "zero" can be told apart:
// validate:"required" on a pointer only checks that the key was present,
// which lets attendance 0, fees_paid false or an empty name through.
type StudentInput struct {
	ID         *int64             `json:"id"         validate:"required"`
	Name       *string            `json:"name"       validate:"required"`
	Branch     *string            `json:"branch"     validate:"required"`
	Year       *string            `json:"year"       validate:"required"`
	Attendance *int               `json:"attendance" validate:"required"`
	Subjects   *SubjectMarksInput `json:"subjects"   validate:"required"`
	FeesPaid   *bool              `json:"fees_paid"  validate:"required"`
}

// SubjectMarksInput is the nested marks object of StudentInput. All three
// marks must be present; any other key is ignored by the JSON decoder.
type SubjectMarksInput struct {
	Maths   *int `json:"Maths"   validate:"required"`
	Physics *int `json:"Physics" validate:"required"`
	English *int `json:"English" validate:"required"`
}

// Student converts a validated input into the domain model.
// Call it only after validation has passed; nil fields would panic.
func (in StudentInput) Student() Student {
	return Student{
		ID:         *in.ID,
		Name:       *in.Name,
		Branch:     *in.Branch,
		Year:       *in.Year,
		Attendance: *in.Attendance,
		Subjects: SubjectMarks{
			Maths:   *in.Subjects.Maths,
			Physics: *in.Subjects.Physics,
			English: *in.Subjects.English,
		},
		FeesPaid: *in.FeesPaid,
	}
}
