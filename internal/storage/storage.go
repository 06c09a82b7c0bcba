// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// Handlers only depend on this interface, so the SQLite and PostgreSQL
// backends are interchangeable and tests can pass a fake.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/student-records-api/internal/types"
)

// ErrNotFound is returned by lookups that match no row.
// Compare with errors.Is, the backends may wrap it.
var ErrNotFound = errors.New("student not found")

// Storage is the database contract.
type Storage interface {
	// EnsureSchema creates the students table if it does not exist yet.
	// It is idempotent and is called once at startup.
	EnsureSchema(ctx context.Context) error

	// UpsertStudents inserts every student, fully replacing any existing
	// row with the same id. Records are written one by one; there is no
	// transaction around the batch.
	UpsertStudents(ctx context.Context, students []types.Student) error

	// GetStudents returns every student in storage order.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// GetStudentByID fetches a single student by id or returns ErrNotFound.
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)

	// UpdateStudentByID rewrites every field except id of the row at id
	// and reports how many rows matched. Zero matches is not an error.
	UpdateStudentByID(ctx context.Context, id int64, student types.Student) (int64, error)

	// DeleteStudentByID removes the row at id, if any.
	DeleteStudentByID(ctx context.Context, id int64) error

	// Close releases the underlying database handle.
	Close() error
}
