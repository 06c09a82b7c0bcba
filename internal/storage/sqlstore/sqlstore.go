// Package sqlstore implements storage.Storage on top of sqlx.
//
// The SQL needed for the student table is almost identical across
// databases; only the DDL and the upsert statement differ. Those two are
// supplied by a Dialect, everything else lives here once. Queries are
// written with :named parameters or ? placeholders and sqlx rebinds them
// to whatever the driver expects ($1 for pgx, ? for sqlite3).
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

// Dialect carries the driver-specific statements.
type Dialect struct {
	// Name is used in error messages only, e.g. "sqlite".
	Name string

	// CreateTable must be idempotent (CREATE TABLE IF NOT EXISTS).
	CreateTable string

	// Upsert inserts one student or replaces every column of the existing
	// row with the same id. It binds the :named columns of types.Student.
	Upsert string
}

const (
	selectColumns = "SELECT id, name, branch, year, attendance, subjects, fees_paid FROM students"

	updateStudent = `UPDATE students
		SET name = :name, branch = :branch, year = :year, attendance = :attendance,
		    subjects = :subjects, fees_paid = :fees_paid
		WHERE id = :id`

	deleteStudent = "DELETE FROM students WHERE id = ?"
)

// Store is the sqlx-backed implementation of storage.Storage.
type Store struct {
	db      *sqlx.DB
	dialect Dialect
}

var _ storage.Storage = (*Store)(nil)

// New wraps an already opened database handle.
func New(db *sqlx.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB exposes the underlying handle, mainly for tests that need raw SQL.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.CreateTable); err != nil {
		return fmt.Errorf("%s.EnsureSchema: create table: %w", s.dialect.Name, err)
	}
	return nil
}

// UpsertStudents prepares the upsert once and executes it per record.
// A failing record stops the batch; records before it stay written.
func (s *Store) UpsertStudents(ctx context.Context, students []types.Student) error {
	stmt, err := s.db.PrepareNamedContext(ctx, s.dialect.Upsert)
	if err != nil {
		return fmt.Errorf("%s.UpsertStudents: prepare: %w", s.dialect.Name, err)
	}
	defer stmt.Close()

	for _, student := range students {
		if _, err := stmt.ExecContext(ctx, student); err != nil {
			return fmt.Errorf("%s.UpsertStudents: exec id %d: %w", s.dialect.Name, student.ID, err)
		}
	}

	return nil
}

func (s *Store) GetStudents(ctx context.Context) ([]types.Student, error) {
	// Never return nil: an empty table encodes as [] rather than null.
	students := make([]types.Student, 0)

	if err := s.db.SelectContext(ctx, &students, selectColumns); err != nil {
		return nil, fmt.Errorf("%s.GetStudents: select: %w", s.dialect.Name, err)
	}

	return students, nil
}

func (s *Store) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	var student types.Student

	err := s.db.GetContext(ctx, &student, s.db.Rebind(selectColumns+" WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Student{}, storage.ErrNotFound
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("%s.GetStudentByID: get: %w", s.dialect.Name, err)
	}

	return student, nil
}

// UpdateStudentByID always uses the id argument for the WHERE clause,
// whatever student.ID holds.
func (s *Store) UpdateStudentByID(ctx context.Context, id int64, student types.Student) (int64, error) {
	student.ID = id

	result, err := s.db.NamedExecContext(ctx, updateStudent, student)
	if err != nil {
		return 0, fmt.Errorf("%s.UpdateStudentByID: exec: %w", s.dialect.Name, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s.UpdateStudentByID: rows affected: %w", s.dialect.Name, err)
	}

	return affected, nil
}

func (s *Store) DeleteStudentByID(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(deleteStudent), id); err != nil {
		return fmt.Errorf("%s.DeleteStudentByID: exec: %w", s.dialect.Name, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
