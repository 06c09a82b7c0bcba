package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/storage/sqlstore"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

func setupTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()

	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func asha() types.Student {
	return types.Student{
		ID:         1,
		Name:       "Asha",
		Branch:     "CS",
		Year:       "2",
		Attendance: 92,
		Subjects:   types.SubjectMarks{Maths: 88, Physics: 76, English: 81},
		FeesPaid:   true,
	}
}

func TestUpsertThenGetRoundTrips(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertStudents(ctx, []types.Student{asha()}))

	got, err := store.GetStudentByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, asha(), got)
}

func TestUpsertIsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertStudents(ctx, []types.Student{asha()}))
	require.NoError(t, store.UpsertStudents(ctx, []types.Student{asha()}))

	all, err := store.GetStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Student{asha()}, all)
}

func TestUpsertReplacesEveryField(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertStudents(ctx, []types.Student{asha()}))

	replacement := types.Student{
		ID:         1,
		Name:       "Asha K",
		Branch:     "ME",
		Year:       "3",
		Attendance: 0,
		Subjects:   types.SubjectMarks{Maths: 1, Physics: 2, English: 3},
		FeesPaid:   false,
	}
	require.NoError(t, store.UpsertStudents(ctx, []types.Student{replacement}))

	got, err := store.GetStudentByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, replacement, got)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetStudentByID(context.Background(), 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetStudentsEmptyIsNotNil(t *testing.T) {
	store := setupTestStore(t)

	all, err := store.GetStudents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestUpdateUsesPathID(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertStudents(ctx, []types.Student{asha()}))

	changed := asha()
	changed.ID = 99 // ignored, the id argument wins
	changed.Attendance = 95

	affected, err := store.UpdateStudentByID(ctx, 1, changed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := store.GetStudentByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, 95, got.Attendance)

	_, err = store.GetStudentByID(ctx, 99)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateMissingIsSilent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	affected, err := store.UpdateStudentByID(ctx, 5, asha())
	require.NoError(t, err)
	assert.Zero(t, affected)

	_, err = store.GetStudentByID(ctx, 5)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteThenGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertStudents(ctx, []types.Student{asha()}))
	require.NoError(t, store.DeleteStudentByID(ctx, 1))

	_, err := store.GetStudentByID(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Deleting again is still a success.
	assert.NoError(t, store.DeleteStudentByID(ctx, 1))
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertStudents(ctx, []types.Student{asha()}))
	require.NoError(t, store.EnsureSchema(ctx))

	got, err := store.GetStudentByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, asha(), got)
}

func TestReadsRowsWrittenByPreviousService(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.DB().ExecContext(ctx,
		"INSERT INTO students VALUES (?, ?, ?, ?, ?, ?, ?)",
		3, "Meera", "IT", "1", 70, `{"Maths": 60, "Physics": 65, "English": 90}`, 0)
	require.NoError(t, err)

	got, err := store.GetStudentByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, types.Student{
		ID:         3,
		Name:       "Meera",
		Branch:     "IT",
		Year:       "1",
		Attendance: 70,
		Subjects:   types.SubjectMarks{Maths: 60, Physics: 65, English: 90},
		FeesPaid:   false,
	}, got)
}

func TestDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.db")
	ctx := context.Background()

	store, err := New(path)
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.UpsertStudents(ctx, []types.Student{asha()}))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.EnsureSchema(ctx))

	got, err := reopened.GetStudentByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, asha(), got)
}
