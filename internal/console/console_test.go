package console

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/records"
	"github.com/aanand-mishra/student-records/internal/storage/sqlite"
	"github.com/aanand-mishra/student-records/internal/types"
)

func newStore(t *testing.T) *records.Store {
	t.Helper()
	db, err := sqlite.New(&config.Config{StoragePath: filepath.Join(t.TempDir(), "console.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return records.NewStore(db, records.Options{})
}

// run feeds the lines to a fresh console and returns everything it printed.
func run(t *testing.T, store Store, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(store, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, nil)
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func TestAddAndView(t *testing.T) {
	store := newStore(t)

	out := run(t, store,
		"1", "R2", "Zed Park", "CS", "2",
		"1", "R1", "Ann Lee", "EE", "3",
		"2",
		"6",
	)

	assert.Equal(t, 2, strings.Count(out, msgAdded))
	assert.Contains(t, out, headerList)
	assert.Less(t, strings.Index(out, "Ann Lee"), strings.Index(out, "Zed Park"), "sorted by name")
	assert.True(t, strings.HasSuffix(out, msgBye+"\n"))
}

func TestAddDuplicate(t *testing.T) {
	store := newStore(t)

	out := run(t, store,
		"1", "R1", "Ann", "CS", "1",
		"1", "R1", "Bob", "CS", "1",
		"6",
	)

	assert.Contains(t, out, msgDuplicate)

	got, err := store.Get(context.Background(), "R1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
}

func TestAddValidation(t *testing.T) {
	store := newStore(t)

	out := run(t, store,
		"1", "R1", "Ann", "CS", "six",
		"1", "R1", "Ann9", "CS", "9",
		"6",
	)

	assert.Contains(t, out, msgBadSemester)
	assert.Contains(t, out, "field name should contain only alphabets")
	assert.Contains(t, out, "field semester must be between 1 and 6")

	all, err := store.List(context.Background(), types.OrderNone)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestViewEmpty(t *testing.T) {
	out := run(t, newStore(t), "2", "6")
	assert.Contains(t, out, msgNoStudents)
}

func TestSearch(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	_, err := store.Create(ctx, types.Student{RollNo: "R1", Name: "Smith", Course: "CS", Semester: 1})
	require.NoError(t, err)
	_, err = store.Create(ctx, types.Student{RollNo: "R2", Name: "Jones", Course: "CS", Semester: 1})
	require.NoError(t, err)

	out := run(t, store, "3", "smi", "3", "nobody", "6")

	assert.Contains(t, out, headerFound)
	assert.Contains(t, out, "Smith")
	assert.NotContains(t, out, "Jones")
	assert.Contains(t, out, msgNotFound)
}

func TestUpdate(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	_, err := store.Create(ctx, types.Student{RollNo: "R100", Name: "Ann Lee", Course: "CS", Semester: 3})
	require.NoError(t, err)

	out := run(t, store,
		"4", "R404",
		"4", "R100", "", "", "7",
		"4", "R100", "", "Math", "4",
		"6",
	)

	assert.Contains(t, out, msgNotFound)
	assert.Contains(t, out, "field semester must be between 1 and 6")
	assert.Contains(t, out, msgUpdated)

	got, err := store.Get(ctx, "R100")
	require.NoError(t, err)
	assert.Equal(t, types.Student{RollNo: "R100", Name: "Ann Lee", Course: "Math", Semester: 4}, got)
}

func TestDelete(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	_, err := store.Create(ctx, types.Student{RollNo: "R1", Name: "Ann", Course: "CS", Semester: 1})
	require.NoError(t, err)

	out := run(t, store,
		"5", "R1", "n",
		"5", "R404",
		"5", "R1", "y",
		"6",
	)

	assert.Contains(t, out, msgCancelled)
	assert.Contains(t, out, msgNotFound)
	assert.Contains(t, out, msgDeleted)

	_, err = store.Get(ctx, "R1")
	require.ErrorIs(t, err, records.ErrNotFound)
}

func TestInvalidChoiceAndEOF(t *testing.T) {
	out := run(t, newStore(t), "9", "hello")

	assert.Equal(t, 2, strings.Count(out, msgBadChoice))
	assert.NotContains(t, out, msgBye)
}

func TestEOFMidPrompt(t *testing.T) {
	out := run(t, newStore(t), "1", "R1")
	assert.NotContains(t, out, msgAdded)
}

type failingStore struct{ Store }

func (failingStore) List(context.Context, types.Order) ([]types.Student, error) {
	return nil, errors.New("disk on fire")
}

func TestUnexpectedErrorKeepsRunning(t *testing.T) {
	out := run(t, failingStore{}, "2", "6")

	assert.Contains(t, out, msgUnexpected)
	assert.NotContains(t, out, "disk on fire")
	assert.Contains(t, out, msgBye)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(newStore(t), strings.NewReader("2\n"), &bytes.Buffer{}, nil)
	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
}
