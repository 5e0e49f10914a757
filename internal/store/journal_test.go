package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skalanux/ktm/internal/model"
)

func received(t *testing.T, id uint32, summary string) model.Record {
	t.Helper()
	r, err := model.NewReceived(id)
	require.NoError(t, err)
	r.AppName = "test"
	r.Summary = summary
	return *r
}

func TestOpenJSONLJournal_WritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history.jsonl")

	j, err := OpenJSONLJournal(path)
	require.NoError(t, err)
	defer j.Close()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "ktm_schema_version")
	assert.Equal(t, path, j.Path())
}

func TestJSONLJournal_AppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	j, err := OpenJSONLJournal(path)
	require.NoError(t, err)

	require.NoError(t, j.Append(received(t, 1, "first")))
	closed, err := model.NewClosed(1, "expired")
	require.NoError(t, err)
	require.NoError(t, j.Append(*closed))

	records, err := j.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0].Summary)
	assert.Equal(t, model.EventClosed, records[1].Event)

	// Appending after Load still goes to the end.
	require.NoError(t, j.Append(received(t, 2, "second")))
	require.NoError(t, j.Close())

	records, err = ReadJournal(path)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "second", records[2].Summary)
}

func TestJSONLJournal_ReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	j, err := OpenJSONLJournal(path)
	require.NoError(t, err)
	require.NoError(t, j.Append(received(t, 1, "kept")))
	require.NoError(t, j.Close())

	j, err = OpenJSONLJournal(path)
	require.NoError(t, err)
	defer j.Close()

	records, err := j.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0].Summary)
}

func TestJSONLJournal_RejectsInvalidRecord(t *testing.T) {
	j, err := OpenJSONLJournal(filepath.Join(t.TempDir(), "history.jsonl"))
	require.NoError(t, err)
	defer j.Close()

	assert.ErrorIs(t, j.Append(model.Record{}), model.ErrEmptyID)
}

func TestJSONLJournal_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	j, err := OpenJSONLJournal(path)
	require.NoError(t, err)
	require.NoError(t, j.Append(received(t, 1, "good")))
	require.NoError(t, j.Close())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n{\"id\":\"\"}\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	records, err := ReadJournal(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].Summary)
}

func TestJSONLJournal_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	j, err := OpenJSONLJournal(path)
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Append(received(t, 1, "gone")))
	require.NoError(t, j.Clear())

	records, err := j.Load()
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, j.Append(received(t, 2, "after")))
	records, err = j.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestJSONLJournal_Closed(t *testing.T) {
	j, err := OpenJSONLJournal(filepath.Join(t.TempDir(), "history.jsonl"))
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.NoError(t, j.Close())

	assert.ErrorIs(t, j.Append(received(t, 1, "x")), ErrJournalClosed)
	_, err = j.Load()
	assert.ErrorIs(t, err, ErrJournalClosed)
	assert.ErrorIs(t, j.Clear(), ErrJournalClosed)
}

func TestReadJournal_MissingFile(t *testing.T) {
	records, err := ReadJournal(filepath.Join(t.TempDir(), "none.jsonl"))
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestReadJournal_FutureSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"ktm_schema_version":99,"created_at":1}`+"\n"), 0o600))

	_, err := ReadJournal(path)
	assert.Error(t, err)
}
