package adapter

import (
	"testing"

	m "github.com/mouse-blink/bugscope/internal/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStore_CreateAndLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewEventStoreFs(fs)

	writer, err := store.Create(m.Path("sessions/run-1.jsonl"))
	require.NoError(t, err)

	require.NoError(t, writer.Append([]byte("{\n  \"type\": \"setCurrentProcess\",\n  \"payload\": {\"processName\": \"Split File\"}\n}")))
	require.NoError(t, writer.Append([]byte(`{"type":"evaluate","payload":{"result":{"status":"success"}}}`)))
	require.NoError(t, writer.Append([]byte("not\njson")))
	require.NoError(t, writer.Close())

	raw, err := afero.ReadFile(fs, "sessions/run-1.jsonl")
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"setCurrentProcess","payload":{"processName":"Split File"}}`+"\n"+
			`{"type":"evaluate","payload":{"result":{"status":"success"}}}`+"\n"+
			"not json\n",
		string(raw))

	messages, err := store.Load(m.Path("sessions/run-1.jsonl"))
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, `{"type":"setCurrentProcess","payload":{"processName":"Split File"}}`, string(messages[0]))
	assert.Equal(t, "not json", string(messages[2]))
}

func TestEventStore_CreateTruncates(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "run.jsonl", []byte("old\nlines\n"), 0o644))

	store := NewEventStoreFs(fs)

	writer, err := store.Create(m.Path("run.jsonl"))
	require.NoError(t, err)
	require.NoError(t, writer.Append([]byte(`{"a":1}`)))
	require.NoError(t, writer.Close())

	messages, err := store.Load(m.Path("run.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte(`{"a":1}`)}, messages)
}

func TestEventStore_LoadSkipsBlankLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "run.jsonl", []byte("\n{\"a\":1}\n   \n{\"b\":2}\n"), 0o644))

	messages, err := NewEventStoreFs(fs).Load(m.Path("run.jsonl"))
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestEventStore_LoadMissingFile(t *testing.T) {
	_, err := NewEventStoreFs(afero.NewMemMapFs()).Load(m.Path("missing.jsonl"))
	assert.Error(t, err)
}
