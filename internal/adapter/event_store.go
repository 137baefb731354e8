package adapter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	m "github.com/mouse-blink/bugscope/internal/model"
	"github.com/spf13/afero"
)

const maxRecordedMessage = 16 << 20

// EventStore persists raw pipeline messages as JSON lines so a session can be
// replayed later.
type EventStore interface {
	Create(path m.Path) (EventWriter, error)
	Load(path m.Path) ([][]byte, error)
}

// EventWriter appends messages to a recording.
type EventWriter interface {
	Append(raw []byte) error
	Close() error
}

type eventStore struct {
	fs afero.Fs
}

// NewEventStore constructs an EventStore on the local filesystem.
func NewEventStore() EventStore {
	return NewEventStoreFs(afero.NewOsFs())
}

// NewEventStoreFs constructs an EventStore on fs.
func NewEventStoreFs(fs afero.Fs) EventStore {
	return &eventStore{fs: fs}
}

// Create truncates or creates the recording at path, creating parent
// directories as needed.
func (s *eventStore) Create(path m.Path) (EventWriter, error) {
	if dir := filepath.Dir(string(path)); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create recording directory: %w", err)
		}
	}

	file, err := s.fs.OpenFile(string(path), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}

	return &eventWriter{file: file, buf: bufio.NewWriter(file)}, nil
}

// Load returns the recorded messages in order, skipping blank lines.
func (s *eventStore) Load(path m.Path) ([][]byte, error) {
	file, err := s.fs.Open(string(path))
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordedMessage)

	var messages [][]byte

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		messages = append(messages, bytes.Clone(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read recording %s: %w", path, err)
	}

	return messages, nil
}

type eventWriter struct {
	file afero.File
	buf  *bufio.Writer
}

// Append writes raw as a single line. Valid JSON is compacted; anything else
// is kept with its line breaks replaced by spaces.
func (w *eventWriter) Append(raw []byte) error {
	var line bytes.Buffer
	if err := json.Compact(&line, raw); err != nil {
		line.Reset()
		flat := bytes.ReplaceAll(raw, []byte("\r"), []byte(" "))
		line.Write(bytes.ReplaceAll(flat, []byte("\n"), []byte(" ")))
	}

	line.WriteByte('\n')

	if _, err := w.buf.Write(line.Bytes()); err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	return w.buf.Flush()
}

func (w *eventWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		_ = w.file.Close()
		return err
	}

	return w.file.Close()
}
