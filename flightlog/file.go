package flightlog

import (
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jigyokei-ai/modelroute"
)

const fileHeader = "# Model Flight Log\n\n| Timestamp | Task | Model | Tier | Outcome |\n| :--- | :--- | :--- | :--- | :--- |\n"

// FileLog appends flight entries to a file as markdown table rows, one row
// per entry. Retention is the writer's concern, not the log's.
type FileLog struct {
	mu sync.Mutex
	w  io.WriteCloser
}

var _ modelroute.FlightLog = (*FileLog)(nil)

// NewFile opens (or creates) the flight log file at path in append mode.
// A freshly created file gets the table header first.
func NewFile(path string) (*FileLog, error) {
	info, err := os.Stat(path)
	fresh := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("flightlog: open %s: %w", path, err)
	}

	if fresh {
		if _, err := f.WriteString(fileHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("flightlog: write header: %w", err)
		}
	}

	return &FileLog{w: f}, nil
}

// NewRotatingFile appends to path with size-based rotation. Rotated files
// carry rows only; the header is omitted so rotation stays line-oriented.
func NewRotatingFile(path string, maxSizeMB, maxBackups int) *FileLog {
	return &FileLog{w: &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}}
}

func (l *FileLog) Append(e modelroute.FlightEntry) error {
	status := string(e.Outcome)
	if e.Err != "" {
		status = fmt.Sprintf("%s: %s", e.Outcome, e.Err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := fmt.Fprintf(l.w, "| %s | %s | %s | %d | %s |\n",
		e.Time.UTC().Format("2006-01-02 15:04:05"), e.Category, e.Model, e.Tier+1, status)
	if err != nil {
		return fmt.Errorf("flightlog: append: %w", err)
	}
	return nil
}

// Close closes the underlying writer.
func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Close()
}
