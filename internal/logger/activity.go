package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is the layout of the first line of every activity record
const TimestampLayout = "2006-01-02 15:04:05"

// ActivityRecord is one executed command as written to the activity log
type ActivityRecord struct {
	Started time.Time
	Name    string
	Command string
	Output  string
}

// ActivityLog appends execution records to a text file. The file is only ever
// appended to so `tail -F` followers keep working.
type ActivityLog struct {
	Path string
}

// NewActivityLog creates the log file and its directory when missing
func NewActivityLog(path string) (*ActivityLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("Failed to create activity log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("Failed to open activity log `%s`: %w", path, err)
	}

	return &ActivityLog{Path: path}, file.Close()
}

// Format renders a record: timestamp, name and command lines, a blank line,
// the captured output and a trailing blank line
func (record ActivityRecord) Format() string {
	var builder strings.Builder

	builder.WriteString("[" + record.Started.Format(TimestampLayout) + "]\n")
	builder.WriteString(record.Name + "\n")
	builder.WriteString("$ " + record.Command + "\n\n")
	builder.WriteString(record.Output)

	if record.Output != "" && !strings.HasSuffix(record.Output, "\n") {
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	return builder.String()
}

// Append writes a single record with one write call
func (activityLog *ActivityLog) Append(record ActivityRecord) error {
	if activityLog == nil || activityLog.Path == "" {
		return nil
	}

	file, err := os.OpenFile(activityLog.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("Failed to open activity log `%s`: %w", activityLog.Path, err)
	}
	defer file.Close()

	if _, err := file.WriteString(record.Format()); err != nil {
		return fmt.Errorf("Failed to write activity log `%s`: %w", activityLog.Path, err)
	}

	return nil
}
