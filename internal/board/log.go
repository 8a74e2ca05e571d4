package board

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logFileName   = "activity.jsonl"
	logFileMode   = 0o600
	maxLogEntries = 10000 // oldest entries are dropped past this size
)

// Mutation actions recorded in the activity log.
const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionComplete = "complete"
	ActionReopen   = "reopen"
	ActionDelete   = "delete"
	ActionLink     = "link"
	ActionStatus   = "status"
	ActionExport   = "export"
)

// LogEntry represents a single activity log entry.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	TaskID    int       `json:"task_id"`
	Detail    string    `json:"detail"`
}

// Journal appends mutations to the activity log in dir. A zero Journal
// discards everything.
type Journal struct {
	dir string
	now func() time.Time
}

// NewJournal returns a Journal writing to dir/activity.jsonl.
func NewJournal(dir string) Journal {
	return Journal{dir: dir, now: time.Now}
}

// Path returns the log file path, or "" for a discarding Journal.
func (j Journal) Path() string {
	if j.dir == "" {
		return ""
	}
	return filepath.Join(j.dir, logFileName)
}

// Record appends an entry. Errors are discarded because the activity log
// never fails a mutation.
func (j Journal) Record(action string, taskID int, detail string) {
	if j.dir == "" {
		return
	}
	now := time.Now
	if j.now != nil {
		now = j.now
	}
	_ = AppendLog(j.dir, LogEntry{Timestamp: now(), Action: action, TaskID: taskID, Detail: detail})
}

// AppendLog appends a log entry to the activity log file.
// If the log exceeds maxLogEntries, the oldest entries are truncated.
func AppendLog(dir string, entry LogEntry) error {
	path := filepath.Join(dir, logFileName)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // path from trusted config dir
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}

	_ = truncateLogIfNeeded(path)

	return nil
}

// ReadLog returns up to limit of the newest entries, oldest first.
// A missing log file yields no entries. limit <= 0 returns everything.
func ReadLog(dir string, limit int) ([]LogEntry, error) {
	lines, err := readLines(filepath.Join(dir, logFileName))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading activity log: %w", err)
	}

	entries := make([]LogEntry, 0, len(lines))
	for _, line := range lines {
		var e LogEntry
		if json.Unmarshal([]byte(line), &e) == nil {
			entries = append(entries, e)
		}
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// truncateLogIfNeeded rewrites the log keeping only the newest
// maxLogEntries lines.
func truncateLogIfNeeded(path string) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}
	if len(lines) <= maxLogEntries {
		return nil
	}
	lines = lines[len(lines)-maxLogEntries:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(buf.String()), logFileMode)
}
