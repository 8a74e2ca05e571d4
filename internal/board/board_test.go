package board

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

func due(days int) *time.Time {
	d := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return &d
}

func fixture() []*task.Task {
	parent := 1
	return []*task.Task{
		{ID: 1, Description: "Plan trip", Priority: task.Medium, DueDate: due(-2)},
		{ID: 2, Description: "Book flights", Priority: task.High, ParentID: &parent, Links: []string{"https://airline.example"}},
		{ID: 3, Description: "Pack", Priority: task.High, DueDate: due(3), Completed: true, Status: task.Done},
		{ID: 4, Description: "Water plants", Priority: task.Low, Status: task.OnHold},
	}
}

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func ids(tasks []*task.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	parent := 1
	tests := []struct {
		name string
		opts FilterOptions
		want []int
	}{
		{"none", FilterOptions{}, []int{1, 2, 3, 4}},
		{"hide completed", FilterOptions{HideCompleted: true}, []int{1, 2, 4}},
		{"priority", FilterOptions{Priorities: []task.Priority{task.High}}, []int{2, 3}},
		{"status", FilterOptions{Statuses: []task.Status{task.OnHold}}, []int{4}},
		{"overdue", FilterOptions{Overdue: true}, []int{1}},
		{"parent", FilterOptions{ParentID: &parent}, []int{2}},
		{"search description", FilterOptions{Search: "PLANT"}, []int{4}},
		{"search links", FilterOptions{Search: "airline"}, []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Now = now
			assert.Equal(t, tt.want, ids(Filter(fixture(), tt.opts)))
		})
	}
}

func TestSortPriorityMatchesStoreOrder(t *testing.T) {
	tasks := fixture()
	Sort(tasks, FieldPriority, false)
	// High: 3 has a due date, 2 does not. Then Medium, then Low.
	assert.Equal(t, []int{3, 2, 1, 4}, ids(tasks))

	Sort(tasks, FieldDue, false)
	assert.Equal(t, []int{1, 3, 2, 4}, ids(tasks))

	Sort(tasks, FieldDescription, true)
	assert.Equal(t, []int{4, 1, 3, 2}, ids(tasks))
}

func TestValidateSortField(t *testing.T) {
	assert.NoError(t, ValidateSortField("due"))
	assert.Error(t, ValidateSortField("owner"))
}

func TestSummary(t *testing.T) {
	ov := Summary(fixture(), now)
	assert.Equal(t, 4, ov.TotalTasks)
	assert.Equal(t, 1, ov.Completed)
	assert.Equal(t, 1, ov.Overdue)
	assert.Equal(t, 1, ov.Subtasks)
	require.Len(t, ov.Statuses, len(task.Statuses))
	assert.Equal(t, StatusCount{Status: "New", Count: 2, Overdue: 1}, ov.Statuses[0])
	assert.Equal(t, PriorityCount{Priority: "High", Count: 2}, ov.Priorities[0])
}

func TestJournal(t *testing.T) {
	dir := t.TempDir()
	j := NewJournal(dir)
	j.Record(ActionCreate, 1, "Plan trip")
	j.Record(ActionDelete, 1, "Plan trip")

	entries, err := ReadLog(dir, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionDelete, entries[0].Action)

	all, err := ReadLog(dir, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, filepath.Join(dir, "activity.jsonl"), j.Path())

	none, err := ReadLog(t.TempDir(), 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	Journal{}.Record(ActionCreate, 1, "discarded")
	assert.Equal(t, "", Journal{}.Path())
}

func TestLogTruncation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, logFileName)

	var buf []byte
	line := []byte(`{"action":"create","task_id":1}` + "\n")
	for i := 0; i < maxLogEntries; i++ {
		buf = append(buf, line...)
	}
	require.NoError(t, os.WriteFile(path, buf, logFileMode))

	require.NoError(t, AppendLog(dir, LogEntry{Action: ActionDelete, TaskID: 2}))
	entries, err := ReadLog(dir, 0)
	require.NoError(t, err)
	assert.Len(t, entries, maxLogEntries)
	assert.Equal(t, ActionDelete, entries[len(entries)-1].Action)
}
