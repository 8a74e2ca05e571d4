package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

func TestFormatTask(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)
	parent := 1

	tests := []struct {
		name     string
		task     *task.Task
		children []*task.Task
		want     string
	}{
		{
			name: "plain",
			task: &task.Task{Description: "Write", Priority: task.Medium},
			want: "[ ] 🟡 Write",
		},
		{
			name: "completed high",
			task: &task.Task{Description: "Ship", Priority: task.High, Completed: true},
			want: "[✓] 🔴 Ship",
		},
		{
			name: "overdue",
			task: &task.Task{Description: "Late", DueDate: &past},
			want: "[ ] 🟢 Late (Due: " + past.Format("2006-01-02 15:04") + " - OVERDUE!)",
		},
		{
			name: "completed past due is not overdue",
			task: &task.Task{Description: "Done", DueDate: &past, Completed: true},
			want: "[✓] 🟢 Done (Due: " + past.Format("2006-01-02 15:04") + ")",
		},
		{
			name: "future due",
			task: &task.Task{Description: "Soon", DueDate: &future},
			want: "[ ] 🟢 Soon (Due: " + future.Format("2006-01-02 15:04") + ")",
		},
		{
			name: "links subtask progress",
			task: &task.Task{Description: "Part", Links: []string{"a", "b"}, ParentID: &parent, Progress: 40},
			want: "[ ] 🟢 Part 🔗2 [subtask] [40%]",
		},
		{
			name: "children ratio",
			task: &task.Task{Description: "Parent"},
			children: []*task.Task{
				{Completed: true}, {Completed: false}, {Completed: true},
			},
			want: "[ ] 🟢 Parent [2/3 subtasks]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTask(tt.task, tt.children, now))
		})
	}
}

func TestFormatTaskIsPure(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	tk := &task.Task{Description: "x", Links: []string{"a"}}
	before := *tk.Clone()
	_ = FormatTask(tk, nil, now)
	assert.Equal(t, before, *tk)
}
