// Package board provides list-level operations on task collections:
// filtering, sorting, summaries, and the activity log.
package board

import (
	"time"

	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

// StatusCount holds the number of tasks in one status.
type StatusCount struct {
	Status  string `json:"status"`
	Count   int    `json:"count"`
	Overdue int    `json:"overdue"`
}

// PriorityCount holds the number of tasks at one priority.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

// Overview is the aggregate view of a task list.
type Overview struct {
	TotalTasks int             `json:"total_tasks"`
	Completed  int             `json:"completed"`
	Overdue    int             `json:"overdue"`
	Subtasks   int             `json:"subtasks"`
	Statuses   []StatusCount   `json:"statuses"`
	Priorities []PriorityCount `json:"priorities"`
}

// Summary computes counts per status and priority.
func Summary(tasks []*task.Task, now time.Time) Overview {
	byStatus := make(map[task.Status]*StatusCount, len(task.Statuses))
	for _, s := range task.Statuses {
		byStatus[s] = &StatusCount{Status: s.String()}
	}
	byPriority := make(map[task.Priority]int, len(task.Priorities))

	ov := Overview{TotalTasks: len(tasks)}
	for _, t := range tasks {
		overdue := t.IsOverdue(now)
		if sc, ok := byStatus[t.Status]; ok {
			sc.Count++
			if overdue {
				sc.Overdue++
			}
		}
		byPriority[t.Priority]++
		if t.Completed {
			ov.Completed++
		}
		if overdue {
			ov.Overdue++
		}
		if t.IsSubtask() {
			ov.Subtasks++
		}
	}

	for _, s := range task.Statuses {
		ov.Statuses = append(ov.Statuses, *byStatus[s])
	}
	// Highest priority first, matching list order.
	for i := len(task.Priorities) - 1; i >= 0; i-- {
		p := task.Priorities[i]
		ov.Priorities = append(ov.Priorities, PriorityCount{Priority: p.String(), Count: byPriority[p]})
	}
	return ov
}
