package task

import (
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/teminder/internal/clierr"
)

// ValidateDescription rejects blank descriptions.
func ValidateDescription(desc string) error {
	if strings.TrimSpace(desc) == "" {
		return clierr.New(clierr.InvalidInput, "description cannot be empty")
	}
	return nil
}

// ValidateProgress rejects values outside [0, MaxProgress].
func ValidateProgress(n int) error {
	if n < 0 || n > MaxProgress {
		return clierr.Newf(clierr.InvalidProgress, "progress must be between 0 and %d", MaxProgress).
			WithDetails(map[string]any{"progress": n})
	}
	return nil
}

// ValidateDate returns a CLI error for an unparseable due date.
func ValidateDate(input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid due date: %v", err).
		WithDetails(map[string]any{"input": input})
}

// ValidateTaskID returns a CLI error for an unparseable task ID.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// ParseID parses a positive task ID.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id < 1 {
		return 0, ValidateTaskID(s)
	}
	return id, nil
}

// ParseIDs splits a comma-separated list into deduplicated task IDs.
func ParseIDs(arg string) ([]int, error) {
	parts := strings.Split(arg, ",")
	ids := make([]int, 0, len(parts))
	seen := make(map[int]bool, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		id, err := ParseID(p)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, ValidateTaskID(arg)
	}
	return ids, nil
}
