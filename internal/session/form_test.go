package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

func TestFormNextWraps(t *testing.T) {
	f := newForm()
	var seen []Field
	for i := 0; i < fieldCount+1; i++ {
		seen = append(seen, f.Active)
		f.Next()
	}
	assert.Equal(t, []Field{FieldDescription, FieldDue, FieldLink, FieldProgress, FieldDescription}, seen)
}

func TestFormProgressDigits(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"single", "7", 7},
		{"two digits", "42", 42},
		{"hundred", "100", 100},
		{"overflow digit ignored", "555", 55},
		{"letters ignored", "4x2", 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Form{Active: FieldProgress}
			for _, r := range tt.input {
				f.Type(r)
			}
			assert.Equal(t, tt.want, f.Progress)
		})
	}
}

func TestFormPlusMinusPerField(t *testing.T) {
	f := &Form{Priority: task.Medium, Active: FieldLink}
	f.Type('+')
	f.Type('-')
	assert.Equal(t, "+-", f.Link)
	assert.Equal(t, task.Medium, f.Priority)

	f.Active = FieldProgress
	f.Progress = 50
	f.Type('+')
	assert.Equal(t, 55, f.Progress)
	f.Type('-')
	f.Type('-')
	assert.Equal(t, 45, f.Progress)
}

func TestFormBackspace(t *testing.T) {
	f := &Form{Description: "café"}
	f.Backspace()
	assert.Equal(t, "caf", f.Description)

	f.Description = ""
	f.Backspace()
	assert.Empty(t, f.Description)

	f.Active = FieldProgress
	f.Progress = 42
	f.Backspace()
	assert.Equal(t, 42, f.Progress)
}

func TestFormValue(t *testing.T) {
	f := &Form{Description: "d", Due: "2025-01-01", Link: "l", Progress: 30}
	assert.Equal(t, "d", f.Value(FieldDescription))
	assert.Equal(t, "2025-01-01", f.Value(FieldDue))
	assert.Equal(t, "l", f.Value(FieldLink))
	assert.Equal(t, "30%", f.Value(FieldProgress))
}

func TestEditFormCopiesTarget(t *testing.T) {
	orig := &task.Task{ID: 3, Description: "orig", Links: []string{"a"}}
	f := editForm(orig)
	f.Target().Links[0] = "changed"
	assert.Equal(t, "a", orig.Links[0])
	assert.Empty(t, f.Link)
}
