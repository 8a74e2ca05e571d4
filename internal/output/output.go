// Package output formats CLI results as a table, JSON, compact lines, or
// rendered markdown.
package output

import (
	"os"
	"strings"
)

// EnvFormat selects the default output format when no flag is given.
const EnvFormat = "TEMINDER_OUTPUT"

// Format is an output format.
type Format int

// Formats. FormatAuto resolves to FormatTable.
const (
	FormatAuto Format = iota
	FormatJSON
	FormatTable
	FormatCompact
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatTable:
		return "table"
	case FormatCompact:
		return "compact"
	default:
		return "auto"
	}
}

// ParseFormat maps a format name to a Format. "oneline" is an alias for
// compact. Unknown names return FormatAuto and false.
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, true
	case "table":
		return FormatTable, true
	case "compact", "oneline":
		return FormatCompact, true
	default:
		return FormatAuto, false
	}
}

// Detect picks the format from flags, then $TEMINDER_OUTPUT, then table.
// JSON wins over compact, and compact over table, when several flags are set.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}
	if f, ok := ParseFormat(os.Getenv(EnvFormat)); ok {
		return f
	}
	return FormatTable
}
