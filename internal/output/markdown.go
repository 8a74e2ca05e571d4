package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// MarkdownWrap is the word-wrap width for rendered markdown.
const MarkdownWrap = 80

// Markdown renders text as terminal markdown with the given glamour
// standard style ("auto", "dark", "notty", ...). When rendering fails the
// raw text is written instead.
func Markdown(w io.Writer, text, style string) {
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(MarkdownWrap))
	if err != nil {
		fmt.Fprintln(w, text)
		return
	}
	out, err := r.Render(text)
	if err != nil {
		fmt.Fprintln(w, text)
		return
	}
	fmt.Fprint(w, out)
}
