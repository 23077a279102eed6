// Package textutil lays out help text: word wrapping and aligned two-column listings.
package textutil

import (
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// minTextWidth keeps the description column readable on very narrow terminals.
const minTextWidth = 20

// Wrap splits text into lines no wider than width, breaking at whitespace. Runs of whitespace
// collapse to a single space and a word longer than width gets a line of its own. A width of one
// or less puts every word on its own line. Empty text yields no lines.
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if width <= 1 {
		return words
	}
	return strings.Split(wordwrap.WrapString(strings.Join(words, " "), uint(width)), "\n")
}

// Row is one line of a two-column listing.
type Row struct {
	Name string
	Text string
}

// WriteRows writes rows indented by two spaces, with the text column aligned four spaces past the
// longest name and wrapped so lines stay within width.
func WriteRows(w io.Writer, rows []Row, width int) {
	maxLen := 0
	for _, r := range rows {
		maxLen = max(maxLen, len(r.Name))
	}
	nameWidth := maxLen + 4
	wrapWidth := max(width-nameWidth-2, minTextWidth)
	indentPadding := strings.Repeat(" ", nameWidth+2)

	for _, r := range rows {
		lines := Wrap(r.Text, wrapWidth)
		if len(lines) == 0 {
			fmt.Fprintf(w, "  %s\n", r.Name)
			continue
		}
		padding := strings.Repeat(" ", maxLen-len(r.Name)+4)
		fmt.Fprintf(w, "  %s%s%s\n", r.Name, padding, lines[0])
		for _, line := range lines[1:] {
			fmt.Fprintf(w, "%s%s\n", indentPadding, line)
		}
	}
}
