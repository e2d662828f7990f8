// Package output renders command results: aligned tables for humans
// and an indented JSON envelope for machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table is the project-owned table abstraction over
// go-pretty/v6/table. Headers are upper-cased and the style is kept
// borderless so output stays grep- and cut-friendly.
type Table struct {
	w table.Writer
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	w := table.NewWriter()

	style := table.StyleDefault
	style.Options = table.OptionsNoBordersAndSeparators
	style.Box.PaddingLeft = ""
	style.Box.PaddingRight = "  "
	w.SetStyle(style)

	row := make(table.Row, len(headers))
	for i, h := range headers {
		row[i] = strings.ToUpper(h)
	}
	w.AppendHeader(row)

	return &Table{w: w}
}

// AddRow appends one data row.
func (t *Table) AddRow(values ...any) {
	row := make(table.Row, len(values))
	copy(row, values)
	t.w.AppendRow(row)
}

// Render writes the table to w with a trailing newline.
func (t *Table) Render(w io.Writer) error {
	_, err := fmt.Fprintln(w, t.w.Render())
	return err
}

// FormatRepoStatus renders the ahead/modified counters of one repo the
// way status and list show them: "clean", "2 ahead", "3 modified", or
// "2 ahead, 3 modified".
func FormatRepoStatus(ahead, modified int) string {
	if ahead == 0 && modified == 0 {
		return "clean"
	}
	var parts []string
	if ahead > 0 {
		parts = append(parts, fmt.Sprintf("%d ahead", ahead))
	}
	if modified > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", modified))
	}
	return strings.Join(parts, ", ")
}

// PrintJSON writes v as indented JSON, the structured form every
// command emits under --json.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Mutation is the JSON result of a state-changing command.
type Mutation struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// FetchRepo is the JSON result of one repo in a fetch run.
type FetchRepo struct {
	Identity  string `json:"identity"`
	ShortName string `json:"shortname"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}
