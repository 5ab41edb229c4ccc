// Package ui renders session and variable listings.
package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/abdullathedruid/rctf/internal/expand"
)

// Messages printed instead of an empty table.
const (
	NoSessions  = "There are currently no sessions."
	NoVariables = "There are currently no variables."
)

// MaxCellWidth caps any single cell so long values do not wrap the table.
const MaxCellWidth = 48

// SessionRow is one line of the session listing.
type SessionRow struct {
	Index int
	Type  string
	Name  string
}

// SessionTable renders sessions as an Index/Type/Name table.
func SessionTable(r *lipgloss.Renderer, rows []SessionRow) string {
	if len(rows) == 0 {
		return NoSessions
	}
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		name := row.Name
		if name == "" {
			name = "-"
		}
		cells = append(cells, []string{
			strconv.Itoa(row.Index),
			row.Type,
			Truncate(name, MaxCellWidth),
		})
	}
	return render(r, []string{"Index", "Type", "Name"}, cells)
}

// VarTable renders variables as a Name/Value table. Control characters in
// values are shown escaped.
func VarTable(r *lipgloss.Renderer, vars []expand.Var) string {
	if len(vars) == 0 {
		return NoVariables
	}
	cells := make([][]string, 0, len(vars))
	for _, v := range vars {
		cells = append(cells, []string{
			Truncate(v.Name, MaxCellWidth),
			Truncate(DisplayValue(v.Value), MaxCellWidth),
		})
	}
	return render(r, []string{"Name", "Value"}, cells)
}

func render(r *lipgloss.Renderer, headers []string, rows [][]string) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("#bfbaaa"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	return t.String()
}

// DisplayValue escapes control characters so a value prints on one line.
func DisplayValue(s string) string {
	q := strconv.Quote(s)
	q = q[1 : len(q)-1]
	// Quote escapes double quotes too; they are fine to show as is
	return strings.ReplaceAll(q, `\"`, `"`)
}

// Truncate shortens a string to fit in the given width.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
