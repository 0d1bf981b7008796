package output

import (
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
)

const defaultTermWidth = 80

// TerminalWidth returns the width of the terminal behind w. When w is not a
// terminal, a positive $COLUMNS is honoured, then defaultTermWidth.
func TerminalWidth(w io.Writer) int {
	type fder interface{ Fd() uintptr }
	if f, ok := w.(fder); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 { //nolint:gosec // file descriptors fit in int on all supported platforms
			return width
		}
	}
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		return cols
	}
	return defaultTermWidth
}

// Table describes a wrapping table.
type Table struct {
	Header []string
	Rows   [][]string
	// MinColWidth floors the per-column wrap width.
	MinColWidth int
	// Overhead is the width taken by borders, padding and short columns.
	Overhead int
	// Grouped merges repeated first-column cells and separates the groups.
	Grouped bool
}

// Render writes t to w, wrapping cells to fit the terminal.
func (t Table) Render(w io.Writer) error {
	maxColWidth := max(t.MinColWidth, TerminalWidth(w)-t.Overhead)
	formatting := tw.CellFormatting{AutoWrap: tw.WrapNormal}
	opts := []tablewriter.Option{}
	if t.Grouped {
		formatting.MergeMode = tw.MergeHierarchical
		opts = append(opts, tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.On}},
		})))
	}
	opts = append(opts, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Formatting:   formatting,
			ColMaxWidths: tw.CellWidth{Global: maxColWidth},
		},
	}))

	table := tablewriter.NewTable(w, opts...)
	table.Header(t.Header)
	if err := table.Bulk(t.Rows); err != nil {
		return err
	}
	return table.Render()
}
