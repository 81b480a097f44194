package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hexwalk/hexwalk/internal/drawer"
	"github.com/hexwalk/hexwalk/internal/locale"
)

// Fixed column widths; the name column absorbs the remaining width.
const (
	colSwatchWidth = 2
	colOffsetWidth = 24
	colSizeWidth   = 8
	colTypeWidth   = 18
	colValueWidth  = 22
	colGap         = 2
)

// patternTable presents drawer rows with a cursor. It owns no pattern
// state of its own; expansion, pagination and sorting all live in the
// drawer it wraps.
type patternTable struct {
	rows   []drawer.Row
	cursor int
	top    int
	width  int
	height int
}

func (t *patternTable) setRows(rows []drawer.Row) {
	t.rows = rows
	if t.cursor >= len(rows) {
		t.cursor = len(rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.clampScroll()
}

func (t *patternTable) current() (drawer.Row, bool) {
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return drawer.Row{}, false
	}
	return t.rows[t.cursor], true
}

func (t *patternTable) moveCursor(delta int) {
	t.cursor += delta
	if t.cursor < 0 {
		t.cursor = 0
	}
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	t.clampScroll()
}

func (t *patternTable) toTop() {
	t.cursor = 0
	t.clampScroll()
}

func (t *patternTable) toBottom() {
	t.cursor = len(t.rows) - 1
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.clampScroll()
}

func (t *patternTable) resize(width, height int) {
	t.width = width
	t.height = height
	t.clampScroll()
}

// bodyHeight is the rows visible under the header line.
func (t *patternTable) bodyHeight() int {
	if t.height <= 1 {
		return 0
	}
	return t.height - 1
}

func (t *patternTable) clampScroll() {
	body := t.bodyHeight()
	if body <= 0 {
		t.top = 0
		return
	}
	if t.cursor < t.top {
		t.top = t.cursor
	}
	if t.cursor >= t.top+body {
		t.top = t.cursor - body + 1
	}
	if t.top < 0 {
		t.top = 0
	}
}

func (t *patternTable) nameWidth() int {
	fixed := colSwatchWidth + colOffsetWidth + colSizeWidth + colTypeWidth + colValueWidth + 5*colGap
	w := t.width - fixed
	if w < 12 {
		w = 12
	}
	return w
}

var sortColumnKeys = map[drawer.SortKey]string{
	drawer.SortName:   "hexwalk.pattern.column.name",
	drawer.SortColor:  "hexwalk.pattern.column.color",
	drawer.SortOffset: "hexwalk.pattern.column.offset",
	drawer.SortSize:   "hexwalk.pattern.column.size",
	drawer.SortType:   "hexwalk.pattern.column.type",
	drawer.SortValue:  "hexwalk.pattern.column.value",
}

// columnHeader returns the translated column title, decorated with the
// sort arrow when its column is the active sort key.
func columnHeader(column drawer.SortKey, active drawer.SortKey, dir drawer.SortDirection) string {
	title := locale.Translate(sortColumnKeys[column])
	if column != active {
		return title
	}
	if dir == drawer.SortAscending {
		return title + " ▲"
	}
	return title + " ▼"
}

func (t *patternTable) headerLine(st Styles, key drawer.SortKey, dir drawer.SortDirection) string {
	gap := strings.Repeat(" ", colGap)
	cells := []string{
		padRight(columnHeader(drawer.SortName, key, dir), t.nameWidth()),
		padRight("", colSwatchWidth),
		padRight(columnHeader(drawer.SortOffset, key, dir), colOffsetWidth),
		padRight(columnHeader(drawer.SortSize, key, dir), colSizeWidth),
		padRight(columnHeader(drawer.SortType, key, dir), colTypeWidth),
		padRight(columnHeader(drawer.SortValue, key, dir), colValueWidth),
	}
	return st.Header.Render(padRight(strings.Join(cells, gap), t.width))
}

// rowMarker is the expand indicator in front of a row name.
func rowMarker(row drawer.Row) string {
	switch {
	case row.Kind == drawer.RowMore:
		return " "
	case row.Expandable && row.Expanded:
		return "▼"
	case row.Expandable:
		return "▶"
	case row.Kind == drawer.RowSealed:
		return "▪"
	default:
		return " "
	}
}

// renderRow lays out one drawer row. The name and value cells take the
// highlight color while the row's bytes overlap the hex selection; the
// cursor row is overlaid with the selection style wholesale.
func (t *patternTable) renderRow(st Styles, row drawer.Row, isCursor bool) string {
	indent := strings.Repeat("  ", row.Depth)
	name := truncate(indent+rowMarker(row)+" "+row.Name, t.nameWidth())

	swatch := strings.Repeat(" ", colSwatchWidth)
	if row.ShowSwatch {
		swatch = padRight(swatchStyle(row.Color).Render("■"), colSwatchWidth)
	}

	nameStyle := st.Text
	valueStyle := st.Text
	if row.Highlighted {
		nameStyle = st.Highlight
		valueStyle = st.Highlight
	}
	if row.Kind == drawer.RowMore {
		nameStyle = st.MutedText
	}

	gap := strings.Repeat(" ", colGap)
	cells := []string{
		nameStyle.Render(padRight(name, t.nameWidth())),
		swatch,
		st.OffsetText.Render(padRight(truncate(row.OffsetText, colOffsetWidth), colOffsetWidth)),
		st.MutedText.Render(padRight(truncate(row.SizeText, colSizeWidth), colSizeWidth)),
		st.TypeText.Render(padRight(truncate(row.TypeText, colTypeWidth), colTypeWidth)),
		valueStyle.Render(truncate(row.ValueText, colValueWidth)),
	}
	line := strings.Join(cells, gap)

	if isCursor {
		plain := padRight(truncate(indent+rowMarker(row)+" "+row.Name, t.nameWidth()), t.nameWidth()) + gap
		if row.ShowSwatch {
			plain += padRight("■", colSwatchWidth)
		} else {
			plain += strings.Repeat(" ", colSwatchWidth)
		}
		plain += gap + padRight(truncate(row.OffsetText, colOffsetWidth), colOffsetWidth)
		plain += gap + padRight(truncate(row.SizeText, colSizeWidth), colSizeWidth)
		plain += gap + padRight(truncate(row.TypeText, colTypeWidth), colTypeWidth)
		plain += gap + truncate(row.ValueText, colValueWidth)
		return st.Selected.Render(padRight(plain, t.width))
	}
	return line
}

func (t *patternTable) view(st Styles, key drawer.SortKey, dir drawer.SortDirection) string {
	var b strings.Builder
	b.WriteString(t.headerLine(st, key, dir))

	body := t.bodyHeight()
	for i := 0; i < body; i++ {
		b.WriteByte('\n')
		idx := t.top + i
		if idx >= len(t.rows) {
			continue
		}
		b.WriteString(t.renderRow(st, t.rows[idx], idx == t.cursor))
	}
	return b.String()
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
