package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hexwalk/hexwalk/internal/drawer"
	"github.com/hexwalk/hexwalk/internal/locale"
	"github.com/hexwalk/hexwalk/internal/pattern"
	"github.com/hexwalk/hexwalk/internal/prefs"
)

// Options configure the UI runtime.
type Options struct {
	Context   context.Context
	Roots     []*pattern.Node
	Data      []byte
	FileName  string
	Prefs     prefs.Prefs
	PrefsPath string
}

type focusArea int

const (
	focusPatterns focusArea = iota
	focusHex
)

// sortCycle is the order the sort-column key steps through.
var sortCycle = []drawer.SortKey{
	drawer.SortNone, drawer.SortName, drawer.SortColor, drawer.SortOffset,
	drawer.SortSize, drawer.SortType, drawer.SortValue,
}

type model struct {
	opts Options
	keys keyMap

	theme  Theme
	styles Styles

	drawer *drawer.Drawer
	table  patternTable
	hex    *hexView

	help     viewport.Model
	showHelp bool

	gotoInput textinput.Model
	gotoMode  bool

	focus  focusArea
	width  int
	height int
}

// Run starts the UI and blocks until the user quits or the context is
// cancelled.
func Run(opts Options) error {
	m := newModel(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	if _, err := tea.NewProgram(m, progOpts...).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func newModel(opts Options) *model {
	hex := newHexView(opts.Data, opts.Roots)
	d := drawer.New(hex, locale.Translate)
	d.SetSort(drawer.ParseSortKey(opts.Prefs.SortKey), drawer.ParseSortDirection(opts.Prefs.SortDirection))

	theme := themeByName(opts.Prefs.Theme)

	input := textinput.New()
	input.Prompt = "offset: "
	input.Placeholder = "0x0"
	input.CharLimit = 18

	return &model{
		opts:      opts,
		keys:      defaultKeyMap(),
		theme:     theme,
		styles:    theme.Styles(),
		drawer:    d,
		hex:       hex,
		help:      viewport.New(0, 0),
		gotoInput: input,
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

// refreshRows runs one drawer pass. Any interaction that changes drawer
// state or the selection is followed by a call here so the table reflects
// it on this frame.
func (m *model) refreshRows() {
	m.table.setRows(m.drawer.Render(m.opts.Roots, m.table.bodyHeight()))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		m.refreshRows()
		return m, nil

	case tea.KeyMsg:
		if m.gotoMode {
			return m.updateGoto(msg)
		}
		if m.showHelp {
			return m.updateHelp(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m *model) layout(width, height int) {
	m.width = width
	m.height = height

	// One title line and one status line; the rest splits between the
	// pattern table and the hex pane.
	content := height - 2
	if content < 4 {
		content = 4
	}
	tableHeight := content * 3 / 5
	if tableHeight < 2 {
		tableHeight = 2
	}
	hexHeight := content - tableHeight - 1 // one line for the hex title
	if hexHeight < 1 {
		hexHeight = 1
	}

	m.table.resize(width, tableHeight)
	m.hex.resize(hexHeight)
	m.help.Width = width
	m.help.Height = content
}

func (m *model) updateGoto(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if offset, err := parseOffset(m.gotoInput.Value()); err == nil {
			m.hex.Set(offset, 1)
			m.focus = focusHex
		}
		m.gotoMode = false
		m.refreshRows()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.gotoMode = false
		return m, nil
	}
	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return m, cmd
}

func (m *model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Escape):
		m.showHelp = false
		return m, nil
	}
	var cmd tea.Cmd
	m.help, cmd = m.help.Update(msg)
	return m, cmd
}

func (m *model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.SetContent(m.helpContent())
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.SwitchPane):
		if m.focus == focusPatterns {
			m.focus = focusHex
		} else {
			m.focus = focusPatterns
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = nextTheme(m.theme.Name)
		m.styles = m.theme.Styles()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.GotoOffset):
		m.gotoInput.SetValue("")
		m.gotoInput.Focus()
		m.gotoMode = true
		return m, textinput.Blink

	case key.Matches(msg, m.keys.CycleSortKey):
		keySort, dir := m.drawer.Sort()
		m.drawer.SetSort(nextSortKey(keySort), dir)
		m.savePrefs()
		m.refreshRows()
		return m, nil

	case key.Matches(msg, m.keys.ReverseSort):
		keySort, dir := m.drawer.Sort()
		if dir == drawer.SortAscending {
			dir = drawer.SortDescending
		} else {
			dir = drawer.SortAscending
		}
		m.drawer.SetSort(keySort, dir)
		m.savePrefs()
		m.refreshRows()
		return m, nil
	}

	if m.focus == focusHex {
		return m.updateHex(msg)
	}
	return m.updateTable(msg)
}

func (m *model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.table.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.table.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.table.moveCursor(-m.table.bodyHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.table.moveCursor(m.table.bodyHeight())
	case key.Matches(msg, m.keys.HalfPageUp):
		m.table.moveCursor(-m.table.bodyHeight() / 2)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.table.moveCursor(m.table.bodyHeight() / 2)
	case key.Matches(msg, m.keys.Top):
		m.table.toTop()
	case key.Matches(msg, m.keys.Bottom):
		m.table.toBottom()

	case key.Matches(msg, m.keys.CollapseAll):
		m.drawer.CollapseAll()
		m.refreshRows()

	case key.Matches(msg, m.keys.Toggle):
		if row, ok := m.table.current(); ok && row.Expandable {
			m.drawer.Toggle(row.Key)
			m.refreshRows()
		}

	case key.Matches(msg, m.keys.Select):
		if row, ok := m.table.current(); ok {
			if row.Kind == drawer.RowMore {
				m.drawer.RevealMore(row.Key)
			} else {
				m.drawer.Activate(row)
			}
			m.refreshRows()
		}
	}
	return m, nil
}

func (m *model) updateHex(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.hex.moveCursor(-bytesPerLine)
	case key.Matches(msg, m.keys.Down):
		m.hex.moveCursor(bytesPerLine)
	case key.Matches(msg, m.keys.Left):
		m.hex.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.hex.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.hex.moveCursor(int64(-bytesPerLine * m.hex.height))
	case key.Matches(msg, m.keys.PageDown):
		m.hex.moveCursor(int64(bytesPerLine * m.hex.height))
	case key.Matches(msg, m.keys.Top):
		m.hex.Set(0, m.hex.selSize)
	case key.Matches(msg, m.keys.Bottom):
		if len(m.hex.data) > 0 {
			m.hex.Set(uint64(len(m.hex.data)-1), 1)
		}
	case key.Matches(msg, m.keys.GrowSel):
		m.hex.growSelection(1)
	case key.Matches(msg, m.keys.ShrinkSel):
		m.hex.growSelection(-1)
	}
	m.refreshRows()
	return m, nil
}

func nextSortKey(current drawer.SortKey) drawer.SortKey {
	for i, k := range sortCycle {
		if k == current {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return drawer.SortNone
}

// savePrefs persists theme and sort settings, best effort.
func (m *model) savePrefs() {
	keySort, dir := m.drawer.Sort()
	p := prefs.Prefs{
		Theme:         m.theme.Name,
		SortKey:       keySort.String(),
		SortDirection: dir.String(),
	}
	_ = prefs.Save(m.opts.PrefsPath, p)
}

func (m *model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.showHelp {
		title := m.styles.Title.Render(" hexwalk help ")
		return lipgloss.JoinVertical(lipgloss.Left, title, m.help.View(), m.statusLine())
	}

	title := m.styles.Title.Render(fmt.Sprintf(" %s — %s (%d bytes) ",
		"hexwalk", m.opts.FileName, len(m.opts.Data)))

	keySort, dir := m.drawer.Sort()
	table := m.table.view(m.styles, keySort, dir)

	hexTitle := m.paneTitle(locale.Translate("hexwalk.hex.title"), m.focus == focusHex)
	return lipgloss.JoinVertical(lipgloss.Left, title, table, hexTitle, m.hex.view(m.styles), m.statusLine())
}

func (m *model) paneTitle(name string, focused bool) string {
	marker := "  "
	if focused {
		marker = "» "
	}
	return m.styles.Header.Render(padRight(marker+name, m.width))
}

func (m *model) statusLine() string {
	if m.gotoMode {
		return m.styles.Footer.Render(padRight(m.gotoInput.View(), m.width))
	}

	var parts []string
	if sel, ok := m.hex.Current(); ok {
		parts = append(parts, fmt.Sprintf("sel 0x%X:0x%X (%d bytes)", sel.Address, sel.End()-1, sel.Size))
	} else {
		parts = append(parts, locale.Translate("hexwalk.status.no_selection"))
	}

	keySort, dir := m.drawer.Sort()
	if keySort != drawer.SortNone {
		parts = append(parts, fmt.Sprintf("sort %s %s", keySort, dir))
	}

	// The comment of the row under the cursor stands in for a hover
	// tooltip.
	if row, ok := m.table.current(); ok && row.Comment != "" {
		parts = append(parts, "// "+row.Comment)
	}

	parts = append(parts, "? help")
	return m.styles.Footer.Render(padRight(strings.Join(parts, "  │  "), m.width))
}

func (m *model) helpContent() string {
	var b strings.Builder
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// parseOffset accepts decimal or 0x-prefixed hex offsets.
func parseOffset(s string) (uint64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty offset")
	}
	return strconv.ParseUint(trimmed, 0, 64)
}
