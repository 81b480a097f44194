package drawer

import (
	"fmt"
	"sort"

	"github.com/hexwalk/hexwalk/internal/pattern"
)

const (
	// ChunkSize is the number of consecutive array entries grouped into one
	// collapsible chunk row.
	ChunkSize = 64

	// revealDefault is how many chunks of an array are visible before the
	// truncation row appears; revealStep is how many more each activation
	// of that row uncovers.
	revealDefault = 50
	revealStep    = 50
)

// Drawer renders pattern trees into row lists. One Drawer backs one table
// instance; its pagination, open-state and sort caches persist across
// passes. Not safe for concurrent use.
type Drawer struct {
	sel SelectionBridge
	tr  Translator

	reveal map[uint64]*uint64
	open   map[RowKey]bool

	sorted  []*pattern.Node
	sortKey SortKey
	sortDir SortDirection
	dirty   bool

	rows  []Row
	depth int
}

// New creates a drawer bound to the given selection owner and label
// translator. Both may be nil: without a bridge nothing highlights and
// activation is a no-op; without a translator label keys display verbatim.
func New(sel SelectionBridge, tr Translator) *Drawer {
	return &Drawer{
		sel:    sel,
		tr:     tr,
		reveal: make(map[uint64]*uint64),
		open:   make(map[RowKey]bool),
	}
}

// Render performs one synchronous pass over the root node list and returns
// the visible rows. height is the host viewport height, used as a capacity
// hint for the row list.
//
// The cached top-level order is rebuilt when the sort spec changed or the
// cache is empty; an empty root list clears the cache entirely. Nested
// container order is reapplied in place through Node.Sort on rebuild, so a
// sort change propagates depth-first through the whole tree.
func (d *Drawer) Render(nodes []*pattern.Node, height int) []Row {
	if len(nodes) == 0 {
		d.sorted = nil
		return nil
	}

	if d.dirty || len(d.sorted) == 0 {
		d.sorted = d.sorted[:0]
		d.sorted = append(d.sorted, nodes...)

		cmp := comparator(d.sortKey, d.sortDir)
		sort.SliceStable(d.sorted, func(i, j int) bool {
			return cmp(d.sorted[i], d.sorted[j])
		})
		for _, n := range d.sorted {
			n.Sort(cmp)
		}
		d.dirty = false
	}

	if cap(d.rows) < height {
		d.rows = make([]Row, 0, height)
	}
	d.rows = d.rows[:0]
	d.depth = 0
	for _, n := range d.sorted {
		d.draw(n)
	}
	return d.rows
}

// SetSort changes the active sort specification. The reorder happens on
// the next Render pass.
func (d *Drawer) SetSort(key SortKey, dir SortDirection) {
	if d.sortKey == key && d.sortDir == dir {
		return
	}
	d.sortKey = key
	d.sortDir = dir
	d.dirty = true
}

// Sort returns the active sort specification.
func (d *Drawer) Sort() (SortKey, SortDirection) {
	return d.sortKey, d.sortDir
}

// Toggle flips the expanded state of the row identified by key.
func (d *Drawer) Toggle(key RowKey) {
	d.open[key] = !d.open[key]
}

// CollapseAll closes every expanded row. Reveal counts are unaffected.
func (d *Drawer) CollapseAll() {
	clear(d.open)
}

// RevealMore uncovers another revealStep chunks of the array behind key.
// The reveal count only ever grows.
func (d *Drawer) RevealMore(key RowKey) {
	p, ok := d.reveal[key.Node]
	if !ok {
		v := uint64(revealDefault)
		p = &v
		d.reveal[key.Node] = p
	}
	*p += revealStep
}

// Activate performs the row's click action: selecting its byte span in the
// external view. Rows without a span (the truncation row) do nothing here.
func (d *Drawer) Activate(row Row) {
	if row.HasSpan && d.sel != nil {
		d.sel.Set(row.Span.Address, row.Span.Size)
	}
}

// draw emits the rows for one node. Hidden nodes emit nothing regardless
// of kind.
func (d *Drawer) draw(n *pattern.Node) {
	if n == nil || n.Hidden() {
		return
	}

	switch n.Kind() {
	case pattern.Boolean, pattern.Character, pattern.WideCharacter,
		pattern.Signed, pattern.Unsigned, pattern.Float:
		d.defaultEntry(n, scalarType(n))
	case pattern.Enum:
		d.defaultEntry(n, "enum "+n.TypeName())
	case pattern.String, pattern.WideString:
		// Empty strings occupy no bytes and are suppressed entirely.
		if n.Size() > 0 {
			d.defaultEntry(n, scalarType(n))
		}
	case pattern.Padding:
		// Never rendered.
	case pattern.BitfieldField:
		d.bitfieldField(n)
	case pattern.Bitfield:
		d.container(n, "bitfield "+n.TypeName(), true)
	case pattern.Struct:
		d.container(n, "struct "+n.TypeName(), false)
	case pattern.Union:
		d.container(n, "union "+n.TypeName(), false)
	case pattern.Pointer:
		d.pointer(n)
	case pattern.ArrayStatic, pattern.ArrayDynamic:
		d.array(n)
	}
}

// defaultEntry emits the standard leaf row layout.
func (d *Drawer) defaultEntry(n *pattern.Node, typeText string) {
	d.rows = append(d.rows, Row{
		Kind:        RowEntry,
		Key:         RowKey{Node: n.ID()},
		Depth:       d.depth,
		Node:        n,
		Name:        n.DisplayName(),
		ShowSwatch:  true,
		Color:       n.Color(),
		OffsetText:  formatRange(n.Offset(), n.Size()),
		SizeText:    formatSize(n.Size()),
		TypeText:    typeText,
		ValueText:   n.FormattedValue(),
		Comment:     n.Comment(),
		Span:        Region{Address: n.Offset(), Size: n.Size()},
		HasSpan:     true,
		Highlighted: d.selected(n.Offset(), n.Size()),
	})
}

// bitfieldField emits a leaf row whose offset and size columns are
// expressed in bits.
func (d *Drawer) bitfieldField(n *pattern.Node) {
	d.rows = append(d.rows, Row{
		Kind:        RowEntry,
		Key:         RowKey{Node: n.ID()},
		Depth:       d.depth,
		Node:        n,
		Name:        n.DisplayName(),
		ShowSwatch:  true,
		Color:       n.Color(),
		OffsetText:  formatBitRange(n.Offset(), n.BitOffset(), n.BitSize()),
		SizeText:    formatBitSize(n.BitSize()),
		TypeText:    "bits",
		ValueText:   n.FormattedValue(),
		Comment:     n.Comment(),
		Span:        Region{Address: n.Offset(), Size: n.Size()},
		HasSpan:     true,
		Highlighted: d.selected(n.Offset(), n.Size()),
	})
}

// header emits the row introducing a container (or pointer) and reports
// whether its children should be drawn. Sealed nodes collapse to a flat
// line and never open; the color swatch appears on sealed nodes and on
// kinds that always carry one.
func (d *Drawer) header(n *pattern.Node, typeText string, swatchAlways bool) (open bool) {
	key := RowKey{Node: n.ID()}
	row := Row{
		Kind:        RowHeader,
		Key:         key,
		Depth:       d.depth,
		Node:        n,
		Name:        n.DisplayName(),
		Color:       n.Color(),
		OffsetText:  formatRange(n.Offset(), n.Size()),
		SizeText:    formatSize(n.Size()),
		TypeText:    typeText,
		ValueText:   n.FormattedValue(),
		Comment:     n.Comment(),
		Span:        Region{Address: n.Offset(), Size: n.Size()},
		HasSpan:     true,
		Highlighted: d.selected(n.Offset(), n.Size()),
	}
	if n.Sealed() {
		row.Kind = RowSealed
		row.ShowSwatch = true
		open = false
	} else {
		row.ShowSwatch = swatchAlways
		row.Expandable = true
		row.Expanded = d.open[key]
		open = row.Expanded
	}
	d.rows = append(d.rows, row)
	return open
}

func (d *Drawer) container(n *pattern.Node, typeText string, swatchAlways bool) {
	open := true
	if !n.Inlined() {
		open = d.header(n, typeText, swatchAlways)
	}
	if !open {
		return
	}
	if !n.Inlined() {
		d.depth++
		defer func() { d.depth-- }()
	}
	n.ForEachEntry(0, n.EntryCount(), func(_ uint64, entry *pattern.Node) {
		d.draw(entry)
	})
}

func (d *Drawer) pointer(n *pattern.Node) {
	open := true
	if !n.Inlined() {
		open = d.header(n, n.FormattedName(), true)
	}
	if !open {
		return
	}
	target := n.PointedAt()
	if target == nil {
		return
	}
	if !n.Inlined() {
		d.depth++
		defer func() { d.depth-- }()
	}
	d.draw(target)
}

// array renders a container of homogeneous entries in chunks so very large
// arrays never materialize all their rows at once. Empty arrays emit
// nothing at all.
func (d *Drawer) array(n *pattern.Node) {
	count := n.EntryCount()
	if count == 0 {
		return
	}

	open := true
	if !n.Inlined() {
		typeText := fmt.Sprintf("%s[%d]", n.TypeName(), count)
		open = d.header(n, typeText, false)
	}
	if !open {
		return
	}
	if !n.Inlined() {
		d.depth++
		defer func() { d.depth-- }()
	}

	reveal := d.revealChunks(n)
	chunkCount := uint64(0)
	for i := uint64(0); i < count; i += ChunkSize {
		chunkCount++
		if chunkCount > *reveal {
			d.rows = append(d.rows, Row{
				Kind:  RowMore,
				Key:   RowKey{Node: n.ID()},
				Depth: d.depth,
				Node:  n,
				Name:  fmt.Sprintf("... (%s)", d.translate("hexwalk.pattern.show_more")),
			})
			break
		}

		end := i + ChunkSize
		if end > count {
			end = count
		}
		first := n.Entry(i)
		last := n.Entry(end - 1)

		// Entries are assumed contiguous and ascending in offset, which
		// holds for decoded arrays. The span is computed from the first
		// and last index either way.
		chunkSpan := (last.Offset() - first.Offset()) + last.Size()

		key := RowKey{Node: n.ID(), Chunk: i / ChunkSize, IsChunk: true}
		chunkOpen := d.open[key]
		d.rows = append(d.rows, Row{
			Kind:        RowChunk,
			Key:         key,
			Depth:       d.depth,
			Node:        n,
			Name:        fmt.Sprintf("[%d ... %d]", i, end-1),
			ShowSwatch:  true,
			Color:       n.Color(),
			OffsetText:  formatRange(first.Offset(), chunkSpan),
			SizeText:    formatSize(chunkSpan),
			TypeText:    fmt.Sprintf("%s[%d]", n.TypeName(), end-i),
			ValueText:   "[ ... ]",
			Expandable:  true,
			Expanded:    chunkOpen,
			Span:        Region{Address: first.Offset(), Size: chunkSpan},
			HasSpan:     true,
			Highlighted: d.selected(first.Offset(), chunkSpan),
		})

		if chunkOpen {
			d.depth++
			n.ForEachEntry(i, end, func(_ uint64, entry *pattern.Node) {
				d.draw(entry)
			})
			d.depth--
		}
	}
}

// revealChunks returns the mutable reveal counter for an array node,
// creating it at the default on first access. Entries are never removed.
func (d *Drawer) revealChunks(n *pattern.Node) *uint64 {
	if p, ok := d.reveal[n.ID()]; ok {
		return p
	}
	v := uint64(revealDefault)
	d.reveal[n.ID()] = &v
	return &v
}

func (d *Drawer) selected(address, size uint64) bool {
	if d.sel == nil {
		return false
	}
	cur, ok := d.sel.Current()
	if !ok {
		return false
	}
	return (Region{Address: address, Size: size}).Overlaps(cur)
}

func (d *Drawer) translate(key string) string {
	if d.tr == nil {
		return key
	}
	return d.tr(key)
}
