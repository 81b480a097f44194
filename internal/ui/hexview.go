package ui

import (
	"fmt"
	"strings"

	"github.com/hexwalk/hexwalk/internal/drawer"
	"github.com/hexwalk/hexwalk/internal/pattern"
)

const bytesPerLine = 16

// hexView renders the raw blob and owns the byte-range selection. It is
// the drawer's SelectionBridge: the pattern table reads the selection for
// highlighting and writes it back when a row is activated.
type hexView struct {
	data   []byte
	colors []uint32 // per-byte pattern color, 0 when unclaimed

	cursor  uint64
	selSize uint64
	active  bool

	top    int
	height int
}

func newHexView(data []byte, roots []*pattern.Node) *hexView {
	return &hexView{
		data:    data,
		colors:  buildColorIndex(roots, len(data)),
		selSize: 1,
	}
}

// Current implements drawer.SelectionBridge.
func (h *hexView) Current() (drawer.Region, bool) {
	if !h.active || len(h.data) == 0 {
		return drawer.Region{}, false
	}
	return drawer.Region{Address: h.cursor, Size: h.selSize}, true
}

// Set implements drawer.SelectionBridge. The range is clamped to the blob.
func (h *hexView) Set(address, size uint64) {
	if len(h.data) == 0 {
		return
	}
	limit := uint64(len(h.data))
	if address >= limit {
		address = limit - 1
	}
	if size == 0 {
		size = 1
	}
	if address+size > limit {
		size = limit - address
	}
	h.cursor = address
	h.selSize = size
	h.active = true
	h.scrollTo(address)
}

func (h *hexView) moveCursor(delta int64) {
	if len(h.data) == 0 {
		return
	}
	pos := int64(h.cursor) + delta
	if pos < 0 {
		pos = 0
	}
	if pos >= int64(len(h.data)) {
		pos = int64(len(h.data)) - 1
	}
	h.Set(uint64(pos), h.selSize)
}

func (h *hexView) growSelection(delta int64) {
	size := int64(h.selSize) + delta
	if size < 1 {
		size = 1
	}
	h.Set(h.cursor, uint64(size))
}

func (h *hexView) lineCount() int {
	return (len(h.data) + bytesPerLine - 1) / bytesPerLine
}

func (h *hexView) resize(height int) {
	if height < 1 {
		height = 1
	}
	h.height = height
	h.clampTop()
}

func (h *hexView) scrollTo(address uint64) {
	line := int(address / bytesPerLine)
	if line < h.top {
		h.top = line
	}
	if h.height > 0 && line >= h.top+h.height {
		h.top = line - h.height + 1
	}
	h.clampTop()
}

func (h *hexView) clampTop() {
	max := h.lineCount() - h.height
	if max < 0 {
		max = 0
	}
	if h.top > max {
		h.top = max
	}
	if h.top < 0 {
		h.top = 0
	}
}

// selectedByte reports whether the byte at offset falls inside the live
// selection.
func (h *hexView) selectedByte(offset uint64) bool {
	return h.active && offset >= h.cursor && offset < h.cursor+h.selSize
}

// view renders the visible hex lines: offset gutter, hex bytes colored by
// the pattern that claims them, and an ASCII column. Selected bytes get
// the theme's selection style in both columns.
func (h *hexView) view(st Styles) string {
	var b strings.Builder
	lines := h.lineCount()
	for line := h.top; line < h.top+h.height; line++ {
		if line > h.top {
			b.WriteByte('\n')
		}
		if line >= lines {
			continue
		}
		base := uint64(line * bytesPerLine)
		b.WriteString(st.OffsetText.Render(fmt.Sprintf("%08X", base)))
		b.WriteString("  ")

		var ascii strings.Builder
		for i := 0; i < bytesPerLine; i++ {
			if i == bytesPerLine/2 {
				b.WriteByte(' ')
			}
			offset := base + uint64(i)
			if offset >= uint64(len(h.data)) {
				b.WriteString("   ")
				continue
			}
			cell := fmt.Sprintf("%02X", h.data[offset])
			ch := "."
			if c := h.data[offset]; c >= 0x20 && c < 0x7F {
				ch = string(rune(c))
			}
			switch {
			case h.selectedByte(offset):
				b.WriteString(st.Selected.Render(cell))
				ascii.WriteString(st.Selected.Render(ch))
			case h.colors[offset] != 0:
				style := swatchStyle(h.colors[offset])
				b.WriteString(style.Render(cell))
				ascii.WriteString(style.Render(ch))
			default:
				b.WriteString(st.FaintText.Render(cell))
				ascii.WriteString(st.FaintText.Render(ch))
			}
			b.WriteByte(' ')
		}
		b.WriteByte(' ')
		b.WriteString(ascii.String())
	}
	return b.String()
}

// buildColorIndex maps every byte claimed by a visible leaf pattern to
// that pattern's color. Later patterns win overlaps, matching decode
// order.
func buildColorIndex(roots []*pattern.Node, size int) []uint32 {
	colors := make([]uint32, size)
	var paint func(n *pattern.Node)
	paint = func(n *pattern.Node) {
		if n == nil || n.Hidden() {
			return
		}
		if n.Kind().IsContainer() && !n.Sealed() {
			n.ForEachEntry(0, n.EntryCount(), func(_ uint64, entry *pattern.Node) {
				paint(entry)
			})
			return
		}
		if n.Kind() == pattern.Padding {
			return
		}
		if n.Kind() == pattern.Pointer {
			paint(n.PointedAt())
		}
		end := n.Offset() + n.Size()
		for i := n.Offset(); i < end && i < uint64(size); i++ {
			colors[i] = n.Color()
		}
	}
	for _, n := range roots {
		paint(n)
	}
	return colors
}
