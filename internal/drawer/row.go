package drawer

import (
	"fmt"

	"github.com/hexwalk/hexwalk/internal/pattern"
)

// RowKind distinguishes the visual shapes a row can take.
type RowKind int

const (
	// RowEntry is a leaf line: one scalar, string, enum or bitfield field.
	RowEntry RowKind = iota
	// RowHeader is a container line that may expand into children.
	RowHeader
	// RowSealed is a container collapsed to a flat informational line.
	RowSealed
	// RowChunk is a collapsible summary of one array chunk.
	RowChunk
	// RowMore is the truncation line; activating it reveals more chunks.
	RowMore
)

// RowKey identifies the expandable thing behind a row. Chunk rows share
// their array's node ID and add the chunk index; all other rows use
// Chunk == 0 with IsChunk false.
type RowKey struct {
	Node    uint64
	Chunk   uint64
	IsChunk bool
}

// Row is one rendered line of the pattern table. Rows are plain values;
// the host view styles and prints them.
type Row struct {
	Kind  RowKind
	Key   RowKey
	Depth int

	Expandable bool
	Expanded   bool

	Name       string
	ShowSwatch bool
	Color      uint32
	OffsetText string
	SizeText   string
	TypeText   string
	ValueText  string
	Comment    string

	// Highlighted is set when the row's span overlaps the live selection.
	Highlighted bool

	// Span is the byte range selected when the row is activated.
	Span    Region
	HasSpan bool

	// Node is the pattern behind this row; nil for RowMore.
	Node *pattern.Node
}

// formatRange renders the inclusive offset range column. A zero size is an
// empty node: the end address equals the start, nothing is subtracted.
func formatRange(offset, size uint64) string {
	end := offset + size
	if size != 0 {
		end--
	}
	return fmt.Sprintf("0x%08X : 0x%08X", offset, end)
}

func formatSize(size uint64) string {
	return fmt.Sprintf("0x%04X", size)
}

// formatBitRange renders the offset column of a bitfield field: the byte
// address the field starts in plus its bit position within that byte.
func formatBitRange(offset, bitOffset, bitSize uint64) string {
	byteAddr := offset + bitOffset/8
	first := bitOffset % 8
	last := first + bitSize - 1
	if first == last {
		return fmt.Sprintf("0x%08X bit %d", byteAddr, first)
	}
	return fmt.Sprintf("0x%08X bits %d - %d", byteAddr, first, last)
}

func formatBitSize(bitSize uint64) string {
	if bitSize == 1 {
		return fmt.Sprintf("%d bit", bitSize)
	}
	return fmt.Sprintf("%d bits", bitSize)
}

// scalarType renders the type column of a default entry: the formatted
// name when present, the raw type name otherwise.
func scalarType(n *pattern.Node) string {
	if name := n.FormattedName(); name != "" {
		return name
	}
	return n.TypeName()
}
