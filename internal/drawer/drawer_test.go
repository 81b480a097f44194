package drawer

import (
	"fmt"
	"testing"

	"github.com/hexwalk/hexwalk/internal/pattern"
)

// fakeSelection implements SelectionBridge for tests.
type fakeSelection struct {
	region  Region
	active  bool
	lastSet Region
	sets    int
}

func (f *fakeSelection) Current() (Region, bool) { return f.region, f.active }

func (f *fakeSelection) Set(address, size uint64) {
	f.lastSet = Region{Address: address, Size: size}
	f.region = f.lastSet
	f.active = true
	f.sets++
}

func scalar(b *pattern.Builder, name string, offset, size uint64) *pattern.Node {
	return b.Node(pattern.Spec{
		Kind:        pattern.Unsigned,
		Offset:      offset,
		Size:        size,
		DisplayName: name,
		TypeName:    fmt.Sprintf("u%d", size*8),
	})
}

func TestHiddenNodesRenderNothing(t *testing.T) {
	var b pattern.Builder
	kinds := []pattern.Kind{
		pattern.Boolean, pattern.Unsigned, pattern.String,
		pattern.Struct, pattern.ArrayStatic, pattern.Bitfield, pattern.Pointer,
	}
	for _, k := range kinds {
		n := b.Node(pattern.Spec{Kind: k, Size: 4, DisplayName: "x", Hidden: true})
		d := New(nil, nil)
		if rows := d.Render([]*pattern.Node{n}, 40); len(rows) != 0 {
			t.Fatalf("hidden %v rendered %d rows, want 0", k, len(rows))
		}
	}
}

func TestStringRowsDependOnSize(t *testing.T) {
	var b pattern.Builder
	for _, k := range []pattern.Kind{pattern.String, pattern.WideString} {
		empty := b.Node(pattern.Spec{Kind: k, Offset: 0, Size: 0, DisplayName: "s"})
		filled := b.Node(pattern.Spec{Kind: k, Offset: 0, Size: 8, DisplayName: "s"})

		// A drawer caches its top-level order, so each list gets its own.
		d := New(nil, nil)
		if rows := d.Render([]*pattern.Node{empty}, 40); len(rows) != 0 {
			t.Fatalf("%v size 0 rendered %d rows, want 0", k, len(rows))
		}
		d = New(nil, nil)
		if rows := d.Render([]*pattern.Node{filled}, 40); len(rows) != 1 {
			t.Fatalf("%v size 8 rendered %d rows, want 1", k, len(rows))
		}
	}
}

func TestPaddingRendersNothing(t *testing.T) {
	var b pattern.Builder
	pad := b.Node(pattern.Spec{Kind: pattern.Padding, Offset: 0x10, Size: 0x100})
	d := New(nil, nil)
	if rows := d.Render([]*pattern.Node{pad}, 40); len(rows) != 0 {
		t.Fatalf("padding rendered %d rows, want 0", len(rows))
	}
}

func TestBitfieldFieldLabels(t *testing.T) {
	cases := []struct {
		name       string
		offset     uint64
		bitOffset  uint64
		bitSize    uint64
		wantOffset string
		wantSize   string
	}{
		{"single_bit", 0x100, 12, 1, "0x00000101 bit 4", "1 bit"},
		{"bit_range", 0x100, 4, 9, "0x00000100 bits 4 - 12", "9 bits"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var b pattern.Builder
			field := b.Node(pattern.Spec{
				Kind:        pattern.BitfieldField,
				Offset:      tc.offset,
				Size:        2,
				DisplayName: "flag",
				BitOffset:   tc.bitOffset,
				BitSize:     tc.bitSize,
			})
			d := New(nil, nil)
			rows := d.Render([]*pattern.Node{field}, 40)
			if len(rows) != 1 {
				t.Fatalf("rendered %d rows, want 1", len(rows))
			}
			if rows[0].OffsetText != tc.wantOffset {
				t.Fatalf("offset column = %q, want %q", rows[0].OffsetText, tc.wantOffset)
			}
			if rows[0].SizeText != tc.wantSize {
				t.Fatalf("size column = %q, want %q", rows[0].SizeText, tc.wantSize)
			}
			if rows[0].TypeText != "bits" {
				t.Fatalf("type column = %q, want bits", rows[0].TypeText)
			}
		})
	}
}

func buildArray(b *pattern.Builder, n uint64) *pattern.Node {
	arr := b.Node(pattern.Spec{Kind: pattern.ArrayStatic, Offset: 0, Size: n * 4, DisplayName: "data", TypeName: "u32"})
	for i := uint64(0); i < n; i++ {
		arr.AppendChild(scalar(b, fmt.Sprintf("[%d]", i), i*4, 4))
	}
	return arr
}

func countKind(rows []Row, kind RowKind) int {
	n := 0
	for _, r := range rows {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

func TestArrayChunking(t *testing.T) {
	cases := []struct {
		name       string
		entries    uint64
		wantChunks int
		wantMore   bool
	}{
		{"single_chunk", ChunkSize - 1, 1, false},
		{"exact_chunk", ChunkSize, 1, false},
		{"two_chunks", ChunkSize + 1, 2, false},
		{"below_reveal_limit", ChunkSize * revealDefault, revealDefault, false},
		{"truncated", ChunkSize*revealDefault + 1, revealDefault, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var b pattern.Builder
			arr := buildArray(&b, tc.entries)

			d := New(nil, nil)
			d.Toggle(RowKey{Node: arr.ID()})
			rows := d.Render([]*pattern.Node{arr}, 40)

			if got := countKind(rows, RowChunk); got != tc.wantChunks {
				t.Fatalf("chunk rows = %d, want %d", got, tc.wantChunks)
			}
			gotMore := countKind(rows, RowMore) == 1
			if gotMore != tc.wantMore {
				t.Fatalf("truncation row present = %v, want %v", gotMore, tc.wantMore)
			}
		})
	}
}

func TestEmptyArrayRendersNothing(t *testing.T) {
	var b pattern.Builder
	arr := b.Node(pattern.Spec{Kind: pattern.ArrayDynamic, DisplayName: "data", TypeName: "u32"})
	d := New(nil, nil)
	if rows := d.Render([]*pattern.Node{arr}, 40); len(rows) != 0 {
		t.Fatalf("empty array rendered %d rows, want 0", len(rows))
	}
}

func TestChunkRowSummary(t *testing.T) {
	var b pattern.Builder
	arr := buildArray(&b, ChunkSize+8)

	d := New(nil, nil)
	d.Toggle(RowKey{Node: arr.ID()})
	rows := d.Render([]*pattern.Node{arr}, 40)

	if rows[1].Kind != RowChunk {
		t.Fatalf("row 1 kind = %v, want chunk", rows[1].Kind)
	}
	if want := fmt.Sprintf("[0 ... %d]", ChunkSize-1); rows[1].Name != want {
		t.Fatalf("first chunk label = %q, want %q", rows[1].Name, want)
	}
	if want := fmt.Sprintf("u32[%d]", ChunkSize); rows[1].TypeText != want {
		t.Fatalf("first chunk type = %q, want %q", rows[1].TypeText, want)
	}
	// Full span of the chunk: ChunkSize entries of 4 bytes from offset 0.
	if rows[1].Span.Address != 0 || rows[1].Span.Size != ChunkSize*4 {
		t.Fatalf("first chunk span = %+v", rows[1].Span)
	}

	last := rows[len(rows)-1]
	if want := fmt.Sprintf("[%d ... %d]", ChunkSize, ChunkSize+7); last.Name != want {
		t.Fatalf("last chunk label = %q, want %q", last.Name, want)
	}
	if want := "u32[8]"; last.TypeText != want {
		t.Fatalf("last chunk type = %q, want %q", last.TypeText, want)
	}
}

func TestChunkExpansionRendersEntries(t *testing.T) {
	var b pattern.Builder
	arr := buildArray(&b, ChunkSize*2)

	d := New(nil, nil)
	d.Toggle(RowKey{Node: arr.ID()})
	d.Toggle(RowKey{Node: arr.ID(), Chunk: 1, IsChunk: true})
	rows := d.Render([]*pattern.Node{arr}, 40)

	// header + 2 chunk rows + ChunkSize entries of the second chunk
	if want := 1 + 2 + ChunkSize; len(rows) != want {
		t.Fatalf("rendered %d rows, want %d", len(rows), want)
	}
	if got := countKind(rows, RowEntry); got != ChunkSize {
		t.Fatalf("entry rows = %d, want %d", got, ChunkSize)
	}
	// First expanded entry sits under the second chunk row.
	if rows[3].Name != fmt.Sprintf("[%d]", ChunkSize) {
		t.Fatalf("first expanded entry = %q", rows[3].Name)
	}
	if rows[3].Depth != rows[2].Depth+1 {
		t.Fatalf("entry depth = %d, chunk depth = %d", rows[3].Depth, rows[2].Depth)
	}
}

func TestRevealMoreGrowsByStep(t *testing.T) {
	var b pattern.Builder
	arr := buildArray(&b, ChunkSize*(revealDefault+20))

	d := New(nil, nil)
	key := RowKey{Node: arr.ID()}
	d.Toggle(key)

	rows := d.Render([]*pattern.Node{arr}, 40)
	if got := countKind(rows, RowChunk); got != revealDefault {
		t.Fatalf("chunk rows before reveal = %d, want %d", got, revealDefault)
	}
	if countKind(rows, RowMore) != 1 {
		t.Fatalf("expected truncation row before reveal")
	}

	d.RevealMore(key)
	rows = d.Render([]*pattern.Node{arr}, 40)
	if got := countKind(rows, RowChunk); got != revealDefault+20 {
		t.Fatalf("chunk rows after reveal = %d, want %d", got, revealDefault+20)
	}
	if countKind(rows, RowMore) != 0 {
		t.Fatalf("truncation row should disappear once all chunks revealed")
	}

	// Re-rendering never shrinks the reveal count.
	rows = d.Render([]*pattern.Node{arr}, 40)
	if got := countKind(rows, RowChunk); got != revealDefault+20 {
		t.Fatalf("chunk rows after re-render = %d, want %d", got, revealDefault+20)
	}
}

func TestSelectionOverlap(t *testing.T) {
	cases := []struct {
		name string
		addr uint64
		size uint64
		want bool
	}{
		{"inside", 0x14, 1, true},
		{"last_byte", 0x1F, 1, true},
		{"just_past_end", 0x20, 4, false},
		{"ends_at_start", 0x00, 0x10, false},
		{"crosses_start", 0x00, 0x11, true},
		{"covers_all", 0x00, 0x100, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var b pattern.Builder
			n := scalar(&b, "field", 0x10, 0x10)
			sel := &fakeSelection{region: Region{Address: tc.addr, Size: tc.size}, active: true}
			d := New(sel, nil)
			rows := d.Render([]*pattern.Node{n}, 40)
			if rows[0].Highlighted != tc.want {
				t.Fatalf("highlighted = %v, want %v", rows[0].Highlighted, tc.want)
			}
		})
	}
}

func TestNoSelectionNoHighlight(t *testing.T) {
	var b pattern.Builder
	n := scalar(&b, "field", 0x10, 0x10)
	d := New(&fakeSelection{}, nil)
	rows := d.Render([]*pattern.Node{n}, 40)
	if rows[0].Highlighted {
		t.Fatalf("row highlighted without an active selection")
	}
}

func TestActivateSetsSelection(t *testing.T) {
	var b pattern.Builder
	n := scalar(&b, "field", 0x40, 8)
	sel := &fakeSelection{}
	d := New(sel, nil)
	rows := d.Render([]*pattern.Node{n}, 40)

	d.Activate(rows[0])
	if sel.lastSet.Address != 0x40 || sel.lastSet.Size != 8 {
		t.Fatalf("selection set to %+v, want {0x40 8}", sel.lastSet)
	}
}

func TestActivateMoreRowIsNoOp(t *testing.T) {
	sel := &fakeSelection{}
	d := New(sel, nil)
	d.Activate(Row{Kind: RowMore})
	if sel.sets != 0 {
		t.Fatalf("truncation row activation touched the selection")
	}
}

func TestEmptyRootListClearsCache(t *testing.T) {
	var b pattern.Builder
	first := []*pattern.Node{scalar(&b, "a", 0, 4)}
	second := []*pattern.Node{scalar(&b, "b", 8, 4)}

	d := New(nil, nil)
	if rows := d.Render(first, 40); rows[0].Name != "a" {
		t.Fatalf("unexpected first render")
	}
	if rows := d.Render(nil, 40); len(rows) != 0 {
		t.Fatalf("empty root list rendered %d rows, want 0", len(rows))
	}
	// The cache was cleared, so the new list is picked up without a sort
	// spec change.
	rows := d.Render(second, 40)
	if len(rows) != 1 || rows[0].Name != "b" {
		t.Fatalf("render after clear = %+v, want the new list", rows)
	}
}

func TestStructExpandCollapse(t *testing.T) {
	var b pattern.Builder
	st := b.Node(pattern.Spec{Kind: pattern.Struct, Offset: 0, Size: 12, DisplayName: "hdr", TypeName: "Header"})
	for i := uint64(0); i < 3; i++ {
		st.AppendChild(scalar(&b, fmt.Sprintf("f%d", i), i*4, 4))
	}

	d := New(nil, nil)
	rows := d.Render([]*pattern.Node{st}, 40)
	if len(rows) != 1 {
		t.Fatalf("collapsed struct rendered %d rows, want 1", len(rows))
	}
	if !rows[0].Expandable || rows[0].Expanded {
		t.Fatalf("collapsed header state = expandable %v expanded %v", rows[0].Expandable, rows[0].Expanded)
	}
	if rows[0].ShowSwatch {
		t.Fatalf("non-sealed struct header should not show a color swatch")
	}

	d.Toggle(rows[0].Key)
	rows = d.Render([]*pattern.Node{st}, 40)
	if len(rows) != 4 {
		t.Fatalf("expanded struct rendered %d rows, want 4", len(rows))
	}
	for i := 1; i < 4; i++ {
		if rows[i].Depth != 1 {
			t.Fatalf("child row depth = %d, want 1", rows[i].Depth)
		}
	}

	d.Toggle(rows[0].Key)
	if rows := d.Render([]*pattern.Node{st}, 40); len(rows) != 1 {
		t.Fatalf("re-collapsed struct rendered %d rows, want 1", len(rows))
	}
}

func TestSealedStructIsFlatLine(t *testing.T) {
	var b pattern.Builder
	st := b.Node(pattern.Spec{Kind: pattern.Struct, Size: 8, DisplayName: "blob", TypeName: "Blob", Sealed: true})
	st.AppendChild(scalar(&b, "x", 0, 4))

	d := New(nil, nil)
	rows := d.Render([]*pattern.Node{st}, 40)
	if len(rows) != 1 {
		t.Fatalf("sealed struct rendered %d rows, want 1", len(rows))
	}
	if rows[0].Kind != RowSealed || rows[0].Expandable {
		t.Fatalf("sealed row kind = %v expandable = %v", rows[0].Kind, rows[0].Expandable)
	}
	if !rows[0].ShowSwatch {
		t.Fatalf("sealed struct should show its color swatch")
	}

	// Toggling a sealed node changes nothing; children are never shown.
	d.Toggle(rows[0].Key)
	if rows := d.Render([]*pattern.Node{st}, 40); len(rows) != 1 {
		t.Fatalf("sealed struct opened after toggle")
	}
}

func TestInlinedStructSkipsHeader(t *testing.T) {
	var b pattern.Builder
	st := b.Node(pattern.Spec{Kind: pattern.Struct, Size: 8, DisplayName: "inner", TypeName: "Inner", Inlined: true})
	st.AppendChild(scalar(&b, "x", 0, 4))
	st.AppendChild(scalar(&b, "y", 4, 4))

	d := New(nil, nil)
	rows := d.Render([]*pattern.Node{st}, 40)
	if len(rows) != 2 {
		t.Fatalf("inlined struct rendered %d rows, want 2", len(rows))
	}
	for _, r := range rows {
		if r.Depth != 0 {
			t.Fatalf("inlined child depth = %d, want 0", r.Depth)
		}
	}
}

func TestPointerRendersSingleTarget(t *testing.T) {
	var b pattern.Builder
	target := scalar(&b, "value", 0x80, 4)
	ptr := b.Node(pattern.Spec{Kind: pattern.Pointer, Offset: 0, Size: 8, DisplayName: "ref", FormattedName: "u32 *"})
	ptr.SetPointee(target)

	d := New(nil, nil)
	rows := d.Render([]*pattern.Node{ptr}, 40)
	if len(rows) != 1 {
		t.Fatalf("collapsed pointer rendered %d rows, want 1", len(rows))
	}
	if !rows[0].ShowSwatch {
		t.Fatalf("pointer header should always show its color swatch")
	}

	d.Toggle(rows[0].Key)
	rows = d.Render([]*pattern.Node{ptr}, 40)
	if len(rows) != 2 {
		t.Fatalf("expanded pointer rendered %d rows, want 2", len(rows))
	}
	if rows[1].Name != "value" || rows[1].Depth != 1 {
		t.Fatalf("pointer target row = %q depth %d", rows[1].Name, rows[1].Depth)
	}
}

func TestPointerWithNilTarget(t *testing.T) {
	var b pattern.Builder
	ptr := b.Node(pattern.Spec{Kind: pattern.Pointer, Size: 8, DisplayName: "ref"})

	d := New(nil, nil)
	d.Toggle(RowKey{Node: ptr.ID()})
	rows := d.Render([]*pattern.Node{ptr}, 40)
	if len(rows) != 1 {
		t.Fatalf("pointer with nil target rendered %d rows, want 1", len(rows))
	}
}

func TestOffsetRangeFormatting(t *testing.T) {
	cases := []struct {
		offset, size uint64
		want         string
	}{
		{0x10, 0x10, "0x00000010 : 0x0000001F"},
		{0x10, 1, "0x00000010 : 0x00000010"},
		// Empty nodes subtract nothing from the end address.
		{0x10, 0, "0x00000010 : 0x00000010"},
	}
	for _, tc := range cases {
		if got := formatRange(tc.offset, tc.size); got != tc.want {
			t.Fatalf("formatRange(%#x, %#x) = %q, want %q", tc.offset, tc.size, got, tc.want)
		}
	}
}

func TestTranslatorFallsBackToKey(t *testing.T) {
	var b pattern.Builder
	arr := buildArray(&b, ChunkSize*(revealDefault+1))

	d := New(nil, nil)
	d.Toggle(RowKey{Node: arr.ID()})
	rows := d.Render([]*pattern.Node{arr}, 40)

	more := rows[len(rows)-1]
	if more.Kind != RowMore {
		t.Fatalf("last row kind = %v, want more", more.Kind)
	}
	if want := "... (hexwalk.pattern.show_more)"; more.Name != want {
		t.Fatalf("more row label = %q, want %q", more.Name, want)
	}
}
