package pattern

import "testing"

func TestBuilderAssignsUniqueIDs(t *testing.T) {
	var b Builder
	seen := map[uint64]bool{}
	for i := 0; i < 100; i++ {
		n := b.Node(Spec{Kind: Unsigned})
		if seen[n.ID()] {
			t.Fatalf("duplicate node ID %d", n.ID())
		}
		seen[n.ID()] = true
	}
}

func TestFormattedValueComputedOnce(t *testing.T) {
	var b Builder
	calls := 0
	n := b.Node(Spec{Kind: Unsigned, Value: func() string {
		calls++
		return "0x2A"
	}})

	if got := n.FormattedValue(); got != "0x2A" {
		t.Fatalf("FormattedValue = %q, want 0x2A", got)
	}
	_ = n.FormattedValue()
	_ = n.FormattedValue()
	if calls != 1 {
		t.Fatalf("value formatter ran %d times, want 1", calls)
	}
}

func TestFormattedValueNilFormatter(t *testing.T) {
	var b Builder
	n := b.Node(Spec{Kind: Padding})
	if got := n.FormattedValue(); got != "" {
		t.Fatalf("FormattedValue = %q, want empty", got)
	}
}

func TestForEachEntryClampsRange(t *testing.T) {
	var b Builder
	parent := b.Node(Spec{Kind: Struct})
	for i := 0; i < 3; i++ {
		parent.AppendChild(b.Node(Spec{Kind: Unsigned, Offset: uint64(i)}))
	}

	var visited []uint64
	parent.ForEachEntry(1, 10, func(idx uint64, entry *Node) {
		visited = append(visited, idx)
	})
	if len(visited) != 2 || visited[0] != 1 || visited[1] != 2 {
		t.Fatalf("visited = %v, want [1 2]", visited)
	}
}

func TestSortRecursesIntoChildren(t *testing.T) {
	var b Builder
	inner := b.Node(Spec{Kind: Struct, Offset: 0})
	inner.AppendChild(b.Node(Spec{Kind: Unsigned, Offset: 8}))
	inner.AppendChild(b.Node(Spec{Kind: Unsigned, Offset: 4}))

	root := b.Node(Spec{Kind: Struct})
	root.AppendChild(b.Node(Spec{Kind: Unsigned, Offset: 16}))
	root.AppendChild(inner)

	byOffset := func(l, r *Node) bool { return l.Offset() < r.Offset() }
	root.Sort(byOffset)

	if root.Entry(0) != inner {
		t.Fatalf("top level not reordered by offset")
	}
	if inner.Entry(0).Offset() != 4 || inner.Entry(1).Offset() != 8 {
		t.Fatalf("nested children not reordered: got %d, %d",
			inner.Entry(0).Offset(), inner.Entry(1).Offset())
	}
}

func TestSortReachesPointerTarget(t *testing.T) {
	var b Builder
	target := b.Node(Spec{Kind: Struct})
	target.AppendChild(b.Node(Spec{Kind: Unsigned, Offset: 2}))
	target.AppendChild(b.Node(Spec{Kind: Unsigned, Offset: 1}))

	ptr := b.Node(Spec{Kind: Pointer})
	ptr.SetPointee(target)

	ptr.Sort(func(l, r *Node) bool { return l.Offset() < r.Offset() })
	if target.Entry(0).Offset() != 1 {
		t.Fatalf("pointer target children not sorted")
	}
}

func TestIsContainer(t *testing.T) {
	containers := []Kind{Struct, Union, ArrayStatic, ArrayDynamic, Bitfield}
	for _, k := range containers {
		if !k.IsContainer() {
			t.Fatalf("%v should be a container", k)
		}
	}
	leaves := []Kind{Boolean, Character, Signed, Unsigned, Float, String, Enum, Padding, BitfieldField, Pointer}
	for _, k := range leaves {
		if k.IsContainer() {
			t.Fatalf("%v should not be a container", k)
		}
	}
}
