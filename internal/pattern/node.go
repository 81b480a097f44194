package pattern

import "sort"

// Node is one typed element of a decoded pattern tree. Nodes are built by a
// Builder and treated as read-only afterwards; only Sort reorders children
// in place.
type Node struct {
	id   uint64
	kind Kind

	offset uint64
	size   uint64

	displayName   string
	typeName      string
	formattedName string
	variableName  string
	comment       string

	color uint32

	hidden  bool
	sealed  bool
	inlined bool

	// Bitfield field placement, in bits relative to offset.
	bitOffset uint64
	bitSize   uint64

	children []*Node
	pointee  *Node

	valueFn   func() string
	value     string
	valueDone bool
}

// Spec holds the attributes of a node under construction. The zero value of
// every field is valid.
type Spec struct {
	Kind          Kind
	Offset        uint64
	Size          uint64
	DisplayName   string
	TypeName      string
	FormattedName string
	VariableName  string
	Comment       string
	Color         uint32
	Hidden        bool
	Sealed        bool
	Inlined       bool
	BitOffset     uint64
	BitSize       uint64
	Value         func() string
}

// Builder constructs nodes with stable, monotonically increasing IDs.
// A single Builder is used per tree so IDs are unique within it.
type Builder struct {
	nextID uint64
}

// Node creates a new node from the given spec and assigns it the next ID.
func (b *Builder) Node(s Spec) *Node {
	b.nextID++
	return &Node{
		id:            b.nextID,
		kind:          s.Kind,
		offset:        s.Offset,
		size:          s.Size,
		displayName:   s.DisplayName,
		typeName:      s.TypeName,
		formattedName: s.FormattedName,
		variableName:  s.VariableName,
		comment:       s.Comment,
		color:         s.Color,
		hidden:        s.Hidden,
		sealed:        s.Sealed,
		inlined:       s.Inlined,
		bitOffset:     s.BitOffset,
		bitSize:       s.BitSize,
		valueFn:       s.Value,
	}
}

// ID returns the builder-assigned identity token. IDs are stable for the
// lifetime of the tree.
func (n *Node) ID() uint64 { return n.id }

func (n *Node) Kind() Kind            { return n.kind }
func (n *Node) Offset() uint64        { return n.offset }
func (n *Node) Size() uint64          { return n.size }
func (n *Node) DisplayName() string   { return n.displayName }
func (n *Node) TypeName() string      { return n.typeName }
func (n *Node) FormattedName() string { return n.formattedName }
func (n *Node) VariableName() string  { return n.variableName }
func (n *Node) Comment() string       { return n.comment }
func (n *Node) Color() uint32         { return n.color }
func (n *Node) Hidden() bool          { return n.hidden }
func (n *Node) Sealed() bool          { return n.sealed }
func (n *Node) Inlined() bool         { return n.inlined }
func (n *Node) BitOffset() uint64     { return n.bitOffset }
func (n *Node) BitSize() uint64       { return n.bitSize }

// FormattedValue returns the node's display value, computing and caching it
// on first use.
func (n *Node) FormattedValue() string {
	if !n.valueDone {
		if n.valueFn != nil {
			n.value = n.valueFn()
		}
		n.valueDone = true
	}
	return n.value
}

// AppendChild adds an entry to a container node. Used during tree
// construction only.
func (n *Node) AppendChild(child *Node) {
	n.children = append(n.children, child)
}

// SetSize records a container's measured span once its members have been
// decoded. Used during tree construction only.
func (n *Node) SetSize(size uint64) {
	n.size = size
}

// SetPointee records the single pointed-at node of a Pointer.
func (n *Node) SetPointee(target *Node) {
	n.pointee = target
}

// PointedAt returns the target of a Pointer node, or nil.
func (n *Node) PointedAt() *Node { return n.pointee }

// EntryCount returns the number of container entries.
func (n *Node) EntryCount() uint64 { return uint64(len(n.children)) }

// Entry returns the i-th container entry. The index must be in range.
func (n *Node) Entry(i uint64) *Node { return n.children[i] }

// ForEachEntry calls fn for each entry in [start, end), in index order. The
// range is clamped to the entry count.
func (n *Node) ForEachEntry(start, end uint64, fn func(idx uint64, entry *Node)) {
	if end > uint64(len(n.children)) {
		end = uint64(len(n.children))
	}
	for i := start; i < end; i++ {
		fn(i, n.children[i])
	}
}

// Comparator orders two sibling nodes. It reports whether left sorts before
// right under the active sort specification.
type Comparator func(left, right *Node) bool

// Sort reorders this node's children in place according to cmp, then
// recurses so nested containers follow the same order. Pointer targets are
// included in the recursion.
func (n *Node) Sort(cmp Comparator) {
	if len(n.children) > 0 {
		sort.SliceStable(n.children, func(i, j int) bool {
			return cmp(n.children[i], n.children[j])
		})
		for _, child := range n.children {
			child.Sort(cmp)
		}
	}
	if n.pointee != nil {
		n.pointee.Sort(cmp)
	}
}
