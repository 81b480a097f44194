package schema

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf16"

	"github.com/hexwalk/hexwalk/internal/pattern"
)

// palette provides node colors, cycled in decode order. Values are 0xAARRGGBB.
var palette = []uint32{
	0xFF6A4FC0, 0xFF2D8F5A, 0xFFB5543E, 0xFF3E7AB5,
	0xFFB59A3E, 0xFF8F2D7C, 0xFF3EB5A4, 0xFFB53E6E,
}

type decoder struct {
	layout   *Layout
	blob     []byte
	builder  pattern.Builder
	colorIdx int
	visiting map[string]bool
}

// Decode reads the blob according to the layout and returns the root
// pattern nodes in declaration order.
func (l *Layout) Decode(blob []byte) ([]*pattern.Node, error) {
	d := &decoder{layout: l, blob: blob, visiting: map[string]bool{}}

	var roots []*pattern.Node
	for _, f := range l.root {
		node, _, err := d.field(f, f.Offset)
		if err != nil {
			return nil, err
		}
		roots = append(roots, node)
	}
	return roots, nil
}

func (d *decoder) nextColor() uint32 {
	c := palette[d.colorIdx%len(palette)]
	d.colorIdx++
	return c
}

func (d *decoder) read(offset, size uint64) ([]byte, error) {
	if offset+size > uint64(len(d.blob)) || offset+size < offset {
		return nil, fmt.Errorf("read past end of data (offset %#x, size %#x, blob %#x bytes)",
			offset, size, len(d.blob))
	}
	return d.blob[offset : offset+size], nil
}

func (d *decoder) readUint(offset, size uint64) (uint64, error) {
	raw, err := d.read(offset, size)
	if err != nil {
		return 0, err
	}
	switch size {
	case 1:
		return uint64(raw[0]), nil
	case 2:
		return uint64(d.layout.order.Uint16(raw)), nil
	case 4:
		return uint64(d.layout.order.Uint32(raw)), nil
	case 8:
		return d.layout.order.Uint64(raw), nil
	default:
		return 0, fmt.Errorf("unsupported scalar size %d", size)
	}
}

// field decodes one field at the given offset and returns the node plus
// the offset immediately after it.
func (d *decoder) field(f rawField, offset uint64) (*pattern.Node, uint64, error) {
	if f.Count > 0 {
		return d.array(f, offset)
	}
	if f.PointerTo != "" {
		return d.pointer(f, offset)
	}

	switch f.Type {
	case "str":
		return d.text(f, offset, false)
	case "wstr":
		return d.text(f, offset, true)
	case "pad":
		node := d.builder.Node(pattern.Spec{
			Kind:         pattern.Padding,
			Offset:       offset,
			Size:         f.Length,
			DisplayName:  f.Name,
			VariableName: f.Name,
			TypeName:     "padding",
		})
		return node, offset + f.Length, nil
	}

	if size, ok := primitiveSizes[f.Type]; ok {
		return d.scalar(f, offset, size)
	}

	t, ok := d.layout.types[f.Type]
	if !ok {
		return nil, 0, fmt.Errorf("field %q: type %q not defined", f.Name, f.Type)
	}
	if d.visiting[f.Type] {
		return nil, 0, fmt.Errorf("field %q: type cycle through %q", f.Name, f.Type)
	}
	d.visiting[f.Type] = true
	defer delete(d.visiting, f.Type)

	switch t.Kind {
	case "struct":
		return d.structType(f, t, offset)
	case "union":
		return d.unionType(f, t, offset)
	case "bitfield":
		return d.bitfieldType(f, t, offset)
	case "enum":
		return d.enumType(f, t, offset)
	default:
		return nil, 0, fmt.Errorf("field %q: unknown kind %q", f.Name, t.Kind)
	}
}

func (d *decoder) array(f rawField, offset uint64) (*pattern.Node, uint64, error) {
	arr := d.builder.Node(pattern.Spec{
		Kind:         pattern.ArrayStatic,
		Offset:       offset,
		DisplayName:  f.Name,
		VariableName: f.Name,
		TypeName:     f.Type,
		Comment:      f.Comment,
		Color:        d.nextColor(),
		Hidden:       f.Hidden,
		Sealed:       f.Sealed,
		Inlined:      f.Inlined,
	})

	elem := f
	elem.Count = 0
	elem.Comment = ""
	elem.Hidden = false
	elem.Sealed = false
	elem.Inlined = false

	cursor := offset
	for i := uint64(0); i < f.Count; i++ {
		e := elem
		e.Name = fmt.Sprintf("[%d]", i)
		child, next, err := d.field(e, cursor)
		if err != nil {
			return nil, 0, fmt.Errorf("%s[%d]: %w", f.Name, i, err)
		}
		arr.AppendChild(child)
		cursor = next
	}
	arr.SetSize(cursor - offset)
	return arr, cursor, nil
}

func (d *decoder) pointer(f rawField, offset uint64) (*pattern.Node, uint64, error) {
	size := primitiveSizes[f.Type]
	addr, err := d.readUint(offset, size)
	if err != nil {
		return nil, 0, fmt.Errorf("field %q: %w", f.Name, err)
	}

	node := d.builder.Node(pattern.Spec{
		Kind:          pattern.Pointer,
		Offset:        offset,
		Size:          size,
		DisplayName:   f.Name,
		VariableName:  f.Name,
		TypeName:      f.Type,
		FormattedName: f.PointerTo + " *",
		Comment:       f.Comment,
		Color:         d.nextColor(),
		Hidden:        f.Hidden,
		Sealed:        f.Sealed,
		Inlined:       f.Inlined,
		Value:         func() string { return fmt.Sprintf("*(0x%08X)", addr) },
	})

	// A target outside the blob is a display degenerate, not an error:
	// the pointer renders with no child.
	if addr < uint64(len(d.blob)) {
		target, _, err := d.field(rawField{Name: "*" + f.Name, Type: f.PointerTo}, addr)
		if err == nil {
			node.SetPointee(target)
		}
	}
	return node, offset + size, nil
}

func (d *decoder) scalar(f rawField, offset, size uint64) (*pattern.Node, uint64, error) {
	raw, err := d.readUint(offset, size)
	if err != nil {
		return nil, 0, fmt.Errorf("field %q: %w", f.Name, err)
	}

	kind := pattern.Unsigned
	switch f.Type {
	case "s8", "s16", "s32", "s64":
		kind = pattern.Signed
	case "f32", "f64":
		kind = pattern.Float
	case "bool":
		kind = pattern.Boolean
	case "char":
		kind = pattern.Character
	case "wchar":
		kind = pattern.WideCharacter
	}

	node := d.builder.Node(pattern.Spec{
		Kind:         kind,
		Offset:       offset,
		Size:         size,
		DisplayName:  f.Name,
		VariableName: f.Name,
		TypeName:     f.Type,
		Comment:      f.Comment,
		Color:        d.nextColor(),
		Hidden:       f.Hidden,
		Value:        scalarFormatter(kind, raw, size, f.Format),
	})
	return node, offset + size, nil
}

func scalarFormatter(kind pattern.Kind, raw, size uint64, format string) func() string {
	return func() string {
		switch kind {
		case pattern.Boolean:
			if raw != 0 {
				return "true"
			}
			return "false"
		case pattern.Character:
			return quoteChar(rune(byte(raw)))
		case pattern.WideCharacter:
			return quoteChar(utf16.Decode([]uint16{uint16(raw)})[0])
		case pattern.Float:
			if size == 4 {
				return fmt.Sprintf("%g", math.Float32frombits(uint32(raw)))
			}
			return fmt.Sprintf("%g", math.Float64frombits(raw))
		case pattern.Signed:
			v := signExtend(raw, size)
			if format == "hex" {
				return fmt.Sprintf("%#x", v)
			}
			return fmt.Sprintf("%d", v)
		default:
			if format == "hex" {
				return fmt.Sprintf("0x%0*X", size*2, raw)
			}
			return fmt.Sprintf("%d", raw)
		}
	}
}

func signExtend(raw, size uint64) int64 {
	shift := 64 - size*8
	return int64(raw<<shift) >> shift
}

func quoteChar(r rune) string {
	if r >= 0x20 && r != 0x7F {
		return fmt.Sprintf("'%c'", r)
	}
	return fmt.Sprintf("'\\x%02X'", r)
}

func (d *decoder) text(f rawField, offset uint64, wide bool) (*pattern.Node, uint64, error) {
	size := f.Length
	kind := pattern.String
	typeName := fmt.Sprintf("str[%d]", f.Length)
	if wide {
		size = f.Length * 2
		kind = pattern.WideString
		typeName = fmt.Sprintf("wstr[%d]", f.Length)
	}

	raw, err := d.read(offset, size)
	if err != nil {
		return nil, 0, fmt.Errorf("field %q: %w", f.Name, err)
	}
	order := d.layout.order

	node := d.builder.Node(pattern.Spec{
		Kind:         kind,
		Offset:       offset,
		Size:         size,
		DisplayName:  f.Name,
		VariableName: f.Name,
		TypeName:     typeName,
		Comment:      f.Comment,
		Color:        d.nextColor(),
		Hidden:       f.Hidden,
		Value: func() string {
			if !wide {
				return fmt.Sprintf("%q", strings.TrimRight(string(raw), "\x00"))
			}
			units := make([]uint16, len(raw)/2)
			for i := range units {
				units[i] = order.Uint16(raw[i*2:])
			}
			return fmt.Sprintf("%q", strings.TrimRight(string(utf16.Decode(units)), "\x00"))
		},
	})
	return node, offset + size, nil
}

func (d *decoder) structType(f rawField, t rawType, offset uint64) (*pattern.Node, uint64, error) {
	node := d.builder.Node(pattern.Spec{
		Kind:         pattern.Struct,
		Offset:       offset,
		DisplayName:  f.Name,
		VariableName: f.Name,
		TypeName:     f.Type,
		Comment:      f.Comment,
		Color:        d.nextColor(),
		Hidden:       f.Hidden,
		Sealed:       f.Sealed,
		Inlined:      f.Inlined,
	})

	cursor := offset
	for _, member := range t.Fields {
		child, next, err := d.field(member, cursor)
		if err != nil {
			return nil, 0, fmt.Errorf("%s.%w", f.Name, err)
		}
		node.AppendChild(child)
		cursor = next
	}
	node.SetSize(cursor - offset)
	return node, cursor, nil
}

func (d *decoder) unionType(f rawField, t rawType, offset uint64) (*pattern.Node, uint64, error) {
	node := d.builder.Node(pattern.Spec{
		Kind:         pattern.Union,
		Offset:       offset,
		DisplayName:  f.Name,
		VariableName: f.Name,
		TypeName:     f.Type,
		Comment:      f.Comment,
		Color:        d.nextColor(),
		Hidden:       f.Hidden,
		Sealed:       f.Sealed,
		Inlined:      f.Inlined,
	})

	var largest uint64
	for _, member := range t.Fields {
		child, next, err := d.field(member, offset)
		if err != nil {
			return nil, 0, fmt.Errorf("%s.%w", f.Name, err)
		}
		node.AppendChild(child)
		if span := next - offset; span > largest {
			largest = span
		}
	}
	node.SetSize(largest)
	return node, offset + largest, nil
}

func (d *decoder) bitfieldType(f rawField, t rawType, offset uint64) (*pattern.Node, uint64, error) {
	size := primitiveSizes[t.Storage]
	raw, err := d.readUint(offset, size)
	if err != nil {
		return nil, 0, fmt.Errorf("field %q: %w", f.Name, err)
	}

	node := d.builder.Node(pattern.Spec{
		Kind:         pattern.Bitfield,
		Offset:       offset,
		Size:         size,
		DisplayName:  f.Name,
		VariableName: f.Name,
		TypeName:     f.Type,
		Comment:      f.Comment,
		Color:        d.nextColor(),
		Hidden:       f.Hidden,
		Sealed:       f.Sealed,
		Inlined:      f.Inlined,
		Value:        func() string { return fmt.Sprintf("0x%0*X", size*2, raw) },
	})

	bitCursor := uint64(0)
	for _, member := range t.Fields {
		bits := member.Bits
		value := (raw >> bitCursor) & ((1 << bits) - 1)
		node.AppendChild(d.builder.Node(pattern.Spec{
			Kind:         pattern.BitfieldField,
			Offset:       offset,
			Size:         size,
			DisplayName:  member.Name,
			VariableName: member.Name,
			TypeName:     "bits",
			Comment:      member.Comment,
			Color:        node.Color(),
			Hidden:       member.Hidden,
			BitOffset:    bitCursor,
			BitSize:      bits,
			Value:        func() string { return fmt.Sprintf("%d", value) },
		}))
		bitCursor += bits
	}
	return node, offset + size, nil
}

func (d *decoder) enumType(f rawField, t rawType, offset uint64) (*pattern.Node, uint64, error) {
	size := primitiveSizes[t.Storage]
	raw, err := d.readUint(offset, size)
	if err != nil {
		return nil, 0, fmt.Errorf("field %q: %w", f.Name, err)
	}

	values := t.Values
	node := d.builder.Node(pattern.Spec{
		Kind:         pattern.Enum,
		Offset:       offset,
		Size:         size,
		DisplayName:  f.Name,
		VariableName: f.Name,
		TypeName:     f.Type,
		Comment:      f.Comment,
		Color:        d.nextColor(),
		Hidden:       f.Hidden,
		Value: func() string {
			for name, v := range values {
				if uint64(v) == raw {
					return fmt.Sprintf("%s (0x%X)", name, raw)
				}
			}
			return fmt.Sprintf("0x%X", raw)
		},
	})
	return node, offset + size, nil
}
