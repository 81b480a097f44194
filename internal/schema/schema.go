package schema

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Layout is a parsed structure description, ready to decode blobs.
type Layout struct {
	order binary.ByteOrder
	types map[string]rawType
	root  []rawField
}

type rawLayout struct {
	Endian string             `toml:"endian"`
	Types  map[string]rawType `toml:"types"`
	Root   []rawField         `toml:"root"`
}

type rawType struct {
	Kind    string           `toml:"kind"`    // struct, union, bitfield, enum
	Storage string           `toml:"storage"` // bitfield/enum underlying scalar
	Fields  []rawField       `toml:"fields"`
	Values  map[string]int64 `toml:"values"` // enum value names
}

type rawField struct {
	Name      string `toml:"name"`
	Type      string `toml:"type"`
	Count     uint64 `toml:"count"`
	Length    uint64 `toml:"length"`
	Bits      uint64 `toml:"bits"`
	Offset    uint64 `toml:"offset"` // root entries only
	PointerTo string `toml:"pointer_to"`
	Format    string `toml:"format"` // hex or dec, scalars only
	Hidden    bool   `toml:"hidden"`
	Sealed    bool   `toml:"sealed"`
	Inlined   bool   `toml:"inlined"`
	Comment   string `toml:"comment"`
}

// primitive scalar widths in bytes; strings, padding and user types are
// sized elsewhere.
var primitiveSizes = map[string]uint64{
	"u8": 1, "u16": 2, "u32": 4, "u64": 8,
	"s8": 1, "s16": 2, "s32": 4, "s64": 8,
	"f32": 4, "f64": 8,
	"bool": 1, "char": 1, "wchar": 2,
}

// Load reads and parses a layout file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	layout, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", path, err)
	}
	return layout, nil
}

// Parse parses a layout document and validates its type references.
func Parse(data []byte) (*Layout, error) {
	var raw rawLayout
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}

	order, err := byteOrder(raw.Endian)
	if err != nil {
		return nil, err
	}
	if len(raw.Root) == 0 {
		return nil, fmt.Errorf("layout has no root entries")
	}

	l := &Layout{order: order, types: raw.Types, root: raw.Root}
	if l.types == nil {
		l.types = map[string]rawType{}
	}

	for name, t := range l.types {
		if err := l.validateType(name, t); err != nil {
			return nil, err
		}
	}
	for _, f := range raw.Root {
		if err := l.validateField("root", f); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func byteOrder(name string) (binary.ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "little":
		return binary.LittleEndian, nil
	case "big":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("unknown endian %q", name)
	}
}

func (l *Layout) validateType(name string, t rawType) error {
	switch t.Kind {
	case "struct", "union":
		if len(t.Fields) == 0 {
			return fmt.Errorf("type %s: %s has no fields", name, t.Kind)
		}
		for _, f := range t.Fields {
			if err := l.validateField(name, f); err != nil {
				return err
			}
		}
	case "bitfield":
		if _, ok := primitiveSizes[t.Storage]; !ok {
			return fmt.Errorf("type %s: bitfield storage %q is not a scalar", name, t.Storage)
		}
		for _, f := range t.Fields {
			if f.Bits == 0 {
				return fmt.Errorf("type %s: bitfield member %q needs bits > 0", name, f.Name)
			}
		}
	case "enum":
		if _, ok := primitiveSizes[t.Storage]; !ok {
			return fmt.Errorf("type %s: enum storage %q is not a scalar", name, t.Storage)
		}
		if len(t.Values) == 0 {
			return fmt.Errorf("type %s: enum has no values", name)
		}
	default:
		return fmt.Errorf("type %s: unknown kind %q", name, t.Kind)
	}
	return nil
}

func (l *Layout) validateField(owner string, f rawField) error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%s: field without a name", owner)
	}
	if f.PointerTo != "" {
		switch f.Type {
		case "u8", "u16", "u32", "u64":
		default:
			return fmt.Errorf("%s.%s: pointer storage must be an unsigned scalar, got %q", owner, f.Name, f.Type)
		}
		if _, ok := l.types[f.PointerTo]; !ok {
			if _, prim := primitiveSizes[f.PointerTo]; !prim {
				return fmt.Errorf("%s.%s: pointer target type %q not defined", owner, f.Name, f.PointerTo)
			}
		}
		return nil
	}
	switch f.Type {
	case "str", "wstr", "pad":
		if f.Length == 0 {
			return fmt.Errorf("%s.%s: %s needs length > 0", owner, f.Name, f.Type)
		}
		return nil
	}
	if _, ok := primitiveSizes[f.Type]; ok {
		return nil
	}
	if _, ok := l.types[f.Type]; !ok {
		return fmt.Errorf("%s.%s: type %q not defined", owner, f.Name, f.Type)
	}
	return nil
}
