package pattern

// Kind identifies the variant of a pattern node. The set is closed: it is
// fixed by the layout grammar, and every consumer switches exhaustively
// over it.
type Kind int

const (
	Boolean Kind = iota
	Character
	WideCharacter
	Signed
	Unsigned
	Float
	String
	WideString
	Enum
	Padding
	Bitfield
	BitfieldField
	Pointer
	Struct
	Union
	ArrayStatic
	ArrayDynamic
)

var kindNames = map[Kind]string{
	Boolean:       "bool",
	Character:     "char",
	WideCharacter: "wchar",
	Signed:        "signed",
	Unsigned:      "unsigned",
	Float:         "float",
	String:        "string",
	WideString:    "wstring",
	Enum:          "enum",
	Padding:       "padding",
	Bitfield:      "bitfield",
	BitfieldField: "bits",
	Pointer:       "pointer",
	Struct:        "struct",
	Union:         "union",
	ArrayStatic:   "array",
	ArrayDynamic:  "array",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsContainer reports whether nodes of this kind carry an ordered entry
// list. Pointer is not a container in this sense; it has exactly one
// pointed-at node instead.
func (k Kind) IsContainer() bool {
	switch k {
	case Struct, Union, ArrayStatic, ArrayDynamic, Bitfield:
		return true
	default:
		return false
	}
}
