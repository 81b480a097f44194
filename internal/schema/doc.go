// Package schema parses TOML structure-layout descriptions and decodes
// binary blobs against them into pattern trees.
//
// # Layout format
//
// A layout names user types and instantiates them at offsets:
//
//	endian = "little"
//
//	[[root]]
//	name = "header"
//	type = "Header"
//	offset = 0
//
//	[types.Header]
//	kind = "struct"
//	fields = [
//	    { name = "magic", type = "u32", format = "hex" },
//	    { name = "version", type = "u16" },
//	    { name = "flags", type = "Flags" },
//	    { name = "title", type = "str", length = 8 },
//	    { name = "entries", type = "Entry", count = 4 },
//	]
//
//	[types.Flags]
//	kind = "bitfield"
//	storage = "u8"
//	fields = [
//	    { name = "compressed", bits = 1 },
//	    { name = "level", bits = 3 },
//	]
//
// Primitive field types: u8..u64, s8..s64, f32, f64, bool, char, wchar,
// str (with length), wstr (with length), pad (with length). A field with
// count > 0 becomes an array of its element type. A field with pointer_to
// reads an address through its scalar storage type and decodes the target
// type at that address. User types may be struct, union, bitfield or enum.
//
// Fields accept hidden, sealed, inlined and comment attributes, which are
// carried onto the produced nodes verbatim. Node colors are assigned from
// a fixed palette in decode order.
//
// # Errors
//
// Parse rejects malformed documents and dangling type references; Decode
// rejects reads past the end of the blob and cyclic type definitions. All
// errors are wrapped with the field path that caused them.
package schema
