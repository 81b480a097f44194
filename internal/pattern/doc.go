// Package pattern defines the typed node tree that results from decoding a
// binary blob against a structure layout.
//
// # Overview
//
// A pattern tree is a hierarchy of Node values, each describing one typed
// region of the underlying data: scalars, strings, enums, bitfields and
// their fields, pointers, and the container kinds (structs, unions, arrays).
// The tree is produced once by a decoder (see internal/schema) and is
// read-only afterwards, with one exception: containers may reorder their
// own children in place via Sort.
//
// # Identity
//
// Every node carries a stable numeric ID assigned by the Builder at
// construction time. Consumers that need per-node state across render
// passes (such as pagination counters) key it by ID rather than by pointer,
// so node storage is free to move.
//
// # Values
//
// A node's displayed value is computed lazily. Builders install a formatter
// function; the first call to FormattedValue runs it and caches the result.
// This keeps tree construction cheap for large arrays whose entries are
// mostly never shown.
//
// # Containers
//
// Kinds Struct, Union, ArrayStatic, ArrayDynamic and Bitfield expose an
// ordered, random-accessible entry list. Pointer exposes exactly one
// pointed-at node. ForEachEntry lets a consumer pull a sub-range of entries
// without the container knowing anything about rendering.
package pattern
