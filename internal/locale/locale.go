// Package locale resolves user-facing labels by key. It is a plain string
// table: callers treat it as an opaque provider and never assume a key
// exists, since unknown keys resolve to themselves.
package locale

var labels = map[string]string{
	"hexwalk.pattern.show_more":     "press enter to show more",
	"hexwalk.pattern.column.name":   "Name",
	"hexwalk.pattern.column.color":  "Color",
	"hexwalk.pattern.column.offset": "Offset",
	"hexwalk.pattern.column.size":   "Size",
	"hexwalk.pattern.column.type":   "Type",
	"hexwalk.pattern.column.value":  "Value",
	"hexwalk.hex.title":             "Hex",
	"hexwalk.pattern.title":         "Patterns",
	"hexwalk.status.no_selection":   "no selection",
}

// Translate returns the label for key, or the key itself when no label is
// registered.
func Translate(key string) string {
	if s, ok := labels[key]; ok {
		return s
	}
	return key
}
