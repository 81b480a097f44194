package drawer

import "github.com/hexwalk/hexwalk/internal/pattern"

// SortKey selects which column orders sibling nodes.
type SortKey int

const (
	SortNone SortKey = iota
	SortName
	SortColor
	SortOffset
	SortSize
	SortType
	SortValue
)

var sortKeyNames = map[SortKey]string{
	SortNone:   "none",
	SortName:   "name",
	SortColor:  "color",
	SortOffset: "offset",
	SortSize:   "size",
	SortType:   "type",
	SortValue:  "value",
}

func (k SortKey) String() string {
	if name, ok := sortKeyNames[k]; ok {
		return name
	}
	return "none"
}

// ParseSortKey maps a stored key name back to a SortKey. Unrecognized names
// yield SortNone.
func ParseSortKey(name string) SortKey {
	for k, n := range sortKeyNames {
		if n == name {
			return k
		}
	}
	return SortNone
}

// SortDirection is the user-chosen column sort direction.
type SortDirection int

const (
	SortAscending SortDirection = iota
	SortDescending
)

func (d SortDirection) String() string {
	if d == SortDescending {
		return "descending"
	}
	return "ascending"
}

// ParseSortDirection maps a stored direction name back to a SortDirection.
func ParseSortDirection(name string) SortDirection {
	if name == "descending" {
		return SortDescending
	}
	return SortAscending
}

// comparator builds the sibling ordering for the given sort spec.
//
// The comparator's sense is inverted: "ascending" compares with > and
// "descending" with <. The displayed order depends on this sense; do not
// flip it. An unknown key compares everything false, which leaves the
// existing order untouched.
func comparator(key SortKey, dir SortDirection) pattern.Comparator {
	asc := dir == SortAscending
	switch key {
	case SortName:
		return func(l, r *pattern.Node) bool {
			if asc {
				return l.DisplayName() > r.DisplayName()
			}
			return l.DisplayName() < r.DisplayName()
		}
	case SortColor:
		return func(l, r *pattern.Node) bool {
			if asc {
				return l.Color() > r.Color()
			}
			return l.Color() < r.Color()
		}
	case SortOffset:
		return func(l, r *pattern.Node) bool {
			if asc {
				return l.Offset() > r.Offset()
			}
			return l.Offset() < r.Offset()
		}
	case SortSize:
		return func(l, r *pattern.Node) bool {
			if asc {
				return l.Size() > r.Size()
			}
			return l.Size() < r.Size()
		}
	case SortType:
		return func(l, r *pattern.Node) bool {
			if asc {
				return l.TypeName() > r.TypeName()
			}
			return l.TypeName() < r.TypeName()
		}
	case SortValue:
		return func(l, r *pattern.Node) bool {
			if asc {
				return l.FormattedValue() > r.FormattedValue()
			}
			return l.FormattedValue() < r.FormattedValue()
		}
	default:
		return func(l, r *pattern.Node) bool { return false }
	}
}
