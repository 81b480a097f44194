package drawer

// Region is a half-open byte range [Address, Address+Size).
type Region struct {
	Address uint64
	Size    uint64
}

// End returns the first address past the region.
func (r Region) End() uint64 { return r.Address + r.Size }

// Overlaps reports whether two half-open regions share at least one byte:
// neither is entirely before the other.
func (r Region) Overlaps(other Region) bool {
	return r.Address < other.End() && other.Address < r.End()
}

// SelectionBridge is the external owner of the currently selected byte
// range, typically the hex view. The drawer reads it for highlighting and
// writes it when a row is activated.
type SelectionBridge interface {
	// Current returns the live selection, or ok=false when nothing is
	// selected.
	Current() (Region, bool)

	// Set replaces the selection with [address, address+size).
	Set(address, size uint64)
}

// Translator resolves a user-facing label by key. Unknown keys resolve to
// themselves, so a nil-safe caller can always display the result.
type Translator func(key string) string
