package xmlskema

// Presence is the bit flag collected by DecodeWithMeta.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field appeared in the document.
	PresenceEmpty                               // Field appeared with an empty string.
	PresenceDefaultApplied                      // Field was absent and its default was applied.
)

// PresenceMap maps JSON Pointers to Presence flags.
type PresenceMap map[string]Presence

// Seen reports whether path appeared in the document.
func (pm PresenceMap) Seen(path string) bool { return pm[path]&PresenceSeen != 0 }

// DefaultApplied reports whether path was filled from its default.
func (pm PresenceMap) DefaultApplied(path string) bool {
	return pm[path]&PresenceDefaultApplied != 0
}

// Decoded carries the decoded value along with presence metadata.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
}
