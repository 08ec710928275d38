package jelly

// Override interfaces let a type add its own handling to the Jellier's
// reflection-driven processing. The Jellier calls them alongside the
// configured persistent store and the Registry's field plan, in the
// order each interface states.

// Persistable lets an instance compute its own opaque external
// identifier. The Jellier consults it only when no PersistentStore is
// configured or the configured store declines the instance.
type Persistable interface {
	// PersistentKey returns the opaque identifier to emit in a
	// (persistent OPAQUE) node, and true if this instance should be
	// persisted rather than jellied structurally.
	PersistentKey() (opaque string, persist bool)
}

// Maskable lets a type apply masking logic a struct tag can't express.
// MaskState runs on the state ExportState returns, after any jelly.mask
// tags have already masked their fields.
type Maskable interface {
	// MaskState returns state with any sensitive fields already masked.
	MaskState(state map[string]any) (map[string]any, error)
}
