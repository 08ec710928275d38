package jelly

// Tag identifies a compound form's head atom. Use these constants in
// Sexp construction and in Taster.TypeAllowed checks.
type Tag string

// Compound tags. This is the closed set: any other head atom on a
// list is a decode error (InsecureJelly if security-rejected by the
// Taster, FormatError otherwise).
const (
	TagNone          Tag = "None"
	TagInstance      Tag = "instance"
	TagClass         Tag = "class"
	TagDictionary    Tag = "dictionary"
	TagList          Tag = "list"
	TagTuple         Tag = "tuple"
	TagModule        Tag = "module"
	TagFunction      Tag = "function"
	TagMethod        Tag = "method"
	TagReference     Tag = "reference"
	TagDereference   Tag = "dereference"
	TagPersistent    Tag = "persistent"
	TagUnpersistable Tag = "unpersistable"
)

// Primitive atom type names, as passed to Taster.TypeAllowed for bare
// scalar values. These are distinct from Tag: an atom carries no head,
// so there's nothing in the wire form to gate on directly, but a
// RestrictiveTaster still names them in its default allow-set.
const (
	AtomTypeNone   = "None"
	AtomTypeString = "string"
	AtomTypeInt    = "int"
	AtomTypeFloat  = "float"
)

// allTags lists every compound tag, for validation and enumeration.
var allTags = map[Tag]bool{
	TagNone:          true,
	TagInstance:      true,
	TagClass:         true,
	TagDictionary:    true,
	TagList:          true,
	TagTuple:         true,
	TagModule:        true,
	TagFunction:      true,
	TagMethod:        true,
	TagReference:     true,
	TagDereference:   true,
	TagPersistent:    true,
	TagUnpersistable: true,
}

// IsValidTag returns true if name is a member of the closed compound
// tag set.
func IsValidTag(name string) bool {
	return allTags[Tag(name)]
}

// basicTags are the tags RestrictiveTaster.AllowBasicTypes grants in
// one call: the structural plumbing tags that carry no code-execution
// risk on their own (everything except None, and except
// instance/class/module/function/method, which name live host symbols
// and so get their own gate).
var basicTags = []Tag{
	TagDictionary,
	TagList,
	TagTuple,
	TagReference,
	TagDereference,
	TagUnpersistable,
	TagPersistent,
}
