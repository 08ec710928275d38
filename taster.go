package jelly

import "sync"

// Taster is the security policy consulted by the Jellier and Unjellier.
// All three predicates are total, pure, and cheap: a Taster never
// mutates or performs I/O during a single jelly/unjelly call.
type Taster interface {
	// TypeAllowed reports whether a compound tag (or, for atoms, one of
	// the AtomType* primitive names) may appear in the Sexp.
	TypeAllowed(tag string) bool

	// ModuleAllowed reports whether a named module may be resolved.
	ModuleAllowed(module string) bool

	// ClassAllowed reports whether a class handle may be instantiated.
	ClassAllowed(class ClassHandle) bool
}

// permissiveTaster allows everything. It is the default Taster for
// Jelly/Unjelly when the caller supplies none.
type permissiveTaster struct{}

// Permissive returns a Taster that allows every tag, module, and class.
// Use it only for trusted input; it performs no security filtering.
func Permissive() Taster { return permissiveTaster{} }

func (permissiveTaster) TypeAllowed(string) bool         { return true }
func (permissiveTaster) ModuleAllowed(string) bool       { return true }
func (permissiveTaster) ClassAllowed(ClassHandle) bool   { return true }

// RestrictiveTaster denies everything except a small, explicit
// allow-list. Construct one with Restrictive and widen it with the
// builder methods before use; a RestrictiveTaster is safe for
// concurrent reads once construction is complete, but the builder
// methods themselves are not safe to call concurrently with a jelly or
// unjelly call in flight.
type RestrictiveTaster struct {
	mu           sync.RWMutex
	types        map[string]bool
	modules      map[string]bool
	classes      map[string]bool
	fingerprints map[string]bool
}

// Restrictive returns a Taster that, by default, allows only the
// primitive atom type names (None, string, int, float) and nothing
// compound, no modules, and no classes.
func Restrictive() *RestrictiveTaster {
	t := &RestrictiveTaster{
		types:        make(map[string]bool),
		modules:      make(map[string]bool),
		classes:      make(map[string]bool),
		fingerprints: make(map[string]bool),
	}
	t.types[AtomTypeNone] = true
	t.types[AtomTypeString] = true
	t.types[AtomTypeInt] = true
	t.types[AtomTypeFloat] = true
	return t
}

// AllowTypes adds compound tag names to the allow-set.
func (t *RestrictiveTaster) AllowTypes(names ...string) *RestrictiveTaster {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, n := range names {
		t.types[n] = true
	}
	return t
}

// AllowBasicTypes is shorthand for the structural plumbing tags that
// carry no code-execution risk on their own: dictionary, list, tuple,
// reference, dereference, unpersistable, persistent.
func (t *RestrictiveTaster) AllowBasicTypes() *RestrictiveTaster {
	names := make([]string, 0, len(basicTags))
	for _, tag := range basicTags {
		names = append(names, string(tag))
	}
	return t.AllowTypes(names...)
}

// AllowModules adds module names to the allow-set. It additionally
// implies the module tag itself is allowed.
func (t *RestrictiveTaster) AllowModules(names ...string) *RestrictiveTaster {
	t.mu.Lock()
	for _, n := range names {
		t.modules[n] = true
	}
	t.mu.Unlock()
	return t.AllowTypes(string(TagModule))
}

// AllowInstancesOf adds each class's module to the allowed modules,
// adds each class to the allowed classes, and enables AllowBasicTypes
// plus the instance, class, and module tags.
func (t *RestrictiveTaster) AllowInstancesOf(classes ...ClassHandle) *RestrictiveTaster {
	t.mu.Lock()
	for _, c := range classes {
		t.modules[c.Module] = true
		t.classes[classKey(c)] = true
	}
	t.mu.Unlock()
	t.AllowBasicTypes()
	return t.AllowTypes(string(TagInstance), string(TagClass), string(TagModule))
}

// AllowClassFingerprint admits any class whose module.name key hashes,
// under SHA256Hasher, to the given hex digest. Unlike AllowInstancesOf,
// this lets an operator distribute an allow-list as opaque digests
// (e.g. in a config file) without importing the Go type the digest
// names, at the cost of checking a hash on every ClassAllowed call. It
// does not imply any module, tag, or basic-type allowance; pair it with
// AllowModules/AllowBasicTypes/AllowTypes(TagInstance, ...) as needed.
func (t *RestrictiveTaster) AllowClassFingerprint(sha256Hex ...string) *RestrictiveTaster {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, digest := range sha256Hex {
		t.fingerprints[digest] = true
	}
	return t
}

// ClassFingerprint returns the SHA-256 hex digest AllowClassFingerprint
// expects for class, so an operator can print one while registering a
// class to build a distributable allow-list instead of hand-computing
// it.
func ClassFingerprint(class ClassHandle) (string, error) {
	return classFingerprintHasher.Hash([]byte(classKey(class)))
}

func (t *RestrictiveTaster) TypeAllowed(tag string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.types[tag]
}

func (t *RestrictiveTaster) ModuleAllowed(module string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.modules[module]
}

func (t *RestrictiveTaster) ClassAllowed(class ClassHandle) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.classes[classKey(class)] {
		return true
	}
	if len(t.fingerprints) == 0 {
		return false
	}
	digest, err := classFingerprintHasher.Hash([]byte(classKey(class)))
	if err != nil {
		return false
	}
	return t.fingerprints[digest]
}

// classFingerprintHasher backs AllowClassFingerprint. It is package-level
// rather than per-Taster because SHA256Hasher is stateless.
var classFingerprintHasher = SHA256Hasher()

func classKey(c ClassHandle) string {
	return c.Module + "." + c.Name
}
