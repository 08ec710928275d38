package jelly

import "fmt"

// Unjellier is the decoder described in §4.4. One Unjellier serves
// exactly one Unjelly call; its identity table is discarded on return.
// A PersistentLoadFunc is called with the opaque payload only: it is not
// handed the Unjellier and cannot decode nested payloads through it.
type Unjellier struct {
	taster    Taster
	reflector Reflector
	load      PersistentLoadFunc

	identity   map[int]any
	hasPending bool
	pendingID  int
}

func newUnjellier(taster Taster, reflector Reflector, load PersistentLoadFunc) *Unjellier {
	return &Unjellier{
		taster:    taster,
		reflector: reflector,
		load:      load,
		identity:  make(map[int]any),
	}
}

// registerIdentity consumes the pending ID, if any, and records value
// under it. It is a no-op when no reference is currently open.
func (u *Unjellier) registerIdentity(value any) {
	if !u.hasPending {
		return
	}
	id := u.pendingID
	u.hasPending = false
	u.identity[id] = value
}

// Decode fully decodes s, keeping whatever promise its handler returns.
// This is the entry point top-level callers and reentrant callbacks use.
func (u *Unjellier) Decode(s Sexp) (any, error) {
	promise, value, err := u.decodeRaw(s)
	if err != nil {
		return nil, err
	}
	if err := promise.Keep(); err != nil {
		return nil, err
	}
	return value, nil
}

// decodeRaw dispatches on the shape of s and returns its handler's
// promise without keeping it, so callers that must defer filling (the
// tuple handler, in particular) can sequence the keep themselves.
func (u *Unjellier) decodeRaw(s Sexp) (*Promise, any, error) {
	if s.IsAtom() {
		switch s.AtomKind() {
		case AtomNull:
			return nil, nil, nil
		case AtomBool:
			return nil, s.BoolValue(), nil
		case AtomInt:
			return nil, s.IntValue(), nil
		case AtomFloat:
			return nil, s.FloatValue(), nil
		case AtomString:
			return nil, s.StringValue(), nil
		default:
			return nil, nil, newFormatError(ErrBadAtomType, "unrecognized atom kind")
		}
	}

	head, ok := s.Head()
	if !ok {
		return nil, nil, newFormatError(ErrUnknownTag, "list has no tag head")
	}
	if !IsValidTag(head) {
		return nil, nil, newFormatError(ErrUnknownTag, head)
	}
	if !u.taster.TypeAllowed(head) {
		emitSecurityReject("tag " + head)
		return nil, nil, newInsecureJelly(ErrTypeDenied, head)
	}

	switch Tag(head) {
	case TagNone:
		return u.handleNone(s)
	case TagUnpersistable:
		return u.handleUnpersistable(s)
	case TagPersistent:
		return u.handlePersistent(s)
	case TagReference:
		return u.handleReference(s)
	case TagDereference:
		return u.handleDereference(s)
	case TagModule:
		return u.handleModule(s)
	case TagClass:
		return u.handleClass(s)
	case TagFunction:
		return u.handleFunction(s)
	case TagMethod:
		return u.handleMethod(s)
	case TagList:
		return u.handleList(s)
	case TagDictionary:
		return u.handleDictionary(s)
	case TagTuple:
		return u.handleTuple(s)
	case TagInstance:
		return u.handleInstance(s)
	default:
		return nil, nil, newFormatError(ErrUnknownTag, head)
	}
}

func checkArity(s Sexp, n int, tag string) error {
	if s.Len() != n {
		return newFormatError(ErrBadArity, fmt.Sprintf("%s expects %d elements, got %d", tag, n, s.Len()))
	}
	return nil
}

func stringAtom(s Sexp, tag string) (string, error) {
	if s.IsAtom() && s.AtomKind() == AtomString {
		return s.StringValue(), nil
	}
	return "", newFormatError(ErrBadAtomType, tag)
}

func intAtom(s Sexp, tag string) (int64, error) {
	if s.IsAtom() && s.AtomKind() == AtomInt {
		return s.IntValue(), nil
	}
	return 0, newFormatError(ErrBadAtomType, tag)
}

func (u *Unjellier) handleNone(s Sexp) (*Promise, any, error) {
	if err := checkArity(s, 1, string(TagNone)); err != nil {
		return nil, nil, err
	}
	u.registerIdentity(nil)
	return nil, nil, nil
}

func (u *Unjellier) handleUnpersistable(s Sexp) (*Promise, any, error) {
	if err := checkArity(s, 2, string(TagUnpersistable)); err != nil {
		return nil, nil, err
	}
	reason, err := stringAtom(s.Elements()[1], "unpersistable reason")
	if err != nil {
		return nil, nil, err
	}
	val := Unpersistable{Reason: reason}
	u.registerIdentity(val)
	return nil, val, nil
}

func (u *Unjellier) handlePersistent(s Sexp) (*Promise, any, error) {
	if err := checkArity(s, 2, string(TagPersistent)); err != nil {
		return nil, nil, err
	}
	opaque, err := stringAtom(s.Elements()[1], "persistent opaque")
	if err != nil {
		return nil, nil, err
	}
	if u.load == nil {
		val := Unpersistable{Reason: "persistent callback not found"}
		u.registerIdentity(val)
		return nil, val, nil
	}
	value, promise, err := u.load(opaque)
	if err != nil {
		return nil, nil, err
	}
	u.registerIdentity(value)
	return promise, value, nil
}

func (u *Unjellier) handleReference(s Sexp) (*Promise, any, error) {
	if err := checkArity(s, 3, string(TagReference)); err != nil {
		return nil, nil, err
	}
	id, err := intAtom(s.Elements()[1], "reference id")
	if err != nil {
		return nil, nil, err
	}

	prevPending, prevID := u.hasPending, u.pendingID
	u.hasPending, u.pendingID = true, int(id)
	promise, value, err := u.decodeRaw(s.Elements()[2])
	if err != nil {
		u.hasPending, u.pendingID = prevPending, prevID
		return nil, nil, err
	}
	// The inner handler should have consumed the pending id via
	// registerIdentity. If it didn't (INNER was itself an atom, which
	// the format forbids), restore the outer pending state so the
	// reference isn't silently dropped.
	if u.hasPending && u.pendingID == int(id) {
		u.hasPending, u.pendingID = prevPending, prevID
		return nil, nil, newFormatError(ErrBadAtomType, "reference INNER must be a compound form")
	}
	// A handler that decodes a child before registering itself (a class
	// decoding its module, an instance decoding its class) lets that
	// child consume the pending id first, so the id is bound to INNER's
	// own value here, and an enclosing reference's still-open id is
	// handed back for its own handler to consume.
	u.identity[int(id)] = value
	u.hasPending, u.pendingID = prevPending, prevID
	return promise, value, nil
}

func (u *Unjellier) handleDereference(s Sexp) (*Promise, any, error) {
	if err := checkArity(s, 2, string(TagDereference)); err != nil {
		return nil, nil, err
	}
	id, err := intAtom(s.Elements()[1], "dereference id")
	if err != nil {
		return nil, nil, err
	}
	value, ok := u.identity[int(id)]
	if !ok {
		return nil, nil, newFormatError(ErrDanglingDereference, fmt.Sprintf("%d", id))
	}
	return nil, value, nil
}

func (u *Unjellier) handleModule(s Sexp) (*Promise, any, error) {
	if err := checkArity(s, 2, string(TagModule)); err != nil {
		return nil, nil, err
	}
	name, err := stringAtom(s.Elements()[1], "module name")
	if err != nil {
		return nil, nil, err
	}
	if !u.taster.ModuleAllowed(name) {
		emitSecurityReject("module " + name)
		return nil, nil, newInsecureJelly(ErrModuleDenied, name)
	}
	handle, ok := u.reflector.Module(name)
	if !ok {
		return nil, nil, newFormatError(ErrNoSuchModule, name)
	}
	u.registerIdentity(handle)
	return nil, handle, nil
}

func (u *Unjellier) handleClass(s Sexp) (*Promise, any, error) {
	if err := checkArity(s, 3, string(TagClass)); err != nil {
		return nil, nil, err
	}
	modVal, err := u.Decode(s.Elements()[1])
	if err != nil {
		return nil, nil, err
	}
	modHandle, ok := modVal.(ModuleHandle)
	if !ok {
		return nil, nil, newFormatError(ErrBadAtomType, "class MODULE position")
	}
	name, err := stringAtom(s.Elements()[2], "class name")
	if err != nil {
		return nil, nil, err
	}
	attr, ok := u.reflector.Attribute(modHandle, name)
	if !ok {
		return nil, nil, newFormatError(ErrNoSuchAttribute, modHandle.Name+"."+name)
	}
	class, ok := attr.(ClassHandle)
	if !ok {
		return nil, nil, newInsecureJelly(ErrNotAClass, modHandle.Name+"."+name)
	}
	if !u.taster.ClassAllowed(class) {
		emitSecurityReject("class " + classKey(class))
		return nil, nil, newInsecureJelly(ErrClassDenied, classKey(class))
	}
	u.registerIdentity(class)
	return nil, class, nil
}

func (u *Unjellier) handleFunction(s Sexp) (*Promise, any, error) {
	if err := checkArity(s, 3, string(TagFunction)); err != nil {
		return nil, nil, err
	}
	name, err := stringAtom(s.Elements()[1], "function name")
	if err != nil {
		return nil, nil, err
	}
	modVal, err := u.Decode(s.Elements()[2])
	if err != nil {
		return nil, nil, err
	}
	modHandle, ok := modVal.(ModuleHandle)
	if !ok {
		return nil, nil, newFormatError(ErrBadAtomType, "function MODULE position")
	}
	attr, ok := u.reflector.Attribute(modHandle, name)
	if !ok {
		return nil, nil, newFormatError(ErrNoSuchAttribute, modHandle.Name+"."+name)
	}
	fn, ok := attr.(FunctionHandle)
	if !ok {
		return nil, nil, newFormatError(ErrNoSuchAttribute, modHandle.Name+"."+name)
	}
	u.registerIdentity(fn)
	return nil, fn, nil
}

func (u *Unjellier) handleMethod(s Sexp) (*Promise, any, error) {
	if err := checkArity(s, 4, string(TagMethod)); err != nil {
		return nil, nil, err
	}
	name, err := stringAtom(s.Elements()[1], "method name")
	if err != nil {
		return nil, nil, err
	}

	selfPromise, selfVal, err := u.decodeRaw(s.Elements()[2])
	if err != nil {
		return nil, nil, err
	}

	classVal, err := u.Decode(s.Elements()[3])
	if err != nil {
		return nil, nil, err
	}
	classHandle, ok := classVal.(ClassHandle)
	if !ok {
		return nil, nil, newFormatError(ErrBadAtomType, "method CLASS position")
	}

	handle, err := u.reflector.BindMethod(classHandle, name, selfVal)
	if err != nil {
		return nil, nil, err
	}
	u.registerIdentity(handle)
	if err := selfPromise.Keep(); err != nil {
		return nil, nil, err
	}
	return nil, handle, nil
}

func (u *Unjellier) handleList(s Sexp) (*Promise, any, error) {
	list := &List{}
	u.registerIdentity(list)
	children := s.Elements()[1:]
	promise := newPromise(func() error {
		items := make([]any, 0, len(children))
		for _, c := range children {
			v, err := u.Decode(c)
			if err != nil {
				return err
			}
			items = append(items, v)
		}
		list.Items = items
		return nil
	})
	return promise, list, nil
}

func (u *Unjellier) handleDictionary(s Sexp) (*Promise, any, error) {
	dict := &Dict{}
	u.registerIdentity(dict)
	pairs := s.Elements()[1:]
	promise := newPromise(func() error {
		for _, pair := range pairs {
			if pair.Len() != 2 {
				return newFormatError(ErrBadArity, "dictionary pair")
			}
			k, err := u.Decode(pair.Elements()[0])
			if err != nil {
				return err
			}
			v, err := u.Decode(pair.Elements()[1])
			if err != nil {
				return err
			}
			dict.Set(k, v)
		}
		return nil
	})
	return promise, dict, nil
}

func (u *Unjellier) handleTuple(s Sexp) (*Promise, any, error) {
	// The tuple exists only once its children are decoded; hold back any
	// pending reference id meanwhile so no child compound claims it.
	hadPending, pendingID := u.hasPending, u.pendingID
	u.hasPending = false
	children := s.Elements()[1:]
	promises := make([]*Promise, len(children))
	items := make([]any, len(children))
	for i, c := range children {
		p, v, err := u.decodeRaw(c)
		if err != nil {
			return nil, nil, err
		}
		promises[i] = p
		items[i] = v
	}
	tuple := NewTuple(items...)
	u.hasPending, u.pendingID = hadPending, pendingID
	u.registerIdentity(tuple)
	for _, p := range promises {
		if err := p.Keep(); err != nil {
			return nil, nil, err
		}
	}
	return nil, tuple, nil
}

func (u *Unjellier) handleInstance(s Sexp) (*Promise, any, error) {
	if err := checkArity(s, 3, string(TagInstance)); err != nil {
		return nil, nil, err
	}
	classVal, err := u.Decode(s.Elements()[1])
	if err != nil {
		return nil, nil, err
	}
	classHandle, ok := classVal.(ClassHandle)
	if !ok {
		return nil, nil, newInsecureJelly(ErrNotAClass, "instance CLASS position")
	}

	instance, err := u.reflector.NewInstance(classHandle)
	if err != nil {
		return nil, nil, err
	}
	u.registerIdentity(instance)

	stateSexp := s.Elements()[2]
	promise := newPromise(func() error {
		stateVal, err := u.Decode(stateSexp)
		if err != nil {
			return err
		}
		stateDict, ok := stateVal.(*Dict)
		if !ok {
			return newFormatError(ErrBadAtomType, "instance STATE position")
		}
		return u.reflector.ImportState(instance, dictToMap(stateDict))
	})
	return promise, instance, nil
}

func dictToMap(d *Dict) map[string]any {
	m := make(map[string]any, len(d.Pairs))
	for _, p := range d.Pairs {
		if k, ok := p.Key.(string); ok {
			m[k] = p.Value
		}
	}
	return m
}
