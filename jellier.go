package jelly

import (
	"fmt"
	"reflect"
	"sort"
)

// slot is the mutable list a compound object is built into while the
// Jellier is filling its children, per the prepare/fill/preserve
// protocol of §4.3. Children that are themselves compound are appended
// as the *slot building them, not as a finished Sexp: two parents that
// share a child end up holding the same *slot pointer, and sharing
// survives however deep the parent has already been built by the time
// the second occurrence is found. A single resolve pass at the very
// end of the Jelly call walks this any/*slot graph once and decides,
// per slot, whether it was ever looked up twice (cookedID != 0) and so
// needs a (reference id ...)/(dereference id) wrapper.
type slot struct {
	elems    []any
	cookedID int
}

func (s *slot) append(e any) {
	s.elems = append(s.elems, e)
}

// jellier is the encoder described in §4.3. One jellier serves exactly
// one Jelly call; its preserved/emitted maps are discarded on return.
type jellier struct {
	taster    Taster
	reflector Reflector
	store     PersistentStoreFunc
	nextID    int
	preserved map[any]*slot
	emitted   map[*slot]bool
}

func newJellier(taster Taster, reflector Reflector, store PersistentStoreFunc) *jellier {
	return &jellier{
		taster:    taster,
		reflector: reflector,
		store:     store,
		preserved: make(map[any]*slot),
		emitted:   make(map[*slot]bool),
	}
}

func (j *jellier) allocID() int {
	j.nextID++
	return j.nextID
}

// lookup resolves key against the preserved map. ok is false only the
// first time key is seen. The second time, the slot is assigned a
// cooked id if it doesn't have one yet; the same *slot is handed back
// on every occurrence so every parent embeds the identical pointer and
// resolve can later place the reference/dereference wrappers in a
// single pass, regardless of how much of the first occurrence's parent
// chain had already returned by the time the second occurrence turned
// up.
func (j *jellier) lookup(key any) (*slot, bool) {
	sl, ok := j.preserved[key]
	if !ok {
		return nil, false
	}
	if sl.cookedID == 0 {
		sl.cookedID = j.allocID()
	}
	return sl, true
}

func (j *jellier) prepare(key any) *slot {
	sl := &slot{}
	j.preserved[key] = sl
	return sl
}

// encodeCompound implements the prepare/fill/preserve pattern for any
// compound host type, keyed by its identity. It returns the *slot
// itself, not a Sexp: materializing the final wire form is deferred to
// resolve, which runs once after the whole graph has been built.
func (j *jellier) encodeCompound(key any, build func(*slot) error) (any, error) {
	if sl, ok := j.lookup(key); ok {
		return sl, nil
	}
	sl := j.prepare(key)
	if err := build(sl); err != nil {
		return nil, err
	}
	return sl, nil
}

// encode is the recursive entry point. Scalars are emitted directly as
// Sexp without identity tracking (§4.3 item 3); every compound host
// type goes through encodeCompound and comes back as a *slot. Callers
// that hold the top-level result must run it through resolve before
// treating it as a Sexp.
func (j *jellier) encode(v any) (any, error) {
	if v == nil {
		return List(String(string(TagNone))), nil
	}

	switch val := v.(type) {
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint:
		return Int(int64(val)), nil
	case uint8:
		return Int(int64(val)), nil
	case uint16:
		return Int(int64(val)), nil
	case uint32:
		return Int(int64(val)), nil
	case uint64:
		return Int(int64(val)), nil
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case Unpersistable:
		return List(String(string(TagUnpersistable)), String(val.Reason)), nil
	case *List:
		return j.encodeList(val)
	case *Tuple:
		return j.encodeTuple(val)
	case *Dict:
		return j.encodeDict(val)
	case ClassHandle:
		return j.encodeClass(val)
	case ModuleHandle:
		return j.encodeModule(val)
	case FunctionHandle:
		return j.encodeFunction(val)
	case MethodHandle:
		return j.encodeMethod(val)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return List(String(string(TagNone))), nil
		}
		if rv.Elem().Kind() == reflect.Struct {
			return j.encodeInstance(v)
		}
	case reflect.Func:
		return nil, newEncodeError(ErrBuiltinCallable, fmt.Sprintf("%T", v))
	}

	return nil, newEncodeError(ErrBuiltinCallable, fmt.Sprintf("cannot jelly %T", v))
}

// resolve turns the any/*slot graph rooted at n into a concrete Sexp
// tree. It is the single point at which reference/dereference wrappers
// are decided: a *slot whose cookedID is still zero was only ever
// looked up once and flattens to a plain list; a *slot with a cookedID
// was looked up a second time somewhere in the graph and gets wrapped
// in (reference id ...) the first time resolve reaches it and
// (dereference id) every time after. emitted is marked before
// recursing into a slot's own children so a slot that is cyclic through
// itself resolves its own inner occurrence to a dereference instead of
// recursing forever.
func (j *jellier) resolve(n any) Sexp {
	switch v := n.(type) {
	case Sexp:
		return v
	case *slot:
		if v.cookedID == 0 {
			return j.resolveElems(v.elems)
		}
		if j.emitted[v] {
			return List(String(string(TagDereference)), Int(int64(v.cookedID)))
		}
		j.emitted[v] = true
		inner := j.resolveElems(v.elems)
		return List(String(string(TagReference)), Int(int64(v.cookedID)), inner)
	default:
		panic(fmt.Sprintf("jellier: unresolved node type %T", n))
	}
}

func (j *jellier) resolveElems(elems []any) Sexp {
	items := make([]Sexp, len(elems))
	for i, e := range elems {
		items[i] = j.resolve(e)
	}
	return List(items...)
}

func (j *jellier) encodeList(v *List) (any, error) {
	key := reflect.ValueOf(v).Pointer()
	return j.encodeCompound(key, func(sl *slot) error {
		sl.append(String(string(TagList)))
		for _, item := range v.Items {
			child, err := j.encode(item)
			if err != nil {
				return err
			}
			sl.append(child)
		}
		return nil
	})
}

func (j *jellier) encodeTuple(v *Tuple) (any, error) {
	key := reflect.ValueOf(v).Pointer()
	return j.encodeCompound(key, func(sl *slot) error {
		sl.append(String(string(TagTuple)))
		for _, item := range v.Items {
			child, err := j.encode(item)
			if err != nil {
				return err
			}
			sl.append(child)
		}
		return nil
	})
}

func (j *jellier) encodeDict(v *Dict) (any, error) {
	key := reflect.ValueOf(v).Pointer()
	return j.encodeCompound(key, func(sl *slot) error {
		sl.append(String(string(TagDictionary)))
		for _, pair := range v.Pairs {
			k, err := j.encode(pair.Key)
			if err != nil {
				return err
			}
			val, err := j.encode(pair.Value)
			if err != nil {
				return err
			}
			// An unregistered, anonymous slot: it never appears as a
			// preserved-map value, so its cookedID stays zero forever
			// and resolve flattens it to a plain two-element list. It
			// exists only to carry a still-unresolved *slot child (k
			// or val may itself be shared) through to the final pass.
			sl.append(&slot{elems: []any{k, val}})
		}
		return nil
	})
}

func (j *jellier) encodeInstance(v any) (any, error) {
	rv := reflect.ValueOf(v)
	key := rv.Pointer()
	return j.encodeCompound(key, func(sl *slot) error {
		if j.store != nil {
			if opaque, ok := j.store(v); ok {
				sl.append(String(string(TagPersistent)))
				sl.append(String(opaque))
				return nil
			}
		}
		if p, ok := v.(Persistable); ok {
			if opaque, persist := p.PersistentKey(); persist {
				sl.append(String(string(TagPersistent)))
				sl.append(String(opaque))
				return nil
			}
		}

		class, ok := j.reflector.ClassOf(v)
		if !ok {
			sl.append(String(string(TagUnpersistable)))
			sl.append(String(RedactingReason("unregistered type: " + rv.Type().String())))
			return nil
		}
		if !j.taster.ModuleAllowed(class.Module) || !j.taster.ClassAllowed(class) {
			reason := RedactingReason(fmt.Sprintf("class %s.%s not allowed", class.Module, class.Name))
			emitSecurityReject(reason)
			sl.append(String(string(TagUnpersistable)))
			sl.append(String(reason))
			return nil
		}

		sl.append(String(string(TagInstance)))
		classNode, err := j.encode(class)
		if err != nil {
			return err
		}
		sl.append(classNode)

		state, err := j.reflector.ExportState(v)
		if err != nil {
			return err
		}
		if masker, ok := v.(Maskable); ok {
			state, err = masker.MaskState(state)
			if err != nil {
				return err
			}
		}
		stateNode, err := j.encodeStateMap(state)
		if err != nil {
			return err
		}
		sl.append(stateNode)
		return nil
	})
}

// encodeStateMap builds a dictionary node from an instance's exported
// state, sorted by key. The sort is not a wire contract (§3.1 says
// associative key order is never one) — it just makes output
// deterministic for testing. The result is an anonymous, unregistered
// *slot: it is never shared under an identity key, so it always
// flattens to a plain dictionary list in resolve.
func (j *jellier) encodeStateMap(state map[string]any) (any, error) {
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	elems := make([]any, 0, len(keys)+1)
	elems = append(elems, String(string(TagDictionary)))
	for _, k := range keys {
		v, err := j.encode(state[k])
		if err != nil {
			return nil, err
		}
		elems = append(elems, &slot{elems: []any{String(k), v}})
	}
	return &slot{elems: elems}, nil
}

func (j *jellier) encodeClass(c ClassHandle) (any, error) {
	key := "class:" + classKey(c)
	return j.encodeCompound(key, func(sl *slot) error {
		if !j.taster.ModuleAllowed(c.Module) || !j.taster.ClassAllowed(c) {
			reason := RedactingReason("class " + classKey(c) + " not allowed")
			emitSecurityReject(reason)
			sl.append(String(string(TagUnpersistable)))
			sl.append(String(reason))
			return nil
		}
		sl.append(String(string(TagClass)))
		modNode, err := j.encode(ModuleHandle{Name: c.Module})
		if err != nil {
			return err
		}
		sl.append(modNode)
		sl.append(String(c.Name))
		return nil
	})
}

func (j *jellier) encodeModule(m ModuleHandle) (any, error) {
	key := "module:" + m.Name
	return j.encodeCompound(key, func(sl *slot) error {
		if !j.taster.ModuleAllowed(m.Name) {
			reason := RedactingReason("module not allowed: " + m.Name)
			emitSecurityReject(reason)
			sl.append(String(string(TagUnpersistable)))
			sl.append(String(reason))
			return nil
		}
		sl.append(String(string(TagModule)))
		sl.append(String(m.Name))
		return nil
	})
}

func (j *jellier) encodeFunction(f FunctionHandle) (any, error) {
	key := "function:" + f.Module + "." + f.Name
	return j.encodeCompound(key, func(sl *slot) error {
		if !j.taster.ModuleAllowed(f.Module) {
			reason := RedactingReason("module not allowed: " + f.Module)
			emitSecurityReject(reason)
			sl.append(String(string(TagUnpersistable)))
			sl.append(String(reason))
			return nil
		}
		sl.append(String(string(TagFunction)))
		sl.append(String(f.Name))
		modNode, err := j.encode(ModuleHandle{Name: f.Module})
		if err != nil {
			return err
		}
		sl.append(modNode)
		return nil
	})
}

func (j *jellier) encodeMethod(m MethodHandle) (any, error) {
	key := fmt.Sprintf("method:%s:%s", m.Name, classKey(m.Class))
	if m.Self != nil {
		if rv := reflect.ValueOf(m.Self); rv.Kind() == reflect.Pointer {
			key = fmt.Sprintf("%s:%d", key, rv.Pointer())
		}
	}
	return j.encodeCompound(key, func(sl *slot) error {
		sl.append(String(string(TagMethod)))
		sl.append(String(m.Name))

		var selfNode any
		var err error
		if m.Self == nil {
			selfNode = List(String(string(TagNone)))
		} else {
			selfNode, err = j.encode(m.Self)
			if err != nil {
				return err
			}
		}
		sl.append(selfNode)

		classNode, err := j.encode(m.Class)
		if err != nil {
			return err
		}
		sl.append(classNode)
		return nil
	})
}
