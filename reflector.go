package jelly

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

func init() {
	sentinel.Tag("jelly")
	sentinel.Tag("jelly.mask")
}

// ModuleHandle names a module the Reflector can resolve attributes
// from. Two ModuleHandles are equal iff their Name fields are equal.
type ModuleHandle struct {
	Name string
}

// ClassHandle names a registered class: a module plus a name, carrying
// the reflect.Type used to construct and populate instances.
type ClassHandle struct {
	Module string
	Name   string
	Type   reflect.Type
}

// FunctionHandle names a top-level function resolved from a module.
type FunctionHandle struct {
	Name   string
	Module string
	fn     reflect.Value
}

// MethodHandle names a bound or unbound method. Self is nil for an
// unbound method.
type MethodHandle struct {
	Name  string
	Self  any
	Class ClassHandle
	fn    reflect.Value
}

// StateExporter lets an instance bypass reflection when producing the
// STATE value jellied alongside its class. Implement this when a type's
// portable state differs from its raw attribute map.
type StateExporter interface {
	ExportState() (map[string]any, error)
}

// StateImporter lets an instance bypass reflection when installing a
// decoded STATE value. Implement this alongside StateExporter.
type StateImporter interface {
	ImportState(map[string]any) error
}

// Reflector is the host bridge the core consumes to resolve modules,
// classes, and functions by name, to read and restore instance state,
// and to construct bound or unbound method handles. The core never
// touches host reflection outside this abstraction.
type Reflector interface {
	// Module resolves a module by name.
	Module(name string) (ModuleHandle, bool)

	// Attribute resolves a name on a module to a ClassHandle,
	// FunctionHandle, or other exported value.
	Attribute(module ModuleHandle, name string) (any, bool)

	// ClassOf returns the registered class of a live instance.
	ClassOf(instance any) (ClassHandle, bool)

	// ExportState returns the portable state of a live instance: the
	// result of its StateExporter hook if it implements one, else its
	// attribute map.
	ExportState(instance any) (map[string]any, error)

	// NewInstance constructs a zero-valued instance of class, ready for
	// ImportState.
	NewInstance(class ClassHandle) (any, error)

	// ImportState installs state into instance: via its StateImporter
	// hook if it implements one, else by replacing its attribute map.
	ImportState(instance any, state map[string]any) error

	// MethodInfo decomposes a method handle into its name, optional
	// self, and owning class.
	MethodInfo(handle MethodHandle) (name string, self any, class ClassHandle, ok bool)

	// BindMethod constructs a bound (self != nil) or unbound method
	// handle for a named method of class.
	BindMethod(class ClassHandle, name string, self any) (MethodHandle, error)
}

// StrictMethodLookup controls whether Registry.BindMethod requires the
// method name to be present in the method set recorded for the class
// at RegisterClass time. That set is Go's method set of *T and T, so it
// includes methods promoted from embedded fields: strict mode does not
// tell a type's own methods apart from promoted ones. When false, the
// check is skipped; a bound method must still resolve on self, and an
// unbound method name is accepted unchecked. The source this spec was
// ported from raises on a missing name; whether inherited methods
// should resolve is left ambiguous there, so this is a knob rather than
// a hardcoded choice. Default: true.
var StrictMethodLookup = true

// classPlan is the cached, reflection-derived shape of a registered
// class: which exported fields participate in STATE, under what name,
// and with what mask applied on export. Built once per type via
// sentinel and reused for every instance of that type.
type classPlan struct {
	typeName string
	fields   []fieldPlan
	methods  map[string]reflect.Method
}

type fieldPlan struct {
	index   []int
	name    string
	maskKey MaskType
	masked  bool
}

// Registry is the default Reflector: a concrete, explicit store of
// modules, classes, and functions that host code populates ahead of
// time. In a statically typed target this replaces the dynamic
// module/class lookup a reflective host provides natively.
//
// Registry is safe for concurrent use after construction; Register*
// calls are safe to interleave with Jelly/Unjelly calls but registering
// the same class twice is not idempotent and will overwrite the plan.
type Registry struct {
	mu        sync.RWMutex
	modules   map[string]ModuleHandle
	classes   map[reflect.Type]ClassHandle
	byName    map[string]ClassHandle // "module.Name" -> handle
	functions map[string]FunctionHandle
	plans     map[reflect.Type]*classPlan
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		modules:   make(map[string]ModuleHandle),
		classes:   make(map[reflect.Type]ClassHandle),
		byName:    make(map[string]ClassHandle),
		functions: make(map[string]FunctionHandle),
		plans:     make(map[reflect.Type]*classPlan),
	}
}

// RegisterModule declares a module name as resolvable, with no classes
// or functions of its own yet.
func (r *Registry) RegisterModule(name string) ModuleHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := ModuleHandle{Name: name}
	r.modules[name] = h
	return h
}

// RegisterClass scans T via sentinel, builds and caches its field
// plan, and registers it under module/name. T must be a struct type.
func RegisterClass[T any](r *Registry, module, name string) (ClassHandle, error) {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ == nil || typ.Kind() != reflect.Struct {
		return ClassHandle{}, newConfigError(ErrNoSuchAttribute, "", name)
	}

	plan, err := buildClassPlan[T]()
	if err != nil {
		return ClassHandle{}, err
	}

	handle := ClassHandle{Module: module, Name: name, Type: typ}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[module] = ModuleHandle{Name: module}
	r.classes[typ] = handle
	r.byName[module+"."+name] = handle
	r.plans[typ] = plan
	return handle, nil
}

// RegisterFunction registers a top-level function value under
// module/name. fn must be a func value; it is stored for Attribute
// resolution and bound-method construction is not applicable to it.
func (r *Registry) RegisterFunction(module, name string, fn any) (FunctionHandle, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return FunctionHandle{}, newConfigError(ErrNoSuchAttribute, "", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[module] = ModuleHandle{Name: module}
	h := FunctionHandle{Name: name, Module: module, fn: rv}
	r.functions[module+"."+name] = h
	return h, nil
}

func buildClassPlan[T any]() (*classPlan, error) {
	spec := sentinel.Scan[T]()
	plan := &classPlan{typeName: spec.TypeName, methods: make(map[string]reflect.Method)}

	for _, field := range spec.Fields {
		fp := fieldPlan{index: field.Index, name: field.Name}
		if renamed, ok := field.Tags["jelly"]; ok && renamed != "" {
			fp.name = renamed
		}
		if mv, ok := field.Tags["jelly.mask"]; ok {
			if !IsValidMaskType(MaskType(mv)) {
				return nil, newConfigError(ErrMissingMasker, mv, fp.name)
			}
			fp.masked = true
			fp.maskKey = MaskType(mv)
		}
		plan.fields = append(plan.fields, fp)
	}

	typ := reflect.TypeFor[T]()
	ptrTyp := reflect.PointerTo(typ)
	for i := 0; i < ptrTyp.NumMethod(); i++ {
		m := ptrTyp.Method(i)
		plan.methods[m.Name] = m
	}
	for i := 0; i < typ.NumMethod(); i++ {
		m := typ.Method(i)
		if _, exists := plan.methods[m.Name]; !exists {
			plan.methods[m.Name] = m
		}
	}

	return plan, nil
}

func (r *Registry) planFor(typ reflect.Type) (*classPlan, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plans[typ]
	return p, ok
}

// Module implements Reflector.
func (r *Registry) Module(name string) (ModuleHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.modules[name]
	return h, ok
}

// Attribute implements Reflector.
func (r *Registry) Attribute(module ModuleHandle, name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := module.Name + "." + name
	if c, ok := r.byName[key]; ok {
		return c, true
	}
	if f, ok := r.functions[key]; ok {
		return f, true
	}
	return nil, false
}

// ClassOf implements Reflector.
func (r *Registry) ClassOf(instance any) (ClassHandle, bool) {
	typ := reflect.TypeOf(instance)
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[typ]
	return c, ok
}

// ExportState implements Reflector.
func (r *Registry) ExportState(instance any) (map[string]any, error) {
	if exporter, ok := instance.(StateExporter); ok {
		return exporter.ExportState()
	}

	rv := reflect.ValueOf(instance)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	plan, ok := r.planFor(rv.Type())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchAttribute, rv.Type().String())
	}

	state := make(map[string]any, len(plan.fields))
	for _, fp := range plan.fields {
		fv := rv.FieldByIndex(fp.index)
		val := fv.Interface()
		if fp.masked {
			if s, ok := val.(string); ok {
				masked, err := applyMask(fp.maskKey, s)
				if err != nil {
					return nil, err
				}
				val = masked
			}
		}
		state[fp.name] = val
	}
	return state, nil
}

// NewInstance implements Reflector.
func (r *Registry) NewInstance(class ClassHandle) (any, error) {
	if class.Type == nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrNoSuchAttribute, class.Module, class.Name)
	}
	return reflect.New(class.Type).Interface(), nil
}

// ImportState implements Reflector.
func (r *Registry) ImportState(instance any, state map[string]any) error {
	if importer, ok := instance.(StateImporter); ok {
		return importer.ImportState(state)
	}

	rv := reflect.ValueOf(instance)
	if rv.Kind() != reflect.Pointer {
		return fmt.Errorf("%w: ImportState requires a pointer receiver", ErrNoSuchAttribute)
	}
	rv = rv.Elem()
	plan, ok := r.planFor(rv.Type())
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchAttribute, rv.Type().String())
	}

	for _, fp := range plan.fields {
		val, present := state[fp.name]
		if !present {
			continue
		}
		fv := rv.FieldByIndex(fp.index)
		if !fv.CanSet() {
			continue
		}
		rvv := reflect.ValueOf(val)
		if rvv.IsValid() && rvv.Type().AssignableTo(fv.Type()) {
			fv.Set(rvv)
		} else if rvv.IsValid() && rvv.Type().ConvertibleTo(fv.Type()) {
			fv.Set(rvv.Convert(fv.Type()))
		}
	}
	return nil
}

// MethodInfo implements Reflector.
func (r *Registry) MethodInfo(handle MethodHandle) (string, any, ClassHandle, bool) {
	return handle.Name, handle.Self, handle.Class, true
}

// BindMethod implements Reflector.
func (r *Registry) BindMethod(class ClassHandle, name string, self any) (MethodHandle, error) {
	typ := class.Type
	if typ == nil {
		return MethodHandle{}, fmt.Errorf("%w: %s", ErrNoSuchMethod, name)
	}

	plan, ok := r.planFor(typ)
	if StrictMethodLookup {
		if !ok {
			return MethodHandle{}, fmt.Errorf("%w: %s", ErrNoSuchMethod, name)
		}
		if _, ok := plan.methods[name]; !ok {
			return MethodHandle{}, fmt.Errorf("%w: %s on %s", ErrNoSuchMethod, name, class.Name)
		}
	}

	var fn reflect.Value
	if self != nil {
		rv := reflect.ValueOf(self)
		m := rv.MethodByName(name)
		if !m.IsValid() && rv.Kind() != reflect.Pointer {
			pv := reflect.New(rv.Type())
			pv.Elem().Set(rv)
			m = pv.MethodByName(name)
		}
		if !m.IsValid() {
			return MethodHandle{}, fmt.Errorf("%w: %s", ErrNoSuchMethod, name)
		}
		fn = m
	}

	return MethodHandle{Name: name, Self: self, Class: class, fn: fn}, nil
}
