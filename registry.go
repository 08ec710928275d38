package jelly

import "reflect"

// Reset clears every registered module, class, function, and cached
// class plan. It exists for test isolation between cases that register
// conflicting classes under the same name.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = make(map[string]ModuleHandle)
	r.classes = make(map[reflect.Type]ClassHandle)
	r.byName = make(map[string]ClassHandle)
	r.functions = make(map[string]FunctionHandle)
	r.plans = make(map[reflect.Type]*classPlan)
}
