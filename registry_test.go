package jelly

import "testing"

type registryTestUser struct {
	Name string
	SSN  string `jelly.mask:"ssn"`
}

func TestRegisterClass_ResolvesByModuleAndName(t *testing.T) {
	reg := NewRegistry()
	class, err := RegisterClass[registryTestUser](reg, "myapp", "User")
	if err != nil {
		t.Fatalf("RegisterClass() error: %v", err)
	}

	module, ok := reg.Module("myapp")
	if !ok {
		t.Fatal("Module(\"myapp\") not found")
	}
	attr, ok := reg.Attribute(module, "User")
	if !ok {
		t.Fatal("Attribute(\"User\") not found")
	}
	got, ok := attr.(ClassHandle)
	if !ok || got != class {
		t.Errorf("Attribute() = %v, want %v", attr, class)
	}
}

func TestRegisterClass_InvalidMaskTag(t *testing.T) {
	type badMaskUser struct {
		Field string `jelly.mask:"not-a-real-mask"`
	}
	reg := NewRegistry()
	_, err := RegisterClass[badMaskUser](reg, "myapp", "Bad")
	if err == nil {
		t.Fatal("expected error for invalid jelly.mask tag")
	}
}

func TestClassOf_MatchesRegisteredType(t *testing.T) {
	reg := NewRegistry()
	class, err := RegisterClass[registryTestUser](reg, "myapp", "User")
	if err != nil {
		t.Fatalf("RegisterClass() error: %v", err)
	}

	got, ok := reg.ClassOf(&registryTestUser{Name: "Alice"})
	if !ok || got != class {
		t.Errorf("ClassOf() = %v, %v, want %v, true", got, ok, class)
	}
}

func TestRegistry_Reset(t *testing.T) {
	reg := NewRegistry()
	if _, err := RegisterClass[registryTestUser](reg, "myapp", "User"); err != nil {
		t.Fatalf("RegisterClass() error: %v", err)
	}

	reg.Reset()

	if _, ok := reg.Module("myapp"); ok {
		t.Error("Module(\"myapp\") should be gone after Reset")
	}
	if _, ok := reg.ClassOf(&registryTestUser{}); ok {
		t.Error("ClassOf() should be gone after Reset")
	}
}

func TestRegisterModule_SameModuleTwiceReusesHandle(t *testing.T) {
	reg := NewRegistry()
	h1 := reg.RegisterModule("myapp")
	h2 := reg.RegisterModule("myapp")
	if h1.Name != h2.Name {
		t.Errorf("RegisterModule() names differ: %q vs %q", h1.Name, h2.Name)
	}
}
