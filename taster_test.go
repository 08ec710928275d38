package jelly

import "testing"

func TestPermissiveTaster(t *testing.T) {
	p := Permissive()
	if !p.TypeAllowed(string(TagInstance)) {
		t.Error("Permissive should allow any tag")
	}
	if !p.ModuleAllowed("anything") {
		t.Error("Permissive should allow any module")
	}
	if !p.ClassAllowed(ClassHandle{Module: "m", Name: "C"}) {
		t.Error("Permissive should allow any class")
	}
}

func TestRestrictiveTasterDefaults(t *testing.T) {
	r := Restrictive()
	if !r.TypeAllowed(AtomTypeNone) || !r.TypeAllowed(AtomTypeString) {
		t.Error("Restrictive should allow primitive atom types by default")
	}
	if r.TypeAllowed(string(TagInstance)) {
		t.Error("Restrictive should deny TagInstance by default")
	}
	if r.ModuleAllowed("anything") {
		t.Error("Restrictive should deny all modules by default")
	}
	if r.ClassAllowed(ClassHandle{Module: "m", Name: "C"}) {
		t.Error("Restrictive should deny all classes by default")
	}
}

func TestAllowClassFingerprintAdmitsMatchingDigest(t *testing.T) {
	class := ClassHandle{Module: "testapp", Name: "Account"}
	digest, err := ClassFingerprint(class)
	if err != nil {
		t.Fatalf("ClassFingerprint() error: %v", err)
	}

	r := Restrictive().AllowClassFingerprint(digest)
	if !r.ClassAllowed(class) {
		t.Error("AllowClassFingerprint should admit a class whose key hashes to the allowed digest")
	}

	other := ClassHandle{Module: "testapp", Name: "Other"}
	if r.ClassAllowed(other) {
		t.Error("AllowClassFingerprint should not admit a class with a different digest")
	}
}

func TestAllowClassFingerprintEmptyDeniesEverything(t *testing.T) {
	r := Restrictive()
	if r.ClassAllowed(ClassHandle{Module: "testapp", Name: "Account"}) {
		t.Error("no fingerprints allowed means no class should match")
	}
}

func TestAllowInstancesOfStillWorksAlongsideFingerprints(t *testing.T) {
	class := ClassHandle{Module: "testapp", Name: "Account"}
	other := ClassHandle{Module: "testapp", Name: "Other"}
	digest, _ := ClassFingerprint(other)

	r := Restrictive().AllowInstancesOf(class).AllowClassFingerprint(digest)
	if !r.ClassAllowed(class) {
		t.Error("explicitly allowed class should remain allowed")
	}
	if !r.ClassAllowed(other) {
		t.Error("fingerprint-allowed class should be allowed")
	}
}
