package jelly

import (
	"errors"
	"testing"
	"time"
)

func TestEmitJellyStart(_ *testing.T) {
	emitJellyStart()
}

func TestEmitJellyComplete_Success(_ *testing.T) {
	emitJellyComplete(100*time.Millisecond, 3, nil)
}

func TestEmitJellyComplete_Error(_ *testing.T) {
	emitJellyComplete(100*time.Millisecond, 0, errors.New("test error"))
}

func TestEmitUnjellyStart(_ *testing.T) {
	emitUnjellyStart()
}

func TestEmitUnjellyComplete_Success(_ *testing.T) {
	emitUnjellyComplete(100 * time.Millisecond, nil)
}

func TestEmitUnjellyComplete_Error(_ *testing.T) {
	emitUnjellyComplete(100*time.Millisecond, errors.New("test error"))
}

func TestEmitSecurityReject(_ *testing.T) {
	emitSecurityReject("class not allowed: myapp.Secret")
}

func TestSignalVariables(t *testing.T) {
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalJellyStart", SignalJellyStart},
		{"SignalJellyComplete", SignalJellyComplete},
		{"SignalUnjellyStart", SignalUnjellyStart},
		{"SignalUnjellyComplete", SignalUnjellyComplete},
		{"SignalSecurityReject", SignalSecurityReject},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s is nil", s.name)
		}
	}
}

func TestKeyVariables(t *testing.T) {
	keys := []struct {
		name string
		key  interface{}
	}{
		{"KeyDuration", KeyDuration},
		{"KeyError", KeyError},
		{"KeyNodeCount", KeyNodeCount},
		{"KeyRefCount", KeyRefCount},
		{"KeyDetail", KeyDetail},
	}

	for _, k := range keys {
		if k.key == nil {
			t.Errorf("%s is nil", k.name)
		}
	}
}
