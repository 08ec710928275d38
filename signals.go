package jelly

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for jelly/unjelly lifecycle events.
var (
	SignalJellyStart     = capitan.NewSignal("jelly.jelly.start", "Jelly call beginning")
	SignalJellyComplete  = capitan.NewSignal("jelly.jelly.complete", "Jelly call finished")
	SignalUnjellyStart   = capitan.NewSignal("jelly.unjelly.start", "Unjelly call beginning")
	SignalUnjellyComplete = capitan.NewSignal("jelly.unjelly.complete", "Unjelly call finished")
	SignalSecurityReject = capitan.NewSignal("jelly.security.reject", "Taster rejected a tag, module, or class")
)

// Keys for typed event data.
var (
	KeyDuration  = capitan.NewDurationKey("duration")
	KeyError     = capitan.NewErrorKey("error")
	KeyNodeCount = capitan.NewIntKey("node_count")
	KeyRefCount  = capitan.NewIntKey("ref_count")
	KeyDetail    = capitan.NewStringKey("detail")
)

func emitJellyStart() {
	capitan.Emit(context.Background(), SignalJellyStart)
}

func emitJellyComplete(duration time.Duration, refs int, err error) {
	ctx := context.Background()
	fields := []capitan.Field{
		KeyDuration.Field(duration),
		KeyRefCount.Field(refs),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalJellyComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalJellyComplete, fields...)
}

func emitUnjellyStart() {
	capitan.Emit(context.Background(), SignalUnjellyStart)
}

func emitUnjellyComplete(duration time.Duration, err error) {
	ctx := context.Background()
	fields := []capitan.Field{
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalUnjellyComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalUnjellyComplete, fields...)
}

func emitSecurityReject(detail string) {
	capitan.Emit(context.Background(), SignalSecurityReject, KeyDetail.Field(detail))
}
